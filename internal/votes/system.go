// Package votes runs live rating-table sessions: it loads committee cases
// into table sessions, serializes intent application, dispatches the
// asynchronous symbol lookups added rows need, and drives save and close
// against case persistence and the vote archive.
package votes

import (
	"context"

	"github.com/google/uuid"

	"github.com/ratingsdesk/quorum/internal/entities"
	"github.com/ratingsdesk/quorum/internal/table"
)

// SessionState is the externally visible state of a live session: case
// context, both view trees, and the table-level readiness signals.
type SessionState struct {
	ID              uuid.UUID                       `json:"id"`
	CaseID          string                          `json:"case_id"`
	CommitteeNumber int                             `json:"committee_number"`
	Name            string                          `json:"name"`
	Tally           entities.VoteTally              `json:"tally"`
	Valid           bool                            `json:"valid"`
	Views           map[table.ViewType][]*table.Row `json:"views"`
}

// System defines the public contract for vote session operations.
type System interface {
	Handler() *Handler

	// Create loads a committee case and opens a live session for it.
	// Pre-existing added rows are re-resolved before the state returns.
	Create(ctx context.Context, caseID string, committeeNumber int) (*SessionState, error)

	// State returns the current session state.
	State(id uuid.UUID) (*SessionState, error)

	// View returns one view's group rows.
	View(id uuid.UUID, view table.ViewType) ([]*table.Row, error)

	// Apply runs one intent against the session. Symbol lookups the intent
	// triggers run asynchronously after Apply returns.
	Apply(ctx context.Context, id uuid.UUID, intent table.Intent) (*table.Effects, error)

	// Payload assembles the save contract from the session's current state.
	Payload(id uuid.UUID) (*entities.VotePayload, error)

	// Save persists the session's current state without closing the case.
	Save(ctx context.Context, id uuid.UUID) error

	// Close persists the finalized state, archives a snapshot, stamps the
	// case closed, and discards the session. The table must be valid and
	// carry a committed tally.
	Close(ctx context.Context, id uuid.UUID) error

	// Delete discards a live session without saving.
	Delete(id uuid.UUID) error
}
