package entities

import (
	"context"

	"github.com/google/uuid"

	"github.com/ratingsdesk/quorum/pkg/pagination"
)

// System defines the public contract for entity domain operations.
// LoadCase and SaveVote form the fetch/save collaborator boundary
// the vote workflow operates against.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Summary], error)

	Find(ctx context.Context, id uuid.UUID) (*Summary, error)

	// LoadCase assembles the full committee-case model: ordered entities with
	// their rating classes, debts, ratings, and outlooks.
	LoadCase(ctx context.Context, caseID string, committeeNumber int) (*CommitteeCase, error)

	// SaveVote persists a transformed vote payload: the table-wide tally plus
	// every finalized rating, including interactively added rows.
	SaveVote(ctx context.Context, payload *VotePayload) error

	// CloseCase stamps the committee case closed. SaveVote must have persisted
	// the finalized payload first.
	CloseCase(ctx context.Context, caseID string, committeeNumber int) error
}
