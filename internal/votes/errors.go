package votes

import (
	"errors"
	"net/http"

	"github.com/ratingsdesk/quorum/internal/entities"
	"github.com/ratingsdesk/quorum/internal/table"
)

var (
	// ErrSessionNotFound indicates no live session exists for the given id.
	ErrSessionNotFound = errors.New("vote session not found")

	// ErrNotReady indicates a close was requested before the table reached a
	// valid finalized state.
	ErrNotReady = errors.New("vote session is not ready to close")
)

// MapHTTPStatus translates session and table errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, table.ErrRowNotFound),
		errors.Is(err, table.ErrEntityNotFound),
		errors.Is(err, entities.ErrCaseNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotReady),
		errors.Is(err, table.ErrFieldDisabled),
		errors.Is(err, table.ErrEntityNotSelected):
		return http.StatusConflict
	case errors.Is(err, table.ErrInvalidView),
		errors.Is(err, table.ErrInvalidIntent),
		errors.Is(err, table.ErrInvalidTally),
		errors.Is(err, table.ErrNotCustomRow),
		errors.Is(err, table.ErrUntrackedCustomRow):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
