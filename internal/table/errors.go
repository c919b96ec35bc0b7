package table

import "errors"

// Errors surfaced by table operations. Callers map them to transport
// status codes.
var (
	ErrInvalidView        = errors.New("invalid view")
	ErrInvalidIntent      = errors.New("invalid intent")
	ErrInvalidTally       = errors.New("invalid vote tally")
	ErrRowNotFound        = errors.New("row not found")
	ErrEntityNotFound     = errors.New("entity not found")
	ErrEntityNotSelected  = errors.New("entity is not selected")
	ErrNotCustomRow       = errors.New("row is not an added row")
	ErrFieldDisabled      = errors.New("field is disabled under the current tally")
	ErrUntrackedCustomRow = errors.New("custom row is not tracked")
)
