package scales

import "context"

// System defines the public contract for rating-scale reference data.
type System interface {
	Handler() *Handler

	// Classes returns catalog entries whose name contains search,
	// capped at limit results.
	Classes(ctx context.Context, search string, limit int) ([]ClassOption, error)

	// FindClass returns the catalog entry with the exact given name.
	FindClass(ctx context.Context, name string) (*ClassOption, error)

	// Symbols returns the permissible symbols for a scale, preferring
	// domicile-specific rows and falling back to the scale's global rows.
	// Results are ordered by (group, rank) ascending.
	Symbols(ctx context.Context, scaleCode, strategy, domicileCode string) ([]Symbol, error)

	// Options returns the static dropdown option sets.
	Options() OptionSet
}
