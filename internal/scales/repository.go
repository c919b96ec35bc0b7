package scales

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ratingsdesk/quorum/pkg/query"
	"github.com/ratingsdesk/quorum/pkg/repository"
)

const defaultClassLimit = 50

var classProjection = query.
	NewProjectionMap("public", "rating_class_catalog", "rc").
	Project("name", "Name").
	Project("scale_code", "ScaleCode").
	Project("strategy", "Strategy").
	Project("currency", "Currency")

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a scale repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "scales"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func scanClass(s repository.Scanner) (ClassOption, error) {
	var c ClassOption
	err := s.Scan(&c.Name, &c.ScaleCode, &c.Strategy, &c.Currency)
	return c, err
}

func (r *repo) Classes(ctx context.Context, search string, limit int) ([]ClassOption, error) {
	if limit < 1 || limit > defaultClassLimit {
		limit = defaultClassLimit
	}

	qb := query.NewBuilder(classProjection, query.SortField{Field: "Name"})
	if search != "" {
		qb.WhereContains("Name", &search)
	}

	q, args := qb.BuildPage(1, limit)
	classes, err := repository.QueryMany(ctx, r.db, q, args, scanClass)
	if err != nil {
		return nil, fmt.Errorf("query rating class catalog: %w", err)
	}

	return classes, nil
}

func (r *repo) FindClass(ctx context.Context, name string) (*ClassOption, error) {
	q, args := query.
		NewBuilder(classProjection).
		WhereEquals("Name", name).
		BuildSingleOrNull()

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClass)
	if err != nil {
		return nil, repository.MapError(err, ErrClassNotFound, ErrClassNotFound)
	}
	return &c, nil
}

func (r *repo) Symbols(ctx context.Context, scaleCode, strategy, domicileCode string) ([]Symbol, error) {
	if scaleCode == "" || strategy == "" {
		return nil, ErrMissingScale
	}

	// domicile-specific symbol sets override the scale's global set
	const q = `
		SELECT value, rank, group_number
		FROM rating_scale_symbols
		WHERE scale_code = $1 AND strategy = $2
			AND domicile_code = CASE
				WHEN EXISTS (
					SELECT 1 FROM rating_scale_symbols
					WHERE scale_code = $1 AND strategy = $2 AND domicile_code = $3
				) THEN $3
				ELSE ''
			END
		ORDER BY group_number, rank`

	symbols, err := repository.QueryMany(
		ctx, r.db, q,
		[]any{scaleCode, strategy, domicileCode},
		func(s repository.Scanner) (Symbol, error) {
			var sym Symbol
			err := s.Scan(&sym.Value, &sym.Rank, &sym.Group)
			return sym, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query scale symbols: %w", err)
	}

	return symbols, nil
}

func (r *repo) Options() OptionSet {
	return options
}
