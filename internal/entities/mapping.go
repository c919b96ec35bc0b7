package entities

import (
	"net/url"

	"github.com/ratingsdesk/quorum/pkg/query"
	"github.com/ratingsdesk/quorum/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "entities", "e").
	Project("id", "ID").
	Project("name", "Name").
	Project("domicile_code", "DomicileCode").
	Project("domicile_name", "DomicileName").
	Project("analyst", "Analyst").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "Name",
	Descending: false,
}

// Filters contains optional filtering criteria for entity catalog queries.
// Nil fields are ignored. DomicileCode and Analyst use exact matching;
// Name uses case-insensitive contains matching.
type Filters struct {
	Name         *string `json:"name,omitempty"`
	DomicileCode *string `json:"domicile_code,omitempty"`
	Analyst      *string `json:"analyst,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Name", f.Name).
		WhereEquals("DomicileCode", f.DomicileCode).
		WhereEquals("Analyst", f.Analyst)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if dc := values.Get("domicile_code"); dc != "" {
		f.DomicileCode = &dc
	}

	if a := values.Get("analyst"); a != "" {
		f.Analyst = &a
	}

	return f
}

func scanSummary(s repository.Scanner) (Summary, error) {
	var e Summary
	err := s.Scan(
		&e.ID,
		&e.Name,
		&e.DomicileCode,
		&e.DomicileName,
		&e.Analyst,
		&e.CreatedAt,
	)
	return e, err
}
