// Package table implements the rating-table reconciliation engine: the
// dual-view row trees, the shared key-indexed dictionary, selection
// synchronization, custom-row resolution state, the vote-tally machine,
// and the finalization validator. It is pure logic; persistence and HTTP
// live with its callers.
package table

import (
	"fmt"

	"github.com/ratingsdesk/quorum/internal/entities"
)

// ViewType selects one of the two simultaneously live table projections.
type ViewType string

const (
	ViewClass ViewType = "class"
	ViewDebt  ViewType = "debt"
)

// Other returns the opposite view.
func (v ViewType) Other() ViewType {
	if v == ViewClass {
		return ViewDebt
	}
	return ViewClass
}

// ParseView validates a view name from an external caller.
func ParseView(s string) (ViewType, error) {
	switch ViewType(s) {
	case ViewClass, ViewDebt:
		return ViewType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidView, s)
}

// headerIdentifier keys an entity's synthetic header row within its group.
const headerIdentifier = "header"

// Key addresses a row in the dictionary: one entry per
// (view, immediate parent, identifier) triple.
type Key struct {
	View       ViewType `json:"view"`
	ParentID   string   `json:"parent_id"`
	Identifier string   `json:"identifier"`
}

// Enablement holds the per-row field editability derived from the vote tally.
type Enablement struct {
	FinalRating       bool `json:"final_rating"`
	FinalOutlook      bool `json:"final_outlook"`
	FinalReviewStatus bool `json:"final_review_status"`
	Voted             bool `json:"voted"`
	Selection         bool `json:"selection"`
}

// RowData is the denormalized rating data and display state carried on a row.
type RowData struct {
	Identifier    string `json:"identifier"`
	Name          string `json:"name"`
	Currency      string `json:"currency,omitempty"`
	Header        bool   `json:"header,omitempty"`
	IsOutlook     bool   `json:"is_outlook,omitempty"`
	Added         bool   `json:"added,omitempty"`
	ScaleCode     string `json:"scale_code,omitempty"`
	ScaleStrategy string `json:"scale_strategy,omitempty"`

	Current  entities.RatingValue `json:"current"`
	Proposed entities.RatingValue `json:"proposed"`
	Final    entities.Finalized   `json:"final"`

	CurrentLabel  string `json:"current_label,omitempty"`
	ProposedLabel string `json:"proposed_label,omitempty"`

	Bridge     string   `json:"bridge,omitempty"`
	RefSymbols []string `json:"ref_symbols,omitempty"`
	Dissent    bool     `json:"dissent,omitempty"`

	FaceAmount   float64 `json:"face_amount,omitempty"`
	MaturityDate string  `json:"maturity_date,omitempty"`

	Enabled Enablement         `json:"enabled"`
	Origin  entities.OriginRef `json:"-"`
}

// Row is one table row. Group rows carry entity summary data and children;
// child rows carry rating data and live in the dictionary.
type Row struct {
	Key      Key      `json:"key"`
	Data     RowData  `json:"data"`
	Selected bool     `json:"is_selected"`
	Children []*Row   `json:"children,omitempty"`
	Domicile string   `json:"domicile,omitempty"`
}

// dataRow reports whether the row participates in selection, tally effects,
// and validation. Synthetic header rows do not.
func (r *Row) dataRow() bool {
	return !r.Data.Header && len(r.Children) == 0
}
