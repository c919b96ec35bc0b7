package table

import (
	"sort"
)

// ResolveState is the lifecycle of an interactively added row's
// classification.
type ResolveState int

const (
	// StateCreated: no classification chosen yet, or it was cleared.
	StateCreated ResolveState = iota
	// StateResolving: a classification was chosen and its symbol lookup is in flight.
	StateResolving
	// StateResolved: classification metadata and symbols are merged.
	StateResolved
)

// Classification is the resolved metadata for an added row.
type Classification struct {
	Name      string `json:"name"`
	ScaleCode string `json:"scale_code"`
	Strategy  string `json:"strategy"`
	Currency  string `json:"currency,omitempty"`
}

// DebtDetails carries the instrument fields applied when an added debt row
// is classified.
type DebtDetails struct {
	Name         string  `json:"name"`
	CurrencyCode string  `json:"currency_code"`
	FaceAmount   float64 `json:"face_amount,omitempty"`
	MaturityDate string  `json:"maturity_date,omitempty"`
}

// Symbol is a permissible rating symbol with its display ordering.
type Symbol struct {
	Value string `json:"value"`
	Rank  int    `json:"rank"`
	Group int    `json:"group"`
}

// CustomRow tracks one added row's resolution state. Generation identifies
// the in-flight lookup; a completion with a stale generation is discarded.
type CustomRow struct {
	Identifier string
	View       ViewType
	EntityID   string
	State      ResolveState
	Generation uint64
	Meta       *Classification
}

// CustomState tracks every added row by identifier. Removal deletes the
// entry, so a late resolution for a removed row no-ops.
type CustomState struct {
	rows map[string]*CustomRow
	gen  uint64
}

// NewCustomState creates an empty CustomState.
func NewCustomState() *CustomState {
	return &CustomState{
		rows: make(map[string]*CustomRow),
	}
}

// Track registers an added row in the Created state. Re-tracking an
// identifier resets it.
func (c *CustomState) Track(identifier string, view ViewType, entityID string) *CustomRow {
	row := &CustomRow{
		Identifier: identifier,
		View:       view,
		EntityID:   entityID,
		State:      StateCreated,
	}
	c.rows[identifier] = row
	return row
}

// Get returns the tracked state for identifier.
func (c *CustomState) Get(identifier string) (*CustomRow, bool) {
	row, ok := c.rows[identifier]
	return row, ok
}

// Begin records a chosen classification. It returns the lookup generation
// and whether an external symbol lookup is needed: loss-given-default
// scales resolve synchronously with no lookup.
func (c *CustomState) Begin(identifier string, meta Classification) (uint64, bool, error) {
	row, ok := c.rows[identifier]
	if !ok {
		return 0, false, ErrUntrackedCustomRow
	}

	metaCopy := meta
	row.Meta = &metaCopy

	if meta.Strategy == strategyLGD {
		row.State = StateResolved
		row.Generation = 0
		return 0, false, nil
	}

	c.gen++
	row.Generation = c.gen
	row.State = StateResolving
	return c.gen, true, nil
}

// Complete marks a row resolved if it is still tracked, still resolving,
// and the generation matches the in-flight lookup. Returns false when the
// result is stale and must be discarded.
func (c *CustomState) Complete(identifier string, generation uint64) bool {
	row, ok := c.rows[identifier]
	if !ok {
		return false
	}
	if row.State != StateResolving || row.Generation != generation {
		return false
	}

	row.State = StateResolved
	return true
}

// ClearClassification returns a row to Created. Any in-flight lookup is
// implicitly abandoned; its completion will see a stale state and no-op.
func (c *CustomState) ClearClassification(identifier string) bool {
	row, ok := c.rows[identifier]
	if !ok {
		return false
	}

	row.State = StateCreated
	row.Generation = 0
	row.Meta = nil
	return true
}

// Remove drops the tracked state for identifier. Removal always wins over a
// pending resolution.
func (c *CustomState) Remove(identifier string) bool {
	if _, ok := c.rows[identifier]; !ok {
		return false
	}
	delete(c.rows, identifier)
	return true
}

// Resolved reports whether identifier is tracked and fully resolved.
// Untracked identifiers are not custom rows and report true.
func (c *CustomState) Resolved(identifier string) bool {
	row, ok := c.rows[identifier]
	if !ok {
		return true
	}
	return row.State == StateResolved
}

// AllResolved reports whether every tracked row in the given view is resolved.
func (c *CustomState) AllResolved(view ViewType) bool {
	for _, row := range c.rows {
		if row.View == view && row.State != StateResolved {
			return false
		}
	}
	return true
}

// Unresolved returns the tracked rows not yet resolved, in no particular order.
func (c *CustomState) Unresolved() []*CustomRow {
	var pending []*CustomRow
	for _, row := range c.rows {
		if row.State != StateResolved {
			pending = append(pending, row)
		}
	}
	return pending
}

// strategyLGD mirrors the reference-data marker for loss-given-default scales.
const strategyLGD = "LGD"

// mergeSymbols orders resolved reference symbols by (group, rank) ascending
// and prepends the synthetic no-action placeholder.
func mergeSymbols(symbols []Symbol) []string {
	sorted := make([]Symbol, len(symbols))
	copy(sorted, symbols)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Group != sorted[j].Group {
			return sorted[i].Group < sorted[j].Group
		}
		return sorted[i].Rank < sorted[j].Rank
	})

	values := make([]string, 0, len(sorted)+1)
	values = append(values, NoActionSymbol)
	for _, s := range sorted {
		values = append(values, s.Value)
	}
	return values
}
