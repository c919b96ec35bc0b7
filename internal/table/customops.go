package table

import (
	"github.com/google/uuid"

	"github.com/ratingsdesk/quorum/internal/entities"
)

// Resolution describes a symbol lookup the caller must run for a freshly
// classified added row. The generation must be echoed back to
// CompleteResolution; a stale generation is discarded.
type Resolution struct {
	Identifier   string `json:"identifier"`
	Generation   uint64 `json:"generation"`
	ScaleCode    string `json:"scale_code"`
	Strategy     string `json:"strategy"`
	DomicileCode string `json:"domicile_code"`
}

// AddCustomRow appends an interactively added row under an entity in one
// view. The entity group must be selected; the new row starts blank and
// unresolved, exists only in its own view, and is excluded from propagation.
// Returns the generated row identifier.
func (s *Session) AddCustomRow(view ViewType, entityID string) (string, error) {
	ei, ok := s.entityIndex(entityID)
	if !ok {
		return "", ErrEntityNotFound
	}
	if !s.EntitySelected(view, entityID) {
		return "", ErrEntityNotSelected
	}

	identifier := uuid.NewString()
	ent := &s.Case.Entities[ei]

	switch view {
	case ViewClass:
		ent.RatingClasses = append(ent.RatingClasses, entities.RatingClass{
			ID:      identifier,
			Added:   true,
			Ratings: []entities.Rating{{Identifier: identifier, Added: true}},
		})
	case ViewDebt:
		ent.Debts = append(ent.Debts, entities.Debt{
			ID:      identifier,
			Added:   true,
			Ratings: []entities.Rating{{Identifier: identifier, Added: true}},
		})
	default:
		return "", ErrInvalidView
	}

	s.custom.Track(identifier, view, entityID)
	s.Rebuild()

	if row, ok := s.dict.Get(Key{View: view, ParentID: entityID, Identifier: identifier}); ok {
		row.Selected = true
		s.refreshGroupSelection(view, entityID)
	}
	return identifier, nil
}

// RemoveCustomRow deletes an added row from the model and drops its
// resolution state. Removal always wins: a lookup still in flight for the
// row will complete into nothing.
func (s *Session) RemoveCustomRow(identifier string) error {
	tracked, ok := s.custom.Get(identifier)
	if !ok {
		return ErrNotCustomRow
	}

	ei, found := s.entityIndex(tracked.EntityID)
	if found {
		ent := &s.Case.Entities[ei]
		switch tracked.View {
		case ViewClass:
			ent.RatingClasses = removeAddedClass(ent.RatingClasses, identifier)
		case ViewDebt:
			ent.Debts = removeAddedDebt(ent.Debts, identifier)
		}
	}

	s.custom.Remove(identifier)
	s.Rebuild()
	return nil
}

func removeAddedClass(classes []entities.RatingClass, id string) []entities.RatingClass {
	out := classes[:0]
	for _, c := range classes {
		if c.Added && c.ID == id {
			continue
		}
		out = append(out, c)
	}
	return out
}

func removeAddedDebt(debts []entities.Debt, id string) []entities.Debt {
	out := debts[:0]
	for _, d := range debts {
		if d.Added && d.ID == id {
			continue
		}
		out = append(out, d)
	}
	return out
}

// ClassifyCustomRow applies a chosen classification to an added row. For
// loss-given-default scales the row resolves immediately with the static
// option set and no lookup; otherwise the returned Resolution describes the
// symbol lookup the caller must run asynchronously.
func (s *Session) ClassifyCustomRow(identifier string, meta Classification, details *DebtDetails) (*Resolution, error) {
	tracked, ok := s.custom.Get(identifier)
	if !ok {
		return nil, ErrNotCustomRow
	}

	s.applyClassification(tracked, meta, details)

	generation, needsLookup, err := s.custom.Begin(identifier, meta)
	if err != nil {
		return nil, err
	}

	row, found := s.dict.Get(Key{View: tracked.View, ParentID: tracked.EntityID, Identifier: identifier})

	if !needsLookup {
		if found {
			row.Data.RefSymbols = lgdSymbols(s.options)
		}
		return nil, nil
	}

	if found {
		row.Data.RefSymbols = nil
	}

	return &Resolution{
		Identifier:   identifier,
		Generation:   generation,
		ScaleCode:    meta.ScaleCode,
		Strategy:     meta.Strategy,
		DomicileCode: s.EntityDomicile(tracked.EntityID),
	}, nil
}

// applyClassification writes the chosen metadata through to the model and
// the live row.
func (s *Session) applyClassification(tracked *CustomRow, meta Classification, details *DebtDetails) {
	ei, ok := s.entityIndex(tracked.EntityID)
	if !ok {
		return
	}
	ent := &s.Case.Entities[ei]

	switch tracked.View {
	case ViewClass:
		for ci := range ent.RatingClasses {
			cls := &ent.RatingClasses[ci]
			if !cls.Added || cls.ID != tracked.Identifier {
				continue
			}
			cls.Name = meta.Name
			cls.Currency = meta.Currency
			for ri := range cls.Ratings {
				cls.Ratings[ri].ScaleCode = meta.ScaleCode
				cls.Ratings[ri].ScaleStrategy = meta.Strategy
			}
		}
	case ViewDebt:
		for di := range ent.Debts {
			debt := &ent.Debts[di]
			if !debt.Added || debt.ID != tracked.Identifier {
				continue
			}
			if details != nil {
				debt.Name = details.Name
				debt.CurrencyCode = details.CurrencyCode
				debt.FaceAmount = details.FaceAmount
				debt.MaturityDate = details.MaturityDate
			} else {
				debt.Name = meta.Name
				debt.CurrencyCode = meta.Currency
			}
			for ri := range debt.Ratings {
				debt.Ratings[ri].ScaleCode = meta.ScaleCode
				debt.Ratings[ri].ScaleStrategy = meta.Strategy
			}
		}
	}

	if row, ok := s.dict.Get(Key{View: tracked.View, ParentID: tracked.EntityID, Identifier: tracked.Identifier}); ok {
		row.Data.Name = meta.Name
		row.Data.Currency = meta.Currency
		row.Data.ScaleCode = meta.ScaleCode
		row.Data.ScaleStrategy = meta.Strategy
		if tracked.View == ViewDebt && details != nil {
			row.Data.Name = details.Name
			row.Data.Currency = details.CurrencyCode
			row.Data.FaceAmount = details.FaceAmount
			row.Data.MaturityDate = details.MaturityDate
		}
	}
}

// CompleteResolution delivers the result of a symbol lookup. The result is
// applied only when the row is still tracked, still resolving, and the
// generation matches; otherwise it is discarded and false is returned.
func (s *Session) CompleteResolution(identifier string, generation uint64, symbols []Symbol) bool {
	if !s.custom.Complete(identifier, generation) {
		return false
	}

	tracked, ok := s.custom.Get(identifier)
	if !ok {
		return false
	}

	if row, found := s.dict.Get(Key{View: tracked.View, ParentID: tracked.EntityID, Identifier: identifier}); found {
		row.Data.RefSymbols = mergeSymbols(symbols)
	}
	return true
}

// ClearClassification returns an added row to its unclassified state. Any
// in-flight lookup result arriving afterwards is discarded.
func (s *Session) ClearClassification(identifier string) error {
	tracked, ok := s.custom.Get(identifier)
	if !ok {
		return ErrNotCustomRow
	}
	s.custom.ClearClassification(identifier)

	ei, found := s.entityIndex(tracked.EntityID)
	if found {
		ent := &s.Case.Entities[ei]
		switch tracked.View {
		case ViewClass:
			for ci := range ent.RatingClasses {
				cls := &ent.RatingClasses[ci]
				if cls.Added && cls.ID == identifier {
					cls.Name = ""
					cls.Currency = ""
					for ri := range cls.Ratings {
						cls.Ratings[ri] = entities.Rating{Identifier: identifier, Added: true}
					}
				}
			}
		case ViewDebt:
			for di := range ent.Debts {
				debt := &ent.Debts[di]
				if debt.Added && debt.ID == identifier {
					debt.Name = ""
					debt.CurrencyCode = ""
					debt.FaceAmount = 0
					debt.MaturityDate = ""
					for ri := range debt.Ratings {
						debt.Ratings[ri] = entities.Rating{Identifier: identifier, Added: true}
					}
				}
			}
		}
	}

	s.Rebuild()
	return nil
}

// lgdSymbols builds the reference list for a loss-given-default row from
// the static option set.
func lgdSymbols(opts Options) []string {
	values := make([]string, 0, len(opts.LossGivenDefault)+1)
	values = append(values, NoActionSymbol)
	for _, o := range opts.LossGivenDefault {
		values = append(values, o.Value)
	}
	return values
}
