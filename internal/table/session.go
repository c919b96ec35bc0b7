package table

import (
	"github.com/google/uuid"

	"github.com/ratingsdesk/quorum/internal/entities"
)

// Session is one live rating table: the committee-case model, both view
// trees, the shared dictionary, custom-row state, and the table-wide vote
// tally. All methods assume external serialization; the session itself is
// not safe for concurrent use.
type Session struct {
	ID   uuid.UUID
	Case *entities.CommitteeCase

	dict    *Dictionary
	views   map[ViewType][]*Row
	custom  *CustomState
	options Options

	tally      entities.VoteTally
	firstBuild bool
	figBanking bool
}

// NewSession builds a session from a loaded committee case. The first build
// applies the auto-preselect heuristic; later rebuilds never do.
func NewSession(id uuid.UUID, kase *entities.CommitteeCase, opts Options) *Session {
	s := &Session{
		ID:         id,
		Case:       kase,
		dict:       NewDictionary(),
		views:      make(map[ViewType][]*Row, 2),
		custom:     NewCustomState(),
		options:    opts,
		tally:      kase.VoteTally,
		firstBuild: true,
		figBanking: kase.RatingGroup == entities.RatingGroupBankingFinanceSecurities,
	}

	s.Rebuild()
	return s
}

// Tally returns the table-wide vote tally.
func (s *Session) Tally() entities.VoteTally {
	return s.tally
}

// View returns the group rows for the requested view.
func (s *Session) View(view ViewType) []*Row {
	return s.views[view]
}

// Dictionary exposes the shared row index.
func (s *Session) Dictionary() *Dictionary {
	return s.dict
}

// UnresolvedCustomRows returns the added rows whose classification has not
// resolved, for callers that re-resolve pre-existing rows at load.
func (s *Session) UnresolvedCustomRows() []*CustomRow {
	return s.custom.Unresolved()
}

// EntityDomicile returns the domicile code for an entity in the case.
func (s *Session) EntityDomicile(entityID string) string {
	for i := range s.Case.Entities {
		if s.Case.Entities[i].ID == entityID {
			return s.Case.Entities[i].Domicile.Code
		}
	}
	return ""
}

func (s *Session) entityIndex(entityID string) (int, bool) {
	for i := range s.Case.Entities {
		if s.Case.Entities[i].ID == entityID {
			return i, true
		}
	}
	return 0, false
}

// forEachDataRow visits every non-header child row across both views.
func (s *Session) forEachDataRow(fn func(*Row)) {
	for _, view := range []ViewType{ViewClass, ViewDebt} {
		for _, group := range s.views[view] {
			for _, child := range group.Children {
				if child.Data.Header {
					continue
				}
				fn(child)
			}
		}
	}
}

// modelRating resolves an origin path to the backing rating. Outlook rows
// have no Rating; their finals live on the entity outlook.
func (s *Session) modelRating(o entities.OriginRef) *entities.Rating {
	if o.Entity < 0 || o.Entity >= len(s.Case.Entities) {
		return nil
	}
	ent := &s.Case.Entities[o.Entity]

	switch o.Kind {
	case entities.KindClasses:
		if o.Item < len(ent.RatingClasses) && o.Rating < len(ent.RatingClasses[o.Item].Ratings) {
			return &ent.RatingClasses[o.Item].Ratings[o.Rating]
		}
	case entities.KindDebts:
		if o.Item < len(ent.Debts) && o.Rating < len(ent.Debts[o.Item].Ratings) {
			return &ent.Debts[o.Item].Ratings[o.Rating]
		}
	}
	return nil
}

// writeFinal pushes a row's final values into the shared model through its
// origin path. This is the write-back half of in-place mutation: the model
// stays authoritative for save and rebuild.
func (s *Session) writeFinal(row *Row) {
	o := row.Data.Origin

	if o.Kind == entities.KindOutlook {
		if o.Entity < len(s.Case.Entities) && s.Case.Entities[o.Entity].Outlook != nil {
			s.Case.Entities[o.Entity].Outlook.Finalized = row.Data.Final
		}
		return
	}

	if r := s.modelRating(o); r != nil {
		r.Finalized = row.Data.Final
	}
}

// writeProposed pushes a row's proposed values into the shared model.
func (s *Session) writeProposed(row *Row) {
	o := row.Data.Origin

	if o.Kind == entities.KindOutlook {
		if o.Entity < len(s.Case.Entities) && s.Case.Entities[o.Entity].Outlook != nil {
			s.Case.Entities[o.Entity].Outlook.Proposed = row.Data.Proposed.Outlook
		}
		return
	}

	if r := s.modelRating(o); r != nil {
		r.Proposed = row.Data.Proposed
	}
}

// SetFinalRating sets a row's final rating value.
func (s *Session) SetFinalRating(view ViewType, parentID, identifier, value string) error {
	return s.editFinal(view, parentID, identifier, func(row *Row) error {
		if !row.Data.Enabled.FinalRating {
			return ErrFieldDisabled
		}
		row.Data.Final.Value = value
		return nil
	})
}

// SetFinalOutlook sets a row's final outlook value.
func (s *Session) SetFinalOutlook(view ViewType, parentID, identifier, value string) error {
	return s.editFinal(view, parentID, identifier, func(row *Row) error {
		if !row.Data.Enabled.FinalOutlook {
			return ErrFieldDisabled
		}
		row.Data.Final.Outlook = value
		return nil
	})
}

// SetFinalReviewStatus sets a row's final review status value.
func (s *Session) SetFinalReviewStatus(view ViewType, parentID, identifier, value string) error {
	return s.editFinal(view, parentID, identifier, func(row *Row) error {
		if !row.Data.Enabled.FinalReviewStatus {
			return ErrFieldDisabled
		}
		row.Data.Final.ReviewStatus = value
		return nil
	})
}

func (s *Session) editFinal(view ViewType, parentID, identifier string, edit func(*Row) error) error {
	row, ok := s.dict.Get(Key{View: view, ParentID: parentID, Identifier: identifier})
	if !ok {
		return ErrRowNotFound
	}

	if err := edit(row); err != nil {
		return err
	}

	s.writeFinal(row)
	s.mirrorFinal(row)
	return nil
}

// mirrorFinal copies a row's final values onto its counterpart in the other
// view, using the same match preference as selection propagation. Both view
// rows denormalize the same rating, so finals must not diverge.
func (s *Session) mirrorFinal(row *Row) {
	if row.Data.Added {
		return
	}

	if match := s.matchOtherView(row); match != nil {
		match.Data.Final = row.Data.Final
		match.Data.Enabled = row.Data.Enabled
	}
}
