package table

import (
	"github.com/ratingsdesk/quorum/internal/entities"
)

// Rebuild reconstructs both view trees and the dictionary from the model.
// Entity order and rating order are preserved exactly. Selection carries
// over from the previous build by identifier; on the first build only, rows
// with a non-empty proposed value are auto-preselected.
func (s *Session) Rebuild() {
	prior := s.selectedIdentifiers()

	s.dict.Clear()
	s.views[ViewClass] = s.buildView(ViewClass, prior)
	s.views[ViewDebt] = s.buildView(ViewDebt, prior)
	s.firstBuild = false

	s.trackAddedRows()
}

// selectedIdentifiers snapshots selection across both views so a rebuild
// does not lose in-page selection state.
func (s *Session) selectedIdentifiers() map[string]bool {
	selected := make(map[string]bool)
	s.forEachDataRow(func(row *Row) {
		if row.Selected {
			selected[row.Data.Identifier] = true
		}
	})
	return selected
}

// trackAddedRows registers model rows flagged added that are not yet
// tracked, so custom rows loaded from upstream data re-enter the
// resolution lifecycle. Already-tracked rows keep their state.
func (s *Session) trackAddedRows() {
	s.forEachDataRow(func(row *Row) {
		if !row.Data.Added {
			return
		}
		if _, ok := s.custom.Get(row.Data.Identifier); !ok {
			s.custom.Track(row.Data.Identifier, row.Key.View, row.Key.ParentID)
		}
	})
}

func (s *Session) buildView(view ViewType, prior map[string]bool) []*Row {
	groups := make([]*Row, 0, len(s.Case.Entities))

	for ei := range s.Case.Entities {
		ent := &s.Case.Entities[ei]

		group := &Row{
			Key: Key{View: view, Identifier: ent.ID},
			Data: RowData{
				Identifier: ent.ID,
				Name:       ent.Name,
				Header:     false,
			},
			Domicile: ent.Domicile.Code,
		}

		group.Children = append(group.Children, s.buildHeaderRow(view, ent))

		if ent.Outlook != nil {
			group.Children = append(group.Children, s.buildOutlookRow(view, ei, ent, prior))
		}

		switch view {
		case ViewClass:
			for ci := range ent.RatingClasses {
				cls := &ent.RatingClasses[ci]
				for ri := range cls.Ratings {
					group.Children = append(group.Children, s.buildClassRow(ei, ent, ci, ri, prior))
				}
			}
		case ViewDebt:
			for di := range ent.Debts {
				debt := &ent.Debts[di]
				for ri := range debt.Ratings {
					group.Children = append(group.Children, s.buildDebtRow(ei, ent, di, ri, prior))
				}
			}
		}

		for _, child := range group.Children {
			if !child.Data.Header && child.Selected {
				group.Selected = true
				break
			}
		}

		groups = append(groups, group)
	}

	return groups
}

func (s *Session) buildHeaderRow(view ViewType, ent *entities.Entity) *Row {
	row := &Row{
		Key: Key{View: view, ParentID: ent.ID, Identifier: headerIdentifier},
		Data: RowData{
			Identifier: headerIdentifier,
			Name:       ent.Name,
			Header:     true,
		},
	}
	s.dict.Upsert(row.Key, row)
	return row
}

func (s *Session) buildOutlookRow(view ViewType, ei int, ent *entities.Entity, prior map[string]bool) *Row {
	o := ent.Outlook

	data := RowData{
		Identifier: o.Identifier,
		Name:       "Outlook",
		IsOutlook:  true,
		Current:    entities.RatingValue{Outlook: o.Current},
		Proposed:   entities.RatingValue{Outlook: o.Proposed},
		Final:      o.Finalized,
		Origin:     entities.OriginRef{Entity: ei, Kind: entities.KindOutlook},
	}

	return s.finishRow(view, ent.ID, data, o.Proposed != "", prior)
}

func (s *Session) buildClassRow(ei int, ent *entities.Entity, ci, ri int, prior map[string]bool) *Row {
	cls := &ent.RatingClasses[ci]
	r := &cls.Ratings[ri]

	data := RowData{
		Identifier:    r.Identifier,
		Name:          cls.Name,
		Currency:      cls.Currency,
		Added:         cls.Added || r.Added,
		ScaleCode:     r.ScaleCode,
		ScaleStrategy: r.ScaleStrategy,
		Current:       r.Current,
		Proposed:      r.Proposed,
		Final:         r.Finalized,
		Bridge:        r.Bridge,
		Origin:        entities.OriginRef{Entity: ei, Kind: entities.KindClasses, Item: ci, Rating: ri},
	}

	return s.finishRow(ViewClass, ent.ID, data, r.HasProposed(), prior)
}

func (s *Session) buildDebtRow(ei int, ent *entities.Entity, di, ri int, prior map[string]bool) *Row {
	debt := &ent.Debts[di]
	r := &debt.Ratings[ri]

	data := RowData{
		Identifier:    r.Identifier,
		Name:          debt.Name,
		Currency:      debt.CurrencyCode,
		Added:         debt.Added || r.Added,
		ScaleCode:     r.ScaleCode,
		ScaleStrategy: r.ScaleStrategy,
		Current:       r.Current,
		Proposed:      r.Proposed,
		Final:         r.Finalized,
		Bridge:        r.Bridge,
		FaceAmount:    debt.FaceAmount,
		MaturityDate:  debt.MaturityDate,
		Origin:        entities.OriginRef{Entity: ei, Kind: entities.KindDebts, Item: di, Rating: ri},
	}

	return s.finishRow(ViewDebt, ent.ID, data, r.HasProposed(), prior)
}

// finishRow applies labels, dissent lock, enablement, and build-time
// selection, then writes the row into the dictionary.
func (s *Session) finishRow(view ViewType, parentID string, data RowData, hasProposed bool, prior map[string]bool) *Row {
	if data.Final.Voted.Dissent() {
		data.Dissent = true
	}

	s.options.deriveLabels(&data)
	data.Enabled = rowEnablement(s.tally, data.Dissent)

	row := &Row{
		Key:      Key{View: view, ParentID: parentID, Identifier: data.Identifier},
		Data:     data,
		Selected: prior[data.Identifier] || (s.firstBuild && hasProposed),
	}

	s.dict.Upsert(row.Key, row)
	return row
}
