package table

// matchOtherView finds the counterpart of a data row in the opposite view:
// an exact identifier match under the same entity first, then the first
// sibling with the same name and currency. Added rows and headers never
// match.
func (s *Session) matchOtherView(row *Row) *Row {
	other := row.Key.View.Other()

	if match, ok := s.dict.Get(Key{View: other, ParentID: row.Key.ParentID, Identifier: row.Data.Identifier}); ok {
		if !match.Data.Added {
			return match
		}
	}

	for _, group := range s.views[other] {
		if group.Key.Identifier != row.Key.ParentID {
			continue
		}
		for _, child := range group.Children {
			if child.Data.Header || child.Data.Added {
				continue
			}
			if child.Data.Name == row.Data.Name && child.Data.Currency == row.Data.Currency {
				return child
			}
		}
	}
	return nil
}

// SelectRow sets the selection flag on one row. Selecting a header selects
// the whole entity group in that view. Changes propagate to the matched
// counterpart row, carrying only the proposed values and the selection
// flag; current values, finals, and added rows never cross views.
func (s *Session) SelectRow(view ViewType, parentID, identifier string, selected bool) error {
	key := Key{View: view, ParentID: parentID, Identifier: identifier}
	row, ok := s.dict.Get(key)
	if !ok {
		return ErrRowNotFound
	}

	if row.Data.Header {
		s.selectGroup(view, parentID, selected)
		return nil
	}

	if !row.Data.Enabled.Selection {
		return ErrFieldDisabled
	}

	row.Selected = selected
	s.propagate(row)
	s.refreshGroupSelection(view, parentID)
	return nil
}

// SelectAll sets the selection flag on every selectable data row in one
// view and propagates each change to the other view. Rows whose selection
// control is locked by the tally or a dissent vote are skipped.
func (s *Session) SelectAll(view ViewType, selected bool) {
	for _, group := range s.views[view] {
		for _, child := range group.Children {
			if child.Data.Header || !child.Data.Enabled.Selection {
				continue
			}
			child.Selected = selected
			s.propagate(child)
		}
		s.refreshGroupSelection(view, group.Key.Identifier)
	}
	s.refreshAllGroups(view.Other())
}

func (s *Session) selectGroup(view ViewType, entityID string, selected bool) {
	for _, group := range s.views[view] {
		if group.Key.Identifier != entityID {
			continue
		}
		for _, child := range group.Children {
			if child.Data.Header || !child.Data.Enabled.Selection {
				continue
			}
			child.Selected = selected
			s.propagate(child)
		}
	}
	s.refreshGroupSelection(view, entityID)
	s.refreshGroupSelection(view.Other(), entityID)
}

// propagate mirrors a row's proposed values and selection flag onto its
// counterpart. Added rows exist in only one view and are never propagated.
func (s *Session) propagate(row *Row) {
	if row.Data.Added {
		return
	}

	match := s.matchOtherView(row)
	if match == nil {
		return
	}

	match.Data.Proposed = row.Data.Proposed
	match.Selected = row.Selected
	s.options.deriveLabels(&match.Data)
	s.writeProposed(match)
}

// refreshGroupSelection recomputes one entity group's aggregate selection
// in the given view: selected when any child data row is selected.
func (s *Session) refreshGroupSelection(view ViewType, entityID string) {
	for _, group := range s.views[view] {
		if group.Key.Identifier != entityID {
			continue
		}
		group.Selected = false
		for _, child := range group.Children {
			if !child.Data.Header && child.Selected {
				group.Selected = true
				break
			}
		}
	}
}

func (s *Session) refreshAllGroups(view ViewType) {
	for _, group := range s.views[view] {
		s.refreshGroupSelection(view, group.Key.Identifier)
	}
}

// EntitySelected reports whether any data row is selected for entityID in
// the given view. Adding a custom row requires a selected entity group.
func (s *Session) EntitySelected(view ViewType, entityID string) bool {
	for _, group := range s.views[view] {
		if group.Key.Identifier != entityID {
			continue
		}
		if group.Selected {
			return true
		}
		for _, child := range group.Children {
			if !child.Data.Header && child.Selected {
				return true
			}
		}
	}
	return false
}

// CopyRecommended copies a selected row's proposed values into its final
// values, honoring field enablement. Rows that are not selected are left
// untouched.
func (s *Session) CopyRecommended(view ViewType) {
	for _, group := range s.views[view] {
		for _, child := range group.Children {
			if child.Data.Header || !child.Selected {
				continue
			}

			if child.Data.Enabled.FinalRating && child.Data.Proposed.Value != "" {
				child.Data.Final.Value = child.Data.Proposed.Value
			}
			if child.Data.Enabled.FinalOutlook && child.Data.Proposed.Outlook != "" {
				child.Data.Final.Outlook = child.Data.Proposed.Outlook
			}
			if child.Data.Enabled.FinalReviewStatus && child.Data.Proposed.ReviewStatus != "" {
				child.Data.Final.ReviewStatus = child.Data.Proposed.ReviewStatus
			}

			s.writeFinal(child)
			s.mirrorFinal(child)
		}
	}
}

// ClearSelection drops every selection flag in both views.
func (s *Session) ClearSelection() {
	for _, view := range []ViewType{ViewClass, ViewDebt} {
		for _, group := range s.views[view] {
			group.Selected = false
			for _, child := range group.Children {
				child.Selected = false
			}
		}
	}
}
