package table

import (
	"github.com/ratingsdesk/quorum/internal/entities"
)

// rowEnablement derives the editable field set from the table tally and a
// row's dissent lock. A dissenting row stays locked to its vote control no
// matter what the table tally says.
func rowEnablement(tally entities.VoteTally, dissent bool) Enablement {
	if dissent {
		return Enablement{Voted: true}
	}

	switch tally {
	case entities.TallyMajority:
		return Enablement{
			FinalRating:       true,
			FinalOutlook:      true,
			FinalReviewStatus: true,
			Voted:             true,
			Selection:         true,
		}
	case entities.TallyNoMajority, entities.TallyNoVote:
		return Enablement{Voted: true}
	default:
		return Enablement{Selection: true}
	}
}

// SetTally applies a table-wide vote tally transition to every data row in
// both views.
//
// Majority stamps each row voted-majority, clears selection flags, and
// enables editing. No-majority and no-vote clear each row's final values
// and selection, stamp the row's vote, and lock everything but the vote
// control. Resetting to the unset tally clears only the vote stamps,
// leaving finals, selection, and enablement untouched. Dissenting rows
// keep their own vote and are never restamped.
func (s *Session) SetTally(tally entities.VoteTally) error {
	if !tally.Valid() {
		return ErrInvalidTally
	}

	s.tally = tally

	if tally == entities.TallyUnset {
		s.forEachDataRow(func(row *Row) {
			if row.Data.Dissent {
				return
			}
			row.Data.Final.Voted = entities.TallyUnset
			s.writeFinal(row)
		})

		s.Case.VoteTally = tally
		return nil
	}

	s.forEachDataRow(func(row *Row) {
		if !row.Data.Dissent {
			switch tally {
			case entities.TallyMajority:
				row.Data.Final.Voted = entities.TallyMajority
			case entities.TallyNoMajority, entities.TallyNoVote:
				row.Data.Final.Voted = tally
				row.Data.Final.Value = ""
				row.Data.Final.Outlook = ""
				row.Data.Final.ReviewStatus = ""
			}
			s.writeFinal(row)
		}

		row.Selected = false
		row.Data.Enabled = rowEnablement(tally, row.Data.Dissent)
	})

	for _, view := range []ViewType{ViewClass, ViewDebt} {
		for _, group := range s.views[view] {
			group.Selected = false
		}
	}

	s.Case.VoteTally = tally
	return nil
}

// SetVoted records a per-row vote. A dissenting vote clears the row's
// final values and locks it regardless of the table tally; voting the row
// back to majority or unset releases the lock without restoring anything.
func (s *Session) SetVoted(view ViewType, parentID, identifier string, tally entities.VoteTally) error {
	if !tally.Valid() {
		return ErrInvalidTally
	}

	row, ok := s.dict.Get(Key{View: view, ParentID: parentID, Identifier: identifier})
	if !ok {
		return ErrRowNotFound
	}
	if row.Data.Header {
		return ErrRowNotFound
	}
	if !row.Data.Enabled.Voted {
		return ErrFieldDisabled
	}

	row.Data.Final.Voted = tally
	row.Data.Dissent = tally.Dissent()

	if row.Data.Dissent {
		row.Data.Final.Value = ""
		row.Data.Final.Outlook = ""
		row.Data.Final.ReviewStatus = ""
	}

	row.Data.Enabled = rowEnablement(s.tally, row.Data.Dissent)
	s.writeFinal(row)
	s.mirrorVote(row)
	return nil
}

// mirrorVote copies a row's vote, dissent lock, finals, and enablement to
// its counterpart. Same exclusion as propagation: added rows live in one
// view only.
func (s *Session) mirrorVote(row *Row) {
	if row.Data.Added {
		return
	}

	if match := s.matchOtherView(row); match != nil {
		match.Data.Final = row.Data.Final
		match.Data.Dissent = row.Data.Dissent
		match.Data.Enabled = row.Data.Enabled
	}
}
