package table

import (
	"strings"

	"github.com/ratingsdesk/quorum/internal/entities"
)

// mandatoryOutlookClasses are the rating classes that must carry a final
// outlook on FIG-banking cases. Matching is case-insensitive on the class
// name, and the MTN variant is explicitly exempt despite its prefix.
var mandatoryOutlookClasses = map[string]bool{
	"senior unsecured": true,
	"issuer rating":    true,
	"bank deposits":    true,
}

const exemptOutlookClass = "senior unsecured mtn"

// requiresOutlook reports whether a class-view row must carry a final
// outlook in addition to its final rating.
func (s *Session) requiresOutlook(row *Row) bool {
	if !s.figBanking || row.Key.View != ViewClass {
		return false
	}

	name := strings.ToLower(strings.TrimSpace(row.Data.Name))
	if name == exemptOutlookClass {
		return false
	}
	return mandatoryOutlookClasses[name]
}

// rowValid reports whether one data row satisfies finalization. Dissenting
// rows pass with no finals: their vote is the decision. Rows with no vote
// recorded fail. Outlook rows need a final outlook; rating rows need a
// final rating, plus a final outlook when the mandatory-outlook rule
// applies. An added row that has not finished classifying can never pass.
func (s *Session) rowValid(row *Row) bool {
	if row.Data.Added && !s.custom.Resolved(row.Data.Identifier) {
		return false
	}

	if row.Data.Dissent || row.Data.Final.Voted.Dissent() {
		return true
	}

	if row.Data.Final.Voted == entities.TallyUnset {
		return false
	}

	if row.Data.IsOutlook {
		return row.Data.Final.Outlook != ""
	}

	if row.Data.Final.Value == "" {
		return false
	}

	if s.requiresOutlook(row) && row.Data.Final.Outlook == "" {
		return false
	}

	return true
}

// Valid reports whether the whole table is ready to finalize: a votable
// tally, every data row in both views valid, and no added row still
// resolving.
func (s *Session) Valid() bool {
	if s.tally == entities.TallyUnset {
		return false
	}

	if !s.custom.AllResolved(ViewClass) || !s.custom.AllResolved(ViewDebt) {
		return false
	}

	valid := true
	s.forEachDataRow(func(row *Row) {
		if !s.rowValid(row) {
			valid = false
		}
	})
	return valid
}
