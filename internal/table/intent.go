package table

import (
	"fmt"

	"github.com/ratingsdesk/quorum/internal/entities"
)

// IntentType names a table mutation requested by a caller.
type IntentType string

const (
	IntentToggleSelection      IntentType = "toggle_selection"
	IntentSelectAll            IntentType = "select_all"
	IntentSetTally             IntentType = "set_tally"
	IntentSetVoted             IntentType = "set_voted"
	IntentSetFinalRating       IntentType = "set_final_rating"
	IntentSetFinalOutlook      IntentType = "set_final_outlook"
	IntentSetFinalReviewStatus IntentType = "set_final_review_status"
	IntentAddCustomRow         IntentType = "add_custom_row"
	IntentRemoveCustomRow      IntentType = "remove_custom_row"
	IntentClassifyCustomRow    IntentType = "classify_custom_row"
	IntentClearClassification  IntentType = "clear_classification"
	IntentCopyRecommended      IntentType = "copy_recommended"
	IntentClearSelection       IntentType = "clear_selection"
)

// Intent is one requested mutation. Which fields are read depends on Type;
// View/ParentID/Identifier address a row where the mutation is row-scoped.
type Intent struct {
	Type       IntentType `json:"type"`
	View       string     `json:"view,omitempty"`
	ParentID   string     `json:"parent_id,omitempty"`
	Identifier string     `json:"identifier,omitempty"`

	Selected bool   `json:"selected,omitempty"`
	Value    string `json:"value,omitempty"`

	Tally entities.VoteTally `json:"tally,omitempty"`

	Classification *Classification `json:"classification,omitempty"`
	DebtDetails    *DebtDetails    `json:"debt_details,omitempty"`
}

// Effects is the outcome of applying an intent: lookups the caller must
// run, the identifier of any row the intent created, and the refreshed
// table-level readiness signals.
type Effects struct {
	Created     string             `json:"created,omitempty"`
	Resolutions []*Resolution      `json:"resolutions,omitempty"`
	Valid       bool               `json:"valid"`
	Tally       entities.VoteTally `json:"tally"`
}

// Apply runs one intent against the session and reports its effects. View
// parsing and row addressing errors surface to the caller unchanged.
func (s *Session) Apply(intent Intent) (*Effects, error) {
	effects := &Effects{}

	rowView := func() (ViewType, error) {
		return ParseView(intent.View)
	}

	switch intent.Type {
	case IntentToggleSelection:
		view, err := rowView()
		if err != nil {
			return nil, err
		}
		if err := s.SelectRow(view, intent.ParentID, intent.Identifier, intent.Selected); err != nil {
			return nil, err
		}

	case IntentSelectAll:
		view, err := rowView()
		if err != nil {
			return nil, err
		}
		s.SelectAll(view, intent.Selected)

	case IntentSetTally:
		if err := s.SetTally(intent.Tally); err != nil {
			return nil, err
		}

	case IntentSetVoted:
		view, err := rowView()
		if err != nil {
			return nil, err
		}
		if err := s.SetVoted(view, intent.ParentID, intent.Identifier, intent.Tally); err != nil {
			return nil, err
		}

	case IntentSetFinalRating:
		view, err := rowView()
		if err != nil {
			return nil, err
		}
		if err := s.SetFinalRating(view, intent.ParentID, intent.Identifier, intent.Value); err != nil {
			return nil, err
		}

	case IntentSetFinalOutlook:
		view, err := rowView()
		if err != nil {
			return nil, err
		}
		if err := s.SetFinalOutlook(view, intent.ParentID, intent.Identifier, intent.Value); err != nil {
			return nil, err
		}

	case IntentSetFinalReviewStatus:
		view, err := rowView()
		if err != nil {
			return nil, err
		}
		if err := s.SetFinalReviewStatus(view, intent.ParentID, intent.Identifier, intent.Value); err != nil {
			return nil, err
		}

	case IntentAddCustomRow:
		view, err := rowView()
		if err != nil {
			return nil, err
		}
		created, err := s.AddCustomRow(view, intent.ParentID)
		if err != nil {
			return nil, err
		}
		effects.Created = created

	case IntentRemoveCustomRow:
		if err := s.RemoveCustomRow(intent.Identifier); err != nil {
			return nil, err
		}

	case IntentClassifyCustomRow:
		if intent.Classification == nil {
			return nil, fmt.Errorf("%w: classify_custom_row requires a classification", ErrInvalidIntent)
		}
		resolution, err := s.ClassifyCustomRow(intent.Identifier, *intent.Classification, intent.DebtDetails)
		if err != nil {
			return nil, err
		}
		if resolution != nil {
			effects.Resolutions = append(effects.Resolutions, resolution)
		}

	case IntentClearClassification:
		if err := s.ClearClassification(intent.Identifier); err != nil {
			return nil, err
		}

	case IntentCopyRecommended:
		view, err := rowView()
		if err != nil {
			return nil, err
		}
		s.CopyRecommended(view)

	case IntentClearSelection:
		s.ClearSelection()

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidIntent, intent.Type)
	}

	effects.Valid = s.Valid()
	effects.Tally = s.tally
	return effects, nil
}
