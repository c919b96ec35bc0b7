// Package scales provides rating-scale reference data: the rating-class
// catalog, permissible scale symbols by scale/strategy/domicile, and the
// static dropdown option sets the recommendation UI renders from.
package scales

// StrategyLGD marks loss-given-default scales, which resolve without a
// symbol lookup; their dropdown uses the LGD option set instead.
const StrategyLGD = "LGD"

// ClassOption is a rating-class catalog entry used to classify
// interactively added table rows.
type ClassOption struct {
	Name      string `json:"name"`
	ScaleCode string `json:"scale_code"`
	Strategy  string `json:"strategy"`
	Currency  string `json:"currency,omitempty"`
}

// Symbol is one permissible rating symbol on a scale, ordered by
// (group, rank) ascending for display.
type Symbol struct {
	Value string `json:"value"`
	Rank  int    `json:"rank"`
	Group int    `json:"group"`
}

// Option is a value/label pair for a recommendation dropdown.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionSet holds the dropdown option mappings consumed by table rendering.
type OptionSet struct {
	Outlooks         []Option `json:"outlooks"`
	ReviewStatuses   []Option `json:"review_statuses"`
	WatchStatuses    []Option `json:"watch_statuses"`
	LossGivenDefault []Option `json:"loss_given_default"`
}

var options = OptionSet{
	Outlooks: []Option{
		{Value: "POS", Label: "Positive"},
		{Value: "NEG", Label: "Negative"},
		{Value: "STA", Label: "Stable"},
		{Value: "DEV", Label: "Developing"},
		{Value: "NOO", Label: "No Outlook"},
	},
	ReviewStatuses: []Option{
		{Value: "RUR_UP", Label: "Review for Upgrade"},
		{Value: "RUR_DOWN", Label: "Review for Downgrade"},
		{Value: "RUR_DIR", Label: "Review Direction Uncertain"},
		{Value: "OFF_REVIEW", Label: "Off Review"},
	},
	WatchStatuses: []Option{
		{Value: "WATCH_POS", Label: "Watch Positive"},
		{Value: "WATCH_NEG", Label: "Watch Negative"},
		{Value: "WATCH_UNC", Label: "Watch Uncertain"},
	},
	LossGivenDefault: []Option{
		{Value: "LGD1", Label: "LGD1"},
		{Value: "LGD2", Label: "LGD2"},
		{Value: "LGD3", Label: "LGD3"},
		{Value: "LGD4", Label: "LGD4"},
		{Value: "LGD5", Label: "LGD5"},
		{Value: "LGD6", Label: "LGD6"},
	},
}
