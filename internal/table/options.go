package table

// NoActionSymbol is the synthetic placeholder prepended to every resolved
// reference symbol list; picking it finalizes a row without a rating change.
const (
	NoActionSymbol = "NO_ACTION"
	NoActionLabel  = "No Action"
)

// Option is a value/label pair from the recommendation dropdown mapping.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options holds the dropdown option mappings used for display-label
// derivation. Supplied by the reference-data collaborator at session build.
type Options struct {
	Outlooks         []Option
	ReviewStatuses   []Option
	WatchStatuses    []Option
	LossGivenDefault []Option
}

func label(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// OutlookLabel returns the display label for an outlook value.
func (o Options) OutlookLabel(value string) string {
	return label(o.Outlooks, value)
}

// ReviewStatusLabel returns the display label for a review status value.
func (o Options) ReviewStatusLabel(value string) string {
	return label(o.ReviewStatuses, value)
}

// RatingLabel returns the display label for a rating value: the no-action
// placeholder and LGD values map to labels, anything else displays as is.
func (o Options) RatingLabel(value string) string {
	if value == NoActionSymbol {
		return NoActionLabel
	}
	return label(o.LossGivenDefault, value)
}

// deriveLabels recomputes the display labels carried on row data.
func (o Options) deriveLabels(data *RowData) {
	if data.IsOutlook {
		data.CurrentLabel = o.OutlookLabel(data.Current.Outlook)
		data.ProposedLabel = o.OutlookLabel(data.Proposed.Outlook)
		return
	}

	data.CurrentLabel = o.RatingLabel(data.Current.Value)
	if data.Current.ReviewStatus != "" {
		data.CurrentLabel += " (" + o.ReviewStatusLabel(data.Current.ReviewStatus) + ")"
	}

	data.ProposedLabel = o.RatingLabel(data.Proposed.Value)
	if data.Proposed.ReviewStatus != "" {
		data.ProposedLabel += " (" + o.ReviewStatusLabel(data.Proposed.ReviewStatus) + ")"
	}
}
