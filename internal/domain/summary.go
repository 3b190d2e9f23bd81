package domain

// Skip reasons reported in GroupSummary.Skipped.
const (
	SkipInvalidTip    = "invalid_tip"
	SkipUnknownSmoker = "unknown_smoker"
)

// GroupStats describes the tips routed into one group.
// Pointer fields are nil when the group is too small to define them.
type GroupStats struct {
	// Count is the number of records in the group.
	Count int `json:"count"`

	// Mean is the arithmetic mean tip; nil for an empty group.
	Mean *float64 `json:"mean"`

	// Median is the middle tip value; nil for an empty group.
	Median *float64 `json:"median"`

	// StdDev is the sample standard deviation; nil for fewer than two tips.
	StdDev *float64 `json:"std_dev"`

	// Min and Max bound the group's tips; nil for an empty group.
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// GroupSummary is the result of a smoker versus non-smoker comparison.
// A nil pointer field means the value is unknown.
type GroupSummary struct {
	NSmoker         int      `json:"n_smoker"`
	NNonSmoker      int      `json:"n_non_smoker"`
	AvgTipSmoker    *float64 `json:"avg_tip_smoker"`
	AvgTipNonSmoker *float64 `json:"avg_tip_non_smoker"`

	// Difference is AvgTipSmoker minus AvgTipNonSmoker, defined only when
	// both means are.
	Difference *float64 `json:"difference"`

	// TestRequested records whether a significance test was asked for.
	// PValue can only be non-nil when it is true.
	TestRequested bool     `json:"ttest_requested"`
	PValue        *float64 `json:"ttest_pvalue,omitempty"`
	TestMethod    string   `json:"ttest_method,omitempty"`

	// TotalRecords counts every input record, including skipped ones.
	TotalRecords int `json:"total_records"`

	// Skipped counts excluded records by reason.
	Skipped map[string]int `json:"skipped"`

	Smoker    GroupStats `json:"smoker"`
	NonSmoker GroupStats `json:"non_smoker"`
}

// SkippedTotal returns the number of records excluded from both groups.
func (s *GroupSummary) SkippedTotal() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

// Float returns a pointer to v, for building optional summary fields.
func Float(v float64) *float64 { return &v }
