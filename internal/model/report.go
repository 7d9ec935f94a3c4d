package model

import "strings"

// OverallKey is the report key used when aggregating with no grouping
// fields: every record lands in this single group.
const OverallKey = "overall"

// MissingLabel is the stable sentinel used as a group-key component when a
// record lacks the grouping field. It keeps all such records in one
// distinct group instead of silently dropping them.
const MissingLabel = "(missing)"

// GroupKey joins group-key components into a report key. Components are
// joined with "|"; the zero-component (overall) case maps to OverallKey.
// The separator is not escaped, so a label value containing "|" would
// collide two distinct component tuples.
func GroupKey(parts []string) string {
	if len(parts) == 0 {
		return OverallKey
	}
	return strings.Join(parts, "|")
}

// FieldSummary is the summary bundle for one numeric field within a group:
// a pure function of the multiset of non-null values observed there.
// Mean, median, min, max and std_dev are null when the group holds no
// value for the field; sum is 0 in that case.
type FieldSummary struct {
	Count  int      `json:"count"`
	Sum    float64  `json:"sum"`
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	StdDev *float64 `json:"std_dev"`
}

// LabelSummary describes one categorical field within a group. Mode ties
// break toward the value seen first in input order.
type LabelSummary struct {
	UniqueValues int     `json:"unique_values"`
	Mode         *string `json:"mode"`
	ModeCount    int     `json:"mode_count"`
}

// GroupSummary bundles the per-field summaries for a single group.
type GroupSummary struct {
	RecordCount int                     `json:"record_count"`
	Numeric     map[string]FieldSummary `json:"numeric"`
	Categorical map[string]LabelSummary `json:"categorical"`
}

// Report maps group keys to their summaries. JSON marshaling sorts map
// keys, so serialized output is deterministic for a given input.
type Report map[string]GroupSummary
