// Package aggregate computes grouped summary statistics over advertising
// records. The aggregation contract is expressed once; three interchangeable
// backends execute it (manual iteration, gota dataframes, gonum vectors)
// and must produce identical reports for identical input.
package aggregate

import (
	"fmt"
	"sort"

	"go-ad-stats/internal/model"
	"go-ad-stats/internal/schema"
	"go-ad-stats/internal/stats"
)

// Backend is one execution strategy for the aggregation contract.
//
// Aggregate partitions records by the values of 0-2 categorical grouping
// fields and computes a summary bundle per partition. It is a pure
// function of its input: no shared state, no side effects. Grouping by a
// field not in the schema fails with *schema.SchemaError and produces no
// partial result. With no grouping fields the report holds a single group
// keyed model.OverallKey, emitted even for empty input.
type Backend interface {
	Name() string
	Aggregate(records []model.Record, groupBy []string) (model.Report, error)
}

// Backends returns all registered backends, default first.
func Backends() []Backend {
	return []Backend{newRows(), newFrame(), newVector()}
}

// ByName selects a backend by its registered name.
func ByName(name string) (Backend, error) {
	for _, b := range Backends() {
		if b.Name() == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("unknown aggregation backend %q", name)
}

// groupKeyFor reads the grouping fields from a record in order, mapping an
// absent field to the missing sentinel.
func groupKeyFor(rec model.Record, groupBy []string) string {
	if len(groupBy) == 0 {
		return model.OverallKey
	}
	parts := make([]string, len(groupBy))
	for i, field := range groupBy {
		if v, ok := rec.Label(field); ok {
			parts[i] = v
		} else {
			parts[i] = model.MissingLabel
		}
	}
	return model.GroupKey(parts)
}

// partition buckets records by group key in a single pass, keeping keys in
// first-seen order. Bucket contents preserve input order for the
// categorical mode tie-break; numeric reductions sort their value vectors
// so float accumulation order is canonical regardless of input order.
type partition struct {
	keys   []string
	groups map[string][]model.Record
}

func partitionRecords(records []model.Record, groupBy []string) partition {
	p := partition{groups: make(map[string][]model.Record)}
	if len(groupBy) == 0 {
		// Single overall group, present even when records is empty.
		p.keys = []string{model.OverallKey}
		p.groups[model.OverallKey] = records
		return p
	}
	for _, rec := range records {
		key := groupKeyFor(rec, groupBy)
		if _, seen := p.groups[key]; !seen {
			p.keys = append(p.keys, key)
		}
		p.groups[key] = append(p.groups[key], rec)
	}
	return p
}

// zeroSummary is the bundle for a field with no observed values.
func zeroSummary() model.FieldSummary {
	return model.FieldSummary{Count: 0, Sum: 0}
}

// finishSummary assembles the bundle for a non-empty value list. Count,
// sum, mean, min and max come from the calling backend's own computation;
// median and std-dev always go through the shared kernel, both over the
// ascending-sorted values so accumulation order is canonical.
func finishSummary(values []float64, sum, mean, min, max float64) model.FieldSummary {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	median := stats.Median(sorted)
	sd := stats.StdDev(sorted, mean)
	return model.FieldSummary{
		Count:  len(values),
		Sum:    sum,
		Mean:   &mean,
		Median: &median,
		Min:    &min,
		Max:    &max,
		StdDev: &sd,
	}
}

// labelSummary assembles the categorical bundle for the present (non-null)
// values of one field, in input order.
func labelSummary(values []string) model.LabelSummary {
	if len(values) == 0 {
		return model.LabelSummary{}
	}
	unique := make(map[string]bool, len(values))
	for _, v := range values {
		unique[v] = true
	}
	mode, count := stats.Mode(values)
	return model.LabelSummary{
		UniqueValues: len(unique),
		Mode:         &mode,
		ModeCount:    count,
	}
}

// emptyGroup is the summary emitted for the overall group of an empty
// input: zero counts for every schema field.
func emptyGroup() model.GroupSummary {
	g := model.GroupSummary{
		RecordCount: 0,
		Numeric:     make(map[string]model.FieldSummary),
		Categorical: make(map[string]model.LabelSummary),
	}
	for _, field := range schema.NumericFields() {
		g.Numeric[field] = zeroSummary()
	}
	for _, field := range schema.CategoricalFields() {
		g.Categorical[field] = model.LabelSummary{}
	}
	return g
}
