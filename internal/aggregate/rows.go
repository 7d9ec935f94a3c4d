package aggregate

import (
	"sort"

	"go-ad-stats/internal/model"
	"go-ad-stats/internal/schema"
)

// rowsBackend is the manual-iteration strategy: one pass to partition,
// then plain accumulation loops per group and field.
type rowsBackend struct{}

func newRows() Backend { return rowsBackend{} }

func (rowsBackend) Name() string { return "rows" }

func (rowsBackend) Aggregate(records []model.Record, groupBy []string) (model.Report, error) {
	if err := schema.ValidateGroupBy(groupBy); err != nil {
		return nil, err
	}

	part := partitionRecords(records, groupBy)
	report := make(model.Report, len(part.keys))

	for _, key := range part.keys {
		group := part.groups[key]
		summary := model.GroupSummary{
			RecordCount: len(group),
			Numeric:     make(map[string]model.FieldSummary),
			Categorical: make(map[string]model.LabelSummary),
		}

		for _, field := range schema.NumericFields() {
			var values []float64
			for _, rec := range group {
				if v, ok := rec.Metric(field); ok {
					values = append(values, v)
				}
			}
			if len(values) == 0 {
				summary.Numeric[field] = zeroSummary()
				continue
			}
			// Accumulate in ascending order so the sum does not depend
			// on the input record sequence.
			sort.Float64s(values)
			sum := 0.0
			min, max := values[0], values[0]
			for _, v := range values {
				sum += v
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
			mean := sum / float64(len(values))
			summary.Numeric[field] = finishSummary(values, sum, mean, min, max)
		}

		for _, field := range schema.CategoricalFields() {
			var values []string
			for _, rec := range group {
				if v, ok := rec.Label(field); ok {
					values = append(values, v)
				}
			}
			summary.Categorical[field] = labelSummary(values)
		}

		report[key] = summary
	}

	return report, nil
}
