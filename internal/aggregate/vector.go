package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"go-ad-stats/internal/model"
	"go-ad-stats/internal/schema"
)

// vectorBackend is the column-vector strategy: per-group per-field value
// vectors reduced with gonum primitives.
type vectorBackend struct{}

func newVector() Backend { return vectorBackend{} }

func (vectorBackend) Name() string { return "vector" }

func (vectorBackend) Aggregate(records []model.Record, groupBy []string) (model.Report, error) {
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
			vec := make([]float64, 0, len(group))
			for _, rec := range group {
				if v, ok := rec.Metric(field); ok {
					vec = append(vec, v)
				}
			}
			if len(vec) == 0 {
				summary.Numeric[field] = zeroSummary()
				continue
			}
			// Reduce in ascending order so the sum does not depend on
			// the input record sequence.
			sort.Float64s(vec)
			sum := floats.Sum(vec)
			mean := stat.Mean(vec, nil)
			min := floats.Min(vec)
			max := floats.Max(vec)
			summary.Numeric[field] = finishSummary(vec, sum, mean, min, max)
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
