package aggregate

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"go-ad-stats/internal/model"
	"go-ad-stats/internal/schema"
)

// frameBackend is the dataframe strategy: records are loaded into a gota
// DataFrame, groups are realized as column filters and statistics come
// from series operations on the filtered columns.
type frameBackend struct{}

func newFrame() Backend { return frameBackend{} }

func (frameBackend) Name() string { return "frame" }

func (frameBackend) Aggregate(records []model.Record, groupBy []string) (model.Report, error) {
	if err := schema.ValidateGroupBy(groupBy); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		report := model.Report{}
		if len(groupBy) == 0 {
			report[model.OverallKey] = emptyGroup()
		}
		return report, nil
	}

	df := loadFrame(records)
	if df.Err != nil {
		return nil, fmt.Errorf("building dataframe: %w", df.Err)
	}

	keys, comps := frameGroups(df, groupBy)
	report := make(model.Report, len(keys))

	for i, key := range keys {
		sub := df
		for j, field := range groupBy {
			sub = sub.Filter(dataframe.F{
				Colname:    field,
				Comparator: series.Eq,
				Comparando: comps[i][j],
			})
		}
		if sub.Err != nil {
			return nil, fmt.Errorf("filtering group %q: %w", key, sub.Err)
		}

		summary := model.GroupSummary{
			RecordCount: sub.Nrow(),
			Numeric:     make(map[string]model.FieldSummary),
			Categorical: make(map[string]model.LabelSummary),
		}

		for _, field := range schema.NumericFields() {
			col := sub.Col(field).Float()
			values := make([]float64, 0, len(col))
			for _, v := range col {
				if !math.IsNaN(v) {
					values = append(values, v)
				}
			}
			if len(values) == 0 {
				summary.Numeric[field] = zeroSummary()
				continue
			}
			// Load the series in ascending order so its reductions do
			// not depend on the input record sequence.
			sort.Float64s(values)
			s := series.New(values, series.Float, field)
			summary.Numeric[field] = finishSummary(values, s.Sum(), s.Mean(), s.Min(), s.Max())
		}

		for _, field := range schema.CategoricalFields() {
			col := sub.Col(field).Records()
			values := make([]string, 0, len(col))
			for _, v := range col {
				if v != model.MissingLabel {
					values = append(values, v)
				}
			}
			summary.Categorical[field] = labelSummary(values)
		}

		report[key] = summary
	}

	return report, nil
}

// loadFrame loads records into a DataFrame, one series per schema column.
// Missing categorical values become the missing sentinel; missing numeric
// values become NaN, gota's native null representation.
func loadFrame(records []model.Record) dataframe.DataFrame {
	var cols []series.Series
	for _, f := range schema.Fields() {
		switch f.Kind {
		case schema.Categorical:
			vals := make([]string, len(records))
			for i, rec := range records {
				if v, ok := rec.Label(f.Name); ok {
					vals[i] = v
				} else {
					vals[i] = model.MissingLabel
				}
			}
			cols = append(cols, series.New(vals, series.String, f.Name))
		case schema.Numeric:
			vals := make([]float64, len(records))
			for i, rec := range records {
				if v, ok := rec.Metric(f.Name); ok {
					vals[i] = v
				} else {
					vals[i] = math.NaN()
				}
			}
			cols = append(cols, series.New(vals, series.Float, f.Name))
		}
	}
	return dataframe.New(cols...)
}

// frameGroups scans the grouping columns row-wise and returns the group
// keys in first-seen order together with the component values that
// reproduce each group as a filter.
func frameGroups(df dataframe.DataFrame, groupBy []string) ([]string, [][]string) {
	if len(groupBy) == 0 {
		return []string{model.OverallKey}, [][]string{nil}
	}
	colVals := make([][]string, len(groupBy))
	for i, field := range groupBy {
		colVals[i] = df.Col(field).Records()
	}
	var keys []string
	var comps [][]string
	seen := make(map[string]bool)
	for row := 0; row < df.Nrow(); row++ {
		parts := make([]string, len(groupBy))
		for i := range groupBy {
			parts[i] = colVals[i][row]
		}
		key := model.GroupKey(parts)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
			comps = append(comps, parts)
		}
	}
	return keys, comps
}
