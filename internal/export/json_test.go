package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ad-stats/internal/model"
)

func sampleSummary(count int, sum float64) model.GroupSummary {
	mean := sum / float64(count)
	return model.GroupSummary{
		RecordCount: count,
		Numeric: map[string]model.FieldSummary{
			"estimated_spend": {Count: count, Sum: sum, Mean: &mean},
		},
		Categorical: map[string]model.LabelSummary{},
	}
}

func TestWriteReports(t *testing.T) {
	base := filepath.Join(t.TempDir(), "stats_output")
	overall := sampleSummary(3, 600)
	byPage := model.Report{"A": sampleSummary(2, 400), "B": sampleSummary(1, 200)}
	byPageAd := model.Report{"A|1": sampleSummary(1, 100)}

	outputs, err := WriteReports(base, overall, byPage, byPageAd)
	require.NoError(t, err)
	require.Len(t, outputs, 3)

	assert.Equal(t, base+"_overall.json", outputs[0].Path)
	assert.Equal(t, "overall", outputs[0].Kind)
	assert.Equal(t, 1, outputs[0].Groups)
	assert.Equal(t, 2, outputs[1].Groups)
	assert.Equal(t, 1, outputs[2].Groups)

	// The overall document is the bundle itself, not a keyed report.
	data, err := os.ReadFile(base + "_overall.json")
	require.NoError(t, err)
	var decodedOverall model.GroupSummary
	require.NoError(t, json.Unmarshal(data, &decodedOverall))
	assert.Equal(t, 3, decodedOverall.RecordCount)
	assert.Equal(t, 600.0, decodedOverall.Numeric["estimated_spend"].Sum)

	data, err = os.ReadFile(base + "_by_page.json")
	require.NoError(t, err)
	var decodedByPage model.Report
	require.NoError(t, json.Unmarshal(data, &decodedByPage))
	require.Contains(t, decodedByPage, "A")
	assert.Equal(t, 400.0, decodedByPage["A"].Numeric["estimated_spend"].Sum)
}

func TestWriteReportsCreatesDirectory(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "dir", "out")
	_, err := WriteReports(base, sampleSummary(1, 10), model.Report{}, model.Report{})
	require.NoError(t, err)
	_, err = os.Stat(base + "_overall.json")
	assert.NoError(t, err)
}

func TestWriteReportsNullFieldsSerializeAsNull(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	empty := model.GroupSummary{
		RecordCount: 0,
		Numeric:     map[string]model.FieldSummary{"clicks": {}},
		Categorical: map[string]model.LabelSummary{"currency": {}},
	}
	_, err := WriteReports(base, empty, model.Report{}, model.Report{})
	require.NoError(t, err)

	data, err := os.ReadFile(base + "_overall.json")
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	clicks := raw["numeric"].(map[string]interface{})["clicks"].(map[string]interface{})
	assert.Equal(t, 0.0, clicks["count"])
	assert.Nil(t, clicks["mean"])
	assert.Nil(t, clicks["median"])
}
