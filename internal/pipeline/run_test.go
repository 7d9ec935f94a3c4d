package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-ad-stats/internal/model"
	"go-ad-stats/internal/store"
)

const csvHeader = "page_id,ad_id,candidate_name,currency,estimated_spend,estimated_impressions,estimated_audience_size,clicks,engagements,reach,cpc,cpm"

func setup(t *testing.T, csvContent string) (Config, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, store.InitDB(filepath.Join(dir, "runs.db")))
	t.Cleanup(func() { store.Close() })

	input := filepath.Join(dir, "ads.csv")
	require.NoError(t, os.WriteFile(input, []byte(csvContent), 0644))

	cfg := Config{
		Input:      input,
		OutputBase: filepath.Join(dir, "stats_output"),
		Backend:    "rows",
	}
	require.NoError(t, store.SaveRun("run-e2e", cfg.Input, cfg.OutputBase, cfg.Backend))
	return cfg, "run-e2e"
}

func TestRunEndToEnd(t *testing.T) {
	cfg, runID := setup(t, csvHeader+"\n"+
		"A,1,Smith,USD,100,1000,5000,10,20,900,0.5,10\n"+
		"A,2,Smith,USD,300,3000,5000,30,60,2500,0.6,11\n"+
		"B,3,Jones,USD,200,2000,4000,20,40,1700,0.55,10.5\n")

	require.NoError(t, Run(context.Background(), zap.NewNop(), runID, cfg))

	run, err := store.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, "completed", run.Status)

	outputs, err := store.ListRunOutputs(runID)
	require.NoError(t, err)
	require.Len(t, outputs, 3)

	data, err := os.ReadFile(cfg.OutputBase + "_by_page.json")
	require.NoError(t, err)
	var byPage model.Report
	require.NoError(t, json.Unmarshal(data, &byPage))
	require.Contains(t, byPage, "A")
	require.Contains(t, byPage, "B")

	spend := byPage["A"].Numeric["estimated_spend"]
	assert.Equal(t, 2, spend.Count)
	assert.Equal(t, 400.0, spend.Sum)
	assert.Equal(t, 200.0, *spend.Mean)
	assert.Equal(t, 200.0, *spend.Median)
	assert.Equal(t, 100.0, *spend.Min)
	assert.Equal(t, 300.0, *spend.Max)

	data, err = os.ReadFile(cfg.OutputBase + "_by_page_ad.json")
	require.NoError(t, err)
	var byPageAd model.Report
	require.NoError(t, json.Unmarshal(data, &byPageAd))
	assert.Contains(t, byPageAd, "A|1")
	assert.Contains(t, byPageAd, "B|3")
}

func TestRunFailsWithoutPartialOutput(t *testing.T) {
	// Bad numeric cell: the run must fail and write nothing.
	cfg, runID := setup(t, csvHeader+"\n"+
		"A,1,Smith,USD,not-a-number,1000,5000,10,20,900,0.5,10\n")

	require.Error(t, Run(context.Background(), zap.NewNop(), runID, cfg))

	run, err := store.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, "failed", run.Status)

	for _, suffix := range []string{"_overall.json", "_by_page.json", "_by_page_ad.json"} {
		_, err := os.Stat(cfg.OutputBase + suffix)
		assert.True(t, os.IsNotExist(err), "expected no output file %s", suffix)
	}

	msgs, err := store.ListRunErrors(runID)
	require.NoError(t, err)
	assert.NotEmpty(t, msgs)
}

func TestRunUnknownBackend(t *testing.T) {
	cfg, runID := setup(t, csvHeader+"\n")
	cfg.Backend = "pandas"
	require.Error(t, Run(context.Background(), zap.NewNop(), runID, cfg))
}

func TestRunCancelledContext(t *testing.T) {
	cfg, runID := setup(t, csvHeader+"\n"+
		"A,1,Smith,USD,100,1000,5000,10,20,900,0.5,10\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, Run(ctx, zap.NewNop(), runID, cfg))

	_, err := os.Stat(cfg.OutputBase + "_overall.json")
	assert.True(t, os.IsNotExist(err))
}
