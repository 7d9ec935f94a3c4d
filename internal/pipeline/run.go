// Package pipeline orchestrates one aggregation run: read records, compute
// the three grouped reports, write the JSON documents, track the run in
// the store. The whole run is a single blocking call with no internal
// concurrency; callers bound its runtime through ctx.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-ad-stats/internal/aggregate"
	"go-ad-stats/internal/export"
	"go-ad-stats/internal/ingest"
	"go-ad-stats/internal/model"
	"go-ad-stats/internal/store"
)

// Config carries the process-lifetime configuration of a run.
type Config struct {
	Input      string `json:"input"`
	OutputBase string `json:"output_basename"`
	Backend    string `json:"backend"`
}

// Run executes a full aggregation run. On failure no output file is left
// behind and the run is marked failed in the store.
func Run(ctx context.Context, log *zap.Logger, runID string, cfg Config) (err error) {
	start := time.Now()
	log.Info("starting run",
		zap.String("run_id", runID),
		zap.String("input", cfg.Input),
		zap.String("backend", cfg.Backend))

	store.UpdateRunStatus(runID, "running")
	defer func() {
		if err != nil {
			store.UpdateRunStatus(runID, "failed")
			store.SaveRunError(runID, err)
			log.Error("run failed", zap.String("run_id", runID), zap.Error(err))
		}
	}()

	backend, err := aggregate.ByName(cfg.Backend)
	if err != nil {
		return err
	}

	records, err := ingest.ReadRecords(cfg.Input)
	if err != nil {
		return err
	}
	log.Info("ingestion complete",
		zap.String("run_id", runID),
		zap.Int("records", len(records)))

	groupings := []struct {
		name   string
		fields []string
	}{
		{"overall", nil},
		{"by_page", []string{"page_id"}},
		{"by_page_ad", []string{"page_id", "ad_id"}},
	}

	reports := make(map[string]model.Report, len(groupings))
	for _, g := range groupings {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run cancelled: %w", err)
		}
		report, err := backend.Aggregate(records, g.fields)
		if err != nil {
			return err
		}
		reports[g.name] = report
		log.Info("aggregation complete",
			zap.String("run_id", runID),
			zap.String("grouping", g.name),
			zap.Int("groups", len(report)))
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run cancelled: %w", err)
	}

	outputs, err := export.WriteReports(
		cfg.OutputBase,
		reports["overall"][model.OverallKey],
		reports["by_page"],
		reports["by_page_ad"])
	if err != nil {
		return err
	}
	for _, out := range outputs {
		store.SaveRunOutput(runID, out.Path, out.Kind, out.Groups)
		log.Info("report written",
			zap.String("run_id", runID),
			zap.String("path", out.Path),
			zap.Int("groups", out.Groups))
	}

	store.UpdateRunStatus(runID, "completed")
	log.Info("run completed",
		zap.String("run_id", runID),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
