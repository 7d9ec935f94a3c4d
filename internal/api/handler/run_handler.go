package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-ad-stats/internal/pipeline"
	"go-ad-stats/internal/store"
)

// RunHandler serves the aggregation-run API.
type RunHandler struct {
	Log *zap.Logger
	// RunTimeout bounds each background run; zero means the default.
	RunTimeout time.Duration
}

const defaultRunTimeout = 5 * time.Minute

// CreateRun starts a new aggregation run
// @Summary Create a new run
// @Description Start an aggregation run over the given input file
// @Tags runs
// @Accept json
// @Produce json
// @Param run body pipeline.Config true "Run configuration"
// @Success 200 {object} map[string]interface{} "Run created"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [post]
func (h *RunHandler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var cfg pipeline.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if cfg.Input == "" {
		http.Error(w, "input is required", http.StatusBadRequest)
		return
	}
	if cfg.OutputBase == "" {
		cfg.OutputBase = "stats_output"
	}
	if cfg.Backend == "" {
		cfg.Backend = "rows"
	}

	runID := uuid.New().String()
	if err := store.SaveRun(runID, cfg.Input, cfg.OutputBase, cfg.Backend); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	timeout := h.RunTimeout
	if timeout == 0 {
		timeout = defaultRunTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	go func() {
		defer cancel()
		// Run records its own failures in the store.
		_ = pipeline.Run(ctx, h.Log, runID, cfg)
	}()

	writeJSON(w, map[string]interface{}{
		"message":   "Run created successfully",
		"runID":     runID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	})
}

// ListRuns retrieves all runs
// @Summary List all runs
// @Description Get all aggregation runs with their current status
// @Tags runs
// @Produce json
// @Success 200 {array} store.RunInfo "List of runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [get]
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, runs)
}

// GetRun retrieves one run
// @Summary Get run
// @Description Retrieve details of a specific run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} store.RunInfo "Run details"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /runs/{id} [get]
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := pathSegment(r.URL.Path, 3)
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}
	run, err := store.GetRun(runID)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch run", http.StatusInternalServerError)
		return
	}
	writeJSON(w, run)
}

// GetRunErrors retrieves a run's errors
// @Summary Get run errors
// @Description Retrieve the recorded errors of a specific run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {array} string "Error messages"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/errors [get]
func (h *RunHandler) GetRunErrors(w http.ResponseWriter, r *http.Request) {
	runID := pathSegment(r.URL.Path, 3)
	msgs, err := store.ListRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to fetch run errors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"runID": runID, "errors": msgs})
}

// GetRunOutputs retrieves a run's output files
// @Summary Get run outputs
// @Description Retrieve the report files written by a specific run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {array} store.RunOutput "Output files"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/outputs [get]
func (h *RunHandler) GetRunOutputs(w http.ResponseWriter, r *http.Request) {
	runID := pathSegment(r.URL.Path, 3)
	outputs, err := store.ListRunOutputs(runID)
	if err != nil {
		http.Error(w, "Failed to fetch run outputs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"runID": runID, "outputs": outputs})
}

// pathSegment returns the idx-th segment of path, e.g. the run ID in
// /api/v1/runs/{id}/errors is segment 3.
func pathSegment(path string, idx int) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if idx >= len(segments) {
		return ""
	}
	return segments[idx]
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
