package handler

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-ad-stats/internal/store"
)

func newHandler(t *testing.T) *RunHandler {
	t.Helper()
	require.NoError(t, store.InitDB(filepath.Join(t.TempDir(), "api.db")))
	t.Cleanup(func() { store.Close() })
	return &RunHandler{Log: zap.NewNop()}
}

func TestCreateRunInvalidJSON(t *testing.T) {
	h := newHandler(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", strings.NewReader("{not json"))

	h.CreateRun(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRunRequiresInput(t *testing.T) {
	h := newHandler(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", strings.NewReader(`{"output_basename":"out"}`))

	h.CreateRun(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRunPersistsPendingRun(t *testing.T) {
	h := newHandler(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs",
		strings.NewReader(`{"input":"no-such-file.csv","backend":"rows"}`))

	h.CreateRun(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "runID")

	runs, err := store.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "no-such-file.csv", runs[0].Input)
}

func TestGetRunNotFound(t *testing.T) {
	h := newHandler(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/does-not-exist", nil)

	h.GetRun(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRunsEmpty(t *testing.T) {
	h := newHandler(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)

	h.ListRuns(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestPathSegment(t *testing.T) {
	assert.Equal(t, "abc", pathSegment("/api/v1/runs/abc", 3))
	assert.Equal(t, "abc", pathSegment("/api/v1/runs/abc/errors", 3))
	assert.Equal(t, "", pathSegment("/api/v1/runs", 3))
}
