package api

import (
	"go-ad-stats/internal/api/handler"
	"go-ad-stats/pkg/router"
)

// RegisterRoutes wires the run API onto r. More specific routes first: the
// router matches in registration order.
func RegisterRoutes(r *router.Router, h *handler.RunHandler) {
	r.POST("/api/v1/runs", h.CreateRun)
	r.GET("/api/v1/runs", h.ListRuns)
	r.GET("/api/v1/runs/*/errors", h.GetRunErrors)
	r.GET("/api/v1/runs/*/outputs", h.GetRunOutputs)
	r.GET("/api/v1/runs/*", h.GetRun)
}
