// Package router is a small method+path router over net/http with request
// logging. Patterns use "*" to match exactly one path segment, e.g.
// "/api/v1/runs/*/errors".
package router

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type route struct {
	method   string
	segments []string
	handler  http.HandlerFunc
}

// Router dispatches requests to registered handlers and logs every
// response with method, path, status and duration.
type Router struct {
	routes []route
	log    *zap.Logger
}

func New(log *zap.Logger) *Router {
	return &Router{log: log}
}

// Handle registers a handler for method and pattern. Registration order
// matters: the first matching route wins, so register more specific
// patterns before wildcard ones.
func (r *Router) Handle(method, pattern string, h http.HandlerFunc) {
	r.routes = append(r.routes, route{
		method:   method,
		segments: splitPath(pattern),
		handler:  h,
	})
}

func (r *Router) GET(pattern string, h http.HandlerFunc)  { r.Handle(http.MethodGet, pattern, h) }
func (r *Router) POST(pattern string, h http.HandlerFunc) { r.Handle(http.MethodPost, pattern, h) }

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	segments := splitPath(req.URL.Path)
	var matchedPath bool
	var handled bool
	for _, rt := range r.routes {
		if !matchSegments(segments, rt.segments) {
			continue
		}
		matchedPath = true
		if rt.method == req.Method {
			rt.handler(lrw, req)
			handled = true
			break
		}
	}
	if !handled {
		if matchedPath {
			http.Error(lrw, "Method Not Allowed", http.StatusMethodNotAllowed)
		} else {
			http.Error(lrw, "Not Found", http.StatusNotFound)
		}
	}

	r.log.Info("request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", lrw.statusCode),
		zap.Duration("duration", time.Since(start)))
}

// Start runs the HTTP server on addr, blocking until it exits.
func (r *Router) Start(addr string) error {
	r.log.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, r)
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

func matchSegments(path, pattern []string) bool {
	if len(path) != len(pattern) {
		return false
	}
	for i, seg := range pattern {
		if seg == "*" {
			continue
		}
		if seg != path[i] {
			return false
		}
	}
	return true
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *loggingResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
