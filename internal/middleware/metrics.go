package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/recordkit/recordkit/internal/metrics"
)

const recordsPath = "/api/v1/records"

// Metrics returns a middleware that records Prometheus metrics.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			metrics.ActiveConnections.Inc()
			defer metrics.ActiveConnections.Dec()

			next.ServeHTTP(rw, r)

			metrics.RecordRequest(r.Method, normalizePath(r.URL.Path), rw.statusCode, time.Since(start))
		})
	}
}

// normalizePath maps request paths onto route templates so record IDs do
// not become label values.
func normalizePath(path string) string {
	switch {
	case path == "/health" || path == "/ready" || path == "/metrics":
		return path
	case path == "/docs" || path == "/docs/openapi.yaml":
		return path
	case path == recordsPath || path == "/api/v1/posts":
		return path
	case strings.HasPrefix(path, recordsPath+"/") && !strings.Contains(path[len(recordsPath)+1:], "/"):
		return recordsPath + "/{id}"
	default:
		return "/other"
	}
}
