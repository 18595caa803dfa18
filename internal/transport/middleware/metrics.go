package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/mazta/kpi-dashboard/pkg/metrics"
)

// MetricsMiddleware records request counts and latency per route. The
// chi route pattern is used as the path label so IDs don't explode the
// label cardinality.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			mw := &metricsWriter{ResponseWriter: w}
			next.ServeHTTP(mw, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			status := mw.statusCode
			if status == 0 {
				status = http.StatusOK
			}

			m.ObserveHTTPRequest(r.Method, path, strconv.Itoa(status), time.Since(start))
		})
	}
}

type metricsWriter struct {
	http.ResponseWriter
	statusCode int
}

func (mw *metricsWriter) WriteHeader(code int) {
	mw.statusCode = code
	mw.ResponseWriter.WriteHeader(code)
}
