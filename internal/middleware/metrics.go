package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"fcigcli/internal/infrastructure"
)

// Metrics records request counts and latencies on the business metric
// instruments.
func Metrics(bm *infrastructure.BusinessMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bm == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			attrs := metric.WithAttributes(
				attribute.String("method", r.Method),
				attribute.String("path", r.URL.Path),
				attribute.Int("status", ww.Status()),
			)
			bm.HTTPRequestsTotal.Add(r.Context(), 1, attrs)
			bm.HTTPRequestDuration.Record(r.Context(), time.Since(start).Seconds(), attrs)
		})
	}
}
