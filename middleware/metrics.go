package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/nexusarena/tournament-service/metrics"
)

// Metrics records request count, duration, and in-flight gauge for every
// handled request.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		metrics.RequestsInProgress.WithLabelValues(r.Method, path).Inc()
		defer metrics.RequestsInProgress.WithLabelValues(r.Method, path).Dec()

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := strconv.Itoa(ww.Status())
		metrics.RequestCounter.WithLabelValues(status, r.Method, path).Inc()
		metrics.RequestDuration.WithLabelValues(status, r.Method, path).Observe(time.Since(start).Seconds())
	})
}
