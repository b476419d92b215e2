package managerapi

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// accessLogMiddleware logs every request through zerolog, the HTTP-layer
// logger kept distinct from the domain logger (ports.Logger) used by the
// scheduler, consumers, and processor runtime.
func accessLogMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("correlation_id", ports.GetCorrelationID(r.Context())).
				Msg("http request")
		})
	}
}
