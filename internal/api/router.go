// Package api exposes the optimizer over HTTP using the chi router.
//
// Routes:
//
//	GET  /api/v1/health      server status
//	GET  /api/v1/attributes  attributes of the configured dataset
//	POST /api/v1/optimize    best configuration under a budget
//	POST /api/v1/count       number of configurations that fit a budget
//	POST /api/v1/rank        k best configurations under a budget
//	GET  /metrics            Prometheus metrics
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zzenonn/go-mckp/internal/logging"
	"github.com/zzenonn/go-mckp/internal/metrics"
)

// NewRouter wires the handler into a chi router.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RecordMetrics())

		r.Get("/health", h.Health)
		r.Get("/attributes", h.Attributes)
		r.Post("/optimize", h.Optimize)
		r.Post("/count", h.Count)
		r.Post("/rank", h.Rank)
	})

	r.Handle("/metrics", promhttp.Handler())
	return r
}

// RequestIDWithLogging propagates X-Request-ID, generating one when absent,
// and stores it in the request context for logging.Ctx.
func RequestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(chimiddleware.RequestIDHeader)
			if requestID == "" {
				requestID = logging.GenerateRequestID()
			}
			w.Header().Set(chimiddleware.RequestIDHeader, requestID)
			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RecordMetrics records request counts and latency by route pattern.
func RecordMetrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			endpoint := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				endpoint = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			metrics.RecordAPIRequest(r.Method, endpoint, status, time.Since(start))
		})
	}
}
