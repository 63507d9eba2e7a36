package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/UnknownOlympus/demeter/internal/metrics"
)

// NewRouter wires the /users endpoints. Every origin is allowed.
func NewRouter(log *slog.Logger, handlers *Handlers, appMetrics *metrics.Metrics) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(log))
	router.Use(instrument(appMetrics))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
		},
		AllowedHeaders: []string{"*"},
	}))

	router.Route("/users", func(r chi.Router) {
		r.Get("/", handlers.ListEmployees)
		r.Post("/", handlers.CreateEmployee)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.GetEmployee)
			r.Put("/", handlers.UpdateEmployee)
			r.Delete("/", handlers.DeleteEmployee)
		})
	})

	return router
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			wrapped := middleware.NewWrapResponseWriter(writer, req.ProtoMajor)
			startTime := time.Now()

			defer func() {
				log.InfoContext(req.Context(), "request completed",
					slog.String("method", req.Method),
					slog.String("path", req.URL.Path),
					slog.Int("status", wrapped.Status()),
					slog.Int("bytes", wrapped.BytesWritten()),
					slog.Duration("duration", time.Since(startTime)),
					slog.String("request_id", middleware.GetReqID(req.Context())),
				)
			}()

			next.ServeHTTP(wrapped, req)
		})
	}
}

func instrument(appMetrics *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			wrapped := middleware.NewWrapResponseWriter(writer, req.ProtoMajor)
			startTime := time.Now()

			next.ServeHTTP(wrapped, req)

			route := "unmatched"
			if rctx := chi.RouteContext(req.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := wrapped.Status()
			if status == 0 {
				status = http.StatusOK
			}

			appMetrics.HTTPRequests.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
			appMetrics.HTTPRequestDuration.WithLabelValues(req.Method, route).Observe(time.Since(startTime).Seconds())
		})
	}
}
