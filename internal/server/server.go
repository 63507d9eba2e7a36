package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/UnknownOlympus/demeter/internal/lib/logger/sl"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 120 * time.Second
)

// NewHTTPServer builds an *http.Server with the timeouts shared by both listeners.
func NewHTTPServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// NewMonitoringHandler exposes /metrics from reg and /healthz backed by a DB ping.
func NewMonitoringHandler(log *slog.Logger, reg *prometheus.Registry, db DBPinger) http.Handler {
	router := chi.NewRouter()

	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	router.Handle("/healthz", NewHealthChecker(db, log))

	return router
}

// Listen opens a TCP listener on every interface at the given port.
func Listen(port int) (net.Listener, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	return listener, nil
}

// Serve runs srv on listener until ctx is cancelled, then shuts it down gracefully
// within shutdownTimeout. It returns nil after a clean shutdown.
func Serve(
	ctx context.Context,
	log *slog.Logger,
	srv *http.Server,
	listener net.Listener,
	shutdownTimeout time.Duration,
) error {
	errCh := make(chan error, 1)

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("server stopped unexpectedly: %w", err)
	case <-ctx.Done():
	}

	log.InfoContext(ctx, "Shutting down server", "addr", listener.Addr().String())

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(shutdownCtx, "Graceful shutdown failed", sl.Err(err))
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
