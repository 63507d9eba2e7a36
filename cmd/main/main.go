package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/UnknownOlympus/demeter/internal/config"
	"github.com/UnknownOlympus/demeter/internal/lib/logger/sl"
	"github.com/UnknownOlympus/demeter/internal/metrics"
	"github.com/UnknownOlympus/demeter/internal/repository"
	"github.com/UnknownOlympus/demeter/internal/server"
	"github.com/UnknownOlympus/demeter/internal/services/employees"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup
	delta := 2

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	dtb, err := repository.NewDatabase(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User,
		cfg.Postgres.Password, cfg.Postgres.Dbname, cfg.Postgres.MaxConns)
	if err != nil {
		log.Fatalf("Failed to configure DB pool: %v", err)
	}
	defer dtb.Close()

	employeeRepo := repository.NewEmployeeRepository(dtb, appMetrics)
	staff := employees.NewStaff(logger, employeeRepo, appMetrics)

	// not awaited: requests are served even if the table could not be prepared
	_ = staff.StartBootstrap(ctx)

	apiListener, err := server.Listen(cfg.HTTP.Port)
	if err != nil {
		log.Fatalf("Failed to start web service: %v", err)
	}
	monitoringListener, err := server.Listen(cfg.HTTP.MonitoringPort)
	if err != nil {
		log.Fatalf("Failed to start monitoring server: %v", err)
	}

	handlers := server.NewHandlers(logger, employeeRepo)
	apiServer := server.NewHTTPServer(server.NewRouter(logger, handlers, appMetrics))
	monitoringServer := server.NewHTTPServer(server.NewMonitoringHandler(logger, reg, dtb))

	wgr.Add(delta)

	go func() {
		defer wgr.Done()
		if err := server.Serve(ctx, logger, monitoringServer, monitoringListener, cfg.ShutdownTimeout); err != nil {
			logger.ErrorContext(ctx, "Monitoring server failed", sl.Err(err))
		}
	}()

	go func() {
		defer wgr.Done()
		if err := server.Serve(ctx, logger, apiServer, apiListener, cfg.ShutdownTimeout); err != nil {
			logger.ErrorContext(ctx, "Web service failed", sl.Err(err))
			stop()
		}
	}()

	logger.InfoContext(ctx, startupMessage(cfg.HTTP.Port), "monitoring_port", cfg.HTTP.MonitoringPort)

	wgr.Wait()

	logger.InfoContext(context.Background(), "Application stopped gracefully...")
}

func startupMessage(port int) string {
	return fmt.Sprintf("Web service running at http://localhost:%d", port)
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				AddSource:   false,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				AddSource:   false,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{Key: "", Value: slog.Value{}}
	}
	return a
}
