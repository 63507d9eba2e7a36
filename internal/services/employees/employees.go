package employees

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/demeter/internal/lib/logger/sl"
	"github.com/UnknownOlympus/demeter/internal/metrics"
	"github.com/UnknownOlympus/demeter/internal/repository"
	"github.com/jackc/pgx/v5/pgtype"
)

const bootstrapTimeout = 30 * time.Second

// SeedEmployee is a sample row inserted into an empty table.
type SeedEmployee struct {
	Name     string
	Phone    string
	HireDate time.Time
}

// SeedEmployees are inserted, in order, when the users table is found empty.
var SeedEmployees = []SeedEmployee{
	{Name: "John Doe", Phone: "123-456-7890", HireDate: time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)},
	{Name: "John Mai", Phone: "234-567-8901", HireDate: time.Date(2021, time.March, 22, 0, 0, 0, 0, time.UTC)},
	{Name: "John Nguyen", Phone: "345-678-9012", HireDate: time.Date(2022, time.July, 30, 0, 0, 0, 0, time.UTC)},
}

type Staff struct {
	log     *slog.Logger
	repo    repository.EmployeeRepoIface
	metrics *metrics.Metrics
}

func NewStaff(log *slog.Logger, repo repository.EmployeeRepoIface, metrics *metrics.Metrics) *Staff {
	return &Staff{log: log, repo: repo, metrics: metrics}
}

func (s *Staff) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "employee"),
	)
}

// StartBootstrap runs Bootstrap in its own goroutine and returns immediately.
// The outcome is logged and delivered once on the returned channel, which is buffered,
// so nobody has to read it. The server keeps serving even if bootstrap fails.
func (s *Staff) StartBootstrap(ctx context.Context) <-chan error {
	const opn = "Employee.StartBootstrap"
	log := s.initLogger(opn)

	result := make(chan error, 1)

	go func() {
		defer close(result)

		bctx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
		defer cancel()

		err := s.Bootstrap(bctx)
		if err != nil {
			log.ErrorContext(ctx, "Schema initialization failed, serving anyway", sl.Err(err))
		}

		result <- err
	}()

	return result
}

// Bootstrap ensures the users table exists and seeds it when it holds no rows.
// Running it against an already populated table changes nothing.
func (s *Staff) Bootstrap(ctx context.Context) error {
	const opn = "Employee.Bootstrap"
	log := s.initLogger(opn)

	err := s.bootstrap(ctx, log)
	if err != nil {
		s.recordRun("failure")
		return err
	}

	s.recordRun("success")

	return nil
}

func (s *Staff) recordRun(status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.BootstrapRuns.WithLabelValues(status).Inc()
}

func (s *Staff) recordSeeded() {
	if s.metrics == nil {
		return
	}
	s.metrics.SeededRows.Inc()
}

func (s *Staff) bootstrap(ctx context.Context, log *slog.Logger) error {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	count, err := s.repo.CountEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to check whether table is empty: %w", err)
	}

	if count != 0 {
		log.DebugContext(ctx, "Table already populated, seeding skipped", "rows", count)
		return nil
	}

	for _, seed := range SeedEmployees {
		employee, saveErr := s.repo.SaveEmployee(ctx,
			seed.Name,
			pgtype.Text{String: seed.Phone, Valid: true},
			pgtype.Date{Time: seed.HireDate, Valid: true},
		)
		if saveErr != nil {
			return fmt.Errorf("failed to seed employee '%s': %w", seed.Name, saveErr)
		}
		s.recordSeeded()
		log.DebugContext(ctx, "Seeded employee", "id", employee.ID, "name", employee.Name)
	}

	log.InfoContext(ctx, "Table was empty, sample employees inserted", "count", len(SeedEmployees))

	return nil
}
