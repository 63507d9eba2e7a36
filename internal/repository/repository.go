package repository

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/demeter/internal/metrics"
	"github.com/UnknownOlympus/demeter/internal/models"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrEmployeeNotFound is returned when no row matches the requested identifier.
var ErrEmployeeNotFound = errors.New("employee not found")

type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

// EmployeeRepoIface represents the interface for interacting with employee data in the repository.
type EmployeeRepoIface interface {
	EnsureSchema(ctx context.Context) error
	CountEmployees(ctx context.Context) (int, error)
	SaveEmployee(ctx context.Context, name string, phone pgtype.Text, hireDate pgtype.Date) (models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	CreateEmployee(ctx context.Context, name pgtype.Text) (models.Employee, error)
	GetEmployeeByID(ctx context.Context, identifier int) (models.Employee, error)
	UpdateEmployeeName(ctx context.Context, identifier int, name pgtype.Text) (models.Employee, error)
	DeleteEmployee(ctx context.Context, identifier int) (models.Employee, error)
}

func NewEmployeeRepository(db Database, metrics *metrics.Metrics) EmployeeRepoIface {
	return &Repository{db: db, metrics: metrics}
}
