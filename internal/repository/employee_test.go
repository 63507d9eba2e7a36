package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/UnknownOlympus/demeter/internal/metrics"
	"github.com/UnknownOlympus/demeter/internal/models"
	"github.com/UnknownOlympus/demeter/internal/repository"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	saveEmployeeQuery = `
		INSERT INTO users (employeename, phone, hiredate)
		VALUES ($1, $2, $3)
		RETURNING employeeid, employeename, phone, hiredate;
	`
	listEmployeesQuery  = `SELECT employeeid, employeename, phone, hiredate FROM users`
	createEmployeeQuery = `INSERT INTO users (employeename) VALUES ($1) RETURNING employeeid, employeename, phone, hiredate`
	getEmployeeQuery    = `SELECT employeeid, employeename, phone, hiredate FROM users WHERE employeeid = $1`
	updateEmployeeQuery = `UPDATE users SET employeename = $1 WHERE employeeid = $2 ` +
		`RETURNING employeeid, employeename, phone, hiredate`
	deleteEmployeeQuery = `DELETE FROM users WHERE employeeid = $1 RETURNING employeeid, employeename, phone, hiredate`
)

var employeeColumns = []string{"employeeid", "employeename", "phone", "hiredate"}

func newRepo(t *testing.T) (pgxmock.PgxPoolIface, repository.EmployeeRepoIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, repository.NewEmployeeRepository(mock, metrics.NewMetrics(prometheus.NewRegistry()))
}

func seededEmployee() models.Employee {
	return models.Employee{
		ID:       1,
		Name:     "John Doe",
		Phone:    pgtype.Text{String: "123-456-7890", Valid: true},
		HireDate: pgtype.Date{Time: time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC), Valid: true},
	}
}

func employeeRow(employee models.Employee) *pgxmock.Rows {
	return pgxmock.NewRows(employeeColumns).
		AddRow(employee.ID, employee.Name, employee.Phone, employee.HireDate)
}

func TestSaveEmployee(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)
		expected := seededEmployee()

		mock.ExpectQuery(regexp.QuoteMeta(saveEmployeeQuery)).
			WithArgs(expected.Name, expected.Phone, expected.HireDate).
			WillReturnRows(employeeRow(expected))

		actual, err := repo.SaveEmployee(context.Background(), expected.Name, expected.Phone, expected.HireDate)

		require.NoError(t, err)
		assert.Equal(t, expected, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)
		expected := seededEmployee()

		mock.ExpectQuery(regexp.QuoteMeta(saveEmployeeQuery)).
			WithArgs(expected.Name, expected.Phone, expected.HireDate).
			WillReturnError(assert.AnError)

		_, err := repo.SaveEmployee(context.Background(), expected.Name, expected.Phone, expected.HireDate)

		require.EqualError(t, err, "failed to save employee: "+assert.AnError.Error())
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListEmployees(t *testing.T) {
	t.Parallel()

	t.Run("returns every row", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)
		first := seededEmployee()
		second := models.Employee{ID: 4, Name: "Ada"}

		mock.ExpectQuery(regexp.QuoteMeta(listEmployeesQuery)).
			WillReturnRows(pgxmock.NewRows(employeeColumns).
				AddRow(first.ID, first.Name, first.Phone, first.HireDate).
				AddRow(second.ID, second.Name, nil, nil))

		actual, err := repo.ListEmployees(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []models.Employee{first, second}, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table yields empty slice", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(listEmployeesQuery)).
			WillReturnRows(pgxmock.NewRows(employeeColumns))

		actual, err := repo.ListEmployees(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, actual)
		assert.Empty(t, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(listEmployeesQuery)).WillReturnError(assert.AnError)

		actual, err := repo.ListEmployees(context.Background())

		require.EqualError(t, err, "failed to list employees: "+assert.AnError.Error())
		assert.Nil(t, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateEmployee(t *testing.T) {
	t.Parallel()

	t.Run("only the name is populated", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)
		name := pgtype.Text{String: "Ada", Valid: true}

		mock.ExpectQuery(regexp.QuoteMeta(createEmployeeQuery)).
			WithArgs(name).
			WillReturnRows(pgxmock.NewRows(employeeColumns).AddRow(4, "Ada", nil, nil))

		actual, err := repo.CreateEmployee(context.Background(), name)

		require.NoError(t, err)
		assert.Equal(t, models.Employee{ID: 4, Name: "Ada"}, actual)
		assert.False(t, actual.Phone.Valid)
		assert.False(t, actual.HireDate.Valid)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("constraint violation", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(createEmployeeQuery)).
			WithArgs(pgtype.Text{}).
			WillReturnError(assert.AnError)

		_, err := repo.CreateEmployee(context.Background(), pgtype.Text{})

		require.EqualError(t, err, "failed to create employee: "+assert.AnError.Error())
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetEmployeeByID(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)
		expected := seededEmployee()

		mock.ExpectQuery(regexp.QuoteMeta(getEmployeeQuery)).
			WithArgs(expected.ID).
			WillReturnRows(employeeRow(expected))

		actual, err := repo.GetEmployeeByID(context.Background(), expected.ID)

		require.NoError(t, err)
		assert.Equal(t, expected, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(getEmployeeQuery)).
			WithArgs(999).
			WillReturnRows(pgxmock.NewRows(employeeColumns))

		_, err := repo.GetEmployeeByID(context.Background(), 999)

		require.ErrorIs(t, err, repository.ErrEmployeeNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(getEmployeeQuery)).
			WithArgs(1).
			WillReturnError(assert.AnError)

		actual, err := repo.GetEmployeeByID(context.Background(), 1)

		require.EqualError(t, err, "failed to get employee by id: "+assert.AnError.Error())
		assert.NotErrorIs(t, err, repository.ErrEmployeeNotFound)
		assert.Equal(t, models.Employee{}, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateEmployeeName(t *testing.T) {
	t.Parallel()

	t.Run("phone and hire date are untouched", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)
		expected := seededEmployee()
		expected.Name = "Jane Doe"
		name := pgtype.Text{String: expected.Name, Valid: true}

		mock.ExpectQuery(regexp.QuoteMeta(updateEmployeeQuery)).
			WithArgs(name, expected.ID).
			WillReturnRows(employeeRow(expected))

		actual, err := repo.UpdateEmployeeName(context.Background(), expected.ID, name)

		require.NoError(t, err)
		assert.Equal(t, expected, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)
		name := pgtype.Text{String: "Nobody", Valid: true}

		mock.ExpectQuery(regexp.QuoteMeta(updateEmployeeQuery)).
			WithArgs(name, 42).
			WillReturnRows(pgxmock.NewRows(employeeColumns))

		_, err := repo.UpdateEmployeeName(context.Background(), 42, name)

		require.ErrorIs(t, err, repository.ErrEmployeeNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(updateEmployeeQuery)).
			WithArgs(pgtype.Text{}, 1).
			WillReturnError(assert.AnError)

		_, err := repo.UpdateEmployeeName(context.Background(), 1, pgtype.Text{})

		require.EqualError(t, err, "failed to update employee name: "+assert.AnError.Error())
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteEmployee(t *testing.T) {
	t.Parallel()

	t.Run("returns the prior row", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)
		expected := seededEmployee()

		mock.ExpectQuery(regexp.QuoteMeta(deleteEmployeeQuery)).
			WithArgs(expected.ID).
			WillReturnRows(employeeRow(expected))

		actual, err := repo.DeleteEmployee(context.Background(), expected.ID)

		require.NoError(t, err)
		assert.Equal(t, expected, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(deleteEmployeeQuery)).
			WithArgs(7).
			WillReturnRows(pgxmock.NewRows(employeeColumns))

		_, err := repo.DeleteEmployee(context.Background(), 7)

		require.ErrorIs(t, err, repository.ErrEmployeeNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(deleteEmployeeQuery)).
			WithArgs(7).
			WillReturnError(assert.AnError)

		_, err := repo.DeleteEmployee(context.Background(), 7)

		require.EqualError(t, err, "failed to delete employee: "+assert.AnError.Error())
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQueryDurationIsObserved(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	repo := repository.NewEmployeeRepository(mock, appMetrics)

	mock.ExpectQuery(regexp.QuoteMeta(listEmployeesQuery)).WillReturnRows(pgxmock.NewRows(employeeColumns))

	_, err = repo.ListEmployees(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, testutil.CollectAndCount(appMetrics.DBQueryDuration))
	require.NoError(t, mock.ExpectationsWereMet())
}
