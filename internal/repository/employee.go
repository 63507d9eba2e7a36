package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/demeter/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const employeeColumns = `employeeid, employeename, phone, hiredate`

// SaveEmployee inserts a fully populated employee and returns the stored row.
func (r *Repository) SaveEmployee(
	ctx context.Context,
	name string,
	phone pgtype.Text,
	hireDate pgtype.Date,
) (models.Employee, error) {
	defer r.observe("save_employee", time.Now())

	query := `
		INSERT INTO users (employeename, phone, hiredate)
		VALUES ($1, $2, $3)
		RETURNING ` + employeeColumns + `;
	`

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, name, phone, hireDate))
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to save employee: %w", err)
	}

	return employee, nil
}

// ListEmployees returns every row in the store's natural scan order.
func (r *Repository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	defer r.observe("list_employees", time.Now())

	rows, err := r.db.Query(ctx, `SELECT `+employeeColumns+` FROM users`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]models.Employee, 0)
	for rows.Next() {
		employee, scanErr := scanEmployee(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", scanErr)
		}
		employees = append(employees, employee)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// CreateEmployee inserts a row with only the name populated. Phone and hire date stay NULL.
func (r *Repository) CreateEmployee(ctx context.Context, name pgtype.Text) (models.Employee, error) {
	defer r.observe("create_employee", time.Now())

	query := `INSERT INTO users (employeename) VALUES ($1) RETURNING ` + employeeColumns

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, name))
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return employee, nil
}

// GetEmployeeByID retrieves an employee from the database by their ID.
func (r *Repository) GetEmployeeByID(ctx context.Context, identifier int) (models.Employee, error) {
	defer r.observe("get_employee_by_id", time.Now())

	query := `SELECT ` + employeeColumns + ` FROM users WHERE employeeid = $1`

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, identifier))
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return employee, nil
}

// UpdateEmployeeName sets the name of the matching employee and returns the updated row.
func (r *Repository) UpdateEmployeeName(
	ctx context.Context,
	identifier int,
	name pgtype.Text,
) (models.Employee, error) {
	defer r.observe("update_employee_name", time.Now())

	query := `UPDATE users SET employeename = $1 WHERE employeeid = $2 RETURNING ` + employeeColumns

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, name, identifier))
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to update employee name: %w", err)
	}

	return employee, nil
}

// DeleteEmployee removes the matching employee and returns the row as it was before deletion.
func (r *Repository) DeleteEmployee(ctx context.Context, identifier int) (models.Employee, error) {
	defer r.observe("delete_employee", time.Now())

	query := `DELETE FROM users WHERE employeeid = $1 RETURNING ` + employeeColumns

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, identifier))
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to delete employee: %w", err)
	}

	return employee, nil
}

// scanEmployee reads one employee and translates pgx.ErrNoRows into ErrEmployeeNotFound.
func scanEmployee(row pgx.Row) (models.Employee, error) {
	var employee models.Employee

	err := row.Scan(&employee.ID, &employee.Name, &employee.Phone, &employee.HireDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return models.Employee{}, err
	}

	return employee, nil
}
