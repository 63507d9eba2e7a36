package repository

import (
	"context"
	"fmt"
	"time"
)

// EnsureSchema creates the users table if it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	defer r.observe("ensure_schema", time.Now())

	query := `
		CREATE TABLE IF NOT EXISTS users (
			employeeid   SERIAL PRIMARY KEY,
			employeename TEXT NOT NULL,
			phone        TEXT,
			hiredate     DATE
		);
	`

	_, err := r.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	return nil
}

// CountEmployees returns the number of rows in the users table.
func (r *Repository) CountEmployees(ctx context.Context) (int, error) {
	defer r.observe("count_employees", time.Now())

	var count int

	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}

	return count, nil
}

func (r *Repository) observe(queryType string, startTime time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
}
