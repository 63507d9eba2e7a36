package repository

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database is the subset of *pgxpool.Pool used by the repository.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewDatabase creates a new PostgreSQL database connection pool using the provided host, port,
// username, password and database name. The pool never holds more than maxConns connections;
// callers beyond that wait inside the pool until a connection is released.
// Connections are opened lazily, so an unreachable server is not an error here: each query
// fails on its own until the server comes back.
func NewDatabase(host, port, username, password, dbName string, maxConns int32) (*pgxpool.Pool, error) {
	var (
		dialTimeout = 5 * time.Second
		idleTime    = 30 * time.Second
		hcPeriod    = 30 * time.Second
		minConns    = int32(3)
	)
	var err error

	poolConfig, err := pgxpool.ParseConfig(ConnString(host, port, username, password, dbName))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = min(minConns, maxConns)
	poolConfig.MaxConnIdleTime = idleTime
	poolConfig.HealthCheckPeriod = hcPeriod
	poolConfig.ConnConfig.ConnectTimeout = dialTimeout

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool for PostgreSQL: %w", err)
	}

	return dbpool, nil
}

// ConnString builds a postgres:// URL, escaping the credentials.
func ConnString(host, port, username, password, dbName string) string {
	dbURL := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(username, password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + dbName,
		RawQuery: "sslmode=disable",
	}

	return dbURL.String()
}
