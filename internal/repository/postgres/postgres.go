// Package postgres provides the PostgreSQL-backed employee record
// store, for deployments where the training records live in a shared
// database instead of a local file.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps the PostgreSQL connection and hands out repositories.
type DB struct {
	sqlDB *sql.DB
}

// New opens a PostgreSQL connection with the given DSN.
func New(dsn string) (*DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{sqlDB: db}, nil
}

// NewFromDB wraps an existing connection. Used by tests.
func NewFromDB(db *sql.DB) *DB {
	return &DB{sqlDB: db}
}

// Migrate creates the employees table when it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	_, err := d.sqlDB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS employees (
			employee_id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			division TEXT NOT NULL,
			video1_started_at TIMESTAMPTZ,
			video1_finished_at TIMESTAMPTZ,
			video2_started_at TIMESTAMPTZ,
			video2_finished_at TIMESTAMPTZ,
			video3_started_at TIMESTAMPTZ,
			video3_finished_at TIMESTAMPTZ,
			video4_started_at TIMESTAMPTZ,
			video4_finished_at TIMESTAMPTZ
		)
	`)
	if err != nil {
		return fmt.Errorf("create employees table: %w", err)
	}
	return nil
}

// Employees returns the employee repository.
func (d *DB) Employees() *EmployeeRepository {
	return NewEmployeeRepository(d.sqlDB)
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.sqlDB.Close()
}
