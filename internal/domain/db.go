package domain

import "context"

// Database defines lifecycle operations for the employee record store.
// Each implementation (SQLite, Postgres) owns its own migration files
// and strategy, keeping the backend swappable behind the repository
// interfaces.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}
