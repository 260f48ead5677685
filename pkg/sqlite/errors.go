package sqlite

import "errors"

var (
	ErrEmptyDSN                = errors.New("empty sqlite dsn, use SQLITE_DSN env var")
	ErrFailedToOpen            = errors.New("failed to open sqlite database")
	ErrFailedToApplyMigrations = errors.New("failed to apply migrations")
	ErrHealthcheckFailed       = errors.New("healthcheck failed, database is not available")
)
