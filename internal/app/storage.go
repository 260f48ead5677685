package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/billing"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/config"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/httpserver"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/pg"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/sqlite"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/usage"
)

// BillingStore is what the reconciler needs from persistence.
type BillingStore interface {
	billing.Subscriptions
	billing.EventLog
}

type storage struct {
	accounts usage.Store
	billing  BillingStore
	check    *httpserver.Check
	close    func() error
}

// openStorage connects to the configured driver and applies migrations.
func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		return &storage{
			accounts: usage.NewMemoryStore(),
			billing:  billing.NewMemoryStore(),
			close:    func() error { return nil },
		}, nil

	case config.DriverPostgres:
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
		return &storage{
			accounts: pg.NewAccountStore(pool),
			billing:  pg.NewBillingStore(pool),
			check:    &httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)},
			close:    closePool(pool),
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &storage{
			accounts: sqlite.NewAccountStore(db),
			billing:  sqlite.NewBillingStore(db),
			check:    &httpserver.Check{Name: "sqlite", Fn: sqlite.Healthcheck(db)},
			close:    db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidStorageDriver, cfg.Storage.Driver)
	}
}

// Migrate applies the schema for the configured SQL driver. The memory driver
// has nothing to migrate.
func Migrate(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	if err := cfg.ValidateStorage(); err != nil {
		return err
	}

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer pool.Close()
		return pg.Migrate(ctx, pool, log)

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite)
		if err != nil {
			return err
		}
		defer closeDB(db)
		return sqlite.Migrate(ctx, db, log)

	default:
		log.Info("storage driver has no schema", slog.String("driver", cfg.Storage.Driver))
		return nil
	}
}

func closePool(pool *pgxpool.Pool) func() error {
	return func() error {
		pool.Close()
		return nil
	}
}

func closeDB(db *sql.DB) { _ = db.Close() }
