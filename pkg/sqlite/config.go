package sqlite

import "time"

type Config struct {
	DSN         string        `env:"SQLITE_DSN" envDefault:"actionnotes.db"`
	BusyTimeout time.Duration `env:"SQLITE_BUSY_TIMEOUT" envDefault:"5s"`
}
