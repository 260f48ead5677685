package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/billing"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/clientip"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/generation"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/httpserver"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/pg"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/ratelimiter"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/redis"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/sqlite"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type App struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	Name      string `env:"APP_NAME" envDefault:"actionnotes"`
	LogLevel  string `env:"LOG_LEVEL"`  // overrides the APP_ENV default level
	LogFormat string `env:"LOG_FORMAT"` // json or text; empty follows APP_ENV
}

type Storage struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
}

// API configures the HTTP surface.
type API struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxBodyBytes   int64    `env:"API_MAX_BODY_BYTES" envDefault:"262144"`
}

type Usage struct {
	FreeLimit int           `env:"USAGE_FREE_LIMIT" envDefault:"3"`
	Window    time.Duration `env:"USAGE_WINDOW" envDefault:"168h"`
}

// Config is built once at startup and passed to constructors.
type Config struct {
	App       App
	HTTP      httpserver.Config
	Stripe    billing.StripeConfig
	Checkout  billing.RedirectConfig
	OpenAI    generation.OpenAIConfig
	API       API
	Usage     Usage
	Storage   Storage
	Postgres  pg.Config
	SQLite    sqlite.Config
	Redis     redis.Config
	RateLimit ratelimiter.Config
	ClientIP  clientip.Config
}

// Load reads .env files (see LoadEnv) and parses the environment into a Config.
// It does not validate; call Validate before serving traffic.
func Load(envFiles ...string) (*Config, error) {
	if err := LoadEnv(envFiles...); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := Parse(cfg); err != nil {
		return nil, err
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	return cfg, nil
}

// Validate reports every missing or invalid setting needed to serve traffic.
func (c *Config) Validate() error {
	var errs []error

	if missing := c.missingPayment(); len(missing) > 0 {
		errs = append(errs, fmt.Errorf("%w: missing %s", ErrMissingPaymentConfig, strings.Join(missing, ", ")))
	} else if err := c.Checkout.Validate(); err != nil {
		errs = append(errs, errors.Join(ErrMissingPaymentConfig, err))
	}
	if !c.Stripe.Catalog().Distinct() {
		errs = append(errs, fmt.Errorf("%w: STRIPE_STARTER_PRICE_ID and STRIPE_ULTIMATE_PRICE_ID must differ", ErrDuplicatePriceID))
	}

	if c.OpenAI.APIKey == "" {
		errs = append(errs, fmt.Errorf("%w: missing OPENAI_API_KEY", ErrMissingGenerationConfig))
	}

	if err := c.ValidateStorage(); err != nil {
		errs = append(errs, err)
	}

	if err := c.RateLimit.Validate(); err != nil {
		errs = append(errs, err)
	}

	switch c.App.LogFormat {
	case "", "json", "text":
	default:
		errs = append(errs, fmt.Errorf("%w: LOG_FORMAT must be json or text", ErrParsingConfig))
	}

	if c.Usage.FreeLimit <= 0 || c.Usage.Window <= 0 {
		errs = append(errs, fmt.Errorf("%w: USAGE_FREE_LIMIT and USAGE_WINDOW must be positive", ErrParsingConfig))
	}

	return errors.Join(errs...)
}

// ValidateStorage checks only the storage settings, which is all the
// migrate command needs.
func (c *Config) ValidateStorage() error {
	switch c.Storage.Driver {
	case DriverMemory:
		return nil
	case DriverPostgres:
		if c.Postgres.ConnectionString == "" {
			return fmt.Errorf("%w: missing PG_CONN_URL", ErrMissingStorageConfig)
		}
		return nil
	case DriverSQLite:
		if c.SQLite.DSN == "" {
			return fmt.Errorf("%w: missing SQLITE_DSN", ErrMissingStorageConfig)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q (want memory, postgres or sqlite)", ErrInvalidStorageDriver, c.Storage.Driver)
	}
}

func (c *Config) missingPayment() []string {
	var missing []string
	for name, v := range map[string]string{
		"STRIPE_SECRET_KEY":        c.Stripe.SecretKey,
		"STRIPE_WEBHOOK_SECRET":    c.Stripe.WebhookSecret,
		"STRIPE_STARTER_PRICE_ID":  c.Stripe.StarterPriceID,
		"STRIPE_ULTIMATE_PRICE_ID": c.Stripe.UltimatePriceID,
		"FRONTEND_URL":             c.Checkout.FrontendURL,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	slices.Sort(missing)
	return missing
}
