package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/drewkhalil/ActionNotes-sub001/modules/api"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/billing"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/clientip"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/config"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/generation"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/httpserver"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/logger"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/ratelimiter"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/redis"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/requestid"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/usage"
)

// App holds the wired service and the resources it must release.
type App struct {
	cfg     *config.Config
	log     *slog.Logger
	handler http.Handler
	closers []func() error
}

// Option overrides a dependency, mostly for tests.
type Option func(*options)

type options struct {
	stripe    []billing.StripeOption
	openai    []generation.OpenAIOption
	completer generation.Completer
}

func WithStripeOptions(opts ...billing.StripeOption) Option {
	return func(o *options) { o.stripe = append(o.stripe, opts...) }
}

func WithOpenAIOptions(opts ...generation.OpenAIOption) Option {
	return func(o *options) { o.openai = append(o.openai, opts...) }
}

// WithCompleter replaces the OpenAI client.
func WithCompleter(c generation.Completer) Option {
	return func(o *options) { o.completer = c }
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.App.Env, cfg.App.Name),
		logger.WithLevelName(cfg.App.LogLevel),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if cfg.App.LogFormat != "" {
		opts = append(opts, logger.WithFormat(logger.Format(cfg.App.LogFormat)))
	}
	return logger.New(opts...)
}

// New validates cfg, opens storage and wires every component. Callers must
// call Close when done.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger, opts ...Option) (_ *App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.close)

	var checks []httpserver.Check
	if store.check != nil {
		checks = append(checks, *store.check)
	}

	var events billing.EventLog = store.billing
	var limiterStore ratelimiter.Store
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		events = redis.NewEventLog(client, cfg.Redis.EventTTL)
		limiterStore = ratelimiter.NewRedisStore(client)
		log.Info("redis enabled for rate limits and webhook dedupe")
	} else {
		mem := ratelimiter.NewMemoryStore()
		a.closers = append(a.closers, func() error { mem.Close(); return nil })
		limiterStore = mem
	}

	limiter, err := ratelimiter.NewBucket(limiterStore, cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	meter := usage.NewService(store.accounts,
		usage.WithPolicy(usage.Policy{Limit: cfg.Usage.FreeLimit, Window: cfg.Usage.Window}),
		usage.WithLogger(log),
	)

	provider, err := billing.NewStripeProvider(cfg.Stripe, o.stripe...)
	if err != nil {
		return nil, err
	}
	catalog := cfg.Stripe.Catalog()
	checkout := billing.NewCheckout(provider, catalog, cfg.Checkout, log)
	reconciler := billing.NewReconciler(provider, meter, store.billing, events, catalog,
		billing.WithReconcilerLogger(log),
	)

	completer := o.completer
	if completer == nil {
		client, err := generation.NewOpenAIClient(cfg.OpenAI, o.openai...)
		if err != nil {
			return nil, err
		}
		completer = client
	}

	apiCfg := api.Config{
		AllowedOrigins: cfg.API.AllowedOrigins,
		MaxBodyBytes:   cfg.API.MaxBodyBytes,
	}
	a.handler = api.NewRouter(apiCfg, api.Deps{
		Usage:      meter,
		Checkout:   checkout,
		Reconciler: reconciler,
		Generator:  generation.NewGateway(completer, log),
		Logger:     log,
		Limiter:    limiter,
		ClientIP:   clientip.NewFromConfig(cfg.ClientIP),
		Readiness:  checks,
	})
	return a, nil
}

func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves HTTP until ctx is done or a termination signal arrives.
func (a *App) Run(ctx context.Context) error {
	srv := httpserver.NewFromConfig(a.cfg.HTTP, httpserver.WithLogger(a.log))
	return srv.Run(ctx, a.handler)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
