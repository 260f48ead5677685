package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/billing"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/clientip"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/generation"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/httpserver"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/ratelimiter"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/requestid"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/usage"
)

// Config for the HTTP surface. Zero values fall back to binder.DefaultMaxJSONSize
// and no cross-origin access.
type Config struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// Meter is the usage ledger as seen by handlers.
type Meter interface {
	CheckAndConsume(ctx context.Context, userID string) (usage.Decision, error)
	Status(ctx context.Context, userID string) (usage.Account, usage.Remaining, error)
}

type CheckoutCreator interface {
	Create(ctx context.Context, userID, plan string) (*billing.CheckoutSession, error)
}

type Reconciler interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	VerifySession(ctx context.Context, sessionID string) (*billing.VerifiedSubscription, error)
	CurrentPlan(ctx context.Context, userID string) (billing.Plan, error)
}

type Generator interface {
	Generate(ctx context.Context, kind generation.Kind, text string) (string, error)
}

// Deps are the services behind the router. Limiter, ClientIP and Readiness are optional.
type Deps struct {
	Usage      Meter
	Checkout   CheckoutCreator
	Reconciler Reconciler
	Generator  Generator
	Logger     *slog.Logger
	Limiter    *ratelimiter.Bucket
	ClientIP   *clientip.Resolver
	Readiness  []httpserver.Check
}

// Stripe sends at most 64 KB per webhook.
const maxWebhookBytes = 65536

type handlers struct {
	cfg        Config
	usage      Meter
	checkout   CheckoutCreator
	reconciler Reconciler
	generator  Generator
	log        *slog.Logger
}

// NewRouter builds the chi router. It panics when a required service is missing.
func NewRouter(cfg Config, deps Deps) http.Handler {
	switch {
	case deps.Usage == nil:
		panic("api: usage service is required")
	case deps.Checkout == nil:
		panic("api: checkout service is required")
	case deps.Reconciler == nil:
		panic("api: reconciler is required")
	case deps.Generator == nil:
		panic("api: generator is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.ClientIP == nil {
		deps.ClientIP = clientip.New()
	}

	h := &handlers{
		cfg:        cfg,
		usage:      deps.Usage,
		checkout:   deps.Checkout,
		reconciler: deps.Reconciler,
		generator:  deps.Generator,
		log:        deps.Logger,
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(deps.ClientIP.Middleware)
	r.Use(accessLog(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors(cfg.AllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(deps.Logger, 5*time.Second, deps.Readiness...))

	r.Route("/api", func(r chi.Router) {
		r.Post("/webhook", h.webhook)
		r.Post("/update-usage", h.updateUsage)
		r.Post("/verify-subscription", h.verifySubscription)
		r.Get("/user-plan", h.userPlan)

		r.Group(func(r chi.Router) {
			if deps.Limiter != nil {
				r.Use(ratelimiter.Middleware(deps.Limiter, ratelimiter.Composite(ratelimiter.ByIP, ratelimiter.ByPath),
					ratelimiter.WithDeniedHandler(h.rateLimited),
					ratelimiter.WithErrorHandler(h.rateLimitFailed),
				))
			}
			r.Post("/create-checkout-session", h.createCheckoutSession)
			r.Post("/recap", h.generate(generation.KindSummary))
			r.Post("/teach", h.generate(generation.KindLesson))
		})
	})

	return r
}
