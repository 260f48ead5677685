package billing

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/logger"
)

// RedirectConfig builds the post-checkout redirect URLs.
type RedirectConfig struct {
	FrontendURL string `env:"FRONTEND_URL"`
	SuccessPath string `env:"CHECKOUT_SUCCESS_PATH" envDefault:"/upgrade-success"`
	CancelPath  string `env:"CHECKOUT_CANCEL_PATH" envDefault:"/upgrade-cancelled"`
}

// Session id placeholder the provider substitutes on redirect.
const sessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

// SuccessURL carries the session id back to the frontend for verification.
func (c RedirectConfig) SuccessURL() string {
	return c.join(c.SuccessPath) + "?session_id=" + sessionIDPlaceholder
}

func (c RedirectConfig) CancelURL() string {
	return c.join(c.CancelPath)
}

func (c RedirectConfig) join(path string) string {
	base := strings.TrimRight(c.FrontendURL, "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// Validate checks the frontend URL is absolute.
func (c RedirectConfig) Validate() error {
	u, err := url.Parse(c.FrontendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("billing: FRONTEND_URL must be an absolute URL")
	}
	return nil
}

// Checkout creates subscription checkout sessions.
type Checkout struct {
	provider  Provider
	catalog   Catalog
	redirects RedirectConfig
	log       *slog.Logger
}

// NewCheckout panics when provider is nil.
func NewCheckout(provider Provider, catalog Catalog, redirects RedirectConfig, log *slog.Logger) *Checkout {
	if provider == nil {
		panic("billing: Provider is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Checkout{provider: provider, catalog: catalog, redirects: redirects, log: log}
}

// Create validates the plan against the catalog and opens a session.
// Sessions carry no local state; nothing is persisted here.
func (c *Checkout) Create(ctx context.Context, userID, plan string) (*CheckoutSession, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUserID
	}

	p, err := ParsePlan(plan)
	if err != nil {
		return nil, err
	}

	priceID, err := c.catalog.PriceFor(p)
	if err != nil {
		c.log.ErrorContext(ctx, "plan price missing",
			logger.Component("checkout"),
			logger.Plan(string(p)),
			logger.Error(err),
		)
		return nil, err
	}

	sess, err := c.provider.CreateCheckoutSession(ctx, CheckoutRequest{
		UserID:     userID,
		Plan:       p,
		PriceID:    priceID,
		SuccessURL: c.redirects.SuccessURL(),
		CancelURL:  c.redirects.CancelURL(),
	})
	if err != nil {
		c.log.ErrorContext(ctx, "checkout session creation failed",
			logger.Component("checkout"),
			logger.UserID(userID),
			logger.Plan(string(p)),
			logger.Error(err),
		)
		if !errors.Is(err, ErrCheckoutCreation) {
			err = errors.Join(ErrCheckoutCreation, err)
		}
		return nil, err
	}

	c.log.InfoContext(ctx, "checkout session created",
		logger.Component("checkout"),
		logger.UserID(userID),
		logger.Plan(string(p)),
		logger.SessionID(sess.ID),
	)
	return sess, nil
}
