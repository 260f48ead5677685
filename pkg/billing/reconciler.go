package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/logger"
)

// VerifiedSubscription is the result of a successful session verification.
type VerifiedSubscription struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	PlanType Plan   `json:"planType"`
}

// Reconciler applies provider events to entitlements and subscription records.
type Reconciler struct {
	provider     Provider
	entitlements Entitlements
	subs         Subscriptions
	events       EventLog
	catalog      Catalog
	log          *slog.Logger
	now          func() time.Time
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

func WithReconcilerLogger(l *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		if l != nil {
			r.log = l
		}
	}
}

func WithReconcilerClock(now func() time.Time) ReconcilerOption {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// NewReconciler panics when any dependency is nil.
func NewReconciler(provider Provider, entitlements Entitlements, subs Subscriptions, events EventLog, catalog Catalog, opts ...ReconcilerOption) *Reconciler {
	if provider == nil {
		panic("billing: Provider is required")
	}
	if entitlements == nil {
		panic("billing: Entitlements is required")
	}
	if subs == nil {
		panic("billing: Subscriptions is required")
	}
	if events == nil {
		panic("billing: EventLog is required")
	}

	r := &Reconciler{
		provider:     provider,
		entitlements: entitlements,
		subs:         subs,
		events:       events,
		catalog:      catalog,
		log:          slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HandleWebhook verifies and applies one provider delivery.
//
// A nil return means the delivery may be acknowledged. Signature and payload
// problems return ErrInvalidSignature or ErrMalformedEvent. Persistence
// failures return ErrStorage so the provider retries.
func (r *Reconciler) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if strings.TrimSpace(signature) == "" {
		return ErrInvalidSignature
	}

	evt, err := r.provider.ParseWebhook(payload, signature)
	if err != nil {
		r.log.WarnContext(ctx, "webhook rejected", logger.Component("reconciler"), logger.Error(err))
		return err
	}

	meta := evt.Meta()
	log := r.log.With(
		logger.Component("reconciler"),
		logger.EventID(meta.ID),
		logger.EventType(meta.Type),
	)

	if meta.ID != "" {
		done, err := r.events.Processed(ctx, meta.ID)
		if err != nil {
			log.ErrorContext(ctx, "event log lookup failed", logger.Error(err))
			return errors.Join(ErrStorage, err)
		}
		if done {
			log.InfoContext(ctx, "duplicate webhook event acknowledged")
			return nil
		}
	}

	if err := r.apply(ctx, log, evt); err != nil {
		return err
	}

	if meta.ID != "" {
		if err := r.events.MarkProcessed(ctx, meta.ID, meta.Type, r.now().UTC()); err != nil {
			log.ErrorContext(ctx, "event log write failed", logger.Error(err))
			return errors.Join(ErrStorage, err)
		}
	}
	return nil
}

func (r *Reconciler) apply(ctx context.Context, log *slog.Logger, evt Event) error {
	switch e := evt.(type) {
	case CheckoutCompleted:
		if e.UserID == "" {
			log.WarnContext(ctx, "checkout completed without user id", logger.SessionID(e.SessionID))
			return fmt.Errorf("%w: checkout session %s has no user id", ErrMalformedEvent, e.SessionID)
		}
		plan, err := ParsePlan(e.Plan)
		if err != nil {
			if plan, err = r.planForSubscription(ctx, e.SubscriptionID); err != nil {
				log.ErrorContext(ctx, "checkout plan lookup failed", logger.SessionID(e.SessionID), logger.Error(err))
				return err
			}
		}
		granted, err := r.grant(ctx, e.UserID, Subscription{
			UserID:                 e.UserID,
			Plan:                   plan,
			Status:                 StatusActive,
			ProviderSubscriptionID: e.SubscriptionID,
			ProviderCustomerID:     e.CustomerID,
		})
		if err != nil {
			log.ErrorContext(ctx, "premium grant failed", logger.UserID(e.UserID), logger.SessionID(e.SessionID), logger.Error(err))
			return err
		}
		if !granted {
			log.InfoContext(ctx, "subscription already canceled, grant skipped", logger.UserID(e.UserID), logger.SessionID(e.SessionID))
			return nil
		}
		log.InfoContext(ctx, "premium granted", logger.UserID(e.UserID), logger.SessionID(e.SessionID), logger.Plan(string(plan)))
		return nil

	case SubscriptionCreated:
		userID, err := r.resolveUser(ctx, e.SubscriptionChange)
		if err != nil {
			log.ErrorContext(ctx, "subscription owner lookup failed", logger.Error(err))
			return err
		}
		if userID == "" {
			log.WarnContext(ctx, "subscription owner unknown, skipping", slog.String("subscription_id", e.SubscriptionID))
			return nil
		}
		status := e.Status
		if status == "" {
			status = StatusActive
		}
		granted, err := r.grant(ctx, userID, Subscription{
			UserID:                 userID,
			Plan:                   r.catalog.PlanForPrice(e.PriceID),
			Status:                 status,
			ProviderSubscriptionID: e.SubscriptionID,
			ProviderCustomerID:     e.CustomerID,
		})
		if err != nil {
			log.ErrorContext(ctx, "premium grant failed", logger.UserID(userID), logger.Error(err))
			return err
		}
		if !granted {
			log.InfoContext(ctx, "subscription already canceled, grant skipped", logger.UserID(userID))
			return nil
		}
		log.InfoContext(ctx, "premium granted", logger.UserID(userID))
		return nil

	case SubscriptionDeleted:
		userID, err := r.resolveUser(ctx, e.SubscriptionChange)
		if err != nil {
			log.ErrorContext(ctx, "subscription owner lookup failed", logger.Error(err))
			return err
		}
		if userID == "" {
			log.WarnContext(ctx, "subscription owner unknown, skipping", slog.String("subscription_id", e.SubscriptionID))
			return nil
		}
		if err := r.revoke(ctx, userID, e.SubscriptionChange); err != nil {
			log.ErrorContext(ctx, "premium revoke failed", logger.UserID(userID), logger.Error(err))
			return err
		}
		log.InfoContext(ctx, "premium revoked", logger.UserID(userID))
		return nil

	case SubscriptionUpdated:
		log.InfoContext(ctx, "subscription updated",
			slog.String("subscription_id", e.SubscriptionID),
			slog.String("status", e.Status),
		)
		return nil

	case Unrecognized:
		log.DebugContext(ctx, "webhook event ignored")
		return nil

	default:
		return fmt.Errorf("%w: unsupported event %T", ErrMalformedEvent, evt)
	}
}

// resolveUser prefers subscription metadata and falls back to the local record.
func (r *Reconciler) resolveUser(ctx context.Context, c SubscriptionChange) (string, error) {
	if c.UserID != "" {
		return c.UserID, nil
	}
	if c.SubscriptionID == "" {
		return "", nil
	}
	sub, err := r.subs.FindByProviderID(ctx, c.SubscriptionID)
	switch {
	case errors.Is(err, ErrSubscriptionAbsent):
		return "", nil
	case err != nil:
		return "", errors.Join(ErrStorage, err)
	}
	return sub.UserID, nil
}

// planForSubscription resolves the plan from the subscription's price when
// checkout metadata carries none.
func (r *Reconciler) planForSubscription(ctx context.Context, subscriptionID string) (Plan, error) {
	if subscriptionID == "" {
		return PlanFree, nil
	}
	sub, err := r.provider.GetSubscription(ctx, subscriptionID)
	if err != nil {
		if !errors.Is(err, ErrProvider) {
			err = errors.Join(ErrProvider, err)
		}
		return "", err
	}
	return r.catalog.PlanForPrice(sub.PriceID), nil
}

// grant sets premium and stores rec. It reports false without changing
// anything when rec's subscription is already recorded as canceled, since a
// canceled subscription never becomes active again.
func (r *Reconciler) grant(ctx context.Context, userID string, rec Subscription) (bool, error) {
	if rec.ProviderSubscriptionID != "" {
		prev, err := r.subs.FindByProviderID(ctx, rec.ProviderSubscriptionID)
		switch {
		case errors.Is(err, ErrSubscriptionAbsent):
		case err != nil:
			return false, errors.Join(ErrStorage, err)
		case prev.Status == StatusCanceled:
			return false, nil
		}
	}

	if err := r.entitlements.SetPremium(ctx, userID, true); err != nil {
		return false, errors.Join(ErrStorage, err)
	}
	rec.UpdatedAt = r.now().UTC()
	if err := r.subs.Save(ctx, rec); err != nil {
		return false, errors.Join(ErrStorage, err)
	}
	return true, nil
}

func (r *Reconciler) revoke(ctx context.Context, userID string, c SubscriptionChange) error {
	rec, err := r.subs.Get(ctx, userID)
	switch {
	case errors.Is(err, ErrSubscriptionAbsent):
		rec = Subscription{UserID: userID, Plan: r.catalog.PlanForPrice(c.PriceID)}
	case err != nil:
		return errors.Join(ErrStorage, err)
	}
	if rec.Active() && rec.ProviderSubscriptionID != "" && c.SubscriptionID != "" && rec.ProviderSubscriptionID != c.SubscriptionID {
		// The user already holds a different, active subscription.
		return nil
	}

	if err := r.entitlements.SetPremium(ctx, userID, false); err != nil {
		return errors.Join(ErrStorage, err)
	}

	rec.Status = StatusCanceled
	rec.ProviderSubscriptionID = c.SubscriptionID
	if c.CustomerID != "" {
		rec.ProviderCustomerID = c.CustomerID
	}
	rec.UpdatedAt = r.now().UTC()
	if err := r.subs.Save(ctx, rec); err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

// VerifySession confirms a checkout after the user is redirected back.
//
// It returns ErrSessionNotFound for unknown sessions and ErrPaymentIncomplete
// when the session is not paid. A paid session also grants premium to its user;
// a failure there is logged and does not fail verification, since the webhook
// delivers the same transition.
func (r *Reconciler) VerifySession(ctx context.Context, sessionID string) (*VerifiedSubscription, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	log := r.log.With(logger.Component("reconciler"), logger.SessionID(sessionID))

	sess, err := r.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			log.InfoContext(ctx, "checkout session not found")
		} else {
			log.ErrorContext(ctx, "checkout session lookup failed", logger.Error(err))
		}
		return nil, err
	}

	if !sess.Paid() {
		log.InfoContext(ctx, "checkout session not paid", slog.String("payment_status", sess.PaymentStatus))
		return nil, ErrPaymentIncomplete
	}
	if sess.SubscriptionID == "" {
		log.ErrorContext(ctx, "paid session has no subscription")
		return nil, fmt.Errorf("%w: session %s has no subscription", ErrProvider, sessionID)
	}

	sub, err := r.provider.GetSubscription(ctx, sess.SubscriptionID)
	if err != nil {
		log.ErrorContext(ctx, "subscription lookup failed", logger.Error(err))
		if !errors.Is(err, ErrProvider) {
			err = errors.Join(ErrProvider, err)
		}
		return nil, err
	}

	out := &VerifiedSubscription{
		ID:       sub.ID,
		Status:   sub.Status,
		PlanType: r.catalog.PlanForPrice(sub.PriceID),
	}

	userID := sess.UserID
	if userID == "" {
		userID = sub.UserID
	}
	if userID != "" && (Subscription{Status: sub.Status}).Active() {
		if _, err := r.grant(ctx, userID, Subscription{
			UserID:                 userID,
			Plan:                   out.PlanType,
			Status:                 sub.Status,
			ProviderSubscriptionID: sub.ID,
			ProviderCustomerID:     sess.CustomerID,
		}); err != nil {
			log.WarnContext(ctx, "premium grant after verification failed", logger.UserID(userID), logger.Error(err))
		}
	}

	log.InfoContext(ctx, "checkout session verified", logger.UserID(userID), logger.Plan(string(out.PlanType)))
	return out, nil
}

// CurrentPlan returns the plan a user is entitled to. Users without an
// active subscription record are on PlanFree.
func (r *Reconciler) CurrentPlan(ctx context.Context, userID string) (Plan, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrMissingUserID
	}
	sub, err := r.subs.Get(ctx, userID)
	switch {
	case errors.Is(err, ErrSubscriptionAbsent):
		return PlanFree, nil
	case err != nil:
		return "", errors.Join(ErrStorage, err)
	}
	if !sub.Active() {
		return PlanFree, nil
	}
	return sub.Plan, nil
}
