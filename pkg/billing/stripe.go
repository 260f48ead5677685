package billing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeConfig holds Stripe credentials and price ids.
type StripeConfig struct {
	SecretKey       string `env:"STRIPE_SECRET_KEY"`
	WebhookSecret   string `env:"STRIPE_WEBHOOK_SECRET"`
	StarterPriceID  string `env:"STRIPE_STARTER_PRICE_ID"`
	UltimatePriceID string `env:"STRIPE_ULTIMATE_PRICE_ID"`
}

// Catalog builds the plan catalog from the configured price ids.
func (c StripeConfig) Catalog() Catalog {
	return NewCatalog(c.StarterPriceID, c.UltimatePriceID)
}

// Metadata keys written on sessions and subscriptions.
const (
	MetadataUserID = "userId"
	MetadataPlan   = "plan"
)

// StripeOption configures a StripeProvider.
type StripeOption func(*stripeOptions)

type stripeOptions struct {
	backends *stripe.Backends
}

// WithStripeBackends overrides the HTTP backends, for example to point the
// client at a local test server.
func WithStripeBackends(b *stripe.Backends) StripeOption {
	return func(o *stripeOptions) {
		if b != nil {
			o.backends = b
		}
	}
}

// StripeProvider implements Provider on top of the Stripe API.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

func NewStripeProvider(cfg StripeConfig, opts ...StripeOption) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookKey
	}

	o := &stripeOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return &StripeProvider{
		api:           client.New(cfg.SecretKey, o.backends),
		webhookSecret: cfg.WebhookSecret,
	}, nil
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		ClientReferenceID: stripe.String(req.UserID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				MetadataUserID: req.UserID,
				MetadataPlan:   string(req.Plan),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata(MetadataUserID, req.UserID)
	params.AddMetadata(MetadataPlan, string(req.Plan))

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, errors.Join(ErrCheckoutCreation, err)
	}

	out := &CheckoutSession{ID: sess.ID, URL: sess.URL}
	if sess.ExpiresAt > 0 {
		out.ExpiresAt = time.Unix(sess.ExpiresAt, 0).UTC()
	}
	return out, nil
}

func (p *StripeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*SessionDetails, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		if isStripeNotFound(err) {
			return nil, errors.Join(ErrSessionNotFound, err)
		}
		return nil, errors.Join(ErrProvider, err)
	}

	out := &SessionDetails{
		ID:            sess.ID,
		PaymentStatus: string(sess.PaymentStatus),
		UserID:        userFromSession(sess),
		Plan:          sess.Metadata[MetadataPlan],
	}
	if sess.Subscription != nil {
		out.SubscriptionID = sess.Subscription.ID
	}
	if sess.Customer != nil {
		out.CustomerID = sess.Customer.ID
	}
	return out, nil
}

func (p *StripeProvider) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetails, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := p.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		if isStripeNotFound(err) {
			return nil, errors.Join(ErrSubscriptionAbsent, err)
		}
		return nil, errors.Join(ErrProvider, err)
	}

	change := subscriptionChange(sub)
	return &SubscriptionDetails{
		ID:         change.SubscriptionID,
		Status:     change.Status,
		PriceID:    change.PriceID,
		CustomerID: change.CustomerID,
		UserID:     change.UserID,
	}, nil
}

func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		if isSignatureError(err) {
			return nil, errors.Join(ErrInvalidSignature, err)
		}
		return nil, errors.Join(ErrMalformedEvent, err)
	}
	return decodeStripeEvent(evt)
}

func decodeStripeEvent(evt stripe.Event) (Event, error) {
	meta := EventMeta{ID: evt.ID, Type: string(evt.Type)}
	if evt.Created > 0 {
		meta.Created = time.Unix(evt.Created, 0).UTC()
	}

	switch meta.Type {
	case EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := unmarshalEventObject(evt, &sess); err != nil {
			return nil, err
		}
		out := CheckoutCompleted{
			EventMeta: meta,
			SessionID: sess.ID,
			UserID:    userFromSession(&sess),
			Plan:      sess.Metadata[MetadataPlan],
		}
		if sess.Subscription != nil {
			out.SubscriptionID = sess.Subscription.ID
		}
		if sess.Customer != nil {
			out.CustomerID = sess.Customer.ID
		}
		return out, nil

	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := unmarshalEventObject(evt, &sub); err != nil {
			return nil, err
		}
		change := subscriptionChange(&sub)
		switch meta.Type {
		case EventSubscriptionCreated:
			return SubscriptionCreated{EventMeta: meta, SubscriptionChange: change}, nil
		case EventSubscriptionUpdated:
			return SubscriptionUpdated{EventMeta: meta, SubscriptionChange: change}, nil
		default:
			return SubscriptionDeleted{EventMeta: meta, SubscriptionChange: change}, nil
		}

	default:
		return Unrecognized{EventMeta: meta}, nil
	}
}

func unmarshalEventObject(evt stripe.Event, v any) error {
	if evt.Data == nil || len(evt.Data.Raw) == 0 {
		return ErrMalformedEvent
	}
	if err := json.Unmarshal(evt.Data.Raw, v); err != nil {
		return errors.Join(ErrMalformedEvent, err)
	}
	return nil
}

// Metadata wins over client_reference_id because subscription payloads do not
// carry the latter.
func userFromSession(sess *stripe.CheckoutSession) string {
	if id := sess.Metadata[MetadataUserID]; id != "" {
		return id
	}
	return sess.ClientReferenceID
}

func subscriptionChange(sub *stripe.Subscription) SubscriptionChange {
	out := SubscriptionChange{
		SubscriptionID: sub.ID,
		Status:         string(sub.Status),
		UserID:         sub.Metadata[MetadataUserID],
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item != nil && item.Price != nil && item.Price.ID != "" {
				out.PriceID = item.Price.ID
				break
			}
		}
	}
	return out
}

func isStripeNotFound(err error) bool {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == stripe.ErrorCodeResourceMissing || se.HTTPStatusCode == http.StatusNotFound
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld)
}
