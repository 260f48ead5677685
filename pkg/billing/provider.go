package billing

import (
	"context"
	"time"
)

// Provider is a payment provider.
type Provider interface {
	// CreateCheckoutSession opens a subscription-mode checkout session.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// GetCheckoutSession returns ErrSessionNotFound when the provider does not know sessionID.
	GetCheckoutSession(ctx context.Context, sessionID string) (*SessionDetails, error)

	// GetSubscription returns ErrSubscriptionAbsent when the provider does not know subscriptionID.
	GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetails, error)

	// ParseWebhook verifies the signature over the raw payload and decodes the event.
	// Returns ErrInvalidSignature or ErrMalformedEvent.
	ParseWebhook(payload []byte, signature string) (Event, error)
}

// CheckoutRequest is what the provider needs to open a session.
type CheckoutRequest struct {
	UserID     string
	Plan       Plan
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is a created, not yet paid, checkout session.
type CheckoutSession struct {
	ID        string    `json:"sessionId"`
	URL       string    `json:"url,omitempty"`
	ExpiresAt time.Time `json:"-"`
}

// SessionDetails is a checkout session as read back from the provider.
type SessionDetails struct {
	ID             string
	PaymentStatus  string
	SubscriptionID string
	CustomerID     string
	UserID         string
	Plan           string
}

// Paid reports whether the provider considers the session paid.
func (s SessionDetails) Paid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

const PaymentStatusPaid = "paid"

// SubscriptionDetails is a subscription as read back from the provider.
type SubscriptionDetails struct {
	ID         string
	Status     string
	PriceID    string
	CustomerID string
	UserID     string
}
