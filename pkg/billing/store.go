package billing

import (
	"context"
	"time"
)

// Entitlements is the premium flag owner, implemented by the usage ledger.
type Entitlements interface {
	SetPremium(ctx context.Context, userID string, premium bool) error
}

// Subscription statuses the package writes itself.
const (
	StatusActive   = "active"
	StatusCanceled = "canceled"
)

// Subscription is the local record of a user's provider subscription.
type Subscription struct {
	UserID                 string
	Plan                   Plan
	Status                 string
	ProviderSubscriptionID string
	ProviderCustomerID     string
	UpdatedAt              time.Time
}

// Active reports whether the subscription currently grants its plan.
func (s Subscription) Active() bool {
	return s.Status == StatusActive || s.Status == "trialing"
}

// Subscriptions persists one subscription record per user.
type Subscriptions interface {
	// Save creates or replaces the record for sub.UserID.
	Save(ctx context.Context, sub Subscription) error

	// Get returns ErrSubscriptionAbsent when the user has no record.
	Get(ctx context.Context, userID string) (Subscription, error)

	// FindByProviderID looks a record up by provider subscription id.
	// Returns ErrSubscriptionAbsent when none matches.
	FindByProviderID(ctx context.Context, providerSubscriptionID string) (Subscription, error)
}

// EventLog records processed provider event ids.
type EventLog interface {
	Processed(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID, eventType string, at time.Time) error
}
