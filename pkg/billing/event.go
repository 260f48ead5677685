package billing

import "time"

// Provider event type names.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// Event is a verified provider webhook event. The set of implementations is
// closed: CheckoutCompleted, SubscriptionCreated, SubscriptionUpdated,
// SubscriptionDeleted and Unrecognized.
type Event interface {
	Meta() EventMeta
	sealed()
}

// EventMeta is common to every event.
type EventMeta struct {
	ID      string
	Type    string
	Created time.Time
}

func (m EventMeta) Meta() EventMeta { return m }

// CheckoutCompleted carries the user resolved from session metadata, falling
// back to the client reference id.
type CheckoutCompleted struct {
	EventMeta
	SessionID      string
	UserID         string
	Plan           string
	SubscriptionID string
	CustomerID     string
}

// SubscriptionChange is the payload shared by subscription lifecycle events.
// UserID is empty when the subscription carries no user metadata.
type SubscriptionChange struct {
	SubscriptionID string
	CustomerID     string
	UserID         string
	Status         string
	PriceID        string
}

type SubscriptionCreated struct {
	EventMeta
	SubscriptionChange
}

type SubscriptionUpdated struct {
	EventMeta
	SubscriptionChange
}

type SubscriptionDeleted struct {
	EventMeta
	SubscriptionChange
}

// Unrecognized is any event type the reconciler does not act on.
type Unrecognized struct {
	EventMeta
}

func (CheckoutCompleted) sealed()   {}
func (SubscriptionCreated) sealed() {}
func (SubscriptionUpdated) sealed() {}
func (SubscriptionDeleted) sealed() {}
func (Unrecognized) sealed()        {}
