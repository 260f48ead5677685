package billing

import "errors"

var (
	ErrUnknownPlan        = errors.New("billing: unknown plan")
	ErrPlanNotConfigured  = errors.New("billing: plan has no price configured")
	ErrMissingUserID      = errors.New("billing: user id is required")
	ErrMissingSessionID   = errors.New("billing: session id is required")
	ErrMissingAPIKey      = errors.New("billing: provider API key is required")
	ErrMissingWebhookKey  = errors.New("billing: webhook secret is required")
	ErrCheckoutCreation   = errors.New("billing: failed to create checkout session")
	ErrInvalidSignature   = errors.New("billing: webhook signature verification failed")
	ErrMalformedEvent     = errors.New("billing: malformed webhook event")
	ErrSessionNotFound    = errors.New("billing: checkout session not found")
	ErrPaymentIncomplete  = errors.New("billing: payment not completed")
	ErrProvider           = errors.New("billing: provider request failed")
	ErrStorage            = errors.New("billing: storage failure")
	ErrSubscriptionAbsent = errors.New("billing: subscription not found")
)
