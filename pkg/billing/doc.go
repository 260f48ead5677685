// Package billing turns payment provider activity into premium entitlements.
//
// Checkout creates subscription checkout sessions for a user and a plan.
// Reconciler consumes provider webhooks and the post-redirect session check
// and flips the premium flag through the Entitlements interface.
//
// Provider events are decoded into a closed set of Event variants. Anything
// the package does not act on arrives as Unrecognized and is acknowledged
// without side effects. Every handled event id is written to an EventLog, so
// a redelivered event is acknowledged without being applied twice.
//
// StripeProvider is the production Provider. Tests use a mock Provider.
package billing
