// Package app assembles the service from a validated configuration:
// storage, optional Redis, the usage ledger, billing, generation and the
// HTTP router.
package app
