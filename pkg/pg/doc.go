// Package pg is the PostgreSQL backend.
//
// Connect opens a pgx pool with retries, Migrate applies the embedded goose
// migrations and Store implements usage.Store, billing.Subscriptions and
// billing.EventLog on top of the pool.
//
// Usage updates run in one transaction: the row is inserted if missing and
// then locked with SELECT ... FOR UPDATE, so concurrent metering for the same
// user is serialized by the database.
package pg
