package usage

import (
	"context"
	"time"
)

// UpdateFunc mutates acct in place and reports whether it must be written back.
// created is true when the account was inserted by the same Update call.
type UpdateFunc func(acct *Account, created bool) bool

// Store persists accounts. Implementations must make Update atomic per user:
// the read, fn and write happen without any interleaving update for the same user.
type Store interface {
	// Update loads the account for userID, creating a fresh one stamped with now
	// when none exists, and applies fn to it.
	Update(ctx context.Context, userID string, now time.Time, fn UpdateFunc) error

	// Get returns ErrAccountNotFound when the user has never been seen.
	Get(ctx context.Context, userID string) (Account, error)

	// SetPremium upserts the premium flag. Usage counters are left as they are.
	SetPremium(ctx context.Context, userID string, premium bool, now time.Time) error
}
