package usage

import "time"

const (
	DefaultLimit  = 3
	DefaultWindow = 7 * 24 * time.Hour
)

// Policy holds the free-tier quota parameters.
type Policy struct {
	Limit  int
	Window time.Duration
}

// DefaultPolicy allows three free actions per rolling seven days.
func DefaultPolicy() Policy {
	return Policy{Limit: DefaultLimit, Window: DefaultWindow}
}

// Apply meters one action against acct and reports whether acct was mutated.
// created marks an account that did not exist before this call.
//
// Premium accounts are checked before the window reset, so metering never
// touches their counters.
func (p Policy) Apply(acct *Account, created bool, now time.Time) (Decision, bool) {
	switch {
	case created:
		acct.UsageCount = 1
		acct.LastReset = now
		return Decision{Allowed: true, Remaining: Left(p.Limit - 1)}, true
	case acct.IsPremium:
		return Decision{Allowed: true, Remaining: Unlimited}, false
	case p.expired(acct, now):
		acct.UsageCount = 1
		acct.LastReset = now
		return Decision{Allowed: true, Remaining: Left(p.Limit - 1)}, true
	case acct.UsageCount >= p.Limit:
		return Decision{Allowed: false, Remaining: Left(0)}, false
	default:
		acct.UsageCount++
		return Decision{Allowed: true, Remaining: Left(p.Limit - acct.UsageCount)}, true
	}
}

// Peek reports what remains for acct without consuming anything.
func (p Policy) Peek(acct Account, now time.Time) Remaining {
	if acct.IsPremium {
		return Unlimited
	}
	if p.expired(&acct, now) {
		return Left(p.Limit)
	}
	return Left(p.Limit - acct.UsageCount)
}

// The window elapses only once strictly more than Window has passed.
func (p Policy) expired(acct *Account, now time.Time) bool {
	return now.Sub(acct.LastReset) > p.Window
}
