package usage

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/logger"
)

// Service is the usage ledger.
type Service interface {
	// CheckAndConsume meters one action for userID. On any storage failure the
	// returned decision denies the action and the error wraps ErrStorage.
	CheckAndConsume(ctx context.Context, userID string) (Decision, error)

	// SetPremium grants or revokes unlimited usage.
	SetPremium(ctx context.Context, userID string, premium bool) error

	// Status returns the account and what remains for it without consuming.
	// Unknown users report a fresh, non-premium account.
	Status(ctx context.Context, userID string) (Account, Remaining, error)
}

// ServiceOption configures a Service instance.
type ServiceOption func(*service)

func WithPolicy(p Policy) ServiceOption {
	return func(s *service) {
		if p.Limit > 0 && p.Window > 0 {
			s.policy = p
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *service) {
		if l != nil {
			s.log = l
		}
	}
}

type service struct {
	store  Store
	policy Policy
	now    func() time.Time
	log    *slog.Logger
}

// NewService panics when store is nil.
func NewService(store Store, opts ...ServiceOption) Service {
	if store == nil {
		panic("usage: Store is required")
	}

	s := &service{
		store:  store,
		policy: DefaultPolicy(),
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CheckAndConsume(ctx context.Context, userID string) (Decision, error) {
	denied := Decision{Allowed: false, Remaining: Left(0)}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return denied, ErrMissingUserID
	}

	var dec Decision
	now := s.now().UTC()
	err := s.store.Update(ctx, userID, now, func(acct *Account, created bool) bool {
		d, changed := s.policy.Apply(acct, created, now)
		dec = d
		return changed
	})
	if err != nil {
		s.log.ErrorContext(ctx, "usage check failed",
			logger.Component("usage"),
			logger.UserID(userID),
			logger.Error(err),
		)
		return denied, errors.Join(ErrStorage, err)
	}

	if !dec.Allowed {
		s.log.InfoContext(ctx, "free quota exhausted", logger.Component("usage"), logger.UserID(userID))
	}
	return dec, nil
}

func (s *service) SetPremium(ctx context.Context, userID string, premium bool) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrMissingUserID
	}

	if err := s.store.SetPremium(ctx, userID, premium, s.now().UTC()); err != nil {
		return errors.Join(ErrStorage, err)
	}

	s.log.InfoContext(ctx, "premium flag updated",
		logger.Component("usage"),
		logger.UserID(userID),
		slog.Bool("is_premium", premium),
	)
	return nil
}

func (s *service) Status(ctx context.Context, userID string) (Account, Remaining, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Account{}, Remaining{}, ErrMissingUserID
	}

	acct, err := s.store.Get(ctx, userID)
	switch {
	case errors.Is(err, ErrAccountNotFound):
		return Account{UserID: userID}, Left(s.policy.Limit), nil
	case err != nil:
		return Account{}, Remaining{}, errors.Join(ErrStorage, err)
	}
	return acct, s.policy.Peek(acct, s.now().UTC()), nil
}
