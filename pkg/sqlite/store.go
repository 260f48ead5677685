package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/billing"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/usage"
)

// AccountStore implements usage.Store.
type AccountStore struct {
	db *sql.DB
}

func NewAccountStore(db *sql.DB) *AccountStore {
	if db == nil {
		panic("sqlite: db is required")
	}
	return &AccountStore{db: db}
}

// BillingStore implements billing.Subscriptions and billing.EventLog.
type BillingStore struct {
	db *sql.DB
}

func NewBillingStore(db *sql.DB) *BillingStore {
	if db == nil {
		panic("sqlite: db is required")
	}
	return &BillingStore{db: db}
}

var (
	_ usage.Store           = (*AccountStore)(nil)
	_ billing.Subscriptions = (*BillingStore)(nil)
	_ billing.EventLog      = (*BillingStore)(nil)
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: bad timestamp %q: %w", s, err)
	}
	return t, nil
}

func (s *AccountStore) Update(ctx context.Context, userID string, now time.Time, fn usage.UpdateFunc) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (user_id, usage_count, last_reset, is_premium, updated_at) VALUES (?, 0, ?, 0, ?)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, formatTime(now), formatTime(now),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	created := n == 1

	acct := usage.Account{UserID: userID}
	var lastReset string
	err = tx.QueryRowContext(ctx,
		`SELECT usage_count, last_reset, is_premium FROM users WHERE user_id = ?`, userID,
	).Scan(&acct.UsageCount, &lastReset, &acct.IsPremium)
	if err != nil {
		return err
	}
	if acct.LastReset, err = parseTime(lastReset); err != nil {
		return err
	}

	if fn(&acct, created) || created {
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET usage_count = ?, last_reset = ?, updated_at = ? WHERE user_id = ?`,
			acct.UsageCount, formatTime(acct.LastReset), formatTime(now), userID,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *AccountStore) Get(ctx context.Context, userID string) (usage.Account, error) {
	acct := usage.Account{UserID: userID}
	var lastReset string
	err := s.db.QueryRowContext(ctx,
		`SELECT usage_count, last_reset, is_premium FROM users WHERE user_id = ?`, userID,
	).Scan(&acct.UsageCount, &lastReset, &acct.IsPremium)
	if errors.Is(err, sql.ErrNoRows) {
		return usage.Account{}, usage.ErrAccountNotFound
	}
	if err != nil {
		return usage.Account{}, err
	}
	if acct.LastReset, err = parseTime(lastReset); err != nil {
		return usage.Account{}, err
	}
	return acct, nil
}

func (s *AccountStore) SetPremium(ctx context.Context, userID string, premium bool, now time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, usage_count, last_reset, is_premium, updated_at) VALUES (?, 0, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET is_premium = excluded.is_premium, updated_at = excluded.updated_at`,
		userID, formatTime(now), premium, formatTime(now),
	)
	return err
}

func (s *BillingStore) Save(ctx context.Context, sub billing.Subscription) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, plan, status, provider_subscription_id, provider_customer_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		     plan = excluded.plan,
		     status = excluded.status,
		     provider_subscription_id = excluded.provider_subscription_id,
		     provider_customer_id = excluded.provider_customer_id,
		     updated_at = excluded.updated_at`,
		sub.UserID, string(sub.Plan), sub.Status, sub.ProviderSubscriptionID, sub.ProviderCustomerID, formatTime(sub.UpdatedAt),
	)
	return err
}

const selectSubscription = `SELECT user_id, plan, status, provider_subscription_id, provider_customer_id, updated_at FROM subscriptions`

func (s *BillingStore) Get(ctx context.Context, userID string) (billing.Subscription, error) {
	return scanSubscription(s.db.QueryRowContext(ctx, selectSubscription+` WHERE user_id = ?`, userID))
}

func (s *BillingStore) FindByProviderID(ctx context.Context, providerSubscriptionID string) (billing.Subscription, error) {
	if providerSubscriptionID == "" {
		return billing.Subscription{}, billing.ErrSubscriptionAbsent
	}
	return scanSubscription(s.db.QueryRowContext(ctx,
		selectSubscription+` WHERE provider_subscription_id = ? ORDER BY updated_at DESC LIMIT 1`,
		providerSubscriptionID,
	))
}

func scanSubscription(row *sql.Row) (billing.Subscription, error) {
	var (
		sub       billing.Subscription
		plan      string
		updatedAt string
	)
	err := row.Scan(&sub.UserID, &plan, &sub.Status, &sub.ProviderSubscriptionID, &sub.ProviderCustomerID, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return billing.Subscription{}, billing.ErrSubscriptionAbsent
	}
	if err != nil {
		return billing.Subscription{}, err
	}
	sub.Plan = billing.Plan(plan)
	if sub.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return billing.Subscription{}, err
	}
	return sub, nil
}

func (s *BillingStore) Processed(ctx context.Context, eventID string) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM webhook_events WHERE event_id = ?)`, eventID).Scan(&ok)
	return ok, err
}

func (s *BillingStore) MarkProcessed(ctx context.Context, eventID, eventType string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO webhook_events (event_id, event_type, processed_at) VALUES (?, ?, ?)
		 ON CONFLICT (event_id) DO NOTHING`,
		eventID, eventType, formatTime(at),
	)
	return err
}
