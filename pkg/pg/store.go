package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/billing"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/usage"
)

// AccountStore implements usage.Store.
type AccountStore struct {
	pool *pgxpool.Pool
}

func NewAccountStore(pool *pgxpool.Pool) *AccountStore {
	if pool == nil {
		panic("pg: pool is required")
	}
	return &AccountStore{pool: pool}
}

// BillingStore implements billing.Subscriptions and billing.EventLog.
type BillingStore struct {
	pool *pgxpool.Pool
}

func NewBillingStore(pool *pgxpool.Pool) *BillingStore {
	if pool == nil {
		panic("pg: pool is required")
	}
	return &BillingStore{pool: pool}
}

var (
	_ usage.Store           = (*AccountStore)(nil)
	_ billing.Subscriptions = (*BillingStore)(nil)
	_ billing.EventLog      = (*BillingStore)(nil)
)

func (s *AccountStore) Update(ctx context.Context, userID string, now time.Time, fn usage.UpdateFunc) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`INSERT INTO users (user_id, usage_count, last_reset) VALUES ($1, 0, $2)
			 ON CONFLICT (user_id) DO NOTHING`,
			userID, now,
		)
		if err != nil {
			return err
		}
		created := tag.RowsAffected() == 1

		acct := usage.Account{UserID: userID}
		err = tx.QueryRow(ctx,
			`SELECT usage_count, last_reset, is_premium FROM users WHERE user_id = $1 FOR UPDATE`,
			userID,
		).Scan(&acct.UsageCount, &acct.LastReset, &acct.IsPremium)
		if err != nil {
			return err
		}

		if !fn(&acct, created) && !created {
			return nil
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET usage_count = $2, last_reset = $3, updated_at = now() WHERE user_id = $1`,
			userID, acct.UsageCount, acct.LastReset,
		)
		return err
	})
}

func (s *AccountStore) Get(ctx context.Context, userID string) (usage.Account, error) {
	acct := usage.Account{UserID: userID}
	err := s.pool.QueryRow(ctx,
		`SELECT usage_count, last_reset, is_premium FROM users WHERE user_id = $1`,
		userID,
	).Scan(&acct.UsageCount, &acct.LastReset, &acct.IsPremium)
	if IsNotFoundError(err) {
		return usage.Account{}, usage.ErrAccountNotFound
	}
	if err != nil {
		return usage.Account{}, err
	}
	return acct, nil
}

func (s *AccountStore) SetPremium(ctx context.Context, userID string, premium bool, now time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (user_id, usage_count, last_reset, is_premium) VALUES ($1, 0, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET is_premium = EXCLUDED.is_premium, updated_at = now()`,
		userID, now, premium,
	)
	return err
}

func (s *BillingStore) Save(ctx context.Context, sub billing.Subscription) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO subscriptions (user_id, plan, status, provider_subscription_id, provider_customer_id, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE SET
		     plan = EXCLUDED.plan,
		     status = EXCLUDED.status,
		     provider_subscription_id = EXCLUDED.provider_subscription_id,
		     provider_customer_id = EXCLUDED.provider_customer_id,
		     updated_at = EXCLUDED.updated_at`,
		sub.UserID, string(sub.Plan), sub.Status, sub.ProviderSubscriptionID, sub.ProviderCustomerID, sub.UpdatedAt,
	)
	return err
}

const selectSubscription = `SELECT user_id, plan, status, provider_subscription_id, provider_customer_id, updated_at FROM subscriptions`

func (s *BillingStore) Get(ctx context.Context, userID string) (billing.Subscription, error) {
	return s.scanSubscription(s.pool.QueryRow(ctx, selectSubscription+` WHERE user_id = $1`, userID))
}

func (s *BillingStore) FindByProviderID(ctx context.Context, providerSubscriptionID string) (billing.Subscription, error) {
	if providerSubscriptionID == "" {
		return billing.Subscription{}, billing.ErrSubscriptionAbsent
	}
	return s.scanSubscription(s.pool.QueryRow(ctx,
		selectSubscription+` WHERE provider_subscription_id = $1 ORDER BY updated_at DESC LIMIT 1`,
		providerSubscriptionID,
	))
}

func (s *BillingStore) scanSubscription(row pgx.Row) (billing.Subscription, error) {
	var (
		sub  billing.Subscription
		plan string
	)
	err := row.Scan(&sub.UserID, &plan, &sub.Status, &sub.ProviderSubscriptionID, &sub.ProviderCustomerID, &sub.UpdatedAt)
	if IsNotFoundError(err) {
		return billing.Subscription{}, billing.ErrSubscriptionAbsent
	}
	if err != nil {
		return billing.Subscription{}, err
	}
	sub.Plan = billing.Plan(plan)
	return sub, nil
}

func (s *BillingStore) Processed(ctx context.Context, eventID string) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM webhook_events WHERE event_id = $1)`, eventID).Scan(&ok)
	return ok, err
}

func (s *BillingStore) MarkProcessed(ctx context.Context, eventID, eventType string, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO webhook_events (event_id, event_type, processed_at) VALUES ($1, $2, $3)
		 ON CONFLICT (event_id) DO NOTHING`,
		eventID, eventType, at,
	)
	return err
}
