// Package storetest holds behaviour tests shared by every storage backend.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/billing"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/usage"
)

// RunAccountStore exercises a usage.Store. newStore must return an empty store.
func RunAccountStore(t *testing.T, newStore func(t *testing.T) usage.Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("update creates missing account", func(t *testing.T) {
		s := newStore(t)
		var sawCreated bool
		err := s.Update(ctx, "acct-new", now, func(acct *usage.Account, created bool) bool {
			sawCreated = created
			assert.Equal(t, "acct-new", acct.UserID)
			assert.Zero(t, acct.UsageCount)
			acct.UsageCount = 1
			return true
		})
		require.NoError(t, err)
		assert.True(t, sawCreated)

		acct, err := s.Get(ctx, "acct-new")
		require.NoError(t, err)
		assert.Equal(t, 1, acct.UsageCount)
		assert.True(t, acct.LastReset.Equal(now), "last_reset %v != %v", acct.LastReset, now)
		assert.False(t, acct.IsPremium)
	})

	t.Run("update on existing account", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Update(ctx, "acct-1", now, func(acct *usage.Account, _ bool) bool {
			acct.UsageCount = 2
			return true
		}))

		later := now.Add(time.Hour)
		require.NoError(t, s.Update(ctx, "acct-1", later, func(acct *usage.Account, created bool) bool {
			assert.False(t, created)
			assert.Equal(t, 2, acct.UsageCount)
			assert.True(t, acct.LastReset.Equal(now))
			acct.UsageCount = 3
			acct.LastReset = later
			return true
		}))

		acct, err := s.Get(ctx, "acct-1")
		require.NoError(t, err)
		assert.Equal(t, 3, acct.UsageCount)
		assert.True(t, acct.LastReset.Equal(later))
	})

	t.Run("unchanged account is not written", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Update(ctx, "acct-2", now, func(acct *usage.Account, _ bool) bool {
			acct.UsageCount = 1
			return true
		}))
		require.NoError(t, s.Update(ctx, "acct-2", now, func(acct *usage.Account, _ bool) bool {
			acct.UsageCount = 99
			return false
		}))
		acct, err := s.Get(ctx, "acct-2")
		require.NoError(t, err)
		assert.Equal(t, 1, acct.UsageCount)
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "nobody")
		assert.ErrorIs(t, err, usage.ErrAccountNotFound)
	})

	t.Run("set premium upserts and keeps counters", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetPremium(ctx, "acct-3", true, now))
		acct, err := s.Get(ctx, "acct-3")
		require.NoError(t, err)
		assert.True(t, acct.IsPremium)
		assert.Zero(t, acct.UsageCount)

		require.NoError(t, s.Update(ctx, "acct-3", now, func(acct *usage.Account, _ bool) bool {
			acct.UsageCount = 2
			return true
		}))
		require.NoError(t, s.SetPremium(ctx, "acct-3", false, now.Add(time.Minute)))
		acct, err = s.Get(ctx, "acct-3")
		require.NoError(t, err)
		assert.False(t, acct.IsPremium)
		assert.Equal(t, 2, acct.UsageCount)
	})

	t.Run("ledger never over-grants under concurrency", func(t *testing.T) {
		svc := usage.NewService(newStore(t))
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			allowed int
		)
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				dec, err := svc.CheckAndConsume(ctx, "acct-race")
				if err != nil || !dec.Allowed {
					return
				}
				mu.Lock()
				allowed++
				mu.Unlock()
			}()
		}
		wg.Wait()
		assert.Equal(t, usage.DefaultLimit, allowed)
	})
}

// BillingStore is what every billing backend implements.
type BillingStore interface {
	billing.Subscriptions
	billing.EventLog
}

// RunBillingStore exercises billing.Subscriptions and billing.EventLog.
func RunBillingStore(t *testing.T, newStore func(t *testing.T) BillingStore) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("save and get subscription", func(t *testing.T) {
		s := newStore(t)
		sub := billing.Subscription{
			UserID:                 "user-1",
			Plan:                   billing.PlanStarter,
			Status:                 billing.StatusActive,
			ProviderSubscriptionID: "sub_1",
			ProviderCustomerID:     "cus_1",
			UpdatedAt:              now,
		}
		require.NoError(t, s.Save(ctx, sub))

		got, err := s.Get(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, sub.Plan, got.Plan)
		assert.Equal(t, sub.Status, got.Status)
		assert.Equal(t, sub.ProviderSubscriptionID, got.ProviderSubscriptionID)
		assert.Equal(t, sub.ProviderCustomerID, got.ProviderCustomerID)
		assert.True(t, got.UpdatedAt.Equal(now))

		byProvider, err := s.FindByProviderID(ctx, "sub_1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", byProvider.UserID)

		sub.Status = billing.StatusCanceled
		require.NoError(t, s.Save(ctx, sub))
		got, err = s.Get(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, billing.StatusCanceled, got.Status)
	})

	t.Run("missing subscription", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "ghost")
		assert.ErrorIs(t, err, billing.ErrSubscriptionAbsent)
		_, err = s.FindByProviderID(ctx, "sub_ghost")
		assert.ErrorIs(t, err, billing.ErrSubscriptionAbsent)
		_, err = s.FindByProviderID(ctx, "")
		assert.ErrorIs(t, err, billing.ErrSubscriptionAbsent)
	})

	t.Run("event log", func(t *testing.T) {
		s := newStore(t)
		id := fmt.Sprintf("evt_%d", now.UnixNano())

		done, err := s.Processed(ctx, id)
		require.NoError(t, err)
		assert.False(t, done)

		require.NoError(t, s.MarkProcessed(ctx, id, billing.EventCheckoutCompleted, now))
		require.NoError(t, s.MarkProcessed(ctx, id, billing.EventCheckoutCompleted, now.Add(time.Second)))

		done, err = s.Processed(ctx, id)
		require.NoError(t, err)
		assert.True(t, done)
	})
}
