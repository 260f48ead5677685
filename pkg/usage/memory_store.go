package usage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps accounts in process memory. A single mutex serializes updates.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]Account)}
}

func (m *MemoryStore) Update(ctx context.Context, userID string, now time.Time, fn UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[userID]
	if !ok {
		acct = Account{UserID: userID, LastReset: now}
	}
	if fn(&acct, !ok) || !ok {
		m.accounts[userID] = acct
	}
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, userID string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[userID]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return acct, nil
}

func (m *MemoryStore) SetPremium(ctx context.Context, userID string, premium bool, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[userID]
	if !ok {
		acct = Account{UserID: userID, LastReset: now}
	}
	acct.IsPremium = premium
	m.accounts[userID] = acct
	return nil
}
