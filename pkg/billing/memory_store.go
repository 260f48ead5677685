package billing

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Subscriptions and EventLog in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	subs   map[string]Subscription
	events map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subs:   make(map[string]Subscription),
		events: make(map[string]time.Time),
	}
}

func (m *MemoryStore) Save(ctx context.Context, sub Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[sub.UserID] = sub
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, userID string) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return Subscription{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sub, ok := m.subs[userID]
	if !ok {
		return Subscription{}, ErrSubscriptionAbsent
	}
	return sub, nil
}

func (m *MemoryStore) FindByProviderID(ctx context.Context, providerSubscriptionID string) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return Subscription{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subs {
		if providerSubscriptionID != "" && sub.ProviderSubscriptionID == providerSubscriptionID {
			return sub, nil
		}
	}
	return Subscription{}, ErrSubscriptionAbsent
}

func (m *MemoryStore) Processed(ctx context.Context, eventID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.events[eventID]
	return ok, nil
}

func (m *MemoryStore) MarkProcessed(ctx context.Context, eventID, _ string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[eventID]; !ok {
		m.events[eventID] = at
	}
	return nil
}
