package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventKeyPrefix = "webhook:event:"

// EventLog remembers processed webhook event ids in Redis with a TTL.
// It satisfies billing.EventLog and lets several instances share dedupe state.
type EventLog struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewEventLog(client redis.UniversalClient, ttl time.Duration) *EventLog {
	if client == nil {
		panic("redis: client is required")
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &EventLog{client: client, ttl: ttl}
}

func (l *EventLog) Processed(ctx context.Context, eventID string) (bool, error) {
	n, err := l.client.Exists(ctx, eventKeyPrefix+eventID).Result()
	if err != nil {
		return false, errors.Join(ErrEventLog, err)
	}
	return n > 0, nil
}

func (l *EventLog) MarkProcessed(ctx context.Context, eventID, eventType string, at time.Time) error {
	value := eventType + "@" + at.UTC().Format(time.RFC3339)
	if err := l.client.Set(ctx, eventKeyPrefix+eventID, value, l.ttl).Err(); err != nil {
		return errors.Join(ErrEventLog, err)
	}
	return nil
}
