// Package redis connects to the optional Redis server and provides the
// Redis-backed pieces of the service: a readiness check and a webhook
// event log shared across instances.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	events := redis.NewEventLog(client, cfg.EventTTL)
//
// Errors from the driver are joined with the package sentinels, so callers
// can use errors.Is against both.
package redis
