// Package httpserver runs the HTTP API with configured timeouts and graceful
// shutdown, and provides liveness and readiness handlers.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// Run returns when ctx is cancelled or on SIGINT/SIGTERM. In-flight requests
// get ShutdownTimeout to complete.
package httpserver
