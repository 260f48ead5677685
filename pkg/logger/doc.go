// Package logger builds the process-wide *slog.Logger.
//
// New picks a JSON or text handler from the configured environment and wraps it
// in a handler that runs ContextExtractor callbacks on every record, so
// request-scoped values such as the request id land on each line without being
// passed around explicitly.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.App.Env, cfg.App.Name),
//		logger.WithContextExtractors(requestIDExtractor),
//	)
//	log.InfoContext(ctx, "checkout created",
//		logger.UserID(userID),
//		logger.SessionID(sess.ID),
//	)
//
// Attribute helpers in attr.go keep key names consistent across packages.
// Helpers taking an error or an id return an empty slog.Attr for zero input,
// which slog drops.
package logger
