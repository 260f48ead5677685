package httpserver

import "errors"

// Errors returned by Server.Run and Server.Shutdown. Both are joined with the
// underlying cause.
var (
	ErrStart    = errors.New("httpserver: listen or serve failed")
	ErrShutdown = errors.New("httpserver: graceful shutdown failed")
)
