// Package clientip resolves the originating client address of a request
// served behind reverse proxies.
//
// Forwarding headers are consulted in order and the first valid address wins.
// RemoteAddr is the fallback. Only list headers your proxy overwrites: a
// header the client can set directly lets it pick its own rate limit key.
//
//	resolver := clientip.New(clientip.WithHeaders("CF-Connecting-IP", "X-Forwarded-For"))
//	r.Use(resolver.Middleware)
//	...
//	ip := clientip.FromContext(r.Context())
package clientip
