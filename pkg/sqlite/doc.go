// Package sqlite is the embedded single-node backend built on modernc.org/sqlite.
//
// The pool is capped at one connection, so every transaction is serialized and
// the usage check-and-consume step is atomic without row locks. Timestamps are
// stored as RFC 3339 text in UTC.
package sqlite
