// Package binder decodes request input for the API handlers.
//
// JSON is strict: the Content-Type must be application/json, unknown fields
// are rejected and the body is size limited. All failures wrap one of the
// package errors so handlers can map them to 400/413/415 responses.
package binder
