// Package api is the HTTP surface of the service: checkout, webhook,
// verification, metering, plan lookup and the two generation endpoints.
//
// Handlers decode with package binder, call the domain services and map
// their sentinel errors to status codes in one place (errors.go). Internal
// error text is logged, never written to the client.
package api
