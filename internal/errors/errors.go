// Package errors defines domain-level errors used throughout the application.
// These errors represent gateway failures and are mapped to appropriate HTTP status codes at the API boundary.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider how it should be handled when returned from API endpoints.
//
// Unmapped errors will default to HTTP 500 Internal Server Error.
//
// Don't forget to:
// 1. Add your error to mapError (internal/daemon/api_server.go)
// 2. Add a test case to TestMapError (internal/daemon/api_server_test.go)
package errors

import (
	"errors"
)

var (
	// ErrBadRequest indicates that the client provided invalid input or made a malformed request.
	// This typically results from validation failures or incorrect request parameters.
	// Recommended to map to HTTP 400 Bad Request.
	ErrBadRequest = errors.New("bad request")

	// ErrInvalidAddress indicates that a service registration carried an address
	// that is not a well-formed absolute URL.
	// Recommended to map to HTTP 400 Bad Request.
	ErrInvalidAddress = errors.New("invalid service address")

	// ErrServiceNotFound indicates that the named service does not exist in the registry.
	// This occurs on deregistration or resolution of a name that was never registered
	// (or has already been removed).
	// Recommended to map to HTTP 404 Not Found.
	ErrServiceNotFound = errors.New("service not found in registry")

	// ErrHealthNotTracked indicates that no health record exists for the specified service.
	// This occurs when querying health for a name that isn't being monitored.
	// Recommended to map to HTTP 404 Not Found.
	ErrHealthNotTracked = errors.New("service health is not being tracked")

	// ErrUnknownService indicates that a proxy call targeted a service name that is
	// not registered. The gateway records the failure and never attempts a network call.
	// Recommended to map to HTTP 404 Not Found.
	ErrUnknownService = errors.New("unknown proxy target service")

	// ErrServiceUnavailable indicates that the proxy short-circuited because the
	// target's last known health status was down (fail-fast policy).
	// Recommended to map to HTTP 503 Service Unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrUpstreamUnreachable indicates a network-level failure while forwarding a
	// request: timeout, connection refused, or a malformed response.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrUpstreamUnreachable = errors.New("upstream request failed")
)
