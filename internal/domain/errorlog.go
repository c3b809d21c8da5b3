package domain

import "time"

const (
	// FailureKindUnknownService indicates the proxy target was not registered;
	// no network call was attempted.
	FailureKindUnknownService FailureKind = "unknown_service"

	// FailureKindServiceUnavailable indicates a fail-fast short circuit on a
	// target whose last known health status was down.
	FailureKindServiceUnavailable FailureKind = "service_unavailable"

	// FailureKindHTTPError indicates the backend answered with an error status.
	// This is a backend fault, not a gateway fault.
	FailureKindHTTPError FailureKind = "http_error"

	// FailureKindNetworkError indicates a timeout, connection failure or
	// malformed response while talking to the backend.
	FailureKindNetworkError FailureKind = "network_error"
)

// FailureKind classifies a failed interaction with a backend service.
type FailureKind string

// ErrorRecord is an immutable audit entry describing one failed interaction
// with a backend service. StatusCode is zero unless Kind is FailureKindHTTPError.
type ErrorRecord struct {
	ServiceName string
	Timestamp   time.Time
	Operation   string
	Kind        FailureKind
	StatusCode  int
	Message     string
}
