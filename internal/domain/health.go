package domain

import "time"

const (
	HealthStatusUp      HealthStatus = "up"
	HealthStatusDown    HealthStatus = "down"
	HealthStatusUnknown HealthStatus = "unknown"
)

// HealthStatus represents the internal state of a backend service's availability.
type HealthStatus string

// ServiceHealth tracks the internal health state for a registered backend service.
// Status is HealthStatusUnknown until the first probe for the service completes.
type ServiceHealth struct {
	Name           string
	Status         HealthStatus
	Latency        *time.Duration
	LastChecked    *time.Time
	LastSuccessful *time.Time
	Detail         string
}
