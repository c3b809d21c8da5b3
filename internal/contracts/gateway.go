package contracts

import (
	"context"
	"time"

	"github.com/traingate/traingate/internal/domain"
)

// ServiceRegistry provides a way to manage and resolve backend service addresses.
type ServiceRegistry interface {
	// Register inserts or overwrites the entry for name.
	// Re-registering an identical name/address pair is a no-op success.
	Register(name string, baseURL string) error

	// Deregister removes the entry for name.
	Deregister(name string) error

	// Resolve returns the base address registered for name.
	Resolve(name string) (string, error)

	// List returns all entries in registration order.
	List() []domain.ServiceEntry
}

// HealthMonitor provides a way to interact with the health status of backend services.
type HealthMonitor interface {
	// Status returns the health record for a single tracked service.
	Status(name string) (domain.ServiceHealth, error)

	// List returns a copy of all known service health records.
	List() []domain.ServiceHealth

	// Track starts tracking a service, initialising it with an unknown status.
	Track(name string)

	// Forget stops tracking a service and discards its health record.
	Forget(name string)

	// Update records a probe outcome for a tracked service.
	// Latency can be nil if the probe failed or was not measured.
	Update(name string, status domain.HealthStatus, latency *time.Duration, detail string) error
}

// ErrorLog provides an append-only audit history of failed backend interactions.
type ErrorLog interface {
	// Record appends an error record for a service. It never fails; once the
	// per-service capacity is reached the oldest record is evicted.
	Record(serviceName, operation string, kind domain.FailureKind, statusCode int, message string)

	// ListAll returns a snapshot of all records grouped by service name.
	ListAll() map[string][]domain.ErrorRecord

	// ListFor returns a snapshot of the records for one service, oldest first.
	ListFor(serviceName string) []domain.ErrorRecord
}

// RequestForwarder proxies a logical request to a resolved backend service.
type RequestForwarder interface {
	// Forward resolves the target, performs at most one outbound attempt and
	// returns the backend response verbatim. Gateway faults are returned as
	// errors from the internal/errors taxonomy.
	Forward(ctx context.Context, req domain.ProxyRequest) (domain.ProxyResult, error)
}
