package daemon

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/traingate/traingate/internal/domain"
	"github.com/traingate/traingate/internal/errors"
)

// HealthTracker stores the last known health record per tracked service.
// It is safe for concurrent use by multiple goroutines.
type HealthTracker struct {
	mu       sync.RWMutex
	statuses map[string]domain.ServiceHealth
}

// NewHealthTracker creates a tracker seeded with the given service names,
// each starting with an unknown status.
func NewHealthTracker(serviceNames []string) *HealthTracker {
	statuses := make(map[string]domain.ServiceHealth, len(serviceNames))
	for _, name := range serviceNames {
		statuses[name] = domain.ServiceHealth{Name: name, Status: domain.HealthStatusUnknown}
	}
	return &HealthTracker{
		statuses: statuses,
	}
}

// Status returns the health record for a single tracked service.
func (h *HealthTracker) Status(name string) (domain.ServiceHealth, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if health, ok := h.statuses[name]; ok {
		return health, nil
	}

	return domain.ServiceHealth{}, fmt.Errorf("%w: %s", errors.ErrHealthNotTracked, name)
}

// List returns a copy of all known service health records.
func (h *HealthTracker) List() []domain.ServiceHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Collect(maps.Values(h.statuses))
}

// Track starts tracking a service with an unknown status.
// Tracking an already tracked service is a no-op, preserving its record.
func (h *HealthTracker) Track(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.statuses[name]; ok {
		return
	}
	h.statuses[name] = domain.ServiceHealth{Name: name, Status: domain.HealthStatusUnknown}
}

// Forget stops tracking a service and discards its health record.
func (h *HealthTracker) Forget(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.statuses, name)
}

// Update records a probe outcome for a tracked service.
// The current time is recorded as LastChecked, and LastSuccessful is updated
// only if status is HealthStatusUp. Latency can be nil if the probe failed.
// Updates for untracked services are rejected, which discards in-flight probe
// results for services deregistered mid-cycle.
func (h *HealthTracker) Update(name string, status domain.HealthStatus, latency *time.Duration, detail string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now().UTC()

	prev, exists := h.statuses[name]
	if !exists {
		return fmt.Errorf("%w: %s", errors.ErrHealthNotTracked, name)
	}

	lastSuccessful := prev.LastSuccessful
	if status == domain.HealthStatusUp {
		lastSuccessful = &now
	}

	h.statuses[name] = domain.ServiceHealth{
		Name:           name,
		Status:         status,
		Latency:        latency,
		LastChecked:    &now,
		LastSuccessful: lastSuccessful,
		Detail:         detail,
	}

	return nil
}
