package daemon

import (
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/traingate/traingate/internal/domain"
)

// DefaultErrorLogCapacity is the default per-service bound on retained error records.
const DefaultErrorLogCapacity = 100

// ErrorLog keeps a bounded, per-service history of failed backend interactions.
// Records are immutable once written; when a service's history is full the
// oldest record is evicted. It is safe for concurrent use by multiple goroutines.
type ErrorLog struct {
	mu       sync.RWMutex
	logger   hclog.Logger
	records  map[string][]domain.ErrorRecord
	capacity int
}

// NewErrorLog creates an empty, concurrency-safe ErrorLog.
// A non-positive capacity falls back to DefaultErrorLogCapacity.
func NewErrorLog(logger hclog.Logger, capacity int) *ErrorLog {
	if capacity <= 0 {
		capacity = DefaultErrorLogCapacity
	}
	return &ErrorLog{
		logger:   logger.Named("errorlog"),
		records:  make(map[string][]domain.ErrorRecord),
		capacity: capacity,
	}
}

// Record appends an error record for a service. It never fails.
// Records are retained for deregistered services for audit purposes.
func (e *ErrorLog) Record(serviceName, operation string, kind domain.FailureKind, statusCode int, message string) {
	record := domain.ErrorRecord{
		ServiceName: serviceName,
		Timestamp:   time.Now().UTC(),
		Operation:   operation,
		Kind:        kind,
		StatusCode:  statusCode,
		Message:     message,
	}

	e.mu.Lock()
	history := append(e.records[serviceName], record)
	if len(history) > e.capacity {
		history = history[len(history)-e.capacity:]
	}
	e.records[serviceName] = history
	e.mu.Unlock()

	e.logger.Error("Service error recorded",
		"service", serviceName,
		"operation", operation,
		"kind", kind,
		"status_code", statusCode,
		"message", message,
	)
}

// ListAll returns a snapshot of all records grouped by service name.
func (e *ErrorLog) ListAll() map[string][]domain.ErrorRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()

	all := make(map[string][]domain.ErrorRecord, len(e.records))
	for name, history := range e.records {
		all[name] = append([]domain.ErrorRecord(nil), history...)
	}

	return all
}

// ListFor returns a snapshot of the records for one service, oldest first.
// An unknown service name yields an empty slice.
func (e *ErrorLog) ListFor(serviceName string) []domain.ErrorRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return append([]domain.ErrorRecord(nil), e.records[serviceName]...)
}
