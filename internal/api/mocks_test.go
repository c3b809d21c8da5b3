package api

import (
	"context"
	"fmt"
	"time"

	"github.com/traingate/traingate/internal/domain"
	"github.com/traingate/traingate/internal/errors"
)

type mockRegistry struct {
	entries     map[string]string
	registerErr error
}

func newMockRegistry(entries map[string]string) *mockRegistry {
	if entries == nil {
		entries = make(map[string]string)
	}
	return &mockRegistry{entries: entries}
}

func (m *mockRegistry) Register(name, baseURL string) error {
	if m.registerErr != nil {
		return m.registerErr
	}
	m.entries[name] = baseURL
	return nil
}

func (m *mockRegistry) Deregister(name string) error {
	if _, ok := m.entries[name]; !ok {
		return fmt.Errorf("%w: %s", errors.ErrServiceNotFound, name)
	}
	delete(m.entries, name)
	return nil
}

func (m *mockRegistry) Resolve(name string) (string, error) {
	baseURL, ok := m.entries[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", errors.ErrServiceNotFound, name)
	}
	return baseURL, nil
}

func (m *mockRegistry) List() []domain.ServiceEntry {
	entries := make([]domain.ServiceEntry, 0, len(m.entries))
	for name, baseURL := range m.entries {
		entries = append(entries, domain.ServiceEntry{Name: name, BaseURL: baseURL})
	}
	return entries
}

type mockMonitor struct {
	statuses  map[string]domain.ServiceHealth
	tracked   []string
	forgotten []string
}

func newMockMonitor(statuses map[string]domain.ServiceHealth) *mockMonitor {
	if statuses == nil {
		statuses = make(map[string]domain.ServiceHealth)
	}
	return &mockMonitor{statuses: statuses}
}

func (m *mockMonitor) Status(name string) (domain.ServiceHealth, error) {
	health, ok := m.statuses[name]
	if !ok {
		return domain.ServiceHealth{}, fmt.Errorf("%w: %s", errors.ErrHealthNotTracked, name)
	}
	return health, nil
}

func (m *mockMonitor) List() []domain.ServiceHealth {
	statuses := make([]domain.ServiceHealth, 0, len(m.statuses))
	for _, health := range m.statuses {
		statuses = append(statuses, health)
	}
	return statuses
}

func (m *mockMonitor) Track(name string) {
	m.tracked = append(m.tracked, name)
}

func (m *mockMonitor) Forget(name string) {
	m.forgotten = append(m.forgotten, name)
	delete(m.statuses, name)
}

func (m *mockMonitor) Update(name string, status domain.HealthStatus, latency *time.Duration, detail string) error {
	if _, ok := m.statuses[name]; !ok {
		return fmt.Errorf("%w: %s", errors.ErrHealthNotTracked, name)
	}
	m.statuses[name] = domain.ServiceHealth{Name: name, Status: status, Latency: latency, Detail: detail}
	return nil
}

type mockErrorLog struct {
	records map[string][]domain.ErrorRecord
}

func newMockErrorLog(records map[string][]domain.ErrorRecord) *mockErrorLog {
	if records == nil {
		records = make(map[string][]domain.ErrorRecord)
	}
	return &mockErrorLog{records: records}
}

func (m *mockErrorLog) Record(serviceName, operation string, kind domain.FailureKind, statusCode int, message string) {
	m.records[serviceName] = append(m.records[serviceName], domain.ErrorRecord{
		ServiceName: serviceName,
		Timestamp:   time.Now().UTC(),
		Operation:   operation,
		Kind:        kind,
		StatusCode:  statusCode,
		Message:     message,
	})
}

func (m *mockErrorLog) ListAll() map[string][]domain.ErrorRecord {
	return m.records
}

func (m *mockErrorLog) ListFor(serviceName string) []domain.ErrorRecord {
	return m.records[serviceName]
}

type mockForwarder struct {
	lastRequest domain.ProxyRequest
	result      domain.ProxyResult
	err         error
}

func (m *mockForwarder) Forward(_ context.Context, req domain.ProxyRequest) (domain.ProxyResult, error) {
	m.lastRequest = req
	if m.err != nil {
		return domain.ProxyResult{}, m.err
	}
	return m.result, nil
}
