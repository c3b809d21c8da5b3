package daemon

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/traingate/traingate/internal/domain"
	"github.com/traingate/traingate/internal/errors"
)

// Registry holds the live mapping of logical service names to base addresses.
// It is safe for concurrent use by multiple goroutines.
// List returns entries in registration order.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]domain.ServiceEntry
	order   []string
}

// NewRegistry creates an empty, concurrency-safe Registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]domain.ServiceEntry),
	}
}

// Register inserts or overwrites the entry for name.
// Re-registering an identical name/address pair is a no-op success, preserving
// the original registration time. A changed address overwrites in place and
// keeps the entry's position in registration order.
func (r *Registry) Register(name string, baseURL string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: service name cannot be empty", errors.ErrBadRequest)
	}

	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[name]; ok {
		if existing.BaseURL == normalized {
			return nil
		}
		existing.BaseURL = normalized
		existing.RegisteredAt = time.Now().UTC()
		r.entries[name] = existing
		return nil
	}

	r.entries[name] = domain.ServiceEntry{
		Name:         name,
		BaseURL:      normalized,
		RegisteredAt: time.Now().UTC(),
	}
	r.order = append(r.order, name)

	return nil
}

// Deregister removes the entry for name.
func (r *Registry) Deregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; !ok {
		return fmt.Errorf("%w: %s", errors.ErrServiceNotFound, name)
	}

	delete(r.entries, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })

	return nil
}

// Resolve returns the base address registered for name.
func (r *Registry) Resolve(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", errors.ErrServiceNotFound, name)
	}

	return entry.BaseURL, nil
}

// List returns a copy of all entries in registration order.
func (r *Registry) List() []domain.ServiceEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]domain.ServiceEntry, 0, len(r.order))
	for _, name := range r.order {
		entries = append(entries, r.entries[name])
	}

	return entries
}

// normalizeBaseURL validates the address and strips any trailing slash so
// endpoint paths can be appended consistently.
func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: address cannot be empty", errors.ErrInvalidAddress)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", errors.ErrInvalidAddress, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %s", errors.ErrInvalidAddress, raw)
	}

	return strings.TrimRight(raw, "/"), nil
}
