package domain

import "time"

// ServiceEntry describes one registered backend service.
// Entries are owned by the registry; Name is the unique key.
type ServiceEntry struct {
	Name         string
	BaseURL      string
	RegisteredAt time.Time
}
