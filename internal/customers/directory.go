package customers

import (
	"context"
	"sync"
	"time"
)

// Directory is the customer profile store contract.
type Directory interface {
	Find(ctx context.Context, customerID int64) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
}

// MemoryDirectory keeps profiles in a process-local map.
type MemoryDirectory struct {
	mu       sync.RWMutex
	profiles map[int64]Profile
}

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{profiles: make(map[int64]Profile)}
}

// Find returns the profile or ErrNotFound.
func (d *MemoryDirectory) Find(_ context.Context, customerID int64) (*Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	profile, ok := d.profiles[customerID]
	if !ok {
		return nil, ErrNotFound
	}
	return &profile, nil
}

// Upsert creates or replaces the profile, stamping LastOrderAt when unset.
func (d *MemoryDirectory) Upsert(_ context.Context, profile *Profile) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	stored := *profile
	if stored.LastOrderAt.IsZero() {
		stored.LastOrderAt = time.Now().UTC()
	}
	d.profiles[profile.CustomerID] = stored
	return nil
}

var _ Directory = (*MemoryDirectory)(nil)
