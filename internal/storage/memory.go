// Package storage provides override store implementations.
package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/stockpile/internal/domain"
	"github.com/hammamikhairi/stockpile/internal/logger"
)

// Compile-time interface check.
var _ domain.DefaultsStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory override store. Safe for concurrent access.
type MemoryStore struct {
	mu        sync.RWMutex
	overrides domain.Overrides
	log       *logger.Logger
}

// NewMemoryStore creates an empty in-memory override store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		overrides: make(domain.Overrides),
		log:       log,
	}
}

// Get returns the override for an item field.
func (s *MemoryStore) Get(ctx context.Context, item string, field domain.RateField) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.overrides.Get(item, field)
	return v, ok, nil
}

// Set stores an override. Overwrites if it already exists.
func (s *MemoryStore) Set(ctx context.Context, item string, field domain.RateField, value float64) error {
	if err := domain.ValidateOverride(field, value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving override %s.%s=%g", item, field, value)
	s.overrides.Set(item, field, value)
	return nil
}

// Delete removes one override.
func (s *MemoryStore) Delete(ctx context.Context, item string, field domain.RateField) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.overrides[item]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := fields[field]; !ok {
		return domain.ErrNotFound
	}
	delete(fields, field)
	if len(fields) == 0 {
		delete(s.overrides, item)
	}
	s.log.Debug("deleted override %s.%s", item, field)
	return nil
}

// Reset drops every override.
func (s *MemoryStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.overrides = make(domain.Overrides)
	s.log.Debug("overrides reset")
	return nil
}

// Snapshot returns a copy of every override.
func (s *MemoryStore) Snapshot(ctx context.Context) (domain.Overrides, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.overrides.Clone(), nil
}
