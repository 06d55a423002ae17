// Package catalog provides catalog source implementations.
package catalog

import (
	"context"
	"sync"

	"github.com/hammamikhairi/stockpile/internal/domain"
	"github.com/hammamikhairi/stockpile/internal/logger"
)

// Compile-time interface check.
var _ domain.CatalogSource = (*MemorySource)(nil)

// MemorySource holds a catalog in memory. The catalog itself is
// immutable; Replace swaps it atomically for a new one.
type MemorySource struct {
	mu      sync.RWMutex
	catalog *domain.Catalog
	groups  []domain.Group
	log     *logger.Logger
}

// NewMemorySource creates a source preloaded with the built-in catalog.
func NewMemorySource(log *logger.Logger) *MemorySource {
	return NewMemorySourceFrom(Builtin(), BuiltinGroups(), log)
}

// NewMemorySourceFrom creates a source over an explicit catalog, e.g. a
// test fixture.
func NewMemorySourceFrom(c *domain.Catalog, groups []domain.Group, log *logger.Logger) *MemorySource {
	if c == nil {
		c = domain.NewCatalog()
	}
	return &MemorySource{catalog: c, groups: groups, log: log}
}

// Catalog returns the current catalog.
func (s *MemorySource) Catalog(ctx context.Context) (*domain.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog, nil
}

// Groups returns the category groups.
func (s *MemorySource) Groups(ctx context.Context) ([]domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Group, len(s.groups))
	copy(out, s.groups)
	return out, nil
}

// Replace swaps in a new catalog. Groups are kept unless groups is non-nil.
// Calculations already holding the old catalog are unaffected.
func (s *MemorySource) Replace(c *domain.Catalog, groups []domain.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = c
	if groups != nil {
		s.groups = groups
	}
	s.log.Info("catalog replaced: %d categories", len(c.Keys()))
}
