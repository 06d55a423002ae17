package domain

import "context"

// CatalogSource provides the item catalog. Implementations can be
// in-memory (built-in), file-based, or anything else that yields an
// immutable Catalog.
type CatalogSource interface {
	Catalog(ctx context.Context) (*Catalog, error)
	Groups(ctx context.Context) ([]Group, error)
}

// DefaultsStore persists per-item overrides of catalog defaults.
// Implementations can be in-memory, SQLite, Postgres, or any other
// key/value backend. Get reports false when no override exists.
type DefaultsStore interface {
	Get(ctx context.Context, item string, field RateField) (float64, bool, error)
	Set(ctx context.Context, item string, field RateField, value float64) error
	Delete(ctx context.Context, item string, field RateField) error
	Reset(ctx context.Context) error
	Snapshot(ctx context.Context) (Overrides, error)
}
