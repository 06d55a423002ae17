// Package engine implements the supply requirement calculation and the
// service facade the CLI and HTTP layers drive it through.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/stockpile/internal/domain"
	"github.com/hammamikhairi/stockpile/internal/logger"
)

// Calculate computes the supply list and nutrition totals for a household.
// It is pure: the same inputs always give the same result, and it never
// fails. The household is expected to be clamped by the caller.
func Calculate(h domain.Household, selected []string, catalog *domain.Catalog, overrides domain.Overrides) domain.Result {
	r := NewResolver(overrides)
	expanded, nutrition := Expand(h, selected, catalog, r)
	return domain.Result{
		SupplyList:     Totalize(Consolidate(expanded), h),
		TotalNutrition: nutrition,
	}
}

// Option configures the engine.
type Option func(*Engine)

// WithDefaultCategories sets the categories used when a plan request
// names none. Without it every catalog category is used.
func WithDefaultCategories(keys ...string) Option {
	return func(e *Engine) {
		e.defaultCategories = keys
	}
}

// WithClock overrides time.Now for plan timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine ties a catalog source and an override store to Calculate. It
// depends only on interfaces and is fully testable with in-memory
// implementations.
type Engine struct {
	catalogs          domain.CatalogSource
	store             domain.DefaultsStore
	log               *logger.Logger
	defaultCategories []string
	now               func() time.Time
}

// New creates an engine with the given dependencies and options.
func New(catalogs domain.CatalogSource, store domain.DefaultsStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		catalogs: catalogs,
		store:    store,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan computes a plan. Overrides are read once, before calculation, so
// a concurrent Set never yields a half-applied result. Group keys in
// categories are expanded; an empty selection means the defaults.
func (e *Engine) Plan(ctx context.Context, h domain.Household, categories []string) (*domain.Plan, error) {
	catalog, err := e.catalogs.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	selected, err := e.Selection(ctx, categories)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		selected = e.defaultCategories
		if len(selected) == 0 {
			selected = catalog.Keys()
		}
	}

	overrides, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading overrides: %w", err)
	}

	clamped := h.Clamped()
	if clamped != h {
		e.log.Debug("household clamped from %+v to %+v", h, clamped)
	}

	res := Calculate(clamped, selected, catalog, overrides)
	e.log.Debug("plan computed: %d items over %d days (%d categories, %d overrides)",
		len(res.SupplyList), clamped.Duration, len(selected), len(overrides))

	return &domain.Plan{
		ID:         generateID(),
		Household:  clamped,
		Categories: selected,
		CreatedAt:  e.now(),
		Result:     res,
	}, nil
}

// Selection expands group keys into their category keys. Plain category
// keys pass through; duplicates are dropped and first-seen order kept.
// Keys that are neither are kept too: the calculation skips them.
func (e *Engine) Selection(ctx context.Context, keys []string) ([]string, error) {
	groups, err := e.catalogs.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading groups: %w", err)
	}
	byKey := make(map[string]domain.Group, len(groups))
	for _, g := range groups {
		byKey[g.Key] = g
	}

	var out []string
	seen := make(map[string]bool)
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for _, k := range keys {
		if g, ok := byKey[k]; ok {
			for _, c := range g.Categories {
				add(c)
			}
			continue
		}
		add(k)
	}
	return out, nil
}

// UnknownCategories returns the keys in selection, after group
// expansion, that the catalog does not define. Calculate ignores them
// silently; callers that want to warn use this.
func (e *Engine) UnknownCategories(ctx context.Context, selection []string) ([]string, error) {
	catalog, err := e.catalogs.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	keys, err := e.Selection(ctx, selection)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, k := range keys {
		if _, ok := catalog.Category(k); !ok {
			out = append(out, k)
		}
	}
	return out, nil
}

// Categories lists the catalog's categories.
func (e *Engine) Categories(ctx context.Context) ([]domain.CategorySummary, error) {
	catalog, err := e.catalogs.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return catalog.Summaries(), nil
}

// Groups lists the category groups.
func (e *Engine) Groups(ctx context.Context) ([]domain.Group, error) {
	return e.catalogs.Groups(ctx)
}

// ItemDefaults describes the rates of one item: catalog values, user
// overrides, and the effective result. Maps are keyed by field name.
type ItemDefaults struct {
	Name      string             `json:"name"`
	Unit      string             `json:"unit"`
	Catalog   map[string]float64 `json:"catalog"`
	Overrides map[string]float64 `json:"overrides"`
	Effective map[string]float64 `json:"effective"`
}

// EffectiveDefaults reports the rates of a catalog item.
func (e *Engine) EffectiveDefaults(ctx context.Context, item string) (*ItemDefaults, error) {
	catalog, err := e.catalogs.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	def, ok := catalog.Item(item)
	if !ok {
		return nil, fmt.Errorf("item %q: %w", item, domain.ErrNotFound)
	}
	overrides, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading overrides: %w", err)
	}

	out := &ItemDefaults{
		Name:      def.Name,
		Unit:      def.Unit,
		Catalog:   make(map[string]float64),
		Overrides: make(map[string]float64),
		Effective: make(map[string]float64),
	}
	for _, f := range domain.RateFields {
		if v, ok := def.Rate(f); ok {
			out.Catalog[f.String()] = v
		}
		if v, ok := overrides.Get(def.Name, f); ok {
			out.Overrides[f.String()] = v
		}
	}
	for f, v := range NewResolver(overrides).Effective(def) {
		out.Effective[f.String()] = v
	}
	return out, nil
}

// SetDefault stores an override for one item field. The item must exist
// in the catalog.
func (e *Engine) SetDefault(ctx context.Context, item string, field domain.RateField, value float64) error {
	if err := domain.ValidateOverride(field, value); err != nil {
		return err
	}
	catalog, err := e.catalogs.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	if _, ok := catalog.Item(item); !ok {
		return fmt.Errorf("item %q: %w", item, domain.ErrNotFound)
	}
	if err := e.store.Set(ctx, item, field, value); err != nil {
		return fmt.Errorf("saving override: %w", err)
	}
	e.log.Info("override set: %s.%s = %g", item, field, value)
	return nil
}

// ClearDefault removes one override so the catalog value applies again.
func (e *Engine) ClearDefault(ctx context.Context, item string, field domain.RateField) error {
	if field == domain.FieldUnknown {
		return domain.ErrUnknownField
	}
	if err := e.store.Delete(ctx, item, field); err != nil {
		return fmt.Errorf("deleting override: %w", err)
	}
	e.log.Info("override cleared: %s.%s", item, field)
	return nil
}

// ResetDefaults drops every override.
func (e *Engine) ResetDefaults(ctx context.Context) error {
	if err := e.store.Reset(ctx); err != nil {
		return fmt.Errorf("resetting overrides: %w", err)
	}
	e.log.Info("overrides reset to catalog defaults")
	return nil
}
