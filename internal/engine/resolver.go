package engine

import "github.com/hammamikhairi/stockpile/internal/domain"

// Resolver returns effective item rates: a user override when one is
// set, otherwise the catalog value.
type Resolver struct {
	overrides domain.Overrides
}

// NewResolver creates a resolver over a snapshot of overrides. A nil
// snapshot resolves everything to catalog values.
func NewResolver(overrides domain.Overrides) Resolver {
	return Resolver{overrides: overrides}
}

// Resolve returns the effective value of field for item and whether it
// is defined at all. An override of exactly 0 counts as defined.
func (r Resolver) Resolve(item domain.ItemDefinition, field domain.RateField) (float64, bool) {
	if v, ok := r.overrides.Get(item.Name, field); ok {
		return v, true
	}
	return item.Rate(field)
}

// ValueOr resolves field, falling back to def when undefined.
func (r Resolver) ValueOr(item domain.ItemDefinition, field domain.RateField, def float64) float64 {
	if v, ok := r.Resolve(item, field); ok {
		return v
	}
	return def
}

// classRateFields is the precedence table for daily rates: the first
// defined field wins.
var classRateFields = map[domain.Class][]domain.RateField{
	domain.ClassAdult: {domain.FieldPerAdultPerDay, domain.FieldPerPersonPerDay},
	domain.ClassChild: {domain.FieldPerChildPerDay, domain.FieldPerPersonPerDay},
	domain.ClassDog:   {domain.FieldPerDogPerDay, domain.FieldPerAnimalPerDay},
	domain.ClassCat:   {domain.FieldPerCatPerDay, domain.FieldPerAnimalPerDay},
}

// DailyRate returns the per-day rate for one individual of class c, or 0
// when no field in the class's precedence list is defined.
func (r Resolver) DailyRate(item domain.ItemDefinition, c domain.Class) float64 {
	for _, f := range classRateFields[c] {
		if v, ok := r.Resolve(item, f); ok {
			return v
		}
	}
	return 0
}

// Effective resolves every field of item. Undefined fields are omitted.
func (r Resolver) Effective(item domain.ItemDefinition) map[domain.RateField]float64 {
	out := make(map[domain.RateField]float64)
	for _, f := range domain.RateFields {
		if v, ok := r.Resolve(item, f); ok {
			out[f] = v
		}
	}
	return out
}
