package domain

import "time"

// Household is the composition a plan is computed for.
type Household struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Dogs     int `json:"dogs"`
	Cats     int `json:"cats"`
	Duration int `json:"duration"` // days, >= 1
}

// Clamped returns a copy with negative counts raised to 0 and the
// duration raised to 1.
func (h Household) Clamped() Household {
	h.Adults = max(h.Adults, 0)
	h.Children = max(h.Children, 0)
	h.Dogs = max(h.Dogs, 0)
	h.Cats = max(h.Cats, 0)
	h.Duration = max(h.Duration, 1)
	return h
}

// Count returns the number of individuals of a class.
func (h Household) Count(c Class) int {
	switch c {
	case ClassAdult:
		return h.Adults
	case ClassChild:
		return h.Children
	case ClassDog:
		return h.Dogs
	case ClassCat:
		return h.Cats
	default:
		return 0
	}
}

// Overrides maps item name to field to a user-set value. A stored 0 is a
// real override, not an absence.
type Overrides map[string]map[RateField]float64

// Get returns the override for an item field, if any.
func (o Overrides) Get(item string, field RateField) (float64, bool) {
	fields, ok := o[item]
	if !ok {
		return 0, false
	}
	v, ok := fields[field]
	return v, ok
}

// Set records an override, allocating the inner map as needed.
func (o Overrides) Set(item string, field RateField, value float64) {
	fields, ok := o[item]
	if !ok {
		fields = make(map[RateField]float64)
		o[item] = fields
	}
	fields[field] = value
}

// Clone returns a deep copy.
func (o Overrides) Clone() Overrides {
	out := make(Overrides, len(o))
	for item, fields := range o {
		cp := make(map[RateField]float64, len(fields))
		for f, v := range fields {
			cp[f] = v
		}
		out[item] = cp
	}
	return out
}

// Quantities are the per-class and flat amounts of one supply line.
// Per-class values are totals for the whole duration for one individual.
type Quantities struct {
	PerAdult     float64 `json:"perAdult"`
	PerChild     float64 `json:"perChild"`
	PerDog       float64 `json:"perDog"`
	PerCat       float64 `json:"perCat"`
	PerHousehold float64 `json:"perHousehold"` // not multiplied by count
	PerFamily    float64 `json:"perFamily"`    // not multiplied by count
}

// PerClass returns the quantity for one individual of a class.
func (q Quantities) PerClass(c Class) float64 {
	switch c {
	case ClassAdult:
		return q.PerAdult
	case ClassChild:
		return q.PerChild
	case ClassDog:
		return q.PerDog
	case ClassCat:
		return q.PerCat
	default:
		return 0
	}
}

// ExpandedItem is one catalog item expanded for a household and duration.
type ExpandedItem struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
	Quantities
	Nutrition
}

// ConsolidatedItem is the sum of every expanded item sharing a name.
type ConsolidatedItem struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
	Quantities
	Nutrition
}

// SupplyListEntry is a consolidated item with its household total.
type SupplyListEntry struct {
	ConsolidatedItem
	Total float64 `json:"total"`
}

// NutritionTotals aggregates the nutrition category over the household.
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// Result is the output of one calculation.
type Result struct {
	SupplyList     []SupplyListEntry `json:"supplyList"`
	TotalNutrition NutritionTotals   `json:"totalNutrition"`
}

// Plan is a calculation result together with the inputs it was built from.
type Plan struct {
	ID         string    `json:"id"`
	Household  Household `json:"household"`
	Categories []string  `json:"categories"`
	CreatedAt  time.Time `json:"createdAt"`
	Result
}
