// Package domain defines the core types and interfaces for the supply planner.
// All other packages depend on domain; domain depends on nothing.
package domain

// NutritionCategory is the category whose items are tracked nutrient
// totals rather than purchasable goods.
const NutritionCategory = "nutrition"

// ItemDefinition is a single catalog record. A nil rate field is absent
// and counts as 0; it is never an error.
type ItemDefinition struct {
	Name string `json:"name"`
	Unit string `json:"unit,omitempty"`

	PerAdultPerDay  *float64 `json:"perAdultPerDay,omitempty"`
	PerChildPerDay  *float64 `json:"perChildPerDay,omitempty"`
	PerPersonPerDay *float64 `json:"perPersonPerDay,omitempty"`
	PerDogPerDay    *float64 `json:"perDogPerDay,omitempty"`
	PerCatPerDay    *float64 `json:"perCatPerDay,omitempty"`
	PerAnimalPerDay *float64 `json:"perAnimalPerDay,omitempty"`

	PerPerson    *float64 `json:"perPerson,omitempty"`
	PerHousehold *float64 `json:"perHousehold,omitempty"`
	PerFamily    *float64 `json:"perFamily,omitempty"`

	ThresholdDuration *float64 `json:"thresholdDuration,omitempty"`
	SharedAmong       *float64 `json:"sharedAmong,omitempty"`

	Nutrition
}

// Nutrition holds per-unit nutrient values. Absent values are 0.
type Nutrition struct {
	CaloriesPerUnit float64 `json:"caloriesPerUnit,omitempty"`
	ProteinPerUnit  float64 `json:"proteinPerUnit,omitempty"`
	FatPerUnit      float64 `json:"fatPerUnit,omitempty"`
	CarbsPerUnit    float64 `json:"carbsPerUnit,omitempty"`
}

// Rate returns the catalog value of a field and whether it is present.
func (d ItemDefinition) Rate(f RateField) (float64, bool) {
	p := d.ratePtr(f)
	if p == nil {
		return 0, false
	}
	return *p, true
}

func (d ItemDefinition) ratePtr(f RateField) *float64 {
	switch f {
	case FieldPerAdultPerDay:
		return d.PerAdultPerDay
	case FieldPerChildPerDay:
		return d.PerChildPerDay
	case FieldPerPersonPerDay:
		return d.PerPersonPerDay
	case FieldPerDogPerDay:
		return d.PerDogPerDay
	case FieldPerCatPerDay:
		return d.PerCatPerDay
	case FieldPerAnimalPerDay:
		return d.PerAnimalPerDay
	case FieldPerPerson:
		return d.PerPerson
	case FieldPerHousehold:
		return d.PerHousehold
	case FieldPerFamily:
		return d.PerFamily
	case FieldThresholdDuration:
		return d.ThresholdDuration
	case FieldSharedAmong:
		return d.SharedAmong
	default:
		return nil
	}
}

// Qty returns a pointer to v, for building item definitions in code.
func Qty(v float64) *float64 { return &v }

// Category is a named group of item definitions.
type Category struct {
	Key   string           `json:"key"`
	Name  string           `json:"name"`
	Items []ItemDefinition `json:"items"`
}

// CategorySummary is a lightweight view of a category for listing.
type CategorySummary struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	ItemCount int    `json:"itemCount"`
}

// Group bundles category keys under one selectable name.
type Group struct {
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Catalog is an immutable set of categories. Build it with NewCatalog;
// the zero value is an empty catalog.
type Catalog struct {
	keys       []string
	categories map[string]Category
}

// NewCatalog builds a catalog from categories in the given order. A later
// category with a duplicate key replaces the earlier one in place.
func NewCatalog(categories ...Category) *Catalog {
	c := &Catalog{categories: make(map[string]Category, len(categories))}
	for _, cat := range categories {
		if _, ok := c.categories[cat.Key]; !ok {
			c.keys = append(c.keys, cat.Key)
		}
		items := make([]ItemDefinition, len(cat.Items))
		copy(items, cat.Items)
		cat.Items = items
		c.categories[cat.Key] = cat
	}
	return c
}

// Category returns the category stored under key.
func (c *Catalog) Category(key string) (Category, bool) {
	if c == nil {
		return Category{}, false
	}
	cat, ok := c.categories[key]
	return cat, ok
}

// Keys returns category keys in declaration order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Summaries lists every category in declaration order.
func (c *Catalog) Summaries() []CategorySummary {
	if c == nil {
		return nil
	}
	out := make([]CategorySummary, 0, len(c.keys))
	for _, k := range c.keys {
		cat := c.categories[k]
		out = append(out, CategorySummary{Key: k, Name: cat.Name, ItemCount: len(cat.Items)})
	}
	return out
}

// Item returns the first item with the given name, scanning categories
// in declaration order.
func (c *Catalog) Item(name string) (ItemDefinition, bool) {
	if c == nil {
		return ItemDefinition{}, false
	}
	for _, k := range c.keys {
		for _, it := range c.categories[k].Items {
			if it.Name == name {
				return it, true
			}
		}
	}
	return ItemDefinition{}, false
}
