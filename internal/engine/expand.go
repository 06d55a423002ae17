package engine

import (
	"math"

	"github.com/hammamikhairi/stockpile/internal/domain"
)

// Expand turns the items of every selected category into per-class
// duration totals. Selected keys missing from the catalog are skipped and
// a key selected twice is expanded once. Nutrition totals are folded over
// the nutrition category before consolidation, so a nutrient name
// repeated in the catalog is counted once per occurrence.
func Expand(h domain.Household, selected []string, catalog *domain.Catalog, r Resolver) ([]domain.ExpandedItem, domain.NutritionTotals) {
	var (
		out       []domain.ExpandedItem
		nutrients []NutrientLine
		seen      = make(map[string]bool, len(selected))
	)

	for _, key := range selected {
		if seen[key] {
			continue
		}
		seen[key] = true

		cat, ok := catalog.Category(key)
		if !ok {
			continue
		}
		for _, def := range cat.Items {
			item, perClass := expandItem(h, def, r)
			out = append(out, item)
			if key == domain.NutritionCategory {
				nutrients = append(nutrients, NutrientLine{Name: def.Name, PerClass: perClass})
			}
		}
	}
	return out, AccumulateNutrition(h, nutrients)
}

// expandItem expands a single definition. It also returns the per-class
// duration totals before perPerson is folded in.
func expandItem(h domain.Household, def domain.ItemDefinition, r Resolver) (domain.ExpandedItem, domain.Quantities) {
	days := float64(h.Duration)

	daily := domain.Quantities{
		PerAdult: r.DailyRate(def, domain.ClassAdult) * days,
		PerChild: r.DailyRate(def, domain.ClassChild) * days,
		PerDog:   r.DailyRate(def, domain.ClassDog) * days,
		PerCat:   r.DailyRate(def, domain.ClassCat) * days,
	}

	perPerson := r.ValueOr(def, domain.FieldPerPerson, 0)
	perHousehold := r.ValueOr(def, domain.FieldPerHousehold, 0)
	perFamily := r.ValueOr(def, domain.FieldPerFamily, 0)

	// Strictly below the threshold the item is not needed yet.
	if days < r.ValueOr(def, domain.FieldThresholdDuration, 0) {
		perHousehold, perFamily = 0, 0
	}

	if shared := r.ValueOr(def, domain.FieldSharedAmong, 1); shared > 1 {
		perHousehold = shareCeil(perHousehold, shared)
		perFamily = shareCeil(perFamily, shared)
	}

	q := daily
	q.PerAdult += perPerson
	q.PerChild += perPerson
	q.PerHousehold = perHousehold
	q.PerFamily = perFamily

	return domain.ExpandedItem{
		Name:       def.Name,
		Unit:       def.Unit,
		Quantities: q,
		Nutrition:  def.Nutrition,
	}, daily
}

// shareCeil splits v among n holders, rounding up. Non-positive values
// become 0.
func shareCeil(v, n float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Ceil(v / n)
}
