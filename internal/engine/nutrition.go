package engine

import "github.com/hammamikhairi/stockpile/internal/domain"

// Item names routed into NutritionTotals.
const (
	NutrientCalories      = "Calories"
	NutrientProtein       = "Protein"
	NutrientFat           = "Fat"
	NutrientCarbohydrates = "Carbohydrates"
)

// nutrientFields dispatches an item name to the totals field it feeds.
var nutrientFields = map[string]func(*domain.NutritionTotals) *float64{
	NutrientCalories:      func(t *domain.NutritionTotals) *float64 { return &t.Calories },
	NutrientProtein:       func(t *domain.NutritionTotals) *float64 { return &t.Protein },
	NutrientFat:           func(t *domain.NutritionTotals) *float64 { return &t.Fat },
	NutrientCarbohydrates: func(t *domain.NutritionTotals) *float64 { return &t.Carbs },
}

// NutrientLine is one nutrition-category item: its name and its per-class
// duration totals before perPerson is added.
type NutrientLine struct {
	Name     string
	PerClass domain.Quantities
}

// AccumulateNutrition folds nutrient lines into totals for the household.
// Only exact nutrient names count; anything else is ignored.
func AccumulateNutrition(h domain.Household, lines []NutrientLine) domain.NutritionTotals {
	var t domain.NutritionTotals
	for _, l := range lines {
		addNutrient(&t, l.Name, householdQuantity(l.PerClass, h))
	}
	return t
}

func addNutrient(t *domain.NutritionTotals, name string, qty float64) {
	if field, ok := nutrientFields[name]; ok {
		*field(t) += qty
	}
}
