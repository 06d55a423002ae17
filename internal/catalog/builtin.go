package catalog

import "github.com/hammamikhairi/stockpile/internal/domain"

var q = domain.Qty

// Builtin returns the default catalog. Rates are per individual per day
// unless the field says otherwise.
func Builtin() *domain.Catalog {
	return domain.NewCatalog(
		domain.Category{
			Key:  "water",
			Name: "Water",
			Items: []domain.ItemDefinition{
				{Name: "Water", PerAdultPerDay: q(1), PerChildPerDay: q(0.5), PerDogPerDay: q(1), PerCatPerDay: q(0.5), Unit: "gallons"},
			},
		},
		domain.Category{
			Key:  "food",
			Name: "Food",
			Items: []domain.ItemDefinition{
				{
					Name: "Rice (lbs)", PerAdultPerDay: q(0.625), PerChildPerDay: q(0.3), Unit: "lbs",
					Nutrition: domain.Nutrition{CaloriesPerUnit: 1600, ProteinPerUnit: 30, FatPerUnit: 1, CarbsPerUnit: 350},
				},
				{
					Name: "Canned Meat (cans)", PerAdultPerDay: q(0.875), PerChildPerDay: q(0.4), Unit: "cans",
					Nutrition: domain.Nutrition{CaloriesPerUnit: 400, ProteinPerUnit: 20, FatPerUnit: 25, CarbsPerUnit: 10},
				},
				{
					Name: "Dog Food (lbs)", PerDogPerDay: q(2.5), Unit: "lbs",
					Nutrition: domain.Nutrition{CaloriesPerUnit: 350, ProteinPerUnit: 10, FatPerUnit: 15, CarbsPerUnit: 30},
				},
				{
					Name: "Cat Food (lbs)", PerCatPerDay: q(0.5), Unit: "lbs",
					Nutrition: domain.Nutrition{CaloriesPerUnit: 300, ProteinPerUnit: 30, FatPerUnit: 10, CarbsPerUnit: 15},
				},
			},
		},
		domain.Category{
			Key:  domain.NutritionCategory,
			Name: "Nutrition",
			Items: []domain.ItemDefinition{
				{Name: "Calories", PerAdultPerDay: q(2000), PerChildPerDay: q(1500), PerDogPerDay: q(700), PerCatPerDay: q(250), Unit: "kcal"},
				{Name: "Protein", PerAdultPerDay: q(50), PerChildPerDay: q(30), PerDogPerDay: q(10), PerCatPerDay: q(30), Unit: "g"},
				{Name: "Fat", PerAdultPerDay: q(70), PerChildPerDay: q(40), PerDogPerDay: q(15), PerCatPerDay: q(10), Unit: "g"},
				{Name: "Carbohydrates", PerAdultPerDay: q(300), PerChildPerDay: q(200), PerDogPerDay: q(30), PerCatPerDay: q(15), Unit: "g"},
			},
		},
		domain.Category{
			Key:  "medical",
			Name: "Medical Supplies",
			Items: []domain.ItemDefinition{
				// One kit per individual every 30 days.
				{Name: "Basic First-Aid Kit", PerPersonPerDay: q(1.0 / 30), Unit: "kits"},
				{Name: "Pet First Aid Kit", PerDogPerDay: q(1.0 / 30), PerCatPerDay: q(1.0 / 30), Unit: "kits"},
			},
		},
		domain.Category{
			Key:  "hygiene",
			Name: "Sanitation & Hygiene",
			Items: []domain.ItemDefinition{
				{Name: "Toilet Paper (rolls)", PerPersonPerDay: q(0.2), Unit: "rolls"},
			},
		},
		domain.Category{
			Key:  "communication",
			Name: "Communication",
			Items: []domain.ItemDefinition{
				{Name: "Battery-powered Radio", PerHousehold: q(1), Unit: "units"},
			},
		},
		domain.Category{
			Key:  "shelter",
			Name: "Shelter",
			Items: []domain.ItemDefinition{
				{Name: "Tent", PerFamily: q(1), Unit: "units"},
			},
		},
		domain.Category{
			Key:  "tools",
			Name: "Tools & Equipment",
			Items: []domain.ItemDefinition{
				{Name: "Multi-tool", PerPerson: q(1), Unit: "units"},
			},
		},
		domain.Category{
			Key:  "power",
			Name: "Power & Energy",
			Items: []domain.ItemDefinition{
				{Name: "Batteries (AA)", PerPersonPerDay: q(2), Unit: "units"},
			},
		},
		domain.Category{
			Key:  "cooking",
			Name: "Cooking and Heating",
			Items: []domain.ItemDefinition{
				{Name: "Portable Stove", PerHousehold: q(1), Unit: "units"},
			},
		},
		domain.Category{
			Key:  "security",
			Name: "Personal Security",
			Items: []domain.ItemDefinition{
				{Name: "Pepper Spray", PerPerson: q(1), Unit: "units"},
			},
		},
	)
}

// BuiltinGroups returns the default category groups.
func BuiltinGroups() []domain.Group {
	return []domain.Group{
		{Key: "critical", Name: "Critical Supplies", Categories: []string{"water", domain.NutritionCategory}},
		{Key: "essential", Name: "Essential Supplies", Categories: []string{"food", "medical"}},
		{Key: "comfort", Name: "Comfort Supplies", Categories: []string{"hygiene", "communication", "shelter", "tools"}},
		{Key: "powerAndSecurity", Name: "Power & Security", Categories: []string{"power", "security"}},
		{Key: "cookingAndGear", Name: "Cooking & Gear", Categories: []string{"cooking", "gear"}},
	}
}
