package engine

import (
	"reflect"
	"testing"

	"github.com/hammamikhairi/stockpile/internal/catalog"
	"github.com/hammamikhairi/stockpile/internal/domain"
)

var q = domain.Qty

func oneCategory(key string, items ...domain.ItemDefinition) *domain.Catalog {
	return domain.NewCatalog(domain.Category{Key: key, Name: key, Items: items})
}

func expandOne(t *testing.T, h domain.Household, def domain.ItemDefinition, overrides domain.Overrides) domain.ExpandedItem {
	t.Helper()
	items, _ := Expand(h, []string{"test"}, oneCategory("test", def), NewResolver(overrides))
	if len(items) != 1 {
		t.Fatalf("expected 1 expanded item, got %d", len(items))
	}
	return items[0]
}

func TestResolve(t *testing.T) {
	item := domain.ItemDefinition{Name: "Water", PerAdultPerDay: q(1)}

	tests := []struct {
		name      string
		overrides domain.Overrides
		field     domain.RateField
		want      float64
		wantOK    bool
	}{
		{"catalog value", nil, domain.FieldPerAdultPerDay, 1, true},
		{"override wins", domain.Overrides{"Water": {domain.FieldPerAdultPerDay: 2}}, domain.FieldPerAdultPerDay, 2, true},
		{"zero override honored", domain.Overrides{"Water": {domain.FieldPerAdultPerDay: 0}}, domain.FieldPerAdultPerDay, 0, true},
		{"override defines absent field", domain.Overrides{"Water": {domain.FieldPerDogPerDay: 3}}, domain.FieldPerDogPerDay, 3, true},
		{"absent field", nil, domain.FieldPerDogPerDay, 0, false},
		{"other item override ignored", domain.Overrides{"Tent": {domain.FieldPerAdultPerDay: 9}}, domain.FieldPerAdultPerDay, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewResolver(tt.overrides).Resolve(item, tt.field)
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("expected (%v, %v), got (%v, %v)", tt.want, tt.wantOK, got, ok)
			}
		})
	}

	// Unknown item names fall through to the definition.
	unknown := domain.ItemDefinition{Name: "Nope"}
	if _, ok := NewResolver(nil).Resolve(unknown, domain.FieldPerAdultPerDay); ok {
		t.Fatal("expected undefined for unknown item")
	}
}

func TestDailyRateTable(t *testing.T) {
	tests := []struct {
		name  string
		def   domain.ItemDefinition
		class domain.Class
		want  float64
	}{
		{"adult specific", domain.ItemDefinition{PerAdultPerDay: q(2), PerPersonPerDay: q(5)}, domain.ClassAdult, 2},
		{"adult falls back to person", domain.ItemDefinition{PerPersonPerDay: q(5)}, domain.ClassAdult, 5},
		{"child specific", domain.ItemDefinition{PerChildPerDay: q(1), PerPersonPerDay: q(5)}, domain.ClassChild, 1},
		{"child falls back to person", domain.ItemDefinition{PerPersonPerDay: q(5)}, domain.ClassChild, 5},
		{"explicit zero beats fallback", domain.ItemDefinition{PerChildPerDay: q(0), PerPersonPerDay: q(5)}, domain.ClassChild, 0},
		{"dog specific", domain.ItemDefinition{PerDogPerDay: q(3), PerAnimalPerDay: q(7)}, domain.ClassDog, 3},
		{"dog falls back to animal", domain.ItemDefinition{PerAnimalPerDay: q(7)}, domain.ClassDog, 7},
		{"cat falls back to animal", domain.ItemDefinition{PerAnimalPerDay: q(7)}, domain.ClassCat, 7},
		{"person rate not used for animals", domain.ItemDefinition{PerPersonPerDay: q(5)}, domain.ClassDog, 0},
		{"nothing defined", domain.ItemDefinition{}, domain.ClassCat, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewResolver(nil).DailyRate(tt.def, tt.class); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestExpandThreshold(t *testing.T) {
	def := domain.ItemDefinition{Name: "Radio", PerHousehold: q(1), PerFamily: q(2), ThresholdDuration: q(7)}

	tests := []struct {
		duration      int
		wantHousehold float64
		wantFamily    float64
	}{
		{6, 0, 0},
		{7, 1, 2},
		{8, 1, 2},
	}
	for _, tt := range tests {
		got := expandOne(t, domain.Household{Adults: 1, Duration: tt.duration}, def, nil)
		if got.PerHousehold != tt.wantHousehold || got.PerFamily != tt.wantFamily {
			t.Fatalf("duration %d: expected household=%v family=%v, got %v/%v",
				tt.duration, tt.wantHousehold, tt.wantFamily, got.PerHousehold, got.PerFamily)
		}
	}
}

func TestExpandSharing(t *testing.T) {
	tests := []struct {
		name      string
		family    *float64
		household *float64
		shared    *float64
		want      float64
		wantHouse float64
	}{
		{"one among three", q(1), nil, q(3), 1, 0},
		{"seven among three", q(7), q(6), q(3), 3, 2},
		{"not shared", q(7), nil, nil, 7, 0},
		{"shared among one", q(7), nil, q(1), 7, 0},
		{"zero stays zero", q(0), q(0), q(4), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := domain.ItemDefinition{Name: "Tent", PerFamily: tt.family, PerHousehold: tt.household, SharedAmong: tt.shared}
			got := expandOne(t, domain.Household{Adults: 2, Duration: 1}, def, nil)
			if got.PerFamily != tt.want || got.PerHousehold != tt.wantHouse {
				t.Fatalf("expected family=%v household=%v, got %v/%v", tt.want, tt.wantHouse, got.PerFamily, got.PerHousehold)
			}
		})
	}
}

func TestExpandThresholdBeforeSharing(t *testing.T) {
	def := domain.ItemDefinition{Name: "Stove", PerHousehold: q(5), ThresholdDuration: q(10), SharedAmong: q(2)}

	if got := expandOne(t, domain.Household{Duration: 9}, def, nil); got.PerHousehold != 0 {
		t.Fatalf("expected 0 below threshold, got %v", got.PerHousehold)
	}
	if got := expandOne(t, domain.Household{Duration: 10}, def, nil); got.PerHousehold != 3 {
		t.Fatalf("expected ceil(5/2)=3, got %v", got.PerHousehold)
	}
}

func TestExpandPerPerson(t *testing.T) {
	def := domain.ItemDefinition{Name: "Multi-tool", PerPerson: q(1), PerAdultPerDay: q(0.5), PerDogPerDay: q(1), Unit: "units"}
	got := expandOne(t, domain.Household{Adults: 1, Children: 1, Dogs: 1, Duration: 4}, def, nil)

	// perPerson is flat: added once, not scaled by duration, never to animals.
	if got.PerAdult != 3 {
		t.Fatalf("expected perAdult 0.5*4+1=3, got %v", got.PerAdult)
	}
	if got.PerChild != 1 {
		t.Fatalf("expected perChild 1, got %v", got.PerChild)
	}
	if got.PerDog != 4 {
		t.Fatalf("expected perDog 4, got %v", got.PerDog)
	}
	if got.Unit != "units" {
		t.Fatalf("expected unit carried, got %q", got.Unit)
	}
}

func TestExpandBareItemAndUnknownCategory(t *testing.T) {
	c := domain.NewCatalog(
		domain.Category{Key: "misc", Items: []domain.ItemDefinition{{Name: "Mystery"}}},
	)
	items, _ := Expand(domain.Household{Adults: 3, Duration: 5}, []string{"missing", "misc", "misc"}, c, NewResolver(nil))

	if len(items) != 1 {
		t.Fatalf("expected 1 item (unknown skipped, duplicate once), got %d", len(items))
	}
	if items[0].Quantities != (domain.Quantities{}) {
		t.Fatalf("expected all-zero quantities, got %+v", items[0].Quantities)
	}
}

func TestExpandAppliesOverrides(t *testing.T) {
	def := domain.ItemDefinition{Name: "Water", PerAdultPerDay: q(1)}
	h := domain.Household{Adults: 1, Duration: 3}

	if got := expandOne(t, h, def, nil); got.PerAdult != 3 {
		t.Fatalf("expected catalog rate, got %v", got.PerAdult)
	}
	overrides := domain.Overrides{"Water": {domain.FieldPerAdultPerDay: 2}}
	if got := expandOne(t, h, def, overrides); got.PerAdult != 6 {
		t.Fatalf("expected overridden rate, got %v", got.PerAdult)
	}
	// Overriding the fallback field does not beat a defined specific field.
	overrides = domain.Overrides{"Water": {domain.FieldPerPersonPerDay: 10}}
	if got := expandOne(t, h, def, overrides); got.PerAdult != 3 {
		t.Fatalf("expected specific field to win, got %v", got.PerAdult)
	}
}

func TestConsolidate(t *testing.T) {
	items := []domain.ExpandedItem{
		{Name: "Water", Unit: "gallons", Quantities: domain.Quantities{PerAdult: 1, PerHousehold: 1}, Nutrition: domain.Nutrition{CaloriesPerUnit: 0}},
		{Name: "Rice", Unit: "lbs", Quantities: domain.Quantities{PerAdult: 2}, Nutrition: domain.Nutrition{CaloriesPerUnit: 1600}},
		{Name: "Water", Unit: "liters", Quantities: domain.Quantities{PerAdult: 0.5, PerChild: 2, PerFamily: 3}},
		{Name: "Rice", Unit: "kg", Quantities: domain.Quantities{PerDog: 1, PerCat: 4}, Nutrition: domain.Nutrition{CaloriesPerUnit: 9}},
	}

	got := Consolidate(items)
	if len(got) != 2 {
		t.Fatalf("expected 2 consolidated items, got %d", len(got))
	}

	water, rice := got[0], got[1]
	if water.Name != "Water" || rice.Name != "Rice" {
		t.Fatalf("expected first-occurrence order [Water Rice], got [%s %s]", water.Name, rice.Name)
	}

	wantWater := domain.Quantities{PerAdult: 1.5, PerChild: 2, PerHousehold: 1, PerFamily: 3}
	if water.Quantities != wantWater {
		t.Fatalf("water: expected %+v, got %+v", wantWater, water.Quantities)
	}
	wantRice := domain.Quantities{PerAdult: 2, PerDog: 1, PerCat: 4}
	if rice.Quantities != wantRice {
		t.Fatalf("rice: expected %+v, got %+v", wantRice, rice.Quantities)
	}

	// First occurrence wins for non-summed fields.
	if water.Unit != "gallons" || rice.Unit != "lbs" {
		t.Fatalf("expected first units, got %q/%q", water.Unit, rice.Unit)
	}
	if rice.CaloriesPerUnit != 1600 {
		t.Fatalf("expected first nutrition, got %v", rice.CaloriesPerUnit)
	}
}

func TestConsolidateAcrossCategories(t *testing.T) {
	c := domain.NewCatalog(
		domain.Category{Key: "a", Items: []domain.ItemDefinition{{Name: "Water", PerAdultPerDay: q(1)}}},
		domain.Category{Key: "b", Items: []domain.ItemDefinition{{Name: "Water", PerAdultPerDay: q(0.5)}}},
	)
	res := Calculate(domain.Household{Adults: 1, Duration: 1}, []string{"a", "b"}, c, nil)

	if len(res.SupplyList) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(res.SupplyList))
	}
	if got := res.SupplyList[0].PerAdult; got != 1.5 {
		t.Fatalf("expected perAdult 1.5, got %v", got)
	}
}

func TestTotalize(t *testing.T) {
	items := []domain.ConsolidatedItem{{
		Name:       "Kit",
		Quantities: domain.Quantities{PerAdult: 3, PerChild: 1.5, PerHousehold: 1},
	}}
	got := Totalize(items, domain.Household{Adults: 2, Children: 2})

	if got[0].Total != 10 {
		t.Fatalf("expected total 10, got %v", got[0].Total)
	}
	if got[0].Name != "Kit" {
		t.Fatalf("expected entry to carry item, got %+v", got[0])
	}
}

func TestZeroCountClasses(t *testing.T) {
	c := oneCategory("x", domain.ItemDefinition{Name: "Snack", PerAdultPerDay: q(1), PerChildPerDay: q(100)})
	res := Calculate(domain.Household{Adults: 2, Children: 0, Duration: 2}, []string{"x"}, c, nil)

	entry := res.SupplyList[0]
	if entry.PerChild != 200 {
		t.Fatalf("expected per-child quantity still reported, got %v", entry.PerChild)
	}
	if entry.Total != 4 {
		t.Fatalf("expected children to contribute nothing (total 4), got %v", entry.Total)
	}
}

func TestNutritionScenario(t *testing.T) {
	c := oneCategory(domain.NutritionCategory,
		domain.ItemDefinition{Name: NutrientCalories, PerAdultPerDay: q(2000), Unit: "kcal"},
	)
	res := Calculate(domain.Household{Adults: 2, Duration: 3}, []string{domain.NutritionCategory}, c, nil)

	if res.TotalNutrition.Calories != 12000 {
		t.Fatalf("expected 12000 calories, got %v", res.TotalNutrition.Calories)
	}
	if res.SupplyList[0].PerAdult != 6000 {
		t.Fatalf("expected perAdult 6000, got %v", res.SupplyList[0].PerAdult)
	}
}

func TestNutritionDispatch(t *testing.T) {
	c := domain.NewCatalog(
		domain.Category{Key: domain.NutritionCategory, Items: []domain.ItemDefinition{
			{Name: NutrientCalories, PerAdultPerDay: q(10)},
			{Name: NutrientProtein, PerChildPerDay: q(2)},
			{Name: NutrientFat, PerDogPerDay: q(3)},
			{Name: NutrientCarbohydrates, PerCatPerDay: q(4)},
			{Name: "Fiber", PerAdultPerDay: q(1000)},
			{Name: "calories", PerAdultPerDay: q(1000)},
			{Name: NutrientCalories, PerAdultPerDay: q(1)},
		}},
		// Same names outside the nutrition category do not count.
		domain.Category{Key: "food", Items: []domain.ItemDefinition{
			{Name: NutrientCalories, PerAdultPerDay: q(5000)},
		}},
	)
	h := domain.Household{Adults: 1, Children: 1, Dogs: 1, Cats: 1, Duration: 2}
	res := Calculate(h, []string{domain.NutritionCategory, "food"}, c, nil)

	want := domain.NutritionTotals{Calories: 22, Protein: 4, Fat: 6, Carbs: 8}
	if res.TotalNutrition != want {
		t.Fatalf("expected %+v, got %+v", want, res.TotalNutrition)
	}
}

func TestNutritionIgnoresPerPerson(t *testing.T) {
	c := oneCategory(domain.NutritionCategory,
		domain.ItemDefinition{Name: NutrientProtein, PerAdultPerDay: q(10), PerPerson: q(100)},
	)
	res := Calculate(domain.Household{Adults: 1, Duration: 1}, []string{domain.NutritionCategory}, c, nil)

	if res.TotalNutrition.Protein != 10 {
		t.Fatalf("expected perPerson excluded from nutrition, got %v", res.TotalNutrition.Protein)
	}
	if res.SupplyList[0].Total != 110 {
		t.Fatalf("expected perPerson in supply total, got %v", res.SupplyList[0].Total)
	}
}

func TestCalculateIdempotent(t *testing.T) {
	c := catalog.Builtin()
	h := domain.Household{Adults: 2, Children: 3, Dogs: 1, Cats: 2, Duration: 14}
	overrides := domain.Overrides{"Water": {domain.FieldPerAdultPerDay: 1.25}}

	first := Calculate(h, c.Keys(), c, overrides)
	second := Calculate(h, c.Keys(), c, overrides)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different results")
	}
}

func TestDurationMonotonic(t *testing.T) {
	c := domain.NewCatalog(append(
		[]domain.Category{{Key: "extra", Items: []domain.ItemDefinition{
			{Name: "Generator", PerHousehold: q(1), ThresholdDuration: q(10), PerAdultPerDay: q(0.1)},
			{Name: "Cots", PerFamily: q(5), SharedAmong: q(2), PerPersonPerDay: q(0.01)},
		}}},
		builtinCategories()...,
	)...)
	h := domain.Household{Adults: 2, Children: 1, Dogs: 1, Cats: 1}

	prev := map[string]float64{}
	for d := 1; d <= 60; d++ {
		h.Duration = d
		res := Calculate(h, c.Keys(), c, nil)
		for _, e := range res.SupplyList {
			if e.Total < prev[e.Name] {
				t.Fatalf("%s: total dropped from %v to %v at duration %d", e.Name, prev[e.Name], e.Total, d)
			}
			prev[e.Name] = e.Total
		}
	}
}

func TestBuiltinCatalogPlan(t *testing.T) {
	c := catalog.Builtin()
	h := domain.Household{Adults: 2, Children: 1, Dogs: 1, Cats: 0, Duration: 3}
	res := Calculate(h, c.Keys(), c, nil)

	totals := map[string]float64{}
	for _, e := range res.SupplyList {
		totals[e.Name] = e.Total
	}

	tests := []struct {
		name string
		want float64
	}{
		{"Water", 1*3*2 + 0.5*3*1 + 1*3*1},
		{"Battery-powered Radio", 1},
		{"Tent", 1},
		{"Multi-tool", 3},
		{"Pepper Spray", 3},
		{"Dog Food (lbs)", 7.5},
		{"Cat Food (lbs)", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := totals[tt.name]
			if !ok {
				t.Fatalf("%s missing from supply list", tt.name)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}

	wantCalories := float64(2000*3*2 + 1500*3*1 + 700*3*1)
	if res.TotalNutrition.Calories != wantCalories {
		t.Fatalf("expected %v calories, got %v", wantCalories, res.TotalNutrition.Calories)
	}
}

func builtinCategories() []domain.Category {
	c := catalog.Builtin()
	var out []domain.Category
	for _, k := range c.Keys() {
		cat, _ := c.Category(k)
		out = append(out, cat)
	}
	return out
}

func TestAccumulateNutrition(t *testing.T) {
	h := domain.Household{Adults: 2, Children: 1, Duration: 1}

	tests := []struct {
		name  string
		lines []NutrientLine
		want  domain.NutritionTotals
	}{
		{"empty", nil, domain.NutritionTotals{}},
		{"scaled by household", []NutrientLine{
			{Name: NutrientCalories, PerClass: domain.Quantities{PerAdult: 100, PerChild: 50}},
		}, domain.NutritionTotals{Calories: 250}},
		{"repeats add up", []NutrientLine{
			{Name: NutrientFat, PerClass: domain.Quantities{PerAdult: 1}},
			{Name: NutrientFat, PerClass: domain.Quantities{PerAdult: 2}},
		}, domain.NutritionTotals{Fat: 6}},
		{"flat amounts and other names ignored", []NutrientLine{
			{Name: NutrientCarbohydrates, PerClass: domain.Quantities{PerChild: 3, PerHousehold: 40, PerFamily: 7}},
			{Name: "Sodium", PerClass: domain.Quantities{PerAdult: 9}},
		}, domain.NutritionTotals{Carbs: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AccumulateNutrition(h, tt.lines); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
