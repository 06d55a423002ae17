package domain

import "testing"

func TestHouseholdClamped(t *testing.T) {
	tests := []struct {
		name string
		in   Household
		want Household
	}{
		{"valid", Household{Adults: 2, Children: 1, Duration: 3}, Household{Adults: 2, Children: 1, Duration: 3}},
		{"negatives", Household{Adults: -1, Children: -2, Dogs: -3, Cats: -4, Duration: -5}, Household{Duration: 1}},
		{"zero duration", Household{Cats: 1}, Household{Cats: 1, Duration: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamped(); got != tt.want {
				t.Fatalf("Clamped() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHouseholdCount(t *testing.T) {
	h := Household{Adults: 1, Children: 2, Dogs: 3, Cats: 4}
	for i, c := range Classes {
		if got := h.Count(c); got != i+1 {
			t.Errorf("Count(%s) = %d, want %d", c, got, i+1)
		}
	}
	if h.Count(Class(99)) != 0 {
		t.Error("unknown class counted")
	}
}

func TestOverrides(t *testing.T) {
	o := Overrides{}
	if _, ok := o.Get("Water", FieldPerAdultPerDay); ok {
		t.Fatal("empty overrides returned a value")
	}

	o.Set("Tent", FieldPerFamily, 0)
	o.Set("Tent", FieldSharedAmong, 2)
	if v, ok := o.Get("Tent", FieldPerFamily); !ok || v != 0 {
		t.Fatalf("expected stored zero, got (%v, %v)", v, ok)
	}
	if _, ok := o.Get("Tent", FieldPerHousehold); ok {
		t.Fatal("unset field returned a value")
	}

	cp := o.Clone()
	cp.Set("Tent", FieldSharedAmong, 5)
	cp.Set("Water", FieldPerAdultPerDay, 3)
	if v, _ := o.Get("Tent", FieldSharedAmong); v != 2 {
		t.Fatalf("clone shares inner maps: original now %v", v)
	}
	if _, ok := o.Get("Water", FieldPerAdultPerDay); ok {
		t.Fatal("clone shares the outer map")
	}

	var none Overrides
	if _, ok := none.Get("Tent", FieldPerFamily); ok {
		t.Fatal("nil overrides returned a value")
	}
	if got := none.Clone(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil clone, got %v", got)
	}
}
