package domain

import (
	"fmt"
	"math"
)

// RateField names one of the rate fields an item definition can carry.
// Overrides are keyed by item name and RateField.
type RateField int

const (
	FieldUnknown RateField = iota
	FieldPerAdultPerDay
	FieldPerChildPerDay
	FieldPerPersonPerDay
	FieldPerDogPerDay
	FieldPerCatPerDay
	FieldPerAnimalPerDay
	FieldPerPerson    // flat, added to adult and child totals
	FieldPerHousehold // flat, not multiplied by count
	FieldPerFamily    // flat, not multiplied by count
	FieldThresholdDuration
	FieldSharedAmong
)

// RateFields lists every known field in declaration order.
var RateFields = []RateField{
	FieldPerAdultPerDay,
	FieldPerChildPerDay,
	FieldPerPersonPerDay,
	FieldPerDogPerDay,
	FieldPerCatPerDay,
	FieldPerAnimalPerDay,
	FieldPerPerson,
	FieldPerHousehold,
	FieldPerFamily,
	FieldThresholdDuration,
	FieldSharedAmong,
}

// String returns the catalog name of the field.
func (f RateField) String() string {
	switch f {
	case FieldPerAdultPerDay:
		return "perAdultPerDay"
	case FieldPerChildPerDay:
		return "perChildPerDay"
	case FieldPerPersonPerDay:
		return "perPersonPerDay"
	case FieldPerDogPerDay:
		return "perDogPerDay"
	case FieldPerCatPerDay:
		return "perCatPerDay"
	case FieldPerAnimalPerDay:
		return "perAnimalPerDay"
	case FieldPerPerson:
		return "perPerson"
	case FieldPerHousehold:
		return "perHousehold"
	case FieldPerFamily:
		return "perFamily"
	case FieldThresholdDuration:
		return "thresholdDuration"
	case FieldSharedAmong:
		return "sharedAmong"
	default:
		return "unknown"
	}
}

// Daily reports whether the field is a per-individual-per-day rate.
func (f RateField) Daily() bool {
	switch f {
	case FieldPerAdultPerDay, FieldPerChildPerDay, FieldPerPersonPerDay,
		FieldPerDogPerDay, FieldPerCatPerDay, FieldPerAnimalPerDay:
		return true
	}
	return false
}

var rateFieldNames = map[string]RateField{
	"perAdultPerDay":    FieldPerAdultPerDay,
	"perChildPerDay":    FieldPerChildPerDay,
	"perPersonPerDay":   FieldPerPersonPerDay,
	"perDogPerDay":      FieldPerDogPerDay,
	"perCatPerDay":      FieldPerCatPerDay,
	"perAnimalPerDay":   FieldPerAnimalPerDay,
	"perPerson":         FieldPerPerson,
	"perHousehold":      FieldPerHousehold,
	"perFamily":         FieldPerFamily,
	"thresholdDuration": FieldThresholdDuration,
	"sharedAmong":       FieldSharedAmong,
}

// RateFieldFromString converts a catalog field name to a RateField.
// Returns FieldUnknown for unrecognized names.
func RateFieldFromString(name string) RateField {
	if f, ok := rateFieldNames[name]; ok {
		return f
	}
	return FieldUnknown
}

// Class is one of the four individual classes rates are scaled by.
type Class int

const (
	ClassAdult Class = iota
	ClassChild
	ClassDog
	ClassCat
)

// Classes lists the individual classes in a fixed order.
var Classes = []Class{ClassAdult, ClassChild, ClassDog, ClassCat}

// String returns a human-readable class name.
func (c Class) String() string {
	switch c {
	case ClassAdult:
		return "adult"
	case ClassChild:
		return "child"
	case ClassDog:
		return "dog"
	case ClassCat:
		return "cat"
	default:
		return "unknown"
	}
}

// ValidateOverride checks that a user-supplied value may be stored for
// field. Rates are finite and non-negative; sharedAmong is at least 1.
func ValidateOverride(field RateField, value float64) error {
	if field == FieldUnknown {
		return ErrUnknownField
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return fmt.Errorf("%s=%v: %w", field, value, ErrInvalidValue)
	}
	if field == FieldSharedAmong && value < 1 {
		return fmt.Errorf("%s must be at least 1: %w", field, ErrInvalidValue)
	}
	return nil
}
