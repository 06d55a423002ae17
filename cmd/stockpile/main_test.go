package main

import (
	"errors"
	"testing"

	"github.com/hammamikhairi/stockpile/internal/domain"
	"github.com/hammamikhairi/stockpile/internal/input"
	"github.com/hammamikhairi/stockpile/internal/logger"
)

func TestParseFieldRef(t *testing.T) {
	tests := []struct {
		ref       string
		wantItem  string
		wantField domain.RateField
		wantErr   error
	}{
		{"Water.perAdultPerDay", "Water", domain.FieldPerAdultPerDay, nil},
		{"Basic First-Aid Kit.perPersonPerDay", "Basic First-Aid Kit", domain.FieldPerPersonPerDay, nil},
		{"Tent.sharedAmong", "Tent", domain.FieldSharedAmong, nil},
		{"Water.perGoatPerDay", "", domain.FieldUnknown, domain.ErrUnknownField},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			item, field, err := parseFieldRef(tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if item != tt.wantItem || field != tt.wantField {
				t.Fatalf("got (%q, %s), want (%q, %s)", item, field, tt.wantItem, tt.wantField)
			}
		})
	}

	for _, bad := range []string{"Water", ".perAdultPerDay", "Water."} {
		if _, _, err := parseFieldRef(bad); err == nil {
			t.Errorf("parseFieldRef(%q): expected error", bad)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" water, critical,,tools ")
	want := []string{"water", "critical", "tools"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if splitList("") != nil {
		t.Fatal("expected nil for empty list")
	}
}

func TestBuildHousehold(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := input.NewParser(log)

	tests := []struct {
		name        string
		text        string
		adults      int
		dogs        int
		duration    string
		durationSet bool
		want        domain.Household
	}{
		{"counts", "", 2, 1, "2 weeks", true, domain.Household{Adults: 2, Dogs: 1, Duration: 14}},
		{"counts default duration", "", 0, 2, "1", false, domain.Household{Dogs: 2, Duration: 1}},
		{"text wins over counts", "3 adults for 2 days", 1, 0, "1", false, domain.Household{Adults: 3, Duration: 2}},
		{"text clause wins over flag", "3 adults for 2 days", 0, 0, "3 weeks", true, domain.Household{Adults: 3, Duration: 2}},
		{"flag fills missing clause", "2 adults", 0, 0, "3 weeks", true, domain.Household{Adults: 2, Duration: 21}},
		{"unset flag leaves text alone", "2 adults", 0, 0, "3 weeks", false, domain.Household{Adults: 2, Duration: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := buildHousehold(parser, tt.text, tt.adults, 0, tt.dogs, 0, tt.duration, tt.durationSet, log)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if h != tt.want {
				t.Fatalf("got %+v, want %+v", h, tt.want)
			}
		})
	}

	if _, err := buildHousehold(parser, "", 1, 0, 0, 0, "forever", true, log); !errors.Is(err, domain.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if _, err := buildHousehold(parser, "2 adults", 0, 0, 0, 0, "forever", true, log); !errors.Is(err, domain.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration for text with a bad flag, got %v", err)
	}
}
