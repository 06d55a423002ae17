// Package input turns free-form user text into engine inputs: durations
// such as "3 weeks" and household descriptions such as
// "2 adults, 1 child and a dog for 10 days".
package input

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/stockpile/internal/domain"
	"github.com/hammamikhairi/stockpile/internal/logger"
)

// TimeUnit is the unit a duration was entered in.
type TimeUnit int

const (
	UnitDays TimeUnit = iota
	UnitHours
	UnitWeeks
	UnitMonths
	UnitYears
)

// String returns a human-readable unit name.
func (u TimeUnit) String() string {
	switch u {
	case UnitHours:
		return "hours"
	case UnitDays:
		return "days"
	case UnitWeeks:
		return "weeks"
	case UnitMonths:
		return "months"
	case UnitYears:
		return "years"
	default:
		return "unknown"
	}
}

// unitSpec holds the size of a unit in days and the largest quantity
// accepted for it. A month is 30 days and a year 365.
type unitSpec struct {
	days float64
	max  int
}

var units = map[TimeUnit]unitSpec{
	UnitHours:  {1.0 / 24, 8760},
	UnitDays:   {1, 3650},
	UnitWeeks:  {7, 520},
	UnitMonths: {30, 120},
	UnitYears:  {365, 100},
}

var unitAliases = map[string]TimeUnit{
	"":       UnitDays,
	"h":      UnitHours,
	"hr":     UnitHours,
	"hrs":    UnitHours,
	"hour":   UnitHours,
	"hours":  UnitHours,
	"d":      UnitDays,
	"day":    UnitDays,
	"days":   UnitDays,
	"w":      UnitWeeks,
	"wk":     UnitWeeks,
	"wks":    UnitWeeks,
	"week":   UnitWeeks,
	"weeks":  UnitWeeks,
	"m":      UnitMonths,
	"mo":     UnitMonths,
	"month":  UnitMonths,
	"months": UnitMonths,
	"y":      UnitYears,
	"yr":     UnitYears,
	"yrs":    UnitYears,
	"year":   UnitYears,
	"years":  UnitYears,
}

// Duration is a parsed duration.
type Duration struct {
	Quantity int      // after clamping
	Unit     TimeUnit // as entered
	Days     int      // whole days, at least 1
	Clamped  bool     // Quantity was raised to 1 or lowered to the unit maximum
}

// Max returns the largest quantity accepted for the unit.
func (u TimeUnit) Max() int { return units[u].max }

var durationPattern = regexp.MustCompile(`(?i)^\s*(-?\d+)\s*([a-z]*)\s*$`)

// ParseDuration parses text like "10", "3 weeks" or "36h". Quantities
// below 1 become 1 and quantities above the unit maximum become the
// maximum; both set Clamped. Partial days round up.
func ParseDuration(text string) (Duration, error) {
	m := durationPattern.FindStringSubmatch(text)
	if m == nil {
		return Duration{}, fmt.Errorf("%q: %w", text, domain.ErrInvalidDuration)
	}
	unit, ok := unitAliases[strings.ToLower(m[2])]
	if !ok {
		return Duration{}, fmt.Errorf("%q: unknown unit %q: %w", text, m[2], domain.ErrInvalidDuration)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Out of int range: treat as over the maximum.
		n = math.MaxInt
		if strings.HasPrefix(m[1], "-") {
			n = math.MinInt
		}
	}
	return NewDuration(n, unit), nil
}

// NewDuration clamps quantity for unit and converts it to whole days.
func NewDuration(quantity int, unit TimeUnit) Duration {
	u, ok := units[unit]
	if !ok {
		unit, u = UnitDays, units[UnitDays]
	}
	d := Duration{Quantity: quantity, Unit: unit}
	if d.Quantity < 1 {
		d.Quantity, d.Clamped = 1, true
	}
	if d.Quantity > u.max {
		d.Quantity, d.Clamped = u.max, true
	}
	d.Days = max(int(math.Ceil(float64(d.Quantity)*u.days-1e-9)), 1)
	return d
}

// Parser extracts household composition from free text using a small
// table of patterns.
type Parser struct {
	log   *logger.Logger
	rules []countRule
}

type countRule struct {
	regex *regexp.Regexp
	class domain.Class
}

// NewParser creates a household parser.
func NewParser(log *logger.Logger) *Parser {
	const count = `(\d+|an?|one|two|three|four|five|six|seven|eight|nine|ten)\s+`
	return &Parser{
		log: log,
		rules: []countRule{
			{regexp.MustCompile(`(?i)\b` + count + `(?:adults?|grown[- ]?ups?|people|persons?|men|women|man|woman)\b`), domain.ClassAdult},
			{regexp.MustCompile(`(?i)\b` + count + `(?:child(?:ren)?|kids?|bab(?:y|ies)|infants?|teens?|teenagers?)\b`), domain.ClassChild},
			{regexp.MustCompile(`(?i)\b` + count + `(?:dogs?|pupp(?:y|ies))\b`), domain.ClassDog},
			{regexp.MustCompile(`(?i)\b` + count + `(?:cats?|kittens?)\b`), domain.ClassCat},
		},
	}
}

// durationClause finds a "for/over/lasting <phrase>" clause anywhere in
// the text. The phrase runs until punctuation or a joining word.
var durationClause = regexp.MustCompile(`(?i)\b(?:for|over|lasting)\b\s*([^,;]*?)\s*(?:[,;]|\band\b|\bwith\b|\bplus\b|$)`)

var numberWords = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// Parsed is the outcome of reading a household description.
type Parsed struct {
	Household domain.Household
	// DurationGiven reports whether the text carried a duration clause.
	// Without one Household.Duration is 1.
	DurationGiven bool
	// Clamped reports whether the stated duration was out of range.
	Clamped bool
}

// Parse reads counts from text. Repeated mentions of a class add up. A
// "for <duration>" clause anywhere in the text sets the duration; without
// one the duration is 1 day. Text with no recognizable count is an error.
func (p *Parser) Parse(text string) (domain.Household, error) {
	r, err := p.ParseText(text)
	return r.Household, err
}

// ParseText is Parse, also reporting how the duration was decided.
func (p *Parser) ParseText(text string) (Parsed, error) {
	trimmed := strings.TrimSpace(text)
	p.log.Debug("parsing household: %q", trimmed)

	out := Parsed{Household: domain.Household{Duration: 1}}
	h := &out.Household

	// Members are blanked out first so "for a dog" is not read as a
	// duration and "for a week" is not read as a member.
	rest := trimmed
	for _, rule := range p.rules {
		rest = rule.regex.ReplaceAllString(rest, ",")
	}
	for _, m := range durationClause.FindAllStringSubmatch(rest, -1) {
		phrase := strings.TrimSpace(m[1])
		if phrase == "" {
			continue
		}
		d, err := parseDurationPhrase(phrase)
		if err != nil {
			return Parsed{}, err
		}
		h.Duration = d.Days
		out.DurationGiven, out.Clamped = true, d.Clamped
		break
	}

	matched := false
	for _, rule := range p.rules {
		for _, sub := range rule.regex.FindAllStringSubmatch(trimmed, -1) {
			n := countValue(sub[1])
			matched = true
			switch rule.class {
			case domain.ClassAdult:
				h.Adults += n
			case domain.ClassChild:
				h.Children += n
			case domain.ClassDog:
				h.Dogs += n
			case domain.ClassCat:
				h.Cats += n
			}
		}
	}
	if !matched {
		return Parsed{}, fmt.Errorf("no household members found in %q", text)
	}

	p.log.Debug("parsed household: %+v", *h)
	return out, nil
}

// parseDurationPhrase accepts ParseDuration's forms plus a leading number
// word, as in "a week" or "three days".
func parseDurationPhrase(phrase string) (Duration, error) {
	fields := strings.Fields(phrase)
	if n, ok := numberWords[strings.ToLower(fields[0])]; ok {
		fields[0] = strconv.Itoa(n)
	}
	return ParseDuration(strings.Join(fields, " "))
}

func countValue(s string) int {
	if n, ok := numberWords[strings.ToLower(s)]; ok {
		return n
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
