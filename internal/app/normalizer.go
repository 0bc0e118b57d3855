package app

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"bistro_finder/internal/domain"
)

/********** source column registry (single source of truth) **********/

// Column names as they appear in the dataset export (with special chars).
const (
	colName       = "name"
	colAddress    = "address"
	colURL        = "url"
	colLocation   = "location"
	colListedCity = "listed_in(city)"
	colCuisines   = "cuisines"
	colRestType   = "rest_type"
	colRate       = "rate"
	colApproxCost = "approx_cost(for two people)"
	colOnline     = "online_order"
	colBookTable  = "book_table"
	colVotes      = "votes"
	colPhone      = "phone"
	colDishLiked  = "dish_liked"
)

// Truncation limits per normalized field.
const (
	maxNameLen      = 300
	maxAddressLen   = 500
	maxURLLen       = 600
	maxLocationLen  = 200
	maxCuisinesLen  = 500
	maxRestTypeLen  = 200
	maxPhoneLen     = 50
	maxDishLikedLen = 500
)

/********** tiny helpers **********/

// asString coerces a raw scalar to a trimmed string. nil and the usual
// textual null markers ("nan", "null") become "".
func asString(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return ""
	}
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "null":
		return ""
	}
	return s
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

/********** rating parser **********/

var reDecimal = regexp.MustCompile(`(\d+\.?\d*)`)

// parseRate extracts the first decimal number from values like "4.1/5",
// "4.1" or 4.1. Out-of-range or unparseable values are nil, never errors.
func parseRate(v any) *float64 {
	s := asString(v)
	if s == "" {
		return nil
	}
	m := reDecimal.FindString(s)
	if m == "" {
		return nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || f < 0 || f > 5 {
		return nil
	}
	return &f
}

/********** cost parser **********/

// The cost field mixes several numeric conventions: "800", "300,400"
// (range), "1,000" (Western thousands), "1,00"/"2,50" (regional
// hundreds) and "1.000" (period thousands). Each convention is one
// (predicate, extractor) rule; the first matching rule wins and the
// order below is load-bearing: the period-thousands rule must run
// before any decimal-point reading collapses "1.000" to 1.
type costRule struct {
	name    string
	extract func(s string) (int, bool)
}

var (
	rePeriodThousands = regexp.MustCompile(`^\d{1,4}\.\d{3}$`)
	reAllDigits       = regexp.MustCompile(`^\d+$`)
	reDigitRun        = regexp.MustCompile(`\d+`)
)

// commaPair splits "a,b" into trimmed all-digit halves.
func commaPair(s string) (string, string, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return "", "", false
	}
	a, b := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if !reAllDigits.MatchString(a) || !reAllDigits.MatchString(b) {
		return "", "", false
	}
	return a, b, true
}

var costRules = []costRule{
	{"period_thousands", func(s string) (int, bool) {
		if !rePeriodThousands.MatchString(s) {
			return 0, false
		}
		n, err := strconv.Atoi(strings.ReplaceAll(s, ".", ""))
		return n, err == nil
	}},
	{"western_thousands", func(s string) (int, bool) {
		a, b, ok := commaPair(s)
		if !ok || len(b) != 3 || len(a) > 2 {
			return 0, false
		}
		n, err := strconv.Atoi(a + b)
		return n, err == nil
	}},
	{"regional_hundreds", func(s string) (int, bool) {
		a, b, ok := commaPair(s)
		if !ok || len(b) != 2 {
			return 0, false
		}
		hi, err1 := strconv.Atoi(a)
		lo, err2 := strconv.Atoi(b)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return hi*100 + lo, true
	}},
	{"comma_range_first", func(s string) (int, bool) {
		a, _, ok := commaPair(s)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(a)
		return n, err == nil
	}},
	{"plain_int", func(s string) (int, bool) {
		if !reAllDigits.MatchString(s) {
			return 0, false
		}
		n, err := strconv.Atoi(s)
		return n, err == nil
	}},
	{"first_digit_run", func(s string) (int, bool) {
		m := reDigitRun.FindString(s)
		if m == "" {
			return 0, false
		}
		n, err := strconv.Atoi(m)
		return n, err == nil
	}},
}

// parseCost runs the cost rules in precedence order; nil when no rule
// matches.
func parseCost(v any) *int {
	s := asString(v)
	if s == "" {
		return nil
	}
	for _, r := range costRules {
		if n, ok := r.extract(s); ok {
			return &n
		}
	}
	return nil
}

/********** boolean / votes / string parsers **********/

// parseBool maps yes/true/1/y (case-insensitive) to true; anything else,
// including nil and empty, to false.
func parseBool(v any) bool {
	switch strings.ToLower(asString(v)) {
	case "yes", "true", "1", "y":
		return true
	}
	return false
}

// parseVotes parses a non-negative integer vote count; negatives and
// unparseable values are nil.
func parseVotes(v any) *int {
	if f, ok := v.(float64); ok {
		n := int(f)
		if n < 0 {
			return nil
		}
		return &n
	}
	s := asString(v)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// truncateRunes caps s at max characters. Cutting on a byte offset can
// split a multi-byte rune and leak invalid UTF-8 into the store, so the
// cap counts runes.
func truncateRunes(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}

// normString trims, maps blank to nil and truncates to maxLen characters.
func normString(v any, maxLen int) *string {
	s := asString(v)
	if s == "" {
		return nil
	}
	s = truncateRunes(s, maxLen)
	return &s
}

var (
	reCommaRuns = regexp.MustCompile(`,+`)
	reSpaceRuns = regexp.MustCompile(`\s+`)
)

// normCuisines collapses repeated separators to a single comma and
// repeated whitespace to a single space.
func normCuisines(v any) *string {
	s := asString(v)
	if s == "" {
		return nil
	}
	s = reCommaRuns.ReplaceAllString(s, ",")
	s = strings.TrimSpace(reSpaceRuns.ReplaceAllString(s, " "))
	if s == "" {
		return nil
	}
	s = truncateRunes(s, maxCuisinesLen)
	return &s
}

/********** row normalizer **********/

// NormalizeRow converts one raw dataset row into a canonical record.
// Returns nil when the row is invalid (name absent or blank); every
// other malformed field degrades to nil/false instead of failing.
func NormalizeRow(row domain.RawRow) *domain.Restaurant {
	name := normString(row[colName], maxNameLen)
	if name == nil {
		return nil
	}

	location := normString(row[colLocation], maxLocationLen)
	listedInCity := normString(row[colListedCity], maxLocationLen)
	// Each side falls back to the other so a record carries the best
	// available location signal if either source field was populated.
	if location == nil {
		location = listedInCity
	}
	if listedInCity == nil {
		listedInCity = location
	}

	return &domain.Restaurant{
		Name:         *name,
		Address:      normString(row[colAddress], maxAddressLen),
		URL:          normString(row[colURL], maxURLLen),
		Location:     location,
		ListedInCity: listedInCity,
		Cuisines:     normCuisines(row[colCuisines]),
		RestType:     normString(row[colRestType], maxRestTypeLen),
		Rate:         parseRate(row[colRate]),
		CostForTwo:   parseCost(row[colApproxCost]),
		Votes:        parseVotes(row[colVotes]),
		OnlineOrder:  parseBool(row[colOnline]),
		BookTable:    parseBool(row[colBookTable]),
		Phone:        normString(row[colPhone], maxPhoneLen),
		DishLiked:    normString(row[colDishLiked], maxDishLikedLen),
	}
}

// DefaultDedupeKeys identifies a record by its normalized name+address.
var DefaultDedupeKeys = []string{"name", "address"}

func dedupeComponent(r *domain.Restaurant, key string) string {
	var p *string
	switch key {
	case "name":
		return r.Name
	case "address":
		p = r.Address
	case "url":
		p = r.URL
	case "location":
		p = r.Location
	case "listed_in_city":
		p = r.ListedInCity
	case "cuisines":
		p = r.Cuisines
	case "rest_type":
		p = r.RestType
	case "phone":
		p = r.Phone
	}
	if p == nil {
		return ""
	}
	return *p
}

// NormalizeAll normalizes raw rows, drops invalid ones and deduplicates
// by the tuple of normalized values at dedupeKeys (nil components count
// as empty strings). First-seen order is preserved.
func NormalizeAll(rows []domain.RawRow, dedupeKeys []string) []domain.Restaurant {
	if len(dedupeKeys) == 0 {
		dedupeKeys = DefaultDedupeKeys
	}

	seen := make(map[string]struct{}, len(rows))
	out := make([]domain.Restaurant, 0, len(rows))
	for _, row := range rows {
		r := NormalizeRow(row)
		if r == nil {
			continue
		}
		parts := make([]string, len(dedupeKeys))
		for i, k := range dedupeKeys {
			parts[i] = dedupeComponent(r, k)
		}
		key := strings.Join(parts, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, *r)
	}

	log.Info().
		Int("rows", len(rows)).
		Int("records", len(out)).
		Int("dropped", len(rows)-len(out)).
		Msg("normalized dataset rows")
	return out
}
