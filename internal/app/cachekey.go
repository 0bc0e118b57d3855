package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"bistro_finder/internal/domain"
)

// CacheKey derives a canonical key for a recommendation request. Unset
// preference fields are omitted and cuisines are sorted, so two
// requests asking for the same thing hash to the same key regardless of
// field order or cuisine order. topN is part of the key: the same
// filters with a different result size are different responses.
func CacheKey(prefs domain.Preferences, topN int) string {
	m := map[string]any{"top_n": topN}

	if prefs.Location != nil {
		m["location"] = *prefs.Location
	}
	if prefs.MinRating != nil {
		m["min_rating"] = *prefs.MinRating
	}
	if prefs.MaxRating != nil {
		m["max_rating"] = *prefs.MaxRating
	}
	if prefs.MinCost != nil {
		m["min_cost"] = *prefs.MinCost
	}
	if prefs.MaxCost != nil {
		m["max_cost"] = *prefs.MaxCost
	}
	if len(prefs.Cuisines) > 0 {
		cs := make([]string, len(prefs.Cuisines))
		copy(cs, prefs.Cuisines)
		sort.Strings(cs)
		m["cuisines"] = cs
	}
	if prefs.RestType != nil {
		m["rest_type"] = *prefs.RestType
	}
	if prefs.OnlineOrder != nil {
		m["online_order"] = *prefs.OnlineOrder
	}
	if prefs.BookTable != nil {
		m["book_table"] = *prefs.BookTable
	}

	// encoding/json writes map keys in sorted order, which makes the
	// serialization canonical.
	b, _ := json.Marshal(m)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
