// Package storage holds the filter-building pieces shared by the SQL
// store backends. Both dialects use ? placeholders and the same
// LOWER/REPLACE/COALESCE functions, so the WHERE clause and ordering can
// be built once.
package storage

import (
	"sort"
	"strings"

	"bistro_finder/internal/domain"
)

// NormalizeToken lowercases a match token and strips all whitespace, so
// "JP Nagar" matches "J P Nagar" and "North Indian" matches
// "NorthIndian".
func NormalizeToken(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// BuildWhere translates a StoreQuery into a WHERE clause and its args.
// Rate and cost bounds are null-inclusive: a record with an unset value
// is never excluded by a bound. Cuisine matching is the opposite:
// records without cuisine data never match a cuisine filter.
func BuildWhere(q domain.StoreQuery) (string, []any) {
	var conds []string
	var args []any

	if q.Location != nil {
		if loc := NormalizeToken(*q.Location); loc != "" {
			// Exact match on the displayed location column only, not
			// listed_in_city: a record whose administrative city matches
			// but whose displayed location differs must not surface.
			conds = append(conds, "REPLACE(LOWER(TRIM(COALESCE(location,''))), ' ', '') = ?")
			args = append(args, loc)
		}
	}
	if q.MinRate != nil {
		conds = append(conds, "(rate IS NULL OR rate >= ?)")
		args = append(args, *q.MinRate)
	}
	if q.MaxRate != nil {
		conds = append(conds, "(rate IS NULL OR rate <= ?)")
		args = append(args, *q.MaxRate)
	}
	if q.MinCost != nil {
		conds = append(conds, "(cost_for_two IS NULL OR cost_for_two >= ?)")
		args = append(args, *q.MinCost)
	}
	if q.MaxCost != nil {
		conds = append(conds, "(cost_for_two IS NULL OR cost_for_two <= ?)")
		args = append(args, *q.MaxCost)
	}
	if q.CuisineContains != nil {
		if cu := NormalizeToken(*q.CuisineContains); cu != "" {
			conds = append(conds,
				"(COALESCE(cuisines,'') != '' AND LOWER(REPLACE(COALESCE(cuisines,''), ' ', '')) LIKE ?)")
			args = append(args, "%"+cu+"%")
		}
	}
	if q.RestType != nil {
		if rt := strings.TrimSpace(*q.RestType); rt != "" {
			conds = append(conds, "LOWER(COALESCE(rest_type,'')) LIKE LOWER(?)")
			args = append(args, "%"+rt+"%")
		}
	}
	if q.OnlineOrder != nil {
		conds = append(conds, "online_order = ?")
		args = append(args, boolArg(*q.OnlineOrder))
	}
	if q.BookTable != nil {
		conds = append(conds, "book_table = ?")
		args = append(args, boolArg(*q.BookTable))
	}

	if len(conds) == 0 {
		return "1=1", nil
	}
	return strings.Join(conds, " AND "), args
}

func boolArg(b bool) int {
	if b {
		return 1
	}
	return 0
}

// OrderByRanking is the total result order: non-null rates first
// descending, ties by votes descending with nulls last, then id so any
// two records have a defined relative order.
const OrderByRanking = "rate IS NULL, rate DESC, votes IS NULL, votes DESC, id"

// SplitCuisines explodes comma-delimited cuisine strings into a sorted,
// deduplicated list of individual values.
func SplitCuisines(raw []string) []string {
	seen := make(map[string]struct{})
	for _, row := range raw {
		for _, part := range strings.Split(row, ",") {
			if s := strings.TrimSpace(part); s != "" {
				seen[s] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
