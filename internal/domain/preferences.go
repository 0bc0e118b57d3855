package domain

import (
	"regexp"
	"strings"
)

// Preferences is a sparse set of user filters. Every field is optional;
// the zero value matches everything.
type Preferences struct {
	Location    *string  `json:"location"`
	MinRating   *float64 `json:"min_rating"`
	MaxRating   *float64 `json:"max_rating"`
	MinCost     *int     `json:"min_cost"`
	MaxCost     *int     `json:"max_cost"`
	Cuisines    []string `json:"cuisines"`
	RestType    *string  `json:"rest_type"`
	OnlineOrder *bool    `json:"online_order"`
	BookTable   *bool    `json:"book_table"`
}

var cuisineSplit = regexp.MustCompile(`[,;]+`)

// Normalized returns a copy with trimmed strings, blank values mapped to
// nil, and cuisine entries split on ','/';' with empties dropped.
func (p Preferences) Normalized() Preferences {
	out := p
	out.Location = trimmedOrNil(p.Location)
	out.RestType = trimmedOrNil(p.RestType)

	var cuisines []string
	for _, c := range p.Cuisines {
		for _, part := range cuisineSplit.Split(c, -1) {
			if s := strings.TrimSpace(part); s != "" {
				cuisines = append(cuisines, s)
			}
		}
	}
	out.Cuisines = cuisines
	return out
}

func trimmedOrNil(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

// ToStoreQuery converts the preferences into a single store query.
// Cuisines are handled by the orchestrator (one query per cuisine), so
// CuisineContains is left unset here.
func (p Preferences) ToStoreQuery(limit int) StoreQuery {
	return StoreQuery{
		Location:    p.Location,
		MinRate:     p.MinRating,
		MaxRate:     p.MaxRating,
		MinCost:     p.MinCost,
		MaxCost:     p.MaxCost,
		RestType:    p.RestType,
		OnlineOrder: p.OnlineOrder,
		BookTable:   p.BookTable,
		Limit:       limit,
	}
}
