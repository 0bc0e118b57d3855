package domain

import "time"

// RawRow is one untyped source row as loaded from the dataset export.
// Values can be strings, numbers, bools, or nil; no invariants hold here.
type RawRow map[string]any

// Restaurant is the canonical record persisted in the store. Optional
// fields are pointers; nil means the source value was absent or
// unparseable. Name is the only required field.
type Restaurant struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Address      *string   `json:"address"`
	URL          *string   `json:"url"`
	Location     *string   `json:"location"`
	ListedInCity *string   `json:"listed_in_city"`
	Cuisines     *string   `json:"cuisines"` // comma-delimited, separators collapsed
	RestType     *string   `json:"rest_type"`
	Rate         *float64  `json:"rate"` // [0,5]
	CostForTwo   *int      `json:"cost_for_two"`
	Votes        *int      `json:"votes"`
	OnlineOrder  bool      `json:"online_order"`
	BookTable    bool      `json:"book_table"`
	Phone        *string   `json:"phone"`
	DishLiked    *string   `json:"dish_liked"`
	CreatedAt    time.Time `json:"created_at"`
}

// Recommendation is the public response payload of the orchestrator and
// the value stored in the response cache.
type Recommendation struct {
	Restaurants []Restaurant `json:"restaurants"`
	Summary     *string      `json:"summary"`
	Relaxed     bool         `json:"relaxed"`
}
