package domain

import "context"

// StoreQuery is the filter + limit passed to the canonical store. All
// set filters are ANDed; rate/cost bounds are null-inclusive (a record
// with an unset value is never excluded by a bound).
type StoreQuery struct {
	Location        *string
	MinRate         *float64
	MaxRate         *float64
	MinCost         *int
	MaxCost         *int
	CuisineContains *string
	RestType        *string
	OnlineOrder     *bool
	BookTable       *bool
	Limit           int
}

// RestaurantStore is the canonical store contract. Rows are written in
// batch during ingestion and removed only by Clear; there is no
// per-record update or delete.
type RestaurantStore interface {
	InitSchema(ctx context.Context) error
	InsertMany(ctx context.Context, rs []Restaurant) (int, error)
	Clear(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (Restaurant, error)

	// Query returns records matching q ordered by rate descending with
	// null rates last, ties broken by votes descending with nulls last,
	// then by id. Limit applies after ordering.
	Query(ctx context.Context, q StoreQuery) ([]Restaurant, error)

	DistinctLocations(ctx context.Context) ([]string, error)
	DistinctCuisines(ctx context.Context) ([]string, error)
}

// ResponseCache caches strict recommendation responses under canonical
// request keys. Implementations must be safe for concurrent use.
type ResponseCache interface {
	Get(ctx context.Context, key string) (Recommendation, bool, error)
	Set(ctx context.Context, key string, v Recommendation) error
	Clear(ctx context.Context) error
}

// Summarizer produces a short free-text summary of the filtered list.
// The output is opaque text; it is never a source of restaurant
// identity. An empty string means "no summary".
type Summarizer interface {
	Summarize(ctx context.Context, restaurants []Restaurant, prefs Preferences) (string, error)
}
