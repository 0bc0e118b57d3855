package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"bistro_finder/internal/adapters/observability"
	"bistro_finder/internal/domain"
	"bistro_finder/internal/storage"
)

const (
	// DefaultTopN is the result size when the caller does not ask for one.
	DefaultTopN = 5
	// MaxTopN caps the result size a single request may ask for.
	MaxTopN = 50

	minCandidateFetch = 50
)

// RecommendationService answers preference queries against the
// canonical store. Strict responses are cached; relaxed responses are
// recomputed every time.
type RecommendationService struct {
	store      domain.RestaurantStore
	cache      domain.ResponseCache
	summarizer domain.Summarizer
	analytics  *Analytics
	log        zerolog.Logger
}

func NewRecommendationService(store domain.RestaurantStore, cache domain.ResponseCache, summarizer domain.Summarizer, analytics *Analytics, log zerolog.Logger) *RecommendationService {
	if summarizer == nil {
		summarizer = NoopSummarizer{}
	}
	if analytics == nil {
		analytics = NewAnalytics()
	}
	return &RecommendationService{
		store:      store,
		cache:      cache,
		summarizer: summarizer,
		analytics:  analytics,
		log:        log,
	}
}

// Analytics exposes the request counters for the analytics endpoint.
func (s *RecommendationService) Analytics() *Analytics { return s.analytics }

// Recommend returns up to topN restaurants matching prefs. When the
// strict result is empty and relaxIfEmpty is set, filters are dropped in
// stages (cuisines, then the rating floor, then cost bounds) until
// something matches; location, rest_type and the boolean filters are
// never dropped. The response is marked relaxed the moment relaxation is
// attempted, even if every stage still comes back empty.
func (s *RecommendationService) Recommend(ctx context.Context, prefs domain.Preferences, topN int, relaxIfEmpty bool) (domain.Recommendation, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if topN > MaxTopN {
		topN = MaxTopN
	}
	prefs = prefs.Normalized()
	key := CacheKey(prefs, topN)

	if s.cache != nil {
		if rec, ok, err := s.cache.Get(ctx, key); err != nil {
			s.log.Warn().Err(err).Msg("response cache read failed")
		} else if ok && !rec.Relaxed {
			// A cached empty strict result cannot answer a caller who
			// opted into relaxation; fall through and run the cascade.
			if len(rec.Restaurants) > 0 || !relaxIfEmpty {
				s.analytics.Record(prefs, false)
				observability.ObserveRecommendation("cache", false)
				return rec, nil
			}
		}
	}

	matched, err := s.fetchAndFilter(ctx, prefs, topN)
	if err != nil {
		return domain.Recommendation{}, err
	}

	rec := domain.Recommendation{Restaurants: matched}
	if len(matched) == 0 && relaxIfEmpty {
		rec.Relaxed = true
		rec.Restaurants, err = s.relax(ctx, prefs, topN)
		if err != nil {
			return domain.Recommendation{}, err
		}
	}

	if len(rec.Restaurants) > 0 {
		// The summary always describes the original preferences, even
		// when the matching list came from a relaxed query.
		if text, err := s.summarizer.Summarize(ctx, rec.Restaurants, prefs); err != nil {
			s.log.Warn().Err(err).Msg("summary generation failed")
		} else if text != "" {
			rec.Summary = &text
		}
	}

	if s.cache != nil && !rec.Relaxed {
		if err := s.cache.Set(ctx, key, rec); err != nil {
			s.log.Warn().Err(err).Msg("response cache write failed")
		}
	}

	s.analytics.Record(prefs, rec.Relaxed)
	observability.ObserveRecommendation("store", rec.Relaxed)
	return rec, nil
}

// fetchAndFilter pulls candidates from the store and applies the strict
// in-memory post-filter, truncating to topN.
func (s *RecommendationService) fetchAndFilter(ctx context.Context, prefs domain.Preferences, topN int) ([]domain.Restaurant, error) {
	limit := 3 * topN
	if limit < minCandidateFetch {
		limit = minCandidateFetch
	}

	candidates, err := s.fetchCandidates(ctx, prefs, limit)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Restaurant, 0, topN)
	for _, r := range candidates {
		if matchesPreferences(r, prefs) {
			matched = append(matched, r)
			if len(matched) == topN {
				break
			}
		}
	}
	return matched, nil
}

// fetchCandidates runs the store query. With multiple cuisines it runs
// one query per cuisine and merges by id, preserving the per-query
// ranking order and stopping once enough distinct candidates are in
// hand.
func (s *RecommendationService) fetchCandidates(ctx context.Context, prefs domain.Preferences, limit int) ([]domain.Restaurant, error) {
	q := prefs.ToStoreQuery(limit)

	if len(prefs.Cuisines) <= 1 {
		if len(prefs.Cuisines) == 1 {
			q.CuisineContains = &prefs.Cuisines[0]
		}
		return s.store.Query(ctx, q)
	}

	seen := make(map[int64]struct{})
	var merged []domain.Restaurant
	for i := range prefs.Cuisines {
		cq := q
		cq.CuisineContains = &prefs.Cuisines[i]
		rows, err := s.store.Query(ctx, cq)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			merged = append(merged, r)
		}
		if len(merged) >= limit {
			break
		}
	}
	return merged, nil
}

// relax retries with progressively fewer filters. Each stage issues a
// fresh store query; the first stage with matches wins.
func (s *RecommendationService) relax(ctx context.Context, prefs domain.Preferences, topN int) ([]domain.Restaurant, error) {
	stages := relaxationStages(prefs)
	for _, stage := range stages {
		matched, err := s.fetchAndFilter(ctx, stage, topN)
		if err != nil {
			return nil, err
		}
		if len(matched) > 0 {
			return matched, nil
		}
	}
	return nil, nil
}

// relaxationStages lists the filter sets to try after a strict miss,
// skipping stages that would repeat the previous one.
func relaxationStages(prefs domain.Preferences) []domain.Preferences {
	var stages []domain.Preferences

	cur := prefs
	if len(cur.Cuisines) > 0 {
		cur.Cuisines = nil
		stages = append(stages, cur)
	}
	if cur.MinRating != nil {
		cur.MinRating = nil
		stages = append(stages, cur)
	}
	if cur.MinCost != nil || cur.MaxCost != nil {
		cur.MinCost = nil
		cur.MaxCost = nil
		stages = append(stages, cur)
	}
	return stages
}

// matchesPreferences re-checks every filter against the in-memory
// record. The store already filtered, but candidate merging and LIKE
// matching can over-admit; this keeps the final list strict.
func matchesPreferences(r domain.Restaurant, p domain.Preferences) bool {
	if p.Location != nil {
		if r.Location == nil || storage.NormalizeToken(*r.Location) != storage.NormalizeToken(*p.Location) {
			return false
		}
	}
	if p.MinRating != nil && r.Rate != nil && *r.Rate < *p.MinRating {
		return false
	}
	if p.MaxRating != nil && r.Rate != nil && *r.Rate > *p.MaxRating {
		return false
	}
	if p.MinCost != nil && r.CostForTwo != nil && *r.CostForTwo < *p.MinCost {
		return false
	}
	if p.MaxCost != nil && r.CostForTwo != nil && *r.CostForTwo > *p.MaxCost {
		return false
	}
	if len(p.Cuisines) > 0 && !matchesAnyCuisine(r, p.Cuisines) {
		return false
	}
	if p.RestType != nil {
		want := strings.ToLower(strings.TrimSpace(*p.RestType))
		if r.RestType == nil || !strings.Contains(strings.ToLower(*r.RestType), want) {
			return false
		}
	}
	if p.OnlineOrder != nil && r.OnlineOrder != *p.OnlineOrder {
		return false
	}
	if p.BookTable != nil && r.BookTable != *p.BookTable {
		return false
	}
	return true
}

func matchesAnyCuisine(r domain.Restaurant, cuisines []string) bool {
	if r.Cuisines == nil {
		return false
	}
	have := storage.NormalizeToken(*r.Cuisines)
	if have == "" {
		return false
	}
	for _, c := range cuisines {
		if want := storage.NormalizeToken(c); want != "" && strings.Contains(have, want) {
			return true
		}
	}
	return false
}

// NoopSummarizer satisfies the Summarizer port without producing any
// text, used when no LLM backend is configured.
type NoopSummarizer struct{}

func (NoopSummarizer) Summarize(context.Context, []domain.Restaurant, domain.Preferences) (string, error) {
	return "", nil
}
