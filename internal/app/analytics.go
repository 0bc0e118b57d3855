package app

import (
	"sort"
	"strings"
	"sync"

	"bistro_finder/internal/domain"
)

// Analytics keeps in-memory counters of what users search for. Counts
// reset on restart; this is a live popularity view, not durable state.
type Analytics struct {
	mu        sync.Mutex
	requests  int64
	relaxed   int64
	locations map[string]int
	cuisines  map[string]int
}

func NewAnalytics() *Analytics {
	return &Analytics{
		locations: make(map[string]int),
		cuisines:  make(map[string]int),
	}
}

// Record counts one recommendation request. Location and cuisine keys
// are lowercased and trimmed so "Banashankari" and "banashankari "
// count as one.
func (a *Analytics) Record(prefs domain.Preferences, relaxed bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requests++
	if relaxed {
		a.relaxed++
	}
	if prefs.Location != nil {
		if k := countKey(*prefs.Location); k != "" {
			a.locations[k]++
		}
	}
	for _, c := range prefs.Cuisines {
		if k := countKey(c); k != "" {
			a.cuisines[k]++
		}
	}
}

// PopularEntry is a counted search term.
type PopularEntry struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Snapshot reports totals plus the top-n locations and cuisines by
// request count, ties broken alphabetically.
func (a *Analytics) Snapshot(n int) (requests, relaxed int64, locations, cuisines []PopularEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests, a.relaxed, topN(a.locations, n), topN(a.cuisines, n)
}

func (a *Analytics) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = 0
	a.relaxed = 0
	a.locations = make(map[string]int)
	a.cuisines = make(map[string]int)
}

func countKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func topN(m map[string]int, n int) []PopularEntry {
	out := make([]PopularEntry, 0, len(m))
	for term, count := range m {
		out = append(out, PopularEntry{Term: term, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
