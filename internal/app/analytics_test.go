package app_test

import (
	"testing"

	"bistro_finder/internal/app"
	"bistro_finder/internal/domain"
)

func TestAnalytics_RecordAndSnapshot(t *testing.T) {
	a := app.NewAnalytics()

	a.Record(domain.Preferences{Location: ptr("Banashankari"), Cuisines: []string{"Chinese"}}, false)
	a.Record(domain.Preferences{Location: ptr(" banashankari ")}, false)
	a.Record(domain.Preferences{Location: ptr("Koramangala"), Cuisines: []string{"Chinese", "Thai"}}, true)

	requests, relaxed, locations, cuisines := a.Snapshot(10)
	if requests != 3 || relaxed != 1 {
		t.Fatalf("requests=%d relaxed=%d", requests, relaxed)
	}
	if len(locations) != 2 || locations[0].Term != "banashankari" || locations[0].Count != 2 {
		t.Fatalf("unexpected locations: %+v", locations)
	}
	if len(cuisines) != 2 || cuisines[0].Term != "chinese" || cuisines[0].Count != 2 {
		t.Fatalf("unexpected cuisines: %+v", cuisines)
	}
}

func TestAnalytics_SnapshotLimitAndTies(t *testing.T) {
	a := app.NewAnalytics()
	for _, loc := range []string{"a", "b", "c"} {
		a.Record(domain.Preferences{Location: ptr(loc)}, false)
	}

	_, _, locations, _ := a.Snapshot(2)
	if len(locations) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(locations))
	}
	// equal counts fall back to alphabetical order
	if locations[0].Term != "a" || locations[1].Term != "b" {
		t.Fatalf("unexpected tie order: %+v", locations)
	}
}

func TestAnalytics_Clear(t *testing.T) {
	a := app.NewAnalytics()
	a.Record(domain.Preferences{Location: ptr("x")}, true)
	a.Clear()

	requests, relaxed, locations, cuisines := a.Snapshot(10)
	if requests != 0 || relaxed != 0 || len(locations) != 0 || len(cuisines) != 0 {
		t.Fatalf("clear did not reset counters")
	}
}
