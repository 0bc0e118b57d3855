package httpserver_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	httpserver "bistro_finder/internal/adapters/http_server"
	"bistro_finder/internal/app"
	"bistro_finder/internal/domain"
)

type stubStore struct{}

func (stubStore) InitSchema(context.Context) error                               { return nil }
func (stubStore) InsertMany(context.Context, []domain.Restaurant) (int, error)   { return 0, nil }
func (stubStore) Clear(context.Context) (int64, error)                           { return 0, nil }
func (stubStore) Count(context.Context) (int, error)                             { return 0, nil }
func (stubStore) GetByID(context.Context, int64) (domain.Restaurant, error) {
	return domain.Restaurant{}, domain.ErrNotFound
}
func (stubStore) Query(context.Context, domain.StoreQuery) ([]domain.Restaurant, error) {
	return nil, nil
}
func (stubStore) DistinctLocations(context.Context) ([]string, error) { return nil, nil }
func (stubStore) DistinctCuisines(context.Context) ([]string, error)  { return nil, nil }

func newTestServer() *httptest.Server {
	store := stubStore{}
	svc := app.NewRecommendationService(store, nil, nil, app.NewAnalytics(), zerolog.Nop())
	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Rec: svc, Store: store})
	return httptest.NewServer(srv.Mux())
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func TestRecommend_RejectsInvalidBody(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	cases := map[string]string{
		"not json":         `{"preferences:`,
		"bad min_rating":   `{"preferences":{"min_rating":6}}`,
		"negative rating":  `{"preferences":{"min_rating":-1}}`,
		"rating inversion": `{"preferences":{"min_rating":4,"max_rating":3}}`,
		"negative cost":    `{"preferences":{"min_cost":-5}}`,
		"cost inversion":   `{"preferences":{"min_cost":900,"max_cost":300}}`,
		"top_n too large":  `{"top_n":51}`,
		"top_n negative":   `{"top_n":-1}`,
	}
	for name, body := range cases {
		resp := postJSON(t, ts.URL+"/v1/recommendations", body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", name, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
			t.Errorf("%s: content type %q", name, ct)
		}
	}
}

func TestRecommend_EmptyResultIsArrayNotNull(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/recommendations", `{"preferences":{}}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"restaurants":[]`) {
		t.Fatalf("expected empty array, got %s", body)
	}
}

func TestGetRestaurant_Errors(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, _ := http.Get(ts.URL + "/v1/restaurants/abc")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-numeric id: status %d", resp.StatusCode)
	}

	resp, _ = http.Get(ts.URL + "/v1/restaurants/999")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing id: status %d", resp.StatusCode)
	}
}

func TestPopular_RejectsBadN(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, _ := http.Get(ts.URL + "/v1/analytics/popular?n=0")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
}

func TestHealth_OK(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, _ := http.Get(ts.URL + "/healthz")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
}
