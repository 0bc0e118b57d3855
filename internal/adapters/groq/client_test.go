package groq_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"bistro_finder/internal/adapters/groq"
	"bistro_finder/internal/domain"
)

func pstr(s string) *string { return &s }

func seedList() []domain.Restaurant {
	return []domain.Restaurant{{Name: "Jalsa", Location: pstr("Banashankari")}}
}

func chatBody(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestClient_Summarize_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			w.WriteHeader(500)
		default:
			_ = json.NewEncoder(w).Encode(chatBody("Two great picks near you."))
		}
	}))
	defer ts.Close()

	cl, err := groq.New(ts.URL, "test-key", "", 100, 2*time.Second, 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got, err := cl.Summarize(context.Background(), seedList(), domain.Preferences{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "Two great picks near you." {
		t.Fatalf("unexpected summary: %q", got)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 calls, got %d", hits)
	}
}

func TestClient_Summarize_RetriesExhausted(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	cl, _ := groq.New(ts.URL, "test-key", "", 100, time.Second, 1)
	if _, err := cl.Summarize(context.Background(), seedList(), domain.Preferences{}); err == nil {
		t.Fatalf("expected error after exhausted retries")
	}
}

func TestClient_Summarize_UnauthorizedNotRetried(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(401)
	}))
	defer ts.Close()

	cl, _ := groq.New(ts.URL, "bad-key", "", 100, time.Second, 3)
	_, err := cl.Summarize(context.Background(), seedList(), domain.Preferences{})
	if err == nil {
		t.Fatalf("expected unauthorized error")
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("401 should not be retried, got %d calls", hits)
	}
}

func TestClient_Summarize_EmptyListSkipsCall(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no HTTP call expected for an empty list")
	}))
	defer ts.Close()

	cl, _ := groq.New(ts.URL, "test-key", "", 100, time.Second, 0)
	got, err := cl.Summarize(context.Background(), nil, domain.Preferences{})
	if err != nil || got != "" {
		t.Fatalf("got %q err %v", got, err)
	}
}

func TestClient_Summarize_UnwrapsMarkdownFence(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatBody("```\nJalsa is a lovely spot.\n```"))
	}))
	defer ts.Close()

	cl, _ := groq.New(ts.URL, "test-key", "", 100, time.Second, 0)
	got, err := cl.Summarize(context.Background(), seedList(), domain.Preferences{})
	if err != nil || got != "Jalsa is a lovely spot." {
		t.Fatalf("got %q err %v", got, err)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := groq.New("", "", "", 0, 0, 0); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
