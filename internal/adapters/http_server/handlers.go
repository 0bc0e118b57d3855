// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"bistro_finder/internal/app"
	"bistro_finder/internal/domain"
)

type Handlers struct {
	Rec   *app.RecommendationService
	Store domain.RestaurantStore
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", h.health)
	s.mux.Post("/v1/recommendations", h.recommend)
	s.mux.Get("/v1/restaurants/{id}", h.getRestaurant)
	s.mux.Get("/v1/locations", h.listLocations)
	s.mux.Get("/v1/cuisines", h.listCuisines)
	s.mux.Get("/v1/analytics/popular", h.popular)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

type recommendRequest struct {
	Preferences  domain.Preferences `json:"preferences"`
	TopN         int                `json:"top_n"`
	RelaxIfEmpty bool               `json:"relax_if_empty"`
}

func (req recommendRequest) validate() error {
	p := req.Preferences
	if req.TopN < 0 || req.TopN > app.MaxTopN {
		return fmt.Errorf("top_n must be between 1 and %d", app.MaxTopN)
	}
	if p.MinRating != nil && (*p.MinRating < 0 || *p.MinRating > 5) {
		return errors.New("min_rating must be between 0 and 5")
	}
	if p.MaxRating != nil && (*p.MaxRating < 0 || *p.MaxRating > 5) {
		return errors.New("max_rating must be between 0 and 5")
	}
	if p.MinRating != nil && p.MaxRating != nil && *p.MinRating > *p.MaxRating {
		return errors.New("min_rating must not exceed max_rating")
	}
	if p.MinCost != nil && *p.MinCost < 0 {
		return errors.New("min_cost must not be negative")
	}
	if p.MaxCost != nil && *p.MaxCost < 0 {
		return errors.New("max_cost must not be negative")
	}
	if p.MinCost != nil && p.MaxCost != nil && *p.MinCost > *p.MaxCost {
		return errors.New("min_cost must not exceed max_cost")
	}
	return nil
}

func (h *Handlers) recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be valid JSON")
		return
	}
	if err := req.validate(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	rec, err := h.Rec.Recommend(r.Context(), req.Preferences, req.TopN, req.RelaxIfEmpty)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Recommendation failed", "could not query the restaurant store")
		return
	}
	if rec.Restaurants == nil {
		rec.Restaurants = []domain.Restaurant{}
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handlers) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	rest, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "restaurant not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Lookup failed", "could not query the restaurant store")
		return
	}
	writeCacheable(w, r, rest)
}

func (h *Handlers) listLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.Store.DistinctLocations(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Lookup failed", "could not query the restaurant store")
		return
	}
	if locs == nil {
		locs = []string{}
	}
	writeCacheable(w, r, map[string]any{"locations": locs})
}

func (h *Handlers) listCuisines(w http.ResponseWriter, r *http.Request) {
	cuisines, err := h.Store.DistinctCuisines(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Lookup failed", "could not query the restaurant store")
		return
	}
	if cuisines == nil {
		cuisines = []string{}
	}
	writeCacheable(w, r, map[string]any{"cuisines": cuisines})
}

func (h *Handlers) popular(w http.ResponseWriter, r *http.Request) {
	n := 10
	if ns := r.URL.Query().Get("n"); ns != "" {
		v, err := strconv.Atoi(ns)
		if err != nil || v <= 0 || v > 100 {
			writeProblem(w, http.StatusBadRequest, "Invalid n", "n must be an integer between 1 and 100")
			return
		}
		n = v
	}
	requests, relaxed, locations, cuisines := h.Rec.Analytics().Snapshot(n)
	writeJSON(w, http.StatusOK, map[string]any{
		"requests":  requests,
		"relaxed":   relaxed,
		"locations": locations,
		"cuisines":  cuisines,
	})
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	count, err := h.Store.Count(r.Context())
	if err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Store unavailable", "could not reach the restaurant store")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "restaurants": count})
}
