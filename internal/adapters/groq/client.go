// Package groq implements the Summarizer port against the Groq
// chat-completions API. The filtered restaurant list is the single
// source of truth: the model only ever sees that list, and its output
// is treated as opaque text by the caller.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"bistro_finder/internal/adapters/observability"
	"bistro_finder/internal/domain"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.1-8b-instant"

	maxTokens   = 1024
	temperature = 0.3
)

var (
	ErrUnauthorized = errors.New("groq: unauthorized")
	ErrRateLimited  = errors.New("groq: rate limited")
)

type Client struct {
	base    string
	hc      *http.Client
	key     string
	model   string
	rl      *rate.Limiter
	retries int
}

// New builds a Groq client. retries is the number of immediate retries
// after the first attempt; timeout bounds each HTTP call.
func New(base, key, model string, rps int, timeout time.Duration, retries int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if rps <= 0 {
		rps = 2
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if retries < 0 {
		retries = 2
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		hc:      &http.Client{Timeout: timeout},
		key:     key,
		model:   model,
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
		retries: retries,
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Summarize asks the model for a short summary of the filtered list.
// Empty output (no choices, blank content) returns "" without error.
func (c *Client) Summarize(ctx context.Context, restaurants []domain.Restaurant, prefs domain.Preferences) (string, error) {
	if len(restaurants) == 0 {
		return "", nil
	}
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    buildMessages(restaurants, prefs),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		raw, err := c.post(ctx, body)
		if err == nil {
			return parseSummary(raw), nil
		}
		if errors.Is(err, ErrUnauthorized) || ctx.Err() != nil {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

func (c *Client) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("groq", "chat_completions", 0, time.Since(start))
		return "", err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("groq", "chat_completions", resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK:
		var out chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", err
		}
		if len(out.Choices) == 0 {
			return "", nil
		}
		return out.Choices[0].Message.Content, nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrUnauthorized

	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return "", ErrRateLimited

	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("groq: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

const systemPrompt = `You are a summarization assistant for restaurant search results. You receive the complete filtered list - the only restaurants that matched the user's search. Write a short (2-4 sentence) friendly summary highlighting 2-3 restaurants from the list.

Rules (strict):
- The list is the single source of truth. Only mention restaurants that appear in it, using their exact names.
- Never add, invent, or reference a restaurant that is not in the list.
- When the user selected a cuisine filter, describe restaurants only in terms matching that cuisine and the user's other filters.
- Use a warm, conversational tone.`

func buildMessages(restaurants []domain.Restaurant, prefs domain.Preferences) []message {
	var b strings.Builder
	b.WriteString("User searched for: ")
	b.WriteString(formatPreferences(prefs))
	b.WriteString("\n\nMatching restaurants:\n")
	for i, r := range restaurants {
		b.WriteString(formatRestaurant(r, i+1))
		b.WriteString("\n")
	}
	return []message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
	}
}

func formatRestaurant(r domain.Restaurant, index int) string {
	parts := []string{fmt.Sprintf("%d. %s", index, r.Name)}
	if r.Location != nil {
		parts = append(parts, "   Location: "+*r.Location)
	}
	if r.Rate != nil {
		parts = append(parts, fmt.Sprintf("   Rating: %.1f/5", *r.Rate))
	}
	if r.CostForTwo != nil {
		parts = append(parts, fmt.Sprintf("   Cost for two: ₹%d", *r.CostForTwo))
	}
	if r.Cuisines != nil {
		parts = append(parts, "   Cuisines: "+*r.Cuisines)
	}
	if r.RestType != nil {
		parts = append(parts, "   Type: "+*r.RestType)
	}
	if r.DishLiked != nil {
		parts = append(parts, "   Popular dishes: "+*r.DishLiked)
	}
	return strings.Join(parts, "\n")
}

func formatPreferences(p domain.Preferences) string {
	var parts []string
	if p.Location != nil {
		parts = append(parts, "Location: "+*p.Location)
	}
	if p.MinRating != nil {
		parts = append(parts, fmt.Sprintf("Minimum rating: %.1f/5", *p.MinRating))
	}
	if p.MaxRating != nil {
		parts = append(parts, fmt.Sprintf("Maximum rating: %.1f/5", *p.MaxRating))
	}
	if p.MinCost != nil {
		parts = append(parts, fmt.Sprintf("Minimum cost for two: ₹%d", *p.MinCost))
	}
	if p.MaxCost != nil {
		parts = append(parts, fmt.Sprintf("Maximum cost for two: ₹%d", *p.MaxCost))
	}
	if len(p.Cuisines) > 0 {
		parts = append(parts, "Cuisines: "+strings.Join(p.Cuisines, ", "))
	}
	if p.RestType != nil {
		parts = append(parts, "Restaurant type: "+*p.RestType)
	}
	if len(parts) == 0 {
		return "No specific preferences (showing matching restaurants)."
	}
	return strings.Join(parts, " | ")
}

var fenceRe = regexp.MustCompile("(?s)^```(?:\\w*)\\s*\\n?(.*?)\\n?```\\s*$")

// parseSummary trims the raw model output and unwraps an optional
// markdown code fence.
func parseSummary(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	return text
}
