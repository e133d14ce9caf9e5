// Package exa wraps the Exa semantic search API used by the optional
// research stage. Two complementary queries run per contact and their
// results are merged with URL deduplication, ranked by provider order.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"rolodex/internal/contact"
	"rolodex/internal/services"
)

const (
	defaultBaseURL      = "https://api.exa.ai"
	searchPath          = "/search"
	defaultHTTPTimeout  = 20 * time.Second
	defaultMaxResults   = 5
	snippetMaxChars     = 1500
	defaultPerMinute    = 30
)

// Config captures the runtime settings for the research provider.
type Config struct {
	APIKey            string
	BaseURL           string
	MaxResults        int
	RequestsPerMinute int
	TimeoutSeconds    int
}

// Client calls the Exa search endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLimiter overrides the request rate limiter.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		if limiter != nil {
			c.limiter = limiter
		}
	}
}

// NewClient constructs an Exa client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = defaultPerMinute
	}
	client := &Client{
		cfg: Config{
			APIKey:            strings.TrimSpace(cfg.APIKey),
			BaseURL:           strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			MaxResults:        cfg.MaxResults,
			RequestsPerMinute: perMinute,
		},
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	return client
}

type searchRequest struct {
	Query      string `json:"query"`
	Type       string `json:"type"`
	NumResults int    `json:"numResults"`
	Contents   struct {
		Text struct {
			MaxCharacters int `json:"maxCharacters"`
		} `json:"text"`
	} `json:"contents"`
}

type searchResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Text  string `json:"text"`
	} `json:"results"`
}

// Research runs the query plan for a contact and returns deduplicated
// findings capped at the configured result count. A contact with no name
// yields no queries and an empty result, not an error.
func (c *Client) Research(ctx context.Context, name, company string) ([]contact.Finding, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("exa research: %w: api key required", services.ErrConfiguration)
	}
	queries := buildQueries(name, company)
	if len(queries) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var findings []contact.Finding
	for _, query := range queries {
		if len(findings) >= c.cfg.MaxResults {
			break
		}
		results, err := c.search(ctx, query)
		if err != nil {
			return nil, err
		}
		for _, result := range results {
			if len(findings) >= c.cfg.MaxResults {
				break
			}
			key := canonicalURL(result.URL)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			findings = append(findings, result)
		}
	}
	return findings, nil
}

// buildQueries produces one broad and one activity-focused query when the
// company is known, and a single name query otherwise.
func buildQueries(name, company string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	company = strings.TrimSpace(company)
	if company == "" {
		return []string{name + " professional background"}
	}
	return []string{
		name + " " + company,
		name + " " + company + " interview OR keynote OR article OR LinkedIn",
	}
}

func (c *Client) search(ctx context.Context, query string) ([]contact.Finding, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("exa research: rate limit wait: %w", err)
	}

	payload := searchRequest{
		Query:      query,
		Type:       "neural",
		NumResults: c.cfg.MaxResults,
	}
	payload.Contents.Text.MaxCharacters = snippetMaxChars
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("exa research: encode request: %w", err)
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, searchPath)
	if err != nil {
		return nil, fmt.Errorf("exa research: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("exa research: new request: %w", err)
	}
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exa research: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("exa research: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("exa research: %w: http %d: %s", services.ClassifyHTTPStatus(resp.StatusCode), resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("exa research: decode response: %w", err)
	}

	findings := make([]contact.Finding, 0, len(decoded.Results))
	for _, result := range decoded.Results {
		findings = append(findings, contact.Finding{
			Title:   strings.TrimSpace(result.Title),
			URL:     strings.TrimSpace(result.URL),
			Snippet: strings.TrimSpace(result.Text),
		})
	}
	return findings, nil
}

// canonicalURL strips scheme variance and trailing slashes so the same page
// reached over http and https dedupes to one finding.
func canonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lowered := strings.ToLower(raw)
	lowered = strings.TrimPrefix(lowered, "https://")
	lowered = strings.TrimPrefix(lowered, "http://")
	lowered = strings.TrimPrefix(lowered, "www.")
	return strings.TrimRight(lowered, "/")
}
