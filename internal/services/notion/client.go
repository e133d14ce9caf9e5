// Package notion persists finished contact records as pages in a Notion
// database. Page creation is the commit point of the pipeline: a record
// exists once the page does, and pages are never updated afterwards.
package notion

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

	"rolodex/internal/contact"
	"rolodex/internal/services"
)

const (
	defaultBaseURL     = "https://api.notion.com"
	apiVersion         = "2022-06-28"
	defaultHTTPTimeout = 30 * time.Second
)

// Config captures the runtime settings for the record store.
type Config struct {
	Token          string
	DatabaseID     string
	BaseURL        string
	TimeoutSeconds int
}

// Client talks to the Notion API.
type Client struct {
	cfg        Config
	httpClient *http.Client
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

// NewClient constructs a Notion client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			Token:      strings.TrimSpace(cfg.Token),
			DatabaseID: strings.TrimSpace(cfg.DatabaseID),
			BaseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	return client
}

type pageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type queryResponse struct {
	Results []pageResponse `json:"results"`
}

// CreatePage persists a record as a new database page and returns a
// reference to it.
func (c *Client) CreatePage(ctx context.Context, rec *contact.Record) (*contact.Reference, error) {
	if rec == nil {
		return nil, fmt.Errorf("notion create: %w: record required", services.ErrValidation)
	}
	payload := map[string]any{
		"parent":     map[string]any{"database_id": c.cfg.DatabaseID},
		"properties": buildProperties(rec),
		"children":   buildChildren(rec),
	}
	body, err := c.post(ctx, "/v1/pages", payload)
	if err != nil {
		return nil, fmt.Errorf("notion create: %w", err)
	}

	var page pageResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("notion create: decode response: %w", err)
	}
	if page.ID == "" {
		return nil, fmt.Errorf("notion create: response missing page id")
	}
	return &contact.Reference{PageID: page.ID, URL: page.URL}, nil
}

// FindBySourceID queries the database for a page already created from the
// given inbound message. A missing page is (nil, nil).
func (c *Client) FindBySourceID(ctx context.Context, sourceID string) (*contact.Reference, error) {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		return nil, fmt.Errorf("notion query: %w: source id required", services.ErrValidation)
	}
	payload := map[string]any{
		"filter": map[string]any{
			"property":  "Source ID",
			"rich_text": map[string]any{"equals": sourceID},
		},
		"page_size": 1,
	}
	body, err := c.post(ctx, "/v1/databases/"+c.cfg.DatabaseID+"/query", payload)
	if err != nil {
		return nil, fmt.Errorf("notion query: %w", err)
	}

	var decoded queryResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("notion query: decode response: %w", err)
	}
	if len(decoded.Results) == 0 {
		return nil, nil
	}
	return &contact.Reference{PageID: decoded.Results[0].ID, URL: decoded.Results[0].URL}, nil
}

// Ping verifies the database is reachable with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "/v1/databases/"+c.cfg.DatabaseID)
	if err != nil {
		return fmt.Errorf("notion ping: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("notion ping: new request: %w", err)
	}
	c.setHeaders(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion ping: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notion ping: %w: http %d: %s", services.ClassifyHTTPStatus(resp.StatusCode), resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	if c.cfg.Token == "" {
		return nil, fmt.Errorf("%w: token required", services.ErrConfiguration)
	}
	if c.cfg.DatabaseID == "" {
		return nil, fmt.Errorf("%w: database id required", services.ErrConfiguration)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, path)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: http %d: %s", services.ClassifyHTTPStatus(resp.StatusCode), resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")
}
