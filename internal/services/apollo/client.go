// Package apollo wraps the Apollo people-search API used by the optional
// enrichment stage. Lookups are best-effort: a no-match result is nil, not
// an error, and the pipeline degrades silently either way.
package apollo

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
	defaultBaseURL     = "https://api.apollo.io"
	searchPath         = "/api/v1/mixed_people/api_search"
	defaultHTTPTimeout = 20 * time.Second
)

// Config captures the runtime settings for the enrichment provider.
type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

// Client calls the Apollo people-search endpoint.
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

// NewClient constructs an Apollo client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:  strings.TrimSpace(cfg.APIKey),
			BaseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

type searchRequest struct {
	PersonName     string `json:"q_person_name"`
	Page           int    `json:"page"`
	PerPage        int    `json:"per_page"`
	CompanyDomains string `json:"q_organization_domains,omitempty"`
}

type searchResponse struct {
	People []struct {
		Name         string `json:"name"`
		Title        string `json:"title"`
		Email        string `json:"email"`
		LinkedInURL  string `json:"linkedin_url"`
		City         string `json:"city"`
		State        string `json:"state"`
		Country      string `json:"country"`
		Organization *struct {
			Name       string `json:"name"`
			WebsiteURL string `json:"website_url"`
		} `json:"organization"`
	} `json:"people"`
}

// Lookup searches for a person by name, optionally disambiguated by a
// company domain hint. The domain narrows the search but is not a hard
// filter: a strong name match with no domain match is still returned.
// A no-match result is (nil, nil).
func (c *Client) Lookup(ctx context.Context, name, companyDomain string) (*contact.Enrichment, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("apollo lookup: %w: api key required", services.ErrConfiguration)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("apollo lookup: %w: name required", services.ErrValidation)
	}

	result, err := c.search(ctx, name, strings.TrimSpace(companyDomain))
	if err != nil {
		return nil, err
	}
	if result == nil && companyDomain != "" {
		// Domain hint may simply be wrong; retry on name alone.
		result, err = c.search(ctx, name, "")
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (c *Client) search(ctx context.Context, name, companyDomain string) (*contact.Enrichment, error) {
	payload := searchRequest{
		PersonName:     name,
		Page:           1,
		PerPage:        1,
		CompanyDomains: companyDomain,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("apollo lookup: encode request: %w", err)
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, searchPath)
	if err != nil {
		return nil, fmt.Errorf("apollo lookup: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("apollo lookup: new request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apollo lookup: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("apollo lookup: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("apollo lookup: %w: http %d: %s", services.ClassifyHTTPStatus(resp.StatusCode), resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("apollo lookup: decode response: %w", err)
	}
	if len(decoded.People) == 0 {
		return nil, nil
	}

	person := decoded.People[0]
	enrichment := &contact.Enrichment{
		Name:        strings.TrimSpace(person.Name),
		Title:       strings.TrimSpace(person.Title),
		Email:       strings.TrimSpace(person.Email),
		LinkedInURL: strings.TrimSpace(person.LinkedInURL),
		Location:    joinLocation(person.City, person.State, person.Country),
	}
	if person.Organization != nil {
		enrichment.Company = strings.TrimSpace(person.Organization.Name)
		enrichment.CompanyWebsite = strings.TrimSpace(person.Organization.WebsiteURL)
	}
	if companyDomain != "" {
		enrichment.ConfidenceNote = fmt.Sprintf("matched on name %q with company domain %q", name, companyDomain)
	} else {
		enrichment.ConfidenceNote = fmt.Sprintf("matched on name %q only", name)
	}
	return enrichment, nil
}

func joinLocation(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, ", ")
}
