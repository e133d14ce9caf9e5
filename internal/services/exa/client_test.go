package exa_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"

	"rolodex/internal/services/exa"
)

func TestResearchDeduplicatesAcrossQueries(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "exa-key" {
			t.Fatalf("unexpected api key header %q", got)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		query, _ := payload["query"].(string)
		queries = append(queries, query)
		if payload["type"] != "neural" {
			t.Fatalf("unexpected search type %v", payload["type"])
		}
		w.Header().Set("Content-Type", "application/json")
		if len(queries) == 1 {
			_, _ = w.Write([]byte(`{"results":[
				{"title":"Acme leadership","url":"https://acme.com/team","text":"Sarah leads engineering."},
				{"title":"Conference talk","url":"https://example.org/talk","text":"Keynote on robotics."}
			]}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[
			{"title":"Acme leadership (dup)","url":"http://www.acme.com/team/","text":"Duplicate page."},
			{"title":"Interview","url":"https://news.example.com/interview","text":"Scaling teams."}
		]}`))
	}))
	defer server.Close()

	client := exa.NewClient(
		exa.Config{APIKey: "exa-key", BaseURL: server.URL, MaxResults: 5},
		exa.WithLimiter(rate.NewLimiter(rate.Inf, 1)),
	)
	findings, err := client.Research(context.Background(), "Sarah Chen", "Acme Robotics")
	if err != nil {
		t.Fatalf("Research returned error: %v", err)
	}
	if len(queries) != 2 {
		t.Fatalf("expected two queries, got %v", queries)
	}
	if queries[0] != "Sarah Chen Acme Robotics" {
		t.Fatalf("unexpected first query %q", queries[0])
	}
	if len(findings) != 3 {
		t.Fatalf("expected 3 deduplicated findings, got %d", len(findings))
	}
	if findings[0].URL != "https://acme.com/team" {
		t.Fatalf("unexpected first finding %+v", findings[0])
	}
	for _, finding := range findings {
		if finding.Title == "Acme leadership (dup)" {
			t.Fatal("duplicate URL survived deduplication")
		}
	}
}

func TestResearchCapsAtMaxResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		results := make([]map[string]string, 0, 10)
		for i := 0; i < 10; i++ {
			results = append(results, map[string]string{
				"title": fmt.Sprintf("Result %d", i),
				"url":   fmt.Sprintf("https://example.com/%d", i),
				"text":  "snippet",
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": results})
	}))
	defer server.Close()

	client := exa.NewClient(
		exa.Config{APIKey: "exa-key", BaseURL: server.URL, MaxResults: 3},
		exa.WithLimiter(rate.NewLimiter(rate.Inf, 1)),
	)
	findings, err := client.Research(context.Background(), "Sarah Chen", "Acme Robotics")
	if err != nil {
		t.Fatalf("Research returned error: %v", err)
	}
	if len(findings) != 3 {
		t.Fatalf("expected cap of 3 findings, got %d", len(findings))
	}
}

func TestResearchWithoutNameReturnsNothing(t *testing.T) {
	client := exa.NewClient(exa.Config{APIKey: "exa-key", BaseURL: "http://unused.invalid"})
	findings, err := client.Research(context.Background(), "   ", "Acme Robotics")
	if err != nil {
		t.Fatalf("Research returned error: %v", err)
	}
	if findings != nil {
		t.Fatalf("expected no findings, got %v", findings)
	}
}

func TestResearchProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := exa.NewClient(
		exa.Config{APIKey: "exa-key", BaseURL: server.URL},
		exa.WithLimiter(rate.NewLimiter(rate.Inf, 1)),
	)
	if _, err := client.Research(context.Background(), "Sarah Chen", ""); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
