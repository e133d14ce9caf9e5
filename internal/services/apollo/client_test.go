package apollo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rolodex/internal/services/apollo"
)

func TestLookupMapsFirstPerson(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/mixed_people/api_search" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "apollo-key" {
			t.Fatalf("unexpected api key header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"people":[{"name":"Sarah Chen","title":"VP of Engineering","email":"sarah@acme.com","linkedin_url":"https://linkedin.com/in/sarahchen","city":"Austin","state":"Texas","country":"US","organization":{"name":"Acme Robotics","website_url":"https://acme.com"}}]}`))
	}))
	defer server.Close()

	client := apollo.NewClient(apollo.Config{APIKey: "apollo-key", BaseURL: server.URL})
	enrichment, err := client.Lookup(context.Background(), "Sarah Chen", "acme.com")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if enrichment == nil {
		t.Fatal("expected enrichment, got nil")
	}
	if captured["q_person_name"] != "Sarah Chen" {
		t.Fatalf("unexpected q_person_name %v", captured["q_person_name"])
	}
	if captured["q_organization_domains"] != "acme.com" {
		t.Fatalf("unexpected q_organization_domains %v", captured["q_organization_domains"])
	}
	if captured["per_page"] != float64(1) {
		t.Fatalf("unexpected per_page %v", captured["per_page"])
	}
	if enrichment.Title != "VP of Engineering" {
		t.Fatalf("unexpected title %q", enrichment.Title)
	}
	if enrichment.Company != "Acme Robotics" {
		t.Fatalf("unexpected company %q", enrichment.Company)
	}
	if enrichment.CompanyWebsite != "https://acme.com" {
		t.Fatalf("unexpected website %q", enrichment.CompanyWebsite)
	}
	if enrichment.Location != "Austin, Texas, US" {
		t.Fatalf("unexpected location %q", enrichment.Location)
	}
}

func TestLookupRetriesWithoutDomainOnNoMatch(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		domain, _ := payload["q_organization_domains"].(string)
		requests = append(requests, domain)
		w.Header().Set("Content-Type", "application/json")
		if domain != "" {
			_, _ = w.Write([]byte(`{"people":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"people":[{"name":"Sarah Chen","title":"VP of Engineering"}]}`))
	}))
	defer server.Close()

	client := apollo.NewClient(apollo.Config{APIKey: "apollo-key", BaseURL: server.URL})
	enrichment, err := client.Lookup(context.Background(), "Sarah Chen", "wrong-domain.example")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if enrichment == nil {
		t.Fatal("expected fallback match, got nil")
	}
	if len(requests) != 2 || requests[0] != "wrong-domain.example" || requests[1] != "" {
		t.Fatalf("unexpected request sequence %v", requests)
	}
}

func TestLookupNoMatchReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"people":[]}`))
	}))
	defer server.Close()

	client := apollo.NewClient(apollo.Config{APIKey: "apollo-key", BaseURL: server.URL})
	enrichment, err := client.Lookup(context.Background(), "Nobody Anywhere", "")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if enrichment != nil {
		t.Fatalf("expected nil enrichment, got %+v", enrichment)
	}
}

func TestLookupProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exhausted", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := apollo.NewClient(apollo.Config{APIKey: "apollo-key", BaseURL: server.URL})
	if _, err := client.Lookup(context.Background(), "Sarah Chen", ""); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
