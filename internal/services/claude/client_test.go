package claude_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rolodex/internal/services"
	"rolodex/internal/services/claude"
)

func TestDecodeModelJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"plain object", `{"name":"Sarah Chen"}`, false},
		{"fenced", "```json\n{\"name\":\"Sarah Chen\"}\n```", false},
		{"fenced no lang", "```\n{\"name\":\"Sarah Chen\"}\n```", false},
		{"leading prose", "Here is the JSON you asked for: {\"name\":\"Sarah Chen\"}", false},
		{"empty", "", true},
		{"not json", "no structured content here", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var target struct {
				Name string `json:"name"`
			}
			err := claude.DecodeModelJSON(tc.payload, &target)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected decode error for %q", tc.payload)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeModelJSON failed: %v", err)
			}
			if target.Name != "Sarah Chen" {
				t.Fatalf("unexpected decode result: %q", target.Name)
			}
		})
	}
}

func messagesResponse(text string) string {
	encoded, _ := json.Marshal(map[string]any{
		"content":     []map[string]string{{"type": "text", "text": text}},
		"stop_reason": "end_turn",
	})
	return string(encoded)
}

func TestParseContactDecodesFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Fatalf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messagesResponse(`{
			"name": "Sarah Chen",
			"company": "General Mills",
			"title": "VP Brand Strategy",
			"context": "Talked about organic line.",
			"search_company_domain": "generalmills.com"
		}`)))
	}))
	defer server.Close()

	client := claude.NewClient(claude.Config{APIKey: "test-key", BaseURL: server.URL, Model: "claude-sonnet-4-5"})
	draft, err := client.ParseContact(context.Background(), "Just met Sarah Chen from General Mills, VP Brand Strategy. Talked about organic line.")
	if err != nil {
		t.Fatalf("ParseContact failed: %v", err)
	}
	if draft.Name != "Sarah Chen" || draft.Company != "General Mills" || draft.Title != "VP Brand Strategy" {
		t.Fatalf("unexpected draft: %#v", draft)
	}
	if draft.RawNote != "Just met Sarah Chen from General Mills, VP Brand Strategy. Talked about organic line." {
		t.Fatalf("raw note must be preserved verbatim, got %q", draft.RawNote)
	}
	if draft.CompanyDomain != "generalmills.com" {
		t.Fatalf("expected company domain hint, got %q", draft.CompanyDomain)
	}
}

func TestCompleteRetriesOnServerError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messagesResponse(`{"name":"Joe Blogs"}`)))
	}))
	defer server.Close()

	client := claude.NewClient(
		claude.Config{APIKey: "test-key", BaseURL: server.URL, Model: "claude-sonnet-4-5"},
		claude.WithSleeper(func(time.Duration) {}),
	)
	draft, err := client.ParseContact(context.Background(), "met joe blogs")
	if err != nil {
		t.Fatalf("ParseContact failed after retry: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
	if draft.Name != "Joe Blogs" {
		t.Fatalf("unexpected draft: %#v", draft)
	}
}

func TestCompleteDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"authentication_error","message":"bad key"}}`))
	}))
	defer server.Close()

	client := claude.NewClient(
		claude.Config{APIKey: "bad-key", BaseURL: server.URL, Model: "claude-sonnet-4-5"},
		claude.WithSleeper(func(time.Duration) {}),
	)
	_, err := client.ParseContact(context.Background(), "met someone")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !errors.Is(err, services.ErrProvider) {
		t.Fatalf("401 should classify as a provider error, got %v", err)
	}
	if services.Retryable(err) {
		t.Fatalf("401 must not be retryable: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected no retry on 401, got %d attempts", calls)
	}
}
