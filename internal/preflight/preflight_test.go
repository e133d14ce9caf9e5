package preflight_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"rolodex/internal/preflight"
	"rolodex/internal/testsupport"
)

func TestCheckDataDirCreatesAndPasses(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result := preflight.CheckDataDir(cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
}

func TestCheckLedgerReportsHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result := preflight.CheckLedger(cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
}

func TestCheckTelegramAgainstStub(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"username":"rolodex_bot"}}`))
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Telegram.BaseURL = server.URL
	result := preflight.CheckTelegram(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
}

func TestCheckClaudeFailsOnBadCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Anthropic.BaseURL = server.URL
	result := preflight.CheckClaude(context.Background(), cfg)
	if result.Passed {
		t.Fatalf("expected failure, got %+v", result)
	}
}

func TestCapabilityReportReflectsConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithVoice())
	results := preflight.CapabilityReport(cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 capability results, got %d", len(results))
	}
	for _, result := range results {
		if !result.Passed {
			t.Fatalf("capability results are informational, got %+v", result)
		}
	}
	if results[0].Detail != "configured" {
		t.Fatalf("voice should report configured, got %q", results[0].Detail)
	}
	if results[1].Detail == "configured" {
		t.Fatalf("enrichment should report skipped, got %q", results[1].Detail)
	}
}
