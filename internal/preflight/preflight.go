// Package preflight verifies that a configuration can actually run a batch
// before the first message is pulled: directory access, ledger health,
// provider reachability, and a report of which optional capabilities are
// active.
package preflight

import (
	"context"
	"fmt"
	"time"

	"rolodex/internal/config"
	"rolodex/internal/ledger"
	"rolodex/internal/services/claude"
	"rolodex/internal/services/notion"
	"rolodex/internal/services/telegram"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable check for the given config. Optional
// capability checks only run when the capability is configured; when it is
// not, a passing informational result records that the stage will be
// skipped.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDataDir(cfg),
		CheckLedger(cfg),
		CheckTelegram(ctx, cfg),
		CheckClaude(ctx, cfg),
		CheckNotion(ctx, cfg),
	}
	results = append(results, CapabilityReport(cfg)...)
	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

// CheckTelegram verifies the bot token with getMe.
func CheckTelegram(ctx context.Context, cfg *config.Config) Result {
	const name = "Telegram bot"
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := telegram.NewClient(telegram.Config{
		BotToken: cfg.Telegram.BotToken,
		BaseURL:  cfg.Telegram.BaseURL,
	})
	if err := client.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckClaude verifies the language-understanding credential with a
// one-token request.
func CheckClaude(ctx context.Context, cfg *config.Config) Result {
	const name = "Claude API"
	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := claude.NewClient(claude.Config{
		APIKey:  cfg.Anthropic.APIKey,
		BaseURL: cfg.Anthropic.BaseURL,
		Model:   cfg.Anthropic.Model,
	}, claude.WithRetryMaxAttempts(1))
	if err := client.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckNotion verifies the database is reachable with the configured token.
func CheckNotion(ctx context.Context, cfg *config.Config) Result {
	const name = "Notion database"
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := notion.NewClient(notion.Config{
		Token:      cfg.Notion.Token,
		DatabaseID: cfg.Notion.DatabaseID,
		BaseURL:    cfg.Notion.BaseURL,
	})
	if err := client.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "database reachable"}
}

// CheckLedger opens the ledger and reads its health summary.
func CheckLedger(cfg *config.Config) Result {
	const name = "Ledger"
	store, err := ledger.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()

	health, err := store.Health(context.Background())
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%s (%d entries, %d failed)", store.Path(), health.Total, health.Failed),
	}
}

// CapabilityReport records which optional capabilities are configured.
func CapabilityReport(cfg *config.Config) []Result {
	return []Result{
		capability("Voice transcription", cfg.VoiceEnabled()),
		capability("Enrichment", cfg.EnrichmentEnabled()),
		capability("Research", cfg.ResearchEnabled()),
	}
}

func capability(name string, enabled bool) Result {
	detail := "not configured (stage skipped)"
	if enabled {
		detail = "configured"
	}
	return Result{Name: name, Passed: true, Detail: detail}
}
