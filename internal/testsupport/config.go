// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"rolodex/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with a unique temp data directory per
// test, with all required credentials filled with test values.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Telegram.BotToken = "test-bot-token"
	cfg.Anthropic.APIKey = "test-anthropic-key"
	cfg.Notion.Token = "test-notion-token"
	cfg.Notion.DatabaseID = "test-database-id"
	cfg.Paths.DataDir = filepath.Join(t.TempDir(), "data")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithVoice enables the optional transcription capability on the test config.
func WithVoice() ConfigOption {
	return func(cfg *config.Config) {
		cfg.OpenAI.APIKey = "test-openai-key"
	}
}

// WithEnrichment enables the optional Apollo capability on the test config.
func WithEnrichment() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Apollo.APIKey = "test-apollo-key"
	}
}

// WithResearch enables the optional Exa capability on the test config.
func WithResearch() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Exa.APIKey = "test-exa-key"
	}
}
