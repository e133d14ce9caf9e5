package main

import (
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"rolodex/internal/config"
	"rolodex/internal/ledger"
	"rolodex/internal/logging"
	"rolodex/internal/pipeline"
	"rolodex/internal/services/apollo"
	"rolodex/internal/services/claude"
	"rolodex/internal/services/exa"
	"rolodex/internal/services/notion"
	"rolodex/internal/services/telegram"
	"rolodex/internal/services/whisper"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process one batch of pending Telegram notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lock := flock.New(cfg.LockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another run is in progress (lock held at %s)", cfg.LockPath())
			}
			defer func() { _ = lock.Unlock() }()

			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{"stdout", cfg.LogPath()},
			})
			if err != nil {
				return err
			}

			store, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			if released, err := store.ReleaseStale(cmd.Context()); err != nil {
				return fmt.Errorf("release stale claims: %w", err)
			} else if released > 0 {
				logger.Warn("released stale claims from an interrupted run", logging.Int64("count", released))
			}

			batch := buildBatch(cfg, store, logger)
			summary, err := batch.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Batch complete: %d received, %d saved, %d duplicates, %d failed, %d skipped\n",
				summary.Received, summary.Saved, summary.Duplicates, summary.Failed, summary.Skipped)
			return nil
		},
	}
}

// buildBatch wires providers into the pipeline. Optional capabilities fall
// back to their unavailable sentinels when unconfigured.
func buildBatch(cfg *config.Config, store *ledger.Store, logger *slog.Logger) *pipeline.Batch {
	transport := telegram.NewClient(telegram.Config{
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
		BaseURL:  cfg.Telegram.BaseURL,
	})
	claudeClient := claude.NewClient(claude.Config{
		APIKey:         cfg.Anthropic.APIKey,
		BaseURL:        cfg.Anthropic.BaseURL,
		Model:          cfg.Anthropic.Model,
		VisionModel:    cfg.Anthropic.VisionModel,
		TimeoutSeconds: cfg.Anthropic.TimeoutSeconds,
	})
	pages := notion.NewClient(notion.Config{
		Token:          cfg.Notion.Token,
		DatabaseID:     cfg.Notion.DatabaseID,
		BaseURL:        cfg.Notion.BaseURL,
		TimeoutSeconds: cfg.Notion.TimeoutSeconds,
	})

	var transcriber pipeline.Transcriber = pipeline.UnavailableTranscriber{}
	if cfg.VoiceEnabled() {
		transcriber = whisper.NewClient(whisper.Config{
			APIKey:         cfg.OpenAI.APIKey,
			BaseURL:        cfg.OpenAI.BaseURL,
			Model:          cfg.OpenAI.Model,
			TimeoutSeconds: cfg.OpenAI.TimeoutSeconds,
		})
	}
	var enricher pipeline.Enricher = pipeline.UnavailableEnricher{}
	if cfg.EnrichmentEnabled() {
		enricher = apollo.NewClient(apollo.Config{
			APIKey:         cfg.Apollo.APIKey,
			BaseURL:        cfg.Apollo.BaseURL,
			TimeoutSeconds: cfg.Apollo.TimeoutSeconds,
		})
	}
	var researcher pipeline.Researcher = pipeline.UnavailableResearcher{}
	if cfg.ResearchEnabled() {
		researcher = exa.NewClient(exa.Config{
			APIKey:            cfg.Exa.APIKey,
			BaseURL:           cfg.Exa.BaseURL,
			MaxResults:        cfg.Exa.MaxResults,
			RequestsPerMinute: cfg.Exa.RequestsPerMinute,
			TimeoutSeconds:    cfg.Exa.TimeoutSeconds,
		})
	}

	notifier := pipeline.NewNotifier(transport, logging.NewComponentLogger(logger, "notifier"))
	writer := pipeline.NewWriter(store, pages, logging.NewComponentLogger(logger, "writer"))
	runner := pipeline.NewRunner(pipeline.Capabilities{
		Transcriber: transcriber,
		Vision:      claudeClient,
		Parser:      claudeClient,
		Enricher:    enricher,
		Researcher:  researcher,
		Synthesizer: claudeClient,
		Writer:      writer,
	}, notifier, logging.NewComponentLogger(logger, "pipeline"))

	return pipeline.NewBatch(transport, store, runner, notifier,
		logging.NewComponentLogger(logger, "batch"),
		cfg.Workflow.PollTimeoutSeconds, cfg.Workflow.BatchLimit)
}
