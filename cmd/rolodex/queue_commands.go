package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rolodex/internal/ledger"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the processed-message ledger",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueHealthCommand(ctx))
	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List processed messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			var statuses []ledger.Status
			if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
				statuses = append(statuses, ledger.Status(trimmed))
			}
			entries, err := store.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No processed messages")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.SourceID,
					entry.Kind,
					string(entry.Status),
					formatTimestamp(entry.UpdatedAt),
					entryDetail(entry),
				})
			}
			headers := []string{"Source", "Kind", "Status", "Updated", "Detail"}
			if isTerminal(out) {
				fmt.Fprintln(out, renderTable(headers, rows))
				return nil
			}
			for _, row := range rows {
				fmt.Fprintln(out, strings.Join(row, "\t"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Filter by status (completed, review, failed, processing)")
	return cmd
}

func newQueueHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show ledger status counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			health, err := store.Health(cmd.Context())
			if err != nil {
				return err
			}
			offset, err := store.Offset(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total:      %d\n", health.Total)
			fmt.Fprintf(out, "Completed:  %d\n", health.Completed)
			fmt.Fprintf(out, "Review:     %d\n", health.Review)
			fmt.Fprintf(out, "Failed:     %d\n", health.Failed)
			fmt.Fprintf(out, "Processing: %d\n", health.Processing)
			fmt.Fprintf(out, "Offset:     %d\n", offset)
			return nil
		},
	}
}

func formatTimestamp(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02 15:04")
}

func entryDetail(entry *ledger.Entry) string {
	switch entry.Status {
	case ledger.StatusFailed:
		return truncate(entry.ErrorMessage, 60)
	default:
		return truncate(entry.RecordURL, 60)
	}
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
