package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rolodex/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Verify configuration, storage, and provider reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			out := cmd.OutOrStdout()
			for _, result := range results {
				marker := "ok "
				if !result.Passed {
					marker = "FAIL"
				}
				fmt.Fprintf(out, "[%s] %-20s %s\n", marker, result.Name, result.Detail)
			}
			if !preflight.Passed(results) {
				return fmt.Errorf("preflight failed")
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}
