package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rolodex/internal/services/telegram"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	var chatID string

	cmd := &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test message to the configured chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target := strings.TrimSpace(chatID)
			if target == "" {
				target = cfg.Telegram.ChatID
			}
			if target == "" {
				return fmt.Errorf("no chat id: set telegram.chat_id or pass --chat-id")
			}

			client := telegram.NewClient(telegram.Config{
				BotToken: cfg.Telegram.BotToken,
				BaseURL:  cfg.Telegram.BaseURL,
			})
			if err := client.SendMessage(cmd.Context(), target, "*Rolodex* test notification — the bot token and chat id work."); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Test notification sent to chat %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&chatID, "chat-id", "", "Chat to notify (defaults to telegram.chat_id)")
	return cmd
}
