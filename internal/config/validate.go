package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Absence of an optional
// capability credential is never an error; absence of a required one is
// fatal here, before any message is processed.
func (c *Config) Validate() error {
	if err := c.validateTelegram(); err != nil {
		return err
	}
	if err := c.validateAnthropic(); err != nil {
		return err
	}
	if err := c.validateNotion(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required. Set TELEGRAM_BOT_TOKEN or edit %s (create with 'rolodex config init')", configHint())
	}
	return nil
}

func (c *Config) validateAnthropic() error {
	if c.Anthropic.APIKey == "" {
		return fmt.Errorf("anthropic.api_key is required. Set ANTHROPIC_API_KEY or edit %s", configHint())
	}
	if c.Anthropic.Model == "" {
		return errors.New("anthropic.model must be set")
	}
	return nil
}

func (c *Config) validateNotion() error {
	if c.Notion.Token == "" {
		return fmt.Errorf("notion.token is required. Set NOTION_TOKEN or edit %s", configHint())
	}
	if c.Notion.DatabaseID == "" {
		return fmt.Errorf("notion.database_id is required. Set NOTION_DATABASE_ID or edit %s", configHint())
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.BatchLimit < 1 {
		return errors.New("workflow.batch_limit must be positive")
	}
	return nil
}

func configHint() string {
	path, err := DefaultConfigPath()
	if err != nil {
		return "~/.config/rolodex/config.toml"
	}
	return path
}
