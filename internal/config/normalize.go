package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCredentials()
	c.normalizeEndpoints()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	return nil
}

// normalizeCredentials resolves credentials from the environment when the
// config file leaves them empty. Scheduled runs typically supply everything
// this way.
func (c *Config) normalizeCredentials() {
	fillFromEnv(&c.Telegram.BotToken, "ROLODEX_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	fillFromEnv(&c.Telegram.ChatID, "ROLODEX_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")
	fillFromEnv(&c.Anthropic.APIKey, "ROLODEX_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	fillFromEnv(&c.OpenAI.APIKey, "ROLODEX_OPENAI_API_KEY", "OPENAI_API_KEY")
	fillFromEnv(&c.Apollo.APIKey, "ROLODEX_APOLLO_API_KEY", "APOLLO_API_KEY")
	fillFromEnv(&c.Exa.APIKey, "ROLODEX_EXA_API_KEY", "EXA_API_KEY")
	fillFromEnv(&c.Notion.Token, "ROLODEX_NOTION_TOKEN", "NOTION_TOKEN")
	fillFromEnv(&c.Notion.DatabaseID, "ROLODEX_NOTION_DATABASE_ID", "NOTION_DATABASE_ID")

	c.Telegram.BotToken = strings.TrimSpace(c.Telegram.BotToken)
	c.Telegram.ChatID = strings.TrimSpace(c.Telegram.ChatID)
	c.Anthropic.APIKey = strings.TrimSpace(c.Anthropic.APIKey)
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	c.Apollo.APIKey = strings.TrimSpace(c.Apollo.APIKey)
	c.Exa.APIKey = strings.TrimSpace(c.Exa.APIKey)
	c.Notion.Token = strings.TrimSpace(c.Notion.Token)
	c.Notion.DatabaseID = strings.TrimSpace(c.Notion.DatabaseID)
}

func (c *Config) normalizeEndpoints() {
	setDefault(&c.Telegram.BaseURL, defaultTelegramBaseURL)
	setDefault(&c.Anthropic.BaseURL, defaultAnthropicBaseURL)
	setDefault(&c.Anthropic.Model, defaultAnthropicModel)
	setDefault(&c.Anthropic.VisionModel, c.Anthropic.Model)
	setDefault(&c.OpenAI.BaseURL, defaultOpenAIBaseURL)
	setDefault(&c.OpenAI.Model, defaultWhisperModel)
	setDefault(&c.Apollo.BaseURL, defaultApolloBaseURL)
	setDefault(&c.Exa.BaseURL, defaultExaBaseURL)
	setDefault(&c.Notion.BaseURL, defaultNotionBaseURL)

	if c.Anthropic.TimeoutSeconds <= 0 {
		c.Anthropic.TimeoutSeconds = defaultAnthropicTimeout
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = defaultWhisperTimeout
	}
	if c.Apollo.TimeoutSeconds <= 0 {
		c.Apollo.TimeoutSeconds = defaultApolloTimeout
	}
	if c.Exa.TimeoutSeconds <= 0 {
		c.Exa.TimeoutSeconds = defaultExaTimeout
	}
	if c.Exa.MaxResults <= 0 {
		c.Exa.MaxResults = defaultExaMaxResults
	}
	if c.Exa.RequestsPerMinute <= 0 {
		c.Exa.RequestsPerMinute = defaultExaPerMinute
	}
	if c.Notion.TimeoutSeconds <= 0 {
		c.Notion.TimeoutSeconds = defaultNotionTimeout
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.BatchLimit <= 0 {
		c.Workflow.BatchLimit = defaultBatchLimit
	}
	if c.Workflow.PollTimeoutSeconds < 0 {
		c.Workflow.PollTimeoutSeconds = defaultPollTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func fillFromEnv(target *string, names ...string) {
	if strings.TrimSpace(*target) != "" {
		return
	}
	for _, name := range names {
		if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
			return
		}
	}
}

func setDefault(target *string, fallback string) {
	if strings.TrimSpace(*target) == "" {
		*target = fallback
	}
	*target = strings.TrimRight(strings.TrimSpace(*target), "/")
}
