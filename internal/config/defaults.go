package config

const (
	defaultDataDir            = "~/.local/share/rolodex"
	defaultTelegramBaseURL    = "https://api.telegram.org"
	defaultAnthropicBaseURL   = "https://api.anthropic.com"
	defaultAnthropicModel     = "claude-sonnet-4-5"
	defaultAnthropicTimeout   = 60
	defaultOpenAIBaseURL      = "https://api.openai.com"
	defaultWhisperModel       = "whisper-1"
	defaultWhisperTimeout     = 120
	defaultApolloBaseURL      = "https://api.apollo.io"
	defaultApolloTimeout      = 20
	defaultExaBaseURL         = "https://api.exa.ai"
	defaultExaMaxResults      = 5
	defaultExaPerMinute       = 30
	defaultExaTimeout         = 20
	defaultNotionBaseURL      = "https://api.notion.com"
	defaultNotionTimeout      = 30
	defaultBatchLimit         = 50
	defaultPollTimeoutSeconds = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Telegram: Telegram{
			BaseURL: defaultTelegramBaseURL,
		},
		Anthropic: Anthropic{
			BaseURL:        defaultAnthropicBaseURL,
			Model:          defaultAnthropicModel,
			VisionModel:    defaultAnthropicModel,
			TimeoutSeconds: defaultAnthropicTimeout,
		},
		OpenAI: OpenAI{
			BaseURL:        defaultOpenAIBaseURL,
			Model:          defaultWhisperModel,
			TimeoutSeconds: defaultWhisperTimeout,
		},
		Apollo: Apollo{
			BaseURL:        defaultApolloBaseURL,
			TimeoutSeconds: defaultApolloTimeout,
		},
		Exa: Exa{
			BaseURL:           defaultExaBaseURL,
			MaxResults:        defaultExaMaxResults,
			RequestsPerMinute: defaultExaPerMinute,
			TimeoutSeconds:    defaultExaTimeout,
		},
		Notion: Notion{
			BaseURL:        defaultNotionBaseURL,
			TimeoutSeconds: defaultNotionTimeout,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Workflow: Workflow{
			BatchLimit:         defaultBatchLimit,
			PollTimeoutSeconds: defaultPollTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
