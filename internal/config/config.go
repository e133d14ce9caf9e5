package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Telegram contains configuration for the bot inbox transport.
type Telegram struct {
	BotToken string `toml:"bot_token"`
	// ChatID restricts processing to a single authorized chat when set.
	ChatID  string `toml:"chat_id"`
	BaseURL string `toml:"base_url"`
}

// Anthropic contains configuration for the Claude API, the required
// language-understanding capability. Vision and dossier synthesis share
// the same credential.
type Anthropic struct {
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	VisionModel    string `toml:"vision_model"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// OpenAI contains configuration for Whisper voice transcription.
// Leaving the key empty disables the voice capability.
type OpenAI struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Apollo contains configuration for contact enrichment.
// Leaving the key empty disables the enrichment stage.
type Apollo struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Exa contains configuration for semantic web research.
// Leaving the key empty disables the research stage.
type Exa struct {
	APIKey            string `toml:"api_key"`
	BaseURL           string `toml:"base_url"`
	MaxResults        int    `toml:"max_results"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

// Notion contains configuration for the persistent contact store.
type Notion struct {
	Token          string `toml:"token"`
	DatabaseID     string `toml:"database_id"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Paths contains directory configuration.
type Paths struct {
	// DataDir holds the processed-message ledger, the run lock, and logs.
	DataDir string `toml:"data_dir"`
}

// Workflow contains batch run timing limits.
type Workflow struct {
	// BatchLimit caps how many pending updates one run will process.
	BatchLimit int `toml:"batch_limit"`
	// PollTimeoutSeconds bounds the Telegram getUpdates request.
	PollTimeoutSeconds int `toml:"poll_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for rolodex.
type Config struct {
	Telegram  Telegram  `toml:"telegram"`
	Anthropic Anthropic `toml:"anthropic"`
	OpenAI    OpenAI    `toml:"openai"`
	Apollo    Apollo    `toml:"apollo"`
	Exa       Exa       `toml:"exa"`
	Notion    Notion    `toml:"notion"`
	Paths     Paths     `toml:"paths"`
	Workflow  Workflow  `toml:"workflow"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/rolodex/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has credentials resolved from the environment where the file left
// them empty, and all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("rolodex.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data directory used for the ledger, run
// lock, and log files.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.DataDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.DataDir, err)
	}
	return nil
}

// VoiceEnabled reports whether the optional transcription capability is configured.
func (c *Config) VoiceEnabled() bool {
	return strings.TrimSpace(c.OpenAI.APIKey) != ""
}

// EnrichmentEnabled reports whether the optional Apollo capability is configured.
func (c *Config) EnrichmentEnabled() bool {
	return strings.TrimSpace(c.Apollo.APIKey) != ""
}

// ResearchEnabled reports whether the optional Exa capability is configured.
func (c *Config) ResearchEnabled() bool {
	return strings.TrimSpace(c.Exa.APIKey) != ""
}

// LedgerPath returns the SQLite ledger location inside the data directory.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.DataDir, "ledger.db")
}

// LockPath returns the batch run lock location inside the data directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "run.lock")
}

// LogPath returns the log file location inside the data directory.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.DataDir, "rolodex.log")
}

// ExpandPath resolves ~ and relative segments to an absolute path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
