// Package telegram is the bot inbox transport: it pulls pending updates,
// downloads media payloads, sends Markdown replies, and advances the
// update offset once a batch is done.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rolodex/internal/services"
)

const (
	defaultBaseURL     = "https://api.telegram.org"
	defaultHTTPTimeout = 60 * time.Second
)

// Config captures the runtime settings for the transport.
type Config struct {
	BotToken string
	// ChatID restricts inbound processing to one authorized chat when set.
	ChatID  string
	BaseURL string
}

// Client talks to the Telegram Bot API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a Telegram client.
func NewClient(cfg Config, opts ...Option) *Client {
	client := &Client{
		cfg: Config{
			BotToken: strings.TrimSpace(cfg.BotToken),
			ChatID:   strings.TrimSpace(cfg.ChatID),
			BaseURL:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		},
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	return client
}

// Allowed reports whether a chat passes the configured allow-list. An empty
// allow-list admits every chat.
func (c *Client) Allowed(chatID string) bool {
	return c.cfg.ChatID == "" || c.cfg.ChatID == chatID
}

type apiEnvelope struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// Update is one entry from getUpdates, trimmed to the fields the pipeline
// consumes.
type Update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		MessageID int64 `json:"message_id"`
		Date      int64 `json:"date"`
		Chat      struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text    string `json:"text"`
		Caption string `json:"caption"`
		Voice   *struct {
			FileID   string `json:"file_id"`
			MimeType string `json:"mime_type"`
		} `json:"voice"`
		Audio *struct {
			FileID   string `json:"file_id"`
			MimeType string `json:"mime_type"`
		} `json:"audio"`
		Photo []struct {
			FileID   string `json:"file_id"`
			FileSize int64  `json:"file_size"`
		} `json:"photo"`
	} `json:"message"`
}

// GetUpdates fetches pending updates after the given offset. A zero timeout
// makes the call return immediately with whatever is queued.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSeconds, limit int) ([]Update, error) {
	payload := map[string]any{
		"timeout":         timeoutSeconds,
		"allowed_updates": []string{"message"},
	}
	if offset > 0 {
		payload["offset"] = offset
	}
	if limit > 0 {
		payload["limit"] = limit
	}
	body, err := c.call(ctx, "getUpdates", payload)
	if err != nil {
		return nil, fmt.Errorf("telegram get updates: %w", err)
	}
	var updates []Update
	if err := json.Unmarshal(body, &updates); err != nil {
		return nil, fmt.Errorf("telegram get updates: decode result: %w", err)
	}
	return updates, nil
}

// ConfirmOffset acknowledges everything up to and including the given update
// so the next batch starts after it.
func (c *Client) ConfirmOffset(ctx context.Context, lastUpdateID int64) error {
	if lastUpdateID <= 0 {
		return nil
	}
	_, err := c.call(ctx, "getUpdates", map[string]any{
		"offset":  lastUpdateID + 1,
		"timeout": 0,
		"limit":   1,
	})
	if err != nil {
		return fmt.Errorf("telegram confirm offset: %w", err)
	}
	return nil
}

// SendMessage delivers a Markdown-formatted reply to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	_, err := c.call(ctx, "sendMessage", map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return fmt.Errorf("telegram send message: %w", err)
	}
	return nil
}

type fileInfo struct {
	FilePath string `json:"file_path"`
}

// DownloadFile resolves a file id and fetches its bytes.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	body, err := c.call(ctx, "getFile", map[string]any{"file_id": fileID})
	if err != nil {
		return nil, fmt.Errorf("telegram get file: %w", err)
	}
	var info fileInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("telegram get file: decode result: %w", err)
	}
	if info.FilePath == "" {
		return nil, fmt.Errorf("telegram get file: response missing file path")
	}

	endpoint, err := url.JoinPath(c.cfg.BaseURL, "file/bot"+c.cfg.BotToken, info.FilePath)
	if err != nil {
		return nil, fmt.Errorf("telegram download: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("telegram download: new request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram download: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram download: %w: http %d", services.ClassifyHTTPStatus(resp.StatusCode), resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("telegram download: read body: %w", err)
	}
	return data, nil
}

// Ping verifies the bot token with getMe.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.call(ctx, "getMe", map[string]any{}); err != nil {
		return fmt.Errorf("telegram ping: %w", err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	if c.cfg.BotToken == "" {
		return nil, fmt.Errorf("%w: bot token required", services.ErrConfiguration)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "bot"+c.cfg.BotToken, method)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: http %d: %w", resp.StatusCode, err)
	}
	if !envelope.OK {
		return nil, fmt.Errorf("%w: api error: http %d: %s", services.ClassifyHTTPStatus(resp.StatusCode), resp.StatusCode, envelope.Description)
	}
	return envelope.Result, nil
}

// SourceID derives the stable idempotency key for an update.
func SourceID(update Update) string {
	if update.Message == nil {
		return "update:" + strconv.FormatInt(update.UpdateID, 10)
	}
	return strconv.FormatInt(update.Message.Chat.ID, 10) + ":" + strconv.FormatInt(update.Message.MessageID, 10)
}
