// Package whisper wraps the OpenAI audio transcription API, the optional
// voice-note capability. When no API key is configured the pipeline runs a
// sentinel unavailable implementation instead of this client.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rolodex/internal/services"
)

const (
	defaultBaseURL     = "https://api.openai.com"
	defaultModel       = "whisper-1"
	defaultHTTPTimeout = 120 * time.Second
)

// Config captures the runtime settings for the transcription API.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client calls the Whisper transcription endpoint.
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

// NewClient constructs a Whisper client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:  strings.TrimSpace(cfg.APIKey),
			BaseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:   strings.TrimSpace(cfg.Model),
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.Model == "" {
		client.cfg.Model = defaultModel
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Transcribe uploads audio bytes and returns the transcript text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mediaType string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("transcribe: %w: api key required", services.ErrConfiguration)
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("transcribe: %w: audio required", services.ErrValidation)
	}

	filename := "voice.ogg"
	if strings.Contains(mediaType, "mp4") || strings.Contains(mediaType, "m4a") {
		filename = "voice.m4a"
	} else if strings.Contains(mediaType, "mpeg") || strings.Contains(mediaType, "mp3") {
		filename = "voice.mp3"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("transcribe: build form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("transcribe: write audio: %w", err)
	}
	if err := writer.WriteField("model", c.cfg.Model); err != nil {
		return "", fmt.Errorf("transcribe: write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("transcribe: close form: %w", err)
	}

	endpoint, err := url.JoinPath(c.cfg.BaseURL, "/v1/audio/transcriptions")
	if err != nil {
		return "", fmt.Errorf("transcribe: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("transcribe: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcribe: request failed: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("transcribe: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("transcribe: %w: http %d: %s", services.ClassifyHTTPStatus(resp.StatusCode), resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", fmt.Errorf("transcribe: decode response: %w", err)
	}
	text := strings.TrimSpace(decoded.Text)
	if text == "" {
		return "", fmt.Errorf("transcribe: empty transcript")
	}
	return text, nil
}
