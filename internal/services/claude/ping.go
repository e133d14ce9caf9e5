package claude

import "context"

// Ping issues a minimal one-token request to verify the credential and
// endpoint. Used by preflight; a single attempt, no retries.
func (c *Client) Ping(ctx context.Context) error {
	req := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: 1,
		Messages: []message{{
			Role:    "user",
			Content: []contentBlock{{Type: "text", Text: "ping"}},
		}},
	}
	_, err := c.sendOnce(ctx, req)
	return err
}
