package claude

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"rolodex/internal/contact"
)

type extractedCard struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Title   string `json:"title"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	RawText string `json:"raw_text"`
}

// ExtractCard reads a business-card photo with the vision model and returns
// the fields it could confidently read. Fields absent from the image stay
// empty; an unreadable image is an error.
func (c *Client) ExtractCard(ctx context.Context, image []byte, mediaType string) (contact.CardExtraction, error) {
	var empty contact.CardExtraction
	if len(image) == 0 {
		return empty, fmt.Errorf("extract card: image required")
	}
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		mediaType = "image/jpeg"
	}

	req := messagesRequest{
		Model:     c.cfg.VisionModel,
		MaxTokens: defaultMaxTokens,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{
				{
					Type: "image",
					Source: &imageSource{
						Type:      "base64",
						MediaType: mediaType,
						Data:      base64.StdEncoding.EncodeToString(image),
					},
				},
				{Type: "text", Text: cardExtractionPrompt},
			},
		}},
	}
	content, err := c.complete(ctx, "extract card", req)
	if err != nil {
		return empty, err
	}

	var parsed extractedCard
	if err := DecodeModelJSON(content, &parsed); err != nil {
		return empty, fmt.Errorf("extract card: decode payload: %w", err)
	}

	return contact.CardExtraction{
		Name:    strings.TrimSpace(parsed.Name),
		Company: strings.TrimSpace(parsed.Company),
		Title:   strings.TrimSpace(parsed.Title),
		Email:   strings.TrimSpace(parsed.Email),
		Phone:   strings.TrimSpace(parsed.Phone),
		RawText: strings.TrimSpace(parsed.RawText),
	}, nil
}
