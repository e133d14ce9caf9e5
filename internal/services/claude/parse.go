package claude

import (
	"context"
	"fmt"
	"strings"

	"rolodex/internal/contact"
)

type parsedContact struct {
	Name          string `json:"name"`
	Company       string `json:"company"`
	Title         string `json:"title"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Event         string `json:"event"`
	Context       string `json:"context"`
	FollowUp      string `json:"follow_up"`
	CompanyDomain string `json:"search_company_domain"`
}

// ParseContact extracts structured contact fields from a free-form note.
// A note yielding no name is not an error; the returned draft simply has an
// empty Name and downstream stages handle it.
func (c *Client) ParseContact(ctx context.Context, rawNote string) (contact.Draft, error) {
	var empty contact.Draft
	note := strings.TrimSpace(rawNote)
	if note == "" {
		return empty, fmt.Errorf("parse contact: note required")
	}

	req := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: defaultMaxTokens,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{{
				Type: "text",
				Text: fmt.Sprintf(contactExtractionPrompt, note),
			}},
		}},
	}
	content, err := c.complete(ctx, "parse contact", req)
	if err != nil {
		return empty, err
	}

	var parsed parsedContact
	if err := DecodeModelJSON(content, &parsed); err != nil {
		return empty, fmt.Errorf("parse contact: decode payload: %w", err)
	}

	return contact.Draft{
		RawNote:        rawNote,
		Name:           strings.TrimSpace(parsed.Name),
		Company:        strings.TrimSpace(parsed.Company),
		Title:          strings.TrimSpace(parsed.Title),
		Email:          strings.TrimSpace(parsed.Email),
		Phone:          strings.TrimSpace(parsed.Phone),
		Event:          strings.TrimSpace(parsed.Event),
		MeetingContext: strings.TrimSpace(parsed.Context),
		FollowUp:       strings.TrimSpace(parsed.FollowUp),
		CompanyDomain:  strings.TrimSpace(parsed.CompanyDomain),
	}, nil
}
