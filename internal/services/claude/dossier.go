package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"rolodex/internal/contact"
)

// SynthesizeDossier combines the draft, enrichment data, and research
// findings into a narrative briefing. Empty findings produce a shorter
// dossier rather than an error; the prompt forbids fabricated research.
func (c *Client) SynthesizeDossier(ctx context.Context, draft *contact.Draft, enrichment *contact.Enrichment, findings []contact.Finding) (string, error) {
	if draft == nil {
		return "", fmt.Errorf("synthesize dossier: draft required")
	}

	sections := []string{"Original note from meeting: " + draft.RawNote}

	if parsed, err := json.Marshal(draftSummary(draft)); err == nil {
		sections = append(sections, "Parsed contact info: "+string(parsed))
	}
	if enrichment != nil {
		if encoded, err := json.Marshal(enrichmentSummary(enrichment)); err == nil {
			sections = append(sections, "People-database enrichment: "+string(encoded))
		}
	}
	if len(findings) > 0 {
		var b strings.Builder
		b.WriteString("Web research results:")
		for i, finding := range findings {
			b.WriteString(fmt.Sprintf("\n  [%d] %s (%s)\n  %s", i+1, finding.Title, finding.URL, clip(finding.Snippet, 1000)))
		}
		sections = append(sections, b.String())
	}

	req := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: dossierMaxTokens,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{{
				Type: "text",
				Text: fmt.Sprintf(dossierPrompt, strings.Join(sections, "\n\n")),
			}},
		}},
	}
	content, err := c.complete(ctx, "synthesize dossier", req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func draftSummary(draft *contact.Draft) map[string]string {
	summary := map[string]string{}
	set := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			summary[key] = v
		}
	}
	set("name", draft.Name)
	set("company", draft.Company)
	set("title", draft.Title)
	set("email", draft.Email)
	set("phone", draft.Phone)
	set("event", draft.Event)
	set("context", draft.MeetingContext)
	set("follow_up", draft.FollowUp)
	return summary
}

func enrichmentSummary(e *contact.Enrichment) map[string]string {
	summary := map[string]string{}
	set := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			summary[key] = v
		}
	}
	set("name", e.Name)
	set("title", e.Title)
	set("email", e.Email)
	set("linkedin_url", e.LinkedInURL)
	set("company", e.Company)
	set("company_website", e.CompanyWebsite)
	set("location", e.Location)
	return summary
}

func clip(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
