package notion

import (
	"time"

	"rolodex/internal/contact"
)

// buildProperties maps a record onto the database schema. Empty fields are
// omitted entirely rather than written as empty values.
func buildProperties(rec *contact.Record) map[string]any {
	props := map[string]any{
		"Name": map[string]any{
			"title": []any{textSpan(rec.DisplayName(), false)},
		},
		"Date Met": map[string]any{
			"date": map[string]any{"start": rec.CreatedAt.Format(time.DateOnly)},
		},
		"Source": map[string]any{
			"select": map[string]any{"name": string(rec.Source)},
		},
		"Status": map[string]any{
			"select": map[string]any{"name": statusName(rec)},
		},
		"Apollo Enriched": map[string]any{
			"checkbox": rec.Enrichment != nil,
		},
		"Source ID": map[string]any{
			"rich_text": []any{textSpan(rec.SourceID, false)},
		},
	}
	if rec.Company != "" {
		props["Company"] = map[string]any{"rich_text": []any{textSpan(rec.Company, false)}}
	}
	if rec.Title != "" {
		props["Title"] = map[string]any{"rich_text": []any{textSpan(rec.Title, false)}}
	}
	if rec.Email != "" {
		props["Email"] = map[string]any{"email": rec.Email}
	}
	if rec.LinkedInURL != "" {
		props["LinkedIn"] = map[string]any{"url": rec.LinkedInURL}
	}
	return props
}

func statusName(rec *contact.Record) string {
	if rec.NeedsReview {
		return "Needs Review"
	}
	return "New"
}
