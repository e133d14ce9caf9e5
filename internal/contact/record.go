package contact

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Source labels the input kind a record originated from.
type Source string

const (
	SourceText  Source = "Text"
	SourceVoice Source = "Voice Note"
	SourceCard  Source = "Business Card"
)

// Record is the finalized contact, persisted exactly once per SourceID and
// never updated afterwards.
type Record struct {
	// SourceID identifies the inbound message this record came from and
	// enforces at-most-once persistence.
	SourceID string

	Name        string
	Company     string
	Title       string
	Email       string
	Phone       string
	LinkedInURL string

	RawNote      string
	MeetingNotes string
	Event        string
	FollowUp     string
	DossierText  string

	// Enrichment carries provider data shown in the record body; nil when
	// the enrichment stage was skipped or found no match.
	Enrichment *Enrichment

	Source Source
	// NeedsReview flags records persisted without a usable name.
	NeedsReview bool
	CreatedAt   time.Time
}

// Reference points at a persisted record.
type Reference struct {
	// PageID is the store's stable identifier for the record.
	PageID string
	// URL is the user-facing link included in confirmations.
	URL string
}

var nameCaser = cases.Title(language.English, cases.NoLower)

// DisplayName returns the record's name for user-facing output, title-cased
// when the source text arrived all-lowercase (common in hurried notes), or
// "Unknown Contact" when no name was parsed.
func (r *Record) DisplayName() string {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return "Unknown Contact"
	}
	if name == strings.ToLower(name) {
		return nameCaser.String(name)
	}
	return name
}

// BuildRecord folds a finished draft, enrichment, and dossier into the
// record handed to the writer.
func BuildRecord(sourceID string, draft *Draft, enrichment *Enrichment, dossier string, source Source, now time.Time) *Record {
	rec := &Record{
		SourceID:     sourceID,
		Name:         strings.TrimSpace(draft.Name),
		Company:      strings.TrimSpace(draft.Company),
		Title:        strings.TrimSpace(draft.Title),
		Email:        strings.TrimSpace(draft.Email),
		Phone:        strings.TrimSpace(draft.Phone),
		RawNote:      draft.RawNote,
		MeetingNotes: strings.TrimSpace(draft.MeetingContext),
		Event:        strings.TrimSpace(draft.Event),
		FollowUp:     strings.TrimSpace(draft.FollowUp),
		DossierText:  strings.TrimSpace(dossier),
		Enrichment:   enrichment,
		Source:       source,
		CreatedAt:    now.UTC(),
	}
	if enrichment != nil {
		rec.LinkedInURL = strings.TrimSpace(enrichment.LinkedInURL)
	}
	rec.NeedsReview = rec.Name == ""
	return rec
}
