package contact_test

import (
	"testing"

	"rolodex/internal/contact"
)

func TestApplyCardCardWinsForIdentityFields(t *testing.T) {
	draft := contact.Draft{
		RawNote:        "met sarah from the conference",
		Name:           "Sarah",
		Company:        "General Mills",
		MeetingContext: "Talked about the organic line.",
	}
	card := contact.CardExtraction{
		Name:  "Sarah Chen",
		Title: "VP Brand Strategy",
		Email: "sarah.chen@generalmills.com",
	}

	draft.ApplyCard(card)

	if draft.Name != "Sarah Chen" {
		t.Fatalf("expected card name to win, got %q", draft.Name)
	}
	if draft.Title != "VP Brand Strategy" {
		t.Fatalf("expected card title, got %q", draft.Title)
	}
	if draft.Company != "General Mills" {
		t.Fatalf("expected text company preserved when card empty, got %q", draft.Company)
	}
	if draft.MeetingContext != "Talked about the organic line." {
		t.Fatalf("meeting context must come from text, got %q", draft.MeetingContext)
	}
}

func TestApplyCardEmptyFieldsDoNotClearDraft(t *testing.T) {
	draft := contact.Draft{Name: "Joe Blogs", Email: "joe@kelloggs.com"}
	draft.ApplyCard(contact.CardExtraction{})
	if draft.Name != "Joe Blogs" || draft.Email != "joe@kelloggs.com" {
		t.Fatalf("empty card fields must not clear parsed values: %#v", draft)
	}
}

func TestApplyEnrichmentFillsOnlyEmptyFields(t *testing.T) {
	draft := contact.Draft{
		Name:  "Sarah Chen",
		Email: "user@given.com",
	}
	draft.ApplyEnrichment(&contact.Enrichment{
		Email:   "other@apollo.io",
		Title:   "VP Brand Strategy",
		Company: "General Mills",
	})

	if draft.Email != "user@given.com" {
		t.Fatalf("enrichment must not overwrite user-supplied email, got %q", draft.Email)
	}
	if draft.Title != "VP Brand Strategy" {
		t.Fatalf("expected empty title filled, got %q", draft.Title)
	}
	if draft.Company != "General Mills" {
		t.Fatalf("expected empty company filled, got %q", draft.Company)
	}
}

func TestApplyEnrichmentNilIsNoop(t *testing.T) {
	draft := contact.Draft{Name: "Sarah Chen"}
	draft.ApplyEnrichment(nil)
	if draft.Name != "Sarah Chen" {
		t.Fatalf("nil enrichment changed draft: %#v", draft)
	}
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		name    string
		draft   contact.Draft
		expect  string
		hasName bool
	}{
		{"both", contact.Draft{Name: "Sarah Chen", Company: "General Mills"}, "Sarah Chen General Mills", true},
		{"name only", contact.Draft{Name: "Sarah Chen"}, "Sarah Chen", true},
		{"company only", contact.Draft{Company: "General Mills"}, "General Mills", false},
		{"neither", contact.Draft{}, "", false},
		{"whitespace name", contact.Draft{Name: "   "}, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.draft.Identity(); got != tc.expect {
				t.Fatalf("Identity() = %q, want %q", got, tc.expect)
			}
			if got := tc.draft.HasName(); got != tc.hasName {
				t.Fatalf("HasName() = %v, want %v", got, tc.hasName)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		record contact.Record
		expect string
	}{
		{"empty", contact.Record{}, "Unknown Contact"},
		{"lowercased note", contact.Record{Name: "sarah chen"}, "Sarah Chen"},
		{"already cased", contact.Record{Name: "Sarah Chen"}, "Sarah Chen"},
		{"mixed case kept", contact.Record{Name: "Ludwig van Beethoven"}, "Ludwig van Beethoven"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.record.DisplayName(); got != tc.expect {
				t.Fatalf("DisplayName() = %q, want %q", got, tc.expect)
			}
		})
	}
}
