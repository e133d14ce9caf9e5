package contact

import "strings"

// ApplyCard merges vision-extracted card fields into a text-parsed draft.
// The card is the authoritative source for identity fields: name, company,
// title, email, and phone from the image win over text-derived values.
// MeetingContext, Event, and FollowUp always come from the typed text or
// caption and are never touched here.
func (d *Draft) ApplyCard(card CardExtraction) {
	overwrite(&d.Name, card.Name)
	overwrite(&d.Company, card.Company)
	overwrite(&d.Title, card.Title)
	overwrite(&d.Email, card.Email)
	overwrite(&d.Phone, card.Phone)
}

// ApplyEnrichment merges provider data into the draft under the
// fill-if-empty rule: enrichment never overwrites a value the user or the
// card already supplied.
func (d *Draft) ApplyEnrichment(e *Enrichment) {
	if e == nil {
		return
	}
	fillIfEmpty(&d.Title, e.Title)
	fillIfEmpty(&d.Email, e.Email)
	fillIfEmpty(&d.Company, e.Company)
}

func overwrite(target *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*target = v
	}
}

func fillIfEmpty(target *string, value string) {
	if strings.TrimSpace(*target) != "" {
		return
	}
	if v := strings.TrimSpace(value); v != "" {
		*target = v
	}
}
