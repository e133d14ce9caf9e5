package contact

import "strings"

// Draft is the canonical in-flight contact produced by the entity parser and
// progressively filled by later stages. All fields except RawNote are
// optional; an empty value is a valid state, not an error.
type Draft struct {
	// RawNote preserves the original text verbatim (typed message,
	// transcript, or vision-derived card text).
	RawNote string

	Name    string
	Company string
	Title   string
	Email   string
	Phone   string

	// MeetingContext captures key topics discussed, always supplied by the
	// typed text or caption rather than the card image.
	MeetingContext string
	// Event is where or how the meeting happened, when mentioned.
	Event string
	// FollowUp is the parser's suggested concrete next action.
	FollowUp string
	// CompanyDomain is the parser's best guess at the company website,
	// used only as an enrichment lookup hint.
	CompanyDomain string
}

// HasName reports whether the draft carries a usable contact name.
func (d *Draft) HasName() bool {
	return strings.TrimSpace(d.Name) != ""
}

// Identity returns the name+company string used for research queries.
func (d *Draft) Identity() string {
	name := strings.TrimSpace(d.Name)
	company := strings.TrimSpace(d.Company)
	switch {
	case name == "":
		return company
	case company == "":
		return name
	default:
		return name + " " + company
	}
}

// CardExtraction holds the fields the vision capability could confidently
// read off a business card, plus the OCR-adjacent text it produced. Fields
// the model could not read stay empty.
type CardExtraction struct {
	Name    string
	Company string
	Title   string
	Email   string
	Phone   string
	// RawText is the natural-language rendition of everything visible on
	// the card; it becomes the draft's raw note for photo messages.
	RawText string
}

// Empty reports whether vision extraction produced no structured fields.
func (c CardExtraction) Empty() bool {
	return c.Name == "" && c.Company == "" && c.Title == "" && c.Email == "" && c.Phone == ""
}

// Enrichment is the ephemeral result of a people-data lookup. It is merged
// into a draft under the fill-if-empty rule and then discarded.
type Enrichment struct {
	Name           string
	Title          string
	Email          string
	LinkedInURL    string
	Company        string
	CompanyWebsite string
	Location       string
	// ConfidenceNote describes how the match was made, carried into the
	// record body for the operator's benefit.
	ConfidenceNote string
}

// Finding is one research result. Order follows provider relevance ranking.
type Finding struct {
	Title   string
	URL     string
	Snippet string
}
