// Package pipeline runs the capture flow for one inbound message: classify,
// understand, enrich, research, synthesize, persist, notify. Each provider
// sits behind a capability interface so unconfigured services degrade
// instead of failing the batch.
package pipeline

import (
	"context"
	"fmt"

	"rolodex/internal/contact"
)

// Transcriber converts a voice note into text. Optional capability.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mediaType string) (string, error)
}

// VisionExtractor reads a business card image. Backed by the required
// language-understanding provider.
type VisionExtractor interface {
	ExtractCard(ctx context.Context, image []byte, mediaType string) (contact.CardExtraction, error)
}

// ContactParser extracts structured contact fields from free-form text.
// Required capability.
type ContactParser interface {
	ParseContact(ctx context.Context, rawNote string) (contact.Draft, error)
}

// Enricher looks up professional data for a named person. Optional
// capability; a no-match result is (nil, nil).
type Enricher interface {
	Lookup(ctx context.Context, name, companyDomain string) (*contact.Enrichment, error)
}

// Researcher gathers public findings about a person. Optional capability.
type Researcher interface {
	Research(ctx context.Context, name, company string) ([]contact.Finding, error)
}

// Synthesizer writes the dossier from everything the earlier stages
// collected. Backed by the required language-understanding provider.
type Synthesizer interface {
	SynthesizeDossier(ctx context.Context, draft *contact.Draft, enrichment *contact.Enrichment, findings []contact.Finding) (string, error)
}

// RecordWriter persists a finished record at most once per source id. The
// returned bool reports whether this call created the record; false means a
// prior run already did and the reference points at the existing one.
type RecordWriter interface {
	Write(ctx context.Context, rec *contact.Record) (*contact.Reference, bool, error)
}

// MessageSender delivers user-facing confirmations back to the chat the
// note came from.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// MissingCapabilityError reports an operation that needed an unconfigured
// optional service. It selects the degraded path, never a batch failure.
type MissingCapabilityError struct {
	Capability string
}

func (e *MissingCapabilityError) Error() string {
	return fmt.Sprintf("capability %q is not configured", e.Capability)
}

// UnavailableTranscriber is the sentinel used when voice transcription is
// not configured.
type UnavailableTranscriber struct{}

func (UnavailableTranscriber) Transcribe(context.Context, []byte, string) (string, error) {
	return "", &MissingCapabilityError{Capability: "voice transcription"}
}

// UnavailableEnricher is the sentinel used when enrichment is not configured.
type UnavailableEnricher struct{}

func (UnavailableEnricher) Lookup(context.Context, string, string) (*contact.Enrichment, error) {
	return nil, &MissingCapabilityError{Capability: "enrichment"}
}

// UnavailableResearcher is the sentinel used when research is not configured.
type UnavailableResearcher struct{}

func (UnavailableResearcher) Research(context.Context, string, string) ([]contact.Finding, error) {
	return nil, &MissingCapabilityError{Capability: "research"}
}
