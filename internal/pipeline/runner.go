package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"rolodex/internal/contact"
	"rolodex/internal/inbound"
	"rolodex/internal/logging"
	"rolodex/internal/services"
)

// Capabilities bundles the providers a runner drives. Parser, Vision,
// Synthesizer, and Writer are required; the rest may be the sentinel
// unavailable implementations.
type Capabilities struct {
	Transcriber Transcriber
	Vision      VisionExtractor
	Parser      ContactParser
	Enricher    Enricher
	Researcher  Researcher
	Synthesizer Synthesizer
	Writer      RecordWriter
}

// Result reports what one message produced.
type Result struct {
	Record    *contact.Record
	Reference *contact.Reference
	// Duplicate is true when the record already existed and nothing was
	// written.
	Duplicate bool
	// Degradations lists optional capabilities that were skipped or failed
	// while the record was still saved.
	Degradations []string
}

// Runner executes the capture pipeline for one message at a time.
type Runner struct {
	caps     Capabilities
	notifier *Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// RunnerOption customizes a runner.
type RunnerOption func(*Runner)

// WithClock overrides the runner's time source.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner constructs a pipeline runner.
func NewRunner(caps Capabilities, notifier *Notifier, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	runner := &Runner{
		caps:     caps,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// Process runs one message through every stage. Fatal stage errors are
// reported to the chat and returned; the caller isolates them per message.
// Every processed message yields exactly one terminal notification.
func (r *Runner) Process(ctx context.Context, msg *inbound.Message) (*Result, error) {
	ctx = services.WithSourceID(ctx, msg.SourceID)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, r.logger)

	input, err := inbound.Normalize(msg)
	if err != nil {
		wrapped := services.Wrap(ErrUnsupportedInput, StageNormalize, "classify", "classify message", err)
		logger.Warn("unsupported message kind", logging.String("kind", string(msg.Kind)))
		r.notifier.ReportFailure(ctx, msg.ChatID, StageNormalize, wrapped)
		return nil, wrapped
	}

	r.notifier.Acknowledge(ctx, msg.ChatID, previewFor(input))

	draft, source, degradations, err := r.understand(ctx, logger, input)
	if err != nil {
		r.notifier.ReportFailure(ctx, msg.ChatID, stageOf(err), err)
		return nil, err
	}

	enrichment := r.enrich(ctx, logger, draft)
	draft.ApplyEnrichment(enrichment)
	findings := r.research(ctx, logger, draft)
	dossier := r.synthesize(ctx, logger, draft, enrichment, findings)

	rec := contact.BuildRecord(msg.SourceID, draft, enrichment, dossier, source, r.now())
	ref, created, err := r.caps.Writer.Write(ctx, rec)
	if err != nil {
		r.notifier.ReportFailure(ctx, msg.ChatID, StageWrite, err)
		return nil, err
	}
	if !created {
		logger.Info("duplicate message skipped")
		r.notifier.ConfirmDuplicate(ctx, msg.ChatID, ref)
		return &Result{Record: rec, Reference: ref, Duplicate: true}, nil
	}

	logger.Info("contact record saved",
		logging.String("name", rec.DisplayName()),
		logging.Bool("needs_review", rec.NeedsReview),
		logging.Bool("enriched", rec.Enrichment != nil))
	r.notifier.ConfirmSaved(ctx, msg.ChatID, rec, ref, degradations)
	return &Result{Record: rec, Reference: ref, Degradations: degradations}, nil
}

// understand turns the input variant into a parsed draft. Vision fields win
// over text-parsed fields for identity; text supplies meeting context.
func (r *Runner) understand(ctx context.Context, logger *slog.Logger, input inbound.Input) (*contact.Draft, contact.Source, []string, error) {
	switch input.Kind {
	case inbound.KindText:
		draft, err := r.parse(ctx, input.Text)
		if err != nil {
			return nil, "", nil, err
		}
		return draft, contact.SourceText, nil, nil

	case inbound.KindVoice:
		ctx := services.WithStage(ctx, StageTranscribe)
		transcript, err := r.caps.Transcriber.Transcribe(ctx, input.Audio, input.AudioType)
		var missing *MissingCapabilityError
		if errors.As(err, &missing) {
			logger.Warn("voice note received without transcription capability")
			draft := &contact.Draft{RawNote: "[voice note received; transcription is not configured]"}
			return draft, contact.SourceVoice, []string{"Voice transcription is not configured; saved without a transcript"}, nil
		}
		if err != nil {
			return nil, "", nil, services.Wrap(ErrTranscription, StageTranscribe, "transcribe", "transcribe voice note", err)
		}
		draft, err := r.parse(ctx, transcript)
		if err != nil {
			return nil, "", nil, err
		}
		return draft, contact.SourceVoice, nil, nil

	case inbound.KindPhoto:
		ctx := services.WithStage(ctx, StageVision)
		card, err := r.caps.Vision.ExtractCard(ctx, input.Image, input.ImageType)
		if err != nil {
			return nil, "", nil, services.Wrap(ErrVision, StageVision, "extract card", "read business card", err)
		}
		note := strings.TrimSpace(card.RawText)
		if input.Caption != "" {
			note = strings.TrimSpace(note + "\n" + input.Caption)
		}
		draft, err := r.parse(ctx, note)
		if err != nil {
			return nil, "", nil, err
		}
		draft.ApplyCard(card)
		return draft, contact.SourceCard, nil, nil

	default:
		err := services.Wrap(ErrUnsupportedInput, StageNormalize, "classify", "classify message", &inbound.UnsupportedKindError{Kind: input.Kind})
		return nil, "", nil, err
	}
}

func (r *Runner) parse(ctx context.Context, note string) (*contact.Draft, error) {
	ctx = services.WithStage(ctx, StageParse)
	draft, err := r.caps.Parser.ParseContact(ctx, note)
	if err != nil {
		return nil, services.Wrap(ErrParsing, StageParse, "parse contact", "extract contact fields", err)
	}
	return &draft, nil
}

// enrich is best-effort: unconfigured, no-match, and provider failures all
// degrade to a nil enrichment.
func (r *Runner) enrich(ctx context.Context, logger *slog.Logger, draft *contact.Draft) *contact.Enrichment {
	if !draft.HasName() {
		return nil
	}
	ctx = services.WithStage(ctx, StageEnrich)
	enrichment, err := r.caps.Enricher.Lookup(ctx, draft.Name, draft.CompanyDomain)
	var missing *MissingCapabilityError
	if errors.As(err, &missing) {
		return nil
	}
	if err != nil {
		logger.Warn("enrichment lookup failed", logging.Error(err))
		return nil
	}
	return enrichment
}

// research is best-effort and runs whenever the draft has a name; the
// query builder falls back to a name-only search when the company is
// unknown.
func (r *Runner) research(ctx context.Context, logger *slog.Logger, draft *contact.Draft) []contact.Finding {
	if !draft.HasName() {
		return nil
	}
	ctx = services.WithStage(ctx, StageResearch)
	findings, err := r.caps.Researcher.Research(ctx, draft.Name, draft.Company)
	var missing *MissingCapabilityError
	if errors.As(err, &missing) {
		return nil
	}
	if err != nil {
		logger.Warn("research failed", logging.Error(err))
		return nil
	}
	return findings
}

// synthesize always attempts the dossier; a synthesis failure degrades to
// an empty dossier because the parsed record is still worth saving.
func (r *Runner) synthesize(ctx context.Context, logger *slog.Logger, draft *contact.Draft, enrichment *contact.Enrichment, findings []contact.Finding) string {
	ctx = services.WithStage(ctx, StageDossier)
	dossier, err := r.caps.Synthesizer.SynthesizeDossier(ctx, draft, enrichment, findings)
	if err != nil {
		logger.Warn("dossier synthesis failed", logging.Error(err))
		return ""
	}
	return dossier
}

func previewFor(input inbound.Input) string {
	switch input.Kind {
	case inbound.KindText:
		return input.Text
	case inbound.KindVoice:
		return "voice note"
	case inbound.KindPhoto:
		if input.Caption != "" {
			return "business card — " + input.Caption
		}
		return "business card"
	default:
		return ""
	}
}

// stageOf extracts the stage name for failure notifications.
func stageOf(err error) string {
	switch {
	case errors.Is(err, ErrTranscription):
		return StageTranscribe
	case errors.Is(err, ErrVision):
		return StageVision
	case errors.Is(err, ErrParsing):
		return StageParse
	case errors.Is(err, ErrStoreWrite):
		return StageWrite
	default:
		return StageNormalize
	}
}
