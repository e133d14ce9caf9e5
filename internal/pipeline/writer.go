package pipeline

import (
	"context"
	"log/slog"

	"rolodex/internal/contact"
	"rolodex/internal/ledger"
	"rolodex/internal/logging"
	"rolodex/internal/services"
)

// ledgerStore is the slice of the ledger the writer needs.
type ledgerStore interface {
	Claim(ctx context.Context, sourceID, chatID, kind string) (*ledger.Entry, bool, error)
	Complete(ctx context.Context, sourceID, recordURL string, review bool) error
	Release(ctx context.Context, sourceID string) error
}

// pageStore is the slice of the record store the writer needs.
type pageStore interface {
	CreatePage(ctx context.Context, rec *contact.Record) (*contact.Reference, error)
	FindBySourceID(ctx context.Context, sourceID string) (*contact.Reference, error)
}

// Writer persists records with at-most-once semantics: claim the source id
// in the ledger first, create the page only on a fresh claim, complete the
// ledger row with the page URL. A page-creation failure releases the claim
// so a later run retries the message from scratch.
type Writer struct {
	ledger ledgerStore
	pages  pageStore
	logger *slog.Logger
}

// NewWriter constructs a record writer.
func NewWriter(ledgerStore ledgerStore, pages pageStore, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Writer{ledger: ledgerStore, pages: pages, logger: logger}
}

// Write persists a record unless its source id was already processed. The
// returned bool reports whether this call created the record.
func (w *Writer) Write(ctx context.Context, rec *contact.Record) (*contact.Reference, bool, error) {
	entry, created, err := w.ledger.Claim(ctx, rec.SourceID, "", string(rec.Source))
	if err != nil {
		return nil, false, services.Wrap(ErrStoreWrite, StageWrite, "claim", "claim source id", err)
	}
	if !created {
		w.logger.Info("duplicate source id, skipping record write",
			logging.String(logging.FieldSourceID, rec.SourceID),
			logging.String("status", string(entry.Status)))
		return w.resolveDuplicate(ctx, rec.SourceID, entry), false, nil
	}

	ref, err := w.pages.CreatePage(ctx, rec)
	if err != nil {
		if releaseErr := w.ledger.Release(ctx, rec.SourceID); releaseErr != nil {
			w.logger.Error("release claim after failed page create",
				logging.String(logging.FieldSourceID, rec.SourceID),
				logging.Error(releaseErr))
		}
		return nil, false, services.Wrap(ErrStoreWrite, StageWrite, "create page", "create record page", err)
	}

	if err := w.ledger.Complete(ctx, rec.SourceID, ref.URL, rec.NeedsReview); err != nil {
		// The page exists; keep the claim so the record is never duplicated
		// and surface the bookkeeping failure in logs only.
		w.logger.Error("complete ledger entry",
			logging.String(logging.FieldSourceID, rec.SourceID),
			logging.Error(err))
	}
	return ref, true, nil
}

// resolveDuplicate turns a prior ledger entry into a page reference. Entries
// that never completed carry no URL, so the store is asked whether a page
// exists anyway; an unresolved duplicate yields a nil reference.
func (w *Writer) resolveDuplicate(ctx context.Context, sourceID string, entry *ledger.Entry) *contact.Reference {
	if entry.RecordURL != "" {
		return &contact.Reference{URL: entry.RecordURL}
	}
	ref, err := w.pages.FindBySourceID(ctx, sourceID)
	if err != nil {
		w.logger.Warn("resolve duplicate page reference",
			logging.String(logging.FieldSourceID, sourceID),
			logging.Error(err))
		return nil
	}
	return ref
}
