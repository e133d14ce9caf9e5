package pipeline

import (
	"context"
	"log/slog"

	"rolodex/internal/inbound"
	"rolodex/internal/ledger"
	"rolodex/internal/logging"
	"rolodex/internal/services/telegram"
)

// Transport is the slice of the bot inbox the batch loop needs.
type Transport interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSeconds, limit int) ([]telegram.Update, error)
	ToMessage(ctx context.Context, update telegram.Update) (*inbound.Message, error)
	ConfirmOffset(ctx context.Context, lastUpdateID int64) error
	Allowed(chatID string) bool
}

// batchLedger is the slice of the ledger the batch loop needs: the update
// cursor plus failure bookkeeping for the queue CLI.
type batchLedger interface {
	Offset(ctx context.Context) (int64, error)
	SetOffset(ctx context.Context, value int64) error
	Claim(ctx context.Context, sourceID, chatID, kind string) (*ledger.Entry, bool, error)
	Fail(ctx context.Context, sourceID, message string) error
}

// Batch pulls pending updates and feeds them through the runner one at a
// time. One Batch.Run call is one scheduled invocation.
type Batch struct {
	transport Transport
	store     batchLedger
	runner    *Runner
	notifier  *Notifier
	logger    *slog.Logger

	pollTimeoutSeconds int
	limit              int
}

// NewBatch constructs a batch orchestrator.
func NewBatch(transport Transport, store batchLedger, runner *Runner, notifier *Notifier, logger *slog.Logger, pollTimeoutSeconds, limit int) *Batch {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Batch{
		transport:          transport,
		store:              store,
		runner:             runner,
		notifier:           notifier,
		logger:             logger,
		pollTimeoutSeconds: pollTimeoutSeconds,
		limit:              limit,
	}
}

// Summary reports what one batch run did.
type Summary struct {
	Received   int
	Saved      int
	Duplicates int
	Failed     int
	Skipped    int
}

// Run processes one batch of pending updates. Message failures are isolated:
// a fatal per-message error is counted and the batch continues. The update
// offset advances past every update the batch saw, including failed ones,
// because each already produced its terminal notification.
func (b *Batch) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	offset, err := b.store.Offset(ctx)
	if err != nil {
		return summary, err
	}

	updates, err := b.transport.GetUpdates(ctx, offset, b.pollTimeoutSeconds, b.limit)
	if err != nil {
		return summary, err
	}
	if len(updates) == 0 {
		b.logger.Info("no pending updates")
		return summary, nil
	}
	summary.Received = len(updates)

	var lastUpdateID int64
	for _, update := range updates {
		if update.UpdateID > lastUpdateID {
			lastUpdateID = update.UpdateID
		}
		b.processUpdate(ctx, update, &summary)
	}

	if err := b.store.SetOffset(ctx, lastUpdateID+1); err != nil {
		return summary, err
	}
	if err := b.transport.ConfirmOffset(ctx, lastUpdateID); err != nil {
		// The local cursor already advanced; next run skips these updates
		// even if Telegram redelivers them.
		b.logger.Warn("confirm offset", logging.Error(err))
	}

	b.logger.Info("batch finished",
		logging.Int("received", summary.Received),
		logging.Int("saved", summary.Saved),
		logging.Int("duplicates", summary.Duplicates),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped))
	return summary, nil
}

func (b *Batch) processUpdate(ctx context.Context, update telegram.Update, summary *Summary) {
	msg, err := b.transport.ToMessage(ctx, update)
	if err != nil {
		b.logger.Error("map update", logging.Int64("update_id", update.UpdateID), logging.Error(err))
		summary.Failed++
		return
	}
	if !b.transport.Allowed(msg.ChatID) {
		b.logger.Warn("message from unauthorized chat skipped",
			logging.String("chat_id", msg.ChatID),
			logging.String(logging.FieldSourceID, msg.SourceID))
		summary.Skipped++
		return
	}
	if msg.Kind == inbound.KindCommand {
		b.notifier.SendHelp(ctx, msg.ChatID)
		summary.Skipped++
		return
	}

	result, err := b.runner.Process(ctx, msg)
	switch {
	case err != nil:
		b.logger.Error("message processing failed",
			logging.String(logging.FieldSourceID, msg.SourceID),
			logging.Error(err))
		b.recordFailure(ctx, msg, err)
		summary.Failed++
	case result.Duplicate:
		summary.Duplicates++
	default:
		summary.Saved++
	}
}

// recordFailure keeps a failed row in the ledger so the queue CLI can show
// what went wrong. The record writer never ran for these messages, so the
// claim is fresh unless the failure happened inside the writer itself.
func (b *Batch) recordFailure(ctx context.Context, msg *inbound.Message, procErr error) {
	if _, _, err := b.store.Claim(ctx, msg.SourceID, msg.ChatID, string(msg.Kind)); err != nil {
		b.logger.Warn("record failure claim", logging.Error(err))
		return
	}
	if err := b.store.Fail(ctx, msg.SourceID, procErr.Error()); err != nil {
		b.logger.Warn("record failure status", logging.Error(err))
	}
}
