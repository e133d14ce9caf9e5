package pipeline_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"rolodex/internal/contact"
	"rolodex/internal/inbound"
	"rolodex/internal/ledger"
	"rolodex/internal/pipeline"
	"rolodex/internal/services/telegram"
	"rolodex/internal/testsupport"
)

type fakeTransport struct {
	updates   []telegram.Update
	gotOffset int64
	confirmed int64
	allowed   string
}

func (t *fakeTransport) GetUpdates(_ context.Context, offset int64, _, _ int) ([]telegram.Update, error) {
	t.gotOffset = offset
	return t.updates, nil
}

func (t *fakeTransport) ToMessage(_ context.Context, update telegram.Update) (*inbound.Message, error) {
	raw := update.Message
	msg := &inbound.Message{
		SourceID: telegram.SourceID(update),
		ChatID:   "42",
		Kind:     inbound.KindText,
		Text:     raw.Text,
	}
	if inbound.IsCommand(raw.Text) {
		msg.Kind = inbound.KindCommand
	}
	return msg, nil
}

func (t *fakeTransport) ConfirmOffset(_ context.Context, lastUpdateID int64) error {
	t.confirmed = lastUpdateID
	return nil
}

func (t *fakeTransport) Allowed(chatID string) bool {
	return t.allowed == "" || t.allowed == chatID
}

func update(id int64, text string) telegram.Update {
	var u telegram.Update
	payload := map[string]any{
		"update_id": id,
		"message": map[string]any{
			"message_id": id,
			"date":       1773600000,
			"chat":       map[string]any{"id": 42},
			"text":       text,
		},
	}
	raw, _ := json.Marshal(payload)
	_ = json.Unmarshal(raw, &u)
	return u
}

func newBatchFixture(t *testing.T, transport *fakeTransport, mutate func(*fixture)) (*pipeline.Batch, *ledger.Store, *fixture) {
	t.Helper()
	store := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	f := newFixture(mutate)
	notifier := pipeline.NewNotifier(f.sender, nil)
	batch := pipeline.NewBatch(transport, store, f.runner, notifier, nil, 0, 50)
	return batch, store, f
}

func TestBatchProcessesUpdatesAndAdvancesOffset(t *testing.T) {
	transport := &fakeTransport{updates: []telegram.Update{
		update(100, "met sarah chen at gophercon"),
		update(101, "met bob smith at the airport"),
	}}
	batch, store, f := newBatchFixture(t, transport, func(f *fixture) {
		f.parser.draft = contact.Draft{Name: "Sarah Chen"}
	})
	ctx := context.Background()

	summary, err := batch.Run(ctx)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Received != 2 || summary.Saved != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(f.writer.written) != 2 {
		t.Fatalf("expected 2 persisted records, got %d", len(f.writer.written))
	}

	offset, err := store.Offset(ctx)
	if err != nil {
		t.Fatalf("offset: %v", err)
	}
	if offset != 102 {
		t.Fatalf("offset should advance past the batch, got %d", offset)
	}
	if transport.confirmed != 101 {
		t.Fatalf("transport offset not confirmed, got %d", transport.confirmed)
	}
}

func TestBatchIsolatesMessageFailures(t *testing.T) {
	transport := &fakeTransport{updates: []telegram.Update{
		update(200, "first note"),
		update(201, "second note"),
	}}
	batch, store, f := newBatchFixture(t, transport, func(f *fixture) {
		f.parser.draft = contact.Draft{Name: "Sarah Chen"}
	})
	ctx := context.Background()

	// Fail only the first message by making the parser reject its text.
	original := f.parser
	calls := 0
	f.runner = pipeline.NewRunner(pipeline.Capabilities{
		Transcriber: f.transcriber,
		Vision:      f.vision,
		Parser: parserFunc(func(ctx context.Context, note string) (contact.Draft, error) {
			calls++
			if calls == 1 {
				return contact.Draft{}, context.DeadlineExceeded
			}
			return original.ParseContact(ctx, note)
		}),
		Enricher:    f.enricher,
		Researcher:  f.researcher,
		Synthesizer: f.synthesizer,
		Writer:      f.writer,
	}, pipeline.NewNotifier(f.sender, nil), nil)
	batch = pipeline.NewBatch(transport, store, f.runner, pipeline.NewNotifier(f.sender, nil), nil, 0, 50)

	summary, err := batch.Run(ctx)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Failed != 1 || summary.Saved != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	entry, err := store.GetBySourceID(ctx, "42:200")
	if err != nil {
		t.Fatalf("get failed entry: %v", err)
	}
	if entry == nil || entry.Status != ledger.StatusFailed {
		t.Fatalf("failed message should be recorded, got %+v", entry)
	}

	offset, err := store.Offset(ctx)
	if err != nil {
		t.Fatalf("offset: %v", err)
	}
	if offset != 202 {
		t.Fatalf("offset must advance past failed messages, got %d", offset)
	}
}

func TestBatchAnswersCommandsWithHelp(t *testing.T) {
	transport := &fakeTransport{updates: []telegram.Update{update(300, "/start")}}
	batch, _, f := newBatchFixture(t, transport, nil)

	summary, err := batch.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Skipped != 1 {
		t.Fatalf("command should be skipped, got %+v", summary)
	}
	if len(f.sender.messages) != 1 || !strings.Contains(f.sender.messages[0], "Rolodex") {
		t.Fatalf("expected help reply, got %v", f.sender.messages)
	}
	if len(f.parser.notes) != 0 {
		t.Fatal("commands must not enter the pipeline")
	}
}

func TestBatchSkipsUnauthorizedChats(t *testing.T) {
	transport := &fakeTransport{
		updates: []telegram.Update{update(400, "met sarah chen")},
		allowed: "99",
	}
	batch, _, f := newBatchFixture(t, transport, nil)

	summary, err := batch.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Skipped != 1 || summary.Saved != 0 {
		t.Fatalf("unauthorized chat should be skipped, got %+v", summary)
	}
	if len(f.sender.messages) != 0 {
		t.Fatalf("no replies should go to unauthorized chats, got %v", f.sender.messages)
	}
}

func TestBatchWithNoUpdatesLeavesOffsetAlone(t *testing.T) {
	transport := &fakeTransport{}
	batch, store, _ := newBatchFixture(t, transport, nil)
	ctx := context.Background()

	if err := store.SetOffset(ctx, 500); err != nil {
		t.Fatalf("seed offset: %v", err)
	}
	summary, err := batch.Run(ctx)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Received != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if transport.gotOffset != 500 {
		t.Fatalf("poll should use the stored offset, got %d", transport.gotOffset)
	}
	offset, err := store.Offset(ctx)
	if err != nil {
		t.Fatalf("offset: %v", err)
	}
	if offset != 500 {
		t.Fatalf("offset changed with no updates: %d", offset)
	}
}

// parserFunc adapts a function to the ContactParser interface.
type parserFunc func(ctx context.Context, rawNote string) (contact.Draft, error)

func (f parserFunc) ParseContact(ctx context.Context, rawNote string) (contact.Draft, error) {
	return f(ctx, rawNote)
}
