package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"rolodex/internal/contact"
	"rolodex/internal/logging"
)

// Notifier formats and delivers chat confirmations. Send failures are
// logged and swallowed: a missed confirmation never fails a message whose
// record is already persisted.
type Notifier struct {
	sender MessageSender
	logger *slog.Logger
}

// NewNotifier constructs a notifier.
func NewNotifier(sender MessageSender, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Notifier{sender: sender, logger: logger}
}

// Acknowledge tells the user their note was picked up, with a short preview.
func (n *Notifier) Acknowledge(ctx context.Context, chatID, preview string) {
	preview = strings.TrimSpace(preview)
	if runes := []rune(preview); len(runes) > 60 {
		preview = string(runes[:60]) + "…"
	}
	text := "Processing your note…"
	if preview != "" {
		text = fmt.Sprintf("Processing: _%s_", preview)
	}
	n.send(ctx, chatID, text)
}

// ConfirmSaved reports a persisted record, including what enrichment and
// research contributed and where to find the page.
func (n *Notifier) ConfirmSaved(ctx context.Context, chatID string, rec *contact.Record, ref *contact.Reference, degradations []string) {
	var b strings.Builder
	fmt.Fprintf(&b, "*Saved:* %s", rec.DisplayName())
	if rec.Title != "" {
		fmt.Fprintf(&b, " — %s", rec.Title)
	}
	b.WriteString("\n")
	if rec.Company != "" {
		fmt.Fprintf(&b, "_%s_\n", rec.Company)
	}
	if rec.Email != "" {
		fmt.Fprintf(&b, "✉️ %s\n", rec.Email)
	}
	if rec.LinkedInURL != "" {
		fmt.Fprintf(&b, "[LinkedIn](%s)\n", rec.LinkedInURL)
	}
	if rec.DossierText != "" {
		b.WriteString("📋 Dossier ready\n")
	}
	if rec.FollowUp != "" {
		fmt.Fprintf(&b, "➡️ Follow up: %s\n", rec.FollowUp)
	}
	if rec.NeedsReview {
		b.WriteString("⚠️ No name found — flagged for review\n")
	}
	for _, degradation := range degradations {
		fmt.Fprintf(&b, "⚠️ %s\n", degradation)
	}
	if ref != nil && ref.URL != "" {
		fmt.Fprintf(&b, "[Open in Notion](%s)", ref.URL)
	}
	n.send(ctx, chatID, strings.TrimSpace(b.String()))
}

// ConfirmDuplicate reports that the note was already handled by an earlier
// run. Without a resolvable page the message avoids claiming a record
// exists.
func (n *Notifier) ConfirmDuplicate(ctx context.Context, chatID string, ref *contact.Reference) {
	if ref == nil || ref.URL == "" {
		n.send(ctx, chatID, "Already processed — this note was handled in an earlier run.")
		return
	}
	n.send(ctx, chatID, fmt.Sprintf("Already saved — this note was captured in an earlier run.\n[Open in Notion](%s)", ref.URL))
}

// ReportFailure reports a fatal per-message error, naming the stage that
// failed so the user knows whether to resend.
func (n *Notifier) ReportFailure(ctx context.Context, chatID, stage string, err error) {
	n.send(ctx, chatID, fmt.Sprintf("❌ Could not save your note (%s): %s", stage, failureReason(err)))
}

// SendHelp answers bot commands with usage instructions.
func (n *Notifier) SendHelp(ctx context.Context, chatID string) {
	n.send(ctx, chatID, strings.TrimSpace(`
*Rolodex* turns your notes into contact records.

Send me one of:
• A text note — _"met sarah chen at gophercon, vp eng at acme robotics"_
• A voice note describing who you met
• A photo of a business card (caption optional)

Each note becomes an enriched contact page in Notion.`))
}

func (n *Notifier) send(ctx context.Context, chatID, text string) {
	if n.sender == nil || chatID == "" {
		return
	}
	if err := n.sender.SendMessage(ctx, chatID, text); err != nil {
		n.logger.Warn("send notification", logging.String("chat_id", chatID), logging.Error(err))
	}
}

func failureReason(err error) string {
	if err == nil {
		return "unknown error"
	}
	msg := err.Error()
	if runes := []rune(msg); len(runes) > 200 {
		msg = string(runes[:200]) + "…"
	}
	return msg
}
