package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rolodex/internal/inbound"
)

// ToMessage converts an update into the pipeline's inbound message,
// downloading voice and photo payloads. For photos it picks the largest
// size variant Telegram offers.
func (c *Client) ToMessage(ctx context.Context, update Update) (*inbound.Message, error) {
	if update.Message == nil {
		return nil, fmt.Errorf("telegram map update %d: no message payload", update.UpdateID)
	}
	raw := update.Message
	msg := &inbound.Message{
		SourceID:   SourceID(update),
		ChatID:     strconv.FormatInt(raw.Chat.ID, 10),
		ReceivedAt: time.Unix(raw.Date, 0).UTC(),
	}

	switch {
	case raw.Voice != nil || raw.Audio != nil:
		var fileID, mimeType string
		if raw.Voice != nil {
			fileID, mimeType = raw.Voice.FileID, raw.Voice.MimeType
		} else {
			fileID, mimeType = raw.Audio.FileID, raw.Audio.MimeType
		}
		payload, err := c.DownloadFile(ctx, fileID)
		if err != nil {
			return nil, fmt.Errorf("telegram map update %d: download voice: %w", update.UpdateID, err)
		}
		msg.Kind = inbound.KindVoice
		msg.Payload = payload
		msg.MediaType = mimeType
		if msg.MediaType == "" {
			msg.MediaType = "audio/ogg"
		}
	case len(raw.Photo) > 0:
		largest := raw.Photo[0]
		for _, candidate := range raw.Photo[1:] {
			if candidate.FileSize > largest.FileSize {
				largest = candidate
			}
		}
		payload, err := c.DownloadFile(ctx, largest.FileID)
		if err != nil {
			return nil, fmt.Errorf("telegram map update %d: download photo: %w", update.UpdateID, err)
		}
		msg.Kind = inbound.KindPhoto
		msg.Payload = payload
		msg.MediaType = "image/jpeg"
		msg.Caption = strings.TrimSpace(raw.Caption)
	case strings.TrimSpace(raw.Text) != "":
		msg.Text = strings.TrimSpace(raw.Text)
		msg.Kind = inbound.KindText
		if inbound.IsCommand(msg.Text) {
			msg.Kind = inbound.KindCommand
		}
	default:
		msg.Kind = inbound.KindUnknown
	}
	return msg, nil
}
