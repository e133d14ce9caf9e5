package inbound_test

import (
	"errors"
	"testing"

	"rolodex/internal/inbound"
)

func TestNormalizeText(t *testing.T) {
	msg := &inbound.Message{SourceID: "1", Kind: inbound.KindText, Text: "met Joe Blogs from Kellogg's"}
	input, err := inbound.Normalize(msg)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if input.Kind != inbound.KindText || input.Text != msg.Text {
		t.Fatalf("unexpected input: %#v", input)
	}
}

func TestNormalizeVoiceRequiresPayload(t *testing.T) {
	msg := &inbound.Message{SourceID: "2", Kind: inbound.KindVoice}
	if _, err := inbound.Normalize(msg); err == nil {
		t.Fatal("expected error for voice message without payload")
	}

	msg.Payload = []byte("ogg-bytes")
	msg.MediaType = "audio/ogg"
	input, err := inbound.Normalize(msg)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if string(input.Audio) != "ogg-bytes" || input.AudioType != "audio/ogg" {
		t.Fatalf("unexpected voice input: %#v", input)
	}
}

func TestNormalizePhotoKeepsCaption(t *testing.T) {
	msg := &inbound.Message{
		SourceID:  "3",
		Kind:      inbound.KindPhoto,
		Payload:   []byte("jpeg-bytes"),
		MediaType: "image/jpeg",
		Caption:   "  met at the SF summit  ",
	}
	input, err := inbound.Normalize(msg)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if input.Caption != "met at the SF summit" {
		t.Fatalf("expected trimmed caption, got %q", input.Caption)
	}
}

func TestNormalizeUnknownKind(t *testing.T) {
	msg := &inbound.Message{SourceID: "4", Kind: inbound.KindUnknown}
	_, err := inbound.Normalize(msg)
	var unsupported *inbound.UnsupportedKindError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedKindError, got %v", err)
	}
}

func TestIsCommand(t *testing.T) {
	if !inbound.IsCommand("/start") || !inbound.IsCommand("  /help ") {
		t.Fatal("expected slash-prefixed text to be a command")
	}
	if inbound.IsCommand("met someone at 5/6 program review") {
		t.Fatal("plain text misclassified as command")
	}
}
