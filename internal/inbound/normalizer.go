package inbound

import (
	"fmt"
	"strings"
)

// Input is the tagged variant handed to the pipeline after classification.
// Exactly one of the three branch fields is meaningful, selected by Kind.
type Input struct {
	Kind Kind

	// Text is set for KindText.
	Text string
	// Audio is set for KindVoice.
	Audio     []byte
	AudioType string
	// Image and Caption are set for KindPhoto. Caption may be empty.
	Image     []byte
	ImageType string
	Caption   string
}

// UnsupportedKindError reports a message kind the pipeline cannot process.
// It is fatal for that message only; the batch continues.
type UnsupportedKindError struct {
	Kind Kind
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported input kind %q", e.Kind)
}

// Normalize classifies a raw message into its pipeline input variant.
// Commands never reach here; the batch runner answers them directly.
func Normalize(msg *Message) (Input, error) {
	switch msg.Kind {
	case KindText:
		return Input{Kind: KindText, Text: msg.Text}, nil
	case KindVoice:
		if len(msg.Payload) == 0 {
			return Input{}, &UnsupportedKindError{Kind: msg.Kind}
		}
		return Input{Kind: KindVoice, Audio: msg.Payload, AudioType: msg.MediaType}, nil
	case KindPhoto:
		if len(msg.Payload) == 0 {
			return Input{}, &UnsupportedKindError{Kind: msg.Kind}
		}
		return Input{
			Kind:      KindPhoto,
			Image:     msg.Payload,
			ImageType: msg.MediaType,
			Caption:   strings.TrimSpace(msg.Caption),
		}, nil
	default:
		return Input{}, &UnsupportedKindError{Kind: msg.Kind}
	}
}

// IsCommand reports whether a text body is a bot command rather than a note.
func IsCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}
