// Package inbound models one raw message pulled from the transport and the
// normalizer that classifies it into the tagged variant the pipeline
// consumes.
package inbound

import "time"

// Kind classifies the payload of an inbound message.
type Kind string

const (
	KindText    Kind = "text"
	KindVoice   Kind = "voice"
	KindPhoto   Kind = "photo"
	KindCommand Kind = "command"
	KindUnknown Kind = "unknown"
)

// Message is one raw inbound note about a person. It is created by the
// transport, consumed exactly once by the normalizer, and never persisted.
type Message struct {
	// SourceID uniquely identifies the message across re-deliveries and is
	// the idempotency key for the persisted record.
	SourceID string
	// ChatID identifies the channel confirmations go back to.
	ChatID string
	Kind   Kind

	// Text carries the typed body for text messages and commands.
	Text string
	// Caption carries the optional text sent alongside a photo.
	Caption string
	// Payload carries downloaded audio or image bytes for voice/photo kinds.
	Payload []byte
	// MediaType is the payload MIME type reported by the transport
	// (image/jpeg, audio/ogg).
	MediaType string

	ReceivedAt time.Time
}
