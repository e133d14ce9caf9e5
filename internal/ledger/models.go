package ledger

import "time"

// Status tracks the outcome of one processed message.
type Status string

const (
	// StatusProcessing marks a claimed message whose record is not yet
	// written. Rows stuck here after a crash are released on the next run.
	StatusProcessing Status = "processing"
	// StatusCompleted marks a message whose record was persisted.
	StatusCompleted Status = "completed"
	// StatusReview marks a persisted record that needs operator attention.
	StatusReview Status = "review"
	// StatusFailed marks a message whose pipeline run ended in a fatal
	// per-message error.
	StatusFailed Status = "failed"
)

// Entry is one row of the processed-message ledger. The unique source_id
// key makes the conditional insert an atomic check-and-create.
type Entry struct {
	ID           int64
	SourceID     string
	ChatID       string
	Kind         string
	Status       Status
	RecordURL    string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HealthSummary aggregates ledger counts for the queue CLI and preflight.
type HealthSummary struct {
	Total      int
	Completed  int
	Review     int
	Failed     int
	Processing int
}
