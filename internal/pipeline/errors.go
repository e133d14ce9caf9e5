package pipeline

import "errors"

// Sentinel errors for the fatal per-message stages. Each aborts the current
// message, records the failure, and lets the batch continue.
var (
	ErrUnsupportedInput = errors.New("unsupported input")
	ErrTranscription    = errors.New("transcription failed")
	ErrVision           = errors.New("vision extraction failed")
	ErrParsing          = errors.New("contact parsing failed")
	ErrStoreWrite       = errors.New("record store write failed")
)

// Stage names used in failure notifications and log fields.
const (
	StageNormalize  = "normalize"
	StageTranscribe = "transcribe"
	StageVision     = "vision"
	StageParse      = "parse"
	StageEnrich     = "enrich"
	StageResearch   = "research"
	StageDossier    = "dossier"
	StageWrite      = "write"
	StageNotify     = "notify"
)
