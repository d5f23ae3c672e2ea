package entity

import (
	"time"

	"github.com/google/uuid"
)

type PainPoint struct {
	Id           uuid.UUID
	TranscriptId uuid.UUID
	Quote        string
	Description  string
	CreatedAt    time.Time
}

// PainPointWithMapping is a pain point joined with its mapping row, if any.
// MappingId is nil when the mapping was removed to correct a mis-assignment.
type PainPointWithMapping struct {
	PainPoint
	MappingId   *uuid.UUID
	FeatureName string
}

// PainPointWithTranscript carries the owning transcript's summary and
// creation time so detail views can group quotes per interview.
type PainPointWithTranscript struct {
	PainPoint
	MappingId           uuid.UUID
	FeatureName         string
	TranscriptSummary   string
	TranscriptCreatedAt time.Time
}
