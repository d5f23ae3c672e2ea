package dto

import (
	"time"

	"github.com/google/uuid"
)

type SuggestionListItem struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	// Description carries the AI-written summary from the analysis that first
	// proposed the suggestion.
	Description string `json:"description"`
	// PainPointsCount is the stored recurrence counter, bumped on every
	// transcript that re-proposes the same pending suggestion.
	PainPointsCount int        `json:"pain_points_count"`
	TranscriptId    *uuid.UUID `json:"transcript_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ApproveSuggestionResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}
