package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateFeatureRequest struct {
	UserId      uuid.UUID `json:"user_id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
}

type CreateFeatureResponse struct {
	Id uuid.UUID `json:"id"`
}

// ListFeaturesRequest filters by lifecycle status. An empty Status means
// active features only, which is what the board shows by default.
type ListFeaturesRequest struct {
	UserId uuid.UUID `validate:"required"`
	Status string
}

type FeatureListItem struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	IsSuggestion bool      `json:"is_suggestion"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FeatureCountItem ranks a feature by how many distinct transcripts raised
// pain points against its key. Computed at read time, not the stored
// recurrence counter, so it stays honest after transcript deletions.
type FeatureCountItem struct {
	FeatureListItem
	PainPointsCount int64 `json:"pain_points_count"`
}

// SaveFeaturesRequest replaces the user's authored feature list wholesale.
// An empty Names list clears it. AI-suggested rows are never part of this.
type SaveFeaturesRequest struct {
	UserId uuid.UUID `json:"user_id" validate:"required"`
	Names  []string  `json:"names"`
}

type SaveFeaturesResponse struct {
	Ids []uuid.UUID `json:"ids"`
}

type UpdateFeatureRequest struct {
	Id          uuid.UUID
	UserId      uuid.UUID `validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
}

type UpdateFeatureResponse struct {
	Id uuid.UUID `json:"id"`
}

type TranscriptPainPoints struct {
	TranscriptId uuid.UUID       `json:"transcript_id"`
	Summary      string          `json:"summary"`
	CreatedAt    time.Time       `json:"created_at"`
	PainPoints   []PainPointView `json:"pain_points"`
}

type FeatureDetailResponse struct {
	Id              uuid.UUID              `json:"id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Status          string                 `json:"status"`
	IsSuggestion    bool                   `json:"is_suggestion"`
	PainPointsCount int64                  `json:"pain_points_count"`
	Transcripts     []TranscriptPainPoints `json:"transcripts"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}
