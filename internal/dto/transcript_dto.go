package dto

import (
	"time"

	"github.com/google/uuid"
)

// Field names on the analyze payload follow the analyzer's JSON contract
// (camelCase), which is produced by the upstream AI pipeline and cannot be
// restyled here.

type QuoteItem struct {
	Quote     string `json:"quote" validate:"required"`
	PainPoint string `json:"painPoint" validate:"required"`
}

// FeatureAnalysis is one analyzed feature with its supporting quotes. The
// same shape is used for known features and for new suggestions.
type FeatureAnalysis struct {
	FeatureName string      `json:"featureName" validate:"required"`
	AiSummary   string      `json:"aiSummary"`
	Quotes      []QuoteItem `json:"quotes" validate:"dive"`
}

type AnalyzeTranscriptRequest struct {
	UserId                uuid.UUID         `json:"userId" validate:"required"`
	TranscriptText        string            `json:"transcriptText" validate:"required"`
	Summary               string            `json:"summary"`
	Features              []FeatureAnalysis `json:"features" validate:"dive"`
	NewFeatureSuggestions []FeatureAnalysis `json:"newFeatureSuggestions" validate:"dive"`
}

type AnalyzeTranscriptResponse struct {
	TranscriptId uuid.UUID `json:"transcriptId"`
}

type TranscriptListItem struct {
	Id             uuid.UUID `json:"id"`
	Summary        string    `json:"summary"`
	PainPointCount int64     `json:"pain_point_count"`
	CreatedAt      time.Time `json:"created_at"`
}

type PainPointView struct {
	Id          uuid.UUID `json:"id"`
	MappingId   uuid.UUID `json:"mapping_id,omitempty"`
	FeatureName string    `json:"feature_name,omitempty"`
	Quote       string    `json:"quote"`
	Description string    `json:"description"`
}

type ShowTranscriptResponse struct {
	Id         uuid.UUID       `json:"id"`
	Content    string          `json:"content"`
	Summary    string          `json:"summary"`
	PainPoints []PainPointView `json:"pain_points"`
	CreatedAt  time.Time       `json:"created_at"`
}
