package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Feature struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Key          string // normalized match key, see NormalizeFeatureKey
	Name         string // display name as the user or analyzer wrote it
	Description  string
	Status       FeatureStatus
	IsSuggestion bool
	TranscriptId *uuid.UUID // transcript that produced the suggestion, nil for user-authored rows
	// PainPointsCount is the stored recurrence counter bumped each time a
	// pending suggestion is re-proposed by another transcript.
	PainPointsCount int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FeatureWithCount pairs a feature with the number of distinct transcripts
// whose pain points currently map to its key. Unlike PainPointsCount this is
// derived at read time, so it stays correct after transcript deletions.
type FeatureWithCount struct {
	Feature
	TranscriptCount int64
}

// NormalizeFeatureKey lowercases a feature name and collapses runs of
// whitespace to single spaces. All matching between mappings, suggestions and
// registered features goes through this key; the original spelling is kept in
// Name untouched.
func NormalizeFeatureKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
