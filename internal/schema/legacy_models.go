package schema

import (
	"time"

	"github.com/google/uuid"
)

// Legacy two-table suggestion layout. These models exist only so upgrades of
// pre-unified databases can move rows across, and so Rollback can recreate
// the old shape. Nothing in the request path touches them.

type legacyFeatureSuggestion struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId          uuid.UUID  `gorm:"type:uuid;not null;index"`
	FeatureName     string     `gorm:"type:varchar(255);not null"`
	Description     string     `gorm:"type:text"`
	TranscriptId    *uuid.UUID `gorm:"type:uuid"`
	PainPointsCount int        `gorm:"not null;default:0"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
}

func (legacyFeatureSuggestion) TableName() string {
	return "feature_suggestions"
}

type legacyIgnoredSuggestion struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	FeatureName string    `gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (legacyIgnoredSuggestion) TableName() string {
	return "ignored_suggestions"
}
