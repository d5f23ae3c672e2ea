package model

import (
	"time"

	"github.com/google/uuid"
)

// Feature backs both user-authored features and AI suggestions, told apart by
// IsSuggestion and Status. The partial unique index keeps at most one pending
// suggestion per user and key while leaving historical rows alone.
type Feature struct {
	Id     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_features_user_key_pending,priority:1,where:status = 'pending'"`
	// Column defaults back the legacy upgrade path, where these columns are
	// added to an already populated table. New rows always set them in code.
	FeatureKey      string     `gorm:"type:varchar(255);not null;default:'';index;uniqueIndex:ux_features_user_key_pending,priority:2"`
	Name            string     `gorm:"type:varchar(255);not null"`
	Description     string     `gorm:"type:text"`
	Status          string     `gorm:"type:varchar(20);not null;default:'active';index"`
	IsSuggestion    bool       `gorm:"not null;default:false"`
	TranscriptId    *uuid.UUID `gorm:"type:uuid;index"`
	PainPointsCount int        `gorm:"not null;default:0"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
}

func (Feature) TableName() string {
	return "features"
}
