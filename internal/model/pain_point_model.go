package model

import (
	"time"

	"github.com/google/uuid"
)

type PainPoint struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TranscriptId uuid.UUID `gorm:"type:uuid;not null;index"`
	Quote        string    `gorm:"type:text;not null"`
	Description  string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`

	// Relationships
	Transcript Transcript `gorm:"foreignKey:TranscriptId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (PainPoint) TableName() string {
	return "pain_points"
}
