package model

import (
	"time"

	"github.com/google/uuid"
)

type FeatureMapping struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PainPointId uuid.UUID `gorm:"type:uuid;not null;index"`
	// The default backs the legacy upgrade path, new rows always set the key.
	FeatureKey  string    `gorm:"type:varchar(255);not null;default:'';index"`
	FeatureName string    `gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	// Relationships
	PainPoint PainPoint `gorm:"foreignKey:PainPointId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (FeatureMapping) TableName() string {
	return "feature_mappings"
}
