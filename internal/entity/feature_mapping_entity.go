package entity

import (
	"time"

	"github.com/google/uuid"
)

type FeatureMapping struct {
	Id          uuid.UUID
	PainPointId uuid.UUID
	FeatureKey  string
	FeatureName string
	CreatedAt   time.Time
}
