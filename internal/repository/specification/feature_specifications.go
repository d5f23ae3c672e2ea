package specification

import (
	"gorm.io/gorm"

	"interview-insights-be/internal/entity"
)

type ByStatus struct {
	Status entity.FeatureStatus
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status.String())
}

// ByFeatureKey matches on the normalized key, not the display name.
type ByFeatureKey struct {
	Key string
}

func (s ByFeatureKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("feature_key = ?", s.Key)
}

type SuggestionsOnly struct{}

func (s SuggestionsOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_suggestion = ?", true)
}

type UserAuthoredOnly struct{}

func (s UserAuthoredOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_suggestion = ?", false)
}

// OrderByStatusPriority resolves key collisions across lifecycle states:
// active rows win over pending, pending over archived, recency breaks ties.
type OrderByStatusPriority struct{}

func (s OrderByStatusPriority) Apply(db *gorm.DB) *gorm.DB {
	return db.
		Order("CASE status WHEN 'active' THEN 0 WHEN 'pending' THEN 1 ELSE 2 END").
		Order("updated_at DESC")
}
