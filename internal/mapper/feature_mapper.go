package mapper

import (
	"interview-insights-be/internal/entity"
	"interview-insights-be/internal/model"
)

type FeatureMapper struct{}

func NewFeatureMapper() *FeatureMapper {
	return &FeatureMapper{}
}

func (m *FeatureMapper) ToEntity(f *model.Feature) *entity.Feature {
	if f == nil {
		return nil
	}

	return &entity.Feature{
		Id:              f.Id,
		UserId:          f.UserId,
		Key:             f.FeatureKey,
		Name:            f.Name,
		Description:     f.Description,
		Status:          entity.FeatureStatus(f.Status),
		IsSuggestion:    f.IsSuggestion,
		TranscriptId:    f.TranscriptId,
		PainPointsCount: f.PainPointsCount,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

func (m *FeatureMapper) ToModel(f *entity.Feature) *model.Feature {
	if f == nil {
		return nil
	}

	return &model.Feature{
		Id:              f.Id,
		UserId:          f.UserId,
		FeatureKey:      f.Key,
		Name:            f.Name,
		Description:     f.Description,
		Status:          f.Status.String(),
		IsSuggestion:    f.IsSuggestion,
		TranscriptId:    f.TranscriptId,
		PainPointsCount: f.PainPointsCount,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

func (m *FeatureMapper) ToEntities(features []*model.Feature) []*entity.Feature {
	entities := make([]*entity.Feature, len(features))
	for i, f := range features {
		entities[i] = m.ToEntity(f)
	}
	return entities
}
