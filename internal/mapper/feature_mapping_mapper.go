package mapper

import (
	"interview-insights-be/internal/entity"
	"interview-insights-be/internal/model"
)

type FeatureMappingMapper struct{}

func NewFeatureMappingMapper() *FeatureMappingMapper {
	return &FeatureMappingMapper{}
}

func (m *FeatureMappingMapper) ToEntity(fm *model.FeatureMapping) *entity.FeatureMapping {
	if fm == nil {
		return nil
	}

	return &entity.FeatureMapping{
		Id:          fm.Id,
		PainPointId: fm.PainPointId,
		FeatureKey:  fm.FeatureKey,
		FeatureName: fm.FeatureName,
		CreatedAt:   fm.CreatedAt,
	}
}

func (m *FeatureMappingMapper) ToModel(fm *entity.FeatureMapping) *model.FeatureMapping {
	if fm == nil {
		return nil
	}

	return &model.FeatureMapping{
		Id:          fm.Id,
		PainPointId: fm.PainPointId,
		FeatureKey:  fm.FeatureKey,
		FeatureName: fm.FeatureName,
		CreatedAt:   fm.CreatedAt,
	}
}

func (m *FeatureMappingMapper) ToEntities(mappings []*model.FeatureMapping) []*entity.FeatureMapping {
	entities := make([]*entity.FeatureMapping, len(mappings))
	for i, fm := range mappings {
		entities[i] = m.ToEntity(fm)
	}
	return entities
}

func (m *FeatureMappingMapper) ToModels(mappings []*entity.FeatureMapping) []*model.FeatureMapping {
	models := make([]*model.FeatureMapping, len(mappings))
	for i, fm := range mappings {
		models[i] = m.ToModel(fm)
	}
	return models
}
