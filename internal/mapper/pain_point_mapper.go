package mapper

import (
	"interview-insights-be/internal/entity"
	"interview-insights-be/internal/model"
)

type PainPointMapper struct{}

func NewPainPointMapper() *PainPointMapper {
	return &PainPointMapper{}
}

func (m *PainPointMapper) ToEntity(p *model.PainPoint) *entity.PainPoint {
	if p == nil {
		return nil
	}

	return &entity.PainPoint{
		Id:           p.Id,
		TranscriptId: p.TranscriptId,
		Quote:        p.Quote,
		Description:  p.Description,
		CreatedAt:    p.CreatedAt,
	}
}

func (m *PainPointMapper) ToModel(p *entity.PainPoint) *model.PainPoint {
	if p == nil {
		return nil
	}

	return &model.PainPoint{
		Id:           p.Id,
		TranscriptId: p.TranscriptId,
		Quote:        p.Quote,
		Description:  p.Description,
		CreatedAt:    p.CreatedAt,
	}
}

func (m *PainPointMapper) ToEntities(points []*model.PainPoint) []*entity.PainPoint {
	entities := make([]*entity.PainPoint, len(points))
	for i, p := range points {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *PainPointMapper) ToModels(points []*entity.PainPoint) []*model.PainPoint {
	models := make([]*model.PainPoint, len(points))
	for i, p := range points {
		models[i] = m.ToModel(p)
	}
	return models
}
