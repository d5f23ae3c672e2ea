package implementation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interview-insights-be/internal/entity"
	"interview-insights-be/internal/mapper"
	"interview-insights-be/internal/model"
	"interview-insights-be/internal/repository/contract"
	"interview-insights-be/internal/repository/specification"
)

type PainPointRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PainPointMapper
}

func NewPainPointRepository(db *gorm.DB) contract.PainPointRepository {
	return &PainPointRepositoryImpl{
		db:     db,
		mapper: mapper.NewPainPointMapper(),
	}
}

func (r *PainPointRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PainPointRepositoryImpl) CreateBatch(ctx context.Context, points []*entity.PainPoint) error {
	if len(points) == 0 {
		return nil
	}
	models := r.mapper.ToModels(points)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*points[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *PainPointRepositoryImpl) DeleteByTranscriptId(ctx context.Context, transcriptId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("transcript_id = ?", transcriptId).
		Delete(&model.PainPoint{}).Error
}

func (r *PainPointRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PainPoint, error) {
	var models []*model.PainPoint
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PainPointRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.PainPoint{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type painPointMappingRow struct {
	model.PainPoint
	MappingId   *uuid.UUID
	FeatureName string
}

func (r *PainPointRepositoryImpl) FindByTranscriptId(ctx context.Context, transcriptId uuid.UUID) ([]*entity.PainPointWithMapping, error) {
	var rows []painPointMappingRow
	err := r.db.WithContext(ctx).
		Table("pain_points").
		Select("pain_points.*, feature_mappings.id AS mapping_id, feature_mappings.feature_name AS feature_name").
		Joins("LEFT JOIN feature_mappings ON feature_mappings.pain_point_id = pain_points.id").
		Where("pain_points.transcript_id = ?", transcriptId).
		Order("pain_points.created_at ASC, pain_points.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*entity.PainPointWithMapping, len(rows))
	for i, row := range rows {
		result[i] = &entity.PainPointWithMapping{
			PainPoint:   *r.mapper.ToEntity(&row.PainPoint),
			MappingId:   row.MappingId,
			FeatureName: row.FeatureName,
		}
	}
	return result, nil
}

type painPointTranscriptRow struct {
	model.PainPoint
	MappingId           uuid.UUID
	FeatureName         string
	TranscriptSummary   string
	TranscriptCreatedAt time.Time
}

func (r *PainPointRepositoryImpl) FindForFeatureKey(ctx context.Context, userId uuid.UUID, key string) ([]*entity.PainPointWithTranscript, error) {
	var rows []painPointTranscriptRow
	err := r.db.WithContext(ctx).
		Table("pain_points").
		Select("pain_points.*, feature_mappings.id AS mapping_id, feature_mappings.feature_name AS feature_name, transcripts.summary AS transcript_summary, transcripts.created_at AS transcript_created_at").
		Joins("JOIN feature_mappings ON feature_mappings.pain_point_id = pain_points.id").
		Joins("JOIN transcripts ON transcripts.id = pain_points.transcript_id").
		Where("transcripts.user_id = ? AND feature_mappings.feature_key = ?", userId, key).
		Order("transcripts.created_at DESC, pain_points.created_at ASC, pain_points.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*entity.PainPointWithTranscript, len(rows))
	for i, row := range rows {
		result[i] = &entity.PainPointWithTranscript{
			PainPoint:           *r.mapper.ToEntity(&row.PainPoint),
			MappingId:           row.MappingId,
			FeatureName:         row.FeatureName,
			TranscriptSummary:   row.TranscriptSummary,
			TranscriptCreatedAt: row.TranscriptCreatedAt,
		}
	}
	return result, nil
}

type transcriptCountRow struct {
	TranscriptId uuid.UUID
	Cnt          int64
}

func (r *PainPointRepositoryImpl) CountByTranscriptIds(ctx context.Context, transcriptIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(transcriptIds))
	if len(transcriptIds) == 0 {
		return counts, nil
	}

	var rows []transcriptCountRow
	err := r.db.WithContext(ctx).
		Model(&model.PainPoint{}).
		Select("transcript_id AS transcript_id, COUNT(*) AS cnt").
		Where("transcript_id IN ?", transcriptIds).
		Group("transcript_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TranscriptId] = row.Cnt
	}
	return counts, nil
}
