package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interview-insights-be/internal/entity"
	"interview-insights-be/internal/mapper"
	"interview-insights-be/internal/model"
	"interview-insights-be/internal/repository/contract"
	"interview-insights-be/internal/repository/specification"
)

type FeatureMappingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeatureMappingMapper
}

func NewFeatureMappingRepository(db *gorm.DB) contract.FeatureMappingRepository {
	return &FeatureMappingRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeatureMappingMapper(),
	}
}

func (r *FeatureMappingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FeatureMappingRepositoryImpl) CreateBatch(ctx context.Context, mappings []*entity.FeatureMapping) error {
	if len(mappings) == 0 {
		return nil
	}
	models := r.mapper.ToModels(mappings)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*mappings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *FeatureMappingRepositoryImpl) DeleteOwned(ctx context.Context, userId uuid.UUID, id uuid.UUID) (int64, error) {
	// Mappings carry no user column, ownership runs through the pain point's
	// transcript.
	sub := r.db.Model(&model.PainPoint{}).
		Select("pain_points.id").
		Joins("JOIN transcripts ON transcripts.id = pain_points.transcript_id").
		Where("transcripts.user_id = ?", userId)

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("pain_point_id IN (?)", sub).
		Delete(&model.FeatureMapping{})
	return res.RowsAffected, res.Error
}

func (r *FeatureMappingRepositoryImpl) DeleteByTranscriptId(ctx context.Context, transcriptId uuid.UUID) error {
	sub := r.db.Model(&model.PainPoint{}).
		Select("id").
		Where("transcript_id = ?", transcriptId)
	return r.db.WithContext(ctx).
		Where("pain_point_id IN (?)", sub).
		Delete(&model.FeatureMapping{}).Error
}

func (r *FeatureMappingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureMapping, error) {
	var m model.FeatureMapping
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FeatureMappingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureMapping, error) {
	var models []*model.FeatureMapping
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *FeatureMappingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.FeatureMapping{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *FeatureMappingRepositoryImpl) RetargetKey(ctx context.Context, userId uuid.UUID, oldKey, newKey, newName string) (int64, error) {
	// Mappings carry no user column, ownership runs through the pain point's
	// transcript.
	sub := r.db.Model(&model.PainPoint{}).
		Select("pain_points.id").
		Joins("JOIN transcripts ON transcripts.id = pain_points.transcript_id").
		Where("transcripts.user_id = ?", userId)

	res := r.db.WithContext(ctx).
		Model(&model.FeatureMapping{}).
		Where("feature_key = ?", oldKey).
		Where("pain_point_id IN (?)", sub).
		Updates(map[string]interface{}{
			"feature_key":  newKey,
			"feature_name": newName,
		})
	return res.RowsAffected, res.Error
}

type keyCountRow struct {
	FeatureKey string
	Cnt        int64
}

func (r *FeatureMappingRepositoryImpl) CountDistinctTranscripts(ctx context.Context, userId uuid.UUID, keys []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(keys))
	if len(keys) == 0 {
		return counts, nil
	}

	var rows []keyCountRow
	err := r.db.WithContext(ctx).
		Table("feature_mappings").
		Select("feature_mappings.feature_key AS feature_key, COUNT(DISTINCT pain_points.transcript_id) AS cnt").
		Joins("JOIN pain_points ON pain_points.id = feature_mappings.pain_point_id").
		Joins("JOIN transcripts ON transcripts.id = pain_points.transcript_id").
		Where("transcripts.user_id = ?", userId).
		Where("feature_mappings.feature_key IN ?", keys).
		Group("feature_mappings.feature_key").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.FeatureKey] = row.Cnt
	}
	return counts, nil
}
