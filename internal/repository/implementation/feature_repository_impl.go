package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"interview-insights-be/internal/entity"
	"interview-insights-be/internal/mapper"
	"interview-insights-be/internal/model"
	"interview-insights-be/internal/repository/contract"
	"interview-insights-be/internal/repository/scope"
	"interview-insights-be/internal/repository/specification"
)

type FeatureRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeatureMapper
}

func NewFeatureRepository(db *gorm.DB) contract.FeatureRepository {
	return &FeatureRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeatureMapper(),
	}
}

func (r *FeatureRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FeatureRepositoryImpl) Create(ctx context.Context, feature *entity.Feature) error {
	m := r.mapper.ToModel(feature)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*feature = *r.mapper.ToEntity(m)
	return nil
}

func (r *FeatureRepositoryImpl) CreateBatch(ctx context.Context, features []*entity.Feature) error {
	if len(features) == 0 {
		return nil
	}
	models := make([]*model.Feature, len(features))
	for i, f := range features {
		models[i] = r.mapper.ToModel(f)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*features[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *FeatureRepositoryImpl) Update(ctx context.Context, feature *entity.Feature) error {
	m := r.mapper.ToModel(feature)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*feature = *r.mapper.ToEntity(m)
	return nil
}

func (r *FeatureRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Feature{}, id).Error
}

func (r *FeatureRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Feature, error) {
	var m model.Feature
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FeatureRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Feature, error) {
	var models []*model.Feature
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *FeatureRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Feature{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *FeatureRepositoryImpl) FindPendingSuggestions(ctx context.Context, userId uuid.UUID) ([]*entity.Feature, error) {
	var models []*model.Feature
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND is_suggestion = ?", userId, entity.FeatureStatusPending.String(), true).
		Scopes(scope.OrderByUpdatedDesc).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *FeatureRepositoryImpl) UpsertPendingSuggestion(ctx context.Context, suggestion *entity.Feature) (*entity.Feature, error) {
	m := r.mapper.ToModel(suggestion)

	// The conflict target names the partial unique index on pending rows.
	// The predicate has to be spelled out literally, both dialects refuse to
	// infer a partial index from a bound parameter.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "feature_key"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "status = 'pending'"},
		}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"pain_points_count": gorm.Expr("pain_points_count + 1"),
			"updated_at":        time.Now().UTC(),
		}),
	}).Create(m).Error
	if err != nil {
		return nil, err
	}

	// Reread the surviving row. When the insert was absorbed into an
	// existing suggestion, the caller needs that row's id and display name.
	var out model.Feature
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND feature_key = ? AND status = ?",
			m.UserId, m.FeatureKey, entity.FeatureStatusPending.String()).
		First(&out).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(&out), nil
}

func (r *FeatureRepositoryImpl) UpdateStatusIf(ctx context.Context, id, userId uuid.UUID, from, to entity.FeatureStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Feature{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userId, from.String()).
		Updates(map[string]interface{}{
			"status":     to.String(),
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *FeatureRepositoryImpl) DeleteUserAuthored(ctx context.Context, userId uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND is_suggestion = ?", userId, false).
		Delete(&model.Feature{})
	return res.RowsAffected, res.Error
}
