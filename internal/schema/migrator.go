package schema

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"interview-insights-be/internal/entity"
	"interview-insights-be/internal/model"
	"interview-insights-be/internal/pkg/apperr"
	"interview-insights-be/internal/pkg/logger"
	"interview-insights-be/internal/repository/scope"
	"interview-insights-be/pkg/database"
)

const migrationName = "unify_feature_suggestions"

// Migrator brings a database to the unified feature schema. EnsureSchema is
// the fresh-install path. Migrate and Rollback exist for databases that still
// carry the deprecated two-table suggestion layout, they are batch jobs run
// out-of-band, never during request handling.
type Migrator struct {
	db  *gorm.DB
	log logger.ILogger
}

func NewMigrator(db *gorm.DB, log logger.ILogger) *Migrator {
	return &Migrator{
		db:  db,
		log: log,
	}
}

// MigrateSummary reports what one Migrate run did, it is also stored as the
// details payload of the migration_runs row.
type MigrateSummary struct {
	PendingCopied      int      `json:"pending_copied"`
	ArchivedCopied     int      `json:"archived_copied"`
	SkippedExisting    int      `json:"skipped_existing"`
	FeaturesBackfilled int      `json:"features_backfilled"`
	MappingsBackfilled int      `json:"mappings_backfilled"`
	DroppedTables      []string `json:"dropped_tables,omitempty"`
}

type RollbackSummary struct {
	PendingMoved   int      `json:"pending_moved"`
	ArchivedMoved  int      `json:"archived_moved"`
	DroppedColumns []string `json:"dropped_columns,omitempty"`
}

func allModels() []interface{} {
	return []interface{}{
		&model.Transcript{},
		&model.PainPoint{},
		&model.FeatureMapping{},
		&model.Feature{},
		&model.MigrationRun{},
	}
}

// EnsureSchema creates or extends every table of the unified layout. Safe to
// run repeatedly.
func (m *Migrator) EnsureSchema(ctx context.Context) error {
	return m.db.WithContext(ctx).AutoMigrate(allModels()...)
}

// Migrate brings the database to the current shape inside one transaction:
// additive column and table changes, key backfill for rows that predate the
// normalized key, then the one-time copy out of the deprecated suggestion
// tables guarded against duplicates, then dropping those tables. A failure
// anywhere rolls back every step.
func (m *Migrator) Migrate(ctx context.Context) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(allModels()...); err != nil {
			return err
		}

		if err := m.backfillFeatureKeys(tx, summary); err != nil {
			return err
		}

		if err := m.copyLegacySuggestions(tx, summary); err != nil {
			return err
		}

		return m.recordRun(tx, "up", summary)
	})
	if err != nil {
		m.log.Error("schema", "migration failed, rolled back", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	m.log.Info("schema", "migration applied", map[string]interface{}{
		"pending_copied":   summary.PendingCopied,
		"archived_copied":  summary.ArchivedCopied,
		"skipped_existing": summary.SkippedExisting,
	})
	return summary, nil
}

// backfillFeatureKeys normalizes names into the key column for rows created
// before the column existed. Normalization happens in Go, the collapse of
// inner whitespace has no portable SQL spelling.
func (m *Migrator) backfillFeatureKeys(tx *gorm.DB, summary *MigrateSummary) error {
	var features []model.Feature
	if err := tx.Where("feature_key = ''").Find(&features).Error; err != nil {
		return err
	}
	for i := range features {
		key := entity.NormalizeFeatureKey(features[i].Name)
		if err := tx.Model(&model.Feature{}).
			Where("id = ?", features[i].Id).
			Update("feature_key", key).Error; err != nil {
			return err
		}
		summary.FeaturesBackfilled++
	}

	var mappings []model.FeatureMapping
	if err := tx.Where("feature_key = ''").Find(&mappings).Error; err != nil {
		return err
	}
	for i := range mappings {
		key := entity.NormalizeFeatureKey(mappings[i].FeatureName)
		if err := tx.Model(&model.FeatureMapping{}).
			Where("id = ?", mappings[i].Id).
			Update("feature_key", key).Error; err != nil {
			return err
		}
		summary.MappingsBackfilled++
	}
	return nil
}

func (m *Migrator) copyLegacySuggestions(tx *gorm.DB, summary *MigrateSummary) error {
	mig := tx.Migrator()

	if mig.HasTable(&legacyFeatureSuggestion{}) {
		var rows []legacyFeatureSuggestion
		if err := tx.Scopes(scope.OrderByCreatedAsc).Find(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			copied, err := m.copyLegacyRow(tx, legacyCopy{
				UserId:          row.UserId,
				Name:            row.FeatureName,
				Description:     row.Description,
				Status:          entity.FeatureStatusPending,
				TranscriptId:    row.TranscriptId,
				PainPointsCount: row.PainPointsCount,
				CreatedAt:       row.CreatedAt,
			})
			if err != nil {
				return err
			}
			if copied {
				summary.PendingCopied++
			} else {
				summary.SkippedExisting++
			}
		}
		if err := mig.DropTable(&legacyFeatureSuggestion{}); err != nil {
			return err
		}
		summary.DroppedTables = append(summary.DroppedTables, "feature_suggestions")
	}

	if mig.HasTable(&legacyIgnoredSuggestion{}) {
		var rows []legacyIgnoredSuggestion
		if err := tx.Scopes(scope.OrderByCreatedAsc).Find(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			copied, err := m.copyLegacyRow(tx, legacyCopy{
				UserId:    row.UserId,
				Name:      row.FeatureName,
				Status:    entity.FeatureStatusArchived,
				CreatedAt: row.CreatedAt,
			})
			if err != nil {
				return err
			}
			if copied {
				summary.ArchivedCopied++
			} else {
				summary.SkippedExisting++
			}
		}
		if err := mig.DropTable(&legacyIgnoredSuggestion{}); err != nil {
			return err
		}
		summary.DroppedTables = append(summary.DroppedTables, "ignored_suggestions")
	}

	return nil
}

type legacyCopy struct {
	UserId          uuid.UUID
	Name            string
	Description     string
	Status          entity.FeatureStatus
	TranscriptId    *uuid.UUID
	PainPointsCount int
	CreatedAt       time.Time
}

// copyLegacyRow inserts one legacy suggestion into features unless the user
// already has a suggestion row under the same normalized name.
func (m *Migrator) copyLegacyRow(tx *gorm.DB, c legacyCopy) (bool, error) {
	key := entity.NormalizeFeatureKey(c.Name)

	var count int64
	err := tx.Model(&model.Feature{}).
		Where("user_id = ? AND feature_key = ? AND is_suggestion = ?", c.UserId, key, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	f := model.Feature{
		Id:              uuid.New(),
		UserId:          c.UserId,
		FeatureKey:      key,
		Name:            c.Name,
		Description:     c.Description,
		Status:          c.Status.String(),
		IsSuggestion:    true,
		TranscriptId:    c.TranscriptId,
		PainPointsCount: c.PainPointsCount,
		CreatedAt:       c.CreatedAt,
	}
	if err := tx.Create(&f).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return false, apperr.Conflictf("legacy suggestion %q for user %s collides with an existing pending row", c.Name, c.UserId)
		}
		return false, err
	}
	return true, nil
}

// Rollback recreates the deprecated tables and moves suggestion rows back:
// pending ones into feature_suggestions, archived ones into
// ignored_suggestions. It then drops every column Migrate added. Unsafe once
// new data has been written after migration, approved suggestions lose their
// provenance, which is the documented limitation of the reverse path.
func (m *Migrator) Rollback(ctx context.Context) (*RollbackSummary, error) {
	summary := &RollbackSummary{}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mig := tx.Migrator()

		if !mig.HasTable(&legacyFeatureSuggestion{}) {
			if err := mig.CreateTable(&legacyFeatureSuggestion{}); err != nil {
				return err
			}
		}
		if !mig.HasTable(&legacyIgnoredSuggestion{}) {
			if err := mig.CreateTable(&legacyIgnoredSuggestion{}); err != nil {
				return err
			}
		}

		var pending []model.Feature
		err := tx.Where("status = ? AND is_suggestion = ? AND transcript_id IS NOT NULL",
			entity.FeatureStatusPending.String(), true).
			Find(&pending).Error
		if err != nil {
			return err
		}
		for _, f := range pending {
			legacy := legacyFeatureSuggestion{
				Id:              uuid.New(),
				UserId:          f.UserId,
				FeatureName:     f.Name,
				Description:     f.Description,
				TranscriptId:    f.TranscriptId,
				PainPointsCount: f.PainPointsCount,
				CreatedAt:       f.CreatedAt,
			}
			if err := tx.Create(&legacy).Error; err != nil {
				return err
			}
			if err := tx.Delete(&model.Feature{}, f.Id).Error; err != nil {
				return err
			}
			summary.PendingMoved++
		}

		var archived []model.Feature
		err = tx.Where("status = ? AND is_suggestion = ?",
			entity.FeatureStatusArchived.String(), true).
			Find(&archived).Error
		if err != nil {
			return err
		}
		for _, f := range archived {
			legacy := legacyIgnoredSuggestion{
				Id:          uuid.New(),
				UserId:      f.UserId,
				FeatureName: f.Name,
				CreatedAt:   f.CreatedAt,
			}
			if err := tx.Create(&legacy).Error; err != nil {
				return err
			}
			if err := tx.Delete(&model.Feature{}, f.Id).Error; err != nil {
				return err
			}
			summary.ArchivedMoved++
		}

		if err := m.dropAddedColumns(tx, summary); err != nil {
			return err
		}

		return m.recordRun(tx, "down", summary)
	})
	if err != nil {
		m.log.Error("schema", "rollback failed, nothing changed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	m.log.Info("schema", "rollback applied", map[string]interface{}{
		"pending_moved":  summary.PendingMoved,
		"archived_moved": summary.ArchivedMoved,
	})
	return summary, nil
}

func (m *Migrator) dropAddedColumns(tx *gorm.DB, summary *RollbackSummary) error {
	mig := tx.Migrator()

	// Indexes go first, SQLite refuses to drop a column that still has one.
	featureIndexes := []string{
		"ux_features_user_key_pending",
		"idx_features_feature_key",
		"idx_features_status",
		"idx_features_transcript_id",
	}
	for _, idx := range featureIndexes {
		if mig.HasIndex(&model.Feature{}, idx) {
			if err := mig.DropIndex(&model.Feature{}, idx); err != nil {
				return err
			}
		}
	}

	featureColumns := []string{"feature_key", "status", "is_suggestion", "transcript_id", "pain_points_count"}
	for _, col := range featureColumns {
		if mig.HasColumn(&model.Feature{}, col) {
			if err := mig.DropColumn(&model.Feature{}, col); err != nil {
				return err
			}
			summary.DroppedColumns = append(summary.DroppedColumns, "features."+col)
		}
	}

	if mig.HasIndex(&model.FeatureMapping{}, "idx_feature_mappings_feature_key") {
		if err := mig.DropIndex(&model.FeatureMapping{}, "idx_feature_mappings_feature_key"); err != nil {
			return err
		}
	}
	if mig.HasColumn(&model.FeatureMapping{}, "feature_key") {
		if err := mig.DropColumn(&model.FeatureMapping{}, "feature_key"); err != nil {
			return err
		}
		summary.DroppedColumns = append(summary.DroppedColumns, "feature_mappings.feature_key")
	}

	return nil
}

func (m *Migrator) recordRun(tx *gorm.DB, direction string, details interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	run := model.MigrationRun{
		Id:        uuid.New(),
		Name:      migrationName,
		Direction: direction,
		Details:   datatypes.JSON(payload),
	}
	return tx.Create(&run).Error
}

// History returns the most recent migration runs, newest first.
func (m *Migrator) History(ctx context.Context, limit int) ([]model.MigrationRun, error) {
	var runs []model.MigrationRun
	err := m.db.WithContext(ctx).
		Order("applied_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
