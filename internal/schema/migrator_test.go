package schema

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"interview-insights-be/internal/model"
	"interview-insights-be/internal/pkg/logger"
)

type testLogger struct{}

var _ logger.ILogger = testLogger{}

func (testLogger) Debug(module, message string, details map[string]interface{}) {}
func (testLogger) Info(module, message string, details map[string]interface{})  {}
func (testLogger) Warn(module, message string, details map[string]interface{})  {}
func (testLogger) Error(module, message string, details map[string]interface{}) {}
func (testLogger) Sync() error                                                  { return nil }

// Pre-unification table shapes, the layout Migrate upgrades away from.

type oldFeature struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (oldFeature) TableName() string { return "features" }

type oldFeatureMapping struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PainPointId uuid.UUID `gorm:"type:uuid;not null;index"`
	FeatureName string    `gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (oldFeatureMapping) TableName() string { return "feature_mappings" }

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		// SQLite stores timestamps as text, generated times have to share one
		// offset or ordering comparisons go wrong.
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db
}

// newLegacyDB builds a database in the deprecated layout: features without
// lifecycle columns, mappings without keys, suggestions split over two tables.
func newLegacyDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := openTestDB(t)
	err := db.AutoMigrate(
		&model.Transcript{},
		&model.PainPoint{},
		&oldFeature{},
		&oldFeatureMapping{},
		&legacyFeatureSuggestion{},
		&legacyIgnoredSuggestion{},
	)
	if err != nil {
		t.Fatalf("build legacy schema: %v", err)
	}
	return db
}

func TestMigrateFromLegacySchema(t *testing.T) {
	db := newLegacyDB(t)
	ctx := context.Background()
	userId := uuid.New()
	transcriptId := uuid.New()

	if err := db.Create(&model.Transcript{Id: transcriptId, UserId: userId, Content: "interview"}).Error; err != nil {
		t.Fatalf("seed transcript: %v", err)
	}
	painPointId := uuid.New()
	if err := db.Create(&model.PainPoint{Id: painPointId, TranscriptId: transcriptId, Quote: "q", Description: "p"}).Error; err != nil {
		t.Fatalf("seed pain point: %v", err)
	}
	if err := db.Create(&oldFeature{Id: uuid.New(), UserId: userId, Name: "Dashboard"}).Error; err != nil {
		t.Fatalf("seed feature: %v", err)
	}
	if err := db.Create(&oldFeatureMapping{Id: uuid.New(), PainPointId: painPointId, FeatureName: "Slack  Integration"}).Error; err != nil {
		t.Fatalf("seed mapping: %v", err)
	}
	suggestions := []legacyFeatureSuggestion{
		{Id: uuid.New(), UserId: userId, FeatureName: "Export PDF", Description: "wants exports", TranscriptId: &transcriptId, PainPointsCount: 2},
		{Id: uuid.New(), UserId: userId, FeatureName: "Slack Integration", TranscriptId: &transcriptId, PainPointsCount: 1},
	}
	if err := db.Create(&suggestions).Error; err != nil {
		t.Fatalf("seed suggestions: %v", err)
	}
	ignored := []legacyIgnoredSuggestion{
		{Id: uuid.New(), UserId: userId, FeatureName: "Dark Mode"},
		// Same normalized name as a copied suggestion, the guard must skip it.
		{Id: uuid.New(), UserId: userId, FeatureName: "export  pdf"},
	}
	if err := db.Create(&ignored).Error; err != nil {
		t.Fatalf("seed ignored: %v", err)
	}

	m := NewMigrator(db, testLogger{})
	summary, err := m.Migrate(ctx)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	assert.Equal(t, 2, summary.PendingCopied)
	assert.Equal(t, 1, summary.ArchivedCopied)
	assert.Equal(t, 1, summary.SkippedExisting)
	assert.Equal(t, 1, summary.FeaturesBackfilled)
	assert.Equal(t, 1, summary.MappingsBackfilled)
	assert.ElementsMatch(t, []string{"feature_suggestions", "ignored_suggestions"}, summary.DroppedTables)

	assert.False(t, db.Migrator().HasTable("feature_suggestions"))
	assert.False(t, db.Migrator().HasTable("ignored_suggestions"))

	t.Run("user feature backfilled as active", func(t *testing.T) {
		var f model.Feature
		if err := db.Where("feature_key = ?", "dashboard").First(&f).Error; err != nil {
			t.Fatalf("find dashboard: %v", err)
		}
		assert.Equal(t, "active", f.Status)
		assert.False(t, f.IsSuggestion)
		assert.Equal(t, "Dashboard", f.Name)
	})

	t.Run("mapping key backfilled", func(t *testing.T) {
		var mp model.FeatureMapping
		if err := db.First(&mp).Error; err != nil {
			t.Fatalf("find mapping: %v", err)
		}
		assert.Equal(t, "slack integration", mp.FeatureKey)
		assert.Equal(t, "Slack  Integration", mp.FeatureName)
	})

	t.Run("suggestions copied with provenance", func(t *testing.T) {
		var f model.Feature
		if err := db.Where("feature_key = ?", "export pdf").First(&f).Error; err != nil {
			t.Fatalf("find export pdf: %v", err)
		}
		assert.Equal(t, "pending", f.Status)
		assert.True(t, f.IsSuggestion)
		assert.Equal(t, 2, f.PainPointsCount)
		if assert.NotNil(t, f.TranscriptId) {
			assert.Equal(t, transcriptId, *f.TranscriptId)
		}
	})

	t.Run("ignored copied as archived", func(t *testing.T) {
		var f model.Feature
		if err := db.Where("feature_key = ?", "dark mode").First(&f).Error; err != nil {
			t.Fatalf("find dark mode: %v", err)
		}
		assert.Equal(t, "archived", f.Status)
		assert.True(t, f.IsSuggestion)
	})

	t.Run("run recorded", func(t *testing.T) {
		runs, err := m.History(ctx, 10)
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		if assert.Len(t, runs, 1) {
			assert.Equal(t, "unify_feature_suggestions", runs[0].Name)
			assert.Equal(t, "up", runs[0].Direction)
			assert.NotEmpty(t, runs[0].Details)
		}
	})
}

func TestMigrateTwiceChangesNothing(t *testing.T) {
	db := newLegacyDB(t)
	ctx := context.Background()
	userId := uuid.New()
	transcriptId := uuid.New()

	seed := legacyFeatureSuggestion{
		Id: uuid.New(), UserId: userId, FeatureName: "Export PDF",
		TranscriptId: &transcriptId, PainPointsCount: 1,
	}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	m := NewMigrator(db, testLogger{})
	if _, err := m.Migrate(ctx); err != nil {
		t.Fatalf("first migrate: %v", err)
	}

	second, err := m.Migrate(ctx)
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	assert.Equal(t, 0, second.PendingCopied)
	assert.Equal(t, 0, second.ArchivedCopied)
	assert.Equal(t, 0, second.SkippedExisting)
	assert.Equal(t, 0, second.FeaturesBackfilled)
	assert.Empty(t, second.DroppedTables)

	var features int64
	db.Model(&model.Feature{}).Count(&features)
	assert.EqualValues(t, 1, features)

	runs, err := m.History(ctx, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	assert.Len(t, runs, 2)
}

func TestMigrateOnFreshDatabase(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	m := NewMigrator(db, testLogger{})
	summary, err := m.Migrate(ctx)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	assert.Equal(t, 0, summary.PendingCopied)
	assert.Empty(t, summary.DroppedTables)

	for _, table := range []string{"transcripts", "pain_points", "features", "feature_mappings", "migration_runs"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

// featureState is the schema-independent view used to compare database
// content across a migrate, rollback, migrate cycle.
type featureState struct {
	Kind  string
	User  uuid.UUID
	Name  string
	Count int
}

func snapshotState(t *testing.T, db *gorm.DB) []featureState {
	t.Helper()
	var features []model.Feature
	if err := db.Find(&features).Error; err != nil {
		t.Fatalf("snapshot features: %v", err)
	}
	states := make([]featureState, len(features))
	for i, f := range features {
		kind := "feature"
		if f.IsSuggestion {
			kind = "suggestion:" + f.Status
		}
		states[i] = featureState{Kind: kind, User: f.UserId, Name: f.Name, Count: f.PainPointsCount}
	}
	sort.Slice(states, func(i, j int) bool {
		return fmt.Sprint(states[i]) < fmt.Sprint(states[j])
	})
	return states
}

func TestMigrateRollbackRoundTrip(t *testing.T) {
	db := newLegacyDB(t)
	ctx := context.Background()
	userId := uuid.New()
	transcriptId := uuid.New()

	if err := db.Create(&model.Transcript{Id: transcriptId, UserId: userId, Content: "interview"}).Error; err != nil {
		t.Fatalf("seed transcript: %v", err)
	}
	if err := db.Create(&oldFeature{Id: uuid.New(), UserId: userId, Name: "Dashboard"}).Error; err != nil {
		t.Fatalf("seed feature: %v", err)
	}
	pending := legacyFeatureSuggestion{
		Id: uuid.New(), UserId: userId, FeatureName: "Export PDF",
		Description: "wants exports", TranscriptId: &transcriptId, PainPointsCount: 3,
	}
	if err := db.Create(&pending).Error; err != nil {
		t.Fatalf("seed pending: %v", err)
	}
	ignored := legacyIgnoredSuggestion{Id: uuid.New(), UserId: userId, FeatureName: "Dark Mode"}
	if err := db.Create(&ignored).Error; err != nil {
		t.Fatalf("seed ignored: %v", err)
	}

	m := NewMigrator(db, testLogger{})
	if _, err := m.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	migrated := snapshotState(t, db)

	rollback, err := m.Rollback(ctx)
	if err != nil {
		t.Fatalf("rollback: %v", err)
	}
	assert.Equal(t, 1, rollback.PendingMoved)
	assert.Equal(t, 1, rollback.ArchivedMoved)

	t.Run("legacy layout restored", func(t *testing.T) {
		var sug []legacyFeatureSuggestion
		if err := db.Find(&sug).Error; err != nil {
			t.Fatalf("find suggestions: %v", err)
		}
		if assert.Len(t, sug, 1) {
			assert.Equal(t, "Export PDF", sug[0].FeatureName)
			assert.Equal(t, 3, sug[0].PainPointsCount)
			if assert.NotNil(t, sug[0].TranscriptId) {
				assert.Equal(t, transcriptId, *sug[0].TranscriptId)
			}
		}

		var ign []legacyIgnoredSuggestion
		if err := db.Find(&ign).Error; err != nil {
			t.Fatalf("find ignored: %v", err)
		}
		if assert.Len(t, ign, 1) {
			assert.Equal(t, "Dark Mode", ign[0].FeatureName)
		}

		for _, col := range []string{"feature_key", "status", "is_suggestion", "transcript_id", "pain_points_count"} {
			assert.False(t, db.Migrator().HasColumn(&model.Feature{}, col), "column %s still present", col)
		}
		assert.False(t, db.Migrator().HasColumn(&model.FeatureMapping{}, "feature_key"))

		var names []string
		if err := db.Table("features").Pluck("name", &names).Error; err != nil {
			t.Fatalf("pluck features: %v", err)
		}
		assert.Equal(t, []string{"Dashboard"}, names)
	})

	// Migrating again restores exactly what the first migration produced,
	// row identities aside.
	if _, err := m.Migrate(ctx); err != nil {
		t.Fatalf("re-migrate: %v", err)
	}
	assert.Equal(t, migrated, snapshotState(t, db))

	runs, err := m.History(ctx, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if assert.Len(t, runs, 3) {
		assert.Equal(t, "up", runs[0].Direction)
		assert.Equal(t, "down", runs[1].Direction)
		assert.Equal(t, "up", runs[2].Direction)
	}
}
