package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"interview-insights-be/internal/pkg/logger"
	"interview-insights-be/internal/repository/unitofwork"
	"interview-insights-be/internal/schema"
)

// testLogger satisfies logger.ILogger without touching the filesystem.
type testLogger struct{}

var _ logger.ILogger = testLogger{}

func (testLogger) Debug(module, message string, details map[string]interface{}) {}
func (testLogger) Info(module, message string, details map[string]interface{})  {}
func (testLogger) Warn(module, message string, details map[string]interface{})  {}
func (testLogger) Error(module, message string, details map[string]interface{}) {}
func (testLogger) Sync() error                                                  { return nil }

// newTestDB opens a fresh in-memory database with the unified schema. The
// pool is pinned to one connection, the database lives exactly as long as it.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		// SQLite stores timestamps as text, generated times have to share the
		// UTC offset the services write or ordering comparisons go wrong.
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

	if err := schema.NewMigrator(db, testLogger{}).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return db
}

type testServices struct {
	db          *gorm.DB
	transcripts ITranscriptService
	features    IFeatureService
	suggestions ISuggestionService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	log := testLogger{}

	features := NewFeatureService(factory, log)
	return &testServices{
		db:          db,
		transcripts: NewTranscriptService(factory, log),
		features:    features,
		suggestions: NewSuggestionService(factory, features, log),
	}
}

func (s *testServices) countRows(t *testing.T, table string) int64 {
	t.Helper()
	var count int64
	if err := s.db.Table(table).Count(&count).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}
