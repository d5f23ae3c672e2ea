package bootstrap

import (
	"gorm.io/gorm"

	"interview-insights-be/internal/config"
	"interview-insights-be/internal/pkg/logger"
	"interview-insights-be/internal/repository/unitofwork"
	"interview-insights-be/internal/schema"
	"interview-insights-be/internal/service"
)

// Container holds the wired service graph. Embedders call NewContainer once
// and hand the services to whatever surface they expose.
type Container struct {
	TranscriptService service.ITranscriptService
	FeatureService    service.IFeatureService
	SuggestionService service.ISuggestionService

	Migrator *schema.Migrator
	Logger   logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	featureService := service.NewFeatureService(uowFactory, sysLogger)

	return &Container{
		TranscriptService: service.NewTranscriptService(uowFactory, sysLogger),
		FeatureService:    featureService,
		SuggestionService: service.NewSuggestionService(uowFactory, featureService, sysLogger),
		Migrator:          schema.NewMigrator(db, sysLogger),
		Logger:            sysLogger,
	}
}
