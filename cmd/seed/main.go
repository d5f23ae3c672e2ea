package main

import (
	"context"
	"log"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"interview-insights-be/internal/bootstrap"
	"interview-insights-be/internal/config"
	"interview-insights-be/internal/dto"
	"interview-insights-be/internal/tracer"
	"interview-insights-be/pkg/database"
)

// Fixed demo tenant so repeated seeding targets the same account.
const demoUserId = "6f1b24a0-9c33-4b6e-8e54-1c2f4b7d9a10"

// Seeds a demo account through the real services: a feature list, two
// analyzed interviews, and a recurring suggestion ready for review.
func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.PoolConfig{
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		log.Fatal("Error: Failed to connect to database: ", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	defer container.Logger.Sync()

	ctx := context.Background()

	shutdownTracer := tracer.InitTracer(cfg.Tracing)
	defer shutdownTracer(ctx)

	if err := container.Migrator.EnsureSchema(ctx); err != nil {
		log.Fatal("Error: schema setup failed: ", err)
	}

	userId := uuid.MustParse(demoUserId)
	color.Cyan("Seeding demo data for user %s", userId)

	saved, err := container.FeatureService.Save(ctx, &dto.SaveFeaturesRequest{
		UserId: userId,
		Names:  []string{"Dashboard", "Reports", "Integrations"},
	})
	if err != nil {
		log.Fatal("Error: seeding features failed: ", err)
	}
	color.Green("Saved %d features", len(saved.Ids))

	first, err := container.TranscriptService.Analyze(ctx, &dto.AnalyzeTranscriptRequest{
		UserId:         userId,
		TranscriptText: "Interviewer: What slows you down?\nCustomer: The dashboard takes ages to load every morning, and I end up copying the numbers into slides by hand for the Friday report.",
		Summary:        "Slow dashboard, manual reporting workflow",
		Features: []dto.FeatureAnalysis{
			{
				FeatureName: "Dashboard",
				AiSummary:   "Morning load times frustrate daily users",
				Quotes: []dto.QuoteItem{
					{Quote: "The dashboard takes ages to load every morning", PainPoint: "Slow initial dashboard load"},
				},
			},
		},
		NewFeatureSuggestions: []dto.FeatureAnalysis{
			{
				FeatureName: "Export PDF",
				AiSummary:   "Users rebuild reports outside the product by hand",
				Quotes: []dto.QuoteItem{
					{Quote: "I end up copying the numbers into slides by hand", PainPoint: "No export for weekly reporting"},
				},
			},
		},
	})
	if err != nil {
		log.Fatal("Error: seeding first transcript failed: ", err)
	}
	color.Green("Analyzed transcript %s", first.TranscriptId)

	second, err := container.TranscriptService.Analyze(ctx, &dto.AnalyzeTranscriptRequest{
		UserId:         userId,
		TranscriptText: "Interviewer: Anything missing?\nCustomer: My manager wants the charts as a PDF attachment, today I screenshot them. Also the reports page buries the filters I use.",
		Summary:        "PDF sharing and report filter discoverability",
		Features: []dto.FeatureAnalysis{
			{
				FeatureName: "Reports",
				AiSummary:   "Frequently used filters are hard to reach",
				Quotes: []dto.QuoteItem{
					{Quote: "the reports page buries the filters I use", PainPoint: "Filters hidden behind extra clicks"},
				},
			},
		},
		NewFeatureSuggestions: []dto.FeatureAnalysis{
			{
				FeatureName: "export pdf",
				AiSummary:   "Recurring ask for shareable PDF output",
				Quotes: []dto.QuoteItem{
					{Quote: "My manager wants the charts as a PDF attachment", PainPoint: "No shareable report format"},
				},
			},
		},
	})
	if err != nil {
		log.Fatal("Error: seeding second transcript failed: ", err)
	}
	color.Green("Analyzed transcript %s", second.TranscriptId)

	suggestions, err := container.SuggestionService.GetAll(ctx, userId)
	if err != nil {
		log.Fatal("Error: listing suggestions failed: ", err)
	}
	for _, s := range suggestions {
		color.Yellow("Pending suggestion: %s (seen in %d transcripts)", s.Name, s.PainPointsCount)
	}

	color.Green("Seeding completed")
}
