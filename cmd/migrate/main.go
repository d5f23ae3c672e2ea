package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/fatih/color"

	"interview-insights-be/internal/config"
	"interview-insights-be/internal/pkg/logger"
	"interview-insights-be/internal/schema"
	"interview-insights-be/pkg/database"
)

// Batch entrypoint for schema management. The default action upgrades a
// database that still carries the deprecated two-table suggestion layout to
// the unified feature schema. Never run during request handling.
func main() {
	rollback := flag.Bool("rollback", false, "move suggestion rows back into the deprecated two-table layout")
	ensure := flag.Bool("ensure", false, "create or extend the unified schema without touching legacy data")
	history := flag.Int("history", 0, "print the last N migration runs and exit")
	flag.Parse()

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

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	m := schema.NewMigrator(db, sysLogger)
	ctx := context.Background()

	switch {
	case *history > 0:
		runs, err := m.History(ctx, *history)
		if err != nil {
			log.Fatal("Error: history lookup failed: ", err)
		}
		if len(runs) == 0 {
			color.Yellow("No migration runs recorded yet")
			return
		}
		for _, run := range runs {
			color.Cyan("%s  %-4s  %s  %s", run.AppliedAt.Format(time.RFC3339), run.Direction, run.Name, run.Details)
		}

	case *ensure:
		if err := m.EnsureSchema(ctx); err != nil {
			color.Red("Schema ensure failed: %v", err)
			os.Exit(1)
		}
		color.Green("Unified schema is in place")

	case *rollback:
		summary, err := m.Rollback(ctx)
		if err != nil {
			color.Red("Rollback failed, nothing changed: %v", err)
			os.Exit(1)
		}
		color.Green("Rollback complete")
		color.Cyan("  pending suggestions moved: %d", summary.PendingMoved)
		color.Cyan("  ignored suggestions moved: %d", summary.ArchivedMoved)
		color.Cyan("  columns dropped:           %d", len(summary.DroppedColumns))

	default:
		summary, err := m.Migrate(ctx)
		if err != nil {
			color.Red("Migration failed, rolled back: %v", err)
			os.Exit(1)
		}
		color.Green("Migration complete")
		color.Cyan("  suggestions copied:  %d", summary.PendingCopied)
		color.Cyan("  ignored copied:      %d", summary.ArchivedCopied)
		color.Cyan("  duplicates skipped:  %d", summary.SkippedExisting)
		color.Cyan("  features backfilled: %d", summary.FeaturesBackfilled)
		color.Cyan("  mappings backfilled: %d", summary.MappingsBackfilled)
	}
}
