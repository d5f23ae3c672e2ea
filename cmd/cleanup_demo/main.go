package main

import (
	"log"

	"interview-insights-be/internal/config"
	"interview-insights-be/pkg/database"
)

// Tenant created by cmd/seed.
const demoUserId = "6f1b24a0-9c33-4b6e-8e54-1c2f4b7d9a10"

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.PoolConfig{})
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}

	log.Println("Starting Cleanup of Demo Data...")

	tx := db.Begin()

	// 1. Mappings sit at the bottom of the dependency chain
	res := tx.Exec(`
		DELETE FROM feature_mappings
		WHERE pain_point_id IN (
			SELECT pp.id FROM pain_points pp
			JOIN transcripts t ON t.id = pp.transcript_id
			WHERE t.user_id = ?
		)
	`, demoUserId)
	if res.Error != nil {
		tx.Rollback()
		log.Fatalf("Error deleting feature_mappings: %v", res.Error)
	}
	log.Printf("Deleted %d demo feature_mappings", res.RowsAffected)

	// 2. Pain points
	res = tx.Exec(`
		DELETE FROM pain_points
		WHERE transcript_id IN (SELECT id FROM transcripts WHERE user_id = ?)
	`, demoUserId)
	if res.Error != nil {
		tx.Rollback()
		log.Fatalf("Error deleting pain_points: %v", res.Error)
	}
	log.Printf("Deleted %d demo pain_points", res.RowsAffected)

	// 3. Transcripts
	res = tx.Exec("DELETE FROM transcripts WHERE user_id = ?", demoUserId)
	if res.Error != nil {
		tx.Rollback()
		log.Fatalf("Error deleting transcripts: %v", res.Error)
	}
	log.Printf("Deleted %d demo transcripts", res.RowsAffected)

	// 4. Features, suggestions included
	res = tx.Exec("DELETE FROM features WHERE user_id = ?", demoUserId)
	if res.Error != nil {
		tx.Rollback()
		log.Fatalf("Error deleting features: %v", res.Error)
	}
	log.Printf("Deleted %d demo features", res.RowsAffected)

	if err := tx.Commit().Error; err != nil {
		log.Fatalf("Commit failed: %v", err)
	}

	log.Println("Cleanup Complete.")
}
