package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MigrationRun records one applied schema migration or rollback. Details holds
// the row counts the run moved, for audit output in cmd/migrate.
type MigrationRun struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name      string         `gorm:"type:varchar(100);not null;index"`
	Direction string         `gorm:"type:varchar(10);not null"`
	Details   datatypes.JSON
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (MigrationRun) TableName() string {
	return "migration_runs"
}
