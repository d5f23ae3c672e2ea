package unitofwork

import (
	"context"

	"interview-insights-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	TranscriptRepository() contract.TranscriptRepository
	PainPointRepository() contract.PainPointRepository
	FeatureMappingRepository() contract.FeatureMappingRepository
	FeatureRepository() contract.FeatureRepository
}
