package contract

import (
	"context"

	"github.com/google/uuid"

	"interview-insights-be/internal/entity"
	"interview-insights-be/internal/repository/specification"
)

// PainPointRepository is append-only on purpose. Quotes are never edited,
// corrections happen by deleting the mapping that mis-assigned them.
type PainPointRepository interface {
	CreateBatch(ctx context.Context, points []*entity.PainPoint) error
	DeleteByTranscriptId(ctx context.Context, transcriptId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PainPoint, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FindByTranscriptId returns the transcript's pain points with their
	// mapping, oldest first. The mapping is nil when it has been removed.
	FindByTranscriptId(ctx context.Context, transcriptId uuid.UUID) ([]*entity.PainPointWithMapping, error)

	// FindForFeatureKey returns every pain point mapped to the key across the
	// user's transcripts, newest transcript first.
	FindForFeatureKey(ctx context.Context, userId uuid.UUID, key string) ([]*entity.PainPointWithTranscript, error)

	// CountByTranscriptIds returns pain point totals per transcript.
	CountByTranscriptIds(ctx context.Context, transcriptIds []uuid.UUID) (map[uuid.UUID]int64, error)
}
