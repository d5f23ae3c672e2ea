package contract

import (
	"context"

	"github.com/google/uuid"

	"interview-insights-be/internal/entity"
	"interview-insights-be/internal/repository/specification"
)

type FeatureMappingRepository interface {
	CreateBatch(ctx context.Context, mappings []*entity.FeatureMapping) error
	// DeleteOwned removes a single mapping after verifying, through its pain
	// point's transcript, that it belongs to the user. Returns rows affected,
	// zero meaning no such mapping for this user.
	DeleteOwned(ctx context.Context, userId uuid.UUID, id uuid.UUID) (int64, error)
	DeleteByTranscriptId(ctx context.Context, transcriptId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureMapping, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureMapping, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// RetargetKey rewrites every mapping under oldKey that belongs to one of
	// the user's transcripts to the new key and display name. Returns the
	// number of mappings rewritten.
	RetargetKey(ctx context.Context, userId uuid.UUID, oldKey, newKey, newName string) (int64, error)

	// CountDistinctTranscripts returns, per feature key, how many distinct
	// transcripts of the user contributed a mapped pain point. Keys without
	// mappings are absent from the result.
	CountDistinctTranscripts(ctx context.Context, userId uuid.UUID, keys []string) (map[string]int64, error)
}
