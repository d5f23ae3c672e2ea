package contract

import (
	"context"

	"github.com/google/uuid"

	"interview-insights-be/internal/entity"
	"interview-insights-be/internal/repository/specification"
)

type FeatureRepository interface {
	Create(ctx context.Context, feature *entity.Feature) error
	CreateBatch(ctx context.Context, features []*entity.Feature) error
	Update(ctx context.Context, feature *entity.Feature) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Feature, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Feature, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FindPendingSuggestions lists the user's pending suggestions, most
	// recently updated first.
	FindPendingSuggestions(ctx context.Context, userId uuid.UUID) ([]*entity.Feature, error)

	// UpsertPendingSuggestion inserts the suggestion or, when the user
	// already has a pending row under the same key, bumps that row's
	// recurrence counter instead. The surviving row is returned. The conflict
	// target is the partial unique index on pending rows, so the
	// check-and-increment is a single atomic statement.
	UpsertPendingSuggestion(ctx context.Context, suggestion *entity.Feature) (*entity.Feature, error)

	// UpdateStatusIf moves the feature from one status to another only if it
	// currently holds the expected status and belongs to the user. Returns
	// the number of rows changed, zero meaning no such row or a lost race.
	UpdateStatusIf(ctx context.Context, id, userId uuid.UUID, from, to entity.FeatureStatus) (int64, error)

	// DeleteUserAuthored removes every non-suggestion feature of the user.
	// Suggestion rows survive, whatever their status.
	DeleteUserAuthored(ctx context.Context, userId uuid.UUID) (int64, error)
}
