package service

import (
	"context"

	"github.com/google/uuid"

	"interview-insights-be/internal/dto"
	"interview-insights-be/internal/entity"
	"interview-insights-be/internal/pkg/apperr"
	"interview-insights-be/internal/pkg/logger"
	"interview-insights-be/internal/repository/specification"
	"interview-insights-be/internal/repository/unitofwork"
)

type ISuggestionService interface {
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.SuggestionListItem, error)
	Approve(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ApproveSuggestionResponse, error)
	Ignore(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type suggestionService struct {
	uowFactory     unitofwork.RepositoryFactory
	featureService IFeatureService
	logger         logger.ILogger
}

func NewSuggestionService(uowFactory unitofwork.RepositoryFactory, featureService IFeatureService, log logger.ILogger) ISuggestionService {
	return &suggestionService{
		uowFactory:     uowFactory,
		featureService: featureService,
		logger:         log,
	}
}

// GetAll lists the user's pending suggestions, most recently touched first,
// so a suggestion re-proposed by a fresh transcript floats back to the top.
func (c *suggestionService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.SuggestionListItem, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	suggestions, err := uow.FeatureRepository().FindPendingSuggestions(ctx, userId)
	if err != nil {
		return nil, opFailed(c.logger, "suggestion", "list suggestions", err, nil)
	}

	items := make([]*dto.SuggestionListItem, len(suggestions))
	for i, s := range suggestions {
		items[i] = &dto.SuggestionListItem{
			Id:              s.Id,
			Name:            s.Name,
			Description:     s.Description,
			PainPointsCount: s.PainPointsCount,
			TranscriptId:    s.TranscriptId,
			CreatedAt:       s.CreatedAt,
			UpdatedAt:       s.UpdatedAt,
		}
	}
	return items, nil
}

// Approve promotes a pending suggestion to an active feature. The status
// check and the flip are one conditional UPDATE, two concurrent approvals
// cannot both win.
func (c *suggestionService) Approve(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ApproveSuggestionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	rows, err := uow.FeatureRepository().UpdateStatusIf(ctx, id, userId,
		entity.FeatureStatusPending, entity.FeatureStatusActive)
	if err != nil {
		return nil, opFailed(c.logger, "suggestion", "approve suggestion", err, nil)
	}
	if rows == 0 {
		// Zero rows is either an unknown id or a suggestion that already left
		// pending, reread to tell the two apart.
		feature, err := uow.FeatureRepository().FindOne(ctx,
			specification.ByID{ID: id},
			specification.OwnedByUser{UserID: userId},
		)
		if err != nil {
			return nil, opFailed(c.logger, "suggestion", "approve suggestion", err, nil)
		}
		if feature == nil {
			return nil, apperr.NotFoundf("suggestion %s", id)
		}
		return nil, apperr.Conflictf("suggestion %q is %s", feature.Name, feature.Status)
	}

	c.logger.Info("suggestion", "suggestion approved", map[string]interface{}{
		"feature_id": id,
	})
	return &dto.ApproveSuggestionResponse{
		Id:     id,
		Status: entity.FeatureStatusActive.String(),
	}, nil
}

// Ignore archives a suggestion. Same semantics as archiving a feature,
// including the no-op success on an already archived row.
func (c *suggestionService) Ignore(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	return c.featureService.Archive(ctx, userId, id)
}
