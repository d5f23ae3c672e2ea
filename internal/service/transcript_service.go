package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"interview-insights-be/internal/dto"
	"interview-insights-be/internal/entity"
	"interview-insights-be/internal/pkg/apperr"
	"interview-insights-be/internal/pkg/logger"
	"interview-insights-be/internal/pkg/validation"
	"interview-insights-be/internal/repository/specification"
	"interview-insights-be/internal/repository/unitofwork"
	"interview-insights-be/pkg/database"
)

type ITranscriptService interface {
	Analyze(ctx context.Context, req *dto.AnalyzeTranscriptRequest) (*dto.AnalyzeTranscriptResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.TranscriptListItem, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowTranscriptResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type transcriptService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewTranscriptService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) ITranscriptService {
	return &transcriptService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

// opFailed logs the underlying cause and hands the caller the generic
// operation-failed category, schema detail never crosses the boundary.
func opFailed(log logger.ILogger, module, op string, err error, details map[string]interface{}) error {
	if apperr.IsValidation(err) || apperr.IsNotFound(err) || apperr.IsConflict(err) {
		return err
	}
	if details == nil {
		details = map[string]interface{}{}
	}
	details["error"] = err.Error()
	log.Error(module, op+" failed", details)
	if database.IsDuplicateKey(err) {
		return apperr.Conflictf("%s hit a conflicting row", op)
	}
	return apperr.OperationFailed(op)
}

// Analyze runs the transcript writer: one transaction that stores the
// transcript, fans out pain points and mappings for known features, and runs
// suggestion deduplication for new ones. Nothing is visible to other
// connections until commit.
func (c *transcriptService) Analyze(ctx context.Context, req *dto.AnalyzeTranscriptRequest) (*dto.AnalyzeTranscriptResponse, error) {
	ctx, span := otel.Tracer("transcript-writer").Start(ctx, "AnalyzeTranscript")
	defer span.End()

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	for _, f := range req.Features {
		if entity.NormalizeFeatureKey(f.FeatureName) == "" {
			return nil, apperr.Validationf("featureName is blank")
		}
	}
	for _, s := range req.NewFeatureSuggestions {
		if entity.NormalizeFeatureKey(s.FeatureName) == "" {
			return nil, apperr.Validationf("featureName is blank")
		}
	}

	span.SetAttributes(
		attribute.Int("analysis.features", len(req.Features)),
		attribute.Int("analysis.suggestions", len(req.NewFeatureSuggestions)),
	)

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, opFailed(c.logger, "transcript", "analyze transcript", err, nil)
	}
	defer uow.Rollback()

	transcript := entity.Transcript{
		Id:        uuid.New(),
		UserId:    req.UserId,
		Content:   req.TranscriptText,
		Summary:   req.Summary,
		CreatedAt: time.Now().UTC(),
	}
	if err := uow.TranscriptRepository().Create(ctx, &transcript); err != nil {
		return nil, opFailed(c.logger, "transcript", "analyze transcript", err, nil)
	}

	var points []*entity.PainPoint
	var mappings []*entity.FeatureMapping

	collect := func(quotes []dto.QuoteItem, key, name string) {
		for _, q := range quotes {
			point := &entity.PainPoint{
				Id:           uuid.New(),
				TranscriptId: transcript.Id,
				Quote:        q.Quote,
				Description:  q.PainPoint,
			}
			points = append(points, point)
			mappings = append(mappings, &entity.FeatureMapping{
				Id:          uuid.New(),
				PainPointId: point.Id,
				FeatureKey:  key,
				FeatureName: name,
			})
		}
	}

	// Known features map by name only, whether or not a Feature row exists.
	for _, f := range req.Features {
		collect(f.Quotes, entity.NormalizeFeatureKey(f.FeatureName), f.FeatureName)
	}

	// New suggestions are coalesced per normalized key first, the recurrence
	// counter counts transcripts, not how often one transcript repeats a name.
	for _, s := range coalesceSuggestions(req.NewFeatureSuggestions) {
		suggestion := entity.Feature{
			Id:              uuid.New(),
			UserId:          req.UserId,
			Key:             s.key,
			Name:            s.name,
			Description:     s.summary,
			Status:          entity.FeatureStatusPending,
			IsSuggestion:    true,
			TranscriptId:    &transcript.Id,
			PainPointsCount: 1,
		}
		surviving, err := uow.FeatureRepository().UpsertPendingSuggestion(ctx, &suggestion)
		if err != nil {
			return nil, opFailed(c.logger, "transcript", "analyze transcript", err, map[string]interface{}{
				"suggestion": s.name,
			})
		}
		// Mappings attach to the surviving row's spelling so every quote for
		// a recurring suggestion joins under one name.
		collect(s.quotes, surviving.Key, surviving.Name)
	}

	if err := uow.PainPointRepository().CreateBatch(ctx, points); err != nil {
		return nil, opFailed(c.logger, "transcript", "analyze transcript", err, nil)
	}
	if err := uow.FeatureMappingRepository().CreateBatch(ctx, mappings); err != nil {
		return nil, opFailed(c.logger, "transcript", "analyze transcript", err, nil)
	}

	if err := uow.Commit(); err != nil {
		return nil, opFailed(c.logger, "transcript", "analyze transcript", err, nil)
	}

	c.logger.Info("transcript", "analysis stored", map[string]interface{}{
		"transcript_id": transcript.Id,
		"pain_points":   len(points),
		"suggestions":   len(req.NewFeatureSuggestions),
	})

	return &dto.AnalyzeTranscriptResponse{TranscriptId: transcript.Id}, nil
}

type coalescedSuggestion struct {
	key     string
	name    string
	summary string
	quotes  []dto.QuoteItem
}

func coalesceSuggestions(suggestions []dto.FeatureAnalysis) []coalescedSuggestion {
	var order []string
	byKey := map[string]*coalescedSuggestion{}

	for _, s := range suggestions {
		key := entity.NormalizeFeatureKey(s.FeatureName)
		existing, ok := byKey[key]
		if !ok {
			byKey[key] = &coalescedSuggestion{
				key:     key,
				name:    s.FeatureName,
				summary: s.AiSummary,
				quotes:  append([]dto.QuoteItem{}, s.Quotes...),
			}
			order = append(order, key)
			continue
		}
		existing.quotes = append(existing.quotes, s.Quotes...)
		if existing.summary == "" {
			existing.summary = s.AiSummary
		}
	}

	result := make([]coalescedSuggestion, len(order))
	for i, key := range order {
		result[i] = *byKey[key]
	}
	return result
}

func (c *transcriptService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.TranscriptListItem, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	transcripts, err := uow.TranscriptRepository().FindAll(ctx,
		specification.OwnedByUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, opFailed(c.logger, "transcript", "list transcripts", err, nil)
	}

	ids := make([]uuid.UUID, len(transcripts))
	for i, t := range transcripts {
		ids[i] = t.Id
	}
	counts, err := uow.PainPointRepository().CountByTranscriptIds(ctx, ids)
	if err != nil {
		return nil, opFailed(c.logger, "transcript", "list transcripts", err, nil)
	}

	items := make([]*dto.TranscriptListItem, len(transcripts))
	for i, t := range transcripts {
		items[i] = &dto.TranscriptListItem{
			Id:             t.Id,
			Summary:        t.Summary,
			PainPointCount: counts[t.Id],
			CreatedAt:      t.CreatedAt,
		}
	}
	return items, nil
}

func (c *transcriptService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowTranscriptResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	transcript, err := uow.TranscriptRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, opFailed(c.logger, "transcript", "show transcript", err, nil)
	}
	if transcript == nil {
		return nil, apperr.NotFoundf("transcript %s", id)
	}

	points, err := uow.PainPointRepository().FindByTranscriptId(ctx, id)
	if err != nil {
		return nil, opFailed(c.logger, "transcript", "show transcript", err, nil)
	}

	views := make([]dto.PainPointView, len(points))
	for i, p := range points {
		view := dto.PainPointView{
			Id:          p.Id,
			FeatureName: p.FeatureName,
			Quote:       p.Quote,
			Description: p.Description,
		}
		if p.MappingId != nil {
			view.MappingId = *p.MappingId
		}
		views[i] = view
	}

	return &dto.ShowTranscriptResponse{
		Id:         transcript.Id,
		Content:    transcript.Content,
		Summary:    transcript.Summary,
		PainPoints: views,
		CreatedAt:  transcript.CreatedAt,
	}, nil
}

// Delete removes the transcript with its pain points and their mappings.
// Feature rows stay, including suggestions this transcript produced.
func (c *transcriptService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	transcript, err := uow.TranscriptRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return opFailed(c.logger, "transcript", "delete transcript", err, nil)
	}
	if transcript == nil {
		return apperr.NotFoundf("transcript %s", id)
	}

	if err := uow.Begin(ctx); err != nil {
		return opFailed(c.logger, "transcript", "delete transcript", err, nil)
	}
	defer uow.Rollback()

	// Mappings first, their delete resolves pain point ids by subquery.
	if err := uow.FeatureMappingRepository().DeleteByTranscriptId(ctx, id); err != nil {
		return opFailed(c.logger, "transcript", "delete transcript", err, nil)
	}
	if err := uow.PainPointRepository().DeleteByTranscriptId(ctx, id); err != nil {
		return opFailed(c.logger, "transcript", "delete transcript", err, nil)
	}
	if err := uow.TranscriptRepository().Delete(ctx, id); err != nil {
		return opFailed(c.logger, "transcript", "delete transcript", err, nil)
	}

	if err := uow.Commit(); err != nil {
		return opFailed(c.logger, "transcript", "delete transcript", err, nil)
	}

	c.logger.Info("transcript", "transcript deleted", map[string]interface{}{
		"transcript_id": id,
	})
	return nil
}
