package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"interview-insights-be/internal/dto"
	"interview-insights-be/internal/entity"
	"interview-insights-be/internal/pkg/apperr"
	"interview-insights-be/internal/pkg/logger"
	"interview-insights-be/internal/pkg/validation"
	"interview-insights-be/internal/repository/specification"
	"interview-insights-be/internal/repository/unitofwork"
)

type IFeatureService interface {
	Create(ctx context.Context, req *dto.CreateFeatureRequest) (*dto.CreateFeatureResponse, error)
	GetAll(ctx context.Context, req *dto.ListFeaturesRequest) ([]*dto.FeatureListItem, error)
	GetAllWithCounts(ctx context.Context, userId uuid.UUID) ([]*dto.FeatureCountItem, error)
	Save(ctx context.Context, req *dto.SaveFeaturesRequest) (*dto.SaveFeaturesResponse, error)
	Update(ctx context.Context, req *dto.UpdateFeatureRequest) (*dto.UpdateFeatureResponse, error)
	Archive(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	ShowDetails(ctx context.Context, userId uuid.UUID, name string) (*dto.FeatureDetailResponse, error)
	DeleteMapping(ctx context.Context, userId uuid.UUID, mappingId uuid.UUID) error
}

type featureService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewFeatureService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IFeatureService {
	return &featureService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (c *featureService) Create(ctx context.Context, req *dto.CreateFeatureRequest) (*dto.CreateFeatureResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	key := entity.NormalizeFeatureKey(req.Name)
	if key == "" {
		return nil, apperr.Validationf("name is blank")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.FeatureRepository().FindOne(ctx,
		specification.OwnedByUser{UserID: req.UserId},
		specification.ByFeatureKey{Key: key},
		specification.ByStatus{Status: entity.FeatureStatusActive},
	)
	if err != nil {
		return nil, opFailed(c.logger, "feature", "create feature", err, nil)
	}
	if existing != nil {
		return nil, apperr.Conflictf("feature %q already exists", existing.Name)
	}

	feature := entity.Feature{
		Id:          uuid.New(),
		UserId:      req.UserId,
		Key:         key,
		Name:        req.Name,
		Description: req.Description,
		Status:      entity.FeatureStatusActive,
	}
	if err := uow.FeatureRepository().Create(ctx, &feature); err != nil {
		return nil, opFailed(c.logger, "feature", "create feature", err, nil)
	}
	return &dto.CreateFeatureResponse{Id: feature.Id}, nil
}

// GetAll lists features by lifecycle status. The default view is active only,
// pending suggestions and archived rows show up only when asked for.
func (c *featureService) GetAll(ctx context.Context, req *dto.ListFeaturesRequest) ([]*dto.FeatureListItem, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	status := entity.FeatureStatusActive
	if req.Status != "" {
		parsed, err := entity.ParseFeatureStatus(req.Status)
		if err != nil {
			return nil, apperr.Validationf("status %q is not a feature status", req.Status)
		}
		status = parsed
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	features, err := uow.FeatureRepository().FindAll(ctx,
		specification.OwnedByUser{UserID: req.UserId},
		specification.ByStatus{Status: status},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, opFailed(c.logger, "feature", "list features", err, nil)
	}

	items := make([]*dto.FeatureListItem, len(features))
	for i, f := range features {
		items[i] = toFeatureListItem(f)
	}
	return items, nil
}

// GetAllWithCounts is the ranking view: every feature of the user, paired
// with the number of distinct transcripts whose pain points map to its key.
// Counting transcripts rather than quotes keeps one chatty interview from
// dominating the ranking.
func (c *featureService) GetAllWithCounts(ctx context.Context, userId uuid.UUID) ([]*dto.FeatureCountItem, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	features, err := uow.FeatureRepository().FindAll(ctx,
		specification.OwnedByUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, opFailed(c.logger, "feature", "list features with counts", err, nil)
	}

	keys := make([]string, 0, len(features))
	seen := map[string]bool{}
	for _, f := range features {
		if !seen[f.Key] {
			seen[f.Key] = true
			keys = append(keys, f.Key)
		}
	}
	counts, err := uow.FeatureMappingRepository().CountDistinctTranscripts(ctx, userId, keys)
	if err != nil {
		return nil, opFailed(c.logger, "feature", "list features with counts", err, nil)
	}

	counted := make([]*entity.FeatureWithCount, len(features))
	for i, f := range features {
		counted[i] = &entity.FeatureWithCount{Feature: *f, TranscriptCount: counts[f.Key]}
	}
	sort.SliceStable(counted, func(i, j int) bool {
		return counted[i].TranscriptCount > counted[j].TranscriptCount
	})

	items := make([]*dto.FeatureCountItem, len(counted))
	for i, f := range counted {
		items[i] = &dto.FeatureCountItem{
			FeatureListItem: *toFeatureListItem(&f.Feature),
			PainPointsCount: f.TranscriptCount,
		}
	}
	return items, nil
}

// Save replaces the user's authored feature list wholesale. AI-suggested rows
// are untouched whatever their status. Delete and insert share one
// transaction, a failure leaves the prior list intact.
func (c *featureService) Save(ctx context.Context, req *dto.SaveFeaturesRequest) (*dto.SaveFeaturesResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	// Dedupe by normalized key, the first verbatim spelling wins.
	var names []string
	seen := map[string]bool{}
	for _, name := range req.Names {
		key := entity.NormalizeFeatureKey(name)
		if key == "" {
			return nil, apperr.Validationf("name %q is blank", name)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, opFailed(c.logger, "feature", "save features", err, nil)
	}
	defer uow.Rollback()

	if _, err := uow.FeatureRepository().DeleteUserAuthored(ctx, req.UserId); err != nil {
		return nil, opFailed(c.logger, "feature", "save features", err, nil)
	}

	features := make([]*entity.Feature, len(names))
	for i, name := range names {
		features[i] = &entity.Feature{
			Id:     uuid.New(),
			UserId: req.UserId,
			Key:    entity.NormalizeFeatureKey(name),
			Name:   name,
			Status: entity.FeatureStatusActive,
		}
	}
	if err := uow.FeatureRepository().CreateBatch(ctx, features); err != nil {
		return nil, opFailed(c.logger, "feature", "save features", err, nil)
	}

	if err := uow.Commit(); err != nil {
		return nil, opFailed(c.logger, "feature", "save features", err, nil)
	}

	ids := make([]uuid.UUID, len(features))
	for i, f := range features {
		ids[i] = f.Id
	}
	return &dto.SaveFeaturesResponse{Ids: ids}, nil
}

// Update renames or redescribes a feature and retargets every mapping under
// the old key to the new name, one transaction for both statements. Renaming
// a pending suggestion onto another pending key surfaces as a conflict from
// the partial unique index.
func (c *featureService) Update(ctx context.Context, req *dto.UpdateFeatureRequest) (*dto.UpdateFeatureResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	newKey := entity.NormalizeFeatureKey(req.Name)
	if newKey == "" {
		return nil, apperr.Validationf("name is blank")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, opFailed(c.logger, "feature", "update feature", err, nil)
	}
	defer uow.Rollback()

	feature, err := uow.FeatureRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.OwnedByUser{UserID: req.UserId},
	)
	if err != nil {
		return nil, opFailed(c.logger, "feature", "update feature", err, nil)
	}
	if feature == nil {
		return nil, apperr.NotFoundf("feature %s", req.Id)
	}

	oldKey, oldName := feature.Key, feature.Name
	feature.Key = newKey
	feature.Name = req.Name
	feature.Description = req.Description
	if err := uow.FeatureRepository().Update(ctx, feature); err != nil {
		return nil, opFailed(c.logger, "feature", "update feature", err, nil)
	}

	if oldKey != newKey || oldName != req.Name {
		retargeted, err := uow.FeatureMappingRepository().RetargetKey(ctx, req.UserId, oldKey, newKey, req.Name)
		if err != nil {
			return nil, opFailed(c.logger, "feature", "update feature", err, nil)
		}
		c.logger.Info("feature", "mappings retargeted", map[string]interface{}{
			"feature_id": feature.Id,
			"old_key":    oldKey,
			"new_key":    newKey,
			"mappings":   retargeted,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, opFailed(c.logger, "feature", "update feature", err, nil)
	}
	return &dto.UpdateFeatureResponse{Id: feature.Id}, nil
}

// Archive moves a feature to its terminal state. Archiving an archived row
// again is a no-op success.
func (c *featureService) Archive(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	feature, err := uow.FeatureRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return opFailed(c.logger, "feature", "archive feature", err, nil)
	}
	if feature == nil {
		return apperr.NotFoundf("feature %s", id)
	}
	if feature.Status == entity.FeatureStatusArchived {
		return nil
	}

	rows, err := uow.FeatureRepository().UpdateStatusIf(ctx, id, userId, feature.Status, entity.FeatureStatusArchived)
	if err != nil {
		return opFailed(c.logger, "feature", "archive feature", err, nil)
	}
	if rows == 0 {
		return apperr.Conflictf("feature %q is no longer %s", feature.Name, feature.Status)
	}
	return nil
}

// Delete removes the feature row only. Mappings and pain points stay, a
// mis-mapping is corrected through DeleteMapping instead.
func (c *featureService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	feature, err := uow.FeatureRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return opFailed(c.logger, "feature", "delete feature", err, nil)
	}
	if feature == nil {
		return apperr.NotFoundf("feature %s", id)
	}
	if err := uow.FeatureRepository().Delete(ctx, id); err != nil {
		return opFailed(c.logger, "feature", "delete feature", err, nil)
	}
	return nil
}

// ShowDetails resolves a feature by name and groups its mapped pain points
// per originating transcript, newest interview first. When several rows share
// the key, active wins over pending, pending over archived.
func (c *featureService) ShowDetails(ctx context.Context, userId uuid.UUID, name string) (*dto.FeatureDetailResponse, error) {
	key := entity.NormalizeFeatureKey(name)
	if key == "" {
		return nil, apperr.Validationf("name is blank")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	feature, err := uow.FeatureRepository().FindOne(ctx,
		specification.OwnedByUser{UserID: userId},
		specification.ByFeatureKey{Key: key},
		specification.OrderByStatusPriority{},
	)
	if err != nil {
		return nil, opFailed(c.logger, "feature", "show feature details", err, nil)
	}
	if feature == nil {
		return nil, apperr.NotFoundf("feature %q", name)
	}

	points, err := uow.PainPointRepository().FindForFeatureKey(ctx, userId, key)
	if err != nil {
		return nil, opFailed(c.logger, "feature", "show feature details", err, nil)
	}

	var transcripts []dto.TranscriptPainPoints
	index := map[uuid.UUID]int{}
	for _, p := range points {
		i, ok := index[p.TranscriptId]
		if !ok {
			i = len(transcripts)
			index[p.TranscriptId] = i
			transcripts = append(transcripts, dto.TranscriptPainPoints{
				TranscriptId: p.TranscriptId,
				Summary:      p.TranscriptSummary,
				CreatedAt:    p.TranscriptCreatedAt,
			})
		}
		transcripts[i].PainPoints = append(transcripts[i].PainPoints, dto.PainPointView{
			Id:          p.Id,
			MappingId:   p.MappingId,
			FeatureName: p.FeatureName,
			Quote:       p.Quote,
			Description: p.Description,
		})
	}

	return &dto.FeatureDetailResponse{
		Id:              feature.Id,
		Name:            feature.Name,
		Description:     feature.Description,
		Status:          feature.Status.String(),
		IsSuggestion:    feature.IsSuggestion,
		PainPointsCount: int64(len(transcripts)),
		Transcripts:     transcripts,
		CreatedAt:       feature.CreatedAt,
		UpdatedAt:       feature.UpdatedAt,
	}, nil
}

// DeleteMapping removes one pain-point-to-feature association, leaving the
// quote and the feature row alone.
func (c *featureService) DeleteMapping(ctx context.Context, userId uuid.UUID, mappingId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	rows, err := uow.FeatureMappingRepository().DeleteOwned(ctx, userId, mappingId)
	if err != nil {
		return opFailed(c.logger, "feature", "delete mapping", err, nil)
	}
	if rows == 0 {
		return apperr.NotFoundf("mapping %s", mappingId)
	}
	return nil
}

func toFeatureListItem(f *entity.Feature) *dto.FeatureListItem {
	return &dto.FeatureListItem{
		Id:           f.Id,
		Name:         f.Name,
		Description:  f.Description,
		Status:       f.Status.String(),
		IsSuggestion: f.IsSuggestion,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}
