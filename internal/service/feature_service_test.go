package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"interview-insights-be/internal/dto"
	"interview-insights-be/internal/model"
	"interview-insights-be/internal/pkg/apperr"
)

func TestCreateFeature(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	userId := uuid.New()

	created, err := s.features.Create(ctx, &dto.CreateFeatureRequest{
		UserId: userId,
		Name:   "Dark Mode",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	assert.NotEqual(t, uuid.Nil, created.Id)

	t.Run("same key conflicts while active", func(t *testing.T) {
		_, err := s.features.Create(ctx, &dto.CreateFeatureRequest{
			UserId: userId,
			Name:   "dark  MODE",
		})
		assert.True(t, apperr.IsConflict(err), "want conflict, got %v", err)
	})

	t.Run("other user is unaffected", func(t *testing.T) {
		_, err := s.features.Create(ctx, &dto.CreateFeatureRequest{
			UserId: uuid.New(),
			Name:   "Dark Mode",
		})
		assert.NoError(t, err)
	})

	t.Run("archived key can be recreated", func(t *testing.T) {
		if err := s.features.Archive(ctx, userId, created.Id); err != nil {
			t.Fatalf("archive: %v", err)
		}
		_, err := s.features.Create(ctx, &dto.CreateFeatureRequest{
			UserId: userId,
			Name:   "Dark Mode",
		})
		assert.NoError(t, err)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := s.features.Create(ctx, &dto.CreateFeatureRequest{
			UserId: userId,
			Name:   "  \t ",
		})
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestGetAllDefaultsToActive(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	userId := uuid.New()

	active, err := s.features.Create(ctx, &dto.CreateFeatureRequest{UserId: userId, Name: "Dashboard"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	archived, err := s.features.Create(ctx, &dto.CreateFeatureRequest{UserId: userId, Name: "Old Thing"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.features.Archive(ctx, userId, archived.Id); err != nil {
		t.Fatalf("archive: %v", err)
	}
	_, err = s.transcripts.Analyze(ctx, &dto.AnalyzeTranscriptRequest{
		UserId:         userId,
		TranscriptText: "interview",
		NewFeatureSuggestions: []dto.FeatureAnalysis{
			{FeatureName: "Export PDF", Quotes: []dto.QuoteItem{{Quote: "q", PainPoint: "p"}}},
		},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	t.Run("default hides pending and archived", func(t *testing.T) {
		items, err := s.features.GetAll(ctx, &dto.ListFeaturesRequest{UserId: userId})
		assert.NoError(t, err)
		if assert.Len(t, items, 1) {
			assert.Equal(t, active.Id, items[0].Id)
			assert.Equal(t, "active", items[0].Status)
		}
	})

	t.Run("pending on request", func(t *testing.T) {
		items, err := s.features.GetAll(ctx, &dto.ListFeaturesRequest{UserId: userId, Status: "pending"})
		assert.NoError(t, err)
		if assert.Len(t, items, 1) {
			assert.Equal(t, "Export PDF", items[0].Name)
			assert.True(t, items[0].IsSuggestion)
		}
	})

	t.Run("archived on request", func(t *testing.T) {
		items, err := s.features.GetAll(ctx, &dto.ListFeaturesRequest{UserId: userId, Status: "archived"})
		assert.NoError(t, err)
		if assert.Len(t, items, 1) {
			assert.Equal(t, archived.Id, items[0].Id)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := s.features.GetAll(ctx, &dto.ListFeaturesRequest{UserId: userId, Status: "Pending"})
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestSaveReplacesAuthoredFeaturesOnly(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	userId := uuid.New()

	_, err := s.features.Save(ctx, &dto.SaveFeaturesRequest{
		UserId: userId,
		Names:  []string{"Dashboard", "Reports", "dashboard"},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	items, err := s.features.GetAll(ctx, &dto.ListFeaturesRequest{UserId: userId})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// The case variant collapsed into the first spelling.
	if assert.Len(t, items, 2) {
		names := []string{items[0].Name, items[1].Name}
		assert.ElementsMatch(t, []string{"Dashboard", "Reports"}, names)
	}

	_, err = s.transcripts.Analyze(ctx, &dto.AnalyzeTranscriptRequest{
		UserId:         userId,
		TranscriptText: "interview",
		NewFeatureSuggestions: []dto.FeatureAnalysis{
			{FeatureName: "Export PDF", Quotes: []dto.QuoteItem{{Quote: "q", PainPoint: "p"}}},
		},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	saved, err := s.features.Save(ctx, &dto.SaveFeaturesRequest{
		UserId: userId,
		Names:  []string{"Integrations"},
	})
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	assert.Len(t, saved.Ids, 1)

	items, err = s.features.GetAll(ctx, &dto.ListFeaturesRequest{UserId: userId})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if assert.Len(t, items, 1) {
		assert.Equal(t, "Integrations", items[0].Name)
	}

	// The AI suggestion survived both replacements.
	suggestions, err := s.suggestions.GetAll(ctx, userId)
	assert.NoError(t, err)
	assert.Len(t, suggestions, 1)

	t.Run("empty list clears authored features", func(t *testing.T) {
		_, err := s.features.Save(ctx, &dto.SaveFeaturesRequest{UserId: userId})
		assert.NoError(t, err)

		items, err := s.features.GetAll(ctx, &dto.ListFeaturesRequest{UserId: userId})
		assert.NoError(t, err)
		assert.Len(t, items, 0)

		suggestions, err := s.suggestions.GetAll(ctx, userId)
		assert.NoError(t, err)
		assert.Len(t, suggestions, 1)
	})
}

func TestUpdateRetargetsMappings(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	userId := uuid.New()
	otherId := uuid.New()

	created, err := s.features.Create(ctx, &dto.CreateFeatureRequest{UserId: userId, Name: "Old Name"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Three quotes across two interviews, all mapped to the old name.
	for _, quotes := range [][]dto.QuoteItem{
		{{Quote: "q1", PainPoint: "p1"}, {Quote: "q2", PainPoint: "p2"}},
		{{Quote: "q3", PainPoint: "p3"}},
	} {
		_, err := s.transcripts.Analyze(ctx, &dto.AnalyzeTranscriptRequest{
			UserId:         userId,
			TranscriptText: "interview",
			Features:       []dto.FeatureAnalysis{{FeatureName: "Old Name", Quotes: quotes}},
		})
		if err != nil {
			t.Fatalf("analyze: %v", err)
		}
	}
	// A different tenant uses the same name, their mappings must not move.
	_, err = s.transcripts.Analyze(ctx, &dto.AnalyzeTranscriptRequest{
		UserId:         otherId,
		TranscriptText: "other interview",
		Features: []dto.FeatureAnalysis{
			{FeatureName: "Old Name", Quotes: []dto.QuoteItem{{Quote: "q", PainPoint: "p"}}},
		},
	})
	if err != nil {
		t.Fatalf("analyze other: %v", err)
	}

	_, err = s.features.Update(ctx, &dto.UpdateFeatureRequest{
		Id:          created.Id,
		UserId:      userId,
		Name:        "New Name",
		Description: "renamed",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	var moved, left, foreign int64
	s.db.Model(&model.FeatureMapping{}).
		Where("feature_key = ? AND feature_name = ?", "new name", "New Name").Count(&moved)
	s.db.Model(&model.FeatureMapping{}).
		Where("feature_key = ? AND feature_name = ?", "old name", "Old Name").Count(&left)
	assert.EqualValues(t, 3, moved)
	assert.EqualValues(t, 1, left)

	sub := s.db.Model(&model.PainPoint{}).Select("pain_points.id").
		Joins("JOIN transcripts ON transcripts.id = pain_points.transcript_id").
		Where("transcripts.user_id = ?", otherId)
	s.db.Model(&model.FeatureMapping{}).
		Where("feature_name = ? AND pain_point_id IN (?)", "Old Name", sub).Count(&foreign)
	assert.EqualValues(t, 1, foreign)

	detail, err := s.features.ShowDetails(ctx, userId, "new name")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	assert.Equal(t, "New Name", detail.Name)
	assert.Equal(t, "renamed", detail.Description)
	assert.EqualValues(t, 2, detail.PainPointsCount)

	t.Run("old name resolves nothing", func(t *testing.T) {
		_, err := s.features.ShowDetails(ctx, userId, "Old Name")
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("unknown feature", func(t *testing.T) {
		_, err := s.features.Update(ctx, &dto.UpdateFeatureRequest{
			Id:     uuid.New(),
			UserId: userId,
			Name:   "Whatever",
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := s.features.Update(ctx, &dto.UpdateFeatureRequest{
			Id:     created.Id,
			UserId: userId,
			Name:   "   ",
		})
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestUpdateRespellsMappingsOnCaseChange(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	userId := uuid.New()

	created, err := s.features.Create(ctx, &dto.CreateFeatureRequest{UserId: userId, Name: "dark mode"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = s.transcripts.Analyze(ctx, &dto.AnalyzeTranscriptRequest{
		UserId:         userId,
		TranscriptText: "interview",
		Features: []dto.FeatureAnalysis{
			{FeatureName: "dark mode", Quotes: []dto.QuoteItem{{Quote: "q", PainPoint: "p"}}},
		},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	// Same key, new spelling. Mappings pick up the display name.
	_, err = s.features.Update(ctx, &dto.UpdateFeatureRequest{
		Id:     created.Id,
		UserId: userId,
		Name:   "Dark Mode",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	var respelled int64
	s.db.Model(&model.FeatureMapping{}).
		Where("feature_key = ? AND feature_name = ?", "dark mode", "Dark Mode").Count(&respelled)
	assert.EqualValues(t, 1, respelled)
}

func TestArchiveFeature(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	userId := uuid.New()

	created, err := s.features.Create(ctx, &dto.CreateFeatureRequest{UserId: userId, Name: "Dashboard"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	assert.NoError(t, s.features.Archive(ctx, userId, created.Id))

	t.Run("re-archiving is a no-op success", func(t *testing.T) {
		assert.NoError(t, s.features.Archive(ctx, userId, created.Id))
	})

	t.Run("stays archived", func(t *testing.T) {
		items, err := s.features.GetAll(ctx, &dto.ListFeaturesRequest{UserId: userId, Status: "archived"})
		assert.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := s.features.Archive(ctx, userId, uuid.New())
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("other user", func(t *testing.T) {
		err := s.features.Archive(ctx, uuid.New(), created.Id)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestDeleteFeatureLeavesMappings(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	userId := uuid.New()

	created, err := s.features.Create(ctx, &dto.CreateFeatureRequest{UserId: userId, Name: "Dashboard"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = s.transcripts.Analyze(ctx, &dto.AnalyzeTranscriptRequest{
		UserId:         userId,
		TranscriptText: "interview",
		Features: []dto.FeatureAnalysis{
			{FeatureName: "Dashboard", Quotes: []dto.QuoteItem{{Quote: "q", PainPoint: "p"}}},
		},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	t.Run("other user cannot delete", func(t *testing.T) {
		err := s.features.Delete(ctx, uuid.New(), created.Id)
		assert.True(t, apperr.IsNotFound(err))
	})

	if err := s.features.Delete(ctx, userId, created.Id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	assert.EqualValues(t, 0, s.countRows(t, "features"))
	// The quotes and their mappings stay, the name still aggregates.
	assert.EqualValues(t, 1, s.countRows(t, "pain_points"))
	assert.EqualValues(t, 1, s.countRows(t, "feature_mappings"))
}

func TestShowDetailsGroupsByTranscript(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	userId := uuid.New()

	first, err := s.transcripts.Analyze(ctx, &dto.AnalyzeTranscriptRequest{
		UserId:         userId,
		TranscriptText: "first interview",
		Summary:        "first",
		Features: []dto.FeatureAnalysis{
			{
				FeatureName: "Dashboard",
				Quotes: []dto.QuoteItem{
					{Quote: "q1", PainPoint: "p1"},
					{Quote: "q2", PainPoint: "p2"},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("analyze first: %v", err)
	}
	second, err := s.transcripts.Analyze(ctx, &dto.AnalyzeTranscriptRequest{
		UserId:         userId,
		TranscriptText: "second interview",
		Summary:        "second",
		Features: []dto.FeatureAnalysis{
			{
				FeatureName: "dashboard",
				Quotes:      []dto.QuoteItem{{Quote: "q3", PainPoint: "p3"}},
			},
		},
	})
	if err != nil {
		t.Fatalf("analyze second: %v", err)
	}
	if _, err := s.features.Create(ctx, &dto.CreateFeatureRequest{UserId: userId, Name: "Dashboard"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	detail, err := s.features.ShowDetails(ctx, userId, "DASHBOARD")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	assert.Equal(t, "Dashboard", detail.Name)
	assert.EqualValues(t, 2, detail.PainPointsCount)
	if assert.Len(t, detail.Transcripts, 2) {
		assert.Equal(t, second.TranscriptId, detail.Transcripts[0].TranscriptId)
		assert.Equal(t, "second", detail.Transcripts[0].Summary)
		assert.Len(t, detail.Transcripts[0].PainPoints, 1)

		assert.Equal(t, first.TranscriptId, detail.Transcripts[1].TranscriptId)
		assert.Len(t, detail.Transcripts[1].PainPoints, 2)
	}

	t.Run("unknown name", func(t *testing.T) {
		_, err := s.features.ShowDetails(ctx, userId, "Nonexistent")
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestShowDetailsPrefersActiveRow(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	userId := uuid.New()

	// A pending suggestion and a user-authored active row share the key.
	_, err := s.transcripts.Analyze(ctx, &dto.AnalyzeTranscriptRequest{
		UserId:         userId,
		TranscriptText: "interview",
		NewFeatureSuggestions: []dto.FeatureAnalysis{
			{FeatureName: "export pdf", Quotes: []dto.QuoteItem{{Quote: "q", PainPoint: "p"}}},
		},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if _, err := s.features.Create(ctx, &dto.CreateFeatureRequest{UserId: userId, Name: "Export PDF"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	detail, err := s.features.ShowDetails(ctx, userId, "export pdf")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	assert.Equal(t, "active", detail.Status)
	assert.False(t, detail.IsSuggestion)
	assert.Equal(t, "Export PDF", detail.Name)
}

func TestDeleteMapping(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	userId := uuid.New()

	resp, err := s.transcripts.Analyze(ctx, &dto.AnalyzeTranscriptRequest{
		UserId:         userId,
		TranscriptText: "interview",
		Features: []dto.FeatureAnalysis{
			{FeatureName: "Dashboard", Quotes: []dto.QuoteItem{{Quote: "q", PainPoint: "p"}}},
		},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	shown, err := s.transcripts.Show(ctx, userId, resp.TranscriptId)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	mappingId := shown.PainPoints[0].MappingId

	t.Run("other user sees not found", func(t *testing.T) {
		err := s.features.DeleteMapping(ctx, uuid.New(), mappingId)
		assert.True(t, apperr.IsNotFound(err))
	})

	if err := s.features.DeleteMapping(ctx, userId, mappingId); err != nil {
		t.Fatalf("delete mapping: %v", err)
	}

	// The quote survives, only the association is gone.
	assert.EqualValues(t, 1, s.countRows(t, "pain_points"))
	assert.EqualValues(t, 0, s.countRows(t, "feature_mappings"))

	shown, err = s.transcripts.Show(ctx, userId, resp.TranscriptId)
	if err != nil {
		t.Fatalf("show after delete: %v", err)
	}
	if assert.Len(t, shown.PainPoints, 1) {
		assert.Equal(t, uuid.Nil, shown.PainPoints[0].MappingId)
		assert.Empty(t, shown.PainPoints[0].FeatureName)
	}

	t.Run("second delete is not found", func(t *testing.T) {
		err := s.features.DeleteMapping(ctx, userId, mappingId)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestGetAllWithCountsCountsDistinctTranscripts(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	userId := uuid.New()

	_, err := s.features.Save(ctx, &dto.SaveFeaturesRequest{
		UserId: userId,
		Names:  []string{"Dashboard", "Reports"},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Three quotes in one interview still count as one transcript.
	_, err = s.transcripts.Analyze(ctx, &dto.AnalyzeTranscriptRequest{
		UserId:         userId,
		TranscriptText: "chatty interview",
		Features: []dto.FeatureAnalysis{
			{
				FeatureName: "Dashboard",
				Quotes: []dto.QuoteItem{
					{Quote: "q1", PainPoint: "p1"},
					{Quote: "q2", PainPoint: "p2"},
					{Quote: "q3", PainPoint: "p3"},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("analyze first: %v", err)
	}
	_, err = s.transcripts.Analyze(ctx, &dto.AnalyzeTranscriptRequest{
		UserId:         userId,
		TranscriptText: "second interview",
		Features: []dto.FeatureAnalysis{
			{FeatureName: "Dashboard", Quotes: []dto.QuoteItem{{Quote: "q4", PainPoint: "p4"}}},
		},
		NewFeatureSuggestions: []dto.FeatureAnalysis{
			{FeatureName: "Export PDF", Quotes: []dto.QuoteItem{{Quote: "q5", PainPoint: "p5"}}},
		},
	})
	if err != nil {
		t.Fatalf("analyze second: %v", err)
	}

	items, err := s.features.GetAllWithCounts(ctx, userId)
	if err != nil {
		t.Fatalf("with counts: %v", err)
	}

	if assert.Len(t, items, 3) {
		assert.Equal(t, "Dashboard", items[0].Name)
		assert.EqualValues(t, 2, items[0].PainPointsCount)

		assert.Equal(t, "Export PDF", items[1].Name)
		assert.EqualValues(t, 1, items[1].PainPointsCount)
		assert.True(t, items[1].IsSuggestion)

		assert.Equal(t, "Reports", items[2].Name)
		assert.EqualValues(t, 0, items[2].PainPointsCount)
	}
}
