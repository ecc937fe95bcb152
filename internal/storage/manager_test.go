package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ultrarslanoglu/gs-analytics/internal/models"
)

func newTestManager(t *testing.T) (*Manager, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	manager := NewManagerWithBackend(backend)
	assert.NoError(t, manager.Bootstrap(context.Background()))
	return manager, backend
}

func TestManager_BootstrapIsIdempotent(t *testing.T) {
	manager, backend := newTestManager(t)

	first := backend.CollectionCount()
	assert.Equal(t, len(schemas), first)

	// Running bootstrap again neither errors nor duplicates collections.
	assert.NoError(t, manager.Bootstrap(context.Background()))
	assert.Equal(t, first, backend.CollectionCount())
}

func TestManager_InsertAssignsID(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	id, err := manager.Insert(ctx, CollectionPosts, models.Post{
		ExternalID: "t1",
		Platform:   models.PlatformTwitter,
		Content:    "Maç günü",
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestManager_InsertPreservesExistingID(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	id, err := manager.Insert(ctx, CollectionPosts, models.Post{
		ID:         "fixed-id",
		ExternalID: "t1",
		Platform:   models.PlatformTwitter,
	})

	assert.NoError(t, err)
	assert.Equal(t, "fixed-id", id)
}

func TestManager_QueryByEquality(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	for _, platform := range []models.Platform{models.PlatformTwitter, models.PlatformTwitter, models.PlatformYouTube} {
		_, err := manager.Insert(ctx, CollectionPosts, models.Post{
			ExternalID: string(platform),
			Platform:   platform,
			CreatedAt:  time.Now().UTC().Truncate(time.Second),
		})
		assert.NoError(t, err)
	}

	docs, err := manager.Query(ctx, CollectionPosts, Filter{"platform": models.PlatformTwitter}, 0)
	assert.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = manager.Query(ctx, CollectionPosts, Filter{"platform": models.PlatformYouTube}, 0)
	assert.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestManager_QueryByTimeRange(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{-48 * time.Hour, 0, 2 * time.Hour, 72 * time.Hour} {
		_, err := manager.Insert(ctx, CollectionPosts, models.Post{
			ExternalID: offset.String(),
			Platform:   models.PlatformTwitter,
			CreatedAt:  base.Add(offset),
		})
		assert.NoError(t, err)
	}

	docs, err := manager.Query(ctx, CollectionPosts, Filter{
		"created_at": Range{GTE: base.Add(-1 * time.Hour), LTE: base.Add(24 * time.Hour)},
	}, 0)

	assert.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestManager_QueryLimit(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := manager.Insert(ctx, CollectionPosts, models.Post{
			ExternalID: string(rune('a' + i)),
			Platform:   models.PlatformTwitter,
		})
		assert.NoError(t, err)
	}

	docs, err := manager.Query(ctx, CollectionPosts, nil, 3)
	assert.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestManager_Update(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	id, err := manager.Insert(ctx, CollectionReports, models.Report{
		ReportType: models.ReportDaily,
		Title:      "Taslak",
	})
	assert.NoError(t, err)

	err = manager.Update(ctx, CollectionReports, Key{ID: id, Partition: models.ReportDaily}, Document{
		"title": "Yayınlandı",
	})
	assert.NoError(t, err)

	docs, err := manager.Query(ctx, CollectionReports, Filter{"title": "Yayınlandı"}, 0)
	assert.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestManager_UpdateMissingDocument(t *testing.T) {
	manager, _ := newTestManager(t)

	err := manager.Update(context.Background(), CollectionReports, Key{ID: "ghost"}, Document{"title": "x"})
	assert.Error(t, err)
}

func TestManager_Delete(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	id, err := manager.Insert(ctx, CollectionPosts, models.Post{
		ExternalID: "t1",
		Platform:   models.PlatformTwitter,
	})
	assert.NoError(t, err)

	assert.NoError(t, manager.Delete(ctx, CollectionPosts, Key{ID: id, Partition: "twitter"}))

	docs, err := manager.Query(ctx, CollectionPosts, nil, 0)
	assert.NoError(t, err)
	assert.Empty(t, docs)
}

func TestManager_UnknownCollection(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.Query(context.Background(), "no_such_collection", nil, 0)
	assert.Error(t, err)
}

func TestNormalizeScalar(t *testing.T) {
	ts := time.Date(2025, 1, 15, 12, 30, 45, 999000000, time.UTC)
	assert.Equal(t, "2025-01-15T12:30:45Z", normalizeScalar(ts))

	assert.Equal(t, "5s", normalizeScalar(5*time.Second))
	assert.Equal(t, 42, normalizeScalar(42))
	assert.Nil(t, normalizeScalar(nil))
}
