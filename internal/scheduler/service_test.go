package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ultrarslanoglu/gs-analytics/internal/analysis"
	"github.com/ultrarslanoglu/gs-analytics/internal/collectors"
	"github.com/ultrarslanoglu/gs-analytics/internal/config"
	"github.com/ultrarslanoglu/gs-analytics/internal/models"
	"github.com/ultrarslanoglu/gs-analytics/internal/storage"
)

type stubCollector struct {
	posts []models.Post
}

func (s *stubCollector) Platform() models.Platform { return models.PlatformTwitter }
func (s *stubCollector) Enabled() bool             { return true }

func (s *stubCollector) FetchRecentByKeyword(ctx context.Context, keywords []string, limit int) []models.Post {
	return s.posts
}

func (s *stubCollector) FetchTimeline(ctx context.Context, actorID string, limit int) []models.Post {
	return nil
}

func (s *stubCollector) FetchTrending(ctx context.Context, limit int) []map[string]any {
	return nil
}

type recordingSender struct {
	reports []*models.Report
}

func (r *recordingSender) SendReport(report *models.Report) error {
	r.reports = append(r.reports, report)
	return nil
}

func TestService_RunPipeline(t *testing.T) {
	manager := storage.NewManagerWithBackend(storage.NewMemoryBackend())
	assert.NoError(t, manager.Bootstrap(context.Background()))

	collection := collectors.NewOrchestratorWithCollectors(
		[]string{"Galatasaray"},
		&stubCollector{posts: []models.Post{
			{ExternalID: "t1", Platform: models.PlatformTwitter, Content: "Harika bir gol! Icardi", CreatedAt: time.Now().UTC().Add(-time.Hour).Truncate(time.Second)},
			{ExternalID: "t2", Platform: models.PlatformTwitter, Content: "Berbat bir maç", CreatedAt: time.Now().UTC().Add(-time.Hour).Truncate(time.Second)},
		}},
	)

	sender := &recordingSender{}
	cfg := &config.Config{ReportSchedule: "daily"}
	svc := NewService(cfg, collection, analysis.NewOrchestrator(manager), sender, nil)

	err := svc.RunPipeline(context.Background())

	assert.NoError(t, err)

	// The batch was persisted and the generated report was stored and
	// delivered.
	posts, err := manager.Query(context.Background(), storage.CollectionPosts, nil, 0)
	assert.NoError(t, err)
	assert.Len(t, posts, 2)

	reports, err := manager.Query(context.Background(), storage.CollectionReports, nil, 0)
	assert.NoError(t, err)
	assert.Len(t, reports, 1)

	if assert.Len(t, sender.reports, 1) {
		assert.Equal(t, models.ReportDaily, sender.reports[0].ReportType)
		assert.Contains(t, sender.reports[0].Summary, "2 gönderi")
	}
}

func TestService_StartAndStop(t *testing.T) {
	manager := storage.NewManagerWithBackend(storage.NewMemoryBackend())
	assert.NoError(t, manager.Bootstrap(context.Background()))

	collection := collectors.NewOrchestratorWithCollectors(nil)
	svc := NewService(&config.Config{ReportSchedule: "weekly"}, collection,
		analysis.NewOrchestrator(manager), &recordingSender{}, nil)

	assert.NoError(t, svc.Start())
	svc.Stop()
}
