package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ultrarslanoglu/gs-analytics/internal/models"
	"github.com/ultrarslanoglu/gs-analytics/internal/storage"
)

func seedAnalyzedDay(t *testing.T, manager *storage.Manager, day time.Time) {
	t.Helper()
	ctx := context.Background()

	posts := []models.Post{
		{ExternalID: "t1", Platform: models.PlatformTwitter, Content: "Harika gol", CreatedAt: day.Add(2 * time.Hour), Likes: 50, Comments: 5},
		{ExternalID: "t2", Platform: models.PlatformTwitter, Content: "Berbat maç", CreatedAt: day.Add(3 * time.Hour), Likes: 3},
	}
	for _, post := range posts {
		_, err := manager.Insert(ctx, storage.CollectionPosts, post)
		assert.NoError(t, err)
	}

	records := []models.SentimentRecord{
		{PostID: "p1", Platform: models.PlatformTwitter, Sentiment: models.SentimentPositive, Score: 0.4, AnalyzedAt: day.Add(2 * time.Hour)},
		{PostID: "p2", Platform: models.PlatformTwitter, Sentiment: models.SentimentNegative, Score: -0.3, AnalyzedAt: day.Add(3 * time.Hour)},
		{PostID: "p3", Platform: models.PlatformTwitter, Sentiment: models.SentimentPositive, Score: 0.5, AnalyzedAt: day.Add(4 * time.Hour)},
	}
	for _, record := range records {
		_, err := manager.Insert(ctx, storage.CollectionSentiment, record)
		assert.NoError(t, err)
	}
}

func TestReportGenerator_GenerateDailyReport(t *testing.T) {
	manager, _ := newTestStore(t)
	generator := NewReportGenerator(manager)

	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	seedAnalyzedDay(t, manager, day)

	report, err := generator.GenerateDailyReport(context.Background(), day, day.Add(24*time.Hour))

	assert.NoError(t, err)
	assert.Equal(t, models.ReportDaily, report.ReportType)
	assert.Contains(t, report.Title, "2025-01-15")
	assert.Contains(t, report.Summary, "2 gönderi")
	assert.Contains(t, report.Summary, "58 etkileşim")
	if assert.NotEmpty(t, report.KeyFindings) {
		assert.Contains(t, report.KeyFindings[0], "Pozitif sentiment")
	}
}

func TestReportGenerator_GenerateDailyReport_OutsideRange(t *testing.T) {
	manager, _ := newTestStore(t)
	generator := NewReportGenerator(manager)

	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	seedAnalyzedDay(t, manager, day)

	// A different day sees nothing.
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	report, err := generator.GenerateDailyReport(context.Background(), start, start.Add(24*time.Hour))

	assert.NoError(t, err)
	assert.Contains(t, report.Summary, "bulunamadı")
	assert.Empty(t, report.KeyFindings)
}

func TestReportGenerator_GenerateWeeklyReport(t *testing.T) {
	manager, _ := newTestStore(t)
	generator := NewReportGenerator(manager)

	start := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	seedAnalyzedDay(t, manager, start.Add(48*time.Hour))

	report, err := generator.GenerateWeeklyReport(context.Background(), start, start.Add(7*24*time.Hour))

	assert.NoError(t, err)
	assert.Equal(t, models.ReportWeekly, report.ReportType)
	assert.Contains(t, report.Title, "Haftalık")
	assert.Contains(t, report.Summary, "2 gönderi")
}

func TestReportGenerator_GenerateCustomReport(t *testing.T) {
	manager, _ := newTestStore(t)
	generator := NewReportGenerator(manager)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)

	report, err := generator.GenerateCustomReport(
		context.Background(),
		[]models.Platform{models.PlatformTwitter, models.PlatformYouTube},
		[]string{"engagement", "sentiment"},
		start, end,
	)

	assert.NoError(t, err)
	assert.Equal(t, models.ReportCustom, report.ReportType)
	assert.Equal(t, []string{"twitter", "youtube"}, report.Metrics["platforms_analyzed"])
	assert.Equal(t, []string{"engagement", "sentiment"}, report.Metrics["metrics_included"])
	assert.Equal(t, 7, report.Metrics["period_days"])
}

func TestReportGenerator_StoreReport(t *testing.T) {
	manager, _ := newTestStore(t)
	generator := NewReportGenerator(manager)

	report := &models.Report{
		ReportType: models.ReportDaily,
		Title:      "Test raporu",
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}

	id, err := generator.StoreReport(context.Background(), report)
	assert.NoError(t, err)
	assert.NotEmpty(t, id)

	stored, err := manager.Query(context.Background(), storage.CollectionReports, storage.Filter{
		"report_type": models.ReportDaily,
	}, 0)
	assert.NoError(t, err)
	assert.Len(t, stored, 1)
}
