package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ultrarslanoglu/gs-analytics/internal/models"
	"github.com/ultrarslanoglu/gs-analytics/internal/storage"
)

func newTestStore(t *testing.T) (*storage.Manager, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	manager := storage.NewManagerWithBackend(backend)
	assert.NoError(t, manager.Bootstrap(context.Background()))
	return manager, backend
}

func TestOrchestrator_AnalyzePosts(t *testing.T) {
	manager, _ := newTestStore(t)
	orchestrator := NewOrchestrator(manager)

	posts := []models.Post{
		{
			ExternalID: "t1",
			Platform:   models.PlatformTwitter,
			AuthorID:   "a1",
			Content:    "Harika bir gol! 🔥 #Galatasaray",
			CreatedAt:  time.Now().UTC().Truncate(time.Second),
			Likes:      100, Comments: 10, Shares: 5,
		},
		{
			ExternalID: "t2",
			Platform:   models.PlatformTwitter,
			AuthorID:   "a2",
			Content:    "Berbat bir performans 😢",
			CreatedAt:  time.Now().UTC().Truncate(time.Second),
			Likes:      5, Comments: 2,
		},
	}

	result := orchestrator.AnalyzePosts(context.Background(), posts)

	assert.Equal(t, 2, result.TotalPosts)
	assert.Len(t, result.PostsWithSentiment, 2)
	assert.Equal(t, models.SentimentPositive, result.PostsWithSentiment[0].Sentiment)
	assert.Equal(t, models.SentimentNegative, result.PostsWithSentiment[1].Sentiment)

	assert.NotNil(t, result.EngagementMetrics)
	assert.Equal(t, 2, result.EngagementMetrics.TotalPosts)
	assert.Equal(t, 122, result.EngagementMetrics.TotalEngagement)
}

func TestOrchestrator_AnalyzePosts_PersistsEveryRecord(t *testing.T) {
	manager, _ := newTestStore(t)
	orchestrator := NewOrchestrator(manager)

	posts := []models.Post{
		{ExternalID: "t1", Platform: models.PlatformTwitter, Content: "Icardi harika"},
		{ExternalID: "t2", Platform: models.PlatformTwitter, Content: "Normal bir gün"},
		{ExternalID: "t3", Platform: models.PlatformYouTube, Content: "Muslera kurtardı"},
	}

	orchestrator.AnalyzePosts(context.Background(), posts)

	ctx := context.Background()
	stored, err := manager.Query(ctx, storage.CollectionPosts, nil, 0)
	assert.NoError(t, err)
	assert.Len(t, stored, len(posts))

	sentiments, err := manager.Query(ctx, storage.CollectionSentiment, nil, 0)
	assert.NoError(t, err)
	assert.Len(t, sentiments, len(posts))

	metrics, err := manager.Query(ctx, storage.CollectionEngagementMetrics, nil, 0)
	assert.NoError(t, err)
	assert.Len(t, metrics, 1)

	mentions, err := manager.Query(ctx, storage.CollectionPlayerMentions, nil, 0)
	assert.NoError(t, err)
	assert.Len(t, mentions, 2)
}

func TestOrchestrator_AnalyzePosts_AnnotatesEntities(t *testing.T) {
	manager, _ := newTestStore(t)
	orchestrator := NewOrchestrator(manager)

	posts := []models.Post{
		{ExternalID: "t1", Platform: models.PlatformTwitter, Content: "Maç günü #Galatasaray @GalatasaraySK"},
	}

	orchestrator.AnalyzePosts(context.Background(), posts)

	assert.Equal(t, []string{"#galatasaray"}, posts[0].Hashtags)
	assert.Equal(t, []string{"@galatasaraysk"}, posts[0].Mentions)
	assert.NotEmpty(t, posts[0].Sentiment)
	assert.NotEmpty(t, posts[0].ID)
}

func TestOrchestrator_AnalyzePosts_EmptyBatch(t *testing.T) {
	manager, _ := newTestStore(t)
	orchestrator := NewOrchestrator(manager)

	result := orchestrator.AnalyzePosts(context.Background(), nil)

	assert.Equal(t, 0, result.TotalPosts)
	assert.Empty(t, result.PostsWithSentiment)
	assert.Empty(t, result.PlayerMentions)
	assert.NotNil(t, result.EngagementMetrics)
}

func TestOrchestrator_Insights(t *testing.T) {
	manager, _ := newTestStore(t)
	orchestrator := NewOrchestrator(manager)

	metrics := models.EngagementMetrics{
		AverageEngagementRate: 0.5,
		SentimentDistribution: map[string]int{models.SentimentPositive: 9},
	}
	posts := make([]models.Post, 10)
	mentions := []models.PlayerMention{
		{PlayerName: "Mauro Icardi"},
		{PlayerName: "Mauro Icardi"},
		{PlayerName: "Fernando Muslera"},
	}

	insights := orchestrator.generateInsights(posts, metrics, mentions)

	assert.Len(t, insights, 3)
	assert.Contains(t, insights[0], "Yüksek etkileşim")
	assert.Contains(t, insights[1], "pozitif sentiment")
	assert.Contains(t, insights[2], "Mauro Icardi")
}

func TestTopMentioned(t *testing.T) {
	mentions := []models.PlayerMention{
		{PlayerName: "Mauro Icardi"},
		{PlayerName: "Mauro Icardi"},
		{PlayerName: "Mauro Icardi"},
		{PlayerName: "Fernando Muslera"},
		{PlayerName: "Fernando Muslera"},
		{PlayerName: "Hakim Ziyech"},
		{PlayerName: "Dries Mertens"},
	}

	top := topMentioned(mentions, 3)

	assert.Equal(t, []string{"Mauro Icardi", "Fernando Muslera", "Dries Mertens"}, top)
}
