package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ultrarslanoglu/gs-analytics/internal/models"
	"github.com/ultrarslanoglu/gs-analytics/internal/storage"
)

// Engagement-rate buckets and sentiment-majority thresholds for insight
// generation.
const (
	highEngagementRate  = 0.1
	lowEngagementRate   = 0.02
	positiveMajorityPct = 70.0
	negativeMajorityPct = 30.0
)

// Orchestrator runs the full analysis pipeline over a collected batch:
// per-post annotation, batch metrics, player mentions, insights. The
// pipeline is best-effort and non-transactional; each persistence step
// fails independently and never aborts the batch.
type Orchestrator struct {
	sentiment  *SentimentAnalyzer
	engagement *EngagementAnalyzer
	players    *PlayerMentionAnalyzer
	reports    *ReportGenerator
	store      *storage.Manager
}

func NewOrchestrator(store *storage.Manager) *Orchestrator {
	return &Orchestrator{
		sentiment:  NewSentimentAnalyzer(),
		engagement: NewEngagementAnalyzer(),
		players:    NewPlayerMentionAnalyzer(),
		reports:    NewReportGenerator(store),
		store:      store,
	}
}

// Sentiment exposes the analyzer for callers that score ad-hoc text.
func (o *Orchestrator) Sentiment() *SentimentAnalyzer {
	return o.sentiment
}

// Reports exposes the report generator.
func (o *Orchestrator) Reports() *ReportGenerator {
	return o.reports
}

// AnalyzePosts annotates each post in input order, persists posts and
// sentiment records individually, then computes batch metrics, player
// mentions, and insights. Posts whose persistence fails stay annotated
// in memory and keep flowing through the later stages.
func (o *Orchestrator) AnalyzePosts(ctx context.Context, posts []models.Post) *models.AnalysisResult {
	result := &models.AnalysisResult{
		TotalPosts:         len(posts),
		PostsWithSentiment: make([]models.PostSentimentSummary, 0, len(posts)),
	}

	for i := range posts {
		post := &posts[i]

		sentiment, score := o.sentiment.Analyze(post.Content)
		post.Sentiment = sentiment
		post.SentimentScore = score
		post.Hashtags, post.Mentions = o.sentiment.ExtractEntities(post.Content)

		o.persistPost(ctx, post, sentiment, score)

		result.PostsWithSentiment = append(result.PostsWithSentiment, models.PostSentimentSummary{
			PostID:    post.ID,
			Sentiment: sentiment,
			Score:     score,
			Content:   truncateRunes(post.Content, contextRunes),
		})
	}

	metrics := o.engagement.CalculateMetrics(posts, "")
	result.EngagementMetrics = &metrics

	if _, err := o.store.Insert(ctx, storage.CollectionEngagementMetrics, metrics); err != nil {
		logrus.Errorf("Failed to persist engagement metrics: %v", err)
	}

	mentions := o.players.AnalyzeMentions(posts, o.sentiment)
	for _, mention := range mentions {
		if _, err := o.store.Insert(ctx, storage.CollectionPlayerMentions, mention); err != nil {
			logrus.Errorf("Failed to persist mention of %s: %v", mention.PlayerName, err)
		}
	}
	result.PlayerMentions = mentions

	result.KeyInsights = o.generateInsights(posts, metrics, mentions)

	logrus.Infof("Analyzed %d posts: %d mentions, %d insights",
		len(posts), len(mentions), len(result.KeyInsights))

	return result
}

// persistPost writes the annotated post and its sentiment record. Either
// write failing is logged and skipped.
func (o *Orchestrator) persistPost(ctx context.Context, post *models.Post, sentiment string, score float64) {
	id, err := o.store.Insert(ctx, storage.CollectionPosts, post)
	if err != nil {
		logrus.Errorf("Failed to persist post %s/%s: %v", post.Platform, post.ExternalID, err)
		return
	}
	post.ID = id

	record := models.SentimentRecord{
		PostID:     post.ID,
		Platform:   post.Platform,
		Sentiment:  sentiment,
		Confidence: abs(score),
		Score:      score,
		AnalyzedAt: time.Now().UTC().Truncate(time.Second),
	}
	if _, err := o.store.Insert(ctx, storage.CollectionSentiment, record); err != nil {
		logrus.Errorf("Failed to persist sentiment record for post %s: %v", post.ID, err)
	}
}

// generateInsights emits up to three statements in fixed priority order:
// engagement-rate bucket, sentiment majority, top mentioned players.
func (o *Orchestrator) generateInsights(posts []models.Post, metrics models.EngagementMetrics, mentions []models.PlayerMention) []string {
	insights := []string{}

	if metrics.AverageEngagementRate > highEngagementRate {
		insights = append(insights, "Yüksek etkileşim oranı tespit edildi")
	} else if metrics.AverageEngagementRate < lowEngagementRate {
		insights = append(insights, "Düşük etkileşim oranı")
	}

	total := len(posts)
	if total == 0 {
		total = 1
	}
	positivePct := float64(metrics.SentimentDistribution[models.SentimentPositive]) / float64(total) * 100

	if positivePct > positiveMajorityPct {
		insights = append(insights, "Çoğunlukla pozitif sentiment")
	} else if positivePct < negativeMajorityPct {
		insights = append(insights, "Çoğunlukla negatif sentiment")
	}

	if top := topMentioned(mentions, 3); len(top) > 0 {
		insights = append(insights, fmt.Sprintf("En çok bahsedilen oyuncular: %s", strings.Join(top, ", ")))
	}

	return insights
}

// topMentioned returns up to n player names by mention count, ties broken
// alphabetically for stable output.
func topMentioned(mentions []models.PlayerMention, n int) []string {
	counts := make(map[string]int)
	for _, m := range mentions {
		counts[m.PlayerName]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > n {
		names = names[:n]
	}
	return names
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
