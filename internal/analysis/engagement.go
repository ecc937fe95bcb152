package analysis

import (
	"math"
	"time"

	"github.com/ultrarslanoglu/gs-analytics/internal/models"
)

// EngagementAnalyzer aggregates batch-level interaction metrics.
type EngagementAnalyzer struct{}

func NewEngagementAnalyzer() *EngagementAnalyzer {
	return &EngagementAnalyzer{}
}

// CalculateMetrics builds one immutable metrics snapshot for a batch of
// already-annotated posts. An empty batch yields zero counters, never an
// error.
//
// The average rate divides total engagement by the sum of per-post
// interaction counts where each post's count is floored at 1. A batch full
// of zero-interaction posts therefore dilutes the rate instead of dividing
// by zero; report consumers should know the denominator includes those
// floors.
func (e *EngagementAnalyzer) CalculateMetrics(posts []models.Post, date string) models.EngagementMetrics {
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	if len(posts) == 0 {
		return models.EngagementMetrics{
			Date:                  date,
			SentimentDistribution: map[string]int{},
			CalculatedAt:          time.Now().UTC().Truncate(time.Second),
		}
	}

	metrics := models.EngagementMetrics{
		Platform:              posts[0].Platform,
		Date:                  date,
		TotalPosts:            len(posts),
		SentimentDistribution: map[string]int{},
		CalculatedAt:          time.Now().UTC().Truncate(time.Second),
	}

	authors := make(map[string]struct{})
	denominator := 0
	var scoreSum float64
	scored := 0

	for _, post := range posts {
		if post.AuthorID != "" {
			authors[post.AuthorID] = struct{}{}
		}

		metrics.TotalLikes += post.Likes
		metrics.TotalComments += post.Comments
		metrics.TotalShares += post.Shares
		metrics.TotalViews += post.Views

		reach := post.Interactions() + post.Views
		if reach < 1 {
			reach = 1
		}
		denominator += reach

		if post.Sentiment != "" {
			metrics.SentimentDistribution[post.Sentiment]++
			scoreSum += post.SentimentScore
			scored++
		}
	}

	metrics.UniqueAuthors = len(authors)
	metrics.TotalEngagement = metrics.TotalLikes + metrics.TotalComments + metrics.TotalShares
	metrics.AverageEngagementRate = float64(metrics.TotalEngagement) / float64(denominator)

	if scored > 0 {
		metrics.AverageSentimentScore = math.Round(scoreSum/float64(scored)*1000) / 1000
	}

	return metrics
}
