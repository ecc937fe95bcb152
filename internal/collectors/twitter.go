package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/ultrarslanoglu/gs-analytics/internal/models"
)

// TwitterCollector fetches posts from the Twitter/X v2 API.
type TwitterCollector struct {
	bearerToken string
	baseURL     string
	client      *resty.Client
}

var _ Collector = (*TwitterCollector)(nil)

type twitterSearchResponse struct {
	Data     []twitterTweet `json:"data"`
	Includes struct {
		Users []twitterUser `json:"users"`
	} `json:"includes"`
}

type twitterTweet struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	AuthorID      string `json:"author_id"`
	CreatedAt     string `json:"created_at"`
	Lang          string `json:"lang"`
	PublicMetrics struct {
		RetweetCount    int `json:"retweet_count"`
		ReplyCount      int `json:"reply_count"`
		LikeCount       int `json:"like_count"`
		QuoteCount      int `json:"quote_count"`
		ImpressionCount int `json:"impression_count"`
	} `json:"public_metrics"`
}

type twitterUser struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FollowersCount int    `json:"followers_count"`
}

// NewTwitterCollector creates a Twitter collector. An empty bearer token
// leaves it disabled.
func NewTwitterCollector(bearerToken string, timeout time.Duration) *TwitterCollector {
	return &TwitterCollector{
		bearerToken: bearerToken,
		baseURL:     "https://api.twitter.com/2",
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "GalatasarayAnalytics/1.0"),
	}
}

func (t *TwitterCollector) Platform() models.Platform {
	return models.PlatformTwitter
}

func (t *TwitterCollector) Enabled() bool {
	return t.bearerToken != ""
}

func (t *TwitterCollector) FetchRecentByKeyword(ctx context.Context, keywords []string, limit int) []models.Post {
	if !t.Enabled() {
		logrus.Debug("Twitter collector disabled - missing bearer token")
		return nil
	}

	query := strings.Join(keywords, " OR ") + " -is:retweet lang:tr"

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+t.bearerToken).
		SetQueryParams(map[string]string{
			"query":        query,
			"max_results":  fmt.Sprintf("%d", clampLimit(limit, 100)),
			"tweet.fields": "created_at,author_id,public_metrics,lang",
			"expansions":   "author_id",
			"user.fields":  "username,followers_count",
		}).
		Get(t.baseURL + "/tweets/search/recent")

	if err != nil {
		logrus.Errorf("Twitter search failed: %v", err)
		return nil
	}
	if resp.StatusCode() != 200 {
		logrus.Errorf("Twitter API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
		return nil
	}

	var search twitterSearchResponse
	if err := json.Unmarshal(resp.Body(), &search); err != nil {
		logrus.Errorf("Failed to parse Twitter response: %v", err)
		return nil
	}

	users := make(map[string]twitterUser, len(search.Includes.Users))
	for _, user := range search.Includes.Users {
		users[user.ID] = user
	}

	posts := make([]models.Post, 0, len(search.Data))
	for _, tweet := range search.Data {
		post, err := t.normalize(tweet, users)
		if err != nil {
			logrus.Errorf("Skipping malformed tweet: %v", err)
			continue
		}
		posts = append(posts, post)
	}

	logrus.Infof("Fetched %d posts from Twitter", len(posts))
	return posts
}

func (t *TwitterCollector) FetchTimeline(ctx context.Context, actorID string, limit int) []models.Post {
	if !t.Enabled() {
		logrus.Debug("Twitter collector disabled - missing bearer token")
		return nil
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+t.bearerToken).
		SetQueryParams(map[string]string{
			"max_results":  fmt.Sprintf("%d", clampLimit(limit, 100)),
			"tweet.fields": "created_at,public_metrics,lang",
		}).
		Get(fmt.Sprintf("%s/users/%s/tweets", t.baseURL, actorID))

	if err != nil {
		logrus.Errorf("Twitter timeline fetch failed: %v", err)
		return nil
	}
	if resp.StatusCode() != 200 {
		logrus.Errorf("Twitter API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
		return nil
	}

	var search twitterSearchResponse
	if err := json.Unmarshal(resp.Body(), &search); err != nil {
		logrus.Errorf("Failed to parse Twitter timeline response: %v", err)
		return nil
	}

	posts := make([]models.Post, 0, len(search.Data))
	for _, tweet := range search.Data {
		if tweet.AuthorID == "" {
			tweet.AuthorID = actorID
		}
		post, err := t.normalize(tweet, nil)
		if err != nil {
			logrus.Errorf("Skipping malformed tweet: %v", err)
			continue
		}
		posts = append(posts, post)
	}

	logrus.Infof("Fetched %d timeline posts from Twitter", len(posts))
	return posts
}

// FetchTrending is gated behind elevated API access and yields nothing.
func (t *TwitterCollector) FetchTrending(ctx context.Context, limit int) []map[string]any {
	logrus.Warn("Twitter trends require elevated API access - skipping")
	return nil
}

func (t *TwitterCollector) normalize(tweet twitterTweet, users map[string]twitterUser) (models.Post, error) {
	createdAt, err := time.Parse(time.RFC3339, tweet.CreatedAt)
	if err != nil {
		return models.Post{}, fmt.Errorf("bad tweet timestamp %q: %w", tweet.CreatedAt, err)
	}

	user := users[tweet.AuthorID]
	metrics := tweet.PublicMetrics

	language := tweet.Lang
	if language == "" {
		language = "tr"
	}

	return models.Post{
		ExternalID:      tweet.ID,
		Platform:        models.PlatformTwitter,
		AuthorID:        tweet.AuthorID,
		AuthorName:      user.Username,
		AuthorFollowers: user.FollowersCount,
		Content:         tweet.Text,
		CreatedAt:       createdAt,
		Likes:           metrics.LikeCount,
		Comments:        metrics.ReplyCount,
		Shares:          metrics.RetweetCount + metrics.QuoteCount,
		Views:           metrics.ImpressionCount,
		Language:        language,
		URL:             fmt.Sprintf("https://twitter.com/i/web/status/%s", tweet.ID),
	}, nil
}

func clampLimit(limit, max int) int {
	if limit <= 0 || limit > max {
		return max
	}
	return limit
}
