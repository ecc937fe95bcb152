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

// YouTubeCollector fetches videos through the YouTube Data API v3.
type YouTubeCollector struct {
	apiKey    string
	channelID string
	baseURL   string
	client    *resty.Client
}

var _ Collector = (*YouTubeCollector)(nil)

type youTubeSearchResponse struct {
	Items []youTubeSearchItem `json:"items"`
}

type youTubeSearchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet youTubeSnippet `json:"snippet"`
}

type youTubeSnippet struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelID    string `json:"channelId"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	Thumbnails   struct {
		High struct {
			URL string `json:"url"`
		} `json:"high"`
	} `json:"thumbnails"`
}

type youTubeVideosResponse struct {
	Items []struct {
		ID         string         `json:"id"`
		Snippet    youTubeSnippet `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// NewYouTubeCollector creates a YouTube collector. An empty API key leaves
// it disabled.
func NewYouTubeCollector(apiKey, channelID string, timeout time.Duration) *YouTubeCollector {
	return &YouTubeCollector{
		apiKey:    apiKey,
		channelID: channelID,
		baseURL:   "https://www.googleapis.com/youtube/v3",
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "GalatasarayAnalytics/1.0"),
	}
}

func (y *YouTubeCollector) Platform() models.Platform {
	return models.PlatformYouTube
}

func (y *YouTubeCollector) Enabled() bool {
	return y.apiKey != ""
}

func (y *YouTubeCollector) FetchRecentByKeyword(ctx context.Context, keywords []string, limit int) []models.Post {
	if !y.Enabled() {
		logrus.Debug("YouTube collector disabled - missing API key")
		return nil
	}

	return y.search(ctx, map[string]string{
		"q":                 strings.Join(keywords, " "),
		"part":              "snippet",
		"type":              "video",
		"maxResults":        fmt.Sprintf("%d", clampLimit(limit, 50)),
		"order":             "date",
		"relevanceLanguage": "tr",
		"key":               y.apiKey,
	})
}

func (y *YouTubeCollector) FetchTimeline(ctx context.Context, actorID string, limit int) []models.Post {
	if !y.Enabled() {
		logrus.Debug("YouTube collector disabled - missing API key")
		return nil
	}

	if actorID == "" {
		actorID = y.channelID
	}

	return y.search(ctx, map[string]string{
		"channelId":  actorID,
		"part":       "snippet",
		"type":       "video",
		"maxResults": fmt.Sprintf("%d", clampLimit(limit, 50)),
		"order":      "date",
		"key":        y.apiKey,
	})
}

// FetchTrending returns the most popular videos for the region as loose
// documents.
func (y *YouTubeCollector) FetchTrending(ctx context.Context, limit int) []map[string]any {
	if !y.Enabled() {
		logrus.Debug("YouTube collector disabled - missing API key")
		return nil
	}

	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":       "snippet,statistics",
			"chart":      "mostPopular",
			"regionCode": "TR",
			"maxResults": fmt.Sprintf("%d", clampLimit(limit, 50)),
			"key":        y.apiKey,
		}).
		Get(y.baseURL + "/videos")

	if err != nil {
		logrus.Errorf("YouTube trending fetch failed: %v", err)
		return nil
	}
	if resp.StatusCode() != 200 {
		logrus.Errorf("YouTube API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
		return nil
	}

	var videos youTubeVideosResponse
	if err := json.Unmarshal(resp.Body(), &videos); err != nil {
		logrus.Errorf("Failed to parse YouTube trending response: %v", err)
		return nil
	}

	trending := make([]map[string]any, 0, len(videos.Items))
	for _, item := range videos.Items {
		trending = append(trending, map[string]any{
			"title": item.Snippet.Title,
			"views": item.Statistics.ViewCount,
			"likes": item.Statistics.LikeCount,
			"url":   fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.ID),
		})
	}

	logrus.Infof("Fetched %d trending videos from YouTube", len(trending))
	return trending
}

func (y *YouTubeCollector) search(ctx context.Context, params map[string]string) []models.Post {
	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(y.baseURL + "/search")

	if err != nil {
		logrus.Errorf("YouTube search failed: %v", err)
		return nil
	}
	if resp.StatusCode() != 200 {
		logrus.Errorf("YouTube API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
		return nil
	}

	var search youTubeSearchResponse
	if err := json.Unmarshal(resp.Body(), &search); err != nil {
		logrus.Errorf("Failed to parse YouTube response: %v", err)
		return nil
	}

	posts := make([]models.Post, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.VideoID == "" {
			continue
		}
		post, err := y.normalize(item)
		if err != nil {
			logrus.Errorf("Skipping malformed video: %v", err)
			continue
		}
		posts = append(posts, post)
	}

	logrus.Infof("Fetched %d videos from YouTube", len(posts))
	return posts
}

func (y *YouTubeCollector) normalize(item youTubeSearchItem) (models.Post, error) {
	publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
	if err != nil {
		return models.Post{}, fmt.Errorf("bad video timestamp %q: %w", item.Snippet.PublishedAt, err)
	}

	var mediaURLs []string
	if item.Snippet.Thumbnails.High.URL != "" {
		mediaURLs = []string{item.Snippet.Thumbnails.High.URL}
	}

	content := item.Snippet.Title
	if item.Snippet.Description != "" {
		content += "\n" + item.Snippet.Description
	}

	return models.Post{
		ExternalID: item.ID.VideoID,
		Platform:   models.PlatformYouTube,
		AuthorID:   item.Snippet.ChannelID,
		AuthorName: item.Snippet.ChannelTitle,
		Content:    content,
		CreatedAt:  publishedAt,
		Language:   "tr",
		MediaURLs:  mediaURLs,
		URL:        fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.ID.VideoID),
	}, nil
}
