package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/ultrarslanoglu/gs-analytics/internal/models"
)

// InstagramCollector fetches posts through the Instagram Graph API.
// Keyword search works by resolving each keyword to a hashtag id, then
// pulling that hashtag's recent media.
type InstagramCollector struct {
	accessToken       string
	businessAccountID string
	baseURL           string
	client            *resty.Client
}

var _ Collector = (*InstagramCollector)(nil)

type instagramMediaResponse struct {
	Data []instagramMedia `json:"data"`
}

type instagramMedia struct {
	ID            string `json:"id"`
	Caption       string `json:"caption"`
	MediaType     string `json:"media_type"`
	MediaURL      string `json:"media_url"`
	Permalink     string `json:"permalink"`
	Timestamp     string `json:"timestamp"`
	Username      string `json:"username"`
	LikeCount     int    `json:"like_count"`
	CommentsCount int    `json:"comments_count"`
}

type instagramHashtagResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

// NewInstagramCollector creates an Instagram collector. Both the access
// token and a business account id are required; missing either leaves it
// disabled.
func NewInstagramCollector(accessToken, businessAccountID string, timeout time.Duration) *InstagramCollector {
	return &InstagramCollector{
		accessToken:       accessToken,
		businessAccountID: businessAccountID,
		baseURL:           "https://graph.instagram.com/v18.0",
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "GalatasarayAnalytics/1.0"),
	}
}

func (i *InstagramCollector) Platform() models.Platform {
	return models.PlatformInstagram
}

func (i *InstagramCollector) Enabled() bool {
	return i.accessToken != "" && i.businessAccountID != ""
}

func (i *InstagramCollector) FetchRecentByKeyword(ctx context.Context, keywords []string, limit int) []models.Post {
	if !i.Enabled() {
		logrus.Debug("Instagram collector disabled - missing access token or business account id")
		return nil
	}

	var posts []models.Post
	for _, keyword := range keywords {
		hashtagID := i.searchHashtag(ctx, keyword)
		if hashtagID == "" {
			continue
		}

		resp, err := i.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"user_id":      i.businessAccountID,
				"fields":       "id,caption,media_type,media_url,permalink,timestamp,username,like_count,comments_count",
				"access_token": i.accessToken,
			}).
			Get(fmt.Sprintf("%s/%s/recent_media", i.baseURL, hashtagID))

		if err != nil {
			logrus.Errorf("Instagram media fetch failed for %q: %v", keyword, err)
			continue
		}
		if resp.StatusCode() != 200 {
			logrus.Warnf("Instagram API returned status %d for %q", resp.StatusCode(), keyword)
			continue
		}

		var media instagramMediaResponse
		if err := json.Unmarshal(resp.Body(), &media); err != nil {
			logrus.Errorf("Failed to parse Instagram response: %v", err)
			continue
		}

		for _, item := range media.Data {
			if len(posts) >= limit && limit > 0 {
				break
			}
			posts = append(posts, i.normalize(item))
		}
	}

	logrus.Infof("Fetched %d posts from Instagram", len(posts))
	return posts
}

func (i *InstagramCollector) FetchTimeline(ctx context.Context, actorID string, limit int) []models.Post {
	if !i.Enabled() {
		logrus.Debug("Instagram collector disabled - missing access token or business account id")
		return nil
	}

	resp, err := i.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"fields":       "id,caption,media_type,media_url,permalink,timestamp,username,like_count,comments_count",
			"access_token": i.accessToken,
			"limit":        fmt.Sprintf("%d", clampLimit(limit, 100)),
		}).
		Get(fmt.Sprintf("%s/%s/media", i.baseURL, actorID))

	if err != nil {
		logrus.Errorf("Instagram timeline fetch failed: %v", err)
		return nil
	}
	if resp.StatusCode() != 200 {
		logrus.Errorf("Instagram API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
		return nil
	}

	var media instagramMediaResponse
	if err := json.Unmarshal(resp.Body(), &media); err != nil {
		logrus.Errorf("Failed to parse Instagram timeline response: %v", err)
		return nil
	}

	posts := make([]models.Post, 0, len(media.Data))
	for _, item := range media.Data {
		posts = append(posts, i.normalize(item))
	}

	logrus.Infof("Fetched %d timeline posts from Instagram", len(posts))
	return posts
}

// FetchTrending has no public Instagram API and yields nothing.
func (i *InstagramCollector) FetchTrending(ctx context.Context, limit int) []map[string]any {
	logrus.Warn("Instagram trending API is restricted - skipping")
	return nil
}

func (i *InstagramCollector) searchHashtag(ctx context.Context, keyword string) string {
	resp, err := i.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"user_id":      i.businessAccountID,
			"q":            keyword,
			"fields":       "id,name",
			"access_token": i.accessToken,
		}).
		Get(i.baseURL + "/ig_hashtag_search")

	if err != nil {
		logrus.Warnf("Instagram hashtag search failed for %q: %v", keyword, err)
		return ""
	}
	if resp.StatusCode() != 200 {
		logrus.Warnf("Instagram hashtag search returned status %d for %q", resp.StatusCode(), keyword)
		return ""
	}

	var hashtags instagramHashtagResponse
	if err := json.Unmarshal(resp.Body(), &hashtags); err != nil {
		logrus.Warnf("Failed to parse Instagram hashtag response: %v", err)
		return ""
	}
	if len(hashtags.Data) == 0 {
		return ""
	}
	return hashtags.Data[0].ID
}

func (i *InstagramCollector) normalize(media instagramMedia) models.Post {
	createdAt, err := time.Parse(time.RFC3339, media.Timestamp)
	if err != nil {
		// Graph API timestamps occasionally use a numeric offset form.
		createdAt, err = time.Parse("2006-01-02T15:04:05-0700", media.Timestamp)
		if err != nil {
			createdAt = time.Now().UTC().Truncate(time.Second)
		}
	}

	var mediaURLs []string
	if media.MediaURL != "" {
		mediaURLs = []string{media.MediaURL}
	}

	return models.Post{
		ExternalID: media.ID,
		Platform:   models.PlatformInstagram,
		AuthorID:   media.Username,
		AuthorName: media.Username,
		Content:    media.Caption,
		CreatedAt:  createdAt,
		Likes:      media.LikeCount,
		Comments:   media.CommentsCount,
		MediaURLs:  mediaURLs,
		URL:        media.Permalink,
	}
}
