package collectors

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/ultrarslanoglu/gs-analytics/internal/models"
)

// TikTokCollector is a placeholder for the TikTok Research API. Access to
// that API requires an approved research application, so every fetch logs a
// warning and returns empty until credentials for it are provisioned.
type TikTokCollector struct {
	apiKey    string
	apiSecret string
	client    *resty.Client
}

var _ Collector = (*TikTokCollector)(nil)

func NewTikTokCollector(apiKey, apiSecret string, timeout time.Duration) *TikTokCollector {
	return &TikTokCollector{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "GalatasarayAnalytics/1.0"),
	}
}

func (t *TikTokCollector) Platform() models.Platform {
	return models.PlatformTikTok
}

func (t *TikTokCollector) Enabled() bool {
	return t.apiKey != "" && t.apiSecret != ""
}

func (t *TikTokCollector) FetchRecentByKeyword(ctx context.Context, keywords []string, limit int) []models.Post {
	logrus.Warn("TikTok keyword search requires Research API approval, returning empty")
	return nil
}

func (t *TikTokCollector) FetchTimeline(ctx context.Context, actorID string, limit int) []models.Post {
	logrus.Warn("TikTok timeline fetch requires Research API approval, returning empty")
	return nil
}

func (t *TikTokCollector) FetchTrending(ctx context.Context, limit int) []map[string]any {
	logrus.Warn("TikTok trending fetch requires Research API approval, returning empty")
	return nil
}
