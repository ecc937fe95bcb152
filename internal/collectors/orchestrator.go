package collectors

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ultrarslanoglu/gs-analytics/internal/config"
	"github.com/ultrarslanoglu/gs-analytics/internal/models"
)

// Orchestrator fans collection out across every registered platform and
// merges the results. One failing or panicking source never affects the
// posts gathered from the others.
type Orchestrator struct {
	collectors []Collector
	keywords   []string
}

// collectResult carries one source's posts back over the fan-in channel.
type collectResult struct {
	platform models.Platform
	posts    []models.Post
}

// NewOrchestrator builds one collector per supported platform from the
// configured credentials. Platforms without credentials stay registered
// but disabled.
func NewOrchestrator(cfg *config.Config) *Orchestrator {
	timeout := time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	return &Orchestrator{
		collectors: []Collector{
			NewTwitterCollector(cfg.TwitterBearerToken, timeout),
			NewInstagramCollector(cfg.MetaAccessToken, cfg.MetaBusinessAccountID, timeout),
			NewYouTubeCollector(cfg.YouTubeAPIKey, cfg.YouTubeChannelID, timeout),
			NewTikTokCollector(cfg.TikTokAPIKey, cfg.TikTokSecret, timeout),
		},
		keywords: cfg.Keywords,
	}
}

// NewOrchestratorWithCollectors wires an explicit collector set, used by
// tests and by callers that manage credentials themselves.
func NewOrchestratorWithCollectors(keywords []string, collectors ...Collector) *Orchestrator {
	return &Orchestrator{collectors: collectors, keywords: keywords}
}

// Keywords returns the monitored keyword set.
func (o *Orchestrator) Keywords() []string {
	return o.keywords
}

// Platforms lists the registered platforms and whether each is enabled.
func (o *Orchestrator) Platforms() map[models.Platform]bool {
	status := make(map[models.Platform]bool, len(o.collectors))
	for _, c := range o.collectors {
		status[c.Platform()] = c.Enabled()
	}
	return status
}

// CollectAll runs a keyword search on every enabled platform concurrently
// and merges the posts in completion order. Disabled platforms are
// skipped, and a collector that panics only loses its own batch.
func (o *Orchestrator) CollectAll(ctx context.Context, limitPerPlatform int) []models.Post {
	results := make(chan collectResult, len(o.collectors))
	started := 0

	for _, c := range o.collectors {
		if !c.Enabled() {
			logrus.Debugf("Skipping disabled collector: %s", c.Platform())
			continue
		}
		started++
		go func(c Collector) {
			defer func() {
				if r := recover(); r != nil {
					logrus.Errorf("Collector %s panicked: %v", c.Platform(), r)
					results <- collectResult{platform: c.Platform()}
				}
			}()
			results <- collectResult{
				platform: c.Platform(),
				posts:    c.FetchRecentByKeyword(ctx, o.keywords, limitPerPlatform),
			}
		}(c)
	}

	var posts []models.Post
	for i := 0; i < started; i++ {
		res := <-results
		logrus.Infof("Collected %d posts from %s", len(res.posts), res.platform)
		posts = append(posts, res.posts...)
	}

	logrus.Infof("Collection complete: %d posts from %d platforms", len(posts), started)
	return posts
}

// CollectByPlatform runs a keyword search on one platform. Unknown and
// disabled platforms return an error; fetch failures still surface as an
// empty result per the collector contract.
func (o *Orchestrator) CollectByPlatform(ctx context.Context, platform models.Platform, keywords []string, limit int) ([]models.Post, error) {
	c := o.collector(platform)
	if c == nil {
		return nil, fmt.Errorf("unknown platform: %s", platform)
	}
	if !c.Enabled() {
		return nil, fmt.Errorf("platform %s is not configured", platform)
	}
	if len(keywords) == 0 {
		keywords = o.keywords
	}
	return c.FetchRecentByKeyword(ctx, keywords, limit), nil
}

// CollectTrending gathers trending items from every enabled platform,
// keyed by platform name. Sources without a trending API contribute
// nothing.
func (o *Orchestrator) CollectTrending(ctx context.Context, limit int) map[models.Platform][]map[string]any {
	trending := make(map[models.Platform][]map[string]any)
	for _, c := range o.collectors {
		if !c.Enabled() {
			continue
		}
		if items := c.FetchTrending(ctx, limit); len(items) > 0 {
			trending[c.Platform()] = items
		}
	}
	return trending
}

func (o *Orchestrator) collector(platform models.Platform) Collector {
	for _, c := range o.collectors {
		if c.Platform() == platform {
			return c
		}
	}
	return nil
}
