package collectors

import (
	"context"

	"github.com/ultrarslanoglu/gs-analytics/internal/models"
)

// Collector fetches and normalizes posts from one external platform.
//
// The failure contract is part of the API: any network, authentication, or
// parse failure is logged inside the collector and surfaces as an empty
// result. Collectors never return errors to callers; the orchestrator
// depends on this for source isolation. A collector constructed without
// credentials reports Enabled() == false and stays disabled for the
// process lifetime.
type Collector interface {
	Platform() models.Platform
	Enabled() bool

	// FetchRecentByKeyword searches the platform for recent public posts
	// matching any of the keywords.
	FetchRecentByKeyword(ctx context.Context, keywords []string, limit int) []models.Post

	// FetchTimeline fetches recent posts by one account.
	FetchTimeline(ctx context.Context, actorID string, limit int) []models.Post

	// FetchTrending fetches platform-trending items in a loose shape;
	// most platforms gate this API and yield nothing.
	FetchTrending(ctx context.Context, limit int) []map[string]any
}
