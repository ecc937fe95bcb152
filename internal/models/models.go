package models

import "time"

// Platform identifies the social network a post was collected from.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
)

// Sentiment labels assigned by the analyzer.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Post is one normalized social-media item from any platform.
// (Platform, ExternalID) is unique across the system.
type Post struct {
	ID              string    `json:"id,omitempty"`
	ExternalID      string    `json:"external_id"`
	Platform        Platform  `json:"platform"`
	AuthorID        string    `json:"author_id"`
	AuthorName      string    `json:"author_name"`
	AuthorFollowers int       `json:"author_followers,omitempty"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`
	Likes           int       `json:"likes"`
	Comments        int       `json:"comments"`
	Shares          int       `json:"shares"`
	Views           int       `json:"views"`
	Language        string    `json:"language,omitempty"`
	MediaURLs       []string  `json:"media_urls,omitempty"`
	URL             string    `json:"url,omitempty"`

	// Annotated by the analysis pipeline. A post has a sentiment score
	// only when Sentiment is non-empty.
	Hashtags       []string `json:"hashtags,omitempty"`
	Mentions       []string `json:"mentions,omitempty"`
	Sentiment      string   `json:"sentiment,omitempty"`
	SentimentScore float64  `json:"sentiment_score"`
}

// Interactions returns the post's like+comment+share count. Views are
// tracked separately and excluded from engagement totals.
func (p *Post) Interactions() int {
	return p.Likes + p.Comments + p.Shares
}

// SentimentRecord is the persisted outcome of scoring one post.
// Written once per analyzed post, never mutated.
type SentimentRecord struct {
	ID         string    `json:"id,omitempty"`
	PostID     string    `json:"post_id"`
	Platform   Platform  `json:"platform"`
	Sentiment  string    `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	Score      float64   `json:"score"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// EngagementMetrics is an immutable period-level snapshot aggregated from
// a batch of posts.
type EngagementMetrics struct {
	ID                    string         `json:"id,omitempty"`
	Platform              Platform       `json:"platform"`
	Date                  string         `json:"date"`
	TotalPosts            int            `json:"total_posts"`
	UniqueAuthors         int            `json:"unique_authors"`
	TotalLikes            int            `json:"total_likes"`
	TotalComments         int            `json:"total_comments"`
	TotalShares           int            `json:"total_shares"`
	TotalViews            int            `json:"total_views"`
	TotalEngagement       int            `json:"total_engagement"`
	AverageEngagementRate float64        `json:"average_engagement_rate"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
	AverageSentimentScore float64        `json:"average_sentiment_score"`
	CalculatedAt          time.Time      `json:"calculated_at"`
}

// PlayerMention links a detected roster entity to the post and sentiment
// context it appeared in. Topic flags are independent, not exclusive.
type PlayerMention struct {
	ID                 string   `json:"id,omitempty"`
	PlayerID           string   `json:"player_id"`
	PlayerName         string   `json:"player_name"`
	Position           string   `json:"position"`
	PostID             string   `json:"post_id"`
	Platform           Platform `json:"platform"`
	Sentiment          string   `json:"sentiment"`
	SentimentScore     float64  `json:"sentiment_score"`
	Context            string   `json:"context"`
	InjuryMention      bool     `json:"injury_mention"`
	TransferMention    bool     `json:"transfer_mention"`
	PerformanceMention bool     `json:"performance_mention"`
}

// Report types.
const (
	ReportDaily  = "daily"
	ReportWeekly = "weekly"
	ReportCustom = "custom"
)

// Report summarizes previously persisted analysis over a date range. It is
// built from stored records, never from raw posts.
type Report struct {
	ID          string         `json:"id,omitempty"`
	ReportType  string         `json:"report_type"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	Title       string         `json:"title"`
	Summary     string         `json:"summary"`
	KeyFindings []string       `json:"key_findings"`
	Metrics     map[string]any `json:"metrics,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// PostSentimentSummary is the per-post slice of an AnalysisResult.
type PostSentimentSummary struct {
	PostID    string  `json:"post_id"`
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
	Content   string  `json:"content"`
}

// AnalysisResult aggregates everything one analyzePosts batch produced.
type AnalysisResult struct {
	TotalPosts         int                    `json:"total_posts"`
	PostsWithSentiment []PostSentimentSummary `json:"posts_with_sentiment"`
	EngagementMetrics  *EngagementMetrics     `json:"engagement_metrics"`
	PlayerMentions     []PlayerMention        `json:"player_mentions"`
	KeyInsights        []string               `json:"key_insights"`
}
