package storage

import "context"

// Logical collection names shared by both backends.
const (
	CollectionPosts             = "social_media_posts"
	CollectionSentiment         = "sentiment_analysis"
	CollectionEngagementMetrics = "engagement_metrics"
	CollectionDailyAggregations = "daily_aggregations"
	CollectionPlayerMentions    = "player_mentions"
	CollectionReports           = "reports"
)

// Document is the wire shape both backends speak.
type Document = map[string]any

// Filter selects documents by field equality. A value may be a Range for
// inclusive bounds. Time values are normalized to RFC 3339 strings by the
// Manager before they reach a backend.
type Filter map[string]any

// Range bounds a field inclusively. Nil ends are open.
type Range struct {
	GTE any
	LTE any
}

// Key addresses a single document. Partition carries the partition-key
// value for the partitioned backend; the document backend ignores it.
type Key struct {
	ID        string
	Partition string
}

// Backend is the uniform CRUD contract over one storage implementation.
// Exactly one backend is selected at process startup and never switched.
// Bootstrap is idempotent: re-running it against existing containers or
// collections is a no-op.
type Backend interface {
	Name() string
	Bootstrap(ctx context.Context) error
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	Query(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error)
	Update(ctx context.Context, collection string, key Key, patch Document) error
	Delete(ctx context.Context, collection string, key Key) error
}

// collectionSchema declares, per logical collection, the partition key used
// by the partitioned backend and the secondary indexes the document backend
// creates in its place.
type collectionSchema struct {
	name         string
	partitionKey string
	uniqueKeys   []string
	indexes      [][]string
}

var schemas = []collectionSchema{
	{
		name:         CollectionPosts,
		partitionKey: "platform",
		uniqueKeys:   []string{"/external_id"},
		indexes:      [][]string{{"platform", "created_at"}, {"external_id"}, {"author_id"}},
	},
	{
		name:         CollectionSentiment,
		partitionKey: "post_id",
		indexes:      [][]string{{"post_id"}, {"sentiment"}},
	},
	{
		name:         CollectionEngagementMetrics,
		partitionKey: "platform",
		indexes:      [][]string{{"platform", "date"}},
	},
	{
		name:         CollectionDailyAggregations,
		partitionKey: "date",
		indexes:      [][]string{{"date"}},
	},
	{
		name:         CollectionPlayerMentions,
		partitionKey: "player_id",
		indexes:      [][]string{{"player_id"}, {"post_id"}},
	},
	{
		name:         CollectionReports,
		partitionKey: "report_type",
		indexes:      [][]string{{"report_type", "created_at"}},
	},
}

func schemaFor(collection string) (collectionSchema, bool) {
	for _, s := range schemas {
		if s.name == collection {
			return s, true
		}
	}
	return collectionSchema{}, false
}
