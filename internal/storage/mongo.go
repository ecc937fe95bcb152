package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBackend is the fallback document store: one collection per logical
// name, secondary indexes in place of partition keys.
type MongoBackend struct {
	client   *mongo.Client
	database *mongo.Database
}

var _ Backend = (*MongoBackend)(nil)

// NewMongoBackend connects and pings. A failed ping means the backend is
// unavailable, which is fatal for process startup.
func NewMongoBackend(ctx context.Context, uri, databaseName string) (*MongoBackend, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("MongoDB unreachable: %w", err)
	}

	return &MongoBackend{
		client:   client,
		database: client.Database(databaseName),
	}, nil
}

func (b *MongoBackend) Name() string {
	return "mongodb"
}

// Bootstrap creates collections and their secondary indexes. Both steps are
// no-ops when the target already exists.
func (b *MongoBackend) Bootstrap(ctx context.Context) error {
	for _, schema := range schemas {
		if err := b.database.CreateCollection(ctx, schema.name); err != nil {
			if !strings.Contains(err.Error(), "NamespaceExists") {
				return fmt.Errorf("failed to create collection %s: %w", schema.name, err)
			}
			logrus.Debugf("Collection %s already exists", schema.name)
		} else {
			logrus.Infof("Created collection %s", schema.name)
		}

		collection := b.database.Collection(schema.name)
		for _, fields := range schema.indexes {
			keys := bson.D{}
			for _, field := range fields {
				keys = append(keys, bson.E{Key: field, Value: 1})
			}
			if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys}); err != nil {
				logrus.Warnf("Index creation on %s%v: %v", schema.name, fields, err)
			}
		}
	}
	return nil
}

// Insert writes one document.
func (b *MongoBackend) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	if _, ok := schemaFor(collection); !ok {
		return "", fmt.Errorf("unknown collection %s", collection)
	}

	if _, err := b.database.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to insert into %s: %w", collection, err)
	}

	id, _ := doc["id"].(string)
	return id, nil
}

// Query translates the shared filter contract into a find.
func (b *MongoBackend) Query(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	if _, ok := schemaFor(collection); !ok {
		return nil, fmt.Errorf("unknown collection %s", collection)
	}

	query := bson.M{}
	for field, value := range filter {
		switch v := value.(type) {
		case Range:
			bounds := bson.M{}
			if v.GTE != nil {
				bounds["$gte"] = v.GTE
			}
			if v.LTE != nil {
				bounds["$lte"] = v.LTE
			}
			query[field] = bounds
		default:
			query[field] = v
		}
	}

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := b.database.Collection(collection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("query on %s failed: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var doc Document
		if err := cursor.Decode(&doc); err != nil {
			logrus.Errorf("Skipping malformed document in %s: %v", collection, err)
			continue
		}
		delete(doc, "_id")
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor on %s failed: %w", collection, err)
	}
	return docs, nil
}

// Update applies a $set patch to the document addressed by id.
func (b *MongoBackend) Update(ctx context.Context, collection string, key Key, patch Document) error {
	if _, ok := schemaFor(collection); !ok {
		return fmt.Errorf("unknown collection %s", collection)
	}

	set := bson.M{}
	for field, value := range patch {
		set[field] = value
	}
	set["updated_at"] = time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)

	result, err := b.database.Collection(collection).UpdateOne(ctx, bson.M{"id": key.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, key.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("document %s/%s not found", collection, key.ID)
	}
	return nil
}

// Delete removes the document addressed by id.
func (b *MongoBackend) Delete(ctx context.Context, collection string, key Key) error {
	if _, ok := schemaFor(collection); !ok {
		return fmt.Errorf("unknown collection %s", collection)
	}

	if _, err := b.database.Collection(collection).DeleteOne(ctx, bson.M{"id": key.ID}); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, key.ID, err)
	}
	return nil
}

// Close releases the underlying client.
func (b *MongoBackend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}
