package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"github.com/sirupsen/logrus"
)

// CosmosBackend stores each logical collection in a physically partitioned
// Azure Cosmos DB container. Queries that carry the collection's partition
// key are routed to one partition; everything else is a cross-partition scan.
type CosmosBackend struct {
	client       *azcosmos.Client
	database     *azcosmos.DatabaseClient
	databaseName string
	containers   map[string]*azcosmos.ContainerClient
}

var _ Backend = (*CosmosBackend)(nil)

// NewCosmosBackend connects to the Cosmos account. Reaching the account is
// deferred to Bootstrap; a failure there aborts process startup.
func NewCosmosBackend(endpoint, key, databaseName string) (*CosmosBackend, error) {
	cred, err := azcosmos.NewKeyCredential(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cosmos credential: %w", err)
	}

	client, err := azcosmos.NewClientWithKey(endpoint, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cosmos client: %w", err)
	}

	database, err := client.NewDatabase(databaseName)
	if err != nil {
		return nil, fmt.Errorf("failed to open Cosmos database %s: %w", databaseName, err)
	}

	return &CosmosBackend{
		client:       client,
		database:     database,
		databaseName: databaseName,
		containers:   make(map[string]*azcosmos.ContainerClient),
	}, nil
}

func (b *CosmosBackend) Name() string {
	return "cosmos"
}

// Bootstrap creates the database and one container per logical collection.
// Existing resources are left untouched.
func (b *CosmosBackend) Bootstrap(ctx context.Context) error {
	if _, err := b.client.CreateDatabase(ctx, azcosmos.DatabaseProperties{ID: b.databaseName}, nil); err != nil {
		if !isCosmosConflict(err) {
			return fmt.Errorf("failed to create database %s: %w", b.databaseName, err)
		}
		logrus.Debugf("Database %s already exists", b.databaseName)
	}

	for _, schema := range schemas {
		properties := azcosmos.ContainerProperties{
			ID: schema.name,
			PartitionKeyDefinition: azcosmos.PartitionKeyDefinition{
				Paths: []string{"/" + schema.partitionKey},
			},
		}
		if len(schema.uniqueKeys) > 0 {
			properties.UniqueKeyPolicy = &azcosmos.UniqueKeyPolicy{
				UniqueKeys: []azcosmos.UniqueKey{{Paths: schema.uniqueKeys}},
			}
		}

		if _, err := b.database.CreateContainer(ctx, properties, nil); err != nil {
			if !isCosmosConflict(err) {
				return fmt.Errorf("failed to create container %s: %w", schema.name, err)
			}
			logrus.Debugf("Container %s already exists", schema.name)
		} else {
			logrus.Infof("Created container %s (partition key /%s)", schema.name, schema.partitionKey)
		}

		container, err := b.database.NewContainer(schema.name)
		if err != nil {
			return fmt.Errorf("failed to open container %s: %w", schema.name, err)
		}
		b.containers[schema.name] = container
	}

	return nil
}

// Insert writes one document into the collection's partition derived from
// the document itself.
func (b *CosmosBackend) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	container, schema, err := b.container(collection)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	pk := azcosmos.NewPartitionKeyString(stringField(doc, schema.partitionKey))
	if _, err := container.CreateItem(ctx, pk, body, nil); err != nil {
		return "", fmt.Errorf("failed to insert into %s: %w", collection, err)
	}

	id, _ := doc["id"].(string)
	return id, nil
}

// Query translates the shared filter contract into parameterized Cosmos SQL.
// A filter that pins the partition key is served from one partition; other
// filters fan out across partitions.
func (b *CosmosBackend) Query(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	container, schema, err := b.container(collection)
	if err != nil {
		return nil, err
	}

	query, parameters := buildCosmosQuery(filter, limit)

	pk := azcosmos.PartitionKey{}
	if value, ok := filter[schema.partitionKey].(string); ok {
		pk = azcosmos.NewPartitionKeyString(value)
	}

	pager := container.NewQueryItemsPager(query, pk, &azcosmos.QueryOptions{QueryParameters: parameters})

	var docs []Document
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query on %s failed: %w", collection, err)
		}
		for _, raw := range page.Items {
			var doc Document
			if err := json.Unmarshal(raw, &doc); err != nil {
				logrus.Errorf("Skipping malformed document in %s: %v", collection, err)
				continue
			}
			docs = append(docs, doc)
		}
	}

	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// Update reads, patches, and replaces the addressed document.
func (b *CosmosBackend) Update(ctx context.Context, collection string, key Key, patch Document) error {
	container, _, err := b.container(collection)
	if err != nil {
		return err
	}

	pk := azcosmos.NewPartitionKeyString(key.Partition)
	response, err := container.ReadItem(ctx, pk, key.ID, nil)
	if err != nil {
		return fmt.Errorf("failed to read %s/%s: %w", collection, key.ID, err)
	}

	var doc Document
	if err := json.Unmarshal(response.Value, &doc); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", collection, key.ID, err)
	}

	for field, value := range patch {
		doc[field] = value
	}
	doc["updated_at"] = time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal patched document: %w", err)
	}

	if _, err := container.ReplaceItem(ctx, pk, key.ID, body, nil); err != nil {
		return fmt.Errorf("failed to replace %s/%s: %w", collection, key.ID, err)
	}
	return nil
}

// Delete removes the addressed document.
func (b *CosmosBackend) Delete(ctx context.Context, collection string, key Key) error {
	container, _, err := b.container(collection)
	if err != nil {
		return err
	}

	pk := azcosmos.NewPartitionKeyString(key.Partition)
	if _, err := container.DeleteItem(ctx, pk, key.ID, nil); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, key.ID, err)
	}
	return nil
}

func (b *CosmosBackend) container(collection string) (*azcosmos.ContainerClient, collectionSchema, error) {
	schema, ok := schemaFor(collection)
	if !ok {
		return nil, collectionSchema{}, fmt.Errorf("unknown collection %s", collection)
	}
	container, ok := b.containers[collection]
	if !ok {
		return nil, collectionSchema{}, fmt.Errorf("collection %s not bootstrapped", collection)
	}
	return container, schema, nil
}

func buildCosmosQuery(filter Filter, limit int) (string, []azcosmos.QueryParameter) {
	base := "SELECT * FROM c"
	if limit > 0 {
		base = fmt.Sprintf("SELECT TOP %d * FROM c", limit)
	}

	var clauses []string
	var parameters []azcosmos.QueryParameter
	i := 0

	param := func(value any) string {
		name := fmt.Sprintf("@p%d", i)
		i++
		parameters = append(parameters, azcosmos.QueryParameter{Name: name, Value: value})
		return name
	}

	for field, value := range filter {
		switch v := value.(type) {
		case Range:
			if v.GTE != nil {
				clauses = append(clauses, fmt.Sprintf("c.%s >= %s", field, param(v.GTE)))
			}
			if v.LTE != nil {
				clauses = append(clauses, fmt.Sprintf("c.%s <= %s", field, param(v.LTE)))
			}
		default:
			clauses = append(clauses, fmt.Sprintf("c.%s = %s", field, param(v)))
		}
	}

	if len(clauses) > 0 {
		base += " WHERE " + strings.Join(clauses, " AND ")
	}
	return base, parameters
}

// stringField reads a string field, returning "" when the field is absent
// or holds a non-string. A missing partition field must not leak a
// formatted placeholder into partition routing.
func stringField(doc Document, field string) string {
	value, _ := doc[field].(string)
	return value
}

func isCosmosConflict(err error) bool {
	var responseErr *azcore.ResponseError
	return errors.As(err, &responseErr) && responseErr.StatusCode == http.StatusConflict
}
