package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ultrarslanoglu/gs-analytics/internal/config"
)

// Manager fronts the selected backend with the four shared operations. It
// is constructed once at startup and injected everywhere; callers never see
// which backend is underneath. Safe for concurrent use: every write is one
// independent operation with per-record last-write-wins semantics.
type Manager struct {
	backend Backend
}

// NewManager selects and bootstraps the backend from configuration: Cosmos
// when configured, MongoDB otherwise. Any failure here is fatal to startup.
func NewManager(ctx context.Context, cfg *config.Config) (*Manager, error) {
	var backend Backend
	var err error

	if cfg.CosmosConfigured() {
		backend, err = NewCosmosBackend(cfg.CosmosEndpoint, cfg.CosmosKey, cfg.CosmosDatabase)
	} else {
		backend, err = NewMongoBackend(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	if err != nil {
		return nil, err
	}

	manager := &Manager{backend: backend}
	if err := manager.Bootstrap(ctx); err != nil {
		return nil, err
	}

	logrus.Infof("Storage manager initialized (backend: %s)", backend.Name())
	return manager, nil
}

// NewManagerWithBackend wraps an already-constructed backend. Used by tests
// and local runs against the memory backend.
func NewManagerWithBackend(backend Backend) *Manager {
	return &Manager{backend: backend}
}

// BackendName reports which backend was selected.
func (m *Manager) BackendName() string {
	return m.backend.Name()
}

// Bootstrap creates containers/collections and indexes. Idempotent.
func (m *Manager) Bootstrap(ctx context.Context) error {
	if err := m.backend.Bootstrap(ctx); err != nil {
		return fmt.Errorf("storage bootstrap failed: %w", err)
	}
	return nil
}

// Insert persists any JSON-marshalable value as a document, assigning an id
// when the value does not carry one. Returns the document id.
func (m *Manager) Insert(ctx context.Context, collection string, value any) (string, error) {
	doc, err := toDocument(value)
	if err != nil {
		return "", err
	}

	if id, _ := doc["id"].(string); id == "" {
		doc["id"] = uuid.New().String()
	}

	return m.backend.Insert(ctx, collection, doc)
}

// Query returns documents matching the filter, up to limit (0 = no cap).
func (m *Manager) Query(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	return m.backend.Query(ctx, collection, normalizeFilter(filter), limit)
}

// Update applies a field patch to one document.
func (m *Manager) Update(ctx context.Context, collection string, key Key, patch Document) error {
	normalized := make(Document, len(patch))
	for field, value := range patch {
		normalized[field] = normalizeScalar(value)
	}
	return m.backend.Update(ctx, collection, key, normalized)
}

// Delete removes one document.
func (m *Manager) Delete(ctx context.Context, collection string, key Key) error {
	return m.backend.Delete(ctx, collection, key)
}

// toDocument round-trips the value through JSON so both backends receive
// the same shape: RFC 3339 strings for times, float64 numbers.
func toDocument(value any) (Document, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to build document: %w", err)
	}
	return doc, nil
}

func normalizeFilter(filter Filter) Filter {
	if filter == nil {
		return nil
	}
	normalized := make(Filter, len(filter))
	for field, value := range filter {
		if r, ok := value.(Range); ok {
			normalized[field] = Range{GTE: normalizeScalar(r.GTE), LTE: normalizeScalar(r.LTE)}
			continue
		}
		normalized[field] = normalizeScalar(value)
	}
	return normalized
}

// normalizeScalar maps filter values into the stored domain. Times become
// second-precision RFC 3339 strings so range comparisons hold on both
// backends; record timestamps are truncated the same way at creation.
func normalizeScalar(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		return v.UTC().Truncate(time.Second).Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}
