package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// MemoryBackend keeps collections in process memory. It backs tests and
// local runs without a database; production selection is cosmos or mongodb.
type MemoryBackend struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{collections: make(map[string][]Document)}
}

func (b *MemoryBackend) Name() string {
	return "memory"
}

// Bootstrap creates the declared collections. Safe to call repeatedly.
func (b *MemoryBackend) Bootstrap(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, schema := range schemas {
		if _, ok := b.collections[schema.name]; !ok {
			b.collections[schema.name] = nil
		}
	}
	return nil
}

// CollectionCount reports how many collections exist. Test support.
func (b *MemoryBackend) CollectionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.collections)
}

func (b *MemoryBackend) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	if _, ok := schemaFor(collection); !ok {
		return "", fmt.Errorf("unknown collection %s", collection)
	}

	stored := make(Document, len(doc))
	for field, value := range doc {
		stored[field] = value
	}

	b.mu.Lock()
	b.collections[collection] = append(b.collections[collection], stored)
	b.mu.Unlock()

	id, _ := doc["id"].(string)
	return id, nil
}

func (b *MemoryBackend) Query(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	if _, ok := schemaFor(collection); !ok {
		return nil, fmt.Errorf("unknown collection %s", collection)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var docs []Document
	for _, doc := range b.collections[collection] {
		if !matchesFilter(doc, filter) {
			continue
		}
		copied := make(Document, len(doc))
		for field, value := range doc {
			copied[field] = value
		}
		docs = append(docs, copied)
		if limit > 0 && len(docs) == limit {
			break
		}
	}
	return docs, nil
}

func (b *MemoryBackend) Update(ctx context.Context, collection string, key Key, patch Document) error {
	if _, ok := schemaFor(collection); !ok {
		return fmt.Errorf("unknown collection %s", collection)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, doc := range b.collections[collection] {
		if id, _ := doc["id"].(string); id == key.ID {
			for field, value := range patch {
				doc[field] = value
			}
			return nil
		}
	}
	return fmt.Errorf("document %s/%s not found", collection, key.ID)
}

func (b *MemoryBackend) Delete(ctx context.Context, collection string, key Key) error {
	if _, ok := schemaFor(collection); !ok {
		return fmt.Errorf("unknown collection %s", collection)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	docs := b.collections[collection]
	for i, doc := range docs {
		if id, _ := doc["id"].(string); id == key.ID {
			b.collections[collection] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return nil
}

func matchesFilter(doc Document, filter Filter) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok {
			return false
		}
		switch v := want.(type) {
		case Range:
			if v.GTE != nil && compareValues(got, v.GTE) < 0 {
				return false
			}
			if v.LTE != nil && compareValues(got, v.LTE) > 0 {
				return false
			}
		default:
			if compareValues(got, v) != 0 {
				return false
			}
		}
	}
	return true
}

// compareValues orders two scalars numerically when both parse as numbers,
// lexically otherwise.
func compareValues(a, b any) int {
	as := fmt.Sprintf("%v", a)
	bs := fmt.Sprintf("%v", b)

	af, aErr := strconv.ParseFloat(as, 64)
	bf, bErr := strconv.ParseFloat(bs, 64)
	if aErr == nil && bErr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(as, bs)
}
