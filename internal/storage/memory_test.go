package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesFilter(t *testing.T) {
	doc := Document{
		"platform":   "twitter",
		"likes":      100.0,
		"created_at": "2025-01-15T12:00:00Z",
	}

	tests := []struct {
		name     string
		filter   Filter
		expected bool
	}{
		{name: "Nil filter matches", filter: nil, expected: true},
		{name: "Equality match", filter: Filter{"platform": "twitter"}, expected: true},
		{name: "Equality mismatch", filter: Filter{"platform": "youtube"}, expected: false},
		{name: "Missing field", filter: Filter{"author_id": "a1"}, expected: false},
		{
			name:     "Range inside",
			filter:   Filter{"created_at": Range{GTE: "2025-01-15T00:00:00Z", LTE: "2025-01-16T00:00:00Z"}},
			expected: true,
		},
		{
			name:     "Range before lower bound",
			filter:   Filter{"created_at": Range{GTE: "2025-01-15T13:00:00Z"}},
			expected: false,
		},
		{
			name:     "Range after upper bound",
			filter:   Filter{"created_at": Range{LTE: "2025-01-15T11:00:00Z"}},
			expected: false,
		},
		{
			name:     "Numeric range",
			filter:   Filter{"likes": Range{GTE: 50, LTE: 150}},
			expected: true,
		},
		{
			name:     "Combined clauses all must hold",
			filter:   Filter{"platform": "twitter", "likes": Range{GTE: 200}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, matchesFilter(doc, tt.filter))
		})
	}
}

func TestCompareValues(t *testing.T) {
	// Numbers compare numerically even when one side is a string.
	assert.Equal(t, 0, compareValues(100.0, 100))
	assert.Equal(t, -1, compareValues(9.0, 10))
	assert.Equal(t, 1, compareValues("10", 9))

	// Non-numeric values compare lexically, which orders RFC 3339 strings
	// chronologically.
	assert.Equal(t, -1, compareValues("2025-01-15T00:00:00Z", "2025-01-16T00:00:00Z"))
	assert.Equal(t, 0, compareValues("twitter", "twitter"))
	assert.Equal(t, 1, compareValues("youtube", "twitter"))
}

func TestMemoryBackend_InsertCopiesDocument(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	assert.NoError(t, backend.Bootstrap(ctx))

	doc := Document{"id": "p1", "platform": "twitter"}
	_, err := backend.Insert(ctx, CollectionPosts, doc)
	assert.NoError(t, err)

	// Mutating the caller's map after insert must not leak into storage.
	doc["platform"] = "changed"

	stored, err := backend.Query(ctx, CollectionPosts, Filter{"id": "p1"}, 0)
	assert.NoError(t, err)
	if assert.Len(t, stored, 1) {
		assert.Equal(t, "twitter", stored[0]["platform"])
	}
}
