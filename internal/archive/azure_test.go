package archive

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlobTimestamp(t *testing.T) {
	created := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	name := fmt.Sprintf("reports/daily/%s.json", created.Format(blobTimeLayout))

	parsed, ok := blobTimestamp(name)
	assert.True(t, ok)
	assert.Equal(t, created, parsed)
}

func TestBlobTimestamp_SkipsUnstampedNames(t *testing.T) {
	tests := []string{
		"reports/daily/readme.txt",
		"reports/daily/latest.json",
		"reports/2025-01-15.json",
		"",
	}

	for _, name := range tests {
		_, ok := blobTimestamp(name)
		assert.False(t, ok, name)
	}
}

func TestBlobTimestamp_RetentionCutoff(t *testing.T) {
	cutoff := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	old, ok := blobTimestamp("reports/weekly/2025-02-10-09-00-00.json")
	assert.True(t, ok)
	assert.True(t, old.Before(cutoff))

	recent, ok := blobTimestamp("reports/weekly/2025-07-21-09-00-00.json")
	assert.True(t, ok)
	assert.False(t, recent.Before(cutoff))
}
