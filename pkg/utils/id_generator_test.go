package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRequestID(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		id := GenerateRequestID()
		assert.Positive(t, id)
		seen[id] = true
	}
	// Millisecond timestamp plus random suffix; a tight loop should still
	// produce mostly distinct IDs.
	assert.Greater(t, len(seen), 50)
}

func TestGenerateCorrelationID(t *testing.T) {
	id := GenerateCorrelationID()
	assert.True(t, IsValidUUID(id))
	assert.NotEqual(t, id, GenerateCorrelationID())
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("c9bf9e57-1685-4c89-bafb-ff5af830be8a"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
}
