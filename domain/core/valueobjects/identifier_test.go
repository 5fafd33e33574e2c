package valueobjects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIDCarriesPrefix(t *testing.T) {
	id := NewID("node")
	assert.True(t, strings.HasPrefix(id, "node-"))
}

func TestNewIDUniqueUnderBurst(t *testing.T) {
	// Simulates click handlers firing in sequence within one millisecond.
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		id := NewID("block")
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
