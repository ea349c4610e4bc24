package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for range count {
		id, err := Generate("bp")
		require.NoError(t, err)
		assert.False(t, ids[id], "duplicate ID generated: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Prefix(t *testing.T) {
	tests := []string{"plant", "bp", "copy", "usr", "sess"}

	for _, prefix := range tests {
		id, err := Generate(prefix)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(id, prefix+"-"), "ID %s should start with %s-", id, prefix)
	}
}

func TestMustGenerate(t *testing.T) {
	id := MustGenerate("plant")
	assert.True(t, strings.HasPrefix(id, "plant-"))
	assert.Greater(t, len(id), len("plant-"))
}
