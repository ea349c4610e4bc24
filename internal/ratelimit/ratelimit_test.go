package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinBurst(t *testing.T) {
	krl := New(1, 3)
	defer krl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, krl.Allow("alice@example.com"), "request %d should pass", i)
	}
	assert.False(t, krl.Allow("alice@example.com"), "burst exhausted")
}

func TestKeysAreIndependent(t *testing.T) {
	krl := New(1, 1)
	defer krl.Stop()

	assert.True(t, krl.Allow("alice@example.com"))
	assert.False(t, krl.Allow("alice@example.com"))
	// A different key has its own bucket.
	assert.True(t, krl.Allow("bob@example.com"))
}

func TestStopIsIdempotent(t *testing.T) {
	krl := New(1, 1)
	krl.Stop()
	krl.Stop()
}
