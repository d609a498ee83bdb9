package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_HasPrefix(t *testing.T) {
	got, err := Generate("ext")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "ext-"))
	// NanoID default length is 21 plus "ext-" prefix.
	assert.Len(t, got, 25)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		got, err := Generate("ext")
		require.NoError(t, err)
		assert.False(t, seen[got], "duplicate id %s", got)
		seen[got] = true
	}
}

func TestMustGenerate_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = MustGenerate("sess")
	})
}
