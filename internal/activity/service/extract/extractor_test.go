package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrilog/internal/activity/models"
)

func TestExtract(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	t.Run("typical report extracts all fields", func(t *testing.T) {
		got, err := extractor.Extract(ctx, "Applied organic compost to 2 acres of rice fields")
		require.NoError(t, err)
		assert.Equal(t, models.CategoryOrganicInput, got.Category)
		assert.Equal(t, "rice", got.Crop)
		assert.Equal(t, "2 acres", got.Area)
		assert.Equal(t, "Applied organic compost to 2 acres of rice fields", got.Description)
	})

	t.Run("first category cue wins", func(t *testing.T) {
		// Mentions both compost and irrigation; organic input is listed first.
		got, err := extractor.Extract(ctx, "mixed compost into the drip irrigation beds")
		require.NoError(t, err)
		assert.Equal(t, models.CategoryOrganicInput, got.Category)
	})

	t.Run("unrecognized text falls back to other", func(t *testing.T) {
		got, err := extractor.Extract(ctx, "did some work around the farm today")
		require.NoError(t, err)
		assert.Equal(t, models.CategoryOther, got.Category)
		assert.Empty(t, got.Crop)
		assert.Empty(t, got.Area)
	})

	t.Run("decimal areas and unit variants parse", func(t *testing.T) {
		got, err := extractor.Extract(ctx, "dug trenches across 1.5 hectares near the paddy")
		require.NoError(t, err)
		assert.Equal(t, "1.5 hectares", got.Area)
		assert.Equal(t, "paddy", got.Crop)
	})

	t.Run("whitespace is normalized", func(t *testing.T) {
		got, err := extractor.Extract(ctx, "  sprayed   neem\n\noil  ")
		require.NoError(t, err)
		assert.Equal(t, "sprayed neem oil", got.Description)
	})
}

func TestFallback(t *testing.T) {
	long := strings.Repeat("x", 600)
	got := Fallback(long)
	assert.Equal(t, models.CategoryOther, got.Category)
	assert.Len(t, got.Description, 500)
}
