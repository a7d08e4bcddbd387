package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"agrilog/internal/activity/models"
)

func TestAnalyze(t *testing.T) {
	analyzer := New()

	t.Run("tiny file stacks short and empty signals", func(t *testing.T) {
		// 2000 bytes ≈ 0.17s: too short (+30) and likely empty (+30).
		result := analyzer.Analyze(2000, 0)
		assert.Equal(t, 60, result.Score)
		assert.Equal(t, models.AudioQualityPoor, result.Quality)
		assert.Len(t, result.Reasons, 2)
	})

	t.Run("borderline duration scores fifteen", func(t *testing.T) {
		// 48000 bytes ≈ 4s: short but not too short, size fine.
		result := analyzer.Analyze(48000, 0)
		assert.Equal(t, 15, result.Score)
		assert.Equal(t, models.AudioQualityGood, result.Quality)
	})

	t.Run("healthy recording scores zero", func(t *testing.T) {
		// 120000 bytes ≈ 10s.
		result := analyzer.Analyze(120000, 0)
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, models.AudioQualityGood, result.Quality)
		assert.Empty(t, result.Reasons)
	})

	t.Run("small but plausible file scores ten", func(t *testing.T) {
		// 8000 bytes ≈ 0.67s: too short (+30) and very short recording (+10).
		result := analyzer.Analyze(8000, 0)
		assert.Equal(t, 40, result.Score)
		assert.Equal(t, models.AudioQualityPoor, result.Quality)
	})

	t.Run("low bitrate fires only with a duration hint", func(t *testing.T) {
		// 8000 bytes over 10s is 800 B/s: small file (+10) and low quality (+15).
		result := analyzer.Analyze(8000, 10*time.Second)
		assert.Equal(t, 25, result.Score)
		assert.Equal(t, models.AudioQualityFair, result.Quality)
	})

	t.Run("quality tiers follow the score", func(t *testing.T) {
		assert.Equal(t, models.AudioQualityGood, analyzer.Analyze(120000, 0).Quality)
		assert.Equal(t, models.AudioQualityFair, analyzer.Analyze(8000, 10*time.Second).Quality)
		assert.Equal(t, models.AudioQualityPoor, analyzer.Analyze(1000, 0).Quality)
	})
}

func TestEstimateDuration(t *testing.T) {
	analyzer := New()
	assert.Equal(t, time.Duration(0), analyzer.EstimateDuration(0))
	assert.Equal(t, time.Second, analyzer.EstimateDuration(12000))
	assert.Equal(t, 10*time.Second, analyzer.EstimateDuration(120000))
}
