// Package audio estimates whether an audio file is a plausible live
// recording from its size alone. Duration is derived from a fixed
// bytes-per-second constant for the expected codec; there is deliberately no
// decoding here. The analyzer never rejects by itself - its score feeds the
// aggregator, and the pipeline applies its own pre-transcription cutoff.
package audio

import (
	"time"

	"agrilog/internal/activity/config"
	"agrilog/internal/activity/models"
)

// Analyzer scores audio plausibility. Rules accumulate; they are not
// mutually exclusive.
type Analyzer struct {
	cfg config.AudioConfig
}

type Option func(*Analyzer)

func WithConfig(cfg config.AudioConfig) Option {
	return func(a *Analyzer) {
		a.cfg = cfg
	}
}

// New constructs an analyzer with default thresholds.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{cfg: config.DefaultConfig().Audio}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores a recording of sizeBytes. knownDuration is an optional hint
// from client metadata; when zero or negative the duration is estimated from
// size, which also makes the bytes-per-second rule a no-op (the ratio is then
// the codec constant by construction).
func (a *Analyzer) Analyze(sizeBytes int64, knownDuration time.Duration) *models.AudioCheckResult {
	result := &models.AudioCheckResult{}

	duration := knownDuration
	if duration <= 0 {
		duration = a.EstimateDuration(sizeBytes)
	}
	switch {
	case duration < a.cfg.MinDuration:
		result.Score += a.cfg.ShortScore
		result.Reasons = append(result.Reasons, "audio too short")
	case duration < a.cfg.ShortDuration:
		result.Score += a.cfg.BorderlineScore
		result.Reasons = append(result.Reasons, "audio short, recommended 5s or more")
	}

	switch {
	case sizeBytes < a.cfg.MinSizeBytes:
		result.Score += a.cfg.EmptyScore
		result.Reasons = append(result.Reasons, "file likely empty or fake")
	case sizeBytes < a.cfg.ShortSizeBytes:
		result.Score += a.cfg.SmallScore
		result.Reasons = append(result.Reasons, "very short recording")
	}

	if seconds := duration.Seconds(); seconds > 0 && float64(sizeBytes)/seconds < float64(a.cfg.MinBytesPerSecond) {
		result.Score += a.cfg.LowQualityScore
		result.Reasons = append(result.Reasons, "low quality audio")
	}

	switch {
	case result.Score < a.cfg.GoodBelow:
		result.Quality = models.AudioQualityGood
	case result.Score < a.cfg.FairBelow:
		result.Quality = models.AudioQualityFair
	default:
		result.Quality = models.AudioQualityPoor
	}

	return result
}

// EstimateDuration converts file size to an estimated duration using the
// expected codec bitrate.
func (a *Analyzer) EstimateDuration(sizeBytes int64) time.Duration {
	if sizeBytes <= 0 {
		return 0
	}
	return time.Duration(float64(sizeBytes) / float64(a.cfg.BytesPerSecond) * float64(time.Second))
}
