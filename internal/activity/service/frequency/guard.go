// Package frequency rate-limits submissions per user: duplicate-type
// cooldown, daily cap, and burst detection. Scores are informational; the
// aggregator, not this package, makes the accept/reject call.
package frequency

import (
	"context"
	"fmt"
	"log/slog"

	"agrilog/internal/activity/config"
	"agrilog/internal/activity/models"
	"agrilog/internal/activity/ports"
	id "agrilog/pkg/domain"
	dErrors "agrilog/pkg/domain-errors"
	"agrilog/pkg/requestcontext"
)

// Guard checks submission frequency against the history store. Reads are a
// point-in-time snapshot; near-simultaneous submissions may both pass.
type Guard struct {
	history ports.HistoryStore
	cfg     config.FrequencyConfig
	logger  *slog.Logger
}

type Option func(*Guard)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

func WithConfig(cfg config.FrequencyConfig) Option {
	return func(g *Guard) {
		g.cfg = cfg
	}
}

func New(history ports.HistoryStore, opts ...Option) (*Guard, error) {
	if history == nil {
		return nil, fmt.Errorf("history store is required")
	}
	g := &Guard{
		history: history,
		cfg:     config.DefaultConfig().Frequency,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Check scores the user's submission rate for the given category.
func (g *Guard) Check(ctx context.Context, userID id.UserID, category models.Category) (*models.CheckResult, error) {
	now := requestcontext.Now(ctx)
	result := &models.CheckResult{}

	// One read covers the daily window; the narrower windows filter from it.
	daily, err := g.history.ListByUserSince(ctx, userID, now.Add(-g.cfg.DailyWindow))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to read submission history")
	}

	duplicateCutoff := now.Add(-g.cfg.DuplicateWindow)
	burstCutoff := now.Add(-g.cfg.BurstWindow)

	burstCount := 0
	duplicate := false
	for _, record := range daily {
		if record.Category == category && !record.CreatedAt.Before(duplicateCutoff) {
			duplicate = true
		}
		if !record.CreatedAt.Before(burstCutoff) {
			burstCount++
		}
	}

	if duplicate {
		result.Score += g.cfg.DuplicateScore
		result.Reasons = append(result.Reasons, "duplicate activity type within 1 hour")
	}

	switch {
	case len(daily) >= g.cfg.DailyLimit:
		result.Score += g.cfg.DailyLimitScore
		result.Reasons = append(result.Reasons, "daily limit reached")
	case len(daily) >= g.cfg.HighActivityCount:
		result.Score += g.cfg.HighActivityScore
		result.Reasons = append(result.Reasons, "high activity count")
	}

	if burstCount >= g.cfg.BurstCount {
		result.Score += g.cfg.BurstScore
		result.Reasons = append(result.Reasons, "rapid-fire submissions")
		if g.logger != nil {
			g.logger.WarnContext(ctx, "submission burst detected",
				"user_id", userID,
				"count", burstCount,
			)
		}
	}

	result.Valid = result.Score < g.cfg.ValidBelow
	return result, nil
}
