// Package pattern flags statistically unusual activity types or novel crops
// relative to a user's own history. Users with no history are exempt.
package pattern

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"agrilog/internal/activity/config"
	"agrilog/internal/activity/models"
	"agrilog/internal/activity/ports"
	id "agrilog/pkg/domain"
	dErrors "agrilog/pkg/domain-errors"
)

// Verifier compares a submission against up to the user's most recent
// records.
type Verifier struct {
	history ports.HistoryStore
	cfg     config.PatternConfig
	logger  *slog.Logger
}

type Option func(*Verifier)

func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

func WithConfig(cfg config.PatternConfig) Option {
	return func(v *Verifier) {
		v.cfg = cfg
	}
}

func New(history ports.HistoryStore, opts ...Option) (*Verifier, error) {
	if history == nil {
		return nil, fmt.Errorf("history store is required")
	}
	v := &Verifier{
		history: history,
		cfg:     config.DefaultConfig().Pattern,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Check scores how unusual this category and crop are for the user.
func (v *Verifier) Check(ctx context.Context, userID id.UserID, category models.Category, crop string) (*models.CheckResult, error) {
	records, err := v.history.ListRecent(ctx, userID, v.cfg.HistoryLimit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to read activity history")
	}

	result := &models.CheckResult{Valid: true}

	// Cold start: nothing to compare against.
	if len(records) == 0 {
		return result, nil
	}

	total := len(records)
	categoryCount := 0
	cropSeen := false
	cropLower := strings.ToLower(strings.TrimSpace(crop))
	for _, record := range records {
		if record.Category == category {
			categoryCount++
		}
		if cropLower != "" && strings.ToLower(record.Crop) == cropLower {
			cropSeen = true
		}
	}

	if total > v.cfg.MinHistoryForRatio {
		share := float64(categoryCount) / float64(total)
		if share < v.cfg.RareCategoryShare {
			result.Score += v.cfg.RareCategoryScore
			result.Reasons = append(result.Reasons, "unusual activity type for user")
		}
	}

	if cropLower != "" && total > v.cfg.MinHistoryForCrop && !cropSeen {
		result.Score += v.cfg.NewCropScore
		result.Reasons = append(result.Reasons, "new crop not previously seen")
	}

	return result, nil
}
