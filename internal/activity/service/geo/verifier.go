// Package geo validates claimed coordinates and detects location reuse
// (possible GPS spoofing) against recent history.
package geo

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"agrilog/internal/activity/config"
	"agrilog/internal/activity/models"
	"agrilog/internal/activity/ports"
	id "agrilog/pkg/domain"
	dErrors "agrilog/pkg/domain-errors"
	"agrilog/pkg/requestcontext"
)

const earthRadiusMeters = 6371000

// Verifier scores a claimed location. A missing location is handled by the
// pipeline with a flat penalty, not here; Check expects a location.
type Verifier struct {
	history ports.HistoryStore
	cfg     config.GeoConfig
	logger  *slog.Logger
}

type Option func(*Verifier)

func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

func WithConfig(cfg config.GeoConfig) Option {
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
		cfg:     config.DefaultConfig().Geo,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Check validates coordinate ranges, accuracy, and recent reuse. Coordinates
// outside physical bounds return an invalid result carrying the maximum
// score; the caller rejects the location entirely.
func (v *Verifier) Check(ctx context.Context, userID id.UserID, loc models.Location) (*models.CheckResult, error) {
	if !loc.InBounds() {
		return &models.CheckResult{
			Valid:   false,
			Score:   v.cfg.InvalidScore,
			Reasons: []string{"coordinates outside physical bounds"},
		}, nil
	}

	result := &models.CheckResult{Valid: true}

	if loc.AccuracyMeters > v.cfg.MaxAccuracyMeters {
		result.Score += v.cfg.LowAccuracyScore
		result.Reasons = append(result.Reasons, "low location accuracy")
	}

	now := requestcontext.Now(ctx)
	recent, err := v.history.ListByUserSince(ctx, userID, now.Add(-v.cfg.ReuseWindow))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to read recent locations")
	}

	for _, record := range recent {
		if record.Location == nil {
			continue
		}
		d := Haversine(loc.Latitude, loc.Longitude, record.Location.Latitude, record.Location.Longitude)
		if d <= v.cfg.ReuseDistanceMeters {
			result.Score += v.cfg.ReuseScore
			result.Reasons = append(result.Reasons, "repeated location, possible spoofing")
			if v.logger != nil {
				v.logger.DebugContext(ctx, "location reuse detected",
					"user_id", userID,
					"distance_m", d,
				)
			}
			break
		}
	}

	return result, nil
}

// Haversine returns the great-circle distance in meters between two points
// on a mean-radius spherical Earth.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}
