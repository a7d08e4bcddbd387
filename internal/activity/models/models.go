package models

import (
	"time"

	id "agrilog/pkg/domain"
	dErrors "agrilog/pkg/domain-errors"
)

// Category is the fixed enumeration of activity types farmers report.
type Category string

const (
	CategoryOrganicInput      Category = "organic_input"
	CategoryWaterConservation Category = "water_conservation"
	CategorySoilHealth        Category = "soil_health"
	CategoryPestManagement    Category = "pest_management"
	CategoryCropRotation      Category = "crop_rotation"
	CategoryOther             Category = "other"
)

// IsValid checks if the category is one of the supported enum values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryOrganicInput, CategoryWaterConservation, CategorySoilHealth,
		CategoryPestManagement, CategoryCropRotation, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// ParseCategory creates a Category from a string, validating it.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "activity category cannot be empty")
	}
	c := Category(s)
	if !c.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid activity category %q", s)
	}
	return c, nil
}

// VerificationStatus records how a persisted activity fared against the
// fraud checks.
type VerificationStatus string

const (
	StatusVerified VerificationStatus = "verified"
	StatusFlagged  VerificationStatus = "flagged"
	StatusPending  VerificationStatus = "pending"
)

// IsValid checks if the status is one of the supported enum values.
func (s VerificationStatus) IsValid() bool {
	switch s {
	case StatusVerified, StatusFlagged, StatusPending:
		return true
	}
	return false
}

// Location is a claimed GPS position with its reported accuracy.
type Location struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters"`
}

// InBounds reports whether the coordinates are physically possible.
func (l Location) InBounds() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180
}

// Submission is the transient per-request input. Either Text or AudioRef must
// be present; the audio resource is deleted on every exit path.
type Submission struct {
	UserID      id.UserID
	Text        string
	AudioRef    string
	Location    *Location
	SubmittedAt time.Time
}

// ActivityRecord is the immutable history item the pipeline appends on a
// fully passed run and reads for its history-based checks.
type ActivityRecord struct {
	ID         id.ActivityID      `json:"id"`
	UserID     id.UserID          `json:"user_id"`
	Category   Category           `json:"category"`
	Crop       string             `json:"crop,omitempty"`
	Area       string             `json:"area,omitempty"`
	Location   *Location          `json:"location,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	Credits    int                `json:"credits"`
	Status     VerificationStatus `json:"verification_status"`
	FraudScore int                `json:"fraud_score"`
	Reasons    []string           `json:"reasons,omitempty"`
	Flagged    bool               `json:"flagged"`
}

// CheckResult is the outcome of a single fraud sub-check. Scores are already
// clamped to the check's bounded contribution; the aggregator sums them.
type CheckResult struct {
	Valid   bool     `json:"valid"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

// AudioQuality tiers an audio recording by its heuristic score.
type AudioQuality string

const (
	AudioQualityGood AudioQuality = "good"
	AudioQualityFair AudioQuality = "fair"
	AudioQualityPoor AudioQuality = "poor"
)

// AudioCheckResult is the outcome of the audio authenticity heuristics.
type AudioCheckResult struct {
	Score   int          `json:"score"`
	Quality AudioQuality `json:"quality"`
	Reasons []string     `json:"reasons,omitempty"`
}

// VerificationOutcome is the aggregated fraud verdict. Score is the clamped
// [0,100] sum of sub-scores; the pre-clamp sum decides hard rejection and is
// carried separately by the aggregator.
type VerificationOutcome struct {
	Passed  bool     `json:"passed"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
	Flagged bool     `json:"flagged"`
}

// ExtractedActivity is the structured record produced from free text by the
// extraction collaborator, or its best-effort fallback.
type ExtractedActivity struct {
	Category    Category `json:"category"`
	Crop        string   `json:"crop,omitempty"`
	Area        string   `json:"area,omitempty"`
	Description string   `json:"description"`
}
