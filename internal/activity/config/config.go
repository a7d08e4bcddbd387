// Package config holds the tuning tables for the verification and credit
// pipeline. The rules themselves live in the service packages; everything a
// reviewer might want to tune is a value here.
package config

import (
	"time"

	"agrilog/internal/activity/models"
)

// ContentConfig tunes the content quality scorer.
type ContentConfig struct {
	MinLength         int // below this the score is 0
	ValidMinScore     int // isValidContent floor
	StrongScore       int // at or above, keyword presence is not required
	KeywordPoints     int
	KeywordCap        int
	ActionPoints      int
	RepetitionPenalty int
	FillerPenalty     int
}

// AudioConfig tunes the audio authenticity heuristics. Duration is estimated
// from file size with BytesPerSecond; this is a documented approximation, not
// a decode.
type AudioConfig struct {
	BytesPerSecond    int64
	MinDuration       time.Duration
	ShortDuration     time.Duration
	MinSizeBytes      int64
	ShortSizeBytes    int64
	MinBytesPerSecond int64
	ShortScore        int
	BorderlineScore   int
	EmptyScore        int
	SmallScore        int
	LowQualityScore   int
	GoodBelow         int
	FairBelow         int
}

// GeoConfig tunes location validation and spoofing detection.
type GeoConfig struct {
	MaxAccuracyMeters   float64
	LowAccuracyScore    int
	ReuseWindow         time.Duration
	ReuseDistanceMeters float64
	ReuseScore          int
	InvalidScore        int
}

// FrequencyConfig tunes per-user rate heuristics.
type FrequencyConfig struct {
	DuplicateWindow   time.Duration
	DuplicateScore    int
	DailyWindow       time.Duration
	DailyLimit        int
	DailyLimitScore   int
	HighActivityCount int
	HighActivityScore int
	BurstWindow       time.Duration
	BurstCount        int
	BurstScore        int
	ValidBelow        int
}

// PatternConfig tunes behavioral anomaly detection against user history.
type PatternConfig struct {
	HistoryLimit       int
	MinHistoryForRatio int
	RareCategoryShare  float64
	RareCategoryScore  int
	MinHistoryForCrop  int
	NewCropScore       int
}

// FraudConfig tunes aggregation and gating thresholds.
type FraudConfig struct {
	PassBelow            int
	FlagAt               int
	FlagReasonCount      int
	RejectAt             int
	MissingLocationScore int
	AudioRejectScore     int
	AudioWarnScore       int
}

// CreditConfig holds the award tables. Crop multipliers are matched by
// case-insensitive substring.
type CreditConfig struct {
	BaseCredits       map[models.Category]int
	CropMultipliers   map[string]float64
	AreaPerUnit       float64
	AreaMultiplierCap float64
	QualityGate       int // quality below this always awards 0
	OtherQualityGate  int // "other" category quality floor
	MinDescription    int
	FloorCredits      int
	FloorQualityMin   int
}

// Config aggregates all pipeline tuning tables.
type Config struct {
	Content   ContentConfig
	Audio     AudioConfig
	Geo       GeoConfig
	Frequency FrequencyConfig
	Pattern   PatternConfig
	Fraud     FraudConfig
	Credit    CreditConfig
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			MinLength:         15,
			ValidMinScore:     30,
			StrongScore:       70,
			KeywordPoints:     5,
			KeywordCap:        40,
			ActionPoints:      20,
			RepetitionPenalty: 30,
			FillerPenalty:     50,
		},
		Audio: AudioConfig{
			BytesPerSecond:    12000,
			MinDuration:       3 * time.Second,
			ShortDuration:     5 * time.Second,
			MinSizeBytes:      5000,
			ShortSizeBytes:    10000,
			MinBytesPerSecond: 1000,
			ShortScore:        30,
			BorderlineScore:   15,
			EmptyScore:        30,
			SmallScore:        10,
			LowQualityScore:   15,
			GoodBelow:         20,
			FairBelow:         40,
		},
		Geo: GeoConfig{
			MaxAccuracyMeters:   50,
			LowAccuracyScore:    20,
			ReuseWindow:         5 * time.Minute,
			ReuseDistanceMeters: 10,
			ReuseScore:          15,
			InvalidScore:        100,
		},
		Frequency: FrequencyConfig{
			DuplicateWindow:   time.Hour,
			DuplicateScore:    30,
			DailyWindow:       24 * time.Hour,
			DailyLimit:        10,
			DailyLimitScore:   25,
			HighActivityCount: 8,
			HighActivityScore: 10,
			BurstWindow:       10 * time.Minute,
			BurstCount:        5,
			BurstScore:        40,
			ValidBelow:        50,
		},
		Pattern: PatternConfig{
			HistoryLimit:       50,
			MinHistoryForRatio: 10,
			RareCategoryShare:  0.05,
			RareCategoryScore:  15,
			MinHistoryForCrop:  5,
			NewCropScore:       10,
		},
		Fraud: FraudConfig{
			PassBelow:            50,
			FlagAt:               30,
			FlagReasonCount:      3,
			RejectAt:             70,
			MissingLocationScore: 10,
			AudioRejectScore:     60,
			AudioWarnScore:       30,
		},
		Credit: CreditConfig{
			BaseCredits: map[models.Category]int{
				models.CategoryOrganicInput:      50,
				models.CategoryWaterConservation: 55,
				models.CategorySoilHealth:        60,
				models.CategoryPestManagement:    45,
				models.CategoryCropRotation:      40,
				models.CategoryOther:             30,
			},
			CropMultipliers: map[string]float64{
				"cotton":    1.3,
				"rice":      1.2,
				"wheat":     1.1,
				"sugarcane": 1.2,
				"maize":     1.1,
			},
			AreaPerUnit:       0.1,
			AreaMultiplierCap: 2.0,
			QualityGate:       30,
			OtherQualityGate:  50,
			MinDescription:    15,
			FloorCredits:      5,
			FloorQualityMin:   50,
		},
	}
}
