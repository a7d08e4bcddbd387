package handler

import (
	"time"

	"agrilog/internal/activity/models"
	"agrilog/internal/activity/service/pipeline"
)

// SubmitActivityResponse is the HTTP response for POST /activities.
type SubmitActivityResponse struct {
	ID           string               `json:"id"`
	Status       string               `json:"status"`
	Credits      int                  `json:"credits"`
	QualityScore int                  `json:"quality_score"`
	Verification VerificationResponse `json:"verification"`
	Audio        *AudioReviewResponse `json:"audio,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

// VerificationResponse is the fraud verdict portion of the response.
type VerificationResponse struct {
	Passed  bool     `json:"passed"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
	Flagged bool     `json:"flagged"`
}

// AudioReviewResponse summarizes the audio heuristics for the caller.
type AudioReviewResponse struct {
	Quality string   `json:"quality"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

// FromResult converts a pipeline result to an HTTP response.
func FromResult(result *pipeline.Result) *SubmitActivityResponse {
	resp := &SubmitActivityResponse{
		ID:           result.Record.ID.String(),
		Status:       string(result.Record.Status),
		Credits:      result.Record.Credits,
		QualityScore: result.QualityScore,
		Verification: VerificationResponse{
			Passed:  result.Verification.Passed,
			Score:   result.Verification.Score,
			Reasons: result.Verification.Reasons,
			Flagged: result.Verification.Flagged,
		},
		CreatedAt: result.Record.CreatedAt,
	}
	if result.Audio != nil {
		resp.Audio = &AudioReviewResponse{
			Quality: string(result.Audio.Quality),
			Score:   result.Audio.Score,
			Reasons: result.Audio.Reasons,
		}
	}
	return resp
}

// ActivityResponse is one history item in GET /activities.
type ActivityResponse struct {
	ID         string           `json:"id"`
	Category   string           `json:"category"`
	Crop       string           `json:"crop,omitempty"`
	Area       string           `json:"area,omitempty"`
	Credits    int              `json:"credits"`
	Status     string           `json:"status"`
	FraudScore int              `json:"fraud_score"`
	Location   *LocationPayload `json:"location,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ListActivitiesResponse is the HTTP response for GET /activities.
type ListActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
}

// FromRecords converts history records to an HTTP response.
func FromRecords(records []*models.ActivityRecord) *ListActivitiesResponse {
	resp := &ListActivitiesResponse{Activities: make([]ActivityResponse, 0, len(records))}
	for _, record := range records {
		item := ActivityResponse{
			ID:         record.ID.String(),
			Category:   record.Category.String(),
			Crop:       record.Crop,
			Area:       record.Area,
			Credits:    record.Credits,
			Status:     string(record.Status),
			FraudScore: record.FraudScore,
			CreatedAt:  record.CreatedAt,
		}
		if record.Location != nil {
			item.Location = &LocationPayload{
				Latitude:       record.Location.Latitude,
				Longitude:      record.Location.Longitude,
				AccuracyMeters: record.Location.AccuracyMeters,
			}
		}
		resp.Activities = append(resp.Activities, item)
	}
	return resp
}
