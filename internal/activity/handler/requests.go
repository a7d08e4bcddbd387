package handler

import (
	"encoding/base64"
	"strings"
	"time"

	"agrilog/internal/activity/models"
	id "agrilog/pkg/domain"
	dErrors "agrilog/pkg/domain-errors"
)

const maxAudioBytes = 10 << 20 // 10 MiB decoded

// SubmitActivityRequest is the HTTP request body for POST /activities.
type SubmitActivityRequest struct {
	UserID      string           `json:"user_id"`
	Text        string           `json:"text,omitempty"`
	AudioBase64 string           `json:"audio_base64,omitempty"`
	Location    *LocationPayload `json:"location,omitempty"`
	RecordedAt  *time.Time       `json:"recorded_at,omitempty"`

	// Parsed values (populated by Validate)
	parsedUserID id.UserID
	parsedAudio  []byte
}

// LocationPayload is the claimed GPS position in the request body.
type LocationPayload struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters"`
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SubmitActivityRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.UserID = strings.TrimSpace(r.UserID)
	if r.UserID == "" {
		return dErrors.New(dErrors.CodeValidation, "user_id is required")
	}
	userID, err := id.ParseUserID(r.UserID)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "user_id must be a valid UUID")
	}
	r.parsedUserID = userID

	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" && r.AudioBase64 == "" {
		return dErrors.New(dErrors.CodeValidation, "either text or audio_base64 is required")
	}

	if r.AudioBase64 != "" {
		audio, err := base64.StdEncoding.DecodeString(r.AudioBase64)
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "audio_base64 is not valid base64")
		}
		if len(audio) > maxAudioBytes {
			return dErrors.New(dErrors.CodeValidation, "audio exceeds the maximum upload size")
		}
		r.parsedAudio = audio
	}

	return nil
}

// ParsedUserID returns the validated user ID.
func (r *SubmitActivityRequest) ParsedUserID() id.UserID {
	return r.parsedUserID
}

// ParsedAudio returns the decoded audio bytes, nil when none were sent.
func (r *SubmitActivityRequest) ParsedAudio() []byte {
	return r.parsedAudio
}

// ParsedLocation returns the location as a domain value, nil when omitted.
func (r *SubmitActivityRequest) ParsedLocation() *models.Location {
	if r.Location == nil {
		return nil
	}
	return &models.Location{
		Latitude:       r.Location.Latitude,
		Longitude:      r.Location.Longitude,
		AccuracyMeters: r.Location.AccuracyMeters,
	}
}
