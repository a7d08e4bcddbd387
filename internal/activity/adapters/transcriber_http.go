// Package adapters holds HTTP clients for the external AI collaborators.
// Both are thin: decode or fail, no retries - the pipeline owns the
// degradation rules.
package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	dErrors "agrilog/pkg/domain-errors"
)

const defaultTimeout = 30 * time.Second

// HTTPTranscriber calls a speech-to-text endpoint with the stored audio ref.
// The service shares the blob store, so the ref is enough.
type HTTPTranscriber struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTranscriber builds a transcriber client for the given base URL.
func NewHTTPTranscriber(baseURL string) *HTTPTranscriber {
	return &HTTPTranscriber{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

type transcribeRequest struct {
	AudioRef string `json:"audio_ref"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}

// Transcribe returns the transcribed text, or a dependency error the
// pipeline maps to its fallback rule.
func (t *HTTPTranscriber) Transcribe(ctx context.Context, ref string) (string, error) {
	body, err := json.Marshal(transcribeRequest{AudioRef: ref})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "encode transcribe request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v1/transcribe", bytes.NewReader(body))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "build transcribe request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeDependency, "transcription call failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", dErrors.Wrap(fmt.Errorf("status %d", resp.StatusCode), dErrors.CodeDependency, "transcription call failed")
	}

	var decoded transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeDependency, "decode transcribe response")
	}
	return decoded.Text, nil
}
