package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"agrilog/internal/activity/models"
	dErrors "agrilog/pkg/domain-errors"
)

// HTTPExtractor calls an NLP endpoint that structures free-text reports.
// Callers treat any error as a signal to use the rule-based fallback;
// extraction is non-fatal by contract.
type HTTPExtractor struct {
	baseURL string
	client  *http.Client
}

// NewHTTPExtractor builds an extractor client for the given base URL.
func NewHTTPExtractor(baseURL string) *HTTPExtractor {
	return &HTTPExtractor{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

type extractRequest struct {
	Text string `json:"text"`
}

type extractResponse struct {
	Category    string `json:"category"`
	Crop        string `json:"crop"`
	Area        string `json:"area"`
	Description string `json:"description"`
}

// Extract returns the structured activity from the NLP service.
func (e *HTTPExtractor) Extract(ctx context.Context, text string) (*models.ExtractedActivity, error) {
	body, err := json.Marshal(extractRequest{Text: text})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode extract request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/extract", bytes.NewReader(body))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build extract request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "extraction call failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, dErrors.Wrap(fmt.Errorf("status %d", resp.StatusCode), dErrors.CodeDependency, "extraction call failed")
	}

	var decoded extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "decode extract response")
	}

	category, err := models.ParseCategory(decoded.Category)
	if err != nil {
		category = models.CategoryOther
	}
	return &models.ExtractedActivity{
		Category:    category,
		Crop:        decoded.Crop,
		Area:        decoded.Area,
		Description: decoded.Description,
	}, nil
}
