// Package extract turns free-text reports into structured activities with
// cheap keyword rules. It is the default implementation of ports.Extractor;
// deployments with an NLP service swap in the HTTP adapter. Extraction is
// best-effort by contract: on any failure the caller receives the safe
// fallback record, never an error that halts the pipeline.
package extract

import (
	"context"
	"regexp"
	"strings"

	"agrilog/internal/activity/models"
)

const maxDescription = 500

// Category cues, checked in declaration order; first hit wins.
var categoryCues = []struct {
	category models.Category
	cues     []string
}{
	{models.CategoryOrganicInput, []string{"compost", "manure", "vermicompost", "organic", "khad", "neem"}},
	{models.CategoryWaterConservation, []string{"drip", "irrigat", "water", "sinchai", "trench", "bund", "moisture"}},
	{models.CategorySoilHealth, []string{"soil", "mulch", "cover crop", "green manure"}},
	{models.CategoryPestManagement, []string{"pest", "spray", "insect", "trap", "pesticide"}},
	{models.CategoryCropRotation, []string{"rotation", "rotated", "fallow"}},
}

var knownCrops = []string{
	"rice", "paddy", "wheat", "cotton", "maize", "sugarcane", "millet",
	"soybean", "mustard", "groundnut", "pulses",
}

var areaPattern = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:acres?|hectares?|bighas?|guntha|sq\.?\s*m)`)

// Extractor is the rule-based ports.Extractor.
type Extractor struct{}

// New constructs the rule-based extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract derives {category, crop, area, description} from text. It never
// returns an error; unrecognized text lands in the fallback shape.
func (e *Extractor) Extract(_ context.Context, text string) (*models.ExtractedActivity, error) {
	cleaned := strings.Join(strings.Fields(text), " ")
	lower := strings.ToLower(cleaned)

	result := Fallback(cleaned)

	for _, group := range categoryCues {
		if containsAny(lower, group.cues) {
			result.Category = group.category
			break
		}
	}

	for _, crop := range knownCrops {
		if strings.Contains(lower, crop) {
			result.Crop = crop
			break
		}
	}

	if match := areaPattern.FindString(cleaned); match != "" {
		result.Area = strings.TrimSpace(match)
	}

	return result, nil
}

// Fallback is the best-effort record used when extraction cannot do better:
// category other, no crop or area, truncated description.
func Fallback(text string) *models.ExtractedActivity {
	cleaned := strings.Join(strings.Fields(text), " ")
	if len(cleaned) > maxDescription {
		cleaned = cleaned[:maxDescription]
	}
	return &models.ExtractedActivity{
		Category:    models.CategoryOther,
		Description: cleaned,
	}
}

func containsAny(lower string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}
