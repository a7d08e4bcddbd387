// Package credit computes the award for a verified activity. The award is
// deterministic in the activity attributes and the content quality score; it
// never reads the fraud score - the pipeline gates on that separately. A
// result of exactly zero is itself a rejection signal for the pipeline.
package credit

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"agrilog/internal/activity/config"
	"agrilog/internal/activity/models"
)

var areaNumberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Calculator applies the award tables.
type Calculator struct {
	cfg       config.CreditConfig
	cropNames []string
}

type Option func(*Calculator)

func WithConfig(cfg config.CreditConfig) Option {
	return func(c *Calculator) {
		c.cfg = cfg
	}
}

// New constructs a calculator with the default tables.
func New(opts ...Option) *Calculator {
	c := &Calculator{cfg: config.DefaultConfig().Credit}
	for _, opt := range opts {
		opt(c)
	}

	// The multiplier table is scanned in sorted order so a crop matching
	// several entries always resolves to the same one.
	c.cropNames = make([]string, 0, len(c.cfg.CropMultipliers))
	for name := range c.cfg.CropMultipliers {
		c.cropNames = append(c.cropNames, name)
	}
	sort.Strings(c.cropNames)
	return c
}

// Input carries the attributes the award derives from. QualityScore is nil
// when no content score is available (pure structured submissions).
type Input struct {
	Category     models.Category
	Crop         string
	Area         string
	Description  string
	QualityScore *int
}

// Calculate returns the non-negative credit award, zero meaning the
// submission does not qualify.
func (c *Calculator) Calculate(in Input) int {
	if in.QualityScore != nil && *in.QualityScore < c.cfg.QualityGate {
		return 0
	}
	if in.Category == models.CategoryOther {
		if in.QualityScore == nil && len(strings.TrimSpace(in.Description)) < c.cfg.MinDescription {
			return 0
		}
		if in.QualityScore != nil && *in.QualityScore < c.cfg.OtherQualityGate {
			return 0
		}
	}

	base, ok := c.cfg.BaseCredits[in.Category]
	if !ok {
		base = c.cfg.BaseCredits[models.CategoryOther]
	}

	total := float64(base)
	total *= c.cropMultiplier(in.Crop)
	total *= c.areaMultiplier(in.Area)
	if in.QualityScore != nil {
		// Linearly maps [0,100] onto [0.5,1.5].
		total *= 0.5 + float64(*in.QualityScore)/100
	}

	credits := int(math.Round(total))
	if credits > 0 && (in.QualityScore == nil || *in.QualityScore >= c.cfg.FloorQualityMin) {
		credits = max(credits, c.cfg.FloorCredits)
	}
	return max(credits, 0)
}

// minCropFragment bounds the reverse containment match so one or two stray
// characters cannot match half the table.
const minCropFragment = 3

// cropMultiplier matches the crop name case-insensitively against the table,
// first match in sorted table order wins. Forward containment covers variants
// like "basmati rice"; reverse containment covers truncated inputs like
// "sugar", but only for fragments of at least minCropFragment characters.
func (c *Calculator) cropMultiplier(crop string) float64 {
	lower := strings.ToLower(strings.TrimSpace(crop))
	if lower == "" {
		return 1.0
	}
	for _, name := range c.cropNames {
		if strings.Contains(lower, name) || (len(lower) >= minCropFragment && strings.Contains(name, lower)) {
			return c.cfg.CropMultipliers[name]
		}
	}
	return 1.0
}

// areaMultiplier parses the first numeric token from a free-text area string
// ("2 acres", "1.5 bigha"). Unparsable input defaults to one unit. The
// multiplier saturates at the cap for large areas.
func (c *Calculator) areaMultiplier(area string) float64 {
	value := 1.0
	if match := areaNumberPattern.FindString(area); match != "" {
		if parsed, err := strconv.ParseFloat(match, 64); err == nil && parsed > 0 {
			value = parsed
		}
	}
	return math.Min(1+c.cfg.AreaPerUnit*value, c.cfg.AreaMultiplierCap)
}
