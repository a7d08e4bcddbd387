package credit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"agrilog/internal/activity/config"
	"agrilog/internal/activity/models"
)

func quality(q int) *int {
	return &q
}

func TestCalculate(t *testing.T) {
	calc := New()

	t.Run("reference award", func(t *testing.T) {
		// base 60 × crop 1.2 × area 1.2 × quality 1.4 = 120.96 → 121.
		got := calc.Calculate(Input{
			Category:     models.CategorySoilHealth,
			Crop:         "rice",
			Area:         "2 acres",
			QualityScore: quality(90),
		})
		assert.Equal(t, 121, got)
	})

	t.Run("low quality other yields zero", func(t *testing.T) {
		got := calc.Calculate(Input{
			Category:     models.CategoryOther,
			QualityScore: quality(20),
		})
		assert.Equal(t, 0, got)
	})

	t.Run("quality below thirty always yields zero", func(t *testing.T) {
		got := calc.Calculate(Input{
			Category:     models.CategorySoilHealth,
			Crop:         "rice",
			Area:         "5 acres",
			QualityScore: quality(29),
		})
		assert.Equal(t, 0, got)
	})

	t.Run("other with quality below fifty yields zero", func(t *testing.T) {
		got := calc.Calculate(Input{
			Category:     models.CategoryOther,
			QualityScore: quality(45),
		})
		assert.Equal(t, 0, got)
	})

	t.Run("other without quality needs a real description", func(t *testing.T) {
		assert.Equal(t, 0, calc.Calculate(Input{
			Category:    models.CategoryOther,
			Description: "short note",
		}))
		assert.Greater(t, calc.Calculate(Input{
			Category:    models.CategoryOther,
			Description: "cleared weeds along the field boundary",
		}), 0)
	})

	t.Run("unknown crop defaults to neutral multiplier", func(t *testing.T) {
		known := calc.Calculate(Input{Category: models.CategorySoilHealth, Crop: "cotton"})
		unknown := calc.Calculate(Input{Category: models.CategorySoilHealth, Crop: "dragonfruit"})
		assert.Greater(t, known, unknown)
	})

	t.Run("crop match is substring and case-insensitive", func(t *testing.T) {
		exact := calc.Calculate(Input{Category: models.CategorySoilHealth, Crop: "rice"})
		variant := calc.Calculate(Input{Category: models.CategorySoilHealth, Crop: "Basmati RICE"})
		assert.Equal(t, exact, variant)
	})

	t.Run("crop matching multiple entries awards the same every time", func(t *testing.T) {
		// "cotton rice" matches two table entries; sorted order picks
		// cotton: 60 × 1.3 × 1.2 × 1.4 = 131.04 → 131.
		for i := 0; i < 200; i++ {
			got := calc.Calculate(Input{
				Category:     models.CategorySoilHealth,
				Crop:         "cotton rice",
				Area:         "2 acres",
				QualityScore: quality(90),
			})
			assert.Equal(t, 131, got)
		}
	})

	t.Run("tiny crop fragments stay neutral", func(t *testing.T) {
		neutral := calc.Calculate(Input{Category: models.CategorySoilHealth})
		assert.Equal(t, neutral, calc.Calculate(Input{Category: models.CategorySoilHealth, Crop: "a"}))
		assert.Equal(t, neutral, calc.Calculate(Input{Category: models.CategorySoilHealth, Crop: "ri"}))
	})

	t.Run("area multiplier saturates at two", func(t *testing.T) {
		ten := calc.Calculate(Input{Category: models.CategorySoilHealth, Area: "10 acres"})
		fifty := calc.Calculate(Input{Category: models.CategorySoilHealth, Area: "50 acres"})
		assert.Equal(t, ten, fifty)
		assert.Equal(t, 120, ten)
	})

	t.Run("unparsable area defaults to one unit", func(t *testing.T) {
		blank := calc.Calculate(Input{Category: models.CategorySoilHealth})
		garbled := calc.Calculate(Input{Category: models.CategorySoilHealth, Area: "a few fields"})
		assert.Equal(t, blank, garbled)
		assert.Equal(t, 66, blank)
	})

	t.Run("decimal areas parse", func(t *testing.T) {
		// 60 × (1 + 0.1×2.5) = 75.
		got := calc.Calculate(Input{Category: models.CategorySoilHealth, Area: "2.5 bigha"})
		assert.Equal(t, 75, got)
	})

	t.Run("floor of five applies only at decent quality", func(t *testing.T) {
		// Default bases never land under the floor, so shrink the table.
		small := New(WithConfig(smallTableConfig()))
		assert.Equal(t, 5, small.Calculate(Input{Category: models.CategorySoilHealth, QualityScore: quality(60)}))
		assert.Equal(t, 3, small.Calculate(Input{Category: models.CategorySoilHealth, QualityScore: quality(35)}))
	})

	t.Run("quality multiplier maps linearly", func(t *testing.T) {
		// Base 60 × default area 1.1, then ×1.0 at quality 50 and ×1.5 at 100.
		assert.Equal(t, 66, calc.Calculate(Input{Category: models.CategorySoilHealth, QualityScore: quality(50)}))
		assert.Equal(t, 99, calc.Calculate(Input{Category: models.CategorySoilHealth, QualityScore: quality(100)}))
	})
}

func smallTableConfig() (cfg config.CreditConfig) {
	cfg = config.DefaultConfig().Credit
	cfg.BaseCredits = map[models.Category]int{
		models.CategorySoilHealth: 3,
		models.CategoryOther:      1,
	}
	cfg.AreaPerUnit = 0
	return cfg
}
