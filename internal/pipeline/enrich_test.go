package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/resale-catalog-service/internal/entity"
)

func testChart() entity.SizingChart {
	return entity.SizingChart{
		"Chanel": entity.BrandChart{
			Categories: map[string]map[string]entity.Measurements{
				"dresses": {
					"M": {"bust": 35, "waist": 27.5, "hips": 37.5},
				},
			},
			FitNotes: "Runs small; consider sizing up.",
		},
	}
}

func enrichable(mutate func(*entity.NormalizedProduct)) entity.NormalizedProduct {
	rec := entity.NormalizedProduct{
		Title:        "Silk Dress",
		Brand:        "Chanel",
		Category:     entity.CategoryDresses,
		Size:         "M",
		Price:        1250,
		Measurements: entity.Measurements{},
	}
	if mutate != nil {
		mutate(&rec)
	}
	return rec
}

func TestEnrichFillsEmptyMeasurementsFromChart(t *testing.T) {
	out := Enrich(enrichable(nil), testChart())

	assert.Equal(t, entity.Measurements{"bust": 35.0, "waist": 27.5, "hips": 37.5}, out.Measurements)
	assert.Equal(t, entity.MeasurementsEstimated, out.MeasurementsSource)
	assert.Equal(t, "Runs small; consider sizing up.", out.BrandFitNotes)
}

func TestEnrichNeverOverwritesScrapedMeasurements(t *testing.T) {
	rec := enrichable(func(r *entity.NormalizedProduct) {
		r.Measurements = entity.Measurements{"bust": 34}
		r.MeasurementsSource = entity.MeasurementsScraped
	})

	out := Enrich(rec, testChart())
	assert.Equal(t, entity.Measurements{"bust": 34.0}, out.Measurements)
	assert.Equal(t, entity.MeasurementsScraped, out.MeasurementsSource)
	// fit notes still attach even when measurements were not filled
	assert.Equal(t, "Runs small; consider sizing up.", out.BrandFitNotes)
}

func TestEnrichSkipsUnresolvedSize(t *testing.T) {
	rec := enrichable(func(r *entity.NormalizedProduct) { r.Size = "Unknown" })

	out := Enrich(rec, testChart())
	assert.True(t, out.Measurements.Empty())
	assert.Empty(t, out.MeasurementsSource)
}

func TestEnrichSkipsUnknownBrandOrSize(t *testing.T) {
	out := Enrich(enrichable(func(r *entity.NormalizedProduct) { r.Brand = "Rodarte" }), testChart())
	assert.True(t, out.Measurements.Empty())
	assert.Empty(t, out.BrandFitNotes)

	out = Enrich(enrichable(func(r *entity.NormalizedProduct) { r.Size = "XXL" }), testChart())
	assert.True(t, out.Measurements.Empty())
}

func TestEnrichedMeasurementsDoNotAliasChart(t *testing.T) {
	chart := testChart()
	out := Enrich(enrichable(nil), chart)
	out.Measurements["bust"] = 99

	require.Equal(t, 35.0, chart["Chanel"].Categories["dresses"]["M"]["bust"])
}
