package pipeline

import (
	"math"
	"strings"
	"time"

	"github.com/user/resale-catalog-service/internal/entity"
)

// brandCanon maps lowercase brand spellings to their canonical names.
// Unmapped brands pass through trimmed with internal casing preserved.
var brandCanon = map[string]string{
	"chanel":             "Chanel",
	"hermès":             "Hermes",
	"hermes":             "Hermes",
	"prada":              "Prada",
	"gucci":              "Gucci",
	"saint laurent":      "Saint Laurent",
	"yves saint laurent": "Saint Laurent",
	"ysl":                "Saint Laurent",
}

// categoryCanon maps common synonyms onto the fixed four-category enum.
var categoryCanon = map[string]entity.Category{
	"dress":     entity.CategoryDresses,
	"dresses":   entity.CategoryDresses,
	"top":       entity.CategoryTops,
	"tops":      entity.CategoryTops,
	"shirt":     entity.CategoryTops,
	"blouse":    entity.CategoryTops,
	"bottom":    entity.CategoryBottoms,
	"bottoms":   entity.CategoryBottoms,
	"pants":     entity.CategoryBottoms,
	"skirt":     entity.CategoryBottoms,
	"jacket":    entity.CategoryOuterwear,
	"coat":      entity.CategoryOuterwear,
	"outerwear": entity.CategoryOuterwear,
}

// measurementRanges bounds each field to physiologically plausible inches.
// Values outside the open interval are dropped from the set; the record
// itself survives.
var measurementRanges = map[string]struct{ min, max float64 }{
	entity.MeasurementBust:     {20, 60},
	entity.MeasurementWaist:    {15, 50},
	entity.MeasurementHips:     {20, 65},
	entity.MeasurementLength:   {10, 60},
	entity.MeasurementShoulder: {8, 25},
}

// Normalize canonicalizes one scraped record. It returns false when the
// record is rejected: a price that is not strictly positive after coercion
// invalidates the whole record.
func Normalize(rec entity.ScrapedProduct, now time.Time) (entity.NormalizedProduct, bool) {
	if rec.Price <= 0 {
		return entity.NormalizedProduct{}, false
	}

	measurements := validateMeasurements(rec.Measurements)
	source := ""
	if !measurements.Empty() {
		source = entity.MeasurementsScraped
	}

	images := rec.Images
	if images == nil {
		images = []string{}
	}

	return entity.NormalizedProduct{
		ID:                 rec.ID,
		Title:              strings.TrimSpace(rec.Title),
		Brand:              NormalizeBrand(rec.Brand),
		Category:           NormalizeCategory(string(rec.Category)),
		Subcategory:        rec.Subcategory,
		Size:               strings.TrimSpace(rec.Size),
		Price:              rec.Price,
		Condition:          strings.TrimSpace(rec.Condition),
		URL:                rec.URL,
		Images:             images,
		Measurements:       measurements,
		MeasurementsSource: source,
		Description:        strings.TrimSpace(rec.Description),
		Availability:       rec.Availability,
		ScrapedAt:          rec.ScrapedAt,
		ProcessedAt:        now,
	}, true
}

// NormalizeBrand applies the case-insensitive canonicalization table.
func NormalizeBrand(brand string) string {
	trimmed := strings.TrimSpace(brand)
	if canon, ok := brandCanon[strings.ToLower(trimmed)]; ok {
		return canon
	}
	return trimmed
}

// NormalizeCategory maps synonyms onto the category enum, defaulting to tops.
func NormalizeCategory(category string) entity.Category {
	if canon, ok := categoryCanon[strings.ToLower(strings.TrimSpace(category))]; ok {
		return canon
	}
	return entity.CategoryTops
}

func validateMeasurements(in entity.Measurements) entity.Measurements {
	out := entity.Measurements{}
	for field, value := range in {
		bounds, known := measurementRanges[field]
		if !known || value <= bounds.min || value >= bounds.max {
			continue
		}
		out[field] = round2(value)
	}
	return out
}

// round2 rounds to two decimal places. Idempotent: rounding an already
// rounded value yields the identical float.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
