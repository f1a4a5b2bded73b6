package request

import "fmt"

// StartCrawlRequest kicks off a crawl run against one category listing.
type StartCrawlRequest struct {
	Category    string `json:"category"`
	MaxPages    int    `json:"max_pages"`
	TargetCount int    `json:"target_count"`
}

// MeasurementsPayload carries shopper body measurements in inches. Zero
// values mean "not provided".
type MeasurementsPayload struct {
	Bust   float64 `json:"bust"`
	Waist  float64 `json:"waist"`
	Hips   float64 `json:"hips"`
	Height float64 `json:"height"`
}

// measurementBounds are the accepted ranges, in inches, for user-supplied
// body measurements. Provided values outside them are rejected; zero values
// are skipped.
var measurementBounds = []struct {
	name     string
	min, max float64
}{
	{"height", 48, 84},
	{"bust", 24, 60},
	{"waist", 20, 50},
	{"hips", 26, 65},
}

// Validate rejects implausible measurement values. Only provided (non-zero)
// fields are checked, including cross-field consistency when both sides of
// a comparison are present.
func (m MeasurementsPayload) Validate() error {
	values := map[string]float64{
		"height": m.Height,
		"bust":   m.Bust,
		"waist":  m.Waist,
		"hips":   m.Hips,
	}
	for _, b := range measurementBounds {
		v := values[b.name]
		if v != 0 && (v < b.min || v > b.max) {
			return fmt.Errorf("%s must be between %g and %g inches", b.name, b.min, b.max)
		}
	}
	if m.Waist > 0 && m.Bust > 0 && m.Waist > m.Bust+10 {
		return fmt.Errorf("waist measurement seems unusually large compared to bust")
	}
	if m.Hips > 0 && m.Waist > 0 && m.Hips < m.Waist-5 {
		return fmt.Errorf("hip measurement seems unusually small compared to waist")
	}
	return nil
}

// FitScoreRequest scores a stored product against shopper measurements.
// Preferences maps category name to "loose", "regular", or "fitted".
type FitScoreRequest struct {
	ProductID    string              `json:"product_id"`
	Measurements MeasurementsPayload `json:"measurements"`
	Preferences  map[string]string   `json:"preferences"`
}

// SizeRecommendationRequest asks for the closest chart size for a brand
// and category.
type SizeRecommendationRequest struct {
	Brand        string              `json:"brand"`
	Category     string              `json:"category"`
	Measurements MeasurementsPayload `json:"measurements"`
}
