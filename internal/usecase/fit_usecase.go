package usecase

import (
	"math"

	"github.com/user/resale-catalog-service/internal/entity"
)

// Fit preferences accepted per category. Unknown values fall back to regular.
const (
	FitLoose   = "loose"
	FitRegular = "regular"
	FitFitted  = "fitted"
)

// Per-inch penalties outside the tolerance range. Too tight is penalized
// harder than too loose.
const (
	tightPenaltyPerInch  = 25.0
	loosePenaltyPerInch  = 15.0
	lengthPenaltyPerInch = 10.0
)

// UserMeasurements are the shopper's body measurements in inches. Zero means
// the measurement was not provided and is skipped during scoring.
type UserMeasurements struct {
	Bust   float64 `json:"bust"`
	Waist  float64 `json:"waist"`
	Hips   float64 `json:"hips"`
	Height float64 `json:"height"`
}

// Tolerance is the acceptable garment-minus-body difference window.
type Tolerance struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// MeasurementScore is the per-measurement breakdown of a fit score.
type MeasurementScore struct {
	Measurement string  `json:"measurement"`
	Score       float64 `json:"score"`
	Diff        float64 `json:"diff"`
}

// FitDetails exposes the inputs that shaped the overall score.
type FitDetails struct {
	Tolerance        Tolerance `json:"tolerance"`
	FitPreference    string    `json:"fitPreference"`
	BrandAdjustment  float64   `json:"brandAdjustment"`
	MeasurementCount int       `json:"measurementCount"`
}

// FitResult is the scored comparison of a shopper against one garment.
type FitResult struct {
	OverallScore      int                `json:"overallScore"`
	MeasurementScores []MeasurementScore `json:"measurementScores"`
	Recommendation    string             `json:"recommendation"`
	Details           FitDetails         `json:"details"`
}

var toleranceRanges = map[string]Tolerance{
	FitLoose:   {Min: -1, Max: 4},
	FitRegular: {Min: -2, Max: 2},
	FitFitted:  {Min: -3, Max: 1},
}

// brandFitAdjustments shift the final score for houses that consistently cut
// small or large. Categories absent from a brand's row contribute zero.
var brandFitAdjustments = map[string]map[entity.Category]float64{
	"Chanel":        {entity.CategoryTops: 5, entity.CategoryDresses: 5, entity.CategoryBottoms: 0},
	"Hermes":        {entity.CategoryTops: 3, entity.CategoryDresses: 3, entity.CategoryBottoms: 2},
	"Prada":         {entity.CategoryTops: -2, entity.CategoryDresses: -2, entity.CategoryBottoms: -3},
	"Gucci":         {entity.CategoryTops: 0, entity.CategoryDresses: 0, entity.CategoryBottoms: -2},
	"Saint Laurent": {entity.CategoryTops: -5, entity.CategoryDresses: -5, entity.CategoryBottoms: -5},
}

// ScoreFit compares a shopper's measurements against one garment. Only
// measurements present on both sides are scored; length is scored for
// dresses and tops against an ideal derived from the shopper's height.
func ScoreFit(user UserMeasurements, preferences map[entity.Category]string, product entity.NormalizedProduct) FitResult {
	preference := preferences[product.Category]
	tolerance, ok := toleranceRanges[preference]
	if !ok {
		preference = FitRegular
		tolerance = toleranceRanges[FitRegular]
	}

	var scores []MeasurementScore
	var total float64

	score := func(name string, userValue float64) {
		garment, ok := product.Measurements[name]
		if userValue <= 0 || !ok {
			return
		}
		diff := garment - userValue
		s := measurementScore(diff, tolerance)
		scores = append(scores, MeasurementScore{Measurement: name, Score: s, Diff: diff})
		total += s
	}

	score(entity.MeasurementBust, user.Bust)
	score(entity.MeasurementWaist, user.Waist)
	score(entity.MeasurementHips, user.Hips)

	if product.Category == entity.CategoryDresses || product.Category == entity.CategoryTops {
		if garmentLength, ok := product.Measurements[entity.MeasurementLength]; ok && user.Height > 0 {
			diff := math.Abs(garmentLength - idealLength(user.Height, product.Category))
			s := math.Max(0, 100-diff*lengthPenaltyPerInch)
			scores = append(scores, MeasurementScore{Measurement: entity.MeasurementLength, Score: s, Diff: diff})
			total += s
		}
	}

	adjustment := brandFitAdjustments[product.Brand][product.Category]
	details := FitDetails{
		Tolerance:        tolerance,
		FitPreference:    preference,
		BrandAdjustment:  adjustment,
		MeasurementCount: len(scores),
	}

	if len(scores) == 0 {
		return FitResult{Recommendation: fitRecommendation(0), Details: details}
	}

	adjusted := math.Min(100, math.Max(0, total/float64(len(scores))+adjustment))
	return FitResult{
		OverallScore:      int(math.Round(adjusted)),
		MeasurementScores: scores,
		Recommendation:    fitRecommendation(adjusted),
		Details:           details,
	}
}

func measurementScore(diff float64, tolerance Tolerance) float64 {
	if diff >= tolerance.Min && diff <= tolerance.Max {
		return 100
	}
	if diff < tolerance.Min {
		excess := math.Abs(diff - tolerance.Min)
		return math.Max(0, 100-excess*tightPenaltyPerInch)
	}
	excess := diff - tolerance.Max
	return math.Max(0, 100-excess*loosePenaltyPerInch)
}

// idealLength maps shopper height to a target garment length per category,
// with petite (under 62in) and tall (over 68in) bands.
func idealLength(height float64, category entity.Category) float64 {
	if category == entity.CategoryDresses {
		switch {
		case height < 62:
			return 36
		case height > 68:
			return 42
		default:
			return 39
		}
	}
	switch {
	case height < 62:
		return 22
	case height > 68:
		return 26
	default:
		return 24
	}
}

func fitRecommendation(score float64) string {
	switch {
	case score >= 90:
		return "Perfect Fit"
	case score >= 70:
		return "Good Fit"
	case score >= 50:
		return "Maybe"
	default:
		return "Poor Fit"
	}
}
