package usecase

import (
	"context"
	"math"
	"sort"

	"github.com/user/resale-catalog-service/internal/entity"
	"github.com/user/resale-catalog-service/internal/repository"
)

// SizeRecommendation is the closest chart size for a shopper's measurements.
type SizeRecommendation struct {
	Size         string              `json:"size"`
	Measurements entity.Measurements `json:"measurements"`
	Confidence   float64             `json:"confidence"`
}

// SizingQuery serves the sizing reference chart and size recommendations.
type SizingQuery interface {
	Chart(ctx context.Context) (entity.SizingChart, error)
	BrandChart(ctx context.Context, brand string) (entity.BrandChart, error)
	CategoryChart(ctx context.Context, brand, category string) (map[string]entity.Measurements, string, error)
	RecommendSize(ctx context.Context, brand, category string, user UserMeasurements) (*SizeRecommendation, error)
}

type sizingQueryUseCase struct {
	sizingRepo repository.SizingRepository
}

// NewSizingQuery creates a new SizingQuery use case.
func NewSizingQuery(sizingRepo repository.SizingRepository) SizingQuery {
	return &sizingQueryUseCase{sizingRepo: sizingRepo}
}

// Chart returns the full sizing reference chart.
func (uc *sizingQueryUseCase) Chart(ctx context.Context) (entity.SizingChart, error) {
	return uc.sizingRepo.Chart(ctx)
}

// BrandChart returns one brand's chart or repository.ErrNotFound.
func (uc *sizingQueryUseCase) BrandChart(ctx context.Context, brand string) (entity.BrandChart, error) {
	chart, err := uc.sizingRepo.Chart(ctx)
	if err != nil {
		return entity.BrandChart{}, err
	}
	brandChart, ok := chart[brand]
	if !ok {
		return entity.BrandChart{}, repository.ErrNotFound
	}
	return brandChart, nil
}

// CategoryChart returns a brand's size table for one category plus the brand
// fit notes, or repository.ErrNotFound.
func (uc *sizingQueryUseCase) CategoryChart(ctx context.Context, brand, category string) (map[string]entity.Measurements, string, error) {
	brandChart, err := uc.BrandChart(ctx, brand)
	if err != nil {
		return nil, "", err
	}
	sizes, ok := brandChart.Categories[category]
	if !ok {
		return nil, "", repository.ErrNotFound
	}
	return sizes, brandChart.FitNotes, nil
}

// RecommendSize finds the chart size whose measurements sit closest to the
// shopper's, averaged over the fields present on both sides. Confidence
// decays with the average difference in inches.
func (uc *sizingQueryUseCase) RecommendSize(ctx context.Context, brand, category string, user UserMeasurements) (*SizeRecommendation, error) {
	sizes, _, err := uc.CategoryChart(ctx, brand, category)
	if err != nil {
		return nil, err
	}

	// Stable iteration so ties resolve the same way on every call.
	labels := make([]string, 0, len(sizes))
	for label := range sizes {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var best *SizeRecommendation
	bestScore := math.Inf(1)

	for _, label := range labels {
		measurements := sizes[label]

		var sum float64
		var count int
		add := func(userValue float64, field string) {
			if garment, ok := measurements[field]; ok && userValue > 0 {
				sum += math.Abs(userValue - garment)
				count++
			}
		}
		add(user.Bust, entity.MeasurementBust)
		add(user.Waist, entity.MeasurementWaist)
		add(user.Hips, entity.MeasurementHips)

		if count == 0 {
			continue
		}
		avg := sum / float64(count)
		if avg < bestScore {
			bestScore = avg
			best = &SizeRecommendation{
				Size:         label,
				Measurements: measurements.Clone(),
				Confidence:   math.Max(0, 100-avg*10),
			}
		}
	}

	if best == nil {
		return nil, repository.ErrNotFound
	}
	return best, nil
}
