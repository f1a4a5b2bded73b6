package pipeline

import "github.com/user/resale-catalog-service/internal/entity"

// Summarize computes catalog statistics over the full record set. An empty
// set yields a defined zero-valued result rather than NaN price fields.
func Summarize(records []entity.NormalizedProduct) entity.CatalogStats {
	stats := entity.CatalogStats{
		Total:       len(records),
		ByBrand:     make(map[string]int),
		ByCategory:  make(map[string]int),
		ByCondition: make(map[string]int),
	}
	if len(records) == 0 {
		return stats
	}

	var sum float64
	stats.PriceRange.Min = records[0].Price
	stats.PriceRange.Max = records[0].Price

	for _, rec := range records {
		stats.ByBrand[rec.Brand]++
		stats.ByCategory[string(rec.Category)]++
		stats.ByCondition[rec.Condition]++

		sum += rec.Price
		if rec.Price < stats.PriceRange.Min {
			stats.PriceRange.Min = rec.Price
		}
		if rec.Price > stats.PriceRange.Max {
			stats.PriceRange.Max = rec.Price
		}

		if !rec.Measurements.Empty() {
			stats.WithMeasurements++
		}
	}

	stats.PriceRange.Average = sum / float64(len(records))
	return stats
}
