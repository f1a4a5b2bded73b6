package pipeline

import "github.com/user/resale-catalog-service/internal/entity"

// Enrich backfills missing measurements from the sizing reference and
// attaches brand-level fit notes. Directly scraped measurements are never
// overwritten; chart data only fills emptiness.
func Enrich(rec entity.NormalizedProduct, chart entity.SizingChart) entity.NormalizedProduct {
	if rec.Measurements.Empty() && rec.Size != "" && rec.Size != "Unknown" {
		if m, ok := chart.Lookup(rec.Brand, string(rec.Category), rec.Size); ok {
			rec.Measurements = m.Clone()
			rec.MeasurementsSource = entity.MeasurementsEstimated
		}
	}

	if notes := chart.FitNotes(rec.Brand); notes != "" {
		rec.BrandFitNotes = notes
	}
	return rec
}

// EnrichAll applies Enrich over a record set in order.
func EnrichAll(records []entity.NormalizedProduct, chart entity.SizingChart) []entity.NormalizedProduct {
	out := make([]entity.NormalizedProduct, len(records))
	for i, rec := range records {
		out[i] = Enrich(rec, chart)
	}
	return out
}
