package entity

import "encoding/json"

// BrandChart holds one brand's sizing reference: per-category size tables
// plus optional brand-level fit notes. Reference data only; the pipeline
// never mutates it.
type BrandChart struct {
	// Categories maps category name -> size label -> measurement set.
	Categories map[string]map[string]Measurements
	FitNotes   string
}

// SizingChart maps brand name to that brand's chart.
type SizingChart map[string]BrandChart

// UnmarshalJSON handles the chart document layout, where the optional
// "fitNotes" string sits beside the category keys inside each brand object.
func (b *BrandChart) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Categories = make(map[string]map[string]Measurements)
	for key, val := range raw {
		if key == "fitNotes" {
			if err := json.Unmarshal(val, &b.FitNotes); err != nil {
				return err
			}
			continue
		}
		var sizes map[string]Measurements
		if err := json.Unmarshal(val, &sizes); err != nil {
			return err
		}
		b.Categories[key] = sizes
	}
	return nil
}

// MarshalJSON emits the same layout the loader reads.
func (b BrandChart) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.Categories)+1)
	for cat, sizes := range b.Categories {
		out[cat] = sizes
	}
	if b.FitNotes != "" {
		out["fitNotes"] = b.FitNotes
	}
	return json.Marshal(out)
}

// Lookup returns the measurement set for (brand, category, size), or false
// when any level of the chart is missing.
func (c SizingChart) Lookup(brand, category, size string) (Measurements, bool) {
	brandChart, ok := c[brand]
	if !ok {
		return nil, false
	}
	sizes, ok := brandChart.Categories[category]
	if !ok {
		return nil, false
	}
	m, ok := sizes[size]
	return m, ok
}

// FitNotes returns the brand-level fit notes, if any.
func (c SizingChart) FitNotes(brand string) string {
	return c[brand].FitNotes
}
