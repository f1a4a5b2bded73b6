package entity

import "time"

// Category is the fixed product taxonomy. Every record is classified into
// exactly one of these four values before it reaches storage.
type Category string

const (
	CategoryTops      Category = "tops"
	CategoryBottoms   Category = "bottoms"
	CategoryDresses   Category = "dresses"
	CategoryOuterwear Category = "outerwear"
)

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTops, CategoryBottoms, CategoryDresses, CategoryOuterwear:
		return true
	}
	return false
}

// Availability classifies a detail page at harvest time.
type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
)

// Measurement field names used in Measurements maps and sizing charts.
const (
	MeasurementBust     = "bust"
	MeasurementWaist    = "waist"
	MeasurementHips     = "hips"
	MeasurementLength   = "length"
	MeasurementShoulder = "shoulder"
)

// Measurements is a partial mapping from measurement field to inches.
// Fields that could not be extracted are simply absent.
type Measurements map[string]float64

// Empty reports whether no measurement was captured.
func (m Measurements) Empty() bool { return len(m) == 0 }

// Clone returns an independent copy so downstream stages never alias
// chart reference data.
func (m Measurements) Clone() Measurements {
	if m == nil {
		return nil
	}
	out := make(Measurements, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ScrapedProduct is a raw record emitted by the detail harvester. Records
// that reach the normalizer always carry a non-empty title, a non-empty
// brand, and a price > 0; anything else is discarded at harvest time.
type ScrapedProduct struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Brand        string       `json:"brand"`
	Category     Category     `json:"category"`
	Subcategory  string       `json:"subcategory"`
	Size         string       `json:"size"`
	Price        float64      `json:"price"`
	Condition    string       `json:"condition"`
	URL          string       `json:"url"`
	Images       []string     `json:"images"`
	Measurements Measurements `json:"measurements"`
	Description  string       `json:"description"`
	Availability Availability `json:"availability"`
	ScrapedAt    time.Time    `json:"scrapedAt"`
}

// MeasurementsSource values for NormalizedProduct.
const (
	MeasurementsScraped   = "scraped"
	MeasurementsEstimated = "estimated"
)

// NormalizedProduct is the canonical catalog record: vocabulary mapped
// through the canonicalization tables, price validated, measurements
// filtered to plausible ranges and rounded to two decimals.
type NormalizedProduct struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Brand              string       `json:"brand"`
	Category           Category     `json:"category"`
	Subcategory        string       `json:"subcategory"`
	Size               string       `json:"size"`
	Price              float64      `json:"price"`
	Condition          string       `json:"condition"`
	URL                string       `json:"url"`
	Images             []string     `json:"images"`
	Measurements       Measurements `json:"measurements"`
	MeasurementsSource string       `json:"measurementsSource,omitempty"`
	BrandFitNotes      string       `json:"brandFitNotes,omitempty"`
	Description        string       `json:"description"`
	Availability       Availability `json:"availability"`
	ScrapedAt          time.Time    `json:"scrapedAt"`
	ProcessedAt        time.Time    `json:"processedAt"`
}
