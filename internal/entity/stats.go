package entity

// PriceRange summarizes catalog pricing. Zero-valued for an empty catalog.
type PriceRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// CatalogStats is derived from the full normalized record set on demand.
// It is never persisted independently of the records it summarizes.
type CatalogStats struct {
	Total            int            `json:"total"`
	ByBrand          map[string]int `json:"byBrand"`
	ByCategory       map[string]int `json:"byCategory"`
	ByCondition      map[string]int `json:"byCondition"`
	PriceRange       PriceRange     `json:"priceRange"`
	WithMeasurements int            `json:"withMeasurements"`
}
