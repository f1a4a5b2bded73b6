package repository

import (
	"context"

	"github.com/user/resale-catalog-service/internal/entity"
)

// Sort orders accepted by List.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

// ProductFilter narrows a catalog listing query. Zero values mean
// "no constraint".
type ProductFilter struct {
	Category  entity.Category
	Brands    []string
	Condition string
	Size      string
	MinPrice  float64
	MaxPrice  float64
	Search    string

	Sort   string
	Limit  int
	Offset int
}

// CatalogRepository persists the normalized record set. The catalog is
// replaced wholesale on each crawl run; there is no incremental merge.
type CatalogRepository interface {
	// ReplaceAll atomically swaps the stored catalog for the given records.
	ReplaceAll(ctx context.Context, products []entity.NormalizedProduct) error
	// List returns one page of records matching the filter plus the total
	// match count before pagination.
	List(ctx context.Context, filter ProductFilter) ([]entity.NormalizedProduct, int, error)
	// FindByID returns a single record or ErrNotFound.
	FindByID(ctx context.Context, id string) (*entity.NormalizedProduct, error)
	// FetchAll returns every stored record in insertion order.
	FetchAll(ctx context.Context) ([]entity.NormalizedProduct, error)
}
