package usecase

import (
	"context"

	"github.com/user/resale-catalog-service/internal/entity"
	"github.com/user/resale-catalog-service/internal/pipeline"
	"github.com/user/resale-catalog-service/internal/repository"
)

const (
	defaultPageSize = 24
	maxPageSize     = 100
)

// CatalogQuery serves read access to the stored catalog.
type CatalogQuery interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]entity.NormalizedProduct, int, error)
	Get(ctx context.Context, id string) (*entity.NormalizedProduct, error)
	Stats(ctx context.Context) (entity.CatalogStats, error)
}

type catalogQueryUseCase struct {
	catalogRepo repository.CatalogRepository
}

// NewCatalogQuery creates a new CatalogQuery use case.
func NewCatalogQuery(catalogRepo repository.CatalogRepository) CatalogQuery {
	return &catalogQueryUseCase{catalogRepo: catalogRepo}
}

// List returns one page of catalog records plus the total match count.
// Page size is clamped so a single request cannot dump the whole store.
func (uc *catalogQueryUseCase) List(ctx context.Context, filter repository.ProductFilter) ([]entity.NormalizedProduct, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Sort == "" {
		filter.Sort = repository.SortNewest
	}
	return uc.catalogRepo.List(ctx, filter)
}

// Get returns a single record or repository.ErrNotFound.
func (uc *catalogQueryUseCase) Get(ctx context.Context, id string) (*entity.NormalizedProduct, error) {
	return uc.catalogRepo.FindByID(ctx, id)
}

// Stats aggregates over the full stored record set.
func (uc *catalogQueryUseCase) Stats(ctx context.Context) (entity.CatalogStats, error) {
	records, err := uc.catalogRepo.FetchAll(ctx)
	if err != nil {
		return entity.CatalogStats{}, err
	}
	return pipeline.Summarize(records), nil
}
