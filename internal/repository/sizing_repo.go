package repository

import (
	"context"

	"github.com/user/resale-catalog-service/internal/entity"
)

// SizingRepository supplies the read-only brand/category/size reference
// table. Load failures wrap ErrSizingChartUnavailable and abort the run.
type SizingRepository interface {
	Chart(ctx context.Context) (entity.SizingChart, error)
}
