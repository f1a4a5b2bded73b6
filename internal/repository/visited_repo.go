package repository

import (
	"context"
	"time"
)

// VisitedRepository deduplicates detail-page fetches across listing pages
// and recent runs. Entries expire so the source is eventually re-checked.
type VisitedRepository interface {
	// MarkVisited records a URL as harvested with the given expiry.
	MarkVisited(ctx context.Context, url string, expiry time.Duration) error
	// IsVisited reports whether the URL was harvested within the expiry window.
	IsVisited(ctx context.Context, url string) (bool, error)
}
