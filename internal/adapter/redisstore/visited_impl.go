package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/resale-catalog-service/pkg/utils"
)

const visitedURLPrefix = "catalog:visited:"

// VisitedRepoImpl provides a concrete implementation for the VisitedRepository interface using Redis.
type VisitedRepoImpl struct {
	client *redis.Client
}

// NewVisitedRepo creates a new instance of VisitedRepoImpl.
func NewVisitedRepo(client *redis.Client) *VisitedRepoImpl {
	return &VisitedRepoImpl{client: client}
}

// generateKey creates a consistent Redis key for a given URL by hashing it.
func (r *VisitedRepoImpl) generateKey(url string) string {
	return fmt.Sprintf("%s%s", visitedURLPrefix, utils.HashURL(url))
}

// MarkVisited records a URL as harvested by setting a key with an expiry,
// so the source is eventually re-checked.
func (r *VisitedRepoImpl) MarkVisited(ctx context.Context, url string, expiry time.Duration) error {
	return r.client.SetEx(ctx, r.generateKey(url), "1", expiry).Err()
}

// IsVisited checks whether a URL was harvested within the expiry window.
func (r *VisitedRepoImpl) IsVisited(ctx context.Context, url string) (bool, error) {
	val, err := r.client.Exists(ctx, r.generateKey(url)).Result()
	if err != nil {
		return false, err
	}
	return val == 1, nil
}
