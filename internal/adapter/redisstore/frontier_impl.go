package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/user/resale-catalog-service/internal/repository"
)

const frontierKey = "catalog:frontier"

// FrontierRepoImpl provides a concrete implementation for the FrontierRepository interface using Redis Lists.
type FrontierRepoImpl struct {
	client *redis.Client
}

// NewFrontierRepo creates a new instance of FrontierRepoImpl.
func NewFrontierRepo(client *redis.Client) *FrontierRepoImpl {
	return &FrontierRepoImpl{client: client}
}

// Push appends detail-page links to the end of the frontier.
func (r *FrontierRepoImpl) Push(ctx context.Context, urls ...string) error {
	if len(urls) == 0 {
		return nil
	}
	values := make([]any, len(urls))
	for i, u := range urls {
		values[i] = u
	}
	return r.client.RPush(ctx, frontierKey, values...).Err()
}

// Pop removes and returns the next link in FIFO order.
func (r *FrontierRepoImpl) Pop(ctx context.Context) (string, error) {
	url, err := r.client.LPop(ctx, frontierKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrNotFound
	}
	return url, err
}

// Size returns the current number of queued links.
func (r *FrontierRepoImpl) Size(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, frontierKey).Result()
}

// Clear empties the frontier at the start of a run.
func (r *FrontierRepoImpl) Clear(ctx context.Context) error {
	return r.client.Del(ctx, frontierKey).Err()
}
