package repository

import "context"

// FrontierRepository is the FIFO queue of candidate detail-page links
// discovered by the listing crawler. The harvester drains it sequentially.
type FrontierRepository interface {
	// Push appends links to the end of the frontier.
	Push(ctx context.Context, urls ...string) error
	// Pop removes and returns the next link, or ErrNotFound when empty.
	Pop(ctx context.Context) (string, error)
	// Size returns the number of queued links.
	Size(ctx context.Context) (int64, error)
	// Clear empties the frontier at the start of a run.
	Clear(ctx context.Context) error
}
