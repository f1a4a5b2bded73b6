package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/user/resale-catalog-service/internal/entity"
	"github.com/user/resale-catalog-service/internal/repository"
)

var (
	// ErrRunInProgress rejects a new crawl while one is still executing.
	// Runs are strictly serialized: the source sees one client at a time.
	ErrRunInProgress = errors.New("a crawl run is already in progress")
)

// RunManager starts crawl runs and reports their lifecycle state.
type RunManager interface {
	Start(params CrawlParams) (entity.CrawlRun, error)
	Get(id string) (entity.CrawlRun, error)
	// Shutdown cancels the active run, if any, and waits for it to stop.
	Shutdown()
}

type runManagerUseCase struct {
	crawler Crawler
	now     func() time.Time

	mu     sync.Mutex
	runs   map[string]*entity.CrawlRun
	active bool
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunManager creates a new RunManager use case.
func NewRunManager(crawler Crawler, now func() time.Time) RunManager {
	if now == nil {
		now = time.Now
	}
	return &runManagerUseCase{
		crawler: crawler,
		now:     now,
		runs:    make(map[string]*entity.CrawlRun),
	}
}

// Start registers a new run and executes it on a background goroutine. The
// caller gets the pending run record back immediately.
func (uc *runManagerUseCase) Start(params CrawlParams) (entity.CrawlRun, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.active {
		return entity.CrawlRun{}, ErrRunInProgress
	}

	run := &entity.CrawlRun{
		ID:          uuid.NewString(),
		Category:    params.Category,
		MaxPages:    params.MaxPages,
		TargetCount: params.TargetCount,
		State:       entity.RunPending,
		StartedAt:   uc.now(),
	}
	uc.runs[run.ID] = run
	uc.active = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	uc.cancel = cancel
	uc.done = done

	go uc.execute(ctx, run.ID, params, done)

	return *run, nil
}

func (uc *runManagerUseCase) execute(ctx context.Context, runID string, params CrawlParams, done chan struct{}) {
	defer close(done)

	uc.update(runID, func(run *entity.CrawlRun) {
		run.State = entity.RunCrawling
	})

	result, err := uc.crawler.Run(ctx, params)

	finished := uc.now()
	uc.mu.Lock()
	uc.active = false
	uc.cancel = nil
	uc.mu.Unlock()

	uc.update(runID, func(run *entity.CrawlRun) {
		run.PagesWalked = result.PagesWalked
		run.Harvested = result.Harvested
		run.Stored = result.Stored
		run.FinishedAt = &finished
		if err != nil {
			run.State = entity.RunFailed
			run.FailReason = err.Error()
			return
		}
		run.State = entity.RunCompleted
	})

	if err != nil {
		slog.Error("Crawl run failed", "run_id", runID, "error", err)
	}
}

func (uc *runManagerUseCase) update(runID string, apply func(*entity.CrawlRun)) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if run, ok := uc.runs[runID]; ok {
		apply(run)
	}
}

// Get returns a snapshot of the run with the given id, or ErrNotFound.
func (uc *runManagerUseCase) Get(id string) (entity.CrawlRun, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	run, ok := uc.runs[id]
	if !ok {
		return entity.CrawlRun{}, repository.ErrNotFound
	}
	return *run, nil
}

// Shutdown cancels the active run and blocks until its goroutine exits.
func (uc *runManagerUseCase) Shutdown() {
	uc.mu.Lock()
	cancel := uc.cancel
	done := uc.done
	uc.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}
