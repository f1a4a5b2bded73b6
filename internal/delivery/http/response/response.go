package response

import (
	"time"

	"github.com/user/resale-catalog-service/internal/entity"
)

// StartCrawlResponse acknowledges an accepted crawl run.
type StartCrawlResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	RunID   string `json:"run_id"`
}

// RunStatusResponse is a DTO for a crawl run, mirroring entity.CrawlRun.
type RunStatusResponse struct {
	ID          string     `json:"id"`
	Category    string     `json:"category"`
	MaxPages    int        `json:"max_pages"`
	TargetCount int        `json:"target_count"`
	State       string     `json:"state"`
	PagesWalked int        `json:"pages_walked"`
	Harvested   int        `json:"harvested"`
	Stored      int        `json:"stored"`
	FailReason  string     `json:"fail_reason,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// FromRun maps a run entity into its response DTO.
func FromRun(run entity.CrawlRun) RunStatusResponse {
	return RunStatusResponse{
		ID:          run.ID,
		Category:    run.Category,
		MaxPages:    run.MaxPages,
		TargetCount: run.TargetCount,
		State:       run.State,
		PagesWalked: run.PagesWalked,
		Harvested:   run.Harvested,
		Stored:      run.Stored,
		FailReason:  run.FailReason,
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
	}
}

// ProductListResponse is one page of catalog records.
type ProductListResponse struct {
	Products []entity.NormalizedProduct `json:"products"`
	Total    int                        `json:"total"`
	Limit    int                        `json:"limit"`
	Offset   int                        `json:"offset"`
}

// CategoryChartResponse is one brand's size table for a single category.
type CategoryChartResponse struct {
	Brand       string                         `json:"brand"`
	Category    string                         `json:"category"`
	SizingChart map[string]entity.Measurements `json:"sizingChart"`
	FitNotes    string                         `json:"fitNotes,omitempty"`
}

// BrandChartResponse is one brand's full chart.
type BrandChartResponse struct {
	Brand string            `json:"brand"`
	Chart entity.BrandChart `json:"chart"`
}
