package entity

import "time"

// Run states reported over the API.
const (
	RunPending   = "pending"
	RunCrawling  = "crawling"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// CrawlRun tracks one crawl invocation: its parameters, lifecycle state,
// and the pipeline counters accumulated while it executed.
type CrawlRun struct {
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
