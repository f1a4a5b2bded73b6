package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/user/resale-catalog-service/internal/entity"
	"github.com/user/resale-catalog-service/internal/extract"
	"github.com/user/resale-catalog-service/internal/pipeline"
	"github.com/user/resale-catalog-service/internal/repository"
	"github.com/user/resale-catalog-service/pkg/metrics"
	"github.com/user/resale-catalog-service/pkg/utils"
)

// listingCardSelectors locate the card wrapping a product anchor, so sold
// markers on the card are seen even when the anchor itself is clean.
const listingCardSelectors = ".product-card, .product-item, article, li"

const recordIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// CrawlParams are the caller-supplied knobs for one crawl run.
type CrawlParams struct {
	Category    string
	MaxPages    int
	TargetCount int
}

// CrawlResult reports what a completed run walked, harvested, and stored.
type CrawlResult struct {
	PagesWalked int
	Harvested   int
	Stored      int
	Stats       entity.CatalogStats
}

// Crawler defines the interface for executing a full crawl run.
type Crawler interface {
	Run(ctx context.Context, params CrawlParams) (CrawlResult, error)
}

// CrawlerOptions configures a crawl session.
type CrawlerOptions struct {
	BaseURL         *url.URL
	PolitenessDelay time.Duration
	DetailRetries   int
	LinksPerPage    int
	DedupExpiry     time.Duration

	// Now and Rand are injectable for deterministic record identifiers.
	Now  func() time.Time
	Rand *rand.Rand
}

type crawlerUseCase struct {
	fetcher      repository.PageFetcher
	frontierRepo repository.FrontierRepository
	visitedRepo  repository.VisitedRepository
	catalogRepo  repository.CatalogRepository
	sizingRepo   repository.SizingRepository

	baseURL      *url.URL
	limiter      *rate.Limiter
	retryDelay   time.Duration
	retries      int
	linksPerPage int
	dedupExpiry  time.Duration

	now func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCrawlerUseCase creates a new instance of the crawler use case.
func NewCrawlerUseCase(
	fetcher repository.PageFetcher,
	frontierRepo repository.FrontierRepository,
	visitedRepo repository.VisitedRepository,
	catalogRepo repository.CatalogRepository,
	sizingRepo repository.SizingRepository,
	opts CrawlerOptions,
) Crawler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(now().UnixNano()))
	}
	return &crawlerUseCase{
		fetcher:      fetcher,
		frontierRepo: frontierRepo,
		visitedRepo:  visitedRepo,
		catalogRepo:  catalogRepo,
		sizingRepo:   sizingRepo,
		baseURL:      opts.BaseURL,
		limiter:      rate.NewLimiter(rate.Every(opts.PolitenessDelay), 1),
		retryDelay:   opts.PolitenessDelay,
		retries:      opts.DetailRetries,
		linksPerPage: opts.LinksPerPage,
		dedupExpiry:  opts.DedupExpiry,
		now:          now,
		rng:          rng,
	}
}

// Run walks the category listing, harvests detail pages, and replaces the
// stored catalog with the processed record set. The sizing chart is loaded
// up front; without it the run cannot enrich and is aborted.
func (uc *crawlerUseCase) Run(ctx context.Context, params CrawlParams) (CrawlResult, error) {
	var result CrawlResult

	chart, err := uc.sizingRepo.Chart(ctx)
	if err != nil {
		return result, err
	}

	if err := uc.frontierRepo.Clear(ctx); err != nil {
		return result, fmt.Errorf("failed to clear frontier: %w", err)
	}

	var accepted []entity.ScrapedProduct

pages:
	for page := 1; page <= params.MaxPages; page++ {
		if len(accepted) >= params.TargetCount {
			break
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		pageURL := utils.ListingPageURL(uc.baseURL, params.Category, page)
		doc, err := uc.fetchListing(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			// A single bad listing page does not end the run.
			metrics.ListingPagesTotal.WithLabelValues("fetch_error").Inc()
			slog.Warn("Listing page fetch failed, skipping", "url", pageURL, "error", err)
			continue
		}
		metrics.ListingPagesTotal.WithLabelValues("ok").Inc()
		result.PagesWalked++

		if err := uc.enqueueLinks(ctx, doc); err != nil {
			return result, err
		}

		for {
			link, err := uc.frontierRepo.Pop(ctx)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					break
				}
				return result, fmt.Errorf("failed to pop from frontier: %w", err)
			}

			record, err := uc.harvest(ctx, link)
			if err != nil && ctx.Err() != nil {
				return result, ctx.Err()
			}
			if err := uc.visitedRepo.MarkVisited(ctx, link, uc.dedupExpiry); err != nil {
				slog.Warn("Failed to mark URL visited", "url", link, "error", err)
			}
			if record == nil {
				continue
			}

			accepted = append(accepted, *record)
			if len(accepted) >= params.TargetCount {
				break pages
			}
		}
	}

	result.Harvested = len(accepted)

	stored, stats, err := uc.process(ctx, accepted, chart)
	if err != nil {
		return result, err
	}
	result.Stored = stored
	result.Stats = stats

	slog.Info("Crawl run finished",
		"pages_walked", result.PagesWalked,
		"harvested", result.Harvested,
		"stored", result.Stored,
	)
	return result, nil
}

func (uc *crawlerUseCase) fetchListing(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := uc.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	start := uc.now()
	doc, err := uc.fetcher.Fetch(ctx, pageURL)
	metrics.FetchDuration.WithLabelValues("listing").Observe(time.Since(start).Seconds())
	return doc, err
}

// enqueueLinks collects candidate detail links from one listing document and
// pushes the not-recently-visited ones onto the frontier. Cards carrying an
// explicit sold marker are skipped; absence of a signal means included.
func (uc *crawlerUseCase) enqueueLinks(ctx context.Context, doc *goquery.Document) error {
	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if !utils.IsProductLink(href) {
			return true
		}

		card := s.Closest(listingCardSelectors)
		if card.Length() > 0 && extract.CardHasSoldSignal(card) {
			return true
		}

		abs, err := utils.ToAbsoluteURL(uc.baseURL, href)
		if err != nil {
			return true
		}
		if _, ok := seen[abs]; ok {
			return true
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
		return len(links) < uc.linksPerPage
	})

	for _, link := range links {
		visited, err := uc.visitedRepo.IsVisited(ctx, link)
		if err != nil {
			return fmt.Errorf("failed to check visited set: %w", err)
		}
		if visited {
			continue
		}
		if err := uc.frontierRepo.Push(ctx, link); err != nil {
			return fmt.Errorf("failed to push to frontier: %w", err)
		}
	}
	return nil
}

// harvest fetches one detail page and builds a raw record from it. Transient
// fetch failures are retried with a doubled delay until the budget runs out;
// permanent failures and discarded pages return nil without error.
func (uc *crawlerUseCase) harvest(ctx context.Context, pageURL string) (*entity.ScrapedProduct, error) {
	backoff := uc.retryDelay

	for attempt := 0; ; attempt++ {
		if err := uc.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		start := uc.now()
		doc, err := uc.fetcher.Fetch(ctx, pageURL)
		metrics.FetchDuration.WithLabelValues("detail").Observe(time.Since(start).Seconds())

		if err == nil {
			return uc.buildRecord(doc, pageURL), nil
		}
		if errors.Is(err, repository.ErrFetchPermanent) {
			metrics.DetailFetchesTotal.WithLabelValues("permanent_error").Inc()
			slog.Debug("Abandoning detail page", "url", pageURL, "error", err)
			return nil, nil
		}

		metrics.DetailFetchesTotal.WithLabelValues("transient_error").Inc()
		if attempt >= uc.retries {
			slog.Warn("Retry budget exhausted for detail page", "url", pageURL, "error", err)
			return nil, nil
		}

		backoff *= 2
		slog.Debug("Transient fetch failure, retrying", "url", pageURL, "backoff", backoff, "error", err)
		if err := sleepCtx(ctx, backoff); err != nil {
			return nil, err
		}
	}
}

// buildRecord runs extraction over a fetched detail document. A nil return
// means the page was discarded: either explicitly sold or missing one of the
// mandatory fields (title, brand, price).
func (uc *crawlerUseCase) buildRecord(doc *goquery.Document, pageURL string) *entity.ScrapedProduct {
	if extract.PageHasSoldSignal(doc) {
		metrics.DetailFetchesTotal.WithLabelValues("discarded").Inc()
		metrics.RecordsDropped.WithLabelValues("harvest", "unavailable").Inc()
		return nil
	}

	fields := extract.Extract(doc, uc.baseURL)
	if fields.Title == "" || fields.Brand == "" || fields.Price == nil {
		metrics.DetailFetchesTotal.WithLabelValues("discarded").Inc()
		metrics.RecordsDropped.WithLabelValues("harvest", "missing_fields").Inc()
		return nil
	}

	metrics.DetailFetchesTotal.WithLabelValues("accepted").Inc()

	category := extract.Categorize(fields.Title, fields.Description)
	return &entity.ScrapedProduct{
		ID:           uc.newRecordID(),
		Title:        fields.Title,
		Brand:        fields.Brand,
		Category:     category,
		Subcategory:  extract.Subcategorize(category, fields.Title),
		Size:         fields.Size,
		Price:        *fields.Price,
		Condition:    fields.Condition,
		URL:          pageURL,
		Images:       fields.Images,
		Measurements: fields.Measurements,
		Description:  fields.Description,
		Availability: entity.Available,
		ScrapedAt:    uc.now(),
	}
}

// process runs the harvested records through normalize, dedupe, enrich, and
// aggregate, then swaps the stored catalog.
func (uc *crawlerUseCase) process(ctx context.Context, accepted []entity.ScrapedProduct, chart entity.SizingChart) (int, entity.CatalogStats, error) {
	normalized := make([]entity.NormalizedProduct, 0, len(accepted))
	for _, rec := range accepted {
		norm, ok := pipeline.Normalize(rec, uc.now())
		if !ok {
			metrics.RecordsDropped.WithLabelValues("normalize", "invalid_price").Inc()
			continue
		}
		normalized = append(normalized, norm)
	}

	deduped := pipeline.Dedupe(normalized)
	for i := len(deduped); i < len(normalized); i++ {
		metrics.RecordsDropped.WithLabelValues("dedupe", "duplicate").Inc()
	}

	enriched := pipeline.EnrichAll(deduped, chart)
	stats := pipeline.Summarize(enriched)

	if err := uc.catalogRepo.ReplaceAll(ctx, enriched); err != nil {
		return 0, entity.CatalogStats{}, fmt.Errorf("failed to store catalog: %w", err)
	}
	metrics.CatalogSize.Set(float64(len(enriched)))

	return len(enriched), stats, nil
}

func (uc *crawlerUseCase) newRecordID() string {
	b := make([]byte, 9)
	uc.mu.Lock()
	for i := range b {
		b[i] = recordIDAlphabet[uc.rng.Intn(len(recordIDAlphabet))]
	}
	uc.mu.Unlock()
	return fmt.Sprintf("rec_%d_%s", uc.now().UnixMilli(), b)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
