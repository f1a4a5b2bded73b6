package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/resale-catalog-service/internal/entity"
	"github.com/user/resale-catalog-service/internal/repository"
	"github.com/user/resale-catalog-service/pkg/utils"
)

const testBase = "https://resale.test"

type crawlFixture struct {
	fetcher  *fakeFetcher
	frontier *fakeFrontier
	visited  *fakeVisited
	catalog  *fakeCatalog
	sizing   *fakeSizing
	crawler  Crawler
}

func newCrawlFixture(t *testing.T) *crawlFixture {
	t.Helper()
	base, err := url.Parse(testBase)
	require.NoError(t, err)

	f := &crawlFixture{
		fetcher:  newFakeFetcher(),
		frontier: &fakeFrontier{},
		visited:  newFakeVisited(),
		catalog:  &fakeCatalog{},
		sizing:   &fakeSizing{chart: entity.SizingChart{}},
	}
	f.crawler = NewCrawlerUseCase(f.fetcher, f.frontier, f.visited, f.catalog, f.sizing, CrawlerOptions{
		BaseURL:         base,
		PolitenessDelay: 0,
		DetailRetries:   2,
		LinksPerPage:    25,
		DedupExpiry:     time.Hour,
		Now:             func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		Rand:            rand.New(rand.NewSource(1)),
	})
	return f
}

func (f *crawlFixture) listingPage(category string, page int, html string) string {
	base, _ := url.Parse(testBase)
	pageURL := utils.ListingPageURL(base, category, page)
	f.fetcher.pages[pageURL] = html
	return pageURL
}

func listingHTML(cards ...string) string {
	return `<html><body><div class="product-grid">` + strings.Join(cards, "") + `</div></body></html>`
}

func card(href string) string {
	return fmt.Sprintf(`<article class="product-card"><a href="%s">item</a></article>`, href)
}

func soldCard(href string) string {
	return fmt.Sprintf(`<article class="product-card"><span class="sold-badge">Sold</span><a href="%s">item</a></article>`, href)
}

func detailHTML(title, brand, price string) string {
	return fmt.Sprintf(`<html><body>
		<h1 data-testid="product-title">%s</h1>
		<div data-testid="product-brand">%s</div>
		<span data-testid="product-price">%s</span>
		<div class="product-size">M</div>
	</body></html>`, title, brand, price)
}

func (f *crawlFixture) detailPage(path, html string) string {
	pageURL := testBase + path
	f.fetcher.pages[pageURL] = html
	return pageURL
}

func TestRunHarvestsAndStoresCatalog(t *testing.T) {
	f := newCrawlFixture(t)
	f.listingPage("women/dresses", 1, listingHTML(
		card("/products/silk-dress"),
		card("/products/wool-coat"),
	))
	f.detailPage("/products/silk-dress", detailHTML("Silk Midi Dress", "chanel", "$1,250.00"))
	f.detailPage("/products/wool-coat", detailHTML("Wool Coat", "Prada", "$890"))

	result, err := f.crawler.Run(context.Background(), CrawlParams{
		Category: "women/dresses", MaxPages: 1, TargetCount: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.PagesWalked)
	assert.Equal(t, 2, result.Harvested)
	assert.Equal(t, 2, result.Stored)

	require.Len(t, f.catalog.stored, 2)
	first := f.catalog.stored[0]
	assert.Equal(t, "Silk Midi Dress", first.Title)
	assert.Equal(t, "Chanel", first.Brand)
	assert.Equal(t, 1250.0, first.Price)
	assert.Equal(t, entity.CategoryDresses, first.Category)
	assert.Equal(t, 2, result.Stats.Total)
}

func TestRunRecordIDFormat(t *testing.T) {
	f := newCrawlFixture(t)
	f.listingPage("women/tops", 1, listingHTML(card("/products/silk-blouse")))
	f.detailPage("/products/silk-blouse", detailHTML("Silk Blouse", "Gucci", "$420"))

	_, err := f.crawler.Run(context.Background(), CrawlParams{Category: "women/tops", MaxPages: 1, TargetCount: 1})
	require.NoError(t, err)

	require.Len(t, f.catalog.stored, 1)
	assert.Regexp(t, regexp.MustCompile(`^rec_\d+_[0-9a-z]{9}$`), f.catalog.stored[0].ID)
}

func TestRunSkipsSoldListingCards(t *testing.T) {
	f := newCrawlFixture(t)
	f.listingPage("women/dresses", 1, listingHTML(
		soldCard("/products/gone"),
		card("/products/available"),
	))
	f.detailPage("/products/available", detailHTML("Day Dress", "Gucci", "$300"))

	result, err := f.crawler.Run(context.Background(), CrawlParams{Category: "women/dresses", MaxPages: 1, TargetCount: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Harvested)
	assert.Zero(t, f.fetcher.fetchCount(testBase+"/products/gone"))
}

func TestRunDiscardsSoldDetailPage(t *testing.T) {
	f := newCrawlFixture(t)
	f.listingPage("women/dresses", 1, listingHTML(card("/products/late-sale")))
	f.detailPage("/products/late-sale", `<html><body>
		<h1>Slip Dress</h1><div class="product-brand">Prada</div>
		<span class="price">$500</span>
		<div class="sold-out">Sold Out</div>
	</body></html>`)

	result, err := f.crawler.Run(context.Background(), CrawlParams{Category: "women/dresses", MaxPages: 1, TargetCount: 10})
	require.NoError(t, err)
	assert.Zero(t, result.Harvested)
	assert.Empty(t, f.catalog.stored)
}

func TestRunDiscardsRecordsMissingMandatoryFields(t *testing.T) {
	f := newCrawlFixture(t)
	f.listingPage("women/dresses", 1, listingHTML(
		card("/products/no-brand"),
		card("/products/no-price"),
	))
	f.detailPage("/products/no-brand", `<html><body><h1>Mystery Dress</h1><span class="price">$100</span></body></html>`)
	f.detailPage("/products/no-price", `<html><body><h1>Dress</h1><div class="product-brand">Prada</div></body></html>`)

	result, err := f.crawler.Run(context.Background(), CrawlParams{Category: "women/dresses", MaxPages: 1, TargetCount: 10})
	require.NoError(t, err)
	assert.Zero(t, result.Harvested)
}

func TestRunCapsLinksPerPage(t *testing.T) {
	f := newCrawlFixture(t)

	var cards []string
	for i := 0; i < 40; i++ {
		path := fmt.Sprintf("/products/item-%d", i)
		cards = append(cards, card(path))
		f.detailPage(path, detailHTML(fmt.Sprintf("Dress %d", i), "Gucci", fmt.Sprintf("$%d", 100+i)))
	}
	f.listingPage("women/dresses", 1, listingHTML(cards...))

	result, err := f.crawler.Run(context.Background(), CrawlParams{Category: "women/dresses", MaxPages: 1, TargetCount: 100})
	require.NoError(t, err)
	assert.Equal(t, 25, result.Harvested)
}

func TestRunStopsMidPageAtTargetCount(t *testing.T) {
	f := newCrawlFixture(t)

	var cards []string
	for i := 0; i < 10; i++ {
		path := fmt.Sprintf("/products/item-%d", i)
		cards = append(cards, card(path))
		f.detailPage(path, detailHTML(fmt.Sprintf("Dress %d", i), "Gucci", fmt.Sprintf("$%d", 100+i)))
	}
	f.listingPage("women/dresses", 1, listingHTML(cards...))

	result, err := f.crawler.Run(context.Background(), CrawlParams{Category: "women/dresses", MaxPages: 5, TargetCount: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Harvested)
	// the remaining links on the page were never fetched
	assert.Zero(t, f.fetcher.fetchCount(testBase+"/products/item-3"))
	// page 2 was never requested either
	base, _ := url.Parse(testBase)
	assert.Zero(t, f.fetcher.fetchCount(utils.ListingPageURL(base, "women/dresses", 2)))
}

func TestRunRetriesTransientDetailFailures(t *testing.T) {
	f := newCrawlFixture(t)
	f.listingPage("women/dresses", 1, listingHTML(card("/products/flaky")))
	flaky := f.detailPage("/products/flaky", detailHTML("Wrap Dress", "Prada", "$600"))
	f.fetcher.errs[flaky] = []error{
		fmt.Errorf("%w: 502", repository.ErrFetchTransient),
		fmt.Errorf("%w: timeout", repository.ErrFetchTransient),
	}

	result, err := f.crawler.Run(context.Background(), CrawlParams{Category: "women/dresses", MaxPages: 1, TargetCount: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Harvested)
	assert.Equal(t, 3, f.fetcher.fetchCount(flaky))
}

func TestRunAbandonsAfterRetryBudget(t *testing.T) {
	f := newCrawlFixture(t)
	f.listingPage("women/dresses", 1, listingHTML(card("/products/down")))
	down := f.detailPage("/products/down", detailHTML("Dress", "Prada", "$600"))
	f.fetcher.errs[down] = []error{
		fmt.Errorf("%w: 502", repository.ErrFetchTransient),
		fmt.Errorf("%w: 502", repository.ErrFetchTransient),
		fmt.Errorf("%w: 502", repository.ErrFetchTransient),
	}

	result, err := f.crawler.Run(context.Background(), CrawlParams{Category: "women/dresses", MaxPages: 1, TargetCount: 10})
	require.NoError(t, err)

	assert.Zero(t, result.Harvested)
	// initial attempt plus two retries
	assert.Equal(t, 3, f.fetcher.fetchCount(down))
}

func TestRunDoesNotRetryPermanentFailures(t *testing.T) {
	f := newCrawlFixture(t)
	f.listingPage("women/dresses", 1, listingHTML(card("/products/missing")))
	missing := testBase + "/products/missing"

	result, err := f.crawler.Run(context.Background(), CrawlParams{Category: "women/dresses", MaxPages: 1, TargetCount: 10})
	require.NoError(t, err)

	assert.Zero(t, result.Harvested)
	assert.Equal(t, 1, f.fetcher.fetchCount(missing))
}

func TestRunSkipsRecentlyVisitedLinks(t *testing.T) {
	f := newCrawlFixture(t)
	f.listingPage("women/dresses", 1, listingHTML(card("/products/old"), card("/products/new")))
	old := testBase + "/products/old"
	require.NoError(t, f.visited.MarkVisited(context.Background(), old, time.Hour))
	f.detailPage("/products/new", detailHTML("New Dress", "Gucci", "$450"))

	result, err := f.crawler.Run(context.Background(), CrawlParams{Category: "women/dresses", MaxPages: 1, TargetCount: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Harvested)
	assert.Zero(t, f.fetcher.fetchCount(old))
}

func TestRunDeduplicatesAcrossPages(t *testing.T) {
	f := newCrawlFixture(t)
	f.listingPage("women/dresses", 1, listingHTML(card("/products/a")))
	f.listingPage("women/dresses", 2, listingHTML(card("/products/b")))
	f.detailPage("/products/a", detailHTML("Silk Dress", "Chanel", "$1250"))
	f.detailPage("/products/b", detailHTML("Silk Dress", "Chanel", "$1250"))

	result, err := f.crawler.Run(context.Background(), CrawlParams{Category: "women/dresses", MaxPages: 2, TargetCount: 10})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Harvested)
	assert.Equal(t, 1, result.Stored)
	require.Len(t, f.catalog.stored, 1)
	assert.Equal(t, testBase+"/products/a", f.catalog.stored[0].URL)
}

func TestRunContinuesPastFailedListingPage(t *testing.T) {
	f := newCrawlFixture(t)
	// page 1 has no canned HTML, so its fetch fails permanently
	f.listingPage("women/dresses", 2, listingHTML(card("/products/ok")))
	f.detailPage("/products/ok", detailHTML("Dress", "Gucci", "$200"))

	result, err := f.crawler.Run(context.Background(), CrawlParams{Category: "women/dresses", MaxPages: 2, TargetCount: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, result.PagesWalked)
	assert.Equal(t, 1, result.Harvested)
}

func TestRunAbortsWhenSizingChartUnavailable(t *testing.T) {
	f := newCrawlFixture(t)
	f.sizing.err = fmt.Errorf("%w: missing file", repository.ErrSizingChartUnavailable)

	_, err := f.crawler.Run(context.Background(), CrawlParams{Category: "women/dresses", MaxPages: 1, TargetCount: 10})
	assert.True(t, errors.Is(err, repository.ErrSizingChartUnavailable))
	assert.Empty(t, f.fetcher.calls)
}

func TestRunStopsOnContextCancellation(t *testing.T) {
	f := newCrawlFixture(t)
	f.listingPage("women/dresses", 1, listingHTML(card("/products/a")))
	f.detailPage("/products/a", detailHTML("Dress", "Gucci", "$200"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.crawler.Run(ctx, CrawlParams{Category: "women/dresses", MaxPages: 1, TargetCount: 10})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, f.catalog.stored)
}

func TestRunEnrichesFromSizingChart(t *testing.T) {
	f := newCrawlFixture(t)
	f.sizing.chart = entity.SizingChart{
		"Gucci": entity.BrandChart{
			Categories: map[string]map[string]entity.Measurements{
				"dresses": {"M": {"bust": 35, "waist": 27.5}},
			},
			FitNotes: "True to size.",
		},
	}
	f.listingPage("women/dresses", 1, listingHTML(card("/products/plain")))
	f.detailPage("/products/plain", detailHTML("Shift Dress", "Gucci", "$350"))

	_, err := f.crawler.Run(context.Background(), CrawlParams{Category: "women/dresses", MaxPages: 1, TargetCount: 10})
	require.NoError(t, err)

	require.Len(t, f.catalog.stored, 1)
	rec := f.catalog.stored[0]
	assert.Equal(t, entity.Measurements{"bust": 35.0, "waist": 27.5}, rec.Measurements)
	assert.Equal(t, entity.MeasurementsEstimated, rec.MeasurementsSource)
	assert.Equal(t, "True to size.", rec.BrandFitNotes)
}
