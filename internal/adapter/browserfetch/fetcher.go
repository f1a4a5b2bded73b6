package browserfetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/user/resale-catalog-service/internal/identity"
	"github.com/user/resale-catalog-service/internal/repository"
)

// Fetcher renders pages through headless Chrome before parsing. Used when
// the source template only populates client-side; selected via FETCH_MODE.
type Fetcher struct {
	identities *identity.Pool
	timeout    time.Duration
}

// New creates a browser-backed Fetcher.
func New(identities *identity.Pool, timeout time.Duration) *Fetcher {
	return &Fetcher{identities: identities, timeout: timeout}
}

// Fetch navigates to the URL, waits for the body, and parses the rendered
// HTML. Navigation timeouts classify as transient like any network failure.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(f.identities.Pick().UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, f.timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: render %s: %v", repository.ErrFetchTransient, url, err)
		}
		return nil, fmt.Errorf("%w: render %s: %v", repository.ErrFetchPermanent, url, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", repository.ErrFetchPermanent, url, err)
	}
	return doc, nil
}
