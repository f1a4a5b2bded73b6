package httpfetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/resale-catalog-service/internal/identity"
	"github.com/user/resale-catalog-service/internal/repository"
)

// Fetcher issues single GET requests with a rotating browser identity.
// It never retries; callers classify failures via repository.ErrFetchTransient
// and repository.ErrFetchPermanent.
type Fetcher struct {
	client     *http.Client
	identities *identity.Pool
}

// New creates a Fetcher with the given request timeout.
func New(identities *identity.Pool, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		identities: identities,
	}
}

// Fetch performs one GET and parses the body into a goquery document.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %v", repository.ErrFetchPermanent, url, err)
	}

	id := f.identities.Pick()
	req.Header.Set("User-Agent", id.UserAgent)
	for key, value := range id.Headers {
		// Setting Accept-Encoding manually disables the transport's
		// transparent gzip handling, so that one is left to net/http.
		if key == "Accept-Encoding" {
			continue
		}
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		// Timeouts, connection resets, and DNS hiccups are all retryable.
		return nil, fmt.Errorf("%w: GET %s: %v", repository.ErrFetchTransient, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: GET %s: status %d", repository.ErrFetchTransient, url, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s: status %d", repository.ErrFetchPermanent, url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", repository.ErrFetchPermanent, url, err)
	}

	slog.Debug("fetched page", "url", url, "status", resp.StatusCode)
	return doc, nil
}
