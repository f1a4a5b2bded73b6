package repository

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// PageFetcher issues a single HTTP GET for one page and returns the parsed
// document. Implementations attach a rotating browser identity per call and
// perform no retries; failed fetches are classified via ErrFetchTransient /
// ErrFetchPermanent and retry policy belongs to the caller.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}
