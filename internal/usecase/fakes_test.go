package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/resale-catalog-service/internal/entity"
	"github.com/user/resale-catalog-service/internal/repository"
)

// fakeFetcher serves canned HTML per URL and can inject an error sequence
// before a URL starts succeeding.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	errs  map[string][]error
	calls []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: make(map[string]string),
		errs:  make(map[string][]error),
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*goquery.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, url)
	if queue := f.errs[url]; len(queue) > 0 {
		err := queue[0]
		f.errs[url] = queue[1:]
		return nil, err
	}
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("%w: no page for %s", repository.ErrFetchPermanent, url)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (f *fakeFetcher) fetchCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == url {
			n++
		}
	}
	return n
}

type fakeFrontier struct {
	mu    sync.Mutex
	queue []string
}

func (f *fakeFrontier) Push(_ context.Context, urls ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, urls...)
	return nil
}

func (f *fakeFrontier) Pop(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return "", repository.ErrNotFound
	}
	url := f.queue[0]
	f.queue = f.queue[1:]
	return url, nil
}

func (f *fakeFrontier) Size(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.queue)), nil
}

func (f *fakeFrontier) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = nil
	return nil
}

type fakeVisited struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeVisited() *fakeVisited {
	return &fakeVisited{seen: make(map[string]bool)}
}

func (f *fakeVisited) MarkVisited(_ context.Context, url string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen[url] = true
	return nil
}

func (f *fakeVisited) IsVisited(_ context.Context, url string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[url], nil
}

type fakeCatalog struct {
	mu     sync.Mutex
	stored []entity.NormalizedProduct
}

func (f *fakeCatalog) ReplaceAll(_ context.Context, products []entity.NormalizedProduct) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append([]entity.NormalizedProduct(nil), products...)
	return nil
}

func (f *fakeCatalog) List(_ context.Context, _ repository.ProductFilter) ([]entity.NormalizedProduct, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored, len(f.stored), nil
}

func (f *fakeCatalog) FindByID(_ context.Context, id string) (*entity.NormalizedProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.stored {
		if f.stored[i].ID == id {
			return &f.stored[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCatalog) FetchAll(_ context.Context) ([]entity.NormalizedProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored, nil
}

type fakeSizing struct {
	chart entity.SizingChart
	err   error
}

func (f *fakeSizing) Chart(_ context.Context) (entity.SizingChart, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chart, nil
}
