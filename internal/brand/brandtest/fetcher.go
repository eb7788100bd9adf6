// Package brandtest provides in-memory fakes of the brand collaborators for
// tests.
package brandtest

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

// StaticFetcher serves fixed bodies keyed by absolute URL. Unknown URLs fail
// with a 404-style error.
type StaticFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	errs   map[string]error
	visits []string
}

// NewStaticFetcher returns a fetcher serving pages.
func NewStaticFetcher(pages map[string]string) *StaticFetcher {
	if pages == nil {
		pages = map[string]string{}
	}
	return &StaticFetcher{pages: pages, errs: map[string]error{}}
}

// Set registers body for rawURL.
func (f *StaticFetcher) Set(rawURL, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[rawURL] = body
}

// Fail makes rawURL return err.
func (f *StaticFetcher) Fail(rawURL string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[rawURL] = err
}

// Fetch implements brand.Fetcher.
func (f *StaticFetcher) Fetch(ctx context.Context, rawURL string) (*brand.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("static fetch canceled: %w", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits = append(f.visits, rawURL)
	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	body, ok := f.pages[rawURL]
	if !ok {
		return nil, fmt.Errorf("status %d: %s", http.StatusNotFound, rawURL)
	}
	return &brand.Page{
		URL:        rawURL,
		FinalURL:   rawURL,
		StatusCode: http.StatusOK,
		Body:       []byte(body),
	}, nil
}

// Visits returns every URL requested so far, in order.
func (f *StaticFetcher) Visits() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.visits...)
}
