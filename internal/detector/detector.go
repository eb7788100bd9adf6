// Package detector decides whether a URL is a supported storefront.
package detector

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/catalog"
	"github.com/JakeFAU/storefront-insights/internal/logging"
)

// DefaultPlatform is the commerce platform whose storefronts are supported.
const DefaultPlatform = "shopify"

// Detector probes the product feed first and falls back to homepage markers.
type Detector struct {
	fetcher  brand.Fetcher
	platform string
	logger   *zap.Logger
}

// New creates a detector for DefaultPlatform.
func New(fetcher brand.Fetcher, logger *zap.Logger) *Detector {
	return &Detector{
		fetcher:  fetcher,
		platform: DefaultPlatform,
		logger:   logging.OrNop(logger).Named("detector"),
	}
}

// IsSupportedStore reports whether rawURL exposes a non-empty product feed or
// carries platform markers. Network failures count as "no signal".
func (d *Detector) IsSupportedStore(ctx context.Context, rawURL string) bool {
	if d.hasProducts(ctx, rawURL) {
		return true
	}
	page, err := d.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		d.logger.Debug("homepage probe failed", zap.String("url", rawURL), zap.Error(err))
		return false
	}
	doc, err := page.Document()
	if err != nil {
		return false
	}
	return HasPlatformMarkers(doc, d.platform)
}

func (d *Detector) hasProducts(ctx context.Context, rawURL string) bool {
	feedURL, err := brand.SiteURL(rawURL, catalog.FeedPath)
	if err != nil {
		return false
	}
	page, err := d.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		d.logger.Debug("feed probe failed", zap.String("url", feedURL), zap.Error(err))
		return false
	}
	feed, err := catalog.DecodeFeed(page.Body)
	if err != nil {
		d.logger.Debug("feed probe returned non-feed body", zap.String("url", feedURL), zap.Error(err))
		return false
	}
	return len(feed.Products) > 0
}

// HasPlatformMarkers looks for a generator meta tag, a script src or link
// href, or any text mentioning platform (case-insensitive).
func HasPlatformMarkers(doc *goquery.Document, platform string) bool {
	if doc == nil || platform == "" {
		return false
	}
	needle := strings.ToLower(platform)
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), needle)
	}

	generator := doc.Find("meta[name]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		return strings.EqualFold(strings.TrimSpace(name), "generator")
	})
	markers := []struct {
		sel  *goquery.Selection
		attr string
	}{
		{generator, "content"},
		{doc.Find("script[src]"), "src"},
		{doc.Find("link[href]"), "href"},
	}
	for _, m := range markers {
		found := false
		m.sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			v, _ := s.Attr(m.attr)
			found = contains(v)
			return !found
		})
		if found {
			return true
		}
	}
	return contains(doc.Text())
}
