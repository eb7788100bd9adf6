// Package catalog resolves a storefront's structured product feed, its
// collections listing, and the hero products featured on the homepage.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/logging"
)

// DescriptionLimit caps product descriptions.
const DescriptionLimit = 500

// FeedPath is the conventional product feed location.
const FeedPath = "/products.json"

// Resolver fetches and normalizes the product feed.
type Resolver struct {
	fetcher brand.Fetcher
	logger  *zap.Logger
}

// NewResolver builds a Resolver.
func NewResolver(fetcher brand.Fetcher, logger *zap.Logger) *Resolver {
	return &Resolver{fetcher: fetcher, logger: logging.OrNop(logger).Named("catalog")}
}

// Resolve returns the normalized catalog in feed order. An unavailable feed
// is reported as an error; malformed entries are logged and skipped.
func (r *Resolver) Resolve(ctx context.Context, baseURL string) ([]brand.Product, error) {
	feedURL, err := brand.SiteURL(baseURL, FeedPath)
	if err != nil {
		return nil, err
	}
	page, err := r.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch product feed: %w", err)
	}
	feed, err := DecodeFeed(page.Body)
	if err != nil {
		return nil, err
	}

	products := make([]brand.Product, 0, len(feed.Products))
	for i, raw := range feed.Products {
		product, err := normalize(baseURL, raw)
		if err != nil {
			r.logger.Warn("skipping product entry",
				zap.String("url", baseURL),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

func normalize(baseURL string, raw []byte) (brand.Product, error) {
	entry, err := decodeEntry(raw)
	if err != nil {
		return brand.Product{}, err
	}
	productURL, err := brand.SiteURL(baseURL, "/products/"+entry.Handle)
	if err != nil {
		return brand.Product{}, fmt.Errorf("build product url for %q: %w", entry.Handle, err)
	}

	p := brand.Product{
		ID:          derefOr(stringValue(entry.ID), ""),
		Title:       entry.Title,
		Description: CleanHTML(entry.BodyHTML, DescriptionLimit),
		Vendor:      entry.Vendor,
		ProductType: entry.ProductType,
		Handle:      entry.Handle,
		URL:         productURL,
		Images:      make([]string, 0, len(entry.Images)),
		Variants:    entry.Variants,
		Tags:        []string(entry.Tags),
	}
	for _, img := range entry.Images {
		p.Images = append(p.Images, img.Src)
	}
	if p.Variants == nil {
		p.Variants = []map[string]any{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if len(entry.Variants) > 0 {
		first := entry.Variants[0]
		p.Price = stringValue(first["price"])
		p.CompareAtPrice = stringValue(first["compare_at_price"])
		p.Available, _ = first["available"].(bool)
	}
	return p, nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// CleanHTML converts an HTML fragment to whitespace-collapsed text without
// script or style content, cut to limit runes.
func CleanHTML(fragment string, limit int) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return brand.Truncate(fragment, limit)
	}
	doc.Find("script, style").Remove()
	return brand.Truncate(strings.Join(strings.Fields(doc.Text()), " "), limit)
}
