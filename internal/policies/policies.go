// Package policies probes conventional store policy paths.
package policies

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/extract"
	"github.com/JakeFAU/storefront-insights/internal/logging"
)

const (
	// MinContentLength is the shortest trimmed policy text accepted.
	MinContentLength = 100
	// ContentLimit caps stored policy text.
	ContentLimit = 2000
)

// CandidatePaths lists, per category, the paths probed in order.
var CandidatePaths = map[brand.PolicyCategory][]string{
	brand.PolicyPrivacy:  {"/pages/privacy-policy", "/privacy-policy", "/pages/privacy"},
	brand.PolicyReturn:   {"/pages/returns", "/pages/return-policy", "/returns"},
	brand.PolicyRefund:   {"/pages/refunds", "/pages/refund-policy", "/refunds"},
	brand.PolicyTerms:    {"/pages/terms-of-service", "/terms", "/pages/terms"},
	brand.PolicyShipping: {"/pages/shipping-policy", "/pages/shipping", "/shipping"},
}

var contentSelectors = []string{
	"main",
	"article",
	`div[class*="content"]`,
	`div[class*="policy"]`,
}

// Resolver fetches policy pages.
type Resolver struct {
	fetcher brand.Fetcher
	logger  *zap.Logger
}

// NewResolver builds a Resolver.
func NewResolver(fetcher brand.Fetcher, logger *zap.Logger) *Resolver {
	return &Resolver{fetcher: fetcher, logger: logging.OrNop(logger).Named("policies")}
}

// Resolve returns the accepted policy per category. Categories with no
// acceptable candidate are absent from the map.
func (r *Resolver) Resolve(ctx context.Context, baseURL string) map[brand.PolicyCategory]*brand.Policy {
	out := make(map[brand.PolicyCategory]*brand.Policy, len(brand.PolicyCategories))
	for _, category := range brand.PolicyCategories {
		if ctx.Err() != nil {
			break
		}
		if p := r.resolveCategory(ctx, baseURL, category); p != nil {
			out[category] = p
		}
	}
	return out
}

func (r *Resolver) resolveCategory(ctx context.Context, baseURL string, category brand.PolicyCategory) *brand.Policy {
	for _, path := range CandidatePaths[category] {
		candidate, err := brand.SiteURL(baseURL, path)
		if err != nil {
			continue
		}
		page, err := r.fetcher.Fetch(ctx, candidate)
		if err != nil {
			r.logger.Debug("policy candidate unavailable",
				zap.String("category", string(category)),
				zap.String("url", candidate),
				zap.Error(err),
			)
			continue
		}
		doc, err := page.Document()
		if err != nil {
			continue
		}
		content, ok := PolicyContent(doc)
		if !ok {
			continue
		}
		return &brand.Policy{
			Category: category,
			Title:    category.Title(),
			Content:  content,
			URL:      candidate,
		}
	}
	return nil
}

// PolicyContent returns the text of the first content block and whether it
// is long enough to count as a policy. Text is cut to ContentLimit.
func PolicyContent(doc *goquery.Document) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, sel := range contentSelectors {
		block := doc.Find(sel).First()
		if block.Length() == 0 {
			continue
		}
		text := extract.Text(block)
		if len([]rune(text)) < MinContentLength {
			return "", false
		}
		return brand.Truncate(text, ContentLimit), true
	}
	return "", false
}
