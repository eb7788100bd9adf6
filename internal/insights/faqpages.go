package insights

import (
	"context"

	"go.uber.org/zap"

	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/extract"
)

// FAQPaths are dedicated FAQ pages probed in order.
var FAQPaths = []string{
	"/pages/faq",
	"/pages/faqs",
	"/pages/frequently-asked-questions",
	"/faq",
	"/faqs",
	"/help",
}

// faqPages returns the FAQs of the first dedicated FAQ page that has any.
func (a *Assembler) faqPages(ctx context.Context, websiteURL string) []brand.FAQ {
	for _, path := range FAQPaths {
		if ctx.Err() != nil {
			return nil
		}
		pageURL, err := brand.SiteURL(websiteURL, path)
		if err != nil {
			continue
		}
		page, err := a.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			a.logger.Debug("faq page unavailable", zap.String("url", pageURL), zap.Error(err))
			continue
		}
		doc, err := page.Document()
		if err != nil {
			continue
		}
		if faqs := extract.ExtractFAQs(doc); len(faqs) > 0 {
			return faqs
		}
	}
	return nil
}
