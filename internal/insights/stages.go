package insights

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/catalog"
	"github.com/JakeFAU/storefront-insights/internal/extract"
)

const feedUnavailableNote = "Product feed unavailable; catalog left empty"

// stages lists the pipeline in execution order. The catalog stage must run
// before the hero stage.
func (a *Assembler) stages(websiteURL string, doc *goquery.Document, bc *brand.Context) []stage {
	return []stage{
		{name: "brand info", run: func(context.Context) error {
			info := extract.ExtractBrandInfo(doc)
			bc.BrandName = info.Name
			bc.AboutBrand = info.Description
			return nil
		}},
		{name: "product catalog", run: func(ctx context.Context) error {
			products, err := a.catalog.Resolve(ctx, websiteURL)
			if err != nil {
				// A missing feed leaves an empty catalog, like a missed policy probe.
				a.logger.Warn("product feed unavailable", zap.String("url", websiteURL), zap.Error(err))
				bc.AddNote(feedUnavailableNote)
				return nil
			}
			bc.SetCatalog(products)
			return nil
		}},
		{name: "collections", run: func(ctx context.Context) error {
			n, err := a.catalog.CountCollections(ctx, websiteURL)
			if err != nil {
				// Auxiliary signal only.
				a.logger.Debug("collections probe failed", zap.String("url", websiteURL), zap.Error(err))
				return nil
			}
			bc.AddNote(fmt.Sprintf("Found %d collections", n))
			return nil
		}},
		{name: "hero products", run: func(context.Context) error {
			bc.HeroProducts = catalog.ResolveHeroes(bc.ProductCatalog, catalog.HeroHandles(doc))
			return nil
		}},
		{name: "social handles", run: func(context.Context) error {
			bc.SocialHandles = extract.ExtractSocialHandles(doc, websiteURL)
			return nil
		}},
		{name: "contact info", run: func(context.Context) error {
			bc.ContactInfo = extract.ExtractContactInfo(doc)
			return nil
		}},
		{name: "faqs", run: func(ctx context.Context) error {
			bc.MergeFAQs(extract.ExtractFAQs(doc))
			bc.MergeFAQs(a.faqPages(ctx, websiteURL))
			return nil
		}},
		{name: "policies", run: func(ctx context.Context) error {
			bc.Policies = a.policies.Resolve(ctx, websiteURL)
			return nil
		}},
		{name: "important links", run: func(context.Context) error {
			bc.ImportantLinks = extract.ExtractImportantLinks(doc, websiteURL)
			return nil
		}},
		{name: "locale", run: func(context.Context) error {
			bc.Currency = extract.ExtractCurrency(doc)
			bc.Country = extract.ExtractCountry(doc)
			return nil
		}},
	}
}
