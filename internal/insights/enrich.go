package insights

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/extract"
)

const (
	// minFAQsBeforeEnrichment is the FAQ count below which the structurer is
	// asked for more.
	minFAQsBeforeEnrichment = 3
	enrichmentTextLimit     = 5000
	minPhoneDigits          = 7
)

// enrich rewrites the about text, tops up FAQs and fills in contact details
// and social handles the page extractors missed, using the structurer. Its
// failures are noted but never flip ExtractionSuccess.
func (a *Assembler) enrich(ctx context.Context, bc *brand.Context, doc *goquery.Document) {
	var failed bool

	if bc.AboutBrand != "" {
		desc, err := a.structurer.EnhanceDescription(ctx, bc.AboutBrand, bc.BrandName)
		switch {
		case err != nil:
			failed = true
			a.logger.Warn("description enhancement failed", zap.String("url", bc.WebsiteURL), zap.Error(err))
		case desc != "":
			bc.AboutBrand = desc
		}
	}

	if len(bc.FAQs) < minFAQsBeforeEnrichment {
		text := brand.Truncate(extract.PageText(doc), enrichmentTextLimit)
		faqs, err := a.structurer.StructureFAQs(ctx, text)
		if err != nil {
			failed = true
			a.logger.Warn("faq structuring failed", zap.String("url", bc.WebsiteURL), zap.Error(err))
		} else {
			bc.MergeFAQs(faqs)
		}
	}

	if len(bc.ContactInfo.Emails) == 0 && len(bc.ContactInfo.PhoneNumbers) == 0 {
		text := brand.Truncate(extract.PageText(doc), enrichmentTextLimit)
		info, err := a.structurer.ExtractContactInfo(ctx, text)
		switch {
		case err != nil:
			failed = true
			a.logger.Warn("contact structuring failed", zap.String("url", bc.WebsiteURL), zap.Error(err))
		case info != nil:
			mergeContact(&bc.ContactInfo, info)
		}
	}

	if len(bc.SocialHandles) == 0 {
		handles, err := a.structurer.ExtractSocialHandles(ctx, linkText(doc))
		if err != nil {
			failed = true
			a.logger.Warn("social structuring failed", zap.String("url", bc.WebsiteURL), zap.Error(err))
		} else {
			bc.SocialHandles = mergeHandles(bc.SocialHandles, handles)
		}
	}

	if failed {
		bc.AddNote("LLM enhancement partially failed")
		return
	}
	bc.AddNote("Enhanced data using LLM processing")
}

// linkText lists every anchor as "text: href", one per line, so profile URLs
// that never appear in visible text still reach the structurer.
func linkText(doc *goquery.Document) string {
	var b strings.Builder
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		b.WriteString(strings.TrimSpace(sel.Text()))
		b.WriteString(": ")
		b.WriteString(href)
		b.WriteByte('\n')
	})
	return brand.Truncate(b.String(), enrichmentTextLimit)
}

func mergeContact(dst *brand.ContactInfo, src *brand.ContactInfo) {
	dst.Emails = appendUnique(dst.Emails, src.Emails)
	phones := make([]string, 0, len(src.PhoneNumbers))
	for _, p := range src.PhoneNumbers {
		if digits := digitsOnly(p); len(digits) >= minPhoneDigits {
			phones = append(phones, digits)
		}
	}
	dst.PhoneNumbers = appendUnique(dst.PhoneNumbers, phones)
	if dst.Address == nil && src.Address != nil && strings.TrimSpace(*src.Address) != "" {
		addr := strings.TrimSpace(*src.Address)
		dst.Address = &addr
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func appendUnique(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, v := range src {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}

// mergeHandles appends handles not already present by (platform, URL).
func mergeHandles(dst, src []brand.SocialHandle) []brand.SocialHandle {
	type key struct {
		platform brand.Platform
		url      string
	}
	seen := make(map[key]struct{}, len(dst))
	for _, h := range dst {
		seen[key{h.Platform, h.URL}] = struct{}{}
	}
	for _, h := range src {
		k := key{h.Platform, h.URL}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		dst = append(dst, h)
	}
	return dst
}
