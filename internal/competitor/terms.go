package competitor

import (
	"regexp"
	"strings"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

const (
	// MaxSearchTerms caps fallback search terms.
	MaxSearchTerms   = 8
	productTypeScan  = 10
	brandNameTokens  = 3
	urlsPerCategory  = 2
	summaryTermCount = 5
)

var (
	// GenericTerms pad the fallback search terms.
	GenericTerms = []string{"fashion", "beauty"}
	// BroadKeywords match every directory category.
	BroadKeywords = []string{"women", "men", "apparel", "makeup"}

	wordRe = regexp.MustCompile(`\b\w+\b`)
)

// FallbackSearchTerms derives search terms without a text structurer:
// product types from the first catalog entries, brand name words, then
// generic terms, deduplicated and capped at MaxSearchTerms.
func FallbackSearchTerms(primary *brand.Context) []string {
	var candidates []string
	candidates = append(candidates, primary.ProductTypes(productTypeScan)...)

	words := wordRe.FindAllString(strings.ToLower(primary.BrandName), -1)
	if len(words) > brandNameTokens {
		words = words[:brandNameTokens]
	}
	candidates = append(candidates, words...)
	candidates = append(candidates, GenericTerms...)

	seen := make(map[string]struct{}, len(candidates))
	terms := make([]string, 0, MaxSearchTerms)
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		terms = append(terms, c)
		if len(terms) == MaxSearchTerms {
			break
		}
	}
	return terms
}

// termMatches reports whether term selects category.
func termMatches(term, category string) bool {
	term = strings.ToLower(term)
	if strings.Contains(term, category) {
		return true
	}
	for _, kw := range BroadKeywords {
		if strings.Contains(term, kw) {
			return true
		}
	}
	return false
}
