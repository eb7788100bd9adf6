package competitor

import (
	"fmt"
	"strings"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

// Market classifications.
const (
	Unknown = "unknown"

	LargeCatalog   = "large_catalog"
	FocusedCatalog = "focused_catalog"
	AverageCatalog = "average_catalog"

	SocialStrong  = "strong"
	SocialWeak    = "weak"
	SocialAverage = "average"

	UniqueOfferings   = "unique_offerings"
	SimilarToMarket   = "similar_to_market"
	BalancedPortfolio = "balanced_portfolio"
)

// Summary renders the one-line analysis summary.
func Summary(primary *brand.Context, competitors []*brand.Context, terms []string) string {
	shown := terms
	if len(shown) > summaryTermCount {
		shown = shown[:summaryTermCount]
	}
	parts := []string{
		"Competitor Analysis for " + primary.DisplayName(),
		"Search terms used: " + strings.Join(shown, ", "),
		fmt.Sprintf("Found %d competitor(s)", len(competitors)),
	}
	if len(competitors) > 0 {
		names := make([]string, 0, len(competitors))
		for _, c := range competitors {
			names = append(names, c.DisplayName())
		}
		parts = append(parts,
			"Competitors analyzed: "+strings.Join(names, ", "),
			fmt.Sprintf("Product catalog size - Primary: %d, Competitors avg: %.0f",
				primary.TotalProducts, average(competitors, func(c *brand.Context) int { return c.TotalProducts })),
		)
	}
	return strings.Join(parts, " | ")
}

// Insights classifies primary against competitors. Every field is Unknown
// when there are no competitors; price positioning is not derived.
func Insights(primary *brand.Context, competitors []*brand.Context) *brand.MarketInsights {
	mi := &brand.MarketInsights{
		MarketPosition:   Unknown,
		ProductDiversity: Unknown,
		PricePositioning: Unknown,
		SocialPresence:   Unknown,
	}
	if len(competitors) == 0 {
		return mi
	}
	mi.MarketPosition = catalogPosition(primary, competitors)
	mi.SocialPresence = socialPresence(primary, competitors)
	mi.ProductDiversity = productDiversity(primary, competitors)
	return mi
}

func catalogPosition(primary *brand.Context, competitors []*brand.Context) string {
	avg := average(competitors, func(c *brand.Context) int { return c.TotalProducts })
	size := float64(primary.TotalProducts)
	switch {
	case size > avg*1.2:
		return LargeCatalog
	case size < avg*0.8:
		return FocusedCatalog
	default:
		return AverageCatalog
	}
}

func socialPresence(primary *brand.Context, competitors []*brand.Context) string {
	avg := average(competitors, func(c *brand.Context) int { return len(c.SocialHandles) })
	n := float64(len(primary.SocialHandles))
	switch {
	case n > avg:
		return SocialStrong
	case n < avg:
		return SocialWeak
	default:
		return SocialAverage
	}
}

// productDiversity compares the primary's distinct product types that no
// competitor carries against those shared with at least one competitor.
func productDiversity(primary *brand.Context, competitors []*brand.Context) string {
	market := make(map[string]struct{})
	for _, c := range competitors {
		for _, t := range c.ProductTypes(0) {
			market[t] = struct{}{}
		}
	}
	unique, overlap := 0, 0
	for _, t := range primary.ProductTypes(0) {
		if _, ok := market[t]; ok {
			overlap++
		} else {
			unique++
		}
	}
	switch {
	case unique > overlap:
		return UniqueOfferings
	case overlap > unique:
		return SimilarToMarket
	default:
		return BalancedPortfolio
	}
}

func average(cs []*brand.Context, value func(*brand.Context) int) float64 {
	if len(cs) == 0 {
		return 0
	}
	total := 0
	for _, c := range cs {
		total += value(c)
	}
	return float64(total) / float64(len(cs))
}
