package catalog

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

// MaxHeroHandles caps how many homepage product references are considered.
const MaxHeroHandles = 10

var productPathRe = regexp.MustCompile(`/products/([^/?#]+)`)

// HeroHandles collects distinct product handles linked from a homepage, in
// document order, capped at MaxHeroHandles.
func HeroHandles(doc *goquery.Document) []string {
	if doc == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var handles []string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		m := productPathRe.FindStringSubmatch(href)
		if m == nil || m[1] == "" {
			return true
		}
		if _, ok := seen[m[1]]; ok {
			return true
		}
		seen[m[1]] = struct{}{}
		handles = append(handles, m[1])
		return len(handles) < MaxHeroHandles
	})
	return handles
}

// ResolveHeroes filters catalog, in catalog order, to the products whose
// handle appears in handles. Handles missing from the catalog are dropped.
func ResolveHeroes(catalog []brand.Product, handles []string) []brand.Product {
	wanted := make(map[string]struct{}, len(handles))
	for _, h := range handles {
		wanted[h] = struct{}{}
	}
	heroes := make([]brand.Product, 0, len(handles))
	for _, p := range catalog {
		if _, ok := wanted[p.Handle]; ok {
			heroes = append(heroes, p)
		}
	}
	return heroes
}
