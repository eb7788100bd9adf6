package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

var linkKeywords = []string{
	"contact", "about", "track", "tracking", "support", "help",
	"blog", "news", "size guide", "shipping", "returns",
}

const navLinkSelector = `nav a[href], header a[href], footer a[href], div[class*="menu"] a[href]`

// ExtractImportantLinks keeps navigation, header and footer links whose text
// names a support or navigation keyword. Relative URLs are resolved.
func ExtractImportantLinks(doc *goquery.Document, baseURL string) []brand.ImportantLink {
	links := []brand.ImportantLink{}
	if doc == nil {
		return links
	}
	seen := make(map[string]struct{})
	doc.Find(navLinkSelector).Each(func(_ int, s *goquery.Selection) {
		title := Text(s)
		lower := strings.ToLower(title)
		if !containsAny(lower, linkKeywords) {
			return
		}
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if resolved, err := brand.ResolveURL(baseURL, href); err == nil {
			href = resolved
		}
		if _, ok := seen[href+"\x00"+lower]; ok {
			return
		}
		seen[href+"\x00"+lower] = struct{}{}
		links = append(links, brand.ImportantLink{Title: title, URL: href, Description: lower})
	})
	return links
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
