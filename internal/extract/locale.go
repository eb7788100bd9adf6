package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	currencySelectors = []string{
		`span[class*="currency"]`,
		`span[class*="money"]`,
		`[data-currency]`,
	}
	currencySymbols = []struct {
		symbol string
		code   string
	}{
		{"$", "USD"},
		{"€", "EUR"},
		{"£", "GBP"},
		{"₹", "INR"},
	}
	countryIndicators = []string{"shipping to", "deliver to", "country"}
	knownCountries    = []string{"united states", "canada", "united kingdom", "australia", "india"}
)

// ExtractCurrency maps the first currency symbol shown in a price element to
// an ISO code, falling back to a data-currency attribute. It returns nil when
// nothing matches.
func ExtractCurrency(doc *goquery.Document) *string {
	if doc == nil {
		return nil
	}
	for _, sel := range currencySelectors {
		text := Text(doc.Find(sel).First())
		for _, cs := range currencySymbols {
			if strings.Contains(text, cs.symbol) {
				code := cs.code
				return &code
			}
		}
	}
	if v, ok := doc.Find("[data-currency]").First().Attr("data-currency"); ok && strings.TrimSpace(v) != "" {
		v = strings.TrimSpace(v)
		return &v
	}
	return nil
}

// ExtractCountry returns the title-cased country named in the first text node
// that mentions shipping or delivery destinations.
func ExtractCountry(doc *goquery.Document) *string {
	if doc == nil {
		return nil
	}
	var found *string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return false
		}
		if n.Type == html.TextNode {
			lower := strings.ToLower(n.Data)
			if containsAny(lower, countryIndicators) {
				for _, c := range knownCountries {
					if strings.Contains(lower, c) {
						name := titleCase(c)
						found = &name
						return true
					}
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if walk(child) {
				return true
			}
		}
		return false
	}
	for _, root := range doc.Nodes {
		if walk(root) {
			break
		}
	}
	return found
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
