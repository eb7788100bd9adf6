// Package extract holds the pure extractors that turn a parsed storefront
// page into partial brand data. Every extractor tolerates a nil document and
// returns an empty result instead of an error.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// firstMatch tries selectors in priority order within root and returns the
// first element accepted by keep. A nil keep accepts any element.
func firstMatch(root *goquery.Selection, selectors []string, keep func(*goquery.Selection) bool) *goquery.Selection {
	for _, sel := range selectors {
		var hit *goquery.Selection
		root.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if keep == nil || keep(s) {
				hit = s
				return false
			}
			return true
		})
		if hit != nil {
			return hit
		}
	}
	return nil
}

// Text returns the whitespace-collapsed text of s.
func Text(s *goquery.Selection) string {
	if s == nil {
		return ""
	}
	return strings.Join(strings.Fields(s.Text()), " ")
}

// PageText returns the visible text of doc without script or style content.
// Text nodes are separated by a single space.
func PageText(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func runeLen(s string) int {
	return len([]rune(s))
}
