package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

// AboutLimit caps the brand description.
const AboutLimit = 500

const minAboutLength = 50

var aboutSelectors = []string{
	`div[class*="about"]`,
	`section[class*="about"]`,
	`div[class*="story"]`,
	`section[class*="story"]`,
}

// BrandInfo is the name and description found on the homepage.
type BrandInfo struct {
	Name        string
	Description string
}

// ExtractBrandInfo reads the brand name from the title (text before the first
// "|") and the description from the first about/story block longer than 50
// characters.
func ExtractBrandInfo(doc *goquery.Document) BrandInfo {
	var info BrandInfo
	if doc == nil {
		return info
	}
	if title := doc.Find("title").First(); title.Length() > 0 {
		name, _, _ := strings.Cut(title.Text(), "|")
		info.Name = strings.TrimSpace(name)
	}
	about := firstMatch(doc.Selection, aboutSelectors, func(s *goquery.Selection) bool {
		return runeLen(Text(s)) > minAboutLength
	})
	if about != nil {
		info.Description = brand.Truncate(Text(about), AboutLimit)
	}
	return info
}
