package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

var socialPatterns = map[brand.Platform]*regexp.Regexp{
	brand.PlatformInstagram: regexp.MustCompile(`instagram\.com/([^/\s?]+)`),
	brand.PlatformFacebook:  regexp.MustCompile(`facebook\.com/([^/\s?]+)`),
	brand.PlatformTwitter:   regexp.MustCompile(`twitter\.com/([^/\s?]+)`),
	brand.PlatformTikTok:    regexp.MustCompile(`tiktok\.com/@?([^/\s?]+)`),
	brand.PlatformYouTube:   regexp.MustCompile(`youtube\.com/(?:c/|channel/|user/)?([^/\s?]+)`),
	brand.PlatformLinkedIn:  regexp.MustCompile(`linkedin\.com/(?:company/|in/)?([^/\s?]+)`),
	brand.PlatformPinterest: regexp.MustCompile(`pinterest\.com/([^/\s?]+)`),
}

// ExtractSocialHandles scans every link for profiles on the supported
// platforms. Links are lowercased and resolved against baseURL; duplicate
// (platform, URL) pairs collapse to one entry.
func ExtractSocialHandles(doc *goquery.Document, baseURL string) []brand.SocialHandle {
	handles := []brand.SocialHandle{}
	if doc == nil {
		return handles
	}
	type key struct {
		platform brand.Platform
		url      string
	}
	seen := make(map[key]struct{})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.ToLower(strings.TrimSpace(s.AttrOr("href", "")))
		if href == "" {
			return
		}
		if strings.HasPrefix(href, "/") {
			resolved, err := brand.ResolveURL(baseURL, href)
			if err != nil {
				return
			}
			href = resolved
		}
		for _, platform := range brand.Platforms {
			m := socialPatterns[platform].FindStringSubmatch(href)
			if m == nil {
				continue
			}
			k := key{platform: platform, url: href}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			handles = append(handles, brand.SocialHandle{Platform: platform, URL: href, Handle: m[1]})
		}
	})
	return handles
}
