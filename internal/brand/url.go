package brand

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeWebsiteURL trims whitespace and prefixes https:// when the URL has
// no http(s) scheme.
func NormalizeWebsiteURL(raw string) string {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

// ResolveURL resolves ref against base the way a browser would.
func ResolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("parse ref url: %w", err)
	}
	return b.ResolveReference(r).String(), nil
}

// SiteURL joins an absolute path such as "/products.json" onto the site root
// of base, discarding any path base already has.
func SiteURL(base, path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return ResolveURL(base, path)
}

// Host returns the lowercased hostname of raw without a leading "www.".
func Host(raw string) string {
	u, err := url.Parse(NormalizeWebsiteURL(raw))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// SameSite reports whether a and b point at the same host.
func SameSite(a, b string) bool {
	ha, hb := Host(a), Host(b)
	return ha != "" && ha == hb
}
