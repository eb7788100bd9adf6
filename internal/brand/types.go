// Package brand defines the storefront insight model shared across subsystems.
package brand

import (
	"strings"
	"time"
)

// Platform identifies a supported social network.
type Platform string

// Social platforms recognized by the link extractor.
const (
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformPinterest Platform = "pinterest"
)

// Platforms lists every supported platform in a stable order.
var Platforms = []Platform{
	PlatformInstagram,
	PlatformFacebook,
	PlatformTwitter,
	PlatformTikTok,
	PlatformYouTube,
	PlatformLinkedIn,
	PlatformPinterest,
}

// PolicyCategory tags a store policy document.
type PolicyCategory string

// Policy categories probed for every store.
const (
	PolicyPrivacy  PolicyCategory = "privacy"
	PolicyReturn   PolicyCategory = "return"
	PolicyRefund   PolicyCategory = "refund"
	PolicyTerms    PolicyCategory = "terms"
	PolicyShipping PolicyCategory = "shipping"
)

// PolicyCategories lists every category in resolution order.
var PolicyCategories = []PolicyCategory{
	PolicyPrivacy,
	PolicyReturn,
	PolicyRefund,
	PolicyTerms,
	PolicyShipping,
}

// Title returns the human readable policy name.
func (c PolicyCategory) Title() string {
	switch c {
	case PolicyPrivacy:
		return "Privacy Policy"
	case PolicyReturn:
		return "Return Policy"
	case PolicyRefund:
		return "Refund Policy"
	case PolicyTerms:
		return "Terms Of Service"
	case PolicyShipping:
		return "Shipping Policy"
	default:
		return strings.TrimSpace(string(c))
	}
}

// Product is one normalized entry of the structured product feed.
type Product struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description,omitempty"`
	Price          *string          `json:"price"`
	CompareAtPrice *string          `json:"compare_at_price"`
	Vendor         string           `json:"vendor,omitempty"`
	ProductType    string           `json:"product_type,omitempty"`
	Handle         string           `json:"handle"`
	URL            string           `json:"url"`
	Images         []string         `json:"images"`
	Variants       []map[string]any `json:"variants"`
	Tags           []string         `json:"tags"`
	Available      bool             `json:"available"`
}

// FAQ is a question/answer pair found on the store.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
}

// SocialHandle is a link to the brand's profile on a social platform.
type SocialHandle struct {
	Platform Platform `json:"platform"`
	URL      string   `json:"url"`
	Handle   string   `json:"handle,omitempty"`
}

// ContactInfo groups the contact details scraped from the homepage.
type ContactInfo struct {
	Emails       []string `json:"emails"`
	PhoneNumbers []string `json:"phone_numbers"`
	Address      *string  `json:"address,omitempty"`
}

// Policy is a store policy page accepted by the resolver.
type Policy struct {
	Category PolicyCategory `json:"category"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	URL      string         `json:"url"`
}

// ImportantLink is a navigation link matching a support keyword.
type ImportantLink struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Context is the aggregate produced by one storefront extraction.
//
// TotalProducts always equals len(ProductCatalog); use SetCatalog to keep the
// two in sync. ExtractionNotes is append-only.
type Context struct {
	WebsiteURL        string                     `json:"website_url"`
	BrandName         string                     `json:"brand_name,omitempty"`
	AboutBrand        string                     `json:"about_brand,omitempty"`
	ProductCatalog    []Product                  `json:"product_catalog"`
	HeroProducts      []Product                  `json:"hero_products"`
	TotalProducts     int                        `json:"total_products"`
	Policies          map[PolicyCategory]*Policy `json:"policies"`
	FAQs              []FAQ                      `json:"faqs"`
	SocialHandles     []SocialHandle             `json:"social_handles"`
	ContactInfo       ContactInfo                `json:"contact_info"`
	ImportantLinks    []ImportantLink            `json:"important_links"`
	Currency          *string                    `json:"currency"`
	Country           *string                    `json:"country"`
	Timezone          *string                    `json:"timezone"`
	AnalysisTimestamp time.Time                  `json:"analysis_timestamp"`
	ExtractionSuccess bool                       `json:"extraction_success"`
	ExtractionNotes   []string                   `json:"extraction_notes"`
}

// NewContext returns an empty, successful context for websiteURL.
func NewContext(websiteURL string, now time.Time) *Context {
	return &Context{
		WebsiteURL:        websiteURL,
		ProductCatalog:    []Product{},
		HeroProducts:      []Product{},
		Policies:          make(map[PolicyCategory]*Policy, len(PolicyCategories)),
		FAQs:              []FAQ{},
		SocialHandles:     []SocialHandle{},
		ContactInfo:       ContactInfo{Emails: []string{}, PhoneNumbers: []string{}},
		ImportantLinks:    []ImportantLink{},
		AnalysisTimestamp: now,
		ExtractionSuccess: true,
		ExtractionNotes:   []string{},
	}
}

// SetCatalog replaces the catalog and updates TotalProducts.
func (c *Context) SetCatalog(products []Product) {
	if products == nil {
		products = []Product{}
	}
	c.ProductCatalog = products
	c.TotalProducts = len(products)
}

// AddNote appends a human readable extraction note.
func (c *Context) AddNote(note string) {
	c.ExtractionNotes = append(c.ExtractionNotes, note)
}

// MarkPartial flags the extraction as partial and records why.
func (c *Context) MarkPartial(note string) {
	c.ExtractionSuccess = false
	c.AddNote(note)
}

// MergeFAQs appends faqs whose question is not already present
// (case-insensitive) and returns how many were added.
func (c *Context) MergeFAQs(faqs []FAQ) int {
	seen := make(map[string]struct{}, len(c.FAQs))
	for _, f := range c.FAQs {
		seen[strings.ToLower(f.Question)] = struct{}{}
	}
	added := 0
	for _, f := range faqs {
		key := strings.ToLower(f.Question)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		c.FAQs = append(c.FAQs, f)
		added++
	}
	return added
}

// DisplayName prefers the brand name and falls back to the website URL.
func (c *Context) DisplayName() string {
	if c.BrandName != "" {
		return c.BrandName
	}
	return c.WebsiteURL
}

// ProductTypes returns the distinct lowercased product types of the first
// limit catalog entries (limit <= 0 means all), in catalog order.
func (c *Context) ProductTypes(limit int) []string {
	products := c.ProductCatalog
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	seen := make(map[string]struct{})
	out := make([]string, 0, len(products))
	for _, p := range products {
		t := strings.ToLower(strings.TrimSpace(p.ProductType))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Summary is the compact brand description handed to the text structurer.
type Summary struct {
	Name        string   `json:"name"`
	Products    []string `json:"products"`
	Description string   `json:"description"`
}

// Summarize builds a Summary using up to productLimit product types.
func (c *Context) Summarize(productLimit int) Summary {
	products := c.ProductCatalog
	if productLimit > 0 && len(products) > productLimit {
		products = products[:productLimit]
	}
	types := make([]string, 0, len(products))
	for _, p := range products {
		types = append(types, p.ProductType)
	}
	return Summary{
		Name:        c.BrandName,
		Products:    types,
		Description: Truncate(c.AboutBrand, 200),
	}
}

// CompetitorAnalysis bundles a primary brand with analyzed competitors.
type CompetitorAnalysis struct {
	PrimaryBrand    *Context        `json:"primary_brand"`
	Competitors     []*Context      `json:"competitors"`
	AnalysisSummary string          `json:"analysis_summary"`
	MarketInsights  *MarketInsights `json:"market_insights,omitempty"`
}

// MarketInsights classifies the primary brand against its competitors.
type MarketInsights struct {
	MarketPosition   string `json:"market_position"`
	ProductDiversity string `json:"product_diversity"`
	PricePositioning string `json:"price_positioning"`
	SocialPresence   string `json:"social_presence"`
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
