package llm

import (
	"context"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

// Disabled is the structurer used when no model is configured. Every method
// returns an empty result so callers take their deterministic paths.
type Disabled struct{}

var _ brand.TextStructurer = Disabled{}

// Enabled reports false.
func (Disabled) Enabled() bool { return false }

// StructureFAQs returns no FAQs.
func (Disabled) StructureFAQs(context.Context, string) ([]brand.FAQ, error) { return nil, nil }

// ExtractContactInfo returns nil.
func (Disabled) ExtractContactInfo(context.Context, string) (*brand.ContactInfo, error) {
	return nil, nil
}

// EnhanceDescription returns rawAbout unchanged.
func (Disabled) EnhanceDescription(_ context.Context, rawAbout, _ string) (string, error) {
	return rawAbout, nil
}

// ExtractSocialHandles returns no handles.
func (Disabled) ExtractSocialHandles(context.Context, string) ([]brand.SocialHandle, error) {
	return nil, nil
}

// Similarity returns 0.
func (Disabled) Similarity(context.Context, brand.Summary, brand.Summary) (float64, error) {
	return 0, nil
}

// SearchTerms returns no terms.
func (Disabled) SearchTerms(context.Context, brand.Summary) ([]string, error) { return nil, nil }
