package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

// CollectionsPath is the conventional collections listing.
const CollectionsPath = "/collections.json"

// CountCollections returns how many collections the store lists. It is an
// auxiliary signal; callers treat errors as "unknown".
func (r *Resolver) CountCollections(ctx context.Context, baseURL string) (int, error) {
	collectionsURL, err := brand.SiteURL(baseURL, CollectionsPath)
	if err != nil {
		return 0, err
	}
	page, err := r.fetcher.Fetch(ctx, collectionsURL)
	if err != nil {
		return 0, fmt.Errorf("fetch collections: %w", err)
	}
	var listing struct {
		Collections []json.RawMessage `json:"collections"`
	}
	if err := json.Unmarshal(page.Body, &listing); err != nil {
		return 0, fmt.Errorf("decode collections: %w", err)
	}
	return len(listing.Collections), nil
}
