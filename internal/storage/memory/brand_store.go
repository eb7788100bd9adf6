package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

type brandRow struct {
	id   int64
	data []byte
}

// BrandStore keeps the latest context per website URL. Rows are stored
// serialized so callers never share state with the store.
type BrandStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[string]brandRow
}

// NewBrandStore constructs an empty BrandStore.
func NewBrandStore() *BrandStore {
	return &BrandStore{rows: make(map[string]brandRow)}
}

// Save upserts bc by website URL and returns its row ID. Re-saving a URL
// keeps the original ID.
func (s *BrandStore) Save(_ context.Context, bc *brand.Context) (int64, error) {
	if bc == nil || bc.WebsiteURL == "" {
		return 0, fmt.Errorf("website url is required")
	}
	data, err := json.Marshal(bc)
	if err != nil {
		return 0, fmt.Errorf("marshal brand context: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[bc.WebsiteURL]
	if !ok {
		s.nextID++
		row.id = s.nextID
	}
	row.data = data
	s.rows[bc.WebsiteURL] = row
	return row.id, nil
}

// Get returns the stored context for websiteURL or brand.ErrNotFound.
func (s *BrandStore) Get(_ context.Context, websiteURL string) (*brand.Context, error) {
	s.mu.RLock()
	row, ok := s.rows[websiteURL]
	s.mu.RUnlock()
	if !ok {
		return nil, brand.ErrNotFound
	}
	var bc brand.Context
	if err := json.Unmarshal(row.data, &bc); err != nil {
		return nil, fmt.Errorf("unmarshal brand context: %w", err)
	}
	return &bc, nil
}
