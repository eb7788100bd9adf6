package brand

import (
	"context"
	"io"
	"time"
)

// Fetcher performs a single GET and returns the page or an error when the
// artifact is unavailable.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// TextStructurer turns free text or brand summaries into structured data.
// Implementations report whether they are usable via Enabled; callers fall
// back to deterministic behavior when it returns false.
type TextStructurer interface {
	Enabled() bool
	StructureFAQs(ctx context.Context, rawText string) ([]FAQ, error)
	ExtractContactInfo(ctx context.Context, rawText string) (*ContactInfo, error)
	EnhanceDescription(ctx context.Context, rawAbout, brandName string) (string, error)
	ExtractSocialHandles(ctx context.Context, rawText string) ([]SocialHandle, error)
	Similarity(ctx context.Context, a, b Summary) (float64, error)
	SearchTerms(ctx context.Context, summary Summary) ([]string, error)
}

// Store persists contexts keyed by website URL.
type Store interface {
	Save(ctx context.Context, bc *Context) (int64, error)
	Get(ctx context.Context, websiteURL string) (*Context, error)
}

// BlobStore writes raw artifacts and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data io.Reader) (string, error)
}

// Publisher pushes completion events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// Hasher digests archived snapshots.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// IDGenerator produces snapshot IDs.
type IDGenerator interface {
	NewID() (string, error)
}
