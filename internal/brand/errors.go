package brand

import "errors"

// Fatal extraction errors. Everything else is recorded as a note on the
// returned Context.
var (
	// ErrUnsupportedStore means the target does not look like a storefront.
	ErrUnsupportedStore = errors.New("the provided URL does not appear to be a supported storefront")
	// ErrHomepageUnavailable means the homepage could not be fetched at all.
	ErrHomepageUnavailable = errors.New("could not fetch website content")
	// ErrNotFound means no stored context exists for the requested URL.
	ErrNotFound = errors.New("brand context not found")
)
