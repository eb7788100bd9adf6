package brand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWebsiteURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected string
	}{
		{"example.com", "https://example.com"},
		{"  shop.example.com/  ", "https://shop.example.com/"},
		{"http://example.com", "http://example.com"},
		{"HTTPS://Example.com", "HTTPS://Example.com"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, NormalizeWebsiteURL(tc.input), tc.input)
	}
}

func TestSiteURLReplacesPath(t *testing.T) {
	t.Parallel()

	got, err := SiteURL("https://example.com/collections/all", "/products.json")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/products.json", got)

	got, err = SiteURL("https://example.com", "pages/faq")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/pages/faq", got)
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	got, err := ResolveURL("https://example.com/pages/about", "/products/tee")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/products/tee", got)

	got, err = ResolveURL("https://example.com", "https://instagram.com/brand")
	require.NoError(t, err)
	assert.Equal(t, "https://instagram.com/brand", got)
}

func TestSameSite(t *testing.T) {
	t.Parallel()

	assert.True(t, SameSite("https://www.colourpop.com/", "colourpop.com"))
	assert.False(t, SameSite("https://colourpop.com", "https://glossier.com"))
	assert.False(t, SameSite("", ""))
}
