package competitor

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/brand/brandtest"
	"github.com/JakeFAU/storefront-insights/internal/ratelimit"
)

type fakeExtractor struct {
	mu      sync.Mutex
	results map[string]*brand.Context
	errs    map[string]error
	calls   []string
}

func (f *fakeExtractor) ExtractAll(_ context.Context, rawURL string) (*brand.Context, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, rawURL)
	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	if bc, ok := f.results[rawURL]; ok {
		return bc, nil
	}
	return nil, brand.ErrUnsupportedStore
}

type countingPacer struct {
	waits int
	err   error
}

func (p *countingPacer) Wait(context.Context, string) error {
	p.waits++
	return p.err
}

func newBrand(url, name string, products int, types ...string) *brand.Context {
	bc := brand.NewContext(url, time.Unix(0, 0).UTC())
	bc.BrandName = name
	catalog := make([]brand.Product, products)
	for i := range catalog {
		if len(types) > 0 {
			catalog[i].ProductType = types[i%len(types)]
		}
	}
	bc.SetCatalog(catalog)
	return bc
}

func TestFallbackSearchTerms(t *testing.T) {
	t.Parallel()

	primary := newBrand("https://colourpop.com", "ColourPop Cosmetics", 3, "Lipstick", "lipstick", "Eyeshadow")
	terms := FallbackSearchTerms(primary)

	assert.Equal(t, []string{"lipstick", "eyeshadow", "colourpop", "cosmetics", "fashion", "beauty"}, terms)
}

func TestFallbackSearchTermsCapped(t *testing.T) {
	t.Parallel()

	primary := newBrand("https://example.com", "One Two Three Four", 10,
		"a", "b", "c", "d", "e", "f", "g")
	terms := FallbackSearchTerms(primary)

	require.Len(t, terms, MaxSearchTerms)
	assert.Equal(t, "one", terms[7])
	seen := map[string]bool{}
	for _, term := range terms {
		assert.False(t, seen[term], "duplicate term %q", term)
		seen[term] = true
	}
}

func TestCandidatesFromTerms(t *testing.T) {
	t.Parallel()

	a := New(&fakeExtractor{})
	got := a.Candidates(context.Background(),
		[]string{"lipstick", "eyeshadow", "colourpop", "cosmetics", "fashion", "beauty"},
		"https://colourpop.com", 3)

	assert.Equal(t, []string{
		"https://jeffreestarcosmetics.com",
		"https://fashionnova.com",
		"https://gymshark.com",
	}, got)
}

func TestCandidatesBroadKeywordCapsBeforeExcludingPrimary(t *testing.T) {
	t.Parallel()

	a := New(&fakeExtractor{})
	got := a.Candidates(context.Background(), []string{"Women's Swimwear"}, "https://www.gymshark.com", 2)

	assert.Equal(t, []string{
		"https://colourpop.com",
		"https://jeffreestarcosmetics.com",
		"https://fashionnova.com",
	}, got)
}

func TestCandidatesNoMatch(t *testing.T) {
	t.Parallel()

	a := New(&fakeExtractor{})
	assert.Empty(t, a.Candidates(context.Background(), []string{"garden tools"}, "https://example.com", 3))
}

func TestAnalyzeSkipsFailuresAndPaces(t *testing.T) {
	t.Parallel()

	primary := newBrand("https://colourpop.com", "ColourPop Cosmetics", 3, "lipstick", "eyeshadow")
	extractor := &fakeExtractor{
		results: map[string]*brand.Context{
			"https://jeffreestarcosmetics.com": newBrand("https://jeffreestarcosmetics.com", "Jeffree Star", 4, "lipstick"),
			"https://gymshark.com":             newBrand("https://gymshark.com", "Gymshark", 2, "leggings"),
		},
		errs: map[string]error{
			"https://fashionnova.com": brand.ErrHomepageUnavailable,
		},
	}
	pacer := &countingPacer{}
	a := New(extractor, WithPacer(pacer))

	analysis := a.Analyze(context.Background(), primary, 3)

	require.NotNil(t, analysis)
	assert.Same(t, primary, analysis.PrimaryBrand)
	require.Len(t, analysis.Competitors, 2)
	assert.Equal(t, "Jeffree Star", analysis.Competitors[0].BrandName)
	assert.Equal(t, "Gymshark", analysis.Competitors[1].BrandName)
	assert.Equal(t, 3, pacer.waits)
	assert.NotContains(t, extractor.calls, "https://colourpop.com")
	assert.Equal(t,
		"Competitor Analysis for ColourPop Cosmetics | Search terms used: lipstick, eyeshadow, colourpop, cosmetics, fashion"+
			" | Found 2 competitor(s) | Competitors analyzed: Jeffree Star, Gymshark"+
			" | Product catalog size - Primary: 3, Competitors avg: 3",
		analysis.AnalysisSummary)
	for _, c := range analysis.Competitors {
		for _, note := range c.ExtractionNotes {
			assert.NotContains(t, note, "Similarity score")
		}
	}
}

func TestAnalyzeStopsWhenPacingFails(t *testing.T) {
	t.Parallel()

	primary := newBrand("https://example.com", "Beauty Co", 0)
	extractor := &fakeExtractor{}
	a := New(extractor, WithPacer(&countingPacer{err: context.Canceled}))

	analysis := a.Analyze(context.Background(), primary, 3)

	assert.Empty(t, analysis.Competitors)
	assert.Empty(t, extractor.calls)
}

func TestAnalyzeWithRealLimiterHonorsCancel(t *testing.T) {
	t.Parallel()

	primary := newBrand("https://example.com", "Beauty Co", 0)
	extractor := &fakeExtractor{}
	limiter := ratelimit.New(ratelimit.Config{Interval: time.Hour, Burst: 1})
	a := New(extractor, WithPacer(limiter))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	analysis := a.Analyze(ctx, primary, 3)

	assert.Len(t, extractor.calls, 1)
	assert.Empty(t, analysis.Competitors)
}

func TestAnalyzeUsesStructurer(t *testing.T) {
	t.Parallel()

	primary := newBrand("https://example.com", "Example", 1, "bags")
	comp := newBrand("https://pandora.net", "Pandora", 1, "charms")
	extractor := &fakeExtractor{results: map[string]*brand.Context{"https://pandora.net": comp}}

	s := &brandtest.MockStructurer{}
	s.On("Enabled").Return(true)
	s.On("SearchTerms", mock.Anything, mock.Anything).Return([]string{"accessories"}, nil)
	s.On("Similarity", mock.Anything, mock.Anything, mock.Anything).Return(1.7, nil)

	analysis := New(extractor, WithStructurer(s)).Analyze(context.Background(), primary, 1)

	require.Len(t, analysis.Competitors, 1)
	assert.Contains(t, analysis.Competitors[0].ExtractionNotes, "Similarity score: 0.00")
	assert.Equal(t, []string{"https://pandora.net"}, extractor.calls)
	s.AssertExpectations(t)
}

func TestBoundedScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"in range", 0.42, 0.42},
		{"lower bound", 0, 0},
		{"upper bound", 1, 1},
		{"above one", 1.7, 0},
		{"negative", -0.3, 0},
		{"positive infinity", math.Inf(1), 0},
		{"negative infinity", math.Inf(-1), 0},
		{"not a number", math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, boundedScore(tt.in))
		})
	}
}

func TestAnalyzeSimilarityErrorScoresZero(t *testing.T) {
	t.Parallel()

	primary := newBrand("https://example.com", "Example", 1, "bags")
	comp := newBrand("https://pandora.net", "Pandora", 1, "charms")
	extractor := &fakeExtractor{results: map[string]*brand.Context{"https://pandora.net": comp}}

	s := &brandtest.MockStructurer{}
	s.On("Enabled").Return(true)
	s.On("SearchTerms", mock.Anything, mock.Anything).Return(nil, errors.New("quota"))
	s.On("Similarity", mock.Anything, mock.Anything, mock.Anything).Return(0.0, errors.New("boom"))

	dir := NewStaticDirectory([]Category{{Keyword: "bags", URLs: []string{"https://pandora.net"}}})
	analysis := New(extractor, WithStructurer(s), WithDirectory(dir)).Analyze(context.Background(), primary, 1)

	require.Len(t, analysis.Competitors, 1)
	assert.Contains(t, analysis.Competitors[0].ExtractionNotes, "Similarity score: 0.00")
}

func TestSummaryWithoutCompetitors(t *testing.T) {
	t.Parallel()

	primary := brand.NewContext("https://example.com", time.Unix(0, 0))
	got := Summary(primary, nil, []string{"fashion", "beauty"})
	assert.Equal(t, "Competitor Analysis for https://example.com | Search terms used: fashion, beauty | Found 0 competitor(s)", got)
}

func TestInsightsMarketPosition(t *testing.T) {
	t.Parallel()

	comps := []*brand.Context{newBrand("https://a.com", "A", 100)}
	tests := []struct {
		name    string
		primary int
		want    string
	}{
		{name: "at upper bound", primary: 120, want: AverageCatalog},
		{name: "above upper bound", primary: 121, want: LargeCatalog},
		{name: "at lower bound", primary: 80, want: AverageCatalog},
		{name: "below lower bound", primary: 79, want: FocusedCatalog},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Insights(newBrand("https://p.com", "P", tc.primary), comps)
			assert.Equal(t, tc.want, got.MarketPosition)
		})
	}
}

func TestInsightsSocialAndDiversity(t *testing.T) {
	t.Parallel()

	primary := newBrand("https://p.com", "P", 3, "lipstick", "candles", "soap")
	primary.SocialHandles = []brand.SocialHandle{{Platform: brand.PlatformInstagram}, {Platform: brand.PlatformTikTok}}
	comp := newBrand("https://c.com", "C", 2, "lipstick", "mascara")
	comp.SocialHandles = []brand.SocialHandle{{Platform: brand.PlatformInstagram}}

	got := Insights(primary, []*brand.Context{comp})
	assert.Equal(t, SocialStrong, got.SocialPresence)
	assert.Equal(t, UniqueOfferings, got.ProductDiversity)
	assert.Equal(t, Unknown, got.PricePositioning)

	comp.SocialHandles = append(comp.SocialHandles, brand.SocialHandle{}, brand.SocialHandle{}, brand.SocialHandle{}, brand.SocialHandle{})
	other := newBrand("https://o.com", "O", 3, "candles", "soap")
	got = Insights(primary, []*brand.Context{comp, other})
	assert.Equal(t, SocialWeak, got.SocialPresence)
	assert.Equal(t, SimilarToMarket, got.ProductDiversity)
}

func TestInsightsWithoutCompetitors(t *testing.T) {
	t.Parallel()

	got := Insights(newBrand("https://p.com", "P", 5), nil)
	assert.Equal(t, &brand.MarketInsights{
		MarketPosition:   Unknown,
		ProductDiversity: Unknown,
		PricePositioning: Unknown,
		SocialPresence:   Unknown,
	}, got)
}

func TestStaticDirectoryLookup(t *testing.T) {
	t.Parallel()

	d := NewStaticDirectory(nil)
	assert.Equal(t, []string{"beauty", "fashion", "cosmetics", "clothing", "accessories"}, d.Categories())

	urls, err := d.Lookup(context.Background(), "accessories")
	require.NoError(t, err)
	urls[0] = "mutated"
	again, err := d.Lookup(context.Background(), "accessories")
	require.NoError(t, err)
	assert.Equal(t, "https://pandora.net", again[0])

	_, err = d.Lookup(context.Background(), "garden")
	require.Error(t, err)
}
