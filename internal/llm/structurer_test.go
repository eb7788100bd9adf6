package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

type stubGenerator struct {
	out  string
	err  error
	reqs []Request
}

func (s *stubGenerator) Generate(_ context.Context, req Request) (string, error) {
	s.reqs = append(s.reqs, req)
	return s.out, s.err
}

func TestNewWithoutKeyIsDisabled(t *testing.T) {
	t.Parallel()

	ts, err := New(context.Background(), Config{}, nil)
	require.NoError(t, err)
	assert.False(t, ts.Enabled())

	desc, err := ts.EnhanceDescription(context.Background(), "raw about", "Brand")
	require.NoError(t, err)
	assert.Equal(t, "raw about", desc)

	score, err := ts.Similarity(context.Background(), brand.Summary{}, brand.Summary{})
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestParseScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want float64
	}{
		{"0.75", 0.75},
		{" 1.0 \n", 1},
		{"0", 0},
		{"```\n0.4\n```", 0.4},
		{"1.5", 0},
		{"-0.2", 0},
		{"NaN", 0},
		{"quite similar", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ParseScore(tt.raw), 1e-9, "raw=%q", tt.raw)
	}
}

func TestSimilarityDegradesGarbage(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{out: "about 0.8 I think"}
	s := NewStructurer(gen, nil)
	score, err := s.Similarity(context.Background(), brand.Summary{Name: "A"}, brand.Summary{Name: "B"})
	require.NoError(t, err)
	assert.Zero(t, score)
	require.Len(t, gen.reqs, 1)
	assert.Contains(t, gen.reqs[0].Prompt, `"name":"A"`)
}

func TestSimilarityGeneratorError(t *testing.T) {
	t.Parallel()

	s := NewStructurer(&stubGenerator{err: errors.New("quota")}, nil)
	score, err := s.Similarity(context.Background(), brand.Summary{}, brand.Summary{})
	require.Error(t, err)
	assert.Zero(t, score)
}

func TestStructureFAQs(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{out: "```json\n" + `[{"question":"Do you ship abroad?","answer":"Yes, worldwide."},{"question":"","answer":"orphan"}]` + "\n```"}
	faqs, err := NewStructurer(gen, nil).StructureFAQs(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []brand.FAQ{{Question: "Do you ship abroad?", Answer: "Yes, worldwide."}}, faqs)
	assert.True(t, gen.reqs[0].JSON)

	_, err = NewStructurer(&stubGenerator{out: "not json"}, nil).StructureFAQs(context.Background(), "text")
	require.Error(t, err)
}

func TestSearchTermsAndSocialHandles(t *testing.T) {
	t.Parallel()

	terms, err := NewStructurer(&stubGenerator{out: `["vegan makeup", " ", "lip kits"]`}, nil).
		SearchTerms(context.Background(), brand.Summary{Name: "Brand"})
	require.NoError(t, err)
	assert.Equal(t, []string{"vegan makeup", "lip kits"}, terms)

	handles, err := NewStructurer(&stubGenerator{
		out: `[{"platform":"Instagram","url":"https://instagram.com/b","handle":"b"},{"platform":"myspace","url":"https://myspace.com/b"}]`,
	}, nil).ExtractSocialHandles(context.Background(), "text")
	require.NoError(t, err)
	require.Len(t, handles, 1)
	assert.Equal(t, brand.PlatformInstagram, handles[0].Platform)
}

func TestExtractContactInfoAndDescription(t *testing.T) {
	t.Parallel()

	info, err := NewStructurer(&stubGenerator{out: `{"emails":["a@b.co"],"address":"1 Main St"}`}, nil).
		ExtractContactInfo(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@b.co"}, info.Emails)
	assert.NotNil(t, info.PhoneNumbers)
	require.NotNil(t, info.Address)
	assert.Equal(t, "1 Main St", *info.Address)

	s := NewStructurer(&stubGenerator{out: "  A clean description.  "}, nil)
	desc, err := s.EnhanceDescription(context.Background(), "messy about", "Brand")
	require.NoError(t, err)
	assert.Equal(t, "A clean description.", desc)

	desc, err = NewStructurer(&stubGenerator{err: errors.New("down")}, nil).
		EnhanceDescription(context.Background(), "messy about", "")
	require.Error(t, err)
	assert.Equal(t, "messy about", desc)
}
