package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/persist"
)

type fakeApp struct {
	extractErr   error
	ran          bool
	closed       bool
	recorded     int
	analyzed     int
	gotMax       int
	maxAllowed   int
	recordedRuns int
}

func (f *fakeApp) Run(context.Context) error   { f.ran = true; return nil }
func (f *fakeApp) Close(context.Context) error { f.closed = true; return nil }
func (f *fakeApp) Logger() *zap.Logger         { return zap.NewNop() }
func (f *fakeApp) MaxCompetitors() int         { return f.maxAllowed }

func (f *fakeApp) ExtractAll(_ context.Context, rawURL string) (*brand.Context, error) {
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	bc := brand.NewContext(rawURL, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	bc.BrandName = "Acme"
	return bc, nil
}

func (f *fakeApp) Analyze(_ context.Context, primary *brand.Context, maxCompetitors int) *brand.CompetitorAnalysis {
	f.analyzed++
	f.gotMax = maxCompetitors
	return &brand.CompetitorAnalysis{PrimaryBrand: primary, Competitors: []*brand.Context{}, AnalysisSummary: "Primary Brand: Acme"}
}

func (f *fakeApp) Record(context.Context, *brand.Context) persist.Receipt {
	f.recorded++
	return persist.Receipt{}
}

func (f *fakeApp) RecordAnalysis(context.Context, *brand.CompetitorAnalysis) persist.Receipt {
	f.recordedRuns++
	return persist.Receipt{}
}

func withFakeApp(t *testing.T, app *fakeApp) {
	t.Helper()
	orig := newApp
	newApp = func(context.Context, string) (App, error) { return app, nil }
	t.Cleanup(func() { newApp = orig })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(args)
	root.SetErr(&bytes.Buffer{})
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyzePrintsBrandContext(t *testing.T) {
	app := &fakeApp{maxAllowed: 3}
	withFakeApp(t, app)

	out, err := execute(t, "analyze", "https://acme.example")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Acme", got["brand_name"])
	assert.Equal(t, 1, app.recorded)
	assert.Zero(t, app.analyzed)
	assert.True(t, app.closed)
}

func TestAnalyzeWithCompetitorsClampsMax(t *testing.T) {
	app := &fakeApp{maxAllowed: 3}
	withFakeApp(t, app)

	out, err := execute(t, "analyze", "https://acme.example", "--competitors", "--max", "9")
	require.NoError(t, err)
	assert.Contains(t, out, `"analysis_summary": "Primary Brand: Acme"`)
	assert.Equal(t, 3, app.gotMax)
	assert.Equal(t, 1, app.recordedRuns)
	assert.Zero(t, app.recorded)
}

func TestAnalyzeExtractionFailure(t *testing.T) {
	app := &fakeApp{extractErr: brand.ErrUnsupportedStore}
	withFakeApp(t, app)

	_, err := execute(t, "analyze", "https://plain.example")
	require.Error(t, err)
	assert.ErrorIs(t, err, brand.ErrUnsupportedStore)
	assert.True(t, app.closed)
}

func TestAnalyzeRequiresURL(t *testing.T) {
	withFakeApp(t, &fakeApp{})

	_, err := execute(t, "analyze")
	require.Error(t, err)
}

func TestServeRunsApp(t *testing.T) {
	app := &fakeApp{}
	withFakeApp(t, app)

	_, err := execute(t, "serve")
	require.NoError(t, err)
	assert.True(t, app.ran)
}

func TestAppInitFailure(t *testing.T) {
	orig := newApp
	newApp = func(context.Context, string) (App, error) { return nil, errors.New("boom") }
	t.Cleanup(func() { newApp = orig })

	_, err := execute(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize application services")
}

func TestResolveAppMissing(t *testing.T) {
	_, err := resolveApp(context.Background())
	require.Error(t, err)
}
