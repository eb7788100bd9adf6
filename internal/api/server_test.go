package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/brand/brandtest"
	"github.com/JakeFAU/storefront-insights/internal/config"
	"github.com/JakeFAU/storefront-insights/internal/persist"
	memstore "github.com/JakeFAU/storefront-insights/internal/storage/memory"
)

type fakeExtractor struct {
	bc  *brand.Context
	err error
	got []string
}

func (f *fakeExtractor) ExtractAll(_ context.Context, rawURL string) (*brand.Context, error) {
	f.got = append(f.got, rawURL)
	if f.err != nil {
		return nil, f.err
	}
	return f.bc, nil
}

type fakeCompetitors struct {
	max int
}

func (f *fakeCompetitors) Analyze(_ context.Context, primary *brand.Context, maxCompetitors int) *brand.CompetitorAnalysis {
	f.max = maxCompetitors
	return &brand.CompetitorAnalysis{
		PrimaryBrand:    primary,
		Competitors:     []*brand.Context{},
		AnalysisSummary: "Competitor Analysis for " + primary.DisplayName(),
	}
}

type recorderCalls struct {
	records  int
	analyses int
}

func (r *recorderCalls) Record(_ context.Context, bc *brand.Context) persist.Receipt {
	r.records++
	bc.AddNote("Saved to database with ID: 1")
	return persist.Receipt{RecordID: 1}
}

func (r *recorderCalls) RecordAnalysis(context.Context, *brand.CompetitorAnalysis) persist.Receipt {
	r.analyses++
	return persist.Receipt{}
}

func testConfig() config.Config {
	return config.Config{
		Server:      config.ServerConfig{RequestTimeoutSeconds: 5},
		Competitors: config.CompetitorConfig{Max: 3},
	}
}

func sampleContext() *brand.Context {
	bc := brand.NewContext("https://acme.example", time.Unix(1700000000, 0).UTC())
	bc.BrandName = "Acme"
	return bc
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env Envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestAnalyzeSucceedsAndRecords(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{bc: sampleContext()}
	recorder := &recorderCalls{}
	server := NewServer(Deps{Extractor: extractor, Recorder: recorder}, testConfig(), nil)

	rec, env := do(t, server.Handler(), http.MethodPost, "/v1/analyze", `{"website_url":"acme.example"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Analysis completed successfully", env.Message)
	assert.Equal(t, []string{"acme.example"}, extractor.got)
	assert.Equal(t, 1, recorder.records)
	assert.Contains(t, rec.Body.String(), "Saved to database with ID: 1")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestAnalyzeUnsupportedStoreIs401(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{err: fmt.Errorf("%w: https://blog.example", brand.ErrUnsupportedStore)}
	recorder := &recorderCalls{}
	server := NewServer(Deps{Extractor: extractor, Recorder: recorder}, testConfig(), nil)

	rec, env := do(t, server.Handler(), http.MethodPost, "/v1/analyze", `{"website_url":"https://blog.example"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, CodeUnsupported, env.ErrorCode)
	assert.Zero(t, recorder.records)
}

func TestAnalyzeHomepageUnavailableIs500(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{err: fmt.Errorf("%w: timeout", brand.ErrHomepageUnavailable)}
	server := NewServer(Deps{Extractor: extractor}, testConfig(), nil)

	rec, env := do(t, server.Handler(), http.MethodPost, "/v1/analyze", `{"website_url":"https://down.example"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, CodeInternal, env.ErrorCode)
	assert.Contains(t, env.Message, "could not fetch website content")
}

func TestAnalyzeValidation(t *testing.T) {
	t.Parallel()

	server := NewServer(Deps{Extractor: &fakeExtractor{bc: sampleContext()}}, testConfig(), nil)
	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "invalid json", body: `{`, code: http.StatusBadRequest},
		{name: "missing url", body: `{}`, code: http.StatusUnprocessableEntity},
		{name: "bad scheme", body: `{"website_url":"ftp://acme.example"}`, code: http.StatusUnprocessableEntity},
		{name: "no host", body: `{"website_url":"https://"}`, code: http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec, env := do(t, server.Handler(), http.MethodPost, "/v1/analyze", tc.body)
			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, CodeValidation, env.ErrorCode)
		})
	}
}

func TestAnalyzeCompetitors(t *testing.T) {
	t.Parallel()

	competitors := &fakeCompetitors{}
	recorder := &recorderCalls{}
	server := NewServer(Deps{
		Extractor:   &fakeExtractor{bc: sampleContext()},
		Competitors: competitors,
		Recorder:    recorder,
	}, testConfig(), nil)

	rec, env := do(t, server.Handler(), http.MethodPost, "/v1/analyze/competitors",
		`{"website_url":"acme.example","max_competitors":2}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, 2, competitors.max)
	assert.Equal(t, 1, recorder.analyses)
	assert.Contains(t, rec.Body.String(), "Competitor Analysis for Acme")

	_, _ = do(t, server.Handler(), http.MethodPost, "/v1/analyze/competitors", `{"website_url":"acme.example"}`)
	assert.Equal(t, 3, competitors.max)

	rec, env = do(t, server.Handler(), http.MethodPost, "/v1/analyze/competitors",
		`{"website_url":"acme.example","max_competitors":9}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, CodeValidation, env.ErrorCode)
}

func TestGetBrand(t *testing.T) {
	t.Parallel()

	store := memstore.NewBrandStore()
	_, err := store.Save(context.Background(), sampleContext())
	require.NoError(t, err)
	server := NewServer(Deps{Extractor: &fakeExtractor{}, Store: store}, testConfig(), nil)

	rec, env := do(t, server.Handler(), http.MethodGet, "/v1/brands?url=acme.example", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Contains(t, rec.Body.String(), `"brand_name":"Acme"`)

	rec, env = do(t, server.Handler(), http.MethodGet, "/v1/brands?url=missing.example", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, env.ErrorCode)

	rec, _ = do(t, server.Handler(), http.MethodGet, "/v1/brands", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetBrandStoreErrors(t *testing.T) {
	t.Parallel()

	store := &brandtest.MockStore{}
	store.On("Get", mock.Anything, "https://acme.example").Return(nil, errors.New("db down"))
	server := NewServer(Deps{Store: store}, testConfig(), nil)

	rec, env := do(t, server.Handler(), http.MethodGet, "/v1/brands?url=acme.example", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, CodeInternal, env.ErrorCode)

	rec, env = do(t, NewServer(Deps{}, testConfig(), nil).Handler(), http.MethodGet, "/v1/brands?url=acme.example", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, CodeUnavailable, env.ErrorCode)
}

func TestProbesAndFeatures(t *testing.T) {
	t.Parallel()

	server := NewServer(Deps{
		Extractor: &fakeExtractor{},
		Features:  Features{LLMEnhancement: true, StorageBackend: config.StorageMemory},
	}, testConfig(), nil)

	rec, _ := do(t, server.Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, server.Handler(), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(t, server.Handler(), http.MethodGet, "/v1/features", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["llm_enhancement"])
	assert.Equal(t, "memory", data["storage_backend"])

	rec, env = do(t, server.Handler(), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, env.ErrorCode)

	rec, _ = do(t, server.Handler(), http.MethodGet, "/v1/analyze", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReadyzWithoutExtractor(t *testing.T) {
	t.Parallel()

	rec, _ := do(t, NewServer(Deps{}, testConfig(), nil).Handler(), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	server := NewServer(Deps{Extractor: &fakeExtractor{bc: sampleContext()}}, testConfig(), nil)
	_, _ = do(t, server.Handler(), http.MethodGet, "/healthz", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestAPIKeyMiddleware(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Auth = config.AuthConfig{Enabled: true, APIKey: "secret"}
	server := NewServer(Deps{Extractor: &fakeExtractor{bc: sampleContext()}}, cfg, nil)

	rec, env := do(t, server.Handler(), http.MethodGet, "/v1/features", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, CodeUnauthorized, env.ErrorCode)

	req := httptest.NewRequest(http.MethodGet, "/v1/features", nil)
	req.Header.Set("X-API-Key", "secret")
	ok := httptest.NewRecorder()
	server.Handler().ServeHTTP(ok, req)
	assert.Equal(t, http.StatusOK, ok.Code)

	rec, _ = do(t, server.Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDPropagates(t *testing.T) {
	t.Parallel()

	server := NewServer(Deps{Extractor: &fakeExtractor{}}, testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestRecoverMiddleware(t *testing.T) {
	t.Parallel()

	h := recoverMiddleware(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeInternal)
}

func TestTimeoutMiddleware(t *testing.T) {
	t.Parallel()

	h := timeoutMiddleware(20 * time.Millisecond)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader(nil)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeTimeout)
}
