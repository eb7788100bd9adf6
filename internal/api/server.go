package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/config"
	"github.com/JakeFAU/storefront-insights/internal/logging"
	"github.com/JakeFAU/storefront-insights/internal/metrics"
	"github.com/JakeFAU/storefront-insights/internal/persist"
)

const maxRequestBodyBytes = 1 << 20

// Extractor produces insights for one storefront.
type Extractor interface {
	ExtractAll(ctx context.Context, rawURL string) (*brand.Context, error)
}

// CompetitorAnalyzer discovers and analyzes competitors of a primary brand.
type CompetitorAnalyzer interface {
	Analyze(ctx context.Context, primary *brand.Context, maxCompetitors int) *brand.CompetitorAnalysis
}

// Recorder fans results out to the persistence sinks.
type Recorder interface {
	Record(ctx context.Context, bc *brand.Context) persist.Receipt
	RecordAnalysis(ctx context.Context, analysis *brand.CompetitorAnalysis) persist.Receipt
}

// Features reports which optional capabilities are configured.
type Features struct {
	LLMEnhancement     bool   `json:"llm_enhancement"`
	CompetitorAnalysis bool   `json:"competitor_analysis"`
	DatabaseBackend    string `json:"database_backend"`
	StorageBackend     string `json:"storage_backend"`
	Notifications      string `json:"notifications"`
}

// Deps bundles the collaborators behind the handlers. Recorder and Store
// are optional.
type Deps struct {
	Extractor   Extractor
	Competitors CompetitorAnalyzer
	Recorder    Recorder
	Store       brand.Store
	Features    Features
}

// Server wires HTTP handlers to the extraction pipeline.
type Server struct {
	router chi.Router
	deps   Deps
	cfg    config.Config
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(deps Deps, cfg config.Config, logger *zap.Logger) *Server {
	logger = logging.OrNop(logger).Named("api")
	s := &Server{
		deps:   deps,
		cfg:    cfg,
		logger: logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)
	r.Use(timeoutMiddleware(cfg.RequestTimeout()))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodInvalid, "method not allowed")
	})

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		if cfg.Auth.Enabled {
			r.Use(apiKeyMiddleware(cfg.Auth.APIKey))
		}
		r.Get("/features", s.features)
		r.Post("/analyze", s.analyze)
		r.Post("/analyze/competitors", s.analyzeCompetitors)
		r.Get("/brands", s.getBrand)
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	if s.deps.Extractor == nil {
		writeError(w, http.StatusServiceUnavailable, CodeUnavailable, "extractor not configured")
		return
	}
	writeData(w, http.StatusOK, "ready", map[string]string{"status": "ready"})
}

func (s *Server) features(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, "supported features", s.deps.Features)
}

type analyzeRequest struct {
	WebsiteURL     string `json:"website_url"`
	MaxCompetitors *int   `json:"max_competitors,omitempty"`
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}
	bc, ok := s.extract(w, r, req.WebsiteURL)
	if !ok {
		return
	}
	if s.deps.Recorder != nil {
		s.deps.Recorder.Record(r.Context(), bc)
	}
	writeData(w, http.StatusOK, "Analysis completed successfully", bc)
}

func (s *Server) analyzeCompetitors(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}
	if s.deps.Competitors == nil {
		writeError(w, http.StatusServiceUnavailable, CodeUnavailable, "competitor analysis not configured")
		return
	}
	maxCompetitors := s.cfg.Competitors.Max
	if req.MaxCompetitors != nil {
		if *req.MaxCompetitors < 1 || (s.cfg.Competitors.Max > 0 && *req.MaxCompetitors > s.cfg.Competitors.Max) {
			writeError(w, http.StatusUnprocessableEntity, CodeValidation,
				fmt.Sprintf("max_competitors must be between 1 and %d", s.cfg.Competitors.Max))
			return
		}
		maxCompetitors = *req.MaxCompetitors
	}

	primary, ok := s.extract(w, r, req.WebsiteURL)
	if !ok {
		return
	}
	analysis := s.deps.Competitors.Analyze(r.Context(), primary, maxCompetitors)
	if s.deps.Recorder != nil {
		s.deps.Recorder.RecordAnalysis(r.Context(), analysis)
	}
	writeData(w, http.StatusOK, "Competitor analysis completed", analysis)
}

func (s *Server) getBrand(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeError(w, http.StatusServiceUnavailable, CodeUnavailable, "persistence not configured")
		return
	}
	raw := strings.TrimSpace(r.URL.Query().Get("url"))
	if raw == "" {
		writeError(w, http.StatusUnprocessableEntity, CodeValidation, "url query parameter required")
		return
	}
	bc, err := s.deps.Store.Get(r.Context(), brand.NormalizeWebsiteURL(raw))
	switch {
	case errors.Is(err, brand.ErrNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, "no analysis stored for "+raw)
		return
	case err != nil:
		s.logger.Error("load brand failed", zap.String("url", raw), zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternal, "failed to load brand")
		return
	}
	writeData(w, http.StatusOK, "Brand retrieved", bc)
}

func (s *Server) decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (analyzeRequest, bool) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "invalid JSON")
		return req, false
	}
	if err := validateWebsiteURL(req.WebsiteURL); err != nil {
		writeError(w, http.StatusUnprocessableEntity, CodeValidation, err.Error())
		return req, false
	}
	return req, true
}

// extract runs the pipeline and writes the error response on failure.
func (s *Server) extract(w http.ResponseWriter, r *http.Request, rawURL string) (*brand.Context, bool) {
	if s.deps.Extractor == nil {
		writeError(w, http.StatusServiceUnavailable, CodeUnavailable, "extractor not configured")
		return nil, false
	}
	bc, err := s.deps.Extractor.ExtractAll(r.Context(), rawURL)
	switch {
	case errors.Is(err, brand.ErrUnsupportedStore):
		s.logger.Info("unsupported store", zap.String("url", rawURL))
		writeError(w, http.StatusUnauthorized, CodeUnsupported, err.Error())
		return nil, false
	case err != nil:
		s.logger.Error("analysis failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("url", rawURL),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, CodeInternal, "Internal server error: "+err.Error())
		return nil, false
	}
	return bc, true
}

func validateWebsiteURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New("website_url is required")
	}
	if i := strings.Index(raw, "://"); i >= 0 {
		if scheme := strings.ToLower(raw[:i]); scheme != "http" && scheme != "https" {
			return fmt.Errorf("website_url %q must use http or https", raw)
		}
	}
	u, err := url.Parse(brand.NormalizeWebsiteURL(raw))
	if err != nil || u.Hostname() == "" {
		return fmt.Errorf("website_url %q is not a valid URL", raw)
	}
	return nil
}
