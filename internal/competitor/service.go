// Package competitor discovers and analyzes competing storefronts for a
// primary brand.
package competitor

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/llm"
	"github.com/JakeFAU/storefront-insights/internal/logging"
	"github.com/JakeFAU/storefront-insights/internal/metrics"
)

// DefaultMaxCompetitors is used when Analyze is called with a non-positive max.
const DefaultMaxCompetitors = 3

// PacingKey is the limiter key shared by every competitor fetch.
const PacingKey = "competitors"

// DefaultProductSummary is how many catalog entries feed a brand summary.
const DefaultProductSummary = 10

// Extractor produces a brand context for a storefront URL.
type Extractor interface {
	ExtractAll(ctx context.Context, rawURL string) (*brand.Context, error)
}

// Pacer blocks until the next candidate may be analyzed.
type Pacer interface {
	Wait(ctx context.Context, key string) error
}

// Analyzer runs competitor discovery around an Extractor.
type Analyzer struct {
	extractor   Extractor
	structurer  brand.TextStructurer
	directory   Directory
	pacer       Pacer
	summarySize int
	logger      *zap.Logger
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithStructurer sets the text structurer used for search terms and
// similarity scoring.
func WithStructurer(s brand.TextStructurer) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.structurer = s
		}
	}
}

// WithDirectory replaces the default static directory.
func WithDirectory(d Directory) Option {
	return func(a *Analyzer) {
		if d != nil {
			a.directory = d
		}
	}
}

// WithPacer sets the limiter consulted before each candidate.
func WithPacer(p Pacer) Option {
	return func(a *Analyzer) {
		a.pacer = p
	}
}

// WithProductSummary sets how many catalog entries summarize a brand for the
// structurer.
func WithProductSummary(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.summarySize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// New builds an Analyzer. Without options it uses the default directory, no
// pacing and a disabled structurer.
func New(extractor Extractor, opts ...Option) *Analyzer {
	a := &Analyzer{
		extractor:   extractor,
		structurer:  llm.Disabled{},
		directory:   NewStaticDirectory(nil),
		summarySize: DefaultProductSummary,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrNop(a.logger).Named("competitor")
	return a
}

// Analyze discovers up to maxCompetitors competitors of primary, extracts
// each one and summarizes the comparison. Candidate failures are skipped.
func (a *Analyzer) Analyze(ctx context.Context, primary *brand.Context, maxCompetitors int) *brand.CompetitorAnalysis {
	if maxCompetitors <= 0 {
		maxCompetitors = DefaultMaxCompetitors
	}

	terms := a.SearchTerms(ctx, primary)
	candidates := a.Candidates(ctx, terms, primary.WebsiteURL, maxCompetitors)
	if len(candidates) > maxCompetitors {
		candidates = candidates[:maxCompetitors]
	}

	competitors := make([]*brand.Context, 0, len(candidates))
	failed := 0
	for _, url := range candidates {
		if a.pacer != nil {
			if err := a.pacer.Wait(ctx, PacingKey); err != nil {
				a.logger.Warn("competitor pacing interrupted", zap.Error(err))
				break
			}
		}
		comp, err := a.extractor.ExtractAll(ctx, url)
		if err != nil {
			failed++
			a.logger.Info("competitor skipped", zap.String("url", url), zap.Error(err))
			continue
		}
		a.scoreSimilarity(ctx, primary, comp)
		competitors = append(competitors, comp)
	}

	outcome := metrics.OutcomeSuccess
	switch {
	case len(competitors) == 0 && len(candidates) > 0:
		outcome = metrics.OutcomeFailure
	case failed > 0 || len(competitors) < len(candidates):
		outcome = metrics.OutcomePartial
	}
	metrics.ObserveCompetitorAnalysis(outcome)
	a.logger.Info("competitor analysis finished",
		zap.String("url", primary.WebsiteURL),
		zap.Strings("terms", terms),
		zap.Int("candidates", len(candidates)),
		zap.Int("competitors", len(competitors)),
	)

	return &brand.CompetitorAnalysis{
		PrimaryBrand:    primary,
		Competitors:     competitors,
		AnalysisSummary: Summary(primary, competitors, terms),
		MarketInsights:  Insights(primary, competitors),
	}
}

// SearchTerms asks the structurer for search terms and falls back to
// FallbackSearchTerms when it is disabled, fails or returns nothing.
func (a *Analyzer) SearchTerms(ctx context.Context, primary *brand.Context) []string {
	if a.structurer.Enabled() {
		terms, err := a.structurer.SearchTerms(ctx, primary.Summarize(a.summarySize))
		if err == nil && len(terms) > 0 {
			return terms
		}
		if err != nil {
			a.logger.Warn("search term generation failed", zap.Error(err))
		}
	}
	return FallbackSearchTerms(primary)
}

// Candidates maps terms onto directory URLs, deduplicated in discovery
// order, capped at maxCompetitors*2 and excluding primaryURL's site.
func (a *Analyzer) Candidates(ctx context.Context, terms []string, primaryURL string, maxCompetitors int) []string {
	var found []string
	for _, term := range terms {
		for _, category := range a.directory.Categories() {
			if !termMatches(term, category) {
				continue
			}
			urls, err := a.directory.Lookup(ctx, category)
			if err != nil {
				a.logger.Debug("directory lookup failed", zap.String("category", category), zap.Error(err))
				continue
			}
			if len(urls) > urlsPerCategory {
				urls = urls[:urlsPerCategory]
			}
			found = append(found, urls...)
		}
	}

	seen := make(map[string]struct{}, len(found))
	unique := make([]string, 0, len(found))
	for _, u := range found {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}
	if limit := maxCompetitors * 2; len(unique) > limit {
		unique = unique[:limit]
	}

	out := make([]string, 0, len(unique))
	for _, u := range unique {
		if brand.SameSite(u, primaryURL) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func (a *Analyzer) scoreSimilarity(ctx context.Context, primary, comp *brand.Context) {
	if !a.structurer.Enabled() {
		return
	}
	start := time.Now()
	score, err := a.structurer.Similarity(ctx,
		primary.Summarize(a.summarySize),
		comp.Summarize(a.summarySize),
	)
	if err != nil {
		a.logger.Warn("similarity scoring failed",
			zap.String("url", comp.WebsiteURL),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		score = 0
	}
	comp.AddNote(fmt.Sprintf("Similarity score: %.2f", boundedScore(score)))
}

// boundedScore keeps scores in [0,1]; anything outside that range is
// treated as an unusable response and scores 0.
func boundedScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return 0
	}
	return v
}
