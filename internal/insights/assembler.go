// Package insights assembles a brand.Context from a storefront URL.
package insights

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/catalog"
	"github.com/JakeFAU/storefront-insights/internal/clock/system"
	"github.com/JakeFAU/storefront-insights/internal/detector"
	"github.com/JakeFAU/storefront-insights/internal/llm"
	"github.com/JakeFAU/storefront-insights/internal/logging"
	"github.com/JakeFAU/storefront-insights/internal/metrics"
	"github.com/JakeFAU/storefront-insights/internal/policies"
)

// Assembler runs the extraction pipeline for one storefront.
type Assembler struct {
	fetcher    brand.Fetcher
	detector   *detector.Detector
	catalog    *catalog.Resolver
	policies   *policies.Resolver
	structurer brand.TextStructurer
	clock      brand.Clock
	logger     *zap.Logger
}

// Option customizes an Assembler.
type Option func(*Assembler)

// WithStructurer enables LLM enrichment when ts reports Enabled.
func WithStructurer(ts brand.TextStructurer) Option {
	return func(a *Assembler) {
		if ts != nil {
			a.structurer = ts
		}
	}
}

// WithClock overrides the analysis timestamp source.
func WithClock(c brand.Clock) Option {
	return func(a *Assembler) {
		if c != nil {
			a.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Assembler) {
		a.logger = logging.OrNop(logger)
	}
}

// New builds an Assembler around fetcher.
func New(fetcher brand.Fetcher, opts ...Option) *Assembler {
	a := &Assembler{
		fetcher:    fetcher,
		structurer: llm.Disabled{},
		clock:      system.New(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.Named("insights")
	a.detector = detector.New(fetcher, a.logger)
	a.catalog = catalog.NewResolver(fetcher, a.logger)
	a.policies = policies.NewResolver(fetcher, a.logger)
	return a
}

// Structurer returns the configured text structurer.
func (a *Assembler) Structurer() brand.TextStructurer {
	return a.structurer
}

// ExtractAll extracts every insight for rawURL. It fails only when the site is
// not a supported storefront or its homepage cannot be fetched; every later
// failure is recorded on the returned context.
func (a *Assembler) ExtractAll(ctx context.Context, rawURL string) (*brand.Context, error) {
	start := time.Now()
	websiteURL := brand.NormalizeWebsiteURL(rawURL)
	logger := a.logger.With(zap.String("url", websiteURL))

	if !a.detector.IsSupportedStore(ctx, websiteURL) {
		metrics.ObserveExtraction(metrics.OutcomeUnsupported, time.Since(start))
		return nil, fmt.Errorf("%w: %s", brand.ErrUnsupportedStore, websiteURL)
	}

	home, err := a.fetcher.Fetch(ctx, websiteURL)
	if err != nil {
		metrics.ObserveExtraction(metrics.OutcomeFailure, time.Since(start))
		return nil, fmt.Errorf("%w: %w", brand.ErrHomepageUnavailable, err)
	}
	doc, err := home.Document()
	if err != nil {
		metrics.ObserveExtraction(metrics.OutcomeFailure, time.Since(start))
		return nil, fmt.Errorf("%w: %w", brand.ErrHomepageUnavailable, err)
	}

	bc := brand.NewContext(websiteURL, a.clock.Now())
	for _, st := range a.stages(websiteURL, doc, bc) {
		if err := runStage(ctx, st); err != nil {
			logger.Warn("extraction stage failed", zap.String("stage", st.name), zap.Error(err))
			bc.MarkPartial(fmt.Sprintf("Partial extraction due to error: %s: %v", st.name, err))
		}
	}
	if bc.ExtractionSuccess {
		bc.AddNote("Successfully extracted data from " + websiteURL)
	}

	if a.structurer.Enabled() {
		a.enrich(ctx, bc, doc)
	}

	outcome := metrics.OutcomeSuccess
	if !bc.ExtractionSuccess {
		outcome = metrics.OutcomePartial
	}
	metrics.ObserveExtraction(outcome, time.Since(start))
	logger.Info("extraction finished",
		zap.Bool("success", bc.ExtractionSuccess),
		zap.Int("products", bc.TotalProducts),
		zap.Int("faqs", len(bc.FAQs)),
		zap.Int("policies", len(bc.Policies)),
		zap.Duration("duration", time.Since(start)),
	)
	return bc, nil
}

// stage is one isolated unit of the pipeline.
type stage struct {
	name string
	run  func(ctx context.Context) error
}

// runStage runs st, converting a panic into an error.
func runStage(ctx context.Context, st stage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return st.run(ctx)
}
