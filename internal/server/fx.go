// Package server builds the application's dependency graph and runs the
// HTTP service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/storefront-insights/internal/api"
	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/clock/system"
	"github.com/JakeFAU/storefront-insights/internal/competitor"
	"github.com/JakeFAU/storefront-insights/internal/config"
	collyfetcher "github.com/JakeFAU/storefront-insights/internal/fetcher/colly"
	"github.com/JakeFAU/storefront-insights/internal/hash/sha256"
	"github.com/JakeFAU/storefront-insights/internal/id/uuid"
	"github.com/JakeFAU/storefront-insights/internal/insights"
	"github.com/JakeFAU/storefront-insights/internal/llm"
	"github.com/JakeFAU/storefront-insights/internal/logging"
	"github.com/JakeFAU/storefront-insights/internal/metrics"
	"github.com/JakeFAU/storefront-insights/internal/persist"
	memorypublisher "github.com/JakeFAU/storefront-insights/internal/publisher/memory"
	gcppublisher "github.com/JakeFAU/storefront-insights/internal/publisher/pubsub"
	"github.com/JakeFAU/storefront-insights/internal/ratelimit"
	gcsstorage "github.com/JakeFAU/storefront-insights/internal/storage/gcs"
	localstorage "github.com/JakeFAU/storefront-insights/internal/storage/local"
	memorystorage "github.com/JakeFAU/storefront-insights/internal/storage/memory"
	pgstore "github.com/JakeFAU/storefront-insights/internal/storage/postgres"
)

// App contains the application's dependencies.
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	apiServer  *api.Server
	structurer brand.TextStructurer
	assembler  *insights.Assembler
	analyzer   *competitor.Analyzer
	recorder   *persist.Recorder
	brandStore brand.Store
	features   api.Features

	pgStore   *pgstore.BrandStore
	gcsStore  *gcsstorage.BlobStore
	pubsubPub *gcppublisher.Publisher
}

// NewApp creates a new App with the given configuration.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	type sanitizedConfig struct {
		ServerPort     int    `json:"server_port"`
		StorageBackend string `json:"storage_backend"`
		Database       bool   `json:"database"`
		PubSub         bool   `json:"pubsub"`
		LLM            bool   `json:"llm"`
	}
	logger = logging.OrNop(logger)
	logger.Info("creating application", zap.Any("config", sanitizedConfig{
		ServerPort:     cfg.Server.Port,
		StorageBackend: cfg.Storage.Backend,
		Database:       cfg.Database.DSN != "",
		PubSub:         cfg.PubSub.ProjectID != "",
		LLM:            cfg.LLM.APIKey != "",
	}))
	return &App{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Extractor returns the insights pipeline.
func (a *App) Extractor() *insights.Assembler { return a.assembler }

// Analyzer returns the competitor analyzer.
func (a *App) Analyzer() *competitor.Analyzer { return a.analyzer }

// Recorder returns the persistence fan-out.
func (a *App) Recorder() *persist.Recorder { return a.recorder }

// Handler returns the HTTP handler.
func (a *App) Handler() http.Handler { return a.apiServer.Handler() }

// MaxCompetitors is the configured upper bound on competitors per analysis.
func (a *App) MaxCompetitors() int { return a.cfg.Competitors.Max }

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger { return a.logger }

// Run starts the HTTP server and blocks until the context is canceled or a
// termination signal arrives.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("application started")
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("http server started", zap.Int("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	a.logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
	}

	return a.Close(shutdownCtx)
}

// Close releases infrastructure clients. It is safe to call on a partially
// built App.
func (a *App) Close(_ context.Context) error {
	if a.pubsubPub != nil {
		if err := a.pubsubPub.Close(); err != nil {
			a.logger.Warn("pubsub publisher close failed", zap.Error(err))
		}
	}
	if a.gcsStore != nil {
		if err := a.gcsStore.Close(); err != nil {
			a.logger.Warn("gcs client close failed", zap.Error(err))
		}
	}
	if a.pgStore != nil {
		a.pgStore.Close()
	}
	a.logger.Info("shutdown complete")
	_ = a.logger.Sync()
	return nil
}

// Build creates the application's dependencies.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return BuildWithLogger(ctx, cfg, logger)
}

// BuildWithLogger creates the application's dependencies using logger.
func BuildWithLogger(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	app, err := NewApp(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("app init failed: %w", err)
	}
	metrics.Init()

	app.logger.Info("building application dependencies")
	if err := setupPipeline(ctx, app); err != nil {
		return nil, err
	}

	blobStore, err := setupStorage(ctx, app)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	if err := setupDatabase(ctx, app); err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	publisher, err := setupPublisher(ctx, app)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}

	app.recorder = persist.New(
		app.brandStore,
		blobStore,
		publisher,
		uuid.New(),
		system.New(),
		persist.Config{BlobPrefix: cfg.Storage.Prefix, Topic: cfg.PubSub.TopicName},
		app.logger,
		persist.WithHasher(sha256.New()),
	)

	app.features.LLMEnhancement = app.structurer.Enabled()
	app.features.CompetitorAnalysis = true
	app.features.StorageBackend = cfg.Storage.Backend
	app.apiServer = api.NewServer(api.Deps{
		Extractor:   app.assembler,
		Competitors: app.analyzer,
		Recorder:    app.recorder,
		Store:       app.brandStore,
		Features:    app.features,
	}, *cfg, app.logger)

	return app, nil
}

func setupPipeline(ctx context.Context, app *App) error {
	cfg := app.cfg
	structurer, err := llm.New(ctx, llm.Config{
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLMTimeout(),
	}, app.logger)
	if err != nil {
		return fmt.Errorf("llm init failed: %w", err)
	}
	app.structurer = structurer

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:    cfg.HTTP.UserAgent,
		Timeout:      cfg.FetchTimeout(),
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
	}, app.logger)
	app.logger.Info("using colly fetcher",
		zap.Duration("timeout", cfg.FetchTimeout()),
		zap.Int("max_body_bytes", cfg.HTTP.MaxBodyBytes),
	)

	app.assembler = insights.New(fetcher,
		insights.WithStructurer(structurer),
		insights.WithClock(system.New()),
		insights.WithLogger(app.logger),
	)

	limiter := ratelimit.New(ratelimit.Config{
		Interval: cfg.PacingInterval(),
		Burst:    cfg.Competitors.PacingBurst,
	})
	app.analyzer = competitor.New(app.assembler,
		competitor.WithStructurer(structurer),
		competitor.WithPacer(limiter),
		competitor.WithProductSummary(cfg.Competitors.ProductSummary),
		competitor.WithLogger(app.logger),
	)
	app.logger.Info("competitor analyzer configured",
		zap.Int("max", cfg.Competitors.Max),
		zap.Duration("pacing", cfg.PacingInterval()),
	)
	return nil
}

func setupStorage(ctx context.Context, app *App) (brand.BlobStore, error) {
	switch app.cfg.Storage.Backend {
	case config.StorageGCS:
		app.logger.Info("using GCS storage backend", zap.String("bucket", app.cfg.Storage.Bucket))
		store, err := gcsstorage.Open(ctx, gcsstorage.Config{Bucket: app.cfg.Storage.Bucket})
		if err != nil {
			return nil, fmt.Errorf("gcs blob store init failed: %w", err)
		}
		app.gcsStore = store
		return store, nil
	case config.StorageLocal:
		app.logger.Info("using local storage backend", zap.String("path", app.cfg.Storage.Local.BaseDir))
		store, err := localstorage.New(localstorage.Config{BaseDir: app.cfg.Storage.Local.BaseDir})
		if err != nil {
			return nil, fmt.Errorf("local blob store init failed: %w", err)
		}
		return store, nil
	default:
		app.logger.Info("using in-memory storage backend")
		return memorystorage.NewBlobStore(), nil
	}
}

func setupDatabase(ctx context.Context, app *App) error {
	if app.cfg.Database.DSN == "" {
		app.logger.Warn("no database DSN configured, keeping brand contexts in memory")
		app.brandStore = memorystorage.NewBrandStore()
		app.features.DatabaseBackend = "memory"
		return nil
	}
	store, err := pgstore.NewBrandStore(ctx, pgstore.Config{
		DSN:             app.cfg.Database.DSN,
		Table:           app.cfg.Database.Table,
		MaxConns:        app.cfg.Database.MaxConns,
		MinConns:        app.cfg.Database.MinConns,
		MaxConnLifetime: app.cfg.ConnLifetime(),
	})
	if err != nil {
		return fmt.Errorf("brand store init failed: %w", err)
	}
	app.pgStore = store
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("brand store schema failed: %w", err)
	}
	app.brandStore = store
	app.features.DatabaseBackend = "postgres"
	app.logger.Info("brand store initialized", zap.String("table", app.cfg.Database.Table))
	return nil
}

func setupPublisher(ctx context.Context, app *App) (brand.Publisher, error) {
	if app.cfg.PubSub.TopicName == "" || app.cfg.PubSub.ProjectID == "" {
		app.logger.Warn("no Pub/Sub topic configured, using in-memory publisher")
		app.features.Notifications = "memory"
		return memorypublisher.New(), nil
	}
	pub, err := gcppublisher.Open(ctx, app.cfg.PubSub.ProjectID, app.cfg.PubSub.TopicName)
	if err != nil {
		return nil, err
	}
	app.pubsubPub = pub
	app.features.Notifications = "pubsub"
	app.logger.Info("Pub/Sub publisher initialized",
		zap.String("project", app.cfg.PubSub.ProjectID),
		zap.String("topic", app.cfg.PubSub.TopicName),
	)
	return pub, nil
}
