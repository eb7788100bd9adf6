// Package cmd defines the storelens CLI commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/config"
	"github.com/JakeFAU/storefront-insights/internal/persist"
	"github.com/JakeFAU/storefront-insights/internal/server"
)

var cfgFile string

type appKeyType string

const appKey appKeyType = "app"

// App is the surface the commands use. Tests inject a fake.
type App interface {
	Run(ctx context.Context) error
	Close(ctx context.Context) error
	Logger() *zap.Logger
	ExtractAll(ctx context.Context, rawURL string) (*brand.Context, error)
	Analyze(ctx context.Context, primary *brand.Context, maxCompetitors int) *brand.CompetitorAnalysis
	Record(ctx context.Context, bc *brand.Context) persist.Receipt
	RecordAnalysis(ctx context.Context, analysis *brand.CompetitorAnalysis) persist.Receipt
	MaxCompetitors() int
}

var newApp = func(ctx context.Context, path string) (App, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	app, err := server.Build(ctx, &cfg)
	if err != nil {
		return nil, err
	}
	return cliApp{app}, nil
}

type cliApp struct {
	*server.App
}

func (a cliApp) ExtractAll(ctx context.Context, rawURL string) (*brand.Context, error) {
	return a.Extractor().ExtractAll(ctx, rawURL)
}

func (a cliApp) Analyze(ctx context.Context, primary *brand.Context, maxCompetitors int) *brand.CompetitorAnalysis {
	return a.Analyzer().Analyze(ctx, primary, maxCompetitors)
}

func (a cliApp) Record(ctx context.Context, bc *brand.Context) persist.Receipt {
	return a.Recorder().Record(ctx, bc)
}

func (a cliApp) RecordAnalysis(ctx context.Context, analysis *brand.CompetitorAnalysis) persist.Receipt {
	return a.Recorder().RecordAnalysis(ctx, analysis)
}

func newRootCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storelens",
		Short: "Storefront brand insights and competitor discovery.",
		Long: `storelens extracts brand insights from Shopify storefronts: catalog,
hero products, policies, FAQs, social handles, contact details, and locale.
It can also discover and compare competitor storefronts.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context(), cfgFile)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (env INSIGHTS_* overrides)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAnalyzeCmd())
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "command failed: %v\n", err)
		os.Exit(1)
	}
}
