package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		competitors    bool
		maxCompetitors int
	)
	cmd := &cobra.Command{
		Use:   "analyze <website-url>",
		Short: "Extracts insights for one storefront and prints them as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := appInstance.Close(cmd.Context()); cerr != nil {
					appInstance.Logger().Warn("failed to close application", zap.Error(cerr))
				}
			}()

			ctx := cmd.Context()
			bc, err := appInstance.ExtractAll(ctx, args[0])
			if err != nil {
				return fmt.Errorf("extract %s: %w", args[0], err)
			}

			var result any = bc
			if competitors {
				limit := maxCompetitors
				if limit <= 0 || limit > appInstance.MaxCompetitors() {
					limit = appInstance.MaxCompetitors()
				}
				analysis := appInstance.Analyze(ctx, bc, limit)
				appInstance.RecordAnalysis(ctx, analysis)
				result = analysis
			} else {
				appInstance.Record(ctx, bc)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().BoolVar(&competitors, "competitors", false, "also discover and analyze competitors")
	cmd.Flags().IntVar(&maxCompetitors, "max", 0, "maximum competitors to analyze (default competitors.max)")
	return cmd
}
