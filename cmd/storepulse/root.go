package main

import (
	"github.com/spf13/cobra"
	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/types"
)

type rootOptions struct {
	configPath string
	cfg        *config.Configuration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "storepulse",
		Short: "Sales analytics for small online stores",
		Long: `storepulse reads a store's sales and computes revenue projections,
sales trends, product bundle recommendations and optimal products.

Run "storepulse serve" for the HTTP API or one of the report commands for
a one-off computation printed as JSON or exported as CSV or Parquet.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfg.Deployment.Mode == types.ModeReport {
				return cmd.Help()
			}
			return runServe(cmd.Context(), opts.cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config.yaml (defaults to ./config.yaml or internal/config)")
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(
		newServeCmd(opts),
		newProjectionCmd(opts),
		newRecommendationsCmd(opts),
		newOptimalProductsCmd(opts),
		newTrendCmd(opts),
	)
	return cmd
}
