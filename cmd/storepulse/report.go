package main

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/storepulse/storepulse/internal/api/dto"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/export"
	"github.com/storepulse/storepulse/internal/service"
	"github.com/storepulse/storepulse/internal/types"
)

// reportFlags are shared by every computation command.
type reportFlags struct {
	days   int
	userID string
	format string
	out    string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.days, "days", 30, "Look back window in days, 0 for all time")
	cmd.Flags().StringVar(&f.userID, "user", "", "Only analyse sales of this user")
	cmd.Flags().StringVar(&f.format, "format", string(export.FormatJSON), "Export format when --out is set: json, csv or parquet")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Export file path; the full response is printed as JSON when empty")
}

func (f *reportFlags) exportFormat() (export.Format, error) {
	return export.ParseFormat(f.format)
}

// tablePath derives the path of an extra table from the --out path, e.g.
// report.csv becomes report_bundles.csv.
func tablePath(out, table string, format export.Format) string {
	ext := filepath.Ext(out)
	base := strings.TrimSuffix(out, ext)
	if ext == "" {
		ext = "." + format.Extension()
	}
	return base + "_" + table + ext
}

func printJSON(w io.Writer, v interface{}) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode response").
			Mark(ierr.ErrInternal)
	}
	return nil
}

func newProjectionCmd(opts *rootOptions) *cobra.Command {
	flags := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "projection",
		Short: "Compute the revenue series and its projection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := flags.exportFormat()
			if err != nil {
				return err
			}
			return withAnalyticsService(cmd.Context(), opts.cfg, func(ctx context.Context, svc service.AnalyticsService) error {
				resp, err := svc.ComputeRevenueProjection(ctx, &dto.RevenueProjectionRequest{
					TimeRangeDays: flags.days,
					UserID:        flags.userID,
				})
				if err != nil {
					return err
				}
				if flags.out == "" {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				return export.WriteFile(flags.out, format, export.PointRows(resp.Actual, resp.Projected))
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newRecommendationsCmd(opts *rootOptions) *cobra.Command {
	flags := &reportFlags{}
	var minConfidence string
	cmd := &cobra.Command{
		Use:   "recommendations",
		Short: "Find each product's best weekday and mine product bundles",
		Long: `Find each product's best weekday and mine product bundles.

With --out the bundles are written to the given path and the weekday
trends next to it with a _day_of_week suffix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := flags.exportFormat()
			if err != nil {
				return err
			}
			return withAnalyticsService(cmd.Context(), opts.cfg, func(ctx context.Context, svc service.AnalyticsService) error {
				resp, err := svc.ComputeSalesRecommendations(ctx, &dto.SalesRecommendationsRequest{
					TimeRangeDays: flags.days,
					UserID:        flags.userID,
					MinConfidence: types.ConfidenceTier(minConfidence),
				})
				if err != nil {
					return err
				}
				if flags.out == "" {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				if err := export.WriteFile(flags.out, format, export.BundleRows(resp.ProductBundles)); err != nil {
					return err
				}
				return export.WriteFile(tablePath(flags.out, "day_of_week", format), format, export.DayOfWeekRows(resp.DayOfWeekTrends))
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&minConfidence, "min-confidence", string(types.ConfidenceTierLow), "Loosest bundle tier to keep: high, medium or low")
	return cmd
}

func newOptimalProductsCmd(opts *rootOptions) *cobra.Command {
	flags := &reportFlags{}
	var (
		threshold float64
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "optimal-products",
		Short: "Rank products by bundle confidence and price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := flags.exportFormat()
			if err != nil {
				return err
			}
			req := &dto.OptimalProductsRequest{
				TimeRangeDays: flags.days,
				UserID:        flags.userID,
				Limit:         limit,
			}
			if cmd.Flags().Changed("threshold") {
				req.ConfidenceThreshold = &threshold
			}
			return withAnalyticsService(cmd.Context(), opts.cfg, func(ctx context.Context, svc service.AnalyticsService) error {
				resp, err := svc.ComputeOptimalProducts(ctx, req)
				if err != nil {
					return err
				}
				if flags.out == "" {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				return export.WriteFile(flags.out, format, export.OptimalProductRows(resp.Items))
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().Float64Var(&threshold, "threshold", dto.DefaultConfidenceThreshold, "Minimum bundle confidence between 0 and 1")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of products, 0 for the default")
	return cmd
}

func newTrendCmd(opts *rootOptions) *cobra.Command {
	flags := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Classify the sales trend and its weekly and yearly patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := flags.exportFormat()
			if err != nil {
				return err
			}
			return withAnalyticsService(cmd.Context(), opts.cfg, func(ctx context.Context, svc service.AnalyticsService) error {
				resp, err := svc.ComputeSalesTrend(ctx, &dto.SalesTrendRequest{
					TimeRangeDays: flags.days,
					UserID:        flags.userID,
				})
				if err != nil {
					return err
				}
				if flags.out == "" {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				return export.WriteFile(flags.out, format, export.PointRows(resp.Actual, nil))
			})
		},
	}
	flags.register(cmd)
	return cmd
}
