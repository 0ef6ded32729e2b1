package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"influencers/internal/analysis"
	"influencers/internal/chart"
	"influencers/internal/config"
	"influencers/internal/dataset"
	"influencers/internal/ui"
)

type options struct {
	dataFile       string
	sheet          string
	chartPath      string
	followersChart string
}

func main() {
	cfg := config.Load()
	if err := newRootCmd(os.Stdout, cfg.DataFile).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer, dataFile string) *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:           "analyze",
		Short:         "Summarize an influencer table and save a platform chart",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), opts, out)
			if err != nil {
				fmt.Fprintf(out, "ERROR: %v\n", err)
			}
			return err
		},
	}
	cmd.SetOut(out)
	flags := cmd.Flags()
	flags.StringVarP(&opts.dataFile, "data", "d", dataFile, "input table (.csv or .xlsx)")
	flags.StringVar(&opts.sheet, "sheet", "", "worksheet name for .xlsx input (default: first sheet)")
	flags.StringVarP(&opts.chartPath, "out", "o", "data/platform_distribution_chart.png", "where to save the platform chart")
	flags.StringVar(&opts.followersChart, "followers-chart", "", "also save a total-followers-by-platform chart here")
	return cmd
}

func run(ctx context.Context, opts options, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	fmt.Fprintf(out, "Loading data from %s...\n", opts.dataFile)
	tbl, err := dataset.FileSource{Path: opts.dataFile, Sheet: opts.sheet}.Load(ctx)
	if errors.Is(err, dataset.ErrFileNotFound) {
		fmt.Fprintln(out, "ERROR: Data file not found.")
		return fmt.Errorf("please make sure '%s' exists", opts.dataFile)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Cleaning 'Followers' column...")
	ds, err := dataset.Clean(tbl, dataset.CleanOptions{})
	if err != nil {
		return err
	}
	if !ds.Has(dataset.ColumnPlatform) {
		return fmt.Errorf("%w: %s", dataset.ErrMissingColumn, dataset.ColumnPlatform)
	}

	fmt.Fprintln(out, "Analyzing platform distribution...")
	counts := analysis.ValueCounts(ds, dataset.ColumnPlatform)
	if err := chart.SaveBarChart(counts, opts.chartPath, chart.PlatformDistribution()); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	fmt.Fprintf(out, "Chart saved to %s\n", opts.chartPath)

	fmt.Fprintln(out, "Analyzing total followers by platform...")
	sums := analysis.SumFollowersBy(ds, dataset.ColumnPlatform)
	if opts.followersChart != "" {
		o := chart.PlatformDistribution()
		o.Title = "Total Followers by Platform"
		o.YLabel = "Followers"
		if err := chart.SaveBarChart(sums, opts.followersChart, o); err != nil {
			return fmt.Errorf("save followers chart: %w", err)
		}
		fmt.Fprintf(out, "Chart saved to %s\n", opts.followersChart)
	}

	fmt.Fprintln(out, "\n--- Top Platforms by Count ---")
	printBuckets(out, counts)
	fmt.Fprintln(out, "\n--- Top Platforms by Total Followers ---")
	printBuckets(out, sums)

	if unparsed := ds.Len() - countValid(ds); unparsed > 0 {
		fmt.Fprintf(out, "\n%d rows had a Followers value that could not be read.\n", unparsed)
	}
	fmt.Fprintln(out, "\nAnalysis complete.")
	return nil
}

func printBuckets(out io.Writer, buckets []analysis.Bucket) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Platform\tValue\t")
	for _, b := range buckets {
		fmt.Fprintf(tw, "%s\t%s\t\n", b.Label, ui.FormatCount(b.Value))
	}
	_ = tw.Flush()
}

func countValid(ds dataset.Dataset) int {
	n := 0
	for _, r := range ds.Records {
		if r.Followers.Valid {
			n++
		}
	}
	return n
}
