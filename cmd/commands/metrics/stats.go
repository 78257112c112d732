package metrics

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/metricdocs/metricdocs/internal/catalog"
	"github.com/metricdocs/metricdocs/internal/history"
	"github.com/metricdocs/metricdocs/internal/providers"

	"github.com/spf13/cobra"
)

func StatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show metric counts per group and service",
		Long: `Show how many services and metrics the project's catalog contains,
per group and per service.

With --probe-timeseries, services that appear to have recent
time-series data are listed as well.

Example:
  metricdocs metrics stats --project my-project`,
		RunE:         runStats,
		SilenceUsage: true,
	}

	cmd.Flags().String("prefix", "", "Restrict to metric types starting with this prefix")
	cmd.Flags().Bool("include-custom", false, "Include custom metrics in the counts")
	cmd.Flags().Bool("probe-timeseries", false, "Probe each service for recent time-series data")

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	projectID := cmd.Flag("project").Value.String()
	prefix, _ := cmd.Flags().GetString("prefix")
	includeCustom, _ := cmd.Flags().GetBool("include-custom")
	probeSeries, _ := cmd.Flags().GetBool("probe-timeseries")

	provider, err := getProvider(cmd)
	if err != nil {
		return err
	}

	catOpts := catalog.Options{
		IncludeCustom: includeCustom,
		Diag:          cmd.ErrOrStderr(),
	}
	if probeSeries {
		catOpts.Probe = func(metricType string) (int, error) {
			start, end := providers.ProbeWindow(time.Now())
			return provider.CountTimeSeries(cmd.Context(), projectID, metricType, start, end)
		}
	}

	rec := history.RunRecord{
		Command:    "stats",
		Project:    projectID,
		TypePrefix: prefix,
	}

	start := time.Now()
	cat, truncated, err := buildCatalog(cmd, provider, projectID, catOpts, providers.ListOptions{TypePrefix: prefix})
	if err != nil {
		recordRun(rec, err, start)
		return err
	}
	rec.Metrics = cat.Ingested()
	rec.Truncated = truncated
	recordRun(rec, nil, start)

	stats := cat.Stats()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "GROUP\tSERVICE\tMETRICS")
	fmt.Fprintln(w, "-----\t-------\t-------")
	for _, sc := range stats.Services {
		service := sc.Key.Service
		if service == "" {
			service = "none"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n", sc.Key.Group, service, sc.Metrics)
	}
	w.Flush()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	for _, gc := range stats.Groups {
		fmt.Fprintf(out, "Group %s has %d services and %d metrics\n", gc.Group, gc.Services, gc.Metrics)
	}
	fmt.Fprintf(out, "There are %d total metrics\n", stats.TotalMetrics)

	if probeSeries {
		fmt.Fprintf(out, "There are %d services with time series\n", len(stats.WithTimeSeries))
		for _, key := range stats.WithTimeSeries {
			fmt.Fprintf(out, "  %s\n", key)
		}
	}

	return nil
}
