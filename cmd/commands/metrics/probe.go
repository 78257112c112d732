package metrics

import (
	"fmt"
	"time"

	"github.com/metricdocs/metricdocs/internal/providers"

	"github.com/spf13/cobra"
)

func ProbeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Probe one metric type for time-series data",
		Long: `Report how many time series exist for a single metric type within the
probe window (the last 30 days, ending one minute ago).

With --detail, the monitored-resource type of each series is listed.

Examples:
  metricdocs metrics probe --project my-project \
      --type compute.googleapis.com/instance/cpu/utilization`,
		RunE:         runProbe,
		SilenceUsage: true,
	}

	cmd.Flags().String("type", "", "Metric type to probe (required)")
	cmd.MarkFlagRequired("type")
	cmd.Flags().Duration("window", 0, "Probe window length (default 720h)")
	cmd.Flags().Bool("detail", false, "List the resource type of each series")

	return cmd
}

func runProbe(cmd *cobra.Command, args []string) error {
	projectID := cmd.Flag("project").Value.String()
	metricType, _ := cmd.Flags().GetString("type")
	window, _ := cmd.Flags().GetDuration("window")
	detail, _ := cmd.Flags().GetBool("detail")

	provider, err := getProvider(cmd)
	if err != nil {
		return err
	}

	start, end := providers.ProbeWindow(time.Now())
	if window > 0 {
		start = end.Add(-window)
	}

	if detail {
		resourceTypes, truncated, err := provider.SeriesResourceTypes(cmd.Context(), projectID, metricType, start, end)
		if err != nil {
			return fmt.Errorf("probe %s: %w", metricType, err)
		}
		if truncated {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning: results are incomplete; more series exist than were listed")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s has %d time series\n", metricType, len(resourceTypes))
		for _, resourceType := range resourceTypes {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", resourceType)
		}
		return nil
	}

	n, err := provider.CountTimeSeries(cmd.Context(), projectID, metricType, start, end)
	if err != nil {
		return fmt.Errorf("probe %s: %w", metricType, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s has %d time series\n", metricType, n)
	return nil
}
