package metrics

import (
	"time"

	"github.com/metricdocs/metricdocs/internal/catalog"
	"github.com/metricdocs/metricdocs/internal/config"
	"github.com/metricdocs/metricdocs/internal/history"
	"github.com/metricdocs/metricdocs/internal/providers"
	"github.com/metricdocs/metricdocs/internal/report"

	"github.com/spf13/cobra"
)

func GenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the metrics reference page",
		Long: `Generate the metrics reference page for a project.

The page is written to stdout; warnings go to stderr, so the output can
be redirected straight into a docs tree:

  metricdocs metrics generate --project my-project > metrics-list.md

Custom metrics are left out unless --include-custom is given. With
--probe-timeseries, the first metric of every service is probed for
recent time-series data (slower; one extra API call per service).`,
		RunE:         runGenerate,
		SilenceUsage: true,
	}

	cmd.Flags().String("prefix", "", "Restrict to metric types starting with this prefix")
	cmd.Flags().Bool("include-custom", false, "Include custom metrics in the page")
	cmd.Flags().Bool("probe-timeseries", false, "Probe each service for recent time-series data")
	cmd.Flags().StringP("format", "o", "", "Output format: markdown or html (overrides default)")
	cmd.Flags().Int("max-pages", 0, "Maximum descriptor pages to fetch, 0 for all")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	projectID := cmd.Flag("project").Value.String()
	prefix, _ := cmd.Flags().GetString("prefix")
	includeCustom, _ := cmd.Flags().GetBool("include-custom")
	probeSeries, _ := cmd.Flags().GetBool("probe-timeseries")
	maxPages, _ := cmd.Flags().GetInt("max-pages")

	format, err := resolveFormat(cmd)
	if err != nil {
		return err
	}

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
		Command:    "generate",
		Project:    projectID,
		TypePrefix: prefix,
		Format:     string(format),
	}

	start := time.Now()
	cat, truncated, err := buildCatalog(cmd, provider, projectID, catOpts, providers.ListOptions{
		TypePrefix: prefix,
		MaxPages:   maxPages,
	})
	if err != nil {
		recordRun(rec, err, start)
		return err
	}
	rec.Metrics = cat.Ingested()
	rec.Truncated = truncated
	recordRun(rec, nil, start)

	renderer := &report.Renderer{
		Out:    cmd.OutOrStdout(),
		Diag:   cmd.ErrOrStderr(),
		Format: format,
	}
	return renderer.Render(cat, report.Options{Project: projectID, TypePrefix: prefix})
}

// resolveFormat picks the report format from the flag, falling back to
// the configured default.
func resolveFormat(cmd *cobra.Command) (report.Format, error) {
	formatFlag, _ := cmd.Flags().GetString("format")
	if formatFlag == "" {
		cfg, err := config.Load()
		if err == nil {
			formatFlag = cfg.DefaultFormat
		}
	}
	return report.ParseFormat(formatFlag)
}
