package metrics

import (
	"fmt"
	"time"

	"github.com/metricdocs/metricdocs/internal/catalog"
	"github.com/metricdocs/metricdocs/internal/config"
	"github.com/metricdocs/metricdocs/internal/history"
	"github.com/metricdocs/metricdocs/internal/providers"
	"github.com/metricdocs/metricdocs/internal/services/auth"

	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Query and report on a project's metric catalog",
		Long: `Read the metric-descriptor catalog of a project and report on it:
generate the full reference page, print summary statistics, or probe a
single metric type for time-series data.`,
		PersistentPreRunE: resolveProject,
	}

	cmd.AddCommand(GenerateCommand())
	cmd.AddCommand(StatsCommand())
	cmd.AddCommand(ProbeCommand())

	cmd.PersistentFlags().String("project", "", "Project ID to read metrics from (overrides default)")

	return cmd
}

// resolveProject ensures the --project flag has a value, falling back to
// the configured default when the flag was not explicitly passed.
func resolveProject(cmd *cobra.Command, args []string) error {
	if cmd.Flag("project").Changed {
		return nil // explicitly provided -- nothing to do
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.DefaultProject != "" {
		cmd.Flag("project").Value.Set(cfg.DefaultProject)
		return nil
	}

	return fmt.Errorf("no project specified: use --project or set a default with 'metricdocs config set default-project <id>'")
}

// getProvider returns the default monitoring backend using the standard
// credential store.
func getProvider(cmd *cobra.Command) (providers.Provider, error) {
	provider, err := providers.Get(cmd.Context(), providers.DefaultBackend, auth.DefaultStore())
	if err != nil {
		return nil, fmt.Errorf("monitoring backend: %w", err)
	}
	return provider, nil
}

// buildCatalog fetches the project's descriptor listing and ingests it.
// Truncation and per-descriptor problems are warnings on stderr; only a
// failed fetch is fatal.
func buildCatalog(cmd *cobra.Command, provider providers.Provider, projectID string, catOpts catalog.Options, listOpts providers.ListOptions) (*catalog.Catalog, bool, error) {
	listing, err := provider.ListMetricDescriptors(cmd.Context(), projectID, listOpts)
	if err != nil {
		return nil, false, fmt.Errorf("fetch metric descriptors: %w", err)
	}
	if listing.Truncated {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: results are incomplete; continuing with a partial metric list")
	}

	cat := catalog.New(catOpts)
	for _, d := range listing.Descriptors {
		if err := cat.Ingest(d); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipping descriptor: %v\n", err)
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Read %d metrics.\n", cat.Ingested())
	return cat, listing.Truncated, nil
}

// recordRun writes a best-effort run record. Errors opening the
// repository or saving the record are silently discarded.
func recordRun(rec history.RunRecord, err error, start time.Time) {
	repo, openErr := history.Open()
	if openErr != nil {
		return
	}
	defer repo.Close()

	rec.Timestamp = start
	rec.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		rec.Outcome = history.OutcomeError
		rec.Detail = err.Error()
	} else {
		rec.Outcome = history.OutcomeSuccess
	}
	_ = repo.Save(&rec)
}
