package cmd

import (
	"os"

	"github.com/metricdocs/metricdocs/cmd/commands/auth"
	cfgcmd "github.com/metricdocs/metricdocs/cmd/commands/config"
	"github.com/metricdocs/metricdocs/cmd/commands/history"
	"github.com/metricdocs/metricdocs/cmd/commands/metrics"
	"github.com/metricdocs/metricdocs/internal/providers"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "metricdocs",
		Short: "A CLI tool for generating metric reference pages from Cloud Monitoring",
		Long: `metricdocs reads the metric-descriptor catalog of a Google Cloud project
and renders a static reference page listing every metric type with its
kind, value type, unit, and labels, grouped by provider and service.

The page is written to stdout so it can be redirected into a docs
pipeline; all warnings and progress messages go to stderr.

Quick start:
  metricdocs auth login --credentials-file sa.json   # optional; ADC otherwise
  metricdocs config set default-project my-project
  metricdocs metrics generate > metrics-list.md
  metricdocs metrics stats`,
	}

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(metrics.NewCommand())
	cmd.AddCommand(history.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	providers.RegisterGCM()

	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
