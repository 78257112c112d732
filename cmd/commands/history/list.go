package history

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/metricdocs/metricdocs/internal/history"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent catalog reads",
		Long: `List recent catalog reads stored locally.

Examples:
  metricdocs history list
  metricdocs history list --limit 50
  metricdocs history list --project my-project
  metricdocs history list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of records to display")
	cmd.Flags().String("project", "", "Filter by project ID")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	project, _ := cmd.Flags().GetString("project")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}

	repo, err := history.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	var records []history.RunRecord
	if project != "" {
		records, err = repo.ListByProject(project, limit)
	} else {
		records, err = repo.List(limit)
	}
	if err != nil {
		return err
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}
	if output != "table" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No run records found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCOMMAND\tPROJECT\tMETRICS\tOUTCOME\tDURATION\tDETAIL")
	fmt.Fprintln(w, "----\t-------\t-------\t-------\t-------\t--------\t------")
	for _, rec := range records {
		timeStr := rec.Timestamp.Local().Format("2006-01-02 15:04:05")
		metrics := fmt.Sprintf("%d", rec.Metrics)
		if rec.Truncated {
			metrics += "+"
		}
		detail := rec.Detail
		if detail == "" {
			detail = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			timeStr,
			rec.Command,
			rec.Project,
			metrics,
			rec.Outcome,
			formatDuration(rec.DurationMs),
			detail,
		)
	}
	w.Flush()
	return nil
}

func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}
