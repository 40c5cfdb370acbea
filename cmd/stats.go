package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-contributions/internal/display"
	"github.com/naka-gawa/github-contributions/internal/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints the contribution calendar, streaks and repository activity",
	Long: `Aggregates the contribution calendar of GITHUB_USERNAME for --year (or the
trailing twelve months) together with top repositories and recent commit
activity, and prints it as JSON or as a terminal report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetInt("year")
		output, _ := cmd.Flags().GetString("output")
		if output != "json" && output != "table" {
			return fmt.Errorf("invalid --output %q: must be json or table", output)
		}

		a, err := setup(cmd)
		if err != nil {
			return err
		}

		var selected *int
		if cmd.Flags().Changed("year") {
			selected = &year
		}

		payload, err := a.aggregator.Aggregate(cmd.Context(), selected)
		if output == "json" {
			return writeJSONReport(cmd.OutOrStdout(), payload, err)
		}

		// The report degrades to an empty one rather than failing.
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not fetch contributions: %v\n", err)
			payload = display.Placeholder()
		}
		return renderReport(cmd.OutOrStdout(), payload)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().IntP("year", "y", 0, "Calendar year to report (default: trailing twelve months)")
	statsCmd.Flags().StringP("output", "o", "json", "Output format: json or table")
}

func renderReport(w io.Writer, payload *domain.ContributionsPayload) error {
	if err := display.Render(w, payload); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// writeJSONReport prints payload as JSON, or returns the aggregation error
// unchanged since it already names the failed step.
func writeJSONReport(w io.Writer, payload *domain.ContributionsPayload, err error) error {
	if err != nil {
		return err
	}
	return writeJSON(w, payload)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
