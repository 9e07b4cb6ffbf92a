package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kilianp07/schedlens/core/model"
	"github.com/kilianp07/schedlens/core/report"
	"github.com/kilianp07/schedlens/core/stats"
	"github.com/kilianp07/schedlens/infra/logger"
	"github.com/kilianp07/schedlens/pkg/export"
)

var summaryFormat string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the algorithm comparison table",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryFormat, "format", "f", "table", "output format: table, csv or json")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	switch summaryFormat {
	case "table", "csv", "json":
	default:
		return fmt.Errorf("unknown format %q", summaryFormat)
	}
	rep, err := report.NewBuilder(cfg.Report(), logger.New("summary"), nil).Build(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch summaryFormat {
	case "csv":
		return export.WriteCSV(out, rep.Comparison.Records)
	case "json":
		return export.WriteJSON(out, export.Summary{
			ReportID:   rep.ID,
			Comparison: rep.Comparison.Records,
			Insights:   rep.Insights,
			Advisories: rep.Advisories,
		})
	default:
		return writeTable(out, rep)
	}
}

// writeTable prints the comparison with the lowest averages starred,
// followed by the sidebar insights and any advisories.
func writeTable(w io.Writer, rep *report.Report) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Algorithm", "Avg Turnaround", "Avg Waiting", "Avg Response", "Avg Burst", "Processes"})
	for i, r := range rep.Comparison.Records {
		row := []string{r.Algorithm}
		for _, m := range stats.ComparedMetrics {
			cell := fmt.Sprintf("%.2f", r.Average(m))
			if i < len(rep.Comparison.Minimum) && rep.Comparison.Minimum[i][m] {
				cell += " *"
			}
			row = append(row, cell)
		}
		row = append(row, fmt.Sprintf("%.2f", r.Average(model.MetricBurst)), strconv.Itoa(r.ProcessCount))
		table.Append(row)
	}
	table.Render()

	in := rep.Insights
	lines := []string{
		"Best Turnaround: " + in.BestTurnaround,
		"Best Waiting: " + in.BestWaiting,
		"Best Response: " + in.BestResponse,
		"Total Processes Analyzed: " + strconv.Itoa(in.TotalProcesses),
		"Algorithms Compared: " + strconv.Itoa(in.AlgorithmsCompared),
	}
	for _, a := range rep.Advisories {
		lines = append(lines, "warning: "+a.Message)
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
