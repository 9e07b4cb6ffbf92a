package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/schedlens/core/report"
	"github.com/kilianp07/schedlens/infra/charts"
	"github.com/kilianp07/schedlens/infra/logger"
)

var reportOut string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a static HTML page with every chart",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "report.html", "output file")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	log := logger.New("report")
	rep, err := report.NewBuilder(cfg.Report(), log, nil).Build(cmd.Context())
	if err != nil {
		return err
	}
	title := fmt.Sprintf("CPU Scheduling Report %s", rep.ID)
	page := charts.Page(title, rep.Comparison.Records, rep.Correlations)

	f, err := os.Create(reportOut)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := page.Render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("render report: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Infof("report %s written to %s", rep.ID, reportOut)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), reportOut)
	return err
}
