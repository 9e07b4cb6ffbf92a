package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/schedlens/config"
	coremon "github.com/kilianp07/schedlens/core/monitoring"
	"github.com/kilianp07/schedlens/infra/logger"
	"github.com/kilianp07/schedlens/infra/monitoring"
)

var (
	cfgPath string
	cfg     *config.Config
	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:          "schedlens",
	Short:        "CPU scheduling algorithm performance dashboard",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	// assigned here because setup refers back to rootCmd
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentPostRun = teardown
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// setup loads the configuration and initialises logging and error reporting.
// The default config file may be absent; an explicit --config must exist.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgPath, !cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts := c.Logging.Options()
	if cmd != rootCmd && cmd != serveCmd {
		// stdout carries the command output
		opts.Output = cmd.ErrOrStderr()
	}
	closer, err := logger.Configure(opts)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	mon, err := monitoring.NewSentryMonitor(c.Sentry)
	if err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)
	cfg, logFile = c, closer
	return nil
}

func teardown(_ *cobra.Command, _ []string) {
	coremon.Flush(2 * time.Second)
	if logFile != nil {
		_ = logFile.Close()
	}
}
