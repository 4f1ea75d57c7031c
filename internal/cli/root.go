// Package cli implements the preprocess command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/askiada/go-preprocess/internal/config"
	"github.com/askiada/go-preprocess/pkg/transform"
)

// app holds the state shared by every command of one root.
type app struct {
	cfgFile      string
	logLevel     string
	logFormat    string
	registryPath string
	concurrency  int

	cfg    *config.Global
	logger *slog.Logger
}

// Execute runs the command line and exits with status 1 on failure.
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the preprocess command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "preprocess",
		Short: "Fit and apply tabular preprocessing pipelines",
		Long: `preprocess fits scaling and categorical encoding pipelines on CSV data, stores the
fitted pipelines as files or in a local registry, and replays them on new data.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default is ~/.preprocess/config.yaml)")
	f.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")
	f.StringVar(&a.logFormat, "log-format", "", "log format: text or json (overrides config)")
	f.StringVar(&a.registryPath, "registry", "", "registry database path (overrides config)")
	f.IntVar(&a.concurrency, "concurrency", 0, "columns processed at once by each step (overrides config)")

	root.AddCommand(
		newFitCmd(a),
		newTransformCmd(a),
		newInspectCmd(a),
		newLineageCmd(a),
		newCorrCmd(a),
		newRegistryCmd(a),
		newConfigCmd(a),
	)

	return root
}

func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("log-level") {
		c.LogLevel = a.logLevel
	}
	if f.Changed("log-format") {
		c.LogFormat = a.logFormat
	}
	if f.Changed("registry") && a.registryPath != "" {
		c.RegistryPath = a.registryPath
	}
	if f.Changed("concurrency") {
		c.Concurrency = a.concurrency
	}

	a.cfg = c
	a.logger = newLogger(c.LogLevel, c.LogFormat, cmd.ErrOrStderr())

	return nil
}

func (a *app) stepOptions() []transform.StepOption {
	if a.cfg.Concurrency <= 1 {
		return nil
	}

	return []transform.StepOption{transform.StepConcurrency(a.cfg.Concurrency)}
}
