package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/qaco/internal/config"
	"github.com/roach88/qaco/internal/logging"
)

// RootOptions holds global flags for all commands and the environment the
// root command builds from them.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	ConfigPath  string
	DBPath      string // run log database; overrides store.path
	MetricsFile string // Prometheus textfile; overrides metrics.file

	Config *config.Config
	Logger *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the qaco CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "qaco",
		Short: "QACO - QoS-aware composition",
		Long: `Validate QoS-aware web service composition problems and bind their
tasks to candidate services through a pluggable strategy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			err := opts.setup(cmd)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			}
			return err
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output and debug logs")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: ./qaco.yaml or ~/.config/qaco/qaco.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "run log database path")
	cmd.PersistentFlags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewSolveCommand(opts))
	cmd.AddCommand(NewSpaceCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// setup checks the format, loads configuration and builds the logger.
// Flags win over config.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}
	if o.DBPath == "" {
		o.DBPath = cfg.Store.Path
	}
	if o.MetricsFile == "" {
		o.MetricsFile = cfg.Metrics.File
	}

	logCfg := logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if o.Verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg, cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "build logger", err)
	}

	o.Config = cfg
	o.Logger = logger
	return nil
}

// logger returns the configured logger, or a no-op logger when commands run
// without the root command.
func (o *RootOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// defaultStrategy returns the strategy used when --strategy is not given.
func (o *RootOptions) defaultStrategy() string {
	if o.Config != nil && o.Config.Strategy.Default != "" {
		return o.Config.Strategy.Default
	}
	return "uniform"
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
