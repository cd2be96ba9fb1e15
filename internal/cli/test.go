package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/qaco/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string // scenario filter (glob pattern on the file name)
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run every YAML scenario in a directory against the engine.

Each scenario names a problem file (relative to the scenario), a strategy and
the engine calls to make with their expected outcomes.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  qaco test ./scenarios
  qaco test ./scenarios --filter "*-strategy.yaml"
  qaco test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return outputCommandError(formatter, ErrCodeNotFound,
			fmt.Errorf("scenarios directory not found: %s", dir))
	}

	paths, err := harness.FindScenarios(dir, opts.Filter)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err)
	}
	formatter.VerboseLog("Found %d scenario(s) in %s", len(paths), dir)

	suite := harness.RunSuite(cmd.Context(), paths, harness.WithLogger(opts.logger()))

	if formatter.Format == "json" {
		if err := formatter.Success(suite); err != nil {
			return err
		}
	} else {
		writeSuite(formatter, suite)
	}

	if suite.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", suite.Failed, suite.Total))
	}
	return nil
}

func writeSuite(formatter *OutputFormatter, suite *harness.SuiteResult) {
	w := formatter.Writer
	if suite.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}
	for _, s := range suite.Scenarios {
		if s.Pass {
			fmt.Fprintf(w, "✓ %s\n", s.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", suite.Passed, suite.Failed, suite.Total)
}
