package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/qaco/internal/engine"
	"github.com/roach88/qaco/internal/ir"
	"github.com/roach88/qaco/internal/strategy"
)

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	Strategy string
	Seed     int64
}

// SolveResult is the outcome of a solve.
type SolveResult struct {
	Strategy    string       `json:"strategy"`
	Solved      bool         `json:"solved"`
	ProblemHash string       `json:"problem_hash"`
	Bindings    []ir.Binding `json:"bindings"`
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve <problem>",
		Short: "Bind every task of a problem to a candidate service",
		Long: `Validate a problem, hand it to a strategy and validate the bindings it
returns.

Exit codes:
  0 - Solution found
  1 - Invalid problem, invalid solution, strategy failure or no solution
  2 - Command error (file not found, unknown strategy, etc.)

Examples:
  qaco solve translation.cue
  qaco solve translation.cue --seed 42 --format json
  qaco solve ./problem --strategy uniform --db runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "strategy name (default from config, else uniform)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "fix the strategy's random seed")

	return cmd
}

func runSolve(opts *SolveOptions, path string, cmd *cobra.Command) (err error) {
	formatter := opts.formatter(cmd)

	name := opts.Strategy
	if name == "" {
		name = opts.defaultStrategy()
	}
	strat, err := strategy.Lookup(name)
	if err != nil {
		return outputCommandError(formatter, ErrCodeUnknownStrat, err)
	}

	problem, err := LoadProblem(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Loaded %s", path)

	var cfg strategy.Config
	if cmd.Flags().Changed("seed") {
		cfg.Seed = &opts.Seed
	}

	sess, err := opts.openSession(strat)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStoreFailed, err)
	}
	defer sess.close(&err)

	result := SolveResult{Strategy: engine.StrategyName(strat), Bindings: []ir.Binding{}}
	bindings, ok, serr := sess.engine.Solve(cmd.Context(), problem, cfg)
	if serr != nil {
		return outputEngineError(formatter, serr, result)
	}

	// Validated problems always hash.
	result.ProblemHash, _ = ir.ProblemHash(problem)

	if !ok {
		if formatter.Format == "json" {
			_ = formatter.Failure(ErrCodeNoSolution, "strategy found no solution", nil, result)
		} else {
			fmt.Fprintf(formatter.Writer, "✗ No solution (%s)\n", result.Strategy)
		}
		return NewExitError(ExitFailure, "no solution")
	}

	result.Solved = true
	result.Bindings = bindings
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Solution found (%s)\n", result.Strategy)
	writeBindings(formatter.Writer, bindings)
	return nil
}

// writeBindings prints one block per binding with one "task -> service" line
// per mapping.
func writeBindings(w io.Writer, bindings []ir.Binding) {
	for i, b := range bindings {
		fmt.Fprintf(w, "\nbinding %d:\n", i+1)
		for _, m := range b.BindingMappings {
			fmt.Fprintf(w, "  %s -> %s\n", m.Task.Name, describeService(m.CandidateService))
		}
	}
}

func describeService(c *ir.CandidateService) string {
	if c.Provider == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Provider)
}
