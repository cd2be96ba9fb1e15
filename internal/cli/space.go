package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qaco/internal/engine"
	"github.com/roach88/qaco/internal/ir"
	"github.com/roach88/qaco/internal/strategy"
)

// SpaceOptions holds flags for the space command.
type SpaceOptions struct {
	*RootOptions
	Strategy string
}

// SpaceResult is the binding space a strategy explores for a CWS.
type SpaceResult struct {
	Strategy string       `json:"strategy"`
	Found    bool         `json:"found"`
	Bindings []ir.Binding `json:"bindings"`
}

// NewSpaceCommand creates the space command.
func NewSpaceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SpaceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "space <problem>",
		Short: "Show the binding space of a composite web service",
		Long: `Validate the composite web service of a problem file and print the binding
space the strategy would explore. Only the cws part of the file is checked.

Exit codes:
  0 - Binding space produced
  1 - Invalid CWS, invalid space, strategy failure or no space
  2 - Command error`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "strategy name (default from config, else uniform)")

	return cmd
}

func runSpace(opts *SpaceOptions, path string, cmd *cobra.Command) (err error) {
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

	sess, err := opts.openSession(strat)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStoreFailed, err)
	}
	defer sess.close(&err)

	result := SpaceResult{Strategy: engine.StrategyName(strat), Bindings: []ir.Binding{}}
	space, ok, serr := sess.engine.BindingSpace(cmd.Context(), problem.CompositeWebService, nil)
	if serr != nil {
		return outputEngineError(formatter, serr, result)
	}
	if !ok {
		if formatter.Format == "json" {
			_ = formatter.Failure(ErrCodeNoSolution, "strategy produced no binding space", nil, result)
		} else {
			fmt.Fprintf(formatter.Writer, "✗ No binding space (%s)\n", result.Strategy)
		}
		return NewExitError(ExitFailure, "no binding space")
	}

	result.Found = true
	result.Bindings = space.Bindings
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Binding space (%s): %d binding(s)\n", result.Strategy, len(space.Bindings))
	writeBindings(formatter.Writer, space.Bindings)
	return nil
}
