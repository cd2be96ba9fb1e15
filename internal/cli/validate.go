package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qaco/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool       `json:"valid"`
	ProblemHash string     `json:"problem_hash,omitempty"`
	Violation   *Violation `json:"violation,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <problem>",
		Short: "Validate a problem without solving it",
		Long: `Load a problem file (.cue, .json, .yaml) or CUE package directory and run
the structural and referential checks the engine applies before solving.

Exit codes:
  0 - Problem is valid
  1 - Problem is invalid
  2 - Command error (file not found, parse error, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) (err error) {
	formatter := opts.formatter(cmd)

	problem, err := LoadProblem(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Loaded %s", path)

	sess, err := opts.openSession(nil)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStoreFailed, err)
	}
	defer sess.close(&err)

	if verr := sess.engine.Validate(cmd.Context(), problem); verr != nil {
		v, _ := violationFrom(verr)
		return outputEngineError(formatter, verr, ValidationResult{Valid: false, Violation: &v})
	}

	hash, err := ir.ProblemHash(problem)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, ProblemHash: hash})
	}
	fmt.Fprintln(formatter.Writer, "✓ Problem valid")
	formatter.VerboseLog("problem hash: %s", hash)
	return nil
}
