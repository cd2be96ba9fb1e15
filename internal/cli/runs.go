package cli

import (
	"errors"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/qaco/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Limit   int
	Problem string // problem hash filter
}

// RunsResult lists recorded engine calls.
type RunsResult struct {
	Runs []store.Run `json:"runs"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded engine calls",
		Long: `List the engine calls recorded in the run log, newest first.
The run log is set with --db or store.path in the config file.

Examples:
  qaco runs --db runs.db
  qaco runs --db runs.db --limit 5 --format json
  qaco runs --db runs.db --problem <hash>`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs (0 = all)")
	cmd.Flags().StringVar(&opts.Problem, "problem", "", "only runs for this problem hash")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if opts.DBPath == "" {
		return outputCommandError(formatter, ErrCodeNoRunLog,
			errors.New("run log not configured: set --db or store.path"))
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStoreFailed, err)
	}
	defer st.Close()

	var runs []store.Run
	if opts.Problem != "" {
		runs, err = st.RunsForProblem(cmd.Context(), opts.Problem)
		slices.Reverse(runs)
		if opts.Limit > 0 && len(runs) > opts.Limit {
			runs = runs[:opts.Limit]
		}
	} else {
		runs, err = st.ListRuns(cmd.Context(), opts.Limit)
	}
	if err != nil {
		return outputCommandError(formatter, ErrCodeStoreFailed, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(RunsResult{Runs: runs})
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded")
		return nil
	}
	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tOPERATION\tSTATUS\tRULE\tSTRATEGY\tBINDINGS\tID")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.CreatedSeq, r.Operation, r.Status, dash(r.ErrorRule), dash(r.Strategy), r.BindingCount, r.ID)
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
