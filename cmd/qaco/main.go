// Command qaco validates and solves QoS-aware service composition problems.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/qaco/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands report their own failures; only flag and usage errors
		// reach here unprinted.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
