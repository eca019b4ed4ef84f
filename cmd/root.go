// Package cmd wires cobra command dispatch to the rest of the tool. Every
// subcommand sets DisableFlagParsing so the custom argparse package owns
// option grammar (see §6); cobra is kept for command-name dispatch, help
// text, and the REPL's SetArgs re-entry, grounded on
// security-researcher-ca-AI-Agentic-Shield's internal/cli package
// (rootCmd + one file per subcommand, each appending itself in init).
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tdepke2/BackupTools/internal/applog"
)

var logger = applog.New(applog.WARNING)

var rootCmd = &cobra.Command{
	Use:           "backuptools",
	Short:         "Configuration-driven one-way directory mirror",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command named by os.Args, or drops into the REPL with
// no arguments (§6).
func Execute() error {
	if len(os.Args) <= 1 {
		return runREPL()
	}
	return rootCmd.Execute()
}

// dispatch re-enters the command table with a fresh argv, used by the
// REPL (from one tokenized line).
func dispatch(args []string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, err)
}

// cmdOut is the writer commands render their primary output to; broken
// out so tests can substitute a buffer.
var cmdOutWriter io.Writer = os.Stdout

func cmdOut() io.Writer { return cmdOutWriter }
