package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:                "help",
	Short:              "Show the command summary",
	DisableFlagParsing: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Fprintln(cmdOut(), `backuptools commands:

  backup <config> [--limit N] [--skip-cache] [--fast-compare] [-f|--force]
  check  <config> [--limit N] [--skip-cache] [--fast-compare]
  tree   <config> [-c|--count] [-v|--verbose] [-p|--prune]
  help | help-config | exit`)
		return nil
	},
}

// helpConfigCmd documents the declarative config grammar (§13: named in
// the command summary above, its output is otherwise unspecified).
var helpConfigCmd = &cobra.Command{
	Use:                "help-config",
	Short:              "Show the configuration file grammar",
	DisableFlagParsing: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Fprintln(cmdOut(), `configuration grammar, one command per line:

  root <alias> <path>          declare a path alias usable as a leading segment
  set <option> <value>         glob-matching | match-hidden, true/false
  ignore <pattern>              add an ignore pattern (relative patterns match anywhere)
  include <pattern>             remove a previously declared ignore pattern exactly
  in <writePath>                 set the destination prefix for following "add" lines
  in <writePath> add <pattern>  set the prefix and immediately add one pattern
  add <pattern>                  expand pattern beneath the current "in" prefix

Lines starting with # are comments; blank lines are ignored.`)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(helpCmd)
	rootCmd.AddCommand(helpConfigCmd)
}
