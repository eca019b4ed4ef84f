package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tdepke2/BackupTools/internal/argparse"
	"github.com/tdepke2/BackupTools/internal/render"
	"github.com/tdepke2/BackupTools/internal/runjob"
)

var checkSpec = argparse.Spec{
	Bool:  []string{"skip-cache", "fast-compare"},
	Value: []string{"limit"},
}

var checkCmd = &cobra.Command{
	Use:                "check <config>",
	Short:              "Preview the change set without touching the destination",
	DisableFlagParsing: true,
	RunE:               runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	res, err := argparse.Parse(checkSpec, args)
	if err != nil {
		return err
	}
	if len(res.Positional) != 1 {
		return fmt.Errorf("check requires exactly one <config> argument")
	}

	limit := 0
	if raw, ok := res.Values["limit"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("--limit requires a numeric argument")
		}
		limit = n
	}

	result, err := runjob.Diff(runjob.Options{
		ConfigPath:  res.Positional[0],
		SkipCache:   res.Bools["skip-cache"],
		FastCompare: res.Bools["fast-compare"],
		Limit:       limit,
		Warn:        logger.Warning,
	})
	if err != nil {
		return err
	}

	render.ChangeList(cmdOut(), result.ChangeSet)
	return nil
}
