package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tdepke2/BackupTools/internal/argparse"
	"github.com/tdepke2/BackupTools/internal/bpath"
	"github.com/tdepke2/BackupTools/internal/render"
	"github.com/tdepke2/BackupTools/internal/runjob"
)

var treeSpec = argparse.Spec{
	Bool: []string{"count", "c", "verbose", "v", "prune", "p"},
	Aliases: map[byte]string{
		'c': "count",
		'v': "verbose",
		'p': "prune",
	},
}

var treeCmd = &cobra.Command{
	Use:                "tree <config>",
	Short:              "Print the tree a backup run would produce",
	DisableFlagParsing: true,
	RunE:               runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(_ *cobra.Command, args []string) error {
	res, err := argparse.Parse(treeSpec, args)
	if err != nil {
		return err
	}
	if len(res.Positional) != 1 {
		return fmt.Errorf("tree requires exactly one <config> argument")
	}

	result, err := runjob.Diff(runjob.Options{ConfigPath: res.Positional[0], Warn: logger.Warning})
	if err != nil {
		return err
	}

	var dirs, files []bpath.Path
	classify := func(sourceHint string, dest bpath.Path) {
		if info, err := os.Lstat(sourceHint); err == nil && info.IsDir() {
			dirs = append(dirs, dest)
		} else {
			files = append(files, dest)
		}
	}
	for _, a := range result.ChangeSet.Additions {
		classify(a.Source.String(), a.Destination)
	}
	for _, m := range result.ChangeSet.Modifications {
		classify(m.Source.String(), m.Destination)
	}
	for _, r := range result.ChangeSet.Renames {
		classify(r.OldDestination.String(), r.NewDestination)
	}

	root := render.BuildTree(dirs, files)
	render.Tree(cmdOut(), root, render.TreeOptions{
		Count:   res.Bools["count"],
		Verbose: res.Bools["verbose"],
		Prune:   res.Bools["prune"],
	})
	return nil
}
