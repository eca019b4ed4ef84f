package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tdepke2/BackupTools/internal/argparse"
	"github.com/tdepke2/BackupTools/internal/diffengine"
	"github.com/tdepke2/BackupTools/internal/opexec"
	"github.com/tdepke2/BackupTools/internal/progress"
	"github.com/tdepke2/BackupTools/internal/render"
	"github.com/tdepke2/BackupTools/internal/runjob"
)

var backupSpec = argparse.Spec{
	Bool:  []string{"skip-cache", "fast-compare", "force", "f"},
	Value: []string{"limit"},
	Aliases: map[byte]string{
		'f': "f",
	},
}

var backupCmd = &cobra.Command{
	Use:                "backup <config>",
	Short:              "Apply the computed change set to the destination tree",
	DisableFlagParsing: true,
	RunE:               runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
}

func runBackup(_ *cobra.Command, args []string) error {
	res, err := argparse.Parse(backupSpec, args)
	if err != nil {
		return err
	}
	if len(res.Positional) != 1 {
		return fmt.Errorf("backup requires exactly one <config> argument")
	}

	limit := 0
	if raw, ok := res.Values["limit"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("--limit requires a numeric argument")
		}
		limit = n
	}
	force := res.Bools["force"] || res.Bools["f"]

	publisher := progress.New()
	result, err := runjob.Diff(runjob.Options{
		ConfigPath:  res.Positional[0],
		SkipCache:   res.Bools["skip-cache"],
		FastCompare: res.Bools["fast-compare"],
		Limit:       limit,
		Warn:        logger.Warning,
		Publisher:   publisher,
	})
	if err != nil {
		return err
	}
	if result.ChangeSet.Empty() {
		fmt.Println("nothing to do")
		return nil
	}

	render.ChangeList(os.Stdout, result.ChangeSet)
	ok, err := confirmApply("Apply these changes")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("aborted, no changes applied")
		return nil
	}

	exec := opexec.New(publisher, false)
	applyErr := runApplyWithSpinner(exec, result.ChangeSet)
	if applyErr != nil {
		return applyErr
	}
	publisher.WaitAsync()

	if err := result.Oracle.Save(result.ConfigMtime); err != nil {
		logger.Warning("cannot save equivalence cache: %v", err)
	}

	if exec.Stats.Errors.Load() > 0 {
		fmt.Fprintf(os.Stderr, "%d operation(s) failed\n", exec.Stats.Errors.Load())
	}

	if !force {
		reDiff, err := runjob.Diff(runjob.Options{
			ConfigPath:  res.Positional[0],
			SkipCache:   res.Bools["skip-cache"],
			FastCompare: res.Bools["fast-compare"],
			Warn:        logger.Warning,
		})
		if err == nil && !reDiff.ChangeSet.Empty() {
			fmt.Fprintln(os.Stderr, "warning: changes remain after apply (I/O failure, or a destination nested inside a source)")
			render.ChangeList(os.Stderr, reDiff.ChangeSet)
		}
	}

	fmt.Printf("%d added, %d modified, %d renamed, %d deleted\n",
		exec.Stats.Additions.Load(), exec.Stats.Modifications.Load(), exec.Stats.Renames.Load(), exec.Stats.Deletions.Load())
	return nil
}

// runApplyWithSpinner drives exec.Apply to completion, showing the
// braille spinner (render.SpinnerModel) whenever stdout is a real
// terminal. Redirected to a file or a pipe, the spinner's repaints
// would just be escape-code noise, so Apply is run plainly instead.
func runApplyWithSpinner(exec *opexec.Executor, cs diffengine.ChangeSet) error {
	if !render.IsInteractive(os.Stdout) {
		return exec.Apply(context.Background(), cs)
	}

	applyErr := make(chan error, 1)
	go func() {
		applyErr <- exec.Apply(context.Background(), cs)
	}()

	model := render.NewSpinnerModel(exec.Publisher, "applying")
	if _, err := tea.NewProgram(model).Run(); err != nil {
		logger.Warning("spinner display failed: %v", err)
	}
	return <-applyErr
}
