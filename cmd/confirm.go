package cmd

import (
	"errors"

	"github.com/manifoldco/promptui"
)

// confirmApply asks the user to accept the change set before it mutates
// anything, implementing the UserCancel error kind (§7): answering "n"
// aborts the apply phase with no filesystem mutation.
func confirmApply(summary string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     summary,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
