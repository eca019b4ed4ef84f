package render

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether f is attached to a terminal. The spinner
// (spinner.go) and the colored change list are both worth suppressing
// when the caller has redirected output to a file or a pipe: animated
// frames corrupt a log, and ANSI escapes just show up as noise.
//
// Grounded on rolldone/make-sync's term.IsTerminal(int(os.Stdin.Fd()))
// check in internal/util/display_raw.go, applied here to the write side
// instead of stdin.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns f's terminal width in columns, falling back to
// fallback when f isn't a terminal or the ioctl fails (piped output,
// a dumb terminal, redirected stdout in a CI runner).
func Width(f *os.File, fallback int) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
