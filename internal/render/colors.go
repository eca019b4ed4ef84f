// Package render draws the terminal surface: the tree listing, the
// colored change list, and a tick-driven spinner/progress bar for long
// operations.
//
// The teacher (FolderChecksum) only ever writes plain lines via
// fmt.Fprintln (worker.go's outputNewFile and friends) to a file handle
// that defaults to stdout; no color, no animation. This package adopts
// rolldone/make-sync's stack for the richer terminal surface the spec
// calls for: charmbracelet/lipgloss for the mnemonic ANSI palette below,
// charmbracelet/bubbletea for the spinner/progress model in spinner.go.
package render

import "github.com/charmbracelet/lipgloss"

// Palette follows §6: cyan = directory, green = tracked file, yellow =
// ignored/warning, red = error/deletion, magenta = rename.
var (
	DirectoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	TrackedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	RenameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)
