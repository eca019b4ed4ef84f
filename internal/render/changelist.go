package render

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/tdepke2/BackupTools/internal/diffengine"
)

// ChangeList writes cs to w, one colored line per entry, grouped in the
// same order the OperationExecutor applies them (additions, renames,
// deletions, modifications) so a "check" run previews exactly the order
// a following "backup" would apply.
func ChangeList(w io.Writer, cs diffengine.ChangeSet) {
	for _, a := range cs.Additions {
		fmt.Fprintln(w, TrackedStyle.Render("+ "+a.Destination.String()))
	}
	for _, r := range cs.Renames {
		fmt.Fprintln(w, RenameStyle.Render(fmt.Sprintf("~ %s -> %s", r.OldDestination.String(), r.NewDestination.String())))
	}
	for _, d := range cs.Deletions {
		fmt.Fprintln(w, ErrorStyle.Render("- "+d.String()))
	}
	for _, m := range cs.Modifications {
		fmt.Fprintln(w, TrackedStyle.Render("* "+m.Destination.String()))
	}
	for _, warning := range cs.Warnings {
		fmt.Fprintln(w, WarningStyle.Render("! "+warning))
	}

	total := len(cs.Additions) + len(cs.Renames) + len(cs.Deletions) + len(cs.Modifications)
	fmt.Fprintf(w, "%d change(s)\n", total)
}

// Summary reports how many bytes a ChangeSet's additions and
// modifications will transfer, using humanized units.
func Summary(w io.Writer, bytesTotal int64) {
	fmt.Fprintf(w, "%s to transfer\n", humanize.Bytes(uint64(bytesTotal)))
}
