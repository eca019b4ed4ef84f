// Package diffengine implements the DiffEngine (§4.6): for each expanded
// source group, maintain a per-destination checklist, classify each source
// as an addition/modification/equal entry, turn unclaimed checklist
// entries into deletions (subject to ignore carve-outs), then run rename
// detection.
package diffengine

import "github.com/tdepke2/BackupTools/internal/bpath"

// Pair is a (source, destination) tuple, used for both additions and
// modifications.
type Pair struct {
	Source      bpath.Path
	Destination bpath.Path
}

// Rename reclassifies an (addition, deletion) pair with equivalent content
// as a single rename.
type Rename struct {
	OldDestination bpath.Path
	NewDestination bpath.Path
}

// ChangeSet is the four-way partition of required mutations, plus
// Warnings for display alongside it (runjob fills it with --limit
// truncation notices; unreadable directories are reported through the
// Warn callback instead, not collected here).
type ChangeSet struct {
	Additions     []Pair
	Modifications []Pair
	Renames       []Rename
	Deletions     []bpath.Path
	Warnings      []string
}

// Empty reports whether every collection is empty — the property a
// successful apply's post-run re-diff is expected to satisfy.
func (c ChangeSet) Empty() bool {
	return len(c.Additions) == 0 && len(c.Modifications) == 0 &&
		len(c.Renames) == 0 && len(c.Deletions) == 0
}
