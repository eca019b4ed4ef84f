package globber

import (
	"sort"

	"github.com/tdepke2/BackupTools/internal/bpath"
)

// WithAncestors wraps an ExpandedGroup for the tree view: every ancestor
// directory of a matched relative path is inserted into the set too (walk
// upward, inserting until an insertion is a no-op), then the whole set is
// re-sorted.
func WithAncestors(group ExpandedGroup) ExpandedGroup {
	seen := map[string]bool{}
	var all []bpath.Path
	add := func(p bpath.Path) bool {
		key := p.String()
		if seen[key] {
			return false
		}
		seen[key] = true
		all = append(all, p)
		return true
	}

	for _, p := range group.RelativePaths {
		add(p)
		for d := p.Dir(); !d.Empty(); d = d.Dir() {
			if !add(d) {
				break
			}
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Less(all[j]) })

	return ExpandedGroup{ReadPrefix: group.ReadPrefix, RelativePaths: all}
}
