package diffengine

import (
	"sort"

	"github.com/tdepke2/BackupTools/internal/bpath"
	"github.com/tdepke2/BackupTools/internal/equivalence"
	"github.com/tdepke2/BackupTools/internal/globber"
	"github.com/tdepke2/BackupTools/internal/ignoreengine"
)

// Engine is the DiffEngine of §4.6. Feed it one ExpandedGroup per
// WriteReadAssignment (in config order, as the ConfigInterpreter and
// Globber lazily produce them), then call Finish to resolve deletions and
// renames.
//
// The teacher (FolderChecksum) computes its whole change set in one pass
// over a single destination tree (worker.go's compareDirs, matched
// against db.go's stored checksums); this engine generalizes that to an
// arbitrary number of write prefixes, each with its own destination
// checklist, processed incrementally as assignments stream in.
type Engine struct {
	Oracle *equivalence.Oracle
	Ignore *ignoreengine.Engine
	Warn   func(format string, args ...any)

	// SkipCache and FastCompare are forwarded to every Equivalent call;
	// see §6's --skip-cache and --fast-compare flags.
	SkipCache   bool
	FastCompare bool

	checklists map[string]checklist
	prefixes   map[string]bpath.Path

	additions     []Pair
	modifications []Pair
}

// New returns an Engine ready to accept ExpandedGroups.
func New(oracle *equivalence.Oracle, ignore *ignoreengine.Engine, warn func(string, ...any)) *Engine {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return &Engine{
		Oracle:     oracle,
		Ignore:     ignore,
		Warn:       warn,
		checklists: map[string]checklist{},
		prefixes:   map[string]bpath.Path{},
	}
}

// Add classifies every relative path in group against writePrefix's
// checklist, building it (or creating the directory) on first use.
func (e *Engine) Add(writePrefix bpath.Path, group globber.ExpandedGroup) error {
	key := writePrefix.String()
	list, ok := e.checklists[key]
	if !ok {
		built, err := buildChecklist(writePrefix, e.Warn)
		if err != nil {
			return err
		}
		list = built
		e.checklists[key] = list
		e.prefixes[key] = writePrefix
	}

	for _, rel := range group.RelativePaths {
		source := group.ReadPrefix.Join(rel)
		destination := writePrefix.Join(rel)
		dkey := destination.String()

		if _, claimed := list[dkey]; claimed {
			delete(list, dkey)
			if !e.Oracle.Equivalent(source.String(), destination.String(), e.SkipCache, e.FastCompare) {
				e.modifications = append(e.modifications, Pair{Source: source, Destination: destination})
			}
		} else {
			e.additions = append(e.additions, Pair{Source: source, Destination: destination})
		}
	}
	return nil
}

// Finish resolves every writePrefix's residual checklist into deletions
// (honoring ignore carve-outs), runs rename detection over the resulting
// addition/deletion sets, and returns the final ChangeSet.
func (e *Engine) Finish() ChangeSet {
	var deletions []bpath.Path
	for key, list := range e.checklists {
		deletions = append(deletions, e.resolveDeletions(e.prefixes[key], list)...)
	}

	additions, renames, deletions := detectRenames(e.additions, deletions, e.Oracle)

	sort.Slice(additions, func(i, j int) bool { return additions[i].Destination.Less(additions[j].Destination) })
	sort.Slice(e.modifications, func(i, j int) bool { return e.modifications[i].Destination.Less(e.modifications[j].Destination) })
	sort.Slice(renames, func(i, j int) bool { return renames[i].NewDestination.Less(renames[j].NewDestination) })
	sort.Slice(deletions, func(i, j int) bool { return deletions[i].Less(deletions[j]) })

	return ChangeSet{
		Additions:     additions,
		Modifications: e.modifications,
		Renames:       renames,
		Deletions:     deletions,
	}
}

// resolveDeletions walks writePrefix's residual checklist entries
// leaves-first, carving out any entry matched by the active ignore set
// along with all of its ancestors (an ignored entry's containing
// directories are never deleted either, even once empty of everything
// else).
func (e *Engine) resolveDeletions(writePrefix bpath.Path, list checklist) []bpath.Path {
	residual := make([]bpath.Path, 0, len(list))
	for _, p := range list {
		residual = append(residual, p)
	}
	sort.Slice(residual, func(i, j int) bool { return residual[i].Less(residual[j]) })

	protected := map[string]bool{}
	var out []bpath.Path
	for i := len(residual) - 1; i >= 0; i-- {
		p := residual[i]
		if protected[p.String()] {
			continue
		}

		rel := bpath.Path{Segments: p.Segments[len(writePrefix.Segments):]}
		if e.Ignore.IsPathIgnored(rel) {
			for a := p.Dir(); len(a.Segments) > len(writePrefix.Segments); a = a.Dir() {
				protected[a.String()] = true
			}
			continue
		}
		out = append(out, p)
	}
	return out
}
