// Package globber implements the Globber (§4.4): expansion of one source
// pattern to a common wildcard-free read prefix and the set of matching
// relative paths, honoring the active ignore set and hidden-file policy.
//
// The teacher (FolderChecksum) walks a single, already-known root with
// fs.WalkDir and filters every visited file through one compiled regexp
// (mustWalkDir in fs.go, shouldExcludePath in worker.go). This package
// generalizes that single-root walk into the spec's pattern-driven
// expansion: the read prefix is discovered (not given), and traversal is
// interleaved with wildcard and "**" matching instead of a post-hoc regex
// filter. The three parallel stacks the spec describes (path,
// pattern-cursor, ignore-cursor-vector) are consolidated into one stack of
// WalkFrame records, per the design notes' recommendation that the
// "ordinary segment | globstar" distinction is a natural sum type.
package globber

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/tdepke2/BackupTools/internal/bpath"
	"github.com/tdepke2/BackupTools/internal/ignoreengine"
	"github.com/tdepke2/BackupTools/internal/match"
)

// ExpandedGroup is the result of expanding one source pattern: the common
// wildcard-free read prefix and the ordered, deduplicated set of relative
// paths found beneath it.
type ExpandedGroup struct {
	ReadPrefix    bpath.Path
	RelativePaths []bpath.Path
}

// Globber expands source patterns against the live filesystem.
type Globber struct {
	Cwd     bpath.Path
	Ignore  *ignoreengine.Engine
	Ctx     match.Context
	Warn    func(format string, args ...any)
	seenAbs map[string]bool // previousReadPaths: absolute source paths already globbed this run
}

// New returns a Globber rooted at cwd. warn receives non-fatal
// FilesystemAccess diagnostics (unreadable directories are treated as
// empty and reported, never fatal).
func New(cwd bpath.Path, ignore *ignoreengine.Engine, ctx match.Context, warn func(string, ...any)) *Globber {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return &Globber{Cwd: cwd, Ignore: ignore, Ctx: ctx, Warn: warn, seenAbs: map[string]bool{}}
}

// frame is one position in the consolidated walk stack: an absolute
// filesystem path, an index into the pattern's remainder segments, and
// the per-ignore-pattern cursor vector observed so far on this branch.
type frame struct {
	abs       string
	patIdx    int
	ignore    ignoreengine.Frame
	candidate bpath.Path // path relative to the readPrefix, accumulated so far
}

// Glob expands pattern (absolute or relative to g.Cwd) per §4.4 and
// returns the ExpandedGroup.
func (g *Globber) Glob(rawPattern string) ExpandedGroup {
	p := bpath.Parse(rawPattern)
	if !p.Abs && p.Root == "" {
		p = g.Cwd.Join(p)
		p.Abs = true
	}

	synthesized := false
	if len(p.Segments) == 0 || (!match.IsGlobstar(p.Segments[len(p.Segments)-1]) && !bpath.ContainsWildcard(p.Segments[len(p.Segments)-1])) {
		segs := make([]string, len(p.Segments)+1)
		copy(segs, p.Segments)
		segs[len(segs)-1] = "**"
		p.Segments = segs
		synthesized = true
	}

	prefixLen := g.computeReadPrefix(p, synthesized)
	readPrefix := bpath.Path{Root: p.Root, Abs: p.Abs, Segments: append([]string(nil), p.Segments[:prefixLen]...)}
	remainder := p.Segments[prefixLen:]

	results := map[string]bpath.Path{}

	root := frame{
		abs:       readPrefix.String(),
		patIdx:    0,
		ignore:    g.Ignore.Root(),
		candidate: bpath.Path{},
	}

	stack := []frame{root}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = g.step(f, remainder, results, stack)
	}

	rel := make([]bpath.Path, 0, len(results))
	for _, p := range results {
		rel = append(rel, p)
	}
	sort.Slice(rel, func(i, j int) bool { return rel[i].Less(rel[j]) })

	return ExpandedGroup{ReadPrefix: readPrefix, RelativePaths: rel}
}

// step processes one popped frame, pushing any resulting child frames onto
// stack and recording any terminal matches into results.
func (g *Globber) step(f frame, remainder []string, results map[string]bpath.Path, stack []frame) []frame {
	if f.patIdx >= len(remainder) {
		g.insert(f.abs, f.candidate, results)
		if isDir, _ := g.statDir(f.abs); isDir {
			for _, child := range g.readDir(f.abs) {
				matched, nextIgnore := g.Ignore.Step(f.ignore, child.Name())
				if matched {
					continue
				}
				stack = append(stack, frame{
					abs:       filepath.Join(f.abs, child.Name()),
					patIdx:    f.patIdx,
					ignore:    nextIgnore,
					candidate: f.candidate.Join(bpath.Path{Segments: []string{child.Name()}}),
				})
			}
		}
		return stack
	}

	seg := remainder[f.patIdx]
	if match.IsGlobstar(seg) {
		// Matches zero segments: re-enter at the same path one pattern
		// position further along.
		stack = append(stack, frame{abs: f.abs, patIdx: f.patIdx + 1, ignore: f.ignore, candidate: f.candidate})

		// Matches one or more: descend one level, pattern position
		// unchanged.
		if isDir, _ := g.statDir(f.abs); isDir {
			for _, child := range g.readDir(f.abs) {
				matched, nextIgnore := g.Ignore.Step(f.ignore, child.Name())
				if matched {
					continue
				}
				stack = append(stack, frame{
					abs:       filepath.Join(f.abs, child.Name()),
					patIdx:    f.patIdx,
					ignore:    nextIgnore,
					candidate: f.candidate.Join(bpath.Path{Segments: []string{child.Name()}}),
				})
			}
		}
		return stack
	}

	isDir, exists := g.statDir(f.abs)
	if !exists || !isDir {
		return stack
	}
	for _, child := range g.readDir(f.abs) {
		if !match.MatchSegment(g.Ctx, seg, child.Name()) {
			continue
		}
		matched, nextIgnore := g.Ignore.Step(f.ignore, child.Name())
		if matched {
			continue
		}
		stack = append(stack, frame{
			abs:       filepath.Join(f.abs, child.Name()),
			patIdx:    f.patIdx + 1,
			ignore:    nextIgnore,
			candidate: f.candidate.Join(bpath.Path{Segments: []string{child.Name()}}),
		})
	}
	return stack
}

// insert records a terminal match, skipping it if its absolute path was
// already globbed earlier in this run (the previousReadPaths invariant)
// or if it names a non-regular, non-directory entry (symlinks, devices,
// etc. are out of scope per the non-goals).
func (g *Globber) insert(abs string, rel bpath.Path, results map[string]bpath.Path) {
	if g.seenAbs[abs] {
		return
	}
	info, err := os.Lstat(abs)
	if err != nil {
		return
	}
	if isSpecialFile(info.Mode()) {
		return
	}
	g.seenAbs[abs] = true
	results[abs] = rel
}

func isSpecialFile(mode os.FileMode) bool {
	specialBits := os.ModeType &^ os.ModeDir
	return mode&specialBits != 0
}

// statDir reports whether abs exists and is a directory, never following
// a symlink (symlinked directories are out of scope per the non-goals).
func (g *Globber) statDir(abs string) (isDir bool, exists bool) {
	info, err := os.Lstat(abs)
	if err != nil {
		return false, false
	}
	return info.IsDir(), true
}

// readDir lists abs's children, reporting and swallowing a read error as
// an empty directory (FilesystemAccess is non-fatal per §7).
func (g *Globber) readDir(abs string) []os.DirEntry {
	entries, err := os.ReadDir(abs)
	if err != nil {
		g.Warn("cannot read directory %q: %v", abs, err)
		return nil
	}
	return entries
}

// computeReadPrefix walks p's segments, advancing past each existing,
// wildcard-free directory segment, and returns the count of segments that
// belong to the read prefix.
func (g *Globber) computeReadPrefix(p bpath.Path, synthesized bool) int {
	prefixLen := 0
	for prefixLen < len(p.Segments) {
		seg := p.Segments[prefixLen]
		if match.IsGlobstar(seg) || bpath.ContainsWildcard(seg) {
			break
		}
		if synthesized && prefixLen == len(p.Segments)-2 {
			// seg is the original final literal segment, immediately
			// before the synthesized trailing "**": stop here so the
			// directory itself still appears in the walk results.
			break
		}
		candidate := bpath.Path{Root: p.Root, Abs: p.Abs, Segments: p.Segments[:prefixLen+1]}
		isDir, exists := g.statDir(candidate.String())
		if !exists || !isDir {
			break
		}
		prefixLen++
	}
	return prefixLen
}
