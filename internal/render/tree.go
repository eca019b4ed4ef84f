package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tdepke2/BackupTools/internal/bpath"
)

// TreeOptions configures the "tree" command's supplemental flags (§13):
// -c/--count annotates each directory with its descendant file count,
// -p/--prune omits directories that contain nothing after ignore
// filtering.
type TreeOptions struct {
	Count   bool
	Verbose bool
	Prune   bool
}

// treeNode is a minimal in-memory directory tree built from a flat list
// of relative paths, used only for rendering (the walk itself happens in
// globber/diffengine; this package never touches the filesystem).
type treeNode struct {
	name     string
	isDir    bool
	children map[string]*treeNode
}

func newTreeNode(name string, isDir bool) *treeNode {
	return &treeNode{name: name, isDir: isDir, children: map[string]*treeNode{}}
}

// BuildTree assembles a treeNode from dirs (paths known to be
// directories) and files (paths known to be regular files), both
// relative to a common root.
func BuildTree(dirs, files []bpath.Path) *treeNode {
	root := newTreeNode("", true)
	insert := func(p bpath.Path, isDir bool) {
		cur := root
		for i, seg := range p.Segments {
			child, ok := cur.children[seg]
			if !ok {
				child = newTreeNode(seg, isDir || i < len(p.Segments)-1)
				cur.children[seg] = child
			}
			cur = child
		}
	}
	for _, d := range dirs {
		insert(d, true)
	}
	for _, f := range files {
		insert(f, false)
	}
	return root
}

// countFiles returns the number of regular-file descendants of n.
func countFiles(n *treeNode) int {
	if !n.isDir {
		return 1
	}
	total := 0
	for _, c := range n.children {
		total += countFiles(c)
	}
	return total
}

// Tree writes n to w using the classic box-drawing connectors, honoring
// opts.
func Tree(w io.Writer, n *treeNode, opts TreeOptions) {
	writeTreeChildren(w, n, "", opts)
}

func writeTreeChildren(w io.Writer, n *treeNode, prefix string, opts TreeOptions) {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return strings.ToLower(names[i]) < strings.ToLower(names[j]) })

	if opts.Prune {
		names = pruneEmpty(n, names)
	}

	for i, name := range names {
		child := n.children[name]
		last := i == len(names)-1
		connector := "├── "
		nextPrefix := prefix + "│   "
		if last {
			connector = "└── "
			nextPrefix = prefix + "    "
		}

		label := name
		if child.isDir {
			label = DirectoryStyle.Render(name + "/")
			if opts.Count {
				label += fmt.Sprintf(" (%d)", countFiles(child))
			}
		} else {
			label = TrackedStyle.Render(name)
		}
		fmt.Fprintln(w, prefix+connector+label)

		if child.isDir {
			writeTreeChildren(w, child, nextPrefix, opts)
		}
	}
}

func pruneEmpty(n *treeNode, names []string) []string {
	out := names[:0:0]
	for _, name := range names {
		child := n.children[name]
		if child.isDir && len(child.children) == 0 {
			continue
		}
		out = append(out, name)
	}
	return out
}
