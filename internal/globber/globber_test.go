package globber

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/tdepke2/BackupTools/internal/bpath"
	"github.com/tdepke2/BackupTools/internal/ignoreengine"
	"github.com/tdepke2/BackupTools/internal/match"
)

// - testDir
// | - src
// | | x.txt
// | | - a
// | | | y.txt
// | | | - b
// | | | | z.txt
func prepareTestDir(t *testing.T) string {
	testDir := t.TempDir()
	mustMkdirAll(t, filepath.Join(testDir, "src", "a", "b"))
	mustWriteFile(t, filepath.Join(testDir, "src", "x.txt"), "x")
	mustWriteFile(t, filepath.Join(testDir, "src", "a", "y.txt"), "y")
	mustWriteFile(t, filepath.Join(testDir, "src", "a", "b", "z.txt"), "z")
	return testDir
}

func mustMkdirAll(t *testing.T, path string) {
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
}

func mustWriteFile(t *testing.T, path, contents string) {
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func relStrings(paths []bpath.Path) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	sort.Strings(out)
	return out
}

func TestGlobstarMatchesAllDepths(t *testing.T) {
	testDir := prepareTestDir(t)
	g := New(bpath.Parse(testDir), &ignoreengine.Engine{}, match.Context{}, nil)

	group := g.Glob(filepath.Join(testDir, "src", "**", "*.txt"))

	got := relStrings(group.RelativePaths)
	want := []string{"a/b/z.txt", "a/y.txt", "x.txt"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSynthesizedTrailingGlobstarKeepsFinalDirectory(t *testing.T) {
	testDir := prepareTestDir(t)
	g := New(bpath.Parse(testDir), &ignoreengine.Engine{}, match.Context{}, nil)

	group := g.Glob(filepath.Join(testDir, "src", "a"))

	if group.ReadPrefix.Base() != "src" {
		t.Errorf("ReadPrefix = %q, want prefix ending in \"src\"", group.ReadPrefix.String())
	}

	found := false
	for _, p := range group.RelativePaths {
		if p.String() == "a" {
			found = true
		}
	}
	if !found {
		t.Error("expected \"a\" itself to appear as a relative path, not be folded into the read prefix")
	}
}

func TestIgnoredDirectoryIsNotWalked(t *testing.T) {
	testDir := prepareTestDir(t)
	ignore := &ignoreengine.Engine{}
	ignore.Add("a")
	g := New(bpath.Parse(testDir), ignore, match.Context{}, nil)

	group := g.Glob(filepath.Join(testDir, "src", "**", "*.txt"))

	for _, p := range group.RelativePaths {
		if p.String() == "a/y.txt" || p.String() == "a/b/z.txt" {
			t.Errorf("expected ignored subtree to be excluded, found %q", p.String())
		}
	}
	if len(group.RelativePaths) != 1 || group.RelativePaths[0].String() != "x.txt" {
		t.Errorf("RelativePaths = %v, want just {x.txt}", relStrings(group.RelativePaths))
	}
}

func TestWithAncestorsInsertsParentDirectories(t *testing.T) {
	group := ExpandedGroup{
		RelativePaths: []bpath.Path{
			{Segments: []string{"a", "b", "z.txt"}},
		},
	}
	out := WithAncestors(group)

	want := []string{"a", "a/b", "a/b/z.txt"}
	got := relStrings(out.RelativePaths)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
