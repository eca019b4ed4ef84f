package opexec

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tdepke2/BackupTools/internal/bpath"
	"github.com/tdepke2/BackupTools/internal/diffengine"
)

func mustWriteFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func pathAt(path string) bpath.Path {
	return bpath.Parse(path)
}

func TestApplyAdditionCopiesFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "nested", "dst.txt")
	mustWriteFile(t, src, "payload")

	e := New(nil, false)
	cs := diffengine.ChangeSet{Additions: []diffengine.Pair{{Source: pathAt(src), Destination: pathAt(dst)}}}
	if err := e.Apply(context.Background(), cs); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Errorf("dst contents = %q, want %q", got, "payload")
	}
	if e.Stats.Additions.Load() != 1 {
		t.Errorf("Stats.Additions = %d, want 1", e.Stats.Additions.Load())
	}
}

func TestApplyRenameMovesFile(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "sub", "new.txt")
	mustWriteFile(t, oldPath, "moved")

	e := New(nil, false)
	cs := diffengine.ChangeSet{Renames: []diffengine.Rename{{OldDestination: pathAt(oldPath), NewDestination: pathAt(newPath)}}}
	if err := e.Apply(context.Background(), cs); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("expected old path to no longer exist")
	}
	got, err := os.ReadFile(newPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "moved" {
		t.Errorf("new path contents = %q, want %q", got, "moved")
	}
}

func TestApplyDeletionRemovesFile(t *testing.T) {
	dir := t.TempDir()
	victim := filepath.Join(dir, "gone.txt")
	mustWriteFile(t, victim, "x")

	e := New(nil, false)
	cs := diffengine.ChangeSet{Deletions: []bpath.Path{pathAt(victim)}}
	if err := e.Apply(context.Background(), cs); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(victim); !os.IsNotExist(err) {
		t.Error("expected deleted file to no longer exist")
	}
	if e.Stats.Deletions.Load() != 1 {
		t.Errorf("Stats.Deletions = %d, want 1", e.Stats.Deletions.Load())
	}
}

func TestDryRunLeavesFilesystemUntouched(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	mustWriteFile(t, src, "payload")

	e := New(nil, true)
	cs := diffengine.ChangeSet{Additions: []diffengine.Pair{{Source: pathAt(src), Destination: pathAt(dst)}}}
	if err := e.Apply(context.Background(), cs); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("expected dry run not to create the destination file")
	}
	if e.Stats.Additions.Load() != 1 {
		t.Errorf("Stats.Additions = %d, want 1 (dry run still counts)", e.Stats.Additions.Load())
	}
}

func TestApplyContinuesAfterErrorAndRecordsIt(t *testing.T) {
	dir := t.TempDir()
	missingSrc := filepath.Join(dir, "does-not-exist.txt")
	goodSrc := filepath.Join(dir, "good.txt")
	mustWriteFile(t, goodSrc, "ok")

	e := New(nil, false)
	cs := diffengine.ChangeSet{Additions: []diffengine.Pair{
		{Source: pathAt(missingSrc), Destination: pathAt(filepath.Join(dir, "bad-dst.txt"))},
		{Source: pathAt(goodSrc), Destination: pathAt(filepath.Join(dir, "good-dst.txt"))},
	}}
	if err := e.Apply(context.Background(), cs); err != nil {
		t.Fatal(err)
	}

	if e.Stats.Errors.Load() != 1 {
		t.Errorf("Stats.Errors = %d, want 1", e.Stats.Errors.Load())
	}
	if _, err := os.Stat(filepath.Join(dir, "good-dst.txt")); err != nil {
		t.Error("expected the second addition to still succeed after the first failed")
	}
}

func TestApplyHonorsCanceledContext(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	mustWriteFile(t, src, "x")

	e := New(nil, false)
	cs := diffengine.ChangeSet{Additions: []diffengine.Pair{{Source: pathAt(src), Destination: pathAt(filepath.Join(dir, "dst.txt"))}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Apply(ctx, cs); err == nil {
		t.Error("expected Apply to report an error for an already-canceled context")
	}
}
