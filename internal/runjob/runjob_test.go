package runjob

import (
	"os"
	"path/filepath"
	"testing"
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

func TestDiffComputesAdditionsFromConfig(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "src", "a.txt"), "hello")
	mustWriteFile(t, filepath.Join(dir, "src", "b.txt"), "world")

	configPath := filepath.Join(dir, "backup.conf")
	mustWriteFile(t, configPath, "in dst\nadd src/*.txt\n")

	result, err := Diff(Options{ConfigPath: configPath})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.ChangeSet.Additions) != 2 {
		t.Fatalf("Additions = %+v, want 2 entries", result.ChangeSet.Additions)
	}
	if len(result.ChangeSet.Deletions) != 0 || len(result.ChangeSet.Modifications) != 0 {
		t.Errorf("unexpected non-addition entries: %+v", result.ChangeSet)
	}
}

func TestDiffLimitTruncatesAdditionsAndWarns(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "src", "a.txt"), "a")
	mustWriteFile(t, filepath.Join(dir, "src", "b.txt"), "b")
	mustWriteFile(t, filepath.Join(dir, "src", "c.txt"), "c")

	configPath := filepath.Join(dir, "backup.conf")
	mustWriteFile(t, configPath, "in dst\nadd src/*.txt\n")

	result, err := Diff(Options{ConfigPath: configPath, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.ChangeSet.Additions) != 2 {
		t.Fatalf("Additions = %+v, want 2 entries after truncation", result.ChangeSet.Additions)
	}
	if len(result.ChangeSet.Warnings) == 0 {
		t.Error("expected a warning about dropped entries")
	}
}

func TestDiffReportsMissingConfigFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Diff(Options{ConfigPath: filepath.Join(dir, "does-not-exist.conf")})
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestDiffHonorsIgnoreDeclaration(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "src", "keep.log"), "x")
	mustWriteFile(t, filepath.Join(dir, "src", "keep.txt"), "y")

	configPath := filepath.Join(dir, "backup.conf")
	mustWriteFile(t, configPath, "ignore *.log\nin dst\nadd src/*\n")

	result, err := Diff(Options{ConfigPath: configPath})
	if err != nil {
		t.Fatal(err)
	}

	for _, a := range result.ChangeSet.Additions {
		if filepath.Base(a.Source.String()) == "keep.log" {
			t.Error("expected *.log to be ignored and not appear as an addition")
		}
	}
	if len(result.ChangeSet.Additions) != 1 {
		t.Errorf("Additions = %+v, want just keep.txt", result.ChangeSet.Additions)
	}
}
