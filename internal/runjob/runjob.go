// Package runjob wires the ConfigInterpreter, Globber, EquivalenceOracle
// and DiffEngine together into the single pipeline that "backup" and
// "check" both drive ("check" only renders the result: it never applies
// it and never saves the equivalence cache). cmd/ is glue on top of this
// package: flag parsing, rendering, and exit-code mapping only.
package runjob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tdepke2/BackupTools/internal/bpath"
	"github.com/tdepke2/BackupTools/internal/diffengine"
	"github.com/tdepke2/BackupTools/internal/dslconfig"
	"github.com/tdepke2/BackupTools/internal/equivalence"
	"github.com/tdepke2/BackupTools/internal/globber"
	"github.com/tdepke2/BackupTools/internal/progress"
)

// Options configures one pipeline run, derived from the command-line
// flags of §6.
type Options struct {
	ConfigPath  string
	SkipCache   bool
	FastCompare bool
	Limit       int // 0 means unlimited; caps the number of additions+modifications applied, a safety valve for a first run against an unfamiliar config.
	Warn        func(format string, args ...any)
	Publisher   *progress.Publisher
}

// Result is everything a caller needs to render and, if requested,
// apply the computed ChangeSet.
type Result struct {
	ChangeSet   diffengine.ChangeSet
	Oracle      *equivalence.Oracle
	ConfigMtime time.Time
	CacheDir    string
}

// Diff loads opts.ConfigPath, runs every WriteReadAssignment through the
// Globber and DiffEngine, and returns the resulting ChangeSet without
// touching the destination filesystem's contents (directories created
// for previously-absent write prefixes are the one exception — see
// diffengine.Engine.Add).
func Diff(opts Options) (Result, error) {
	warn := opts.Warn
	if warn == nil {
		warn = func(string, ...any) {}
	}

	f, err := os.Open(opts.ConfigPath)
	if err != nil {
		return Result{}, fmt.Errorf("cannot open config %q: %w", opts.ConfigPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("cannot stat config %q: %w", opts.ConfigPath, err)
	}
	configMtime := info.ModTime()

	absConfig, err := filepath.Abs(opts.ConfigPath)
	if err != nil {
		return Result{}, err
	}
	cwd := bpath.Parse(filepath.Dir(absConfig))

	interp := dslconfig.New(opts.ConfigPath, f)

	cachePath := equivalence.DefaultPath(filepath.Dir(absConfig), filepath.Base(opts.ConfigPath))
	cache := equivalence.Load(cachePath, configMtime)
	oracle := equivalence.New(cache)

	g := globber.New(cwd, interp.Ignore, interp.Ctx, warn)
	engine := diffengine.New(oracle, interp.Ignore, warn)
	engine.SkipCache = opts.SkipCache
	engine.FastCompare = opts.FastCompare

	for {
		asgn, err := interp.NextAssignment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, err
		}
		g.Ctx = interp.Ctx
		group := g.Glob(asgn.ReadPattern)
		group = globber.WithAncestors(group)
		if opts.Publisher != nil {
			opts.Publisher.Publish(progress.TopicScanned, progress.Event{Path: asgn.ReadPattern, Bytes: int64(len(group.RelativePaths))})
		}
		if err := engine.Add(asgn.WritePrefix, group); err != nil {
			return Result{}, err
		}
	}

	cs := engine.Finish()
	if opts.Limit > 0 {
		cs, cs.Warnings = applyLimit(cs, opts.Limit)
	}

	return Result{
		ChangeSet:   cs,
		Oracle:      oracle,
		ConfigMtime: configMtime,
		CacheDir:    filepath.Dir(cachePath),
	}, nil
}

// applyLimit truncates additions/modifications beyond limit total
// entries, warning about how many were dropped. Renames and deletions
// are never truncated: they don't grow the destination and skipping one
// half of a rename pair would be worse than applying it.
func applyLimit(cs diffengine.ChangeSet, limit int) (diffengine.ChangeSet, []string) {
	remaining := limit
	var warnings []string

	if remaining < len(cs.Additions) {
		dropped := len(cs.Additions) - remaining
		cs.Additions = cs.Additions[:max(remaining, 0)]
		warnings = append(warnings, fmt.Sprintf("--limit reached: %d addition(s) not applied this run", dropped))
		remaining = 0
	} else {
		remaining -= len(cs.Additions)
	}

	if remaining < len(cs.Modifications) {
		dropped := len(cs.Modifications) - remaining
		cs.Modifications = cs.Modifications[:max(remaining, 0)]
		warnings = append(warnings, fmt.Sprintf("--limit reached: %d modification(s) not applied this run", dropped))
	}

	return cs, append(cs.Warnings, warnings...)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
