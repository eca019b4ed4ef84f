// Package dslconfig implements the ConfigDSL grammar and the
// ConfigInterpreter (§4.3): a lazy cursor over a newline-delimited
// declarative backup configuration, yielding WriteReadAssignment tuples
// while mutating root-alias, ignore-set, and matching-option state.
//
// The teacher (FolderChecksum) has no config file at all — its "config" is
// entirely command-line flags (config.go's flagsToConfig). This package is
// grounded on that file's overall shape (a validated mutable struct built
// incrementally, fatal on the first bad operand) but replaces flag-parsing
// with the spec's own line-oriented grammar.
package dslconfig

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tdepke2/BackupTools/internal/bpath"
	"github.com/tdepke2/BackupTools/internal/ignoreengine"
	"github.com/tdepke2/BackupTools/internal/match"
)

// Assignment is a WriteReadAssignment: a destination prefix paired with
// one source pattern to expand beneath it.
type Assignment struct {
	WritePrefix Path
	ReadPattern string
}

// Path is re-exported for callers that don't want to import bpath
// directly; it is always bpath.Path.
type Path = bpath.Path

// Error is a ConfigSyntax/ConfigSemantic diagnostic: `"<file>" at line N:
// <reason>`.
type Error struct {
	File   string
	Line   int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%q at line %d: %s", e.File, e.Line, e.Reason)
}

// Interpreter is the lazy cursor over one config stream.
type Interpreter struct {
	file string
	sc   *bufio.Scanner
	line int
	done bool

	RootAliases map[string]bpath.Path
	Ignore      *ignoreengine.Engine
	Ctx         match.Context

	writePrefix          bpath.Path
	writePrefixSet       bool
	globMatchingDisabled bool
}

// GlobMatchingDisabled reports whether "set glob-matching false" is in
// effect, per the most recent line processed so far.
func (in *Interpreter) GlobMatchingDisabled() bool {
	return in.globMatchingDisabled
}

// New builds an Interpreter reading from r, identified as file in
// diagnostics.
func New(file string, r io.Reader) *Interpreter {
	return &Interpreter{
		file:        file,
		sc:          bufio.NewScanner(r),
		RootAliases: map[string]bpath.Path{},
		Ignore:      &ignoreengine.Engine{},
	}
}

func (in *Interpreter) err(reason string) error {
	return &Error{File: in.file, Line: in.line, Reason: reason}
}

// resolve parses raw as a Path and substitutes its leading segment via
// RootAliases, on a hit.
func (in *Interpreter) resolve(raw string) bpath.Path {
	p := bpath.Parse(raw)
	if len(p.Segments) == 0 {
		return p
	}
	if alias, ok := in.RootAliases[strings.ToLower(p.Segments[0])]; ok {
		return alias.Join(bpath.Path{Segments: p.Segments[1:]})
	}
	return p
}

// NextAssignment advances the cursor, processing lines until one emits an
// assignment (via "add" or "in ... add ...") or the stream ends (io.EOF).
// Mutating commands ("root", "set", "ignore", "include", a bare "in") are
// applied in place and never returned.
func (in *Interpreter) NextAssignment() (Assignment, error) {
	if in.done {
		return Assignment{}, io.EOF
	}
	for in.sc.Scan() {
		in.line++
		line := in.sc.Text()
		if isCommentOrBlank(line) {
			continue
		}
		tokens, terr := tokenize(line)
		if terr != nil {
			in.done = true
			return Assignment{}, in.err(terr.Error())
		}
		if len(tokens) == 0 {
			continue
		}

		asgn, emitted, err := in.apply(tokens)
		if err != nil {
			in.done = true
			return Assignment{}, err
		}
		if emitted {
			return asgn, nil
		}
	}
	if err := in.sc.Err(); err != nil {
		in.done = true
		return Assignment{}, err
	}
	in.done = true
	return Assignment{}, io.EOF
}

func (in *Interpreter) apply(tokens []string) (Assignment, bool, error) {
	keyword := tokens[0]
	args := tokens[1:]

	switch keyword {
	case "set":
		return Assignment{}, false, in.applySet(args)
	case "root":
		return Assignment{}, false, in.applyRoot(args)
	case "ignore":
		return Assignment{}, false, in.applyIgnore(args)
	case "include":
		return Assignment{}, false, in.applyInclude(args)
	case "in":
		return in.applyIn(args)
	case "add":
		return in.applyAdd(args)
	default:
		return Assignment{}, false, in.err(fmt.Sprintf("unknown keyword %q", keyword))
	}
}

func (in *Interpreter) applySet(args []string) error {
	if len(args) != 2 {
		return in.err("\"set\" requires <option> <value>")
	}
	value, ok := match.NormalizeGlobMatching(args[1])
	if !ok {
		return in.err(fmt.Sprintf("invalid boolean value %q", args[1]))
	}
	switch args[0] {
	case "glob-matching":
		// Recorded and reported by GlobMatchingDisabled only: no matcher
		// reads it, so "*", "?", "[...]" and "**" keep their wildcard
		// meaning whatever its value.
		in.globMatchingDisabled = !value
	case "match-hidden":
		in.Ctx.AllowHidden = value
		in.Ignore.Ctx.AllowHidden = value
	default:
		return in.err(fmt.Sprintf("unknown set option %q", args[0]))
	}
	return nil
}

func (in *Interpreter) applyRoot(args []string) error {
	if len(args) != 2 {
		return in.err("\"root\" requires <alias> <path>")
	}
	alias := strings.ToLower(args[0])
	in.RootAliases[alias] = in.resolve(args[1])
	return nil
}

func (in *Interpreter) applyIgnore(args []string) error {
	if len(args) != 1 {
		return in.err("\"ignore\" requires <path>")
	}
	in.Ignore.Add(in.resolve(args[0]).String())
	return nil
}

func (in *Interpreter) applyInclude(args []string) error {
	if len(args) != 1 {
		return in.err("\"include\" requires <path>")
	}
	resolved := in.resolve(args[0]).String()
	if !in.Ignore.Remove(resolved) {
		// Latest-revision behavior per §9: an "include" that does not
		// exactly match a prior "ignore" is an error, not a no-op.
		return in.err(fmt.Sprintf("no matching ignore pattern for %q", args[0]))
	}
	return nil
}

func (in *Interpreter) applyIn(args []string) (Assignment, bool, error) {
	if len(args) == 0 {
		return Assignment{}, false, in.err("\"in\" requires <writePath>")
	}
	in.writePrefix = in.resolve(args[0])
	in.writePrefixSet = true

	if len(args) == 1 {
		return Assignment{}, false, nil
	}
	if len(args) != 3 || args[1] != "add" {
		return Assignment{}, false, in.err("\"in\" operand must be <writePath> or <writePath> add <readPattern>")
	}
	return Assignment{WritePrefix: in.writePrefix, ReadPattern: in.resolve(args[2]).String()}, true, nil
}

func (in *Interpreter) applyAdd(args []string) (Assignment, bool, error) {
	if !in.writePrefixSet {
		return Assignment{}, false, in.err("\"add\" used before \"in\"")
	}
	if len(args) != 1 {
		return Assignment{}, false, in.err("\"add\" requires <readPattern>")
	}
	return Assignment{WritePrefix: in.writePrefix, ReadPattern: in.resolve(args[0]).String()}, true, nil
}
