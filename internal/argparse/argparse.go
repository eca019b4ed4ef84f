// Package argparse implements the POSIX-style option parser described in
// §6: bundled short options, "--long=value"/next-argv long options, a
// digit-leading short option is never recognized, and every non-option
// argument is shuffled to the end of the parsed result in encounter
// order.
//
// Cobra's own flag parsing (via spf13/pflag) does not implement this
// exact rule set (it treats "-1" as a negative-number-shaped flag
// operand rather than always-positional, and reports different
// diagnostic text), so every cmd/ command sets DisableFlagParsing and
// calls Parse directly. This keeps cobra for command dispatch, help
// text, and REPL re-entry (per DESIGN.md) while the byte-exact option
// grammar is hand-rolled, the way the teacher (FolderChecksum)
// hand-rolls its own flag handling in config.go rather than using a
// flag package at all.
package argparse

import (
	"fmt"
	"strings"
)

// Spec describes the options one command accepts. Bool options never
// consume a value; all others require one (via bundling position,
// "=value", or the next argv).
type Spec struct {
	// Bool lists long names (without "--") and short names (without "-")
	// of flags that take no value.
	Bool []string
	// Value lists long and short names of flags that require a value.
	Value []string
	// Aliases maps a short name to the long name it's shorthand for; a
	// short flag is recorded in Result under that long name only. A short
	// flag with no entry here is reported as unknown.
	Aliases map[byte]string
}

// Result is a parsed argv: the flags seen (by canonical long name) and
// the non-option arguments, in original relative order, shuffled to the
// end.
type Result struct {
	Bools      map[string]bool
	Values     map[string]string
	Positional []string
}

// Error is an ArgumentError (§7): unknown flag or missing required value.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (s Spec) isBool(name string) bool {
	for _, b := range s.Bool {
		if b == name {
			return true
		}
	}
	return false
}

func (s Spec) isValue(name string) bool {
	for _, v := range s.Value {
		if v == name {
			return true
		}
	}
	return false
}

func (s Spec) longFor(short byte) (string, bool) {
	name, ok := s.Aliases[short]
	return name, ok
}

// Parse parses argv per the POSIX rules in §6.
func Parse(spec Spec, argv []string) (Result, error) {
	res := Result{Bools: map[string]bool{}, Values: map[string]string{}}

	i := 0
	for i < len(argv) {
		arg := argv[i]
		switch {
		case strings.HasPrefix(arg, "--"):
			if err := parseLong(spec, arg[2:], argv, &i, &res); err != nil {
				return Result{}, err
			}
		case strings.HasPrefix(arg, "-") && len(arg) > 1 && !isDigit(arg[1]):
			if err := parseShortGroup(spec, arg[1:], argv, &i, &res); err != nil {
				return Result{}, err
			}
		default:
			res.Positional = append(res.Positional, arg)
			i++
		}
	}
	return res, nil
}

func parseLong(spec Spec, body string, argv []string, i *int, res *Result) error {
	name, inlineValue, hasInline := strings.Cut(body, "=")

	switch {
	case spec.isBool(name):
		res.Bools[name] = true
		*i++
		return nil
	case spec.isValue(name):
		if hasInline {
			res.Values[name] = inlineValue
			*i++
			return nil
		}
		if *i+1 >= len(argv) {
			return &Error{Message: fmt.Sprintf("Option --%s requires an argument", name)}
		}
		res.Values[name] = argv[*i+1]
		*i += 2
		return nil
	default:
		return &Error{Message: fmt.Sprintf("Unknown option --%s", name)}
	}
}

// parseShortGroup handles one "-" argument's body: a run of bundled
// short flags, where the first one that takes a value either consumes
// the rest of the body as its value or, if the body is now exhausted,
// the next argv entry.
func parseShortGroup(spec Spec, body string, argv []string, i *int, res *Result) error {
	for pos := 0; pos < len(body); pos++ {
		short := body[pos]
		long, known := spec.longFor(short)
		if !known {
			return &Error{Message: fmt.Sprintf("Unknown option -%c", short)}
		}

		if spec.isBool(long) {
			res.Bools[long] = true
			continue
		}
		if spec.isValue(long) {
			if pos+1 < len(body) {
				res.Values[long] = body[pos+1:]
				*i++
				return nil
			}
			if *i+1 >= len(argv) {
				return &Error{Message: fmt.Sprintf("Option -%c requires an argument", short)}
			}
			res.Values[long] = argv[*i+1]
			*i += 2
			return nil
		}
		return &Error{Message: fmt.Sprintf("Unknown option -%c", short)}
	}
	*i++
	return nil
}
