// Package bpath implements the portable Path/Pattern value type described
// in the data model: a sequence of segments plus an optional root, with
// case-insensitive segment comparison and lexical (non-filesystem) "."/".."
// collapsing.
package bpath

import (
	"strings"
)

// Separator is the canonical internal separator for this process. It is
// fixed at process start and matches the host filesystem, mirroring the
// single-writer process-wide state described for the preferred path
// separator.
var Separator = "/"

// Path is a portable, separator-agnostic path value. Both "/" and "\" are
// accepted on input; Separator is used when rendering back to a string.
type Path struct {
	// Root holds a drive-letter root (e.g. "C:"), or "" when the path
	// carries no root. UNC roots are not recognized.
	Root string
	// Abs is true when the path is rooted at Root (or at "/" when Root is
	// empty), i.e. it began with a separator.
	Abs bool
	// Segments are the path components between separators, in order,
	// after lexical "."/".." collapsing.
	Segments []string
}

// Pattern is a syntactic alias for Path used where the value is matched
// against candidates rather than resolved. A segment may contain
// wildcards (*, ?, [...]) or be the literal token "**".
type Pattern = Path

// Parse splits s into a Path, accepting both "/" and "\" as separators and
// collapsing "." and ".." lexically (no filesystem resolution).
func Parse(s string) Path {
	if s == "" {
		return Path{}
	}

	root := ""
	rest := s
	if len(s) >= 2 && s[1] == ':' && isDriveLetter(s[0]) {
		root = s[:2]
		rest = s[2:]
	}

	rest = strings.ReplaceAll(rest, "\\", "/")
	abs := strings.HasPrefix(rest, "/")

	var out []string
	for _, seg := range strings.Split(rest, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 && out[len(out)-1] != ".." {
				out = out[:len(out)-1]
			} else if !abs {
				out = append(out, "..")
			}
			// An absolute path's ".." above the root is dropped, matching
			// lexical path.Clean semantics.
		default:
			out = append(out, seg)
		}
	}

	return Path{Root: root, Abs: abs, Segments: out}
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// String renders p using Separator.
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString(p.Root)
	if p.Abs {
		sb.WriteString(Separator)
	}
	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteString(Separator)
		}
		sb.WriteString(seg)
	}
	if sb.Len() == 0 {
		return "."
	}
	return sb.String()
}

// Join appends rel's segments to p, returning a new Path. rel must be
// relative (Abs == false); its Root is ignored.
func (p Path) Join(rel Path) Path {
	out := make([]string, 0, len(p.Segments)+len(rel.Segments))
	out = append(out, p.Segments...)
	out = append(out, rel.Segments...)
	return Path{Root: p.Root, Abs: p.Abs, Segments: out}
}

// Base returns the final segment, or "" for an empty path.
func (p Path) Base() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

// Dir returns p without its final segment.
func (p Path) Dir() Path {
	if len(p.Segments) == 0 {
		return p
	}
	return Path{Root: p.Root, Abs: p.Abs, Segments: p.Segments[:len(p.Segments)-1]}
}

// Empty reports whether p has no segments and no root.
func (p Path) Empty() bool {
	return p.Root == "" && !p.Abs && len(p.Segments) == 0
}

// foldSegment lowercases a segment for case-insensitive comparison.
func foldSegment(s string) string {
	return strings.ToLower(s)
}

// Equal reports whether p and q denote the same path, comparing segment
// text case-insensitively so "A.txt" and "a.txt" are considered equal.
func (p Path) Equal(q Path) bool {
	if p.Abs != q.Abs || len(p.Segments) != len(q.Segments) {
		return false
	}
	if !strings.EqualFold(p.Root, q.Root) {
		return false
	}
	for i := range p.Segments {
		if foldSegment(p.Segments[i]) != foldSegment(q.Segments[i]) {
			return false
		}
	}
	return true
}

// Less implements the filename-case-insensitive ascending comparator the
// spec requires for all ChangeSet collections and destination checklists.
// Ties are broken by the fold-then-raw rule: equal-folding segments compare
// by original byte content so ordering stays deterministic.
func (p Path) Less(q Path) bool {
	n := len(p.Segments)
	if len(q.Segments) < n {
		n = len(q.Segments)
	}
	for i := 0; i < n; i++ {
		a, b := foldSegment(p.Segments[i]), foldSegment(q.Segments[i])
		if a != b {
			return a < b
		}
	}
	if len(p.Segments) != len(q.Segments) {
		return len(p.Segments) < len(q.Segments)
	}
	for i := 0; i < n; i++ {
		if p.Segments[i] != q.Segments[i] {
			return p.Segments[i] < q.Segments[i]
		}
	}
	return false
}

// HasWildcardSegment reports whether any segment of p contains a glob
// metacharacter or is the literal "**" token.
func (p Path) HasWildcardSegment() bool {
	for _, seg := range p.Segments {
		if seg == "**" || ContainsWildcard(seg) {
			return true
		}
	}
	return false
}

// ContainsWildcard reports the presence of *, ?, or a well-formed [...]
// anywhere in a single segment's text.
func ContainsWildcard(seg string) bool {
	for i := 0; i < len(seg); i++ {
		switch seg[i] {
		case '*', '?':
			return true
		case '[':
			if idx := strings.IndexByte(seg[i+1:], ']'); idx >= 0 {
				return true
			}
		}
	}
	return false
}
