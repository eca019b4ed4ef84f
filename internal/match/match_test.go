package match

import (
	"testing"

	"github.com/tdepke2/BackupTools/internal/bpath"
)

func TestMatchSegmentScenarios(t *testing.T) {
	cases := []struct {
		pattern, text string
		allowHidden   bool
		want          bool
	}{
		{"*.txt", "a.txt", false, true},
		{"*.txt", ".hidden.txt", false, false},
		{"*.txt", ".hidden.txt", true, true},
		{"a?c", "abc", false, true},
		{"a?c", "ac", false, false},
		{"[abc].txt", "a.txt", false, true},
		{"[abc].txt", "d.txt", false, false},
		{"[!abc].txt", "d.txt", false, true},
		{"[a-c].txt", "b.txt", false, true},
		{"[a-c].txt", "z.txt", false, false},
		{"[]ab].txt", "].txt", false, true},
		{"literal", "literal", false, true},
		{"literal", "other", false, false},
		{"**", "anything", false, false}, // ** is a Globber concern, never matched here
	}
	for _, c := range cases {
		got := MatchSegment(Context{AllowHidden: c.allowHidden}, c.pattern, c.text)
		if got != c.want {
			t.Errorf("MatchSegment(%q, %q, hidden=%v) = %v, want %v", c.pattern, c.text, c.allowHidden, got, c.want)
		}
	}
}

func TestMatchSegmentUnterminatedBracketDegradesToLiteral(t *testing.T) {
	if !MatchSegment(Context{}, "[abc", "[abc") {
		t.Error("expected unterminated bracket to degrade to an exact literal match")
	}
	if MatchSegment(Context{}, "[abc", "x") {
		t.Error("expected unterminated bracket literal not to match unrelated text")
	}
}

func TestMatchPathTrailingStarsMatchEmptyRemainder(t *testing.T) {
	pattern := pathOf("a", "*", "*")
	if !MatchPath(Context{}, pattern, pathOf("a")) {
		t.Error("expected trailing \"*\" segments to match an empty remainder")
	}
	if MatchPath(Context{}, pathOf("a", "b"), pathOf("a")) {
		t.Error("expected a literal trailing segment to not match an empty remainder")
	}
}

func pathOf(segs ...string) bpath.Path {
	return bpath.Path{Segments: segs}
}

func TestIsGlobstar(t *testing.T) {
	if !IsGlobstar("**") {
		t.Error("expected \"**\" to be recognized as a globstar")
	}
	if IsGlobstar("*") || IsGlobstar("a**") {
		t.Error("expected only the exact \"**\" token to be a globstar")
	}
}

func TestNormalizeGlobMatching(t *testing.T) {
	cases := []struct {
		in      string
		wantVal bool
		wantOk  bool
	}{
		{"true", true, true},
		{"YES", true, true},
		{"1", true, true},
		{"false", false, true},
		{"No", false, true},
		{"0", false, true},
		{"maybe", false, false},
	}
	for _, c := range cases {
		val, ok := NormalizeGlobMatching(c.in)
		if val != c.wantVal || ok != c.wantOk {
			t.Errorf("NormalizeGlobMatching(%q) = (%v, %v), want (%v, %v)", c.in, val, ok, c.wantVal, c.wantOk)
		}
	}
}
