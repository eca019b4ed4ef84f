package bpath

import "testing"

func TestParseCollapsesDotDot(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a/b/c", []string{"a", "b", "c"}},
		{"a/./b", []string{"a", "b"}},
		{"a/b/../c", []string{"a", "c"}},
		{"../a/b", []string{"..", "a", "b"}},
		{"/a/../../b", []string{"b"}},
		{"a\\b\\c", []string{"a", "b", "c"}},
	}
	for _, c := range cases {
		got := Parse(c.in)
		if len(got.Segments) != len(c.want) {
			t.Errorf("Parse(%q) = %+v, want segments %v", c.in, got, c.want)
			continue
		}
		for i := range c.want {
			if got.Segments[i] != c.want[i] {
				t.Errorf("Parse(%q).Segments[%d] = %q, want %q", c.in, i, got.Segments[i], c.want[i])
			}
		}
	}
}

func TestParseDriveLetter(t *testing.T) {
	p := Parse(`C:\Users\bob`)
	if p.Root != "C:" {
		t.Errorf("Root = %q, want C:", p.Root)
	}
	if !p.Abs {
		t.Error("expected Abs == true")
	}
	if len(p.Segments) != 2 || p.Segments[0] != "Users" || p.Segments[1] != "bob" {
		t.Errorf("Segments = %v", p.Segments)
	}
}

func TestEqualIsCaseInsensitive(t *testing.T) {
	a := Parse("src/A.txt")
	b := Parse("SRC/a.TXT")
	if !a.Equal(b) {
		t.Errorf("expected %+v to equal %+v", a, b)
	}
}

func TestLessOrdersParentBeforeChild(t *testing.T) {
	parent := Parse("a")
	child := Parse("a/b")
	if !parent.Less(child) {
		t.Error("expected parent < child")
	}
	if child.Less(parent) {
		t.Error("expected child to not be < parent")
	}
}

func TestLessIsCaseInsensitiveThenByteTiebreak(t *testing.T) {
	lower := Path{Segments: []string{"file.txt"}}
	upper := Path{Segments: []string{"FILE.txt"}}
	if !upper.Less(lower) {
		t.Error("expected \"FILE.txt\" < \"file.txt\" on the byte tiebreak")
	}
}

func TestJoinAndString(t *testing.T) {
	Separator = "/"
	base := Parse("/dst")
	joined := base.Join(Path{Segments: []string{"a", "b.txt"}})
	if joined.String() != "/dst/a/b.txt" {
		t.Errorf("String() = %q", joined.String())
	}
}

func TestBaseAndDir(t *testing.T) {
	p := Parse("a/b/c.txt")
	if p.Base() != "c.txt" {
		t.Errorf("Base() = %q", p.Base())
	}
	if p.Dir().String() != "a/b" {
		t.Errorf("Dir() = %q", p.Dir().String())
	}
}

func TestHasWildcardSegment(t *testing.T) {
	if !Parse("a/*.txt").HasWildcardSegment() {
		t.Error("expected wildcard segment to be detected")
	}
	if Parse("a/b.txt").HasWildcardSegment() {
		t.Error("expected no wildcard segment")
	}
	if !Parse("a/**/b").HasWildcardSegment() {
		t.Error("expected ** to count as a wildcard segment")
	}
}
