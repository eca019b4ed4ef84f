package argparse

import "testing"

func testSpec() Spec {
	return Spec{
		Bool:    []string{"force", "f", "verbose", "v"},
		Value:   []string{"limit", "l"},
		Aliases: map[byte]string{'f': "force", 'v': "verbose", 'l': "limit"},
	}
}

func TestBundledShortFlags(t *testing.T) {
	res, err := Parse(testSpec(), []string{"-fv"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Bools["force"] || !res.Bools["verbose"] {
		t.Errorf("Bools = %+v, want force and verbose set", res.Bools)
	}
}

func TestShortValueConsumesRestOfBundle(t *testing.T) {
	res, err := Parse(testSpec(), []string{"-fl5"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Bools["force"] {
		t.Error("expected force to be set")
	}
	if res.Values["limit"] != "5" {
		t.Errorf("Values[limit] = %q, want %q", res.Values["limit"], "5")
	}
}

func TestShortValueConsumesNextArgv(t *testing.T) {
	res, err := Parse(testSpec(), []string{"-l", "10"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Values["limit"] != "10" {
		t.Errorf("Values[limit] = %q, want %q", res.Values["limit"], "10")
	}
}

func TestLongFlagWithInlineValue(t *testing.T) {
	res, err := Parse(testSpec(), []string{"--limit=7"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Values["limit"] != "7" {
		t.Errorf("Values[limit] = %q, want %q", res.Values["limit"], "7")
	}
}

func TestLongFlagWithNextArgvValue(t *testing.T) {
	res, err := Parse(testSpec(), []string{"--limit", "7"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Values["limit"] != "7" {
		t.Errorf("Values[limit] = %q, want %q", res.Values["limit"], "7")
	}
}

func TestLongBoolFlag(t *testing.T) {
	res, err := Parse(testSpec(), []string{"--force"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Bools["force"] {
		t.Error("expected force to be set")
	}
}

func TestDigitLeadingArgIsNeverAnOption(t *testing.T) {
	res, err := Parse(testSpec(), []string{"-1", "file.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Positional) != 2 || res.Positional[0] != "-1" || res.Positional[1] != "file.txt" {
		t.Errorf("Positional = %v, want {-1, file.txt}", res.Positional)
	}
}

func TestNonOptionArgsAreShuffledToEnd(t *testing.T) {
	res, err := Parse(testSpec(), []string{"a.txt", "-f", "b.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Positional) != 2 || res.Positional[0] != "a.txt" || res.Positional[1] != "b.txt" {
		t.Errorf("Positional = %v, want {a.txt, b.txt}", res.Positional)
	}
	if !res.Bools["force"] {
		t.Error("expected force to be set")
	}
}

func TestUnknownLongOptionReportsExactMessage(t *testing.T) {
	_, err := Parse(testSpec(), []string{"--bogus"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "Unknown option --bogus" {
		t.Errorf("err = %q, want %q", err.Error(), "Unknown option --bogus")
	}
}

func TestUnknownShortOptionReportsExactMessage(t *testing.T) {
	_, err := Parse(testSpec(), []string{"-z"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "Unknown option -z" {
		t.Errorf("err = %q, want %q", err.Error(), "Unknown option -z")
	}
}

func TestLongOptionMissingArgumentReportsExactMessage(t *testing.T) {
	_, err := Parse(testSpec(), []string{"--limit"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "Option --limit requires an argument" {
		t.Errorf("err = %q, want %q", err.Error(), "Option --limit requires an argument")
	}
}

func TestShortOptionMissingArgumentReportsExactMessage(t *testing.T) {
	_, err := Parse(testSpec(), []string{"-l"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "Option -l requires an argument" {
		t.Errorf("err = %q, want %q", err.Error(), "Option -l requires an argument")
	}
}
