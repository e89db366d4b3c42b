package shared

import (
	"strings"
	"testing"
)

func TestScreen_PinsHints(t *testing.T) {
	out := Screen("one\ntwo", "", "hints", 6)
	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "one" || lines[5] != "hints" {
		t.Errorf("unexpected layout %q", lines)
	}
}

func TestScreen_StatusAboveHints(t *testing.T) {
	lines := strings.Split(Screen("body", "saved", "hints", 4), "\n")
	if lines[2] != "saved" || lines[3] != "hints" {
		t.Errorf("unexpected layout %q", lines)
	}
}

func TestScreen_CutsTallBody(t *testing.T) {
	out := Screen("1\n2\n3\n4\n5", "", "hints", 3)
	if out != "1\n2\nhints" {
		t.Errorf("unexpected output %q", out)
	}
	if got := Screen("body", "", "hints", 1); got != "hints" {
		t.Errorf("expected hints only, got %q", got)
	}
}
