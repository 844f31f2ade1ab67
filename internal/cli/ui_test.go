package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/matzehuels/rankplay/pkg/frames"
)

func TestStatusLook(t *testing.T) {
	for s, want := range statusIcons {
		if icon, _ := statusLook(s); icon != want {
			t.Errorf("statusLook(%s) icon = %q, want %q", s, icon, want)
		}
	}
	if icon, _ := statusLook(frames.Status("retired")); icon != "?" {
		t.Errorf("unknown status icon = %q, want ?", icon)
	}
}

func TestPrinters(t *testing.T) {
	var buf bytes.Buffer
	old := uiOut
	uiOut = &buf
	t.Cleanup(func() { uiOut = old })

	printSuccess("Frame %d of %d", 3, 7)
	printDetail("Directory: %s", "/tmp/rankplay")
	printFile("windowed-3.svg")

	want := "✓ Frame 3 of 7\n  Directory: /tmp/rankplay\n  → windowed-3.svg\n"
	if got := ansi.Strip(buf.String()); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("want three lines, got %q", buf.String())
	}
}
