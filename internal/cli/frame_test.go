package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/rankplay/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"dot", "svg", "pdf", "png"} {
		if err := validateFormat(f); err != nil {
			t.Errorf("validateFormat(%q) = %v", f, err)
		}
	}
	if err := validateFormat("gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("validateFormat(gif) = %v, want INVALID_FORMAT", err)
	}
}

func TestRunFrameDOT(t *testing.T) {
	c, logs := newTestCLI(t)
	out := filepath.Join(t.TempDir(), "frame.dot")

	err := c.runFrame(context.Background(), "testdata/inference.json", frameOpts{index: 99, format: formatDOT, output: out})
	if err != nil {
		t.Fatalf("runFrame() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `label="Done · final"`) {
		t.Errorf("clamped frame should be the last one:\n%s", data)
	}
	if !strings.Contains(logs.String(), "frame index clamped") {
		t.Errorf("clamping not logged: %s", logs.String())
	}
}

func TestRunFrameSVG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c, _ := newTestCLI(t)
	out := filepath.Join(t.TempDir(), "frame.svg")

	opts := frameOpts{index: 3, format: formatSVG, output: out}
	if err := c.runFrame(context.Background(), "testdata/inference.json", opts); err != nil {
		t.Fatalf("runFrame() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output is not SVG")
	}
}

func TestRunFrameMissingFile(t *testing.T) {
	c, _ := newTestCLI(t)
	err := c.runFrame(context.Background(), "testdata/missing.json", frameOpts{format: formatDOT})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("runFrame() error = %v, want FILE_NOT_FOUND", err)
	}
}
