package cli

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rankplay/pkg/frames"
)

func loadTestdata(t *testing.T, name string) *frames.Sequence {
	t.Helper()
	seq, err := frames.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", name, err)
	}
	return seq
}

func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	c := New(&logs, log.DebugLevel)
	return c, &logs
}
