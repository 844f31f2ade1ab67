package playback

import (
	"testing"
	"time"

	"github.com/matzehuels/rankplay/pkg/frames"
	"github.com/matzehuels/rankplay/pkg/schedule"
)

func buildSeq(t *testing.T, kind frames.Kind, phases ...frames.Phase) *frames.Sequence {
	t.Helper()
	snaps := make([]frames.Snapshot, len(phases))
	for i, p := range phases {
		snaps[i] = frames.Snapshot{
			Round: "Round 1",
			Phase: p,
			Nodes: map[int]frames.NodeState{1: {Status: frames.StatusPending}},
		}
	}
	seq, err := frames.New(frames.Config{NodeCount: 1, Kind: kind}, snaps)
	if err != nil {
		t.Fatalf("frames.New() error = %v", err)
	}
	return seq
}

func buildLen(t *testing.T, n int) *frames.Sequence {
	t.Helper()
	phases := make([]frames.Phase, n)
	for i := range phases {
		phases[i] = frames.PhaseSelect
	}
	return buildSeq(t, frames.KindWindowed, phases...)
}

// recorder counts renders and notifications.
type recorder struct {
	renders  []int
	notifies []int
	totals   []int
	prevs    []map[int]frames.Degrees
	seq      *frames.Sequence
}

func (r *recorder) Render(snap *frames.Snapshot, prev map[int]frames.Degrees) {
	for i, s := range r.seq.All() {
		if s == snap {
			r.renders = append(r.renders, i)
		}
	}
	r.prevs = append(r.prevs, prev)
}

func (r *recorder) notify(index, total int, _ *frames.Snapshot) {
	r.notifies = append(r.notifies, index)
	r.totals = append(r.totals, total)
}

func newTestController(t *testing.T, seq *frames.Sequence, speed time.Duration) (*Controller, *schedule.Virtual, *recorder) {
	t.Helper()
	clock := &schedule.Virtual{}
	rec := &recorder{seq: seq}
	c, err := New(seq,
		WithScheduler(clock),
		WithSpeed(speed),
		WithRenderer(rec),
		WithOnFrameChange(rec.notify),
		WithName("test"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c, clock, rec
}
