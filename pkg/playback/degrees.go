package playback

import (
	"maps"

	"github.com/matzehuels/rankplay/pkg/frames"
)

// degreeTracker remembers the degree counters of the last rendered frame so
// renderers can highlight counters that changed. It belongs to one
// controller.
type degreeTracker struct {
	last map[int]frames.Degrees
	// shown is the prev map handed out for the current frame.
	shown map[int]frames.Degrees
}

func newDegreeTracker() *degreeTracker {
	return &degreeTracker{
		last:  make(map[int]frames.Degrees),
		shown: make(map[int]frames.Degrees),
	}
}

// advance returns the counters of the previously rendered frame and then
// records those of snap. Nodes without counters in snap keep their last
// known values.
func (t *degreeTracker) advance(snap *frames.Snapshot) map[int]frames.Degrees {
	t.shown = maps.Clone(t.last)
	t.record(snap)
	return maps.Clone(t.shown)
}

func (t *degreeTracker) record(snap *frames.Snapshot) {
	for id, n := range snap.Nodes {
		if d, ok := n.Degrees(); ok {
			t.last[id] = d
		}
	}
}

// previous returns a copy of the prev map of the current frame. It is empty
// until the first move after construction or reset.
func (t *degreeTracker) previous() map[int]frames.Degrees {
	return maps.Clone(t.shown)
}

func (t *degreeTracker) reset() {
	clear(t.last)
	clear(t.shown)
}
