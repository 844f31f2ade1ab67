package frames

import (
	"testing"

	"github.com/matzehuels/rankplay/pkg/errors"
)

func intp(v int) *int { return &v }

func phaseSnaps(phases ...Phase) []Snapshot {
	out := make([]Snapshot, len(phases))
	for i, p := range phases {
		out[i] = Snapshot{Round: "Round 1", Phase: p, Nodes: map[int]NodeState{1: {Status: StatusPending}}}
	}
	return out
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		snaps    []Snapshot
		wantCode errors.Code
	}{
		{
			name:  "valid",
			cfg:   Config{NodeCount: 1, Kind: KindInference},
			snaps: phaseSnaps(PhaseIdle),
		},
		{
			name:     "empty sequence",
			cfg:      Config{NodeCount: 1, Kind: KindInference},
			wantCode: errors.ErrCodeInvalidConfig,
		},
		{
			name:     "zero nodes",
			cfg:      Config{NodeCount: 0, Kind: KindWindowed},
			snaps:    phaseSnaps(PhaseIdle),
			wantCode: errors.ErrCodeInvalidConfig,
		},
		{
			name:     "unknown kind",
			cfg:      Config{NodeCount: 3, Kind: "bracket"},
			snaps:    phaseSnaps(PhaseIdle),
			wantCode: errors.ErrCodeInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := New(tt.cfg, tt.snaps)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("New() error = %v", err)
				}
				if seq.Len() != len(tt.snaps) {
					t.Errorf("Len() = %d, want %d", seq.Len(), len(tt.snaps))
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("New() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestSequenceClamp(t *testing.T) {
	seq, err := New(Config{NodeCount: 2, Kind: KindWindowed}, phaseSnaps(PhaseIdle, PhaseSelect, PhaseCompare))
	if err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct{ in, want int }{
		{-5, 0}, {0, 0}, {1, 1}, {2, 2}, {3, 2}, {100, 2},
	} {
		if got := seq.Clamp(tc.in); got != tc.want {
			t.Errorf("Clamp(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
	if got := seq.At(99).Phase; got != PhaseCompare {
		t.Errorf("At(99).Phase = %s, want compare", got)
	}
}

func TestNewCopiesSnapshots(t *testing.T) {
	snaps := phaseSnaps(PhaseIdle)
	snaps[0].Edges = []Edge{{1, 2}}
	seq, err := New(Config{NodeCount: 2, Kind: KindInference}, snaps)
	if err != nil {
		t.Fatal(err)
	}

	snaps[0].Edges[0] = Edge{2, 1}
	snaps[0].Nodes[1] = NodeState{Status: StatusSurvivor}

	got := seq.At(0)
	if got.Edges[0] != (Edge{1, 2}) {
		t.Errorf("edge changed through caller slice: %v", got.Edges[0])
	}
	if got.Nodes[1].Status != StatusPending {
		t.Errorf("node changed through caller map: %v", got.Nodes[1].Status)
	}
}

func TestSnapshotNode(t *testing.T) {
	s := &Snapshot{Nodes: map[int]NodeState{
		1: {Status: StatusSurvivor, InDegree: intp(2)},
	}}

	n, ok := s.Node(1)
	if !ok {
		t.Fatal("Node(1) missing")
	}
	d, has := n.Degrees()
	if !has || d.In != 2 || d.Out != 0 {
		t.Errorf("Degrees() = %+v, %v", d, has)
	}
	if _, ok := s.Node(2); ok {
		t.Error("Node(2) should be missing")
	}

	var nilSnap *Snapshot
	if _, ok := nilSnap.Node(1); ok {
		t.Error("nil snapshot should report missing nodes")
	}
}

func TestUnknownPhases(t *testing.T) {
	seq, err := New(Config{NodeCount: 1, Kind: KindWindowed},
		phaseSnaps(PhaseIdle, PhaseClosure, PhaseCompare, PhaseClosure, PhaseUpdateDegrees))
	if err != nil {
		t.Fatal(err)
	}

	got := seq.UnknownPhases()
	if len(got) != 2 || got[0] != PhaseClosure || got[1] != PhaseUpdateDegrees {
		t.Errorf("UnknownPhases() = %v", got)
	}
	if c := seq.PhaseCounts()[PhaseClosure]; c != 2 {
		t.Errorf("PhaseCounts()[closure] = %d, want 2", c)
	}
}

func TestKindVocabulary(t *testing.T) {
	if got := len(KindInference.Phases()); got != 8 {
		t.Errorf("inference has %d phases, want 8", got)
	}
	if got := len(KindWindowed.Phases()); got != 6 {
		t.Errorf("windowed has %d phases, want 6", got)
	}
	if KindWindowed.HasPhase(PhaseClosure) {
		t.Error("windowed should not have closure")
	}

	for in, want := range map[string]Kind{"A": KindInference, "windowed": KindWindowed, " b ": KindWindowed} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseKind("c"); !errors.Is(err, errors.ErrCodeInvalidKind) {
		t.Errorf("ParseKind(c) error = %v", err)
	}
}

func TestDwellPercent(t *testing.T) {
	for p, want := range map[Phase]int64{
		PhaseClosure:       150,
		PhaseUpdateDegrees: 130,
		PhaseCompare:       100,
		PhaseFinal:         100,
		Phase("unknown"):   100,
	} {
		if got := p.DwellPercent(); got != want {
			t.Errorf("%s.DwellPercent() = %d, want %d", p, got, want)
		}
	}
}

func TestDegreesBefore(t *testing.T) {
	snaps := []Snapshot{
		{Phase: PhaseIdle, Nodes: map[int]NodeState{
			1: {Status: StatusPending, InDegree: intp(0), OutDegree: intp(0)},
			2: {Status: StatusPending, InDegree: intp(0), OutDegree: intp(0)},
		}},
		{Phase: PhaseUpdateDegrees, Nodes: map[int]NodeState{
			1: {Status: StatusSurvivor, InDegree: intp(0), OutDegree: intp(1)},
			2: {Status: StatusSurvivor},
		}},
		{Phase: PhaseEliminate, Nodes: map[int]NodeState{
			1: {Status: StatusSurvivor},
		}},
	}
	seq, err := New(Config{NodeCount: 2, Kind: KindInference}, snaps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := seq.DegreesBefore(0); len(got) != 0 {
		t.Errorf("DegreesBefore(0) = %v, want empty", got)
	}
	got := seq.DegreesBefore(2)
	if got[1] != (Degrees{In: 0, Out: 1}) {
		t.Errorf("node 1 = %+v, want {0 1}", got[1])
	}
	// Node 2 lost its counters in frame 1 and keeps the frame 0 values.
	if got[2] != (Degrees{}) {
		t.Errorf("node 2 = %+v, want zero counters", got[2])
	}
	if _, ok := got[3]; ok {
		t.Error("unknown node present")
	}
}
