package frames

import (
	"iter"
	"maps"
	"slices"

	"github.com/matzehuels/rankplay/pkg/errors"
)

// Edge is a directed comparison result between two node ids.
// It serializes as a two-element JSON array: [from, to].
type Edge [2]int

// From returns the source node id.
func (e Edge) From() int { return e[0] }

// To returns the target node id.
func (e Edge) To() int { return e[1] }

// Path illustrates how an inferred edge From->To was derived through Via.
type Path struct {
	From int `json:"from"`
	Via  int `json:"via"`
	To   int `json:"to"`
}

// NodeState is the per-node record of one frame. Degree counters are only
// populated by the inference algorithm.
type NodeState struct {
	Status    Status `json:"status"`
	InDegree  *int   `json:"in_degree,omitempty"`
	OutDegree *int   `json:"out_degree,omitempty"`
}

// Degrees holds the degree counters of a node. A missing counter reads as zero.
type Degrees struct {
	In  int `json:"in"`
	Out int `json:"out"`
}

// Degrees returns the node's counters and whether any counter was recorded.
func (n NodeState) Degrees() (Degrees, bool) {
	var d Degrees
	if n.InDegree != nil {
		d.In = *n.InDegree
	}
	if n.OutDegree != nil {
		d.Out = *n.OutDegree
	}
	return d, n.InDegree != nil || n.OutDegree != nil
}

// Snapshot is one recorded state of the visualization.
type Snapshot struct {
	Round         string            `json:"round"`
	Phase         Phase             `json:"phase"`
	Nodes         map[int]NodeState `json:"nodes"`
	Edges         []Edge            `json:"edges,omitempty"`
	NewEdges      []Edge            `json:"new_edges,omitempty"`
	InferredEdges []Edge            `json:"inferred_edges,omitempty"`
	Paths         []Path            `json:"paths,omitempty"`
	QueryGroup    []int             `json:"query_group,omitempty"`
	Window        []int             `json:"window,omitempty"`
}

// Node returns the state of node id. The second result is false when the
// snapshot carries no entry for id; callers skip such nodes for this frame.
func (s *Snapshot) Node(id int) (NodeState, bool) {
	if s == nil || s.Nodes == nil {
		return NodeState{}, false
	}
	n, ok := s.Nodes[id]
	return n, ok
}

// NodeIDs returns the node ids present in the snapshot in ascending order.
func (s *Snapshot) NodeIDs() []int {
	return slices.Sorted(maps.Keys(s.Nodes))
}

func (s Snapshot) clone() Snapshot {
	s.Nodes = maps.Clone(s.Nodes)
	s.Edges = slices.Clone(s.Edges)
	s.NewEdges = slices.Clone(s.NewEdges)
	s.InferredEdges = slices.Clone(s.InferredEdges)
	s.Paths = slices.Clone(s.Paths)
	s.QueryGroup = slices.Clone(s.QueryGroup)
	s.Window = slices.Clone(s.Window)
	return s
}

// Config is the static configuration of a sequence. It never changes
// mid-sequence.
type Config struct {
	NodeCount int  `json:"node_count"`
	Kind      Kind `json:"algorithm"`
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.NodeCount < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "node count must be at least 1, got %d", c.NodeCount)
	}
	if !c.Kind.Valid() {
		return errors.New(errors.ErrCodeInvalidKind, "unknown algorithm kind %q", c.Kind)
	}
	return nil
}

// Sequence is an ordered, immutable list of snapshots. It is safe for
// concurrent readers.
type Sequence struct {
	cfg    Config
	frames []Snapshot
}

// New builds a Sequence from cfg and snaps. The snapshots are deep-copied,
// so later changes to snaps do not affect the sequence.
//
// New returns an ErrCodeInvalidConfig error when snaps is empty, since no valid
// playback position would exist, or when cfg fails validation.
func New(cfg Config, snaps []Snapshot) (*Sequence, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "frame sequence is empty")
	}
	frames := make([]Snapshot, len(snaps))
	for i, s := range snaps {
		frames[i] = s.clone()
	}
	return &Sequence{cfg: cfg, frames: frames}, nil
}

// Config returns the static configuration.
func (s *Sequence) Config() Config { return s.cfg }

// Kind returns the algorithm kind.
func (s *Sequence) Kind() Kind { return s.cfg.Kind }

// Len returns the number of frames. It is always at least 1.
func (s *Sequence) Len() int { return len(s.frames) }

// Last returns the last valid index.
func (s *Sequence) Last() int { return len(s.frames) - 1 }

// Clamp limits i to [0, Last()].
func (s *Sequence) Clamp(i int) int {
	return max(0, min(i, s.Last()))
}

// At returns the snapshot at index i, clamped to the valid range.
// The returned snapshot must not be modified.
func (s *Sequence) At(i int) *Snapshot {
	return &s.frames[s.Clamp(i)]
}

// All iterates over the snapshots in order.
func (s *Sequence) All() iter.Seq2[int, *Snapshot] {
	return func(yield func(int, *Snapshot) bool) {
		for i := range s.frames {
			if !yield(i, &s.frames[i]) {
				return
			}
		}
	}
}

// PhaseCounts returns how many frames are in each phase.
func (s *Sequence) PhaseCounts() map[Phase]int {
	counts := make(map[Phase]int)
	for _, f := range s.frames {
		counts[f.Phase]++
	}
	return counts
}

// UnknownPhases returns the distinct phases used by the sequence that are
// outside the vocabulary of its kind, in order of first appearance.
func (s *Sequence) UnknownPhases() []Phase {
	var out []Phase
	for _, f := range s.frames {
		if !s.cfg.Kind.HasPhase(f.Phase) && !slices.Contains(out, f.Phase) {
			out = append(out, f.Phase)
		}
	}
	return out
}

// DegreesBefore returns the degree counters known just before frame i is
// shown when playing from the start: the last recorded value of every node
// over frames 0 through i-1. It is empty for i <= 0.
func (s *Sequence) DegreesBefore(i int) map[int]Degrees {
	out := make(map[int]Degrees)
	for k := 0; k < s.Clamp(i); k++ {
		for id, n := range s.frames[k].Nodes {
			if d, ok := n.Degrees(); ok {
				out[id] = d
			}
		}
	}
	return out
}
