package frames

import (
	"slices"
	"strings"

	"github.com/matzehuels/rankplay/pkg/errors"
)

// Kind identifies the ranking algorithm that produced a sequence.
type Kind string

const (
	// KindInference is the multi-step inference algorithm (kind A). Each round
	// derives transitive edges and updates degree counters before eliminating.
	KindInference Kind = "inference"
	// KindWindowed is the windowed algorithm (kind B).
	KindWindowed Kind = "windowed"
)

// Phase is a named sub-step within a round.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseSelect        Phase = "select"
	PhaseCompare       Phase = "compare"
	PhaseClosure       Phase = "closure"
	PhaseUpdateDegrees Phase = "update_degrees"
	PhaseEliminate     Phase = "eliminate"
	PhaseFinalize      Phase = "finalize"
	PhaseFinal         Phase = "final"
)

// Status is the categorical state of a node in one frame.
type Status string

const (
	StatusPending      Status = "pending"
	StatusQuerying     Status = "querying"
	StatusSurvivor     Status = "survivor"
	StatusFinalizedTop Status = "finalized_top"
	StatusFinalizedOut Status = "finalized_out"
	StatusInWindow     Status = "in_window"
)

var phasesByKind = map[Kind][]Phase{
	KindInference: {
		PhaseIdle, PhaseSelect, PhaseCompare, PhaseClosure,
		PhaseUpdateDegrees, PhaseEliminate, PhaseFinalize, PhaseFinal,
	},
	KindWindowed: {
		PhaseIdle, PhaseSelect, PhaseCompare, PhaseEliminate, PhaseFinalize, PhaseFinal,
	},
}

// ParseKind converts a kind name to a Kind. The short forms "a" and "b" are
// accepted as aliases. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inference", "a":
		return KindInference, nil
	case "windowed", "b":
		return KindWindowed, nil
	}
	return "", errors.New(errors.ErrCodeInvalidKind, "unknown algorithm kind %q (must be 'inference' or 'windowed')", s)
}

// UnmarshalText implements encoding.TextUnmarshaler so JSON and TOML values
// go through ParseKind.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := phasesByKind[k]
	return ok
}

// Phases returns the narrative phase order of one round for k.
// The returned slice is a copy.
func (k Kind) Phases() []Phase {
	return slices.Clone(phasesByKind[k])
}

// HasPhase reports whether p belongs to the vocabulary of k.
func (k Kind) HasPhase(p Phase) bool {
	return slices.Contains(phasesByKind[k], p)
}

// DwellPercent returns how long a viewer should dwell on a frame in phase p,
// as a percentage of the base playback speed. Closure and degree updates
// animate several derived changes at once and get extra time.
func (p Phase) DwellPercent() int64 {
	switch p {
	case PhaseClosure:
		return 150
	case PhaseUpdateDegrees:
		return 130
	default:
		return 100
	}
}

// Finalized reports whether s is one of the terminal statuses.
func (s Status) Finalized() bool {
	return s == StatusFinalizedTop || s == StatusFinalizedOut
}
