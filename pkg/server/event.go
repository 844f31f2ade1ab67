package server

import (
	"github.com/matzehuels/rankplay/pkg/frames"
)

// Event types.
const (
	// EventFrame reports that one player moved to a new frame.
	EventFrame = "frame"
	// EventProgress reports a change of the shared progress position.
	EventProgress = "progress"
)

// Event is one message on the /ws stream.
type Event struct {
	Type   string       `json:"type"`
	Player string       `json:"player,omitempty"`
	Name   string       `json:"name,omitempty"`
	Index  int          `json:"index"`
	Total  int          `json:"total,omitempty"`
	Upper  int          `json:"upper,omitempty"`
	Round  string       `json:"round,omitempty"`
	Phase  frames.Phase `json:"phase,omitempty"`
}

func frameEvent(p *Player, index, total int, snap *frames.Snapshot) Event {
	return Event{
		Type:   EventFrame,
		Player: p.ID,
		Name:   p.Ctrl.Name(),
		Index:  index,
		Total:  total,
		Round:  snap.Round,
		Phase:  snap.Phase,
	}
}
