package playback

import (
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/rankplay/pkg/errors"
	"github.com/matzehuels/rankplay/pkg/frames"
)

// Player is the part of a Controller the Synchronizer drives.
type Player interface {
	Play()
	Pause()
	Toggle() bool
	StepForward()
	StepBackward()
	GoToFrame(i int)
	Reset()
	SetSpeed(d time.Duration)
	Index() int
	Len() int
	IsPlaying() bool
	OnChange(fn FrameChangeFunc) (unsubscribe func())
}

var _ Player = (*Controller)(nil)

// ProgressFunc receives the shared progress position and its upper bound.
type ProgressFunc func(pos, upper int)

// Synchronizer drives several independent players from one transport.
//
// Each player keeps its own timer and clamps seeks to its own length, so
// shorter sequences finish early and hold on their last frame. The shared
// progress is the largest last-notified index of any player, bounded by the
// longest sequence.
type Synchronizer struct {
	players []Player
	upper   int
	unsubs  []func()

	mu        sync.Mutex
	last      []int
	nextSub   int
	listeners []progressListener
}

type progressListener struct {
	id int
	fn ProgressFunc
}

// NewSynchronizer subscribes to every player. It returns an
// ErrCodeInvalidConfig error when no players are given.
func NewSynchronizer(players ...Player) (*Synchronizer, error) {
	if len(players) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "synchronizer needs at least one player")
	}

	s := &Synchronizer{
		players: slices.Clone(players),
		last:    make([]int, len(players)),
	}
	for k, p := range s.players {
		s.last[k] = p.Index()
		s.upper = max(s.upper, p.Len()-1)
		s.unsubs = append(s.unsubs, p.OnChange(func(index, _ int, _ *frames.Snapshot) {
			s.record(k, index)
		}))
	}
	return s, nil
}

// PlayAll starts every player.
func (s *Synchronizer) PlayAll() { s.each(Player.Play) }

// PauseAll pauses every player.
func (s *Synchronizer) PauseAll() { s.each(Player.Pause) }

// StepAllForward steps every player forward. Players on their last frame
// stay there.
func (s *Synchronizer) StepAllForward() { s.each(Player.StepForward) }

// StepAllBackward steps every player back.
func (s *Synchronizer) StepAllBackward() { s.each(Player.StepBackward) }

// SeekAll sends every player to frame i. Each clamps to its own range.
func (s *Synchronizer) SeekAll(i int) {
	s.each(func(p Player) { p.GoToFrame(i) })
}

// ResetAll resets every player to its first frame.
func (s *Synchronizer) ResetAll() { s.each(Player.Reset) }

// SetSpeedAll sets the base delay of every player.
func (s *Synchronizer) SetSpeedAll(d time.Duration) {
	s.each(func(p Player) { p.SetSpeed(d) })
}

// ToggleAll pauses everything if any player is playing. Otherwise it toggles
// every player, so finished ones restart from their first frame. It returns
// whether any player is playing afterwards.
func (s *Synchronizer) ToggleAll() bool {
	if s.AnyPlaying() {
		s.PauseAll()
		return false
	}
	playing := false
	for _, p := range s.players {
		if p.Toggle() {
			playing = true
		}
	}
	return playing
}

// AnyPlaying reports whether at least one player is advancing.
func (s *Synchronizer) AnyPlaying() bool {
	return slices.ContainsFunc(s.players, Player.IsPlaying)
}

// Progress returns the shared position and its upper bound.
func (s *Synchronizer) Progress() (pos, upper int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Max(s.last), s.upper
}

// Positions returns the last-notified index of every player, in the order
// the players were given.
func (s *Synchronizer) Positions() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.last)
}

// Len returns the number of players.
func (s *Synchronizer) Len() int { return len(s.players) }

// OnProgress subscribes fn to changes of any player's position. fn runs on
// the goroutine of the player that moved, while that player's lock is held.
func (s *Synchronizer) OnProgress(fn ProgressFunc) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.listeners = append(s.listeners, progressListener{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(l progressListener) bool { return l.id == id })
	}
}

// Close unsubscribes from every player. The players keep running.
func (s *Synchronizer) Close() {
	for _, u := range s.unsubs {
		u()
	}
	s.mu.Lock()
	s.listeners = nil
	s.mu.Unlock()
}

func (s *Synchronizer) record(k, index int) {
	s.mu.Lock()
	s.last[k] = index
	pos := slices.Max(s.last)
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(pos, s.upper)
	}
}

func (s *Synchronizer) each(fn func(Player)) {
	for _, p := range s.players {
		fn(p)
	}
}
