package playback

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rankplay/pkg/errors"
	"github.com/matzehuels/rankplay/pkg/frames"
	"github.com/matzehuels/rankplay/pkg/observability"
	"github.com/matzehuels/rankplay/pkg/schedule"
)

const (
	// DefaultSpeed is the base delay per frame when none is configured.
	DefaultSpeed = 1200 * time.Millisecond

	// MinSpeed is the smallest accepted base delay. Smaller values are
	// clamped up to it.
	MinSpeed = time.Millisecond

	// MaxSpeed is the largest accepted base delay. Larger values are clamped
	// down to it so scaled delays stay within time.Duration.
	MaxSpeed = time.Hour
)

// ClampSpeed limits d to [MinSpeed, MaxSpeed].
func ClampSpeed(d time.Duration) time.Duration {
	return min(max(d, MinSpeed), MaxSpeed)
}

// Renderer draws one frame. prev holds the degree counters known before snap
// was reached, keyed by node id, for change highlighting. It is empty when
// the first frame is drawn right after construction or reset. Renderers own
// prev and may keep it.
type Renderer interface {
	Render(snap *frames.Snapshot, prev map[int]frames.Degrees)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(snap *frames.Snapshot, prev map[int]frames.Degrees)

// Render implements Renderer.
func (f RendererFunc) Render(snap *frames.Snapshot, prev map[int]frames.Degrees) {
	f(snap, prev)
}

// Option configures a Controller.
type Option func(*Controller)

// WithSpeed sets the initial base delay per frame.
func WithSpeed(d time.Duration) Option {
	return func(c *Controller) { c.speed = ClampSpeed(d) }
}

// WithRenderer sets the render collaborator.
func WithRenderer(r Renderer) Option {
	return func(c *Controller) { c.renderer = r }
}

// WithOnFrameChange subscribes fn to frame changes from construction on.
func WithOnFrameChange(fn FrameChangeFunc) Option {
	return func(c *Controller) { c.notifier.Subscribe(fn) }
}

// WithScheduler replaces the wall-clock scheduler, typically with a
// *schedule.Virtual in tests.
func WithScheduler(s schedule.Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.sched = s
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithName labels the controller in logs and hooks.
func WithName(name string) Option {
	return func(c *Controller) { c.name = name }
}

// State is a point-in-time view of a controller.
type State struct {
	Name    string        `json:"name,omitempty"`
	Index   int           `json:"index"`
	Total   int           `json:"total"`
	Playing bool          `json:"playing"`
	Speed   time.Duration `json:"speed"`
	Round   string        `json:"round"`
	Phase   frames.Phase  `json:"phase"`
}

// Controller plays back one frame sequence.
type Controller struct {
	mu sync.Mutex

	seq     *frames.Sequence
	index   int
	playing bool
	speed   time.Duration

	sched schedule.Scheduler
	timer schedule.Timer
	gen   uint64

	renderer Renderer
	notifier Notifier
	degrees  *degreeTracker

	name   string
	logger *log.Logger
}

// New creates a paused controller positioned on the first frame of seq.
// Construction does not render; call Refresh for the initial draw.
func New(seq *frames.Sequence, opts ...Option) (*Controller, error) {
	if seq == nil || seq.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "playback needs at least one frame")
	}
	c := &Controller{
		seq:     seq,
		speed:   DefaultSpeed,
		sched:   schedule.Real{},
		degrees: newDegreeTracker(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.degrees.record(seq.At(0))
	return c, nil
}

// Play starts advancing from the current frame. It does nothing when
// already playing. Playing from the last frame stops again immediately.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		return
	}
	c.setPlayingLocked(true)
	c.scheduleNextLocked()
}

// Pause stops advancing and cancels the armed timer. Pausing a paused
// controller is a no-op.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked()
}

// Toggle pauses a playing controller or resumes a paused one and returns the
// new playing state. Resuming from the last frame restarts from the first.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		c.pauseLocked()
		return false
	}
	if c.index == c.seq.Last() {
		c.rewindLocked(observability.CauseReset)
	}
	c.setPlayingLocked(true)
	c.scheduleNextLocked()
	return c.playing
}

// StepForward pauses and moves one frame forward. It is a no-op on the last
// frame apart from pausing.
func (c *Controller) StepForward() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked()
	c.moveLocked(c.index+1, observability.CauseStep)
}

// StepBackward pauses and moves one frame back. It is a no-op on the first
// frame apart from pausing.
func (c *Controller) StepBackward() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked()
	c.moveLocked(c.index-1, observability.CauseStep)
}

// GoToFrame pauses and shows frame i, clamped to the valid range.
func (c *Controller) GoToFrame(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked()
	c.moveLocked(i, observability.CauseSeek)
}

// Reset pauses, returns to the first frame and forgets the degree history.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked()
	c.rewindLocked(observability.CauseReset)
}

// SetSpeed changes the base delay per frame, clamped with ClampSpeed. An
// armed timer keeps its delay; the new speed applies from the next scheduled
// advance.
func (c *Controller) SetSpeed(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = ClampSpeed(d)
}

// Refresh renders the current frame again without notifying subscribers,
// passing the same prev map the frame was last rendered with.
// It is meant for the initial draw and for renderers that lost their output.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.renderer != nil {
		c.renderer.Render(c.seq.At(c.index), c.degrees.previous())
	}
}

// OnChange subscribes fn to frame changes and returns a function that
// unsubscribes it.
func (c *Controller) OnChange(fn FrameChangeFunc) (unsubscribe func()) {
	return c.notifier.Subscribe(fn)
}

// Close pauses the controller and drops every subscriber.
func (c *Controller) Close() {
	c.Pause()
	c.notifier.clear()
}

// Index returns the current frame index.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Len returns the number of frames.
func (c *Controller) Len() int { return c.seq.Len() }

// Sequence returns the frames being played.
func (c *Controller) Sequence() *frames.Sequence { return c.seq }

// Name returns the label given with WithName.
func (c *Controller) Name() string { return c.name }

// IsPlaying reports whether the controller is advancing on its own.
func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Speed returns the base delay per frame.
func (c *Controller) Speed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// Current returns the snapshot at the current index.
func (c *Controller) Current() *frames.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq.At(c.index)
}

// State returns a consistent view of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.seq.At(c.index)
	return State{
		Name:    c.name,
		Index:   c.index,
		Total:   c.seq.Len(),
		Playing: c.playing,
		Speed:   c.speed,
		Round:   snap.Round,
		Phase:   snap.Phase,
	}
}

func (c *Controller) pauseLocked() {
	c.cancelLocked()
	c.setPlayingLocked(false)
}

// rewindLocked moves to the first frame with an empty degree history.
func (c *Controller) rewindLocked(cause observability.Cause) {
	c.degrees.reset()
	if !c.moveLocked(0, cause) {
		c.degrees.record(c.seq.At(0))
	}
}

// moveLocked clamps i and, if that changes the index, renders and notifies.
// It reports whether the index changed.
func (c *Controller) moveLocked(i int, cause observability.Cause) bool {
	i = c.seq.Clamp(i)
	if i == c.index {
		return false
	}
	c.index = i
	snap := c.seq.At(i)
	prev := c.degrees.advance(snap)
	if c.renderer != nil {
		c.renderer.Render(snap, prev)
	}
	total := c.seq.Len()
	c.notifier.Notify(i, total, snap)
	observability.Playback().OnFrameChange(c.name, i, total, cause)
	return true
}

func (c *Controller) setPlayingLocked(playing bool) {
	if c.playing == playing {
		return
	}
	c.playing = playing
	if playing {
		c.logger.Debug("playback started", "player", c.name, "index", c.index, "speed", c.speed)
	} else {
		c.logger.Debug("playback stopped", "player", c.name, "index", c.index)
	}
	observability.Playback().OnStateChange(c.name, playing)
}
