package playback

import (
	"time"

	"github.com/matzehuels/rankplay/pkg/frames"
	"github.com/matzehuels/rankplay/pkg/observability"
)

// DelayFor returns how long a frame in phase p stays on screen at the given
// base speed: 1.5x for closure, 1.3x for update_degrees, 1x otherwise.
// Speeds above MaxSpeed count as MaxSpeed.
func DelayFor(speed time.Duration, p frames.Phase) time.Duration {
	return min(speed, MaxSpeed) * time.Duration(p.DwellPercent()) / 100
}

// PlayDuration returns the time a full run from the first to the last frame
// takes at the given base speed.
func PlayDuration(seq *frames.Sequence, speed time.Duration) time.Duration {
	var total time.Duration
	for i, s := range seq.All() {
		if i == seq.Last() {
			break
		}
		total += DelayFor(speed, s.Phase)
	}
	return total
}

// scheduleNextLocked arms the timer for the next advance. It stops playback
// when the current frame is the last one. The delay is charged to the phase
// of the current frame, the one about to be left.
func (c *Controller) scheduleNextLocked() {
	if !c.playing {
		return
	}
	if c.index >= c.seq.Last() {
		c.setPlayingLocked(false)
		return
	}

	c.cancelLocked()
	gen := c.gen
	delay := DelayFor(c.speed, c.seq.At(c.index).Phase)
	c.timer = c.sched.AfterFunc(delay, func() { c.fire(gen) })
	observability.Playback().OnSchedule(c.name, c.index, delay)
}

// cancelLocked invalidates any armed timer. Cancelling when nothing is
// armed only bumps the generation.
func (c *Controller) cancelLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// fire is the timer callback. A stale generation means the timer was
// cancelled after it started running; it must not touch state.
func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || !c.playing {
		return
	}
	c.timer = nil
	c.moveLocked(c.index+1, observability.CauseTimer)
	c.scheduleNextLocked()
}
