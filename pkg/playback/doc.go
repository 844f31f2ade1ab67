// Package playback implements the frame playback engine: a VCR-style
// controller over an immutable [frames.Sequence].
//
// # Overview
//
// A [Controller] owns the current index and the playing flag. While playing,
// it keeps exactly one timer armed; when the timer fires the index advances
// by one and the next timer is armed with a delay charged to the phase being
// left (see [DelayFor]). Reaching the last frame stops playback.
//
// Every manual operation (pause, step, seek, reset) cancels the armed timer
// before it touches state. Cancellation is guaranteed: each armed timer
// carries a generation token, and a callback whose token is stale returns
// without side effects even if it already started running.
//
// # Rendering and Notification
//
// An actual index change calls the [Renderer] with the new snapshot and the
// degree counters of the previously rendered frame, then notifies every
// [FrameChangeFunc] subscriber. Clamped no-op operations do neither.
//
// # Timing
//
// Timers come from a [schedule.Scheduler]. Production code uses
// [schedule.Real]; tests use [schedule.Virtual] to observe exact delays:
//
//	clock := &schedule.Virtual{}
//	c, _ := playback.New(seq, playback.WithScheduler(clock), playback.WithSpeed(time.Second))
//	c.Play()
//	clock.Advance(time.Second) // first advance
//
// # Several Players
//
// A [Synchronizer] drives several independent players from one transport
// and folds their positions into a single progress value.
//
// # Concurrency
//
// Controllers are safe for concurrent use. Operations and timer callbacks
// run to completion under the controller's lock, and renderers and
// subscribers are called synchronously while it is held: they must not call
// back into the same controller.
package playback
