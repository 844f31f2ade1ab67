// Package schedule provides one-shot timers behind an interface so that
// time-dependent code can run against the wall clock or a virtual clock.
//
// [Real] wraps [time.AfterFunc]. [Virtual] only moves when a test calls
// [Virtual.Advance], firing due timers in deadline order on the caller's
// goroutine, which makes delay sequences exactly observable.
package schedule

import (
	"math"
	"sort"
	"sync"
	"time"
)

// Timer is a handle to a pending callback.
type Timer interface {
	// Stop prevents the callback from running if it has not started yet.
	// It reports whether the call stopped the timer. Stopping a timer that
	// already fired or was already stopped is a no-op.
	Stop() bool
}

// Scheduler arms one-shot timers.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules callbacks on the wall clock. Callbacks run on their own
// goroutine, as with time.AfterFunc.
type Real struct{}

// AfterFunc implements Scheduler.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Virtual is a manually advanced clock. The zero value is ready to use and
// starts at time zero.
type Virtual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*virtualTimer
	armed  []time.Duration
}

type virtualTimer struct {
	v   *Virtual
	at  time.Duration
	seq uint64
	f   func()
}

// AfterFunc implements Scheduler. Negative delays are treated as zero.
func (v *Virtual) AfterFunc(d time.Duration, f func()) Timer {
	v.mu.Lock()
	defer v.mu.Unlock()
	d = max(d, 0)
	v.seq++
	t := &virtualTimer{v: v, at: v.now + d, seq: v.seq, f: f}
	v.timers = append(v.timers, t)
	v.armed = append(v.armed, d)
	return t
}

// Stop implements Timer.
func (t *virtualTimer) Stop() bool {
	t.v.mu.Lock()
	defer t.v.mu.Unlock()
	for i, p := range t.v.timers {
		if p == t {
			t.v.timers = append(t.v.timers[:i], t.v.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Now returns the virtual time elapsed since the clock was created.
func (v *Virtual) Now() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Pending returns the number of armed timers that have not fired.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.timers)
}

// Armed returns the delay of every timer armed so far, in arming order.
func (v *Virtual) Armed() []time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]time.Duration(nil), v.armed...)
}

// Advance moves the clock forward by d, firing every timer that becomes due.
// Timers armed by a callback fire within the same call if they fall due
// before the new time.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now + d
	v.mu.Unlock()

	for {
		t := v.popDue(target)
		if t == nil {
			break
		}
		t.f()
	}

	v.mu.Lock()
	v.now = target
	v.mu.Unlock()
}

// RunUntilIdle fires timers in deadline order until none are pending or
// limit callbacks have run, moving the clock to each deadline. It returns
// the number of callbacks run.
func (v *Virtual) RunUntilIdle(limit int) int {
	n := 0
	for n < limit {
		t := v.popDue(math.MaxInt64)
		if t == nil {
			break
		}
		t.f()
		n++
	}
	return n
}

// popDue removes and returns the earliest timer due at or before target,
// moving the clock to its deadline.
func (v *Virtual) popDue(target time.Duration) *virtualTimer {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.timers) == 0 {
		return nil
	}
	v.sortLocked()
	t := v.timers[0]
	if t.at > target {
		return nil
	}
	v.timers = v.timers[1:]
	v.now = t.at
	return t
}

func (v *Virtual) sortLocked() {
	sort.SliceStable(v.timers, func(i, j int) bool {
		if v.timers[i].at != v.timers[j].at {
			return v.timers[i].at < v.timers[j].at
		}
		return v.timers[i].seq < v.timers[j].seq
	})
}
