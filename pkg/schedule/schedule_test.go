package schedule

import (
	"slices"
	"sync/atomic"
	"testing"
	"time"
)

func TestVirtualFiresInDeadlineOrder(t *testing.T) {
	var v Virtual
	var got []string

	v.AfterFunc(300*time.Millisecond, func() { got = append(got, "c") })
	v.AfterFunc(100*time.Millisecond, func() { got = append(got, "a") })
	v.AfterFunc(200*time.Millisecond, func() { got = append(got, "b") })

	v.Advance(150 * time.Millisecond)
	if !slices.Equal(got, []string{"a"}) {
		t.Fatalf("after 150ms fired %v, want [a]", got)
	}
	v.Advance(time.Second)
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("fired %v, want [a b c]", got)
	}
	if v.Now() != 1150*time.Millisecond {
		t.Errorf("Now() = %v, want 1.15s", v.Now())
	}
}

func TestVirtualStop(t *testing.T) {
	var v Virtual
	fired := false
	timer := v.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("first Stop() should report true")
	}
	if timer.Stop() {
		t.Error("second Stop() should report false")
	}
	v.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
	if v.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", v.Pending())
	}
}

func TestVirtualRearmFromCallback(t *testing.T) {
	var v Virtual
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			v.AfterFunc(100*time.Millisecond, tick)
		}
	}
	v.AfterFunc(100*time.Millisecond, tick)

	v.Advance(250 * time.Millisecond)
	if count != 2 {
		t.Errorf("count after 250ms = %d, want 2", count)
	}
	if n := v.RunUntilIdle(10); n != 1 {
		t.Errorf("RunUntilIdle() = %d, want 1", n)
	}
	if v.Now() != 300*time.Millisecond {
		t.Errorf("Now() = %v, want 300ms", v.Now())
	}

	want := []time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond}
	if !slices.Equal(v.Armed(), want) {
		t.Errorf("Armed() = %v, want %v", v.Armed(), want)
	}
}

func TestRealAfterFunc(t *testing.T) {
	var fired atomic.Bool
	done := make(chan struct{})
	Real{}.AfterFunc(5*time.Millisecond, func() {
		fired.Store(true)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("real timer did not fire")
	}
	if !fired.Load() {
		t.Error("callback not run")
	}

	stopped := Real{}.AfterFunc(time.Hour, func() { t.Error("stopped timer fired") })
	if !stopped.Stop() {
		t.Error("Stop() on pending real timer should report true")
	}
}
