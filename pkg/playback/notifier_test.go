package playback

import (
	"slices"
	"testing"

	"github.com/matzehuels/rankplay/pkg/frames"
)

func TestNotifierOrderAndUnsubscribe(t *testing.T) {
	var n Notifier
	var got []string

	unA := n.Subscribe(func(i, _ int, _ *frames.Snapshot) { got = append(got, "a") })
	n.Subscribe(func(i, _ int, _ *frames.Snapshot) { got = append(got, "b") })
	n.Subscribe(nil)

	n.Notify(1, 2, nil)
	unA()
	unA()
	n.Notify(1, 2, nil)

	if !slices.Equal(got, []string{"a", "b", "b"}) {
		t.Errorf("calls = %v, want [a b b]", got)
	}
	if n.Len() != 1 {
		t.Errorf("Len() = %d, want 1", n.Len())
	}
}

func TestNotifierSubscribeDuringNotify(t *testing.T) {
	var n Notifier
	calls := 0
	n.Subscribe(func(int, int, *frames.Snapshot) {
		calls++
		n.Subscribe(func(int, int, *frames.Snapshot) { calls++ })
	})

	n.Notify(0, 1, nil)
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (new subscriber applies next time)", calls)
	}
}
