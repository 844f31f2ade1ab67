package playback

import (
	"slices"
	"sync"

	"github.com/matzehuels/rankplay/pkg/frames"
)

// FrameChangeFunc is called after every actual index change with the new
// index, the total number of frames and the snapshot now shown.
type FrameChangeFunc func(index, total int, snap *frames.Snapshot)

// Notifier fans frame changes out to subscribers in subscription order.
// The zero value is ready to use.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs []subscriber
}

type subscriber struct {
	id int
	fn FrameChangeFunc
}

// Subscribe registers fn and returns a function that removes it again.
// A nil fn is ignored. Calling the returned function more than once is safe.
func (n *Notifier) Subscribe(fn FrameChangeFunc) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.next++
	id := n.next
	n.subs = append(n.subs, subscriber{id: id, fn: fn})
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.subs = slices.DeleteFunc(n.subs, func(s subscriber) bool { return s.id == id })
	}
}

// Notify calls every subscriber. Subscribers may subscribe or unsubscribe
// from other goroutines while Notify runs; the change applies from the next
// call on.
func (n *Notifier) Notify(index, total int, snap *frames.Snapshot) {
	n.mu.Lock()
	subs := slices.Clone(n.subs)
	n.mu.Unlock()

	for _, s := range subs {
		s.fn(index, total, snap)
	}
}

// Len returns the number of subscribers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

func (n *Notifier) clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = nil
}
