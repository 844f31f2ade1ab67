package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner animates a status line on w while a frame renders or the cache is
// scanned. It stops on Stop or when its context ends.
type Spinner struct {
	w     io.Writer
	style spinner.Spinner

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	message string
	drawn   int // width of the last line written
	started bool
}

// newSpinner creates a spinner bound to ctx. Nothing is drawn before Start.
func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		style:   spinner.MiniDot,
		ctx:     sctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		message: message,
	}
}

// Start draws frames until the spinner is stopped.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		tick := time.NewTicker(s.style.FPS)
		defer tick.Stop()

		for i := 0; ; i++ {
			s.draw(s.style.Frames[i%len(s.style.Frames)])
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-tick.C:
			}
		}
	}()
}

// SetMessage replaces the text shown next to the animation.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = msg
}

// Stop ends the animation and clears the line. It may be called more than
// once, and without Start.
func (s *Spinner) Stop() {
	s.cancel()
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.done
	}
}

// Cancelled reports whether the spinner's context has ended, either through
// Stop or through its parent.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	fmt.Fprintf(s.w, "\r%s", line)
	s.drawn = len(frame) + 1 + len(s.message)
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.drawn))
	}
}
