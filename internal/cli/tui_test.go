package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/matzehuels/rankplay/pkg/playback"
	"github.com/matzehuels/rankplay/pkg/schedule"
)

func newTestModel(t *testing.T, files ...string) (*PlayerModel, *schedule.Virtual) {
	t.Helper()
	clock := &schedule.Virtual{}
	var panes []playerPane
	for _, f := range files {
		seq := loadTestdata(t, f)
		view := newTermView(seq.Kind(), false)
		ctrl, err := playback.New(seq,
			playback.WithScheduler(clock),
			playback.WithSpeed(time.Second),
			playback.WithRenderer(view),
			playback.WithName(f),
		)
		if err != nil {
			t.Fatalf("playback.New() error = %v", err)
		}
		panes = append(panes, playerPane{title: f, ctrl: ctrl, view: view})
	}
	m, err := newPlayerModel(panes, time.Second)
	if err != nil {
		t.Fatalf("newPlayerModel() error = %v", err)
	}
	t.Cleanup(m.close)
	m.Init()
	return m, clock
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func indices(m *PlayerModel) []int {
	out := make([]int, len(m.panes))
	for i, p := range m.panes {
		out[i] = p.ctrl.Index()
	}
	return out
}

func TestPlayerModelStepping(t *testing.T) {
	m, _ := newTestModel(t, "inference.json")

	steps := []struct {
		msg  tea.Msg
		want int
	}{
		{tea.KeyMsg{Type: tea.KeyRight}, 1},
		{runeKey('l'), 2},
		{tea.KeyMsg{Type: tea.KeyLeft}, 1},
		{tea.KeyMsg{Type: tea.KeyEnd}, 7},
		{tea.KeyMsg{Type: tea.KeyRight}, 7},
		{tea.KeyMsg{Type: tea.KeyHome}, 0},
		{tea.KeyMsg{Type: tea.KeyLeft}, 0},
		{runeKey('5'), 3},
		{runeKey('9'), 6},
		{runeKey('0'), 0},
	}
	for i, s := range steps {
		m.Update(s.msg)
		if got := m.panes[0].ctrl.Index(); got != s.want {
			t.Fatalf("step %d (%v): index = %d, want %d", i, s.msg, got, s.want)
		}
	}
}

func TestPlayerModelToggle(t *testing.T) {
	m, clock := newTestModel(t, "windowed.json")
	ctrl := m.panes[0].ctrl

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !ctrl.IsPlaying() {
		t.Fatal("space should start playback")
	}
	clock.Advance(2 * time.Second)
	if ctrl.Index() != 2 {
		t.Errorf("after 2s index = %d, want 2", ctrl.Index())
	}

	m.Update(runeKey('p'))
	if ctrl.IsPlaying() {
		t.Error("second toggle should pause")
	}
	clock.Advance(10 * time.Second)
	if ctrl.Index() != 2 {
		t.Errorf("paused player moved to %d", ctrl.Index())
	}
}

func TestPlayerModelSpeed(t *testing.T) {
	m, _ := newTestModel(t, "windowed.json")
	ctrl := m.panes[0].ctrl

	m.Update(runeKey('-'))
	if got := ctrl.Speed(); got != 1250*time.Millisecond {
		t.Errorf("slower speed = %v, want 1.25s", got)
	}
	m.Update(runeKey('+'))
	m.Update(runeKey('+'))
	if got := ctrl.Speed(); got != 800*time.Millisecond {
		t.Errorf("faster speed = %v, want 800ms", got)
	}
}

func TestPlayerModelSynchronized(t *testing.T) {
	m, _ := newTestModel(t, "windowed.json", "inference.json")

	m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	if got := indices(m); got[0] != 4 || got[1] != 7 {
		t.Errorf("end: indices = %v, want [4 7]", got)
	}
	pos, upper := m.sync.Progress()
	if pos != 7 || upper != 7 {
		t.Errorf("progress = %d/%d, want 7/7", pos, upper)
	}

	m.Update(runeKey('r'))
	if got := indices(m); got[0] != 0 || got[1] != 0 {
		t.Errorf("reset: indices = %v", got)
	}
}

func TestPlayerModelFrameChangeWakeup(t *testing.T) {
	m, _ := newTestModel(t, "windowed.json")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	select {
	case <-m.changes:
	default:
		t.Fatal("frame change did not signal the UI")
	}

	// A burst of changes collapses into one pending wakeup.
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if len(m.changes) != 1 {
		t.Errorf("pending wakeups = %d, want 1", len(m.changes))
	}

	_, cmd := m.Update(frameChangedMsg{})
	if cmd == nil {
		t.Error("frameChangedMsg should re-arm the wait command")
	}
}

func TestPlayerModelQuit(t *testing.T) {
	m, _ := newTestModel(t, "windowed.json")
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if m.sync.AnyPlaying() {
		t.Error("quitting should pause playback")
	}
}

func TestPlayerModelView(t *testing.T) {
	m, _ := newTestModel(t, "windowed.json")
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	view := ansi.Strip(m.View())
	for _, want := range []string{"windowed.json", "2/5", "Window 1 · select", "paused"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSeekTarget(t *testing.T) {
	tests := []struct {
		digit string
		upper int
		want  int
	}{
		{"0", 7, 0},
		{"5", 7, 3},
		{"9", 7, 6},
		{"5", 0, 0},
		{"x", 7, 0},
	}
	for _, tt := range tests {
		if got := seekTarget(tt.digit, tt.upper); got != tt.want {
			t.Errorf("seekTarget(%q, %d) = %d, want %d", tt.digit, tt.upper, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := ansi.Strip(progressBar(0, 4, 8)); got != strings.Repeat("─", 8) {
		t.Errorf("start bar = %q", got)
	}
	if got := ansi.Strip(progressBar(4, 4, 8)); got != strings.Repeat("━", 8) {
		t.Errorf("end bar = %q", got)
	}
	if got := ansi.Strip(progressBar(0, 0, 8)); got != strings.Repeat("━", 8) {
		t.Errorf("single-frame bar = %q", got)
	}
}
