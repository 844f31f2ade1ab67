package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/rankplay/pkg/frames"
	"github.com/matzehuels/rankplay/pkg/playback"
)

// =============================================================================
// Key Bindings
// =============================================================================

type keyMap struct {
	Toggle  key.Binding
	Back    key.Binding
	Forward key.Binding
	Reset   key.Binding
	End     key.Binding
	Faster  key.Binding
	Slower  key.Binding
	Seek    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Toggle:  key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "play/pause")),
	Back:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "step back")),
	Forward: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "step forward")),
	Reset:   key.NewBinding(key.WithKeys("home", "r"), key.WithHelp("home/r", "reset")),
	End:     key.NewBinding(key.WithKeys("end", "e"), key.WithHelp("end/e", "last frame")),
	Faster:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
	Slower:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "slower")),
	Seek:    key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("0-9", "seek")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Back, k.Forward, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Back, k.Forward, k.Reset, k.End},
		{k.Faster, k.Slower, k.Seek, k.Help, k.Quit},
	}
}

// speedStep scales the base delay for the faster and slower keys.
const speedStep = 1.25

// =============================================================================
// PlayerModel - Interactive playback
// =============================================================================

// frameChangedMsg tells the UI that some controller moved.
type frameChangedMsg struct{}

// playerPane is one controller with its terminal view.
type playerPane struct {
	title string
	ctrl  *playback.Controller
	view  *termView
}

// PlayerModel is the bubbletea model for one or more synchronized players.
// Every key acts on all panes through the synchronizer.
type PlayerModel struct {
	panes []playerPane
	sync  *playback.Synchronizer
	speed time.Duration

	// changes carries frame-change wakeups from controller goroutines. Sends
	// never block, since they happen under a controller lock.
	changes chan struct{}
	unsubs  []func()

	help  help.Model
	width int
}

// newPlayerModel wires panes into a synchronizer and subscribes to their
// frame changes.
func newPlayerModel(panes []playerPane, speed time.Duration) (*PlayerModel, error) {
	players := make([]playback.Player, len(panes))
	for i, p := range panes {
		players[i] = p.ctrl
	}
	sync, err := playback.NewSynchronizer(players...)
	if err != nil {
		return nil, err
	}

	m := &PlayerModel{
		panes:   panes,
		sync:    sync,
		speed:   speed,
		changes: make(chan struct{}, 1),
		help:    help.New(),
	}
	for _, p := range panes {
		m.unsubs = append(m.unsubs, p.ctrl.OnChange(func(int, int, *frames.Snapshot) {
			select {
			case m.changes <- struct{}{}:
			default:
			}
		}))
	}
	return m, nil
}

// close pauses every controller and drops subscriptions.
func (m *PlayerModel) close() {
	for _, u := range m.unsubs {
		u()
	}
	m.sync.Close()
	for _, p := range m.panes {
		p.ctrl.Close()
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return frameChangedMsg{}
	}
}

func (m *PlayerModel) Init() tea.Cmd {
	for _, p := range m.panes {
		p.ctrl.Refresh()
	}
	return waitForChange(m.changes)
}

func (m *PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameChangedMsg:
		return m, waitForChange(m.changes)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.sync.PauseAll()
			return m, tea.Quit
		case key.Matches(msg, keys.Toggle):
			m.sync.ToggleAll()
		case key.Matches(msg, keys.Back):
			m.sync.StepAllBackward()
		case key.Matches(msg, keys.Forward):
			m.sync.StepAllForward()
		case key.Matches(msg, keys.Reset):
			m.sync.ResetAll()
		case key.Matches(msg, keys.End):
			_, upper := m.sync.Progress()
			m.sync.SeekAll(upper)
		case key.Matches(msg, keys.Faster):
			m.setSpeed(time.Duration(float64(m.speed) / speedStep))
		case key.Matches(msg, keys.Slower):
			m.setSpeed(time.Duration(float64(m.speed) * speedStep))
		case key.Matches(msg, keys.Seek):
			_, upper := m.sync.Progress()
			m.sync.SeekAll(seekTarget(msg.String(), upper))
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m *PlayerModel) setSpeed(d time.Duration) {
	m.speed = playback.ClampSpeed(d)
	m.sync.SetSpeedAll(m.speed)
}

// seekTarget maps digit keys to tenths of the shared range.
func seekTarget(digit string, upper int) int {
	if len(digit) != 1 || digit[0] < '0' || digit[0] > '9' {
		return 0
	}
	return int(digit[0]-'0') * upper / 10
}

var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
	paneTitleStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

func (m *PlayerModel) View() string {
	var b strings.Builder

	views := make([]string, len(m.panes))
	for i, p := range m.panes {
		st := p.ctrl.State()
		header := paneTitleStyle.Render(p.title) + " " +
			StyleDim.Render(fmt.Sprintf("%d/%d", st.Index+1, st.Total))
		views[i] = paneStyle.Render(header + "\n\n" + p.view.String())
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, views...))
	b.WriteString("\n")

	pos, upper := m.sync.Progress()
	state := "paused"
	if m.sync.AnyPlaying() {
		state = StyleSuccess.Render("playing")
	}
	b.WriteString(progressBar(pos, upper, 30))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d/%d  %s  ", pos+1, upper+1, m.speed)))
	b.WriteString(state)
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

// progressBar draws the shared position as a bar of the given width.
func progressBar(pos, upper, width int) string {
	filled := width
	if upper > 0 {
		filled = pos * width / upper
	}
	return StyleHighlight.Render(strings.Repeat("━", filled)) + StyleDim.Render(strings.Repeat("─", width-filled))
}
