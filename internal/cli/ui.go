package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/rankplay/pkg/frames"
)

// =============================================================================
// Palette
// =============================================================================

// ANSI 256 colors. Node statuses and edge classes reuse the same palette as
// the Graphviz renderer where a close match exists.
var (
	colorCyan   = lipgloss.Color("36")  // window members, accents
	colorGreen  = lipgloss.Color("35")  // finalized top, playing
	colorYellow = lipgloss.Color("220") // querying, new edges
	colorRed    = lipgloss.Color("167") // changed degree counters
	colorBlue   = lipgloss.Color("75")  // survivors, inferred edges
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Frame Presentation
// =============================================================================

var (
	statusStyles = map[frames.Status]lipgloss.Style{
		frames.StatusPending:      lipgloss.NewStyle().Foreground(colorGray),
		frames.StatusQuerying:     lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
		frames.StatusSurvivor:     lipgloss.NewStyle().Foreground(colorBlue),
		frames.StatusFinalizedTop: lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
		frames.StatusFinalizedOut: lipgloss.NewStyle().Foreground(colorDim),
		frames.StatusInWindow:     lipgloss.NewStyle().Foreground(colorCyan),
	}
	statusIcons = map[frames.Status]string{
		frames.StatusPending:      "○",
		frames.StatusQuerying:     "◉",
		frames.StatusSurvivor:     "●",
		frames.StatusFinalizedTop: "★",
		frames.StatusFinalizedOut: "·",
		frames.StatusInWindow:     "◆",
	}

	styleNewEdge      = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	styleInferredEdge = lipgloss.NewStyle().Foreground(colorBlue).Italic(true)
	styleChanged      = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
)

// statusLook returns the icon and style for a node status. Statuses outside
// the vocabulary get "?" in the value style.
func statusLook(s frames.Status) (string, lipgloss.Style) {
	icon, ok := statusIcons[s]
	if !ok {
		return "?", StyleValue
	}
	return icon, statusStyles[s]
}

// =============================================================================
// Command Output
// =============================================================================

// uiOut receives the status lines of one-shot commands. Tests swap it.
var uiOut io.Writer = os.Stdout

func printLine(icon string, style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(uiOut, style.Render(icon)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { printLine("✓", StyleSuccess, format, args...) }
func printInfo(format string, args ...any)    { printLine("›", StyleDim, format, args...) }

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written output file.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}
