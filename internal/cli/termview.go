package cli

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/rankplay/pkg/frames"
)

// termView is the terminal playback.Renderer. Render runs on the goroutine
// that moved the controller; String is read by the UI.
type termView struct {
	kind     frames.Kind
	detailed bool

	mu  sync.Mutex
	out string
}

func newTermView(kind frames.Kind, detailed bool) *termView {
	return &termView{kind: kind, detailed: detailed}
}

// Render implements playback.Renderer.
func (v *termView) Render(snap *frames.Snapshot, prev map[int]frames.Degrees) {
	out := renderSnapshot(snap, v.kind, prev, v.detailed)
	v.mu.Lock()
	v.out = out
	v.mu.Unlock()
}

// String returns the last rendered frame.
func (v *termView) String() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.out
}

// renderSnapshot draws one frame: a title line, one line per node, and the
// edge classes that apply to the phase.
func renderSnapshot(snap *frames.Snapshot, kind frames.Kind, prev map[int]frames.Degrees, detailed bool) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(snap.Round))
	b.WriteString(StyleDim.Render(" · "))
	b.WriteString(StyleHighlight.Render(string(snap.Phase)))
	b.WriteString("\n\n")

	group := snap.QueryGroup
	if len(snap.Window) > 0 {
		group = snap.Window
	}
	for _, id := range snap.NodeIDs() {
		b.WriteString(nodeLine(id, snap.Nodes[id], slices.Contains(group, id), prev))
		b.WriteString("\n")
	}

	c := frames.Classify(snap, kind)
	b.WriteString("\n")
	writeEdges(&b, "edges", c.Base, StyleDim, "→")
	writeEdges(&b, "new", c.New, styleNewEdge, "→")
	writeEdges(&b, "inferred", c.Inferred, styleInferredEdge, "⇢")
	if detailed {
		for _, p := range c.Paths {
			fmt.Fprintf(&b, "  %s\n", StyleDim.Render(fmt.Sprintf("%d ⇢ %d via %d", p.From, p.To, p.Via)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func nodeLine(id int, n frames.NodeState, grouped bool, prev map[int]frames.Degrees) string {
	icon, style := statusLook(n.Status)

	marker := "  "
	if grouped {
		marker = StyleHighlight.Render("▸ ")
	}
	line := fmt.Sprintf("%s%s %s %s", marker, style.Render(icon), StyleNumber.Render(fmt.Sprintf("%3d", id)), style.Render(string(n.Status)))

	d, ok := n.Degrees()
	if !ok {
		return line
	}
	before, seen := prev[id]
	line += "  " + degree("in", d.In, before.In, seen) + " " + degree("out", d.Out, before.Out, seen)
	return line
}

// degree formats one counter with an arrow when it moved since the previous
// frame.
func degree(label string, now, before int, seen bool) string {
	text := fmt.Sprintf("%s %d", label, now)
	switch {
	case !seen || now == before:
		return StyleDim.Render(text)
	case now > before:
		return styleChanged.Render(text + "↑")
	default:
		return styleChanged.Render(text + "↓")
	}
}

func writeEdges(b *strings.Builder, label string, edges []frames.Edge, style lipgloss.Style, arrow string) {
	if len(edges) == 0 {
		return
	}
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = fmt.Sprintf("%d%s%d", e.From(), arrow, e.To())
	}
	fmt.Fprintf(b, "%s %s\n", StyleDim.Render(fmt.Sprintf("%-9s", label)), style.Render(strings.Join(parts, "  ")))
}
