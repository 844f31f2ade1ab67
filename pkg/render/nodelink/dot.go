package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/rankplay/pkg/frames"
)

// Options configures frame diagram rendering.
type Options struct {
	// Detailed adds degree counters to node labels.
	Detailed bool

	// Previous holds the degree counters of the previously shown frame.
	// Nodes whose counters differ are outlined. Nil disables highlighting.
	Previous map[int]frames.Degrees
}

// statusFill maps node status to fill color.
var statusFill = map[frames.Status]string{
	frames.StatusPending:      "white",
	frames.StatusQuerying:     "gold",
	frames.StatusSurvivor:     "lightblue",
	frames.StatusFinalizedTop: "palegreen",
	frames.StatusFinalizedOut: "lightgrey",
	frames.StatusInWindow:     "lightyellow",
}

// ToDOT converts a frame to Graphviz DOT format.
// Nodes missing from the snapshot are left out for this frame, together with
// every edge and group entry that references them.
func ToDOT(snap *frames.Snapshot, kind frames.Kind, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  label=%q;\n", fmtTitle(snap))
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=16];\n")
	buf.WriteString("  edge [color=gray40, arrowsize=0.7];\n")
	buf.WriteString("\n")

	group := snap.QueryGroup
	if len(snap.Window) > 0 {
		group = snap.Window
	}
	if len(group) > 0 {
		buf.WriteString("  subgraph cluster_group {\n")
		buf.WriteString("    style=rounded;\n    color=goldenrod;\n")
		fmt.Fprintf(&buf, "    label=%q;\n", groupLabel(snap))
		for _, id := range group {
			if _, ok := snap.Node(id); ok {
				fmt.Fprintf(&buf, "    %d;\n", id)
			}
		}
		buf.WriteString("  }\n\n")
	}

	for _, id := range snap.NodeIDs() {
		n := snap.Nodes[id]
		fmt.Fprintf(&buf, "  %d [%s];\n", id, strings.Join(fmtAttrs(id, n, opts), ", "))
	}

	c := frames.Classify(snap, kind)
	via := make(map[frames.Edge]int, len(c.Paths))
	for _, p := range c.Paths {
		via[frames.Edge{p.From, p.To}] = p.Via
	}

	buf.WriteString("\n")
	for _, e := range present(snap, c.Base) {
		fmt.Fprintf(&buf, "  %d -> %d;\n", e.From(), e.To())
	}
	for _, e := range present(snap, c.New) {
		fmt.Fprintf(&buf, "  %d -> %d [color=darkorange, penwidth=2.5];\n", e.From(), e.To())
	}
	for _, e := range present(snap, c.Inferred) {
		attrs := "style=dashed, color=royalblue"
		if v, ok := via[e]; ok {
			attrs += fmt.Sprintf(", label=\"via %d\", fontcolor=royalblue", v)
		}
		fmt.Fprintf(&buf, "  %d -> %d [%s];\n", e.From(), e.To(), attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// present drops edges with an endpoint missing from snap.
func present(snap *frames.Snapshot, edges []frames.Edge) []frames.Edge {
	return slices.DeleteFunc(slices.Clone(edges), func(e frames.Edge) bool {
		_, from := snap.Node(e.From())
		_, to := snap.Node(e.To())
		return !from || !to
	})
}

func fmtTitle(snap *frames.Snapshot) string {
	if snap.Round == "" {
		return string(snap.Phase)
	}
	return fmt.Sprintf("%s · %s", snap.Round, snap.Phase)
}

func groupLabel(snap *frames.Snapshot) string {
	if len(snap.Window) > 0 {
		return "window"
	}
	return "query group"
}

func fmtLabel(id int, n frames.NodeState, detailed bool) string {
	d, ok := n.Degrees()
	if !detailed || !ok {
		return strconv.Itoa(id)
	}
	return fmt.Sprintf("%d\nin %d · out %d", id, d.In, d.Out)
}

func fmtAttrs(id int, n frames.NodeState, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(id, n, opts.Detailed))}
	if fill, ok := statusFill[n.Status]; ok {
		attrs = append(attrs, "fillcolor="+fill)
	}
	switch n.Status {
	case frames.StatusFinalizedOut:
		attrs = append(attrs, "fontcolor=gray50")
	case frames.StatusFinalizedTop:
		attrs = append(attrs, "shape=doublecircle")
	}
	if changed(id, n, opts.Previous) {
		attrs = append(attrs, "color=firebrick", "penwidth=3")
	}
	return attrs
}

// changed reports whether the node's counters differ from prev. Nodes
// absent from prev or without counters never count as changed.
func changed(id int, n frames.NodeState, prev map[int]frames.Degrees) bool {
	if prev == nil {
		return false
	}
	before, ok := prev[id]
	if !ok {
		return false
	}
	now, ok := n.Degrees()
	return ok && now != before
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element to a zero-origin viewBox with
// matching width and height so the SVG scales inside an <img>.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
