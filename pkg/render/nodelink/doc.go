// Package nodelink renders a single frame as a node-link diagram.
//
// # Overview
//
// Each competitor becomes a node colored by its status in the frame; each
// comparison becomes an arrow from winner to loser. Edges are drawn as
// [frames.Classify] splits them:
//
//   - base edges: solid grey
//   - new edges (compare phase): bold orange
//   - inferred edges (closure phase): dashed blue, labelled with the node
//     they were derived through
//
// The current query group or window is drawn as a cluster around its nodes.
//
// # Usage
//
//	dot := nodelink.ToDOT(snap, seq.Kind(), nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// When [Options.Previous] carries the degree counters of the previously
// shown frame, nodes whose counters changed get a thick red outline.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
