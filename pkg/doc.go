// Package pkg provides the libraries behind rankplay, a playback engine for
// recorded tournament-ranking visualizations.
//
// # Overview
//
// A ranking run is recorded as an ordered list of frames. Each frame holds
// the status of every node, the comparison edges known so far and the edges
// that are new or inferred in that step. rankplay replays those frames with
// a timer whose delay depends on the phase of the frame being shown.
//
// # Architecture
//
//	frame file (JSON)
//	     ↓
//	[frames] Sequence (immutable snapshots)
//	     ↓
//	[playback] Controller (clock, transport, degree history)
//	     ↓                 ↘
//	Renderer            Synchronizer (several players, one transport)
//	     ↓
//	terminal view, [render/nodelink] diagram, [server] event stream
//
// # Quick Start
//
//	seq, _ := frames.ReadFile("run.json")
//	c, _ := playback.New(seq,
//	    playback.WithSpeed(800*time.Millisecond),
//	    playback.WithOnFrameChange(func(i, total int, s *frames.Snapshot) {
//	        fmt.Printf("%d/%d %s\n", i+1, total, s.Phase)
//	    }),
//	)
//	c.Play()
//
// # Main Packages
//
// [frames] - Snapshot types, phase and status vocabulary, edge
// classification and the JSON frame file format.
//
// [playback] - The playback controller, its clock, change notification and
// the multi-player synchronizer.
//
// [schedule] - Timer abstraction with a wall-clock and a virtual
// implementation for deterministic tests.
//
// [render/nodelink] - Graphviz diagrams of single frames.
//
// [server] - HTTP API and websocket stream over a set of controllers.
//
// [cache] - Rendered-frame cache with file and Redis backends.
//
// [observability] - Hooks for metrics and tracing.
//
// [errors] - Structured error codes.
//
// [buildinfo] - Version information set at build time.
package pkg
