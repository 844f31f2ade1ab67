// Package frames holds the precomputed frame data that rankplay plays back.
//
// # Overview
//
// A tournament-ranking run is recorded elsewhere as an ordered list of
// [Snapshot] values, one per algorithm step. This package decodes that list,
// wraps it in an immutable [Sequence] together with its static [Config], and
// exposes the phase and status vocabulary renderers rely on.
//
// # Algorithm Kinds
//
// Two kinds share one playback state machine but differ in vocabulary:
//
//   - [KindInference]: idle, select, compare, closure, update_degrees,
//     eliminate, finalize, final
//   - [KindWindowed]: idle, select, compare, eliminate, finalize, final
//
// # Edge Classification
//
// [Classify] splits the edges of a snapshot into base, new and inferred sets
// according to the snapshot's phase. Renderers should draw what it returns
// rather than reading the raw edge lists.
//
// # File Format
//
//	{
//	  "node_count": 4,
//	  "algorithm": "inference",
//	  "frames": [
//	    {"round": "Round 1", "phase": "select",
//	     "nodes": {"1": {"status": "querying"}, "2": {"status": "pending"}},
//	     "edges": [[1, 2]]}
//	  ]
//	}
//
// Use [ReadFile] or [Read] to decode it.
package frames
