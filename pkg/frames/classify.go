package frames

// Classification is the set of edges a renderer draws for one frame.
type Classification struct {
	// Base edges are established comparisons drawn in the normal style.
	Base []Edge
	// New edges were observed in this step. Only populated in compare.
	New []Edge
	// Inferred edges were derived transitively. Only populated in closure.
	Inferred []Edge
	// Paths explain the inferred edges. Only populated in closure.
	Paths []Path
}

// Classify splits the edges of s for display.
//
// Edges flagged as new or inferred are removed from the base set in every
// phase. New edges are shown during compare only; inferred edges and their
// propagation paths during closure only. For the windowed kind, a compare
// frame without an explicit new list shows all of its base edges as new.
func Classify(s *Snapshot, kind Kind) Classification {
	if s == nil {
		return Classification{}
	}

	flagged := make(map[Edge]struct{}, len(s.NewEdges)+len(s.InferredEdges))
	for _, e := range s.NewEdges {
		flagged[e] = struct{}{}
	}
	for _, e := range s.InferredEdges {
		flagged[e] = struct{}{}
	}

	var c Classification
	for _, e := range s.Edges {
		if _, ok := flagged[e]; !ok {
			c.Base = append(c.Base, e)
		}
	}

	switch s.Phase {
	case PhaseCompare:
		switch {
		case len(s.NewEdges) > 0:
			c.New = append(c.New, s.NewEdges...)
		case kind == KindWindowed && len(c.Base) > 0:
			c.New, c.Base = c.Base, nil
		}
	case PhaseClosure:
		c.Inferred = append(c.Inferred, s.InferredEdges...)
		c.Paths = append(c.Paths, s.Paths...)
	}
	return c
}
