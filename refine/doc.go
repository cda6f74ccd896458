// Package refine subdivides mesh elements according to per-edge split
// requests placed by the caller.
//
// The driver visits every element touched by a marked edge, encodes
// which of its canonical edges carry splits as a bitmask, rotates the
// element's vertex tuple into the canonical orientation for that code,
// and dispatches to the matching subdivision template. Templates issue
// buildSplitElement calls; entities already built by an adjacent
// element's template (shared faces, diagonal edges) are found and
// reused, which is what keeps decompositions consistent across element
// boundaries without any coordination.
//
// Neighbouring templates communicate only through the mesh: a pyramid
// emitted next to a quad face reads which diagonal edge exists and
// splits accordingly; a prism reads its three quad diagonals as a 3-bit
// code and either finds the doubly-shared vertex (good case) or falls
// back to a centroid vertex (bad case). Geometric tie-breakers (shortest
// diagonal, with the lowest vertex pair winning exact ties) are
// deterministic, so two parts sharing a face always agree.
//
// A template that finds its precondition violated (an expected diagonal
// missing, a code with no template) panics with ErrTopology after
// logging: that is a programmer error, not a recoverable failure.
//
// Typical use:
//
//	r := refine.New(m)
//	for _, e := range edgesToSplit {
//		r.Mark(e, 0.5)
//	}
//	res, err := r.Run(comm) // comm may be nil for a single part
//
// After Run, new boundary vertices carry interpolated parametric
// coordinates and are ready for snapping (package snap).
package refine
