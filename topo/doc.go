// Package topo holds the canonical topology of mesh element kinds:
// vertex orderings of edges and faces, downward adjacency counts, and the
// rotation groups used to bring elements into canonical orientations.
//
// What
//
//   - Kind enumerates the eight element kinds (Vertex ... Pyramid) with
//     their topological dimension and per-dimension adjacency arity.
//   - Canonical tables (TriEdgeVerts, TetTriVerts, PrismQuadVerts, ...)
//     fix, for every kind, which vertices span each sub-entity. Cooperating
//     processes must agree on these tables bit for bit; they are constants.
//   - Rotation tables (TetRotation, PrismRotation, OctRotation) list the
//     orientation-preserving symmetries of each shape. Rotations are applied
//     to vertex tuples with Rotate and inverted with FindTetRotation and
//     UnrotateTetXi.
//   - Split-code dispatch tables (TetSplits, PrismSplits, ...) map an
//     edge-split bitmask to the subdivision template index and the rotation
//     that presents the split edges in the template's expected positions.
//
// Determinism
//
//	Tables that follow from the rotation groups (octahedron rotations, the
//	prism diagonal match table, the split-code dispatch tables) are computed
//	once at package init with fixed tie-breaks: the lowest rotation code
//	wins, and octahedron base rotations are the lexicographically smallest
//	valid row. Two processes running this package always hold identical
//	tables.
//
// The package has no dependencies and performs no allocation after init.
package topo
