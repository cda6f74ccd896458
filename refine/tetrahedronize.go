package refine

import (
	"github.com/unstruct/meshadapt/mesh"
	"github.com/unstruct/meshadapt/topo"
)

// Entry points for tetrahedronizing mixed elements in place, used when
// collapsing layered meshes to all-tet form. The diagonal state already
// present in the mesh decides each decomposition, so neighbouring
// elements agree without coordination. Callers destroy the parent
// afterwards.

// TetrahedronizePyramid splits a pyramid-shaped region across whichever
// quad diagonal exists. Exactly one diagonal must exist.
func (r *Refiner) TetrahedronizePyramid(parent mesh.Entity, v []mesh.Entity) {
	pyramidToTets(r, parent, v)
}

// TetrahedronizePrism splits a prism-shaped region into tets based on
// its quad diagonal code. The good case emits three tets; the bad case
// (all diagonals cycling one way) creates a centroid vertex at the
// prism's geometric centre and emits eight, returning the centroid.
// Returns None in the good case.
func (r *Refiner) TetrahedronizePrism(parent mesh.Entity, v []mesh.Entity) mesh.Entity {
	code := r.prismDiagonalCode(v)
	if !topo.PrismDiagCodeBad(code) {
		r.prismToTetsGoodCase(parent, v, code)
		return mesh.None
	}
	point := r.m.AveragePositions(v)
	return r.prismToTetsBadCase(parent, v, code, point)
}

// TetrahedronizeQuad splits a quad along its preset diagonal flag.
func (r *Refiner) TetrahedronizeQuad(q mesh.Entity) {
	verts := r.m.Downward(q, 0)
	splitQuad0(r, q, verts)
}
