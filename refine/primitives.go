package refine

import (
	"github.com/unstruct/meshadapt/mesh"
	"github.com/unstruct/meshadapt/topo"
)

// Subdivision primitives: tetrahedronizers for pyramid-, prism- and
// octahedron-shaped sub-regions, and the quad-to-tris splitters. These
// are shared by the element templates and must agree wherever two
// elements meet, which they do by reading existing diagonal edges from
// the mesh instead of deciding independently.

// hasEdge reports whether the edge between a and b exists.
func (r *Refiner) hasEdge(a, b mesh.Entity) bool {
	return r.m.FindUpward(topo.Edge, []mesh.Entity{a, b}) != mesh.None
}

// pyramidToTets tetrahedronizes a pyramid-shaped sub-region. Exactly one
// diagonal of the quad must already exist; if it is 1-3 the pyramid is
// rotated once so it becomes 0-2, then two tets are emitted across it.
func pyramidToTets(r *Refiner, parent mesh.Entity, v []mesh.Entity) {
	rotation := 0
	if !r.hasEdge(v[0], v[2]) {
		rotation = 1
	}
	var v2 [5]mesh.Entity
	topo.RotatePyramid(v, rotation, v2[:])
	if !r.hasEdge(v2[0], v2[2]) {
		r.fatal("pyramid under %v has neither quad diagonal", parent)
	}
	r.buildSplitElement(parent, topo.Tet, []mesh.Entity{v2[0], v2[1], v2[2], v2[4]})
	r.buildSplitElement(parent, topo.Tet, []mesh.Entity{v2[0], v2[2], v2[3], v2[4]})
}

// prismDiagonalCode reads the orientation of the three quad diagonals
// of a prism-shaped vertex set as a 3-bit code. A quad with no diagonal
// reads as orientation 0, which downstream code expects.
func (r *Refiner) prismDiagonalCode(v []mesh.Entity) int {
	code := 0
	var v2 [6]mesh.Entity
	for i := 0; i < 3; i++ {
		topo.RotatePrism(v, i, v2[:])
		if r.hasEdge(v2[3], v2[1]) {
			code |= 1 << uint(i)
		}
	}
	return code
}

// prismDiagonalChoices reports which first-face diagonals keep a prism
// with all other diagonals decided out of the bad case: bit 0 allows
// 0-4, bit 1 allows 1-3.
func (r *Refiner) prismDiagonalChoices(v []mesh.Entity) int {
	code := r.prismDiagonalCode(v)
	return topo.PrismDiagChoices[code>>1]
}

// prismToTetsGoodCase splits a prism whose diagonal code admits a
// vertex shared by two diagonals: one tet off the far triangle face
// plus a pyramid.
func (r *Refiner) prismToTetsGoodCase(parent mesh.Entity, vIn []mesh.Entity, code int) {
	var v [6]mesh.Entity
	topo.RotatePrism(vIn, topo.PrismDiagMatch[code], v[:])
	r.buildSplitElement(parent, topo.Tet, []mesh.Entity{v[3], v[5], v[4], v[0]})
	pyramidToTets(r, parent, []mesh.Entity{v[1], v[4], v[5], v[2], v[0]})
}

// prismToTetsBadCase splits a prism whose diagonals cycle one way
// around it: a centroid vertex is created at point and every surface
// triangle connects to it. This over-refines and yields poor dihedral
// angles on flat prisms; callers avoid it whenever a diagonal choice
// remains.
func (r *Refiner) prismToTetsBadCase(parent mesh.Entity, vIn []mesh.Entity, code int, point mesh.Vector) mesh.Entity {
	var v [6]mesh.Entity
	topo.RotatePrism(vIn, topo.PrismDiagMatch[code], v[:])
	// interior vertex: no parametric coordinates needed
	cv := r.buildVertex(parent, point)
	var v2 [6]mesh.Entity
	for i := 0; i < 2; i++ {
		// triangle faces into tets: the bottom, then the flipped bottom
		topo.RotatePrism(v[:], i*3, v2[:])
		r.buildSplitElement(parent, topo.Tet, []mesh.Entity{v2[0], v2[1], v2[2], cv})
	}
	for i := 0; i < 3; i++ {
		// quad faces into pyramids, rotating each quad into first place
		topo.RotatePrism(v[:], i, v2[:])
		pyramidToTets(r, parent, []mesh.Entity{v2[0], v2[3], v2[4], v2[1], cv})
	}
	return cv
}

// splitXi returns the tet-local coordinates of a split placed at
// fraction place from local vertex v0 to v1.
func splitXi(place float64, v0, v1 int) [3]float64 {
	var xi [4]float64
	coordOf := [4]int{3, 0, 1, 2}
	xi[coordOf[v1]] = place
	xi[coordOf[v0]] = 1 - place
	return [3]float64{xi[0], xi[1], xi[2]}
}

func addXi(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// centroidXiFunc computes the element-local coordinate of a prism
// centroid from the edge-split placements.
type centroidXiFunc func(r *Refiner, tet mesh.Entity, tv []mesh.Entity, places []float64, pv []mesh.Entity) [3]float64

// splitTetPrismToTets tetrahedronizes a prism-shaped sub-region of a
// split tet, taking the good case when the diagonal code allows and
// otherwise placing a centroid vertex whose element-local coordinate
// feeds solution transfer. Reports whether the good case ran.
func (r *Refiner) splitTetPrismToTets(tet mesh.Entity, tv []mesh.Entity, places []float64, pv []mesh.Entity, centroidXi centroidXiFunc) bool {
	code := r.prismDiagonalCode(pv)
	if !topo.PrismDiagCodeBad(code) {
		r.prismToTetsGoodCase(tet, pv, code)
		return true
	}
	xi := centroidXi(r, tet, tv, places, pv)
	point := r.m.MapLocalToGlobal(tet, xi)
	vert := r.prismToTetsBadCase(tet, pv, code, point)
	r.transfer.OnVertex(tet, xi, vert)
	return false
}

// octToTets tetrahedronizes an octahedron across the 0-5 diagonal.
func (r *Refiner) octToTets(parent mesh.Entity, v []mesh.Entity) {
	var v2 [6]mesh.Entity
	for i := 0; i < 4; i++ {
		topo.RotateOct(v, i, v2[:])
		r.buildSplitElement(parent, topo.Tet, []mesh.Entity{v2[0], v2[1], v2[2], v2[5]})
	}
}

// octToTetsGeometric tetrahedronizes an octahedron across its shortest
// diagonal; exact ties keep the lowest vertex pair.
func (r *Refiner) octToTetsGeometric(parent mesh.Entity, v []mesh.Entity) {
	pairs := [][2]mesh.Entity{{v[0], v[5]}, {v[1], v[3]}, {v[2], v[4]}}
	n := r.closestPair(pairs)
	var v2 [6]mesh.Entity
	topo.RotateOct(v, n*4, v2[:])
	if v2[0] != v[n] {
		r.fatal("octahedron rotation %d does not lead with vertex %d", n*4, n)
	}
	r.octToTets(parent, v2[:])
}

// quadToTris splits a quad-shaped area into two tris across the 0-2
// diagonal.
func (r *Refiner) quadToTris(parent mesh.Entity, v []mesh.Entity) {
	r.buildSplitElement(parent, topo.Triangle, []mesh.Entity{v[0], v[1], v[2]})
	r.buildSplitElement(parent, topo.Triangle, []mesh.Entity{v[0], v[2], v[3]})
}

// quadToTrisGeometric splits a quad-shaped area across its shorter
// diagonal and returns the rotation chosen.
func (r *Refiner) quadToTrisGeometric(parent mesh.Entity, v []mesh.Entity) int {
	rotation := 0
	if r.distance(v[1], v[3]) < r.distance(v[0], v[2]) {
		rotation = 1
	}
	var v2 [4]mesh.Entity
	topo.RotateQuad(v, rotation, v2[:])
	r.quadToTris(parent, v2[:])
	return rotation
}

// quadToTrisRestricted splits a quad-shaped area using a bit vector of
// acceptable diagonals (bit 0: 0-2, bit 1: 1-3), falling back to the
// shorter diagonal when none or both are acceptable. Returns the
// rotation chosen.
func (r *Refiner) quadToTrisRestricted(parent mesh.Entity, v []mesh.Entity, good int) int {
	if good == 0x0 || good == 0x3 {
		return r.quadToTrisGeometric(parent, v)
	}
	rotation := 0
	if good == 0x2 {
		rotation = 1
	}
	var v2 [4]mesh.Entity
	topo.RotateQuad(v, rotation, v2[:])
	r.quadToTris(parent, v2[:])
	return rotation
}
