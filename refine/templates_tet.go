package refine

import (
	"github.com/unstruct/meshadapt/mesh"
	"github.com/unstruct/meshadapt/topo"
)

// Tet subdivision templates, one per edge-split pattern. Each sees its
// vertex tuple rotated so the split edges sit in the positions its
// pattern expects.

// splitTet1: one edge split, two tets across the split vertex.
func splitTet1(r *Refiner, parent mesh.Entity, v []mesh.Entity) {
	sv := r.findSplitVert(v[0], v[1])
	r.buildSplitElement(parent, topo.Tet, []mesh.Entity{v[0], sv, v[2], v[3]})
	r.buildSplitElement(parent, topo.Tet, []mesh.Entity{sv, v[1], v[2], v[3]})
}

// splitTet21: two edges split, one face has them both; a tet splits off
// leaving a pyramid.
func splitTet21(r *Refiner, tet mesh.Entity, v []mesh.Entity) {
	sv0 := r.findSplitVert(v[0], v[2])
	sv1 := r.findSplitVert(v[1], v[2])
	r.buildSplitElement(tet, topo.Tet, []mesh.Entity{sv0, sv1, v[2], v[3]})
	pyramidToTets(r, tet, []mesh.Entity{v[0], v[1], sv1, sv0, v[3]})
}

// splitTet22: two opposite edges split; same as two recursive single
// splits.
func splitTet22(r *Refiner, tet mesh.Entity, v []mesh.Entity) {
	sv := r.findSplitVert(v[0], v[1])
	splitTet1(r, tet, []mesh.Entity{v[3], v[2], sv, v[0]})
	splitTet1(r, tet, []mesh.Entity{v[3], v[2], v[1], sv})
}

// splitPyramid11 handles a pyramid-shaped sub-region with quad edge 0-1
// split: a tet splits off leaving a pyramid with no splits.
func splitPyramid11(r *Refiner, parent mesh.Entity, v []mesh.Entity) {
	sv := r.findSplitVert(v[0], v[1])
	r.buildSplitElement(parent, topo.Tet, []mesh.Entity{v[0], sv, v[3], v[4]})
	pyramidToTets(r, parent, []mesh.Entity{sv, v[1], v[2], v[3], v[4]})
}

// splitTet31: all three edges of one face split; a corner tet plus a
// pyramid with one split edge.
func splitTet31(r *Refiner, tet mesh.Entity, v []mesh.Entity) {
	sv0 := r.findSplitVert(v[0], v[1])
	sv2 := r.findSplitVert(v[2], v[0])
	r.buildSplitElement(tet, topo.Tet, []mesh.Entity{v[0], sv0, sv2, v[3]})
	splitPyramid11(r, tet, []mesh.Entity{v[1], v[2], sv2, sv0, v[3]})
}

// splitTet32: three edges split, two faces carry two; two
// ambiguous-quad pyramids and one tet.
func splitTet32(r *Refiner, tet mesh.Entity, v []mesh.Entity) {
	sv0 := r.findSplitVert(v[0], v[1])
	sv1 := r.findSplitVert(v[0], v[2])
	sv2 := r.findSplitVert(v[2], v[3])
	pyramidToTets(r, tet, []mesh.Entity{sv1, sv2, v[3], v[0], sv0})
	pyramidToTets(r, tet, []mesh.Entity{sv1, sv0, v[1], v[2], sv2})
	r.buildSplitElement(tet, topo.Tet, []mesh.Entity{sv0, sv2, v[3], v[1]})
}

// splitTet33: the mirror pattern of splitTet32 under a different
// rotation.
func splitTet33(r *Refiner, tet mesh.Entity, v []mesh.Entity) {
	sv0 := r.findSplitVert(v[0], v[1])
	sv1 := r.findSplitVert(v[1], v[2])
	sv2 := r.findSplitVert(v[2], v[3])
	pyramidToTets(r, tet, []mesh.Entity{v[0], sv0, sv1, v[2], sv2})
	pyramidToTets(r, tet, []mesh.Entity{v[1], v[3], sv2, sv1, sv0})
	r.buildSplitElement(tet, topo.Tet, []mesh.Entity{v[0], sv0, sv2, v[3]})
}

// centroidXi34 averages the six prism-vertex coordinates of the
// splitTet34 sub-prism in element-local space.
func centroidXi34(r *Refiner, tet mesh.Entity, tv []mesh.Entity, places []float64, _ []mesh.Entity) [3]float64 {
	var xi [3]float64
	for i := 0; i < 3; i++ {
		xi = addXi(xi, splitXi(places[i], 3, i))
	}
	xi = addXi(xi, [3]float64{0, 0, 0}) // vertex 0
	xi = addXi(xi, [3]float64{1, 0, 0}) // vertex 1
	xi = addXi(xi, [3]float64{0, 1, 0}) // vertex 2
	xi = [3]float64{xi[0] / 6, xi[1] / 6, xi[2] / 6}
	rotation := topo.FindTetRotation(r.m.Downward(tet, 0), tv)
	if rotation < 0 {
		r.fatal("tuple is not a rotation of %v", tet)
	}
	return topo.UnrotateTetXi(xi, rotation)
}

// splitTet34: three edges meeting at one vertex; a capping tet is
// removed leaving a prism that can hit the worst-case split.
func splitTet34(r *Refiner, tet mesh.Entity, v []mesh.Entity) {
	var sv [3]mesh.Entity
	places := make([]float64, 3)
	for i := 0; i < 3; i++ {
		sv[i], places[i] = r.findPlacedSplitVert(v[3], v[i])
	}
	r.buildSplitElement(tet, topo.Tet, []mesh.Entity{sv[0], sv[1], sv[2], v[3]})
	pv := make([]mesh.Entity, 6)
	for i := 0; i < 3; i++ {
		pv[i] = v[i]
		pv[i+3] = sv[i]
	}
	r.splitTetPrismToTets(tet, v, places, pv, centroidXi34)
}

// splitTet41: four edges split, three on one face; two tets and two
// pyramids.
func splitTet41(r *Refiner, tet mesh.Entity, v []mesh.Entity) {
	var sv [4]mesh.Entity
	sv[0] = r.findSplitVert(v[0], v[1])
	sv[1] = r.findSplitVert(v[1], v[2])
	sv[2] = r.findSplitVert(v[2], v[0])
	sv[3] = r.findSplitVert(v[3], v[2])
	r.buildSplitElement(tet, topo.Tet, []mesh.Entity{sv[0], sv[1], sv[2], sv[3]})
	r.buildSplitElement(tet, topo.Tet, []mesh.Entity{sv[2], sv[1], v[2], sv[3]})
	pyramidToTets(r, tet, []mesh.Entity{v[0], sv[2], sv[3], v[3], sv[0]})
	pyramidToTets(r, tet, []mesh.Entity{v[1], v[3], sv[3], sv[1], sv[0]})
}

// centroidXi42 recovers the element-local centroid of one of the two
// splitTet42 prisms; which prism is identified by its third vertex.
func centroidXi42(r *Refiner, tet mesh.Entity, tv []mesh.Entity, places []float64, pv []mesh.Entity) [3]float64 {
	var xi [3]float64
	// placements must match the lookups in splitTet42
	xi = addXi(xi, splitXi(places[0], 0, 2))
	xi = addXi(xi, splitXi(places[1], 1, 2))
	xi = addXi(xi, splitXi(places[2], 1, 3))
	xi = addXi(xi, splitXi(places[3], 0, 3))
	if pv[2] == tv[2] {
		if pv[5] != tv[3] {
			r.fatal("prism 0 of %v is misassembled", tet)
		}
		xi = addXi(xi, [3]float64{0, 1, 0}) // tet vertex 2
		xi = addXi(xi, [3]float64{0, 0, 1}) // tet vertex 3
	} else {
		if pv[2] != tv[1] || pv[5] != tv[0] {
			r.fatal("prism 1 of %v is misassembled", tet)
		}
		xi = addXi(xi, [3]float64{0, 0, 0}) // tet vertex 0
		xi = addXi(xi, [3]float64{1, 0, 0}) // tet vertex 1
	}
	xi = [3]float64{xi[0] / 6, xi[1] / 6, xi[2] / 6}
	rotation := topo.FindTetRotation(r.m.Downward(tet, 0), tv)
	if rotation < 0 {
		r.fatal("tuple is not a rotation of %v", tet)
	}
	return topo.UnrotateTetXi(xi, rotation)
}

// splitTet42: a belt of four split edges divides the tet into two
// prisms with ambiguity in all faces. The interior quad is undecided;
// a diagonal acceptable to both prisms is preferred, otherwise one
// prism takes the bad case.
func splitTet42(r *Refiner, tet mesh.Entity, v []mesh.Entity) {
	var sv [4]mesh.Entity
	places := make([]float64, 4)
	sv[0], places[0] = r.findPlacedSplitVert(v[0], v[2])
	sv[1], places[1] = r.findPlacedSplitVert(v[1], v[2])
	sv[2], places[2] = r.findPlacedSplitVert(v[1], v[3])
	sv[3], places[3] = r.findPlacedSplitVert(v[0], v[3])
	p0 := []mesh.Entity{sv[0], sv[1], v[2], sv[3], sv[2], v[3]}
	p1 := []mesh.Entity{sv[2], sv[1], v[1], sv[3], sv[0], v[0]}
	ok0 := r.prismDiagonalChoices(p0)
	ok1 := r.prismDiagonalChoices(p1)
	// the edges match from the perspectives of both prisms
	ok := ok0 & ok1
	// if no diagonal suits both, someone takes the bad case
	diag := r.quadToTrisRestricted(tet, sv[:], ok)
	wasOk := r.splitTetPrismToTets(tet, v, places, p0, centroidXi42)
	if wasOk != (ok0&(1<<uint(diag)) != 0) {
		r.fatal("prism 0 of %v disagrees with its diagonal choice", tet)
	}
	wasOk = r.splitTetPrismToTets(tet, v, places, p1, centroidXi42)
	if wasOk != (ok1&(1<<uint(diag)) != 0) {
		r.fatal("prism 1 of %v disagrees with its diagonal choice", tet)
	}
}

// splitTet5: five edges split; two tets, a pyramid and a prism, with
// the undecided quad between them used to dodge the bad prism case.
func splitTet5(r *Refiner, tet mesh.Entity, v []mesh.Entity) {
	py := make([]mesh.Entity, 5)
	py[0] = r.findSplitVert(v[0], v[2])
	py[1] = r.findSplitVert(v[1], v[2])
	py[2] = r.findSplitVert(v[1], v[3])
	py[3] = r.findSplitVert(v[0], v[3])
	py[4] = r.findSplitVert(v[0], v[1])
	q := py[:4]
	pr := make([]mesh.Entity, 6)
	pr[0], pr[1], pr[2] = q[0], q[1], v[2]
	pr[3], pr[4], pr[5] = q[3], q[2], v[3]
	ok := r.prismDiagonalChoices(pr)
	r.quadToTrisRestricted(tet, q, ok)
	pyramidToTets(r, tet, py)
	code := r.prismDiagonalCode(pr)
	if topo.PrismDiagCodeBad(code) {
		r.fatal("prism of %v fell into the bad case", tet)
	}
	r.prismToTetsGoodCase(tet, pr, code)
	r.buildSplitElement(tet, topo.Tet, []mesh.Entity{v[0], py[4], py[0], py[3]})
	r.buildSplitElement(tet, topo.Tet, []mesh.Entity{v[1], py[1], py[4], py[2]})
}

// splitTet6: uniform refinement. The numbering of the dual octahedron
// of a tetrahedron matches the tet edge numbering, so the octahedron
// falls straight out of the edge-vertex table; four corner tets follow
// by rotation.
func splitTet6(r *Refiner, tet mesh.Entity, v []mesh.Entity) {
	var ov [6]mesh.Entity
	for i := 0; i < 6; i++ {
		evi := topo.TetEdgeVerts[i]
		ov[i] = r.findSplitVert(v[evi[0]], v[evi[1]])
	}
	r.octToTetsGeometric(tet, ov[:])
	var v2 [4]mesh.Entity
	for i := 0; i < 4; i++ {
		topo.RotateTet(v, i*3, v2[:])
		if v2[0] != v[i] {
			r.fatal("tet rotation %d does not lead with vertex %d", i*3, i)
		}
		tv := []mesh.Entity{v2[0], mesh.None, mesh.None, mesh.None}
		for j := 1; j < 4; j++ {
			tv[j] = r.findSplitVert(v2[0], v2[j])
		}
		r.buildSplitElement(tet, topo.Tet, tv)
	}
}

// tetTemplates dispatches tet split patterns; index 0 is unused.
var tetTemplates = [12]splitFunc{
	nil,
	splitTet1,
	splitTet21,
	splitTet22,
	splitTet31,
	splitTet32,
	splitTet33,
	splitTet34,
	splitTet41,
	splitTet42,
	splitTet5,
	splitTet6,
}
