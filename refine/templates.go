package refine

import (
	"github.com/unstruct/meshadapt/mesh"
	"github.com/unstruct/meshadapt/topo"
)

// Triangle, quad, prism and pyramid templates.

// splitTri1: one edge split, two triangles.
func splitTri1(r *Refiner, parent mesh.Entity, v []mesh.Entity) {
	sv := r.findSplitVert(v[0], v[1])
	r.buildSplitElement(parent, topo.Triangle, []mesh.Entity{v[0], sv, v[2]})
	r.buildSplitElement(parent, topo.Triangle, []mesh.Entity{sv, v[1], v[2]})
}

// splitTri2: two edges split; a corner triangle splits off leaving a
// quad-shaped area cut across its shorter diagonal.
func splitTri2(r *Refiner, parent mesh.Entity, v []mesh.Entity) {
	sv0 := r.findSplitVert(v[0], v[1])
	sv1 := r.findSplitVert(v[1], v[2])
	r.buildSplitElement(parent, topo.Triangle, []mesh.Entity{sv0, v[1], sv1})
	r.quadToTrisGeometric(parent, []mesh.Entity{v[0], sv0, sv1, v[2]})
}

// splitTri3: uniform refinement, a centre triangle plus three corners
// by rotation.
func splitTri3(r *Refiner, parent mesh.Entity, v []mesh.Entity) {
	sv := []mesh.Entity{
		r.findSplitVert(v[0], v[1]),
		r.findSplitVert(v[1], v[2]),
		r.findSplitVert(v[2], v[0]),
	}
	r.buildSplitElement(parent, topo.Triangle, sv)
	var v2, sv2 [3]mesh.Entity
	for i := 0; i < 3; i++ {
		topo.RotateTri(v, i, v2[:])
		topo.RotateTri(sv, i, sv2[:])
		r.buildSplitElement(parent, topo.Triangle, []mesh.Entity{v2[0], sv2[0], sv2[2]})
	}
}

var triTemplates = [4]splitFunc{nil, splitTri1, splitTri2, splitTri3}

// splitQuad0 is the template used on quads during tetrahedronization:
// the diagonal has been chosen up front, the quad just splits along it.
func splitQuad0(r *Refiner, q mesh.Entity, v []mesh.Entity) {
	rotation := r.diagonalFromFlag(q)
	if rotation == -1 {
		r.fatal("quad %v on model dim %d has no diagonal flag", q, r.m.ModelDim(q))
	}
	var v2 [4]mesh.Entity
	topo.RotateQuad(v, rotation, v2[:])
	r.quadToTris(q, v2[:])
}

// splitQuad2: two parallel edges split, the quad halves along them.
func splitQuad2(r *Refiner, q mesh.Entity, v []mesh.Entity) {
	sv0 := r.findSplitVert(v[0], v[1])
	sv1 := r.findSplitVert(v[2], v[3])
	r.buildSplitElement(q, topo.Quad, []mesh.Entity{v[0], sv0, sv1, v[3]})
	r.buildSplitElement(q, topo.Quad, []mesh.Entity{sv0, v[1], v[2], sv1})
}

// splitQuad4: uniform refinement into four quads around a centroid
// vertex. The centroid's parametric coordinate is left at the zero
// placeholder; snapping ignores mid-quad vertices.
func splitQuad4(r *Refiner, q mesh.Entity, v []mesh.Entity) {
	var sv [4]mesh.Entity
	places := make([]float64, 4)
	sv[0], places[0] = r.findPlacedSplitVert(v[0], v[1])
	sv[1], places[1] = r.findPlacedSplitVert(v[1], v[2])
	sv[2], places[2] = r.findPlacedSplitVert(v[3], v[2])
	sv[3], places[3] = r.findPlacedSplitVert(v[0], v[3])
	x := (places[0] + places[2]) / 2
	y := (places[1] + places[3]) / 2
	// no rotation was applied to uniform quads, so xi needs no unrotation
	xi := [3]float64{x*2 - 1, y*2 - 1, 0}
	point := r.m.MapLocalToGlobal(q, xi)
	cv := r.buildVertex(q, point)
	r.m.SetIntTag(q, r.splitVert, []int64{int64(cv)})
	r.transfer.OnVertex(q, xi, cv)
	var v2, sv2 [4]mesh.Entity
	for i := 0; i < 4; i++ {
		topo.RotateQuad(v, i, v2[:])
		topo.RotateQuad(sv[:], i, sv2[:])
		r.buildSplitElement(q, topo.Quad, []mesh.Entity{v2[0], sv2[0], cv, sv2[3]})
	}
}

var quadTemplates = [3]splitFunc{splitQuad0, splitQuad2, splitQuad4}

// splitPrism0 is the template used on prisms during tetrahedronization;
// upstream layer logic must have kept the diagonal code good.
func splitPrism0(r *Refiner, p mesh.Entity, v []mesh.Entity) {
	code := r.prismDiagonalCode(v)
	if topo.PrismDiagCodeBad(code) {
		r.fatal("prism %v has diagonal code %d with no good vertex", p, code)
	}
	r.prismToTetsGoodCase(p, v, code)
}

// splitPrism2: two aligned triangle-face edges split; two prisms
// separated by a quad.
func splitPrism2(r *Refiner, p mesh.Entity, v []mesh.Entity) {
	sv0 := r.findSplitVert(v[0], v[1])
	sv1 := r.findSplitVert(v[3], v[4])
	r.buildSplitElement(p, topo.Prism, []mesh.Entity{v[0], sv0, v[2], v[3], sv1, v[5]})
	r.buildSplitElement(p, topo.Prism, []mesh.Entity{sv0, v[1], v[2], sv1, v[4], v[5]})
}

// splitPrism6 splits a prism with all six triangle-face edges split
// into four prisms. The split vertices are passed in because splitPrism9
// feeds it quad-associated vertices.
func splitPrism6(r *Refiner, p mesh.Entity, v, sv []mesh.Entity) {
	r.buildSplitElement(p, topo.Prism, sv)
	var v2, sv2 [6]mesh.Entity
	for i := 0; i < 3; i++ {
		topo.RotatePrism(v, i, v2[:])
		topo.RotatePrism(sv, i, sv2[:])
		r.buildSplitElement(p, topo.Prism, []mesh.Entity{
			sv2[0], v2[1], sv2[1],
			sv2[3], v2[4], sv2[4],
		})
	}
}

// splitPrism9: uniform refinement; the prism divides across the middle
// at the vertical edge splits and each half goes to splitPrism6.
func splitPrism9(r *Refiner, p mesh.Entity, v []mesh.Entity) {
	botv := []mesh.Entity{
		r.findSplitVert(v[0], v[1]),
		r.findSplitVert(v[1], v[2]),
		r.findSplitVert(v[2], v[0]),
	}
	midv := []mesh.Entity{
		r.findSplitVert(v[0], v[3]),
		r.findSplitVert(v[1], v[4]),
		r.findSplitVert(v[2], v[5]),
	}
	topv := []mesh.Entity{
		r.findSplitVert(v[3], v[4]),
		r.findSplitVert(v[4], v[5]),
		r.findSplitVert(v[5], v[3]),
	}
	var quads [3]mesh.Entity
	quads[0] = r.m.FindElement(topo.Quad, []mesh.Entity{v[0], v[1], v[4], v[3]})
	quads[1] = r.m.FindElement(topo.Quad, []mesh.Entity{v[1], v[2], v[5], v[4]})
	quads[2] = r.m.FindElement(topo.Quad, []mesh.Entity{v[2], v[0], v[3], v[5]})
	cenv := make([]mesh.Entity, 3)
	for i, q := range quads {
		if q == mesh.None {
			r.fatal("prism %v is missing quad face %d", p, i)
		}
		cenv[i] = r.findQuadSplitVert(q)
	}
	pv := make([]mesh.Entity, 6)
	sv := make([]mesh.Entity, 6)
	copy(pv[:3], midv)
	copy(pv[3:], v[3:])
	copy(sv[:3], cenv)
	copy(sv[3:], topv)
	splitPrism6(r, p, pv, sv)
	copy(pv[:3], v[:3])
	copy(pv[3:], midv)
	copy(sv[:3], botv)
	copy(sv[3:], cenv)
	splitPrism6(r, p, pv, sv)
}

var prismTemplates = [3]splitFunc{splitPrism0, splitPrism2, splitPrism9}

// splitPyramidDiag is the template used on pyramids during
// tetrahedronization: split across whichever quad diagonal exists.
func splitPyramidDiag(r *Refiner, p mesh.Entity, v []mesh.Entity) {
	pyramidToTets(r, p, v)
}

// splitPyramid2: two parallel base edges split; two pyramids.
func splitPyramid2(r *Refiner, p mesh.Entity, v []mesh.Entity) {
	sv0 := r.findSplitVert(v[0], v[1])
	sv1 := r.findSplitVert(v[2], v[3])
	r.buildSplitElement(p, topo.Pyramid, []mesh.Entity{v[0], sv0, sv1, v[3], v[4]})
	r.buildSplitElement(p, topo.Pyramid, []mesh.Entity{sv0, v[1], v[2], sv1, v[4]})
}

// splitPyramid4: uniform refinement; four pyramids and four tets by
// rotation, plus a central octahedron across its best diagonal.
func splitPyramid4(r *Refiner, p mesh.Entity, v []mesh.Entity) {
	botv := []mesh.Entity{
		r.findSplitVert(v[0], v[1]),
		r.findSplitVert(v[1], v[2]),
		r.findSplitVert(v[2], v[3]),
		r.findSplitVert(v[3], v[0]),
	}
	midv := []mesh.Entity{
		r.findSplitVert(v[0], v[4]),
		r.findSplitVert(v[1], v[4]),
		r.findSplitVert(v[2], v[4]),
		r.findSplitVert(v[3], v[4]),
	}
	// the first four entries of v also specify the bottom quad
	quad := r.m.FindElement(topo.Quad, v[:4])
	if quad == mesh.None {
		r.fatal("pyramid %v is missing its base quad", p)
	}
	cv := r.findQuadSplitVert(quad)
	var midv2, botv2, v2 [4]mesh.Entity
	for i := 0; i < 4; i++ {
		topo.RotateQuad(midv, i, midv2[:])
		topo.RotateQuad(botv, i, botv2[:])
		topo.RotateQuad(v[:4], i, v2[:])
		r.buildSplitElement(p, topo.Pyramid, []mesh.Entity{
			botv2[0], v2[1], botv2[1], cv, midv2[1],
		})
		r.buildSplitElement(p, topo.Tet, []mesh.Entity{
			midv2[0], midv2[1], botv2[0], cv,
		})
	}
	// tetrahedronize the central octahedron across its best diagonal
	octv := []mesh.Entity{cv, midv[0], midv[1], midv[2], midv[3], v[4]}
	r.octToTetsGeometric(p, octv)
}

var pyramidTemplates = [3]splitFunc{splitPyramidDiag, splitPyramid2, splitPyramid4}
