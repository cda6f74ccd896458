package mesh

import (
	"fmt"
	"math"

	"github.com/unstruct/meshadapt/pcu"
	"github.com/unstruct/meshadapt/topo"
)

// Positions returns the coordinates of e's vertex closure in canonical
// order.
func (m *Mesh) Positions(e Entity) []Vector {
	verts := m.vertexClosure(e)
	out := make([]Vector, len(verts))
	for i, v := range verts {
		out[i] = m.Point(v)
	}
	return out
}

// AveragePositions returns the arithmetic mean of the vertex
// coordinates.
func (m *Mesh) AveragePositions(verts []Entity) Vector {
	var sum Vector
	for _, v := range verts {
		sum = sum.Add(m.Point(v))
	}
	return sum.Scale(1 / float64(len(verts)))
}

// tetVolume returns the signed volume of the tet spanned by p.
func tetVolume(p [4]Vector) float64 {
	return p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Dot(p[3].Sub(p[0])) / 6
}

func absTet(p []Vector, a, b, c, d int) float64 {
	return math.Abs(tetVolume([4]Vector{p[a], p[b], p[c], p[d]}))
}

// Measure returns the size of e: length for edges, area for faces,
// volume for regions. Non-simplex regions are measured through fixed
// tet decompositions; tet volume is signed so inverted tets measure
// negative.
func (m *Mesh) Measure(e Entity) float64 {
	p := m.Positions(e)
	switch e.Kind() {
	case topo.Vertex:
		return 0
	case topo.Edge:
		return p[1].Sub(p[0]).Norm()
	case topo.Triangle:
		return p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Norm() / 2
	case topo.Quad:
		a := p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Norm()
		b := p[2].Sub(p[0]).Cross(p[3].Sub(p[0])).Norm()
		return (a + b) / 2
	case topo.Tet:
		return tetVolume([4]Vector{p[0], p[1], p[2], p[3]})
	case topo.Prism:
		return absTet(p, 3, 5, 4, 0) + absTet(p, 1, 4, 5, 0) + absTet(p, 1, 5, 2, 0)
	case topo.Pyramid:
		return absTet(p, 0, 1, 2, 4) + absTet(p, 0, 2, 3, 4)
	case topo.Hex:
		return absTet(p, 0, 1, 3, 4) + absTet(p, 1, 2, 3, 6) +
			absTet(p, 1, 4, 5, 6) + absTet(p, 3, 4, 6, 7) + absTet(p, 1, 3, 4, 6)
	}
	return 0
}

// MapLocalToGlobal evaluates e's element map at local coordinate xi.
// Simplices use barycentric coordinates with vertex 0 carrying the
// deficit; edges and quads use [-1,1] reference coordinates.
func (m *Mesh) MapLocalToGlobal(e Entity, xi [3]float64) Vector {
	p := m.Positions(e)
	switch e.Kind() {
	case topo.Edge:
		t := (xi[0] + 1) / 2
		return p[0].Scale(1 - t).Add(p[1].Scale(t))
	case topo.Triangle:
		return p[0].Scale(1 - xi[0] - xi[1]).
			Add(p[1].Scale(xi[0])).
			Add(p[2].Scale(xi[1]))
	case topo.Quad:
		u, v := xi[0], xi[1]
		return p[0].Scale((1 - u) * (1 - v) / 4).
			Add(p[1].Scale((1 + u) * (1 - v) / 4)).
			Add(p[2].Scale((1 + u) * (1 + v) / 4)).
			Add(p[3].Scale((1 - u) * (1 + v) / 4))
	case topo.Tet:
		return p[0].Scale(1 - xi[0] - xi[1] - xi[2]).
			Add(p[1].Scale(xi[0])).
			Add(p[2].Scale(xi[1])).
			Add(p[3].Scale(xi[2]))
	}
	panic(fmt.Errorf("%w: element map for %v", ErrUnsupportedKind, e.Kind()))
}

// OnModelEdge reports whether e is classified on a model edge.
func (m *Mesh) OnModelEdge(e Entity) bool { return m.ModelDim(e) == 1 }

// OnModelFace reports whether e is classified on a model face.
func (m *Mesh) OnModelFace(e Entity) bool { return m.ModelDim(e) == 2 }

// TriNormal returns the unnormalised normal of the triangle spanned by
// the vertex coordinates.
func (m *Mesh) TriNormal(verts []Entity) Vector {
	a := m.Point(verts[0])
	b := m.Point(verts[1])
	c := m.Point(verts[2])
	return b.Sub(a).Cross(c.Sub(a))
}

// BoundingBox returns the global coordinate bounds across all parts.
// Collective.
func (m *Mesh) BoundingBox(c pcu.Comm) (lower, upper Vector) {
	first := true
	it := m.Begin(0)
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		p := m.Point(v)
		if first {
			lower, upper = p, p
			first = false
			continue
		}
		for i := 0; i < 3; i++ {
			lower[i] = math.Min(lower[i], p[i])
			upper[i] = math.Max(upper[i], p[i])
		}
	}
	if first {
		for i := 0; i < 3; i++ {
			lower[i] = math.Inf(1)
			upper[i] = math.Inf(-1)
		}
	}
	c.MinDoubles(lower[:])
	c.MaxDoubles(upper[:])
	return lower, upper
}

// Centroid returns the average of owned vertex positions across all
// parts. Collective.
func (m *Mesh) Centroid(c pcu.Comm) Vector {
	var values [4]float64
	it := m.Begin(0)
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		if !m.Owned(v) {
			continue
		}
		p := m.Point(v)
		for i := 0; i < 3; i++ {
			values[i] += p[i]
		}
		values[3]++
	}
	c.AddDoubles(values[:])
	return Vector{values[0], values[1], values[2]}.Scale(1 / values[3])
}

// AverageElementSize returns the mean top-dimension element measure
// across all parts. Collective.
func (m *Mesh) AverageElementSize(c pcu.Comm) float64 {
	var sums [2]float64
	it := m.Begin(m.dim)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		sums[0] += m.Measure(e)
	}
	sums[1] = float64(m.Count(m.dim))
	c.AddDoubles(sums[:])
	return sums[0] / sums[1]
}

// MinimumElementSize returns the smallest top-dimension element measure
// across all parts. Collective.
func (m *Mesh) MinimumElementSize(c pcu.Comm) float64 {
	minimum := math.MaxFloat64
	it := m.Begin(m.dim)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		if s := m.Measure(e); s < minimum {
			minimum = s
		}
	}
	buf := []float64{minimum}
	c.MinDoubles(buf)
	return buf[0]
}
