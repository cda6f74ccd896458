package mesh

import (
	"github.com/unstruct/meshadapt/model"
	"github.com/unstruct/meshadapt/topo"
)

// Parametric interpolation along mesh edges classified on the model
// boundary. When a model dimension is periodic and the endpoint
// parameters differ by more than half the period, the edge crosses the
// parametric seam and interpolation lifts one endpoint by a period
// before wrapping the result back into range.

// interpolateParametricCoordinate interpolates between parametric
// values a and b at fraction t, honouring a periodic range.
func interpolateParametricCoordinate(t, a, b float64, rng [2]float64, periodic bool) float64 {
	if !periodic {
		return (1-t)*a + t*b
	}
	if rng[0] > rng[1] {
		rng[0], rng[1] = rng[1], rng[0]
	}
	if a > b {
		a, b = b, a
		t = 1 - t
	}
	period := rng[1] - rng[0]
	span := b - a
	if span < period/2 {
		return (1-t)*a + t*b
	}
	a += period
	result := (1-t)*a + t*b
	if result > rng[1] {
		result -= period
	}
	if result <= rng[0] || result >= rng[1] {
		panic("mesh: periodic parametric interpolation left the range")
	}
	return result
}

// interpolateParametricCoordinates interpolates the parametric tuple on
// model entity g between a and b at fraction t.
func (m *Mesh) interpolateParametricCoordinates(g model.Entity, t float64, a, b [2]float64) [2]float64 {
	var p [2]float64
	dim := g.Dim()
	for d := 0; d < dim && d < 2; d++ {
		rng, periodic := m.geom.PeriodicRange(g, d)
		p[d] = interpolateParametricCoordinate(t, a[d], b[d], rng, periodic)
	}
	return p
}

// EdgeSplitParam returns the parametric coordinate of a vertex placed
// at fraction t along edge e. Interior edges and meshes without
// geometry yield zeros.
func (m *Mesh) EdgeSplitParam(e Entity, t float64) [2]float64 {
	var p [2]float64
	g := m.Model(e)
	if g == nil || m.geom == nil || g.Dim() == m.dim {
		return p
	}
	ev := m.Downward(e, 0)
	a := m.Param(ev[0])
	b := m.Param(ev[1])
	return m.interpolateParametricCoordinates(g, t, a, b)
}

// EdgeSplitPoint returns the spatial coordinate of a vertex placed at
// fraction t along edge e, from the linear edge map.
func (m *Mesh) EdgeSplitPoint(e Entity, t float64) Vector {
	if e.Kind() != topo.Edge {
		panic(ErrUnsupportedKind)
	}
	return m.MapLocalToGlobal(e, [3]float64{2*t - 1, 0, 0})
}
