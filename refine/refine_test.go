package refine_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/unstruct/meshadapt/mesh"
	"github.com/unstruct/meshadapt/model"
	"github.com/unstruct/meshadapt/refine"
	"github.com/unstruct/meshadapt/topo"
)

// newTetMesh builds the reference tet (0,0,0),(1,0,0),(0,1,0),(0,0,1).
func newTetMesh(t require.TestingT) (*mesh.Mesh, mesh.Entity, []mesh.Entity) {
	m := mesh.New(3)
	region := model.Ref{D: 3, I: 0}
	points := []mesh.Vector{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	verts := make([]mesh.Entity, 4)
	for i, p := range points {
		verts[i] = m.CreateVertex(region, p, [2]float64{})
	}
	tet, err := m.BuildOrFind(topo.Tet, region, verts, nil)
	require.NoError(t, err)
	return m, tet, verts
}

// edgeBetween returns the mesh edge spanning two vertices.
func edgeBetween(t require.TestingT, m *mesh.Mesh, a, b mesh.Entity) mesh.Entity {
	e := m.FindUpward(topo.Edge, []mesh.Entity{a, b})
	require.NotEqual(t, mesh.None, e)
	return e
}

// totalVolume sums signed measures over all regions.
func totalVolume(m *mesh.Mesh) float64 {
	sum := 0.0
	it := m.Begin(3)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		sum += m.Measure(e)
	}
	return sum
}

// RefineSuite exercises the tet templates end to end.
type RefineSuite struct {
	suite.Suite
}

// TestSingleEdgeSplit is the single-edge scenario: one tet, edge (0,1)
// split at 0.5, yielding two tets and a vertex at (0.5,0,0).
func (s *RefineSuite) TestSingleEdgeSplit() {
	m, _, verts := newTetMesh(s.T())
	r := refine.New(m)
	s.Require().NoError(r.Mark(edgeBetween(s.T(), m, verts[0], verts[1]), 0.5))
	res, err := r.Run(nil)
	s.Require().NoError(err)

	s.Equal(1, res.SplitEdges)
	s.Equal(1, res.NewVertices)
	s.Equal(2, m.CountKind(topo.Tet))
	s.Require().Len(r.NewVertices(), 1)
	sv := r.NewVertices()[0]
	s.Equal(mesh.Vector{0.5, 0, 0}, m.Point(sv))
	s.InDelta(1.0/6, totalVolume(m), 1e-12)
	s.Require().NoError(m.Verify())
}

// TestUniformRefinement is the uniform scenario: all six edges split at
// 0.5 produce 4 corner tets and 4 octahedral tets of volume 1/48 each.
func (s *RefineSuite) TestUniformRefinement() {
	m, _, _ := newTetMesh(s.T())
	r := refine.New(m)
	for _, e := range m.Entities(1) {
		s.Require().NoError(r.Mark(e, 0.5))
	}
	res, err := r.Run(nil)
	s.Require().NoError(err)

	s.Equal(6, res.SplitEdges)
	s.Equal(8, m.CountKind(topo.Tet))
	it := m.Begin(3)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		s.InDelta(1.0/48, m.Measure(e), 1e-12, "tet %v", e)
	}
	s.InDelta(1.0/6, totalVolume(m), 1e-12)
	// identical surface triangulation: 4 faces in 4 tris each
	s.Equal(16, m.CountKind(topo.Triangle)-countInteriorTris(m))
	s.Require().NoError(m.Verify())
}

// countInteriorTris counts triangles bounded by two regions.
func countInteriorTris(m *mesh.Mesh) int {
	n := 0
	it := m.Begin(2)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		if len(m.Upward(e)) == 2 {
			n++
		}
	}
	return n
}

// TestAllTetPatterns runs every nonzero tet split code on a fresh
// reference tet and checks volume conservation, positivity and the
// database invariants.
func (s *RefineSuite) TestAllTetPatterns() {
	for code := 1; code < 64; code++ {
		m, _, verts := newTetMesh(s.T())
		r := refine.New(m)
		for i := 0; i < 6; i++ {
			if code&(1<<i) == 0 {
				continue
			}
			ev := topo.TetEdgeVerts[i]
			s.Require().NoError(r.Mark(edgeBetween(s.T(), m, verts[ev[0]], verts[ev[1]]), 0.5))
		}
		_, err := r.Run(nil)
		s.Require().NoError(err, "code %#b", code)
		s.InDelta(1.0/6, totalVolume(m), 1e-9, "code %#b", code)
		it := m.Begin(3)
		for e, ok := it.Next(); ok; e, ok = it.Next() {
			s.Greater(m.Measure(e), 0.0, "code %#b produced inverted %v", code, e)
		}
		s.Require().NoError(m.Verify(), "code %#b", code)
	}
}

// TestUnevenPlacement splits one edge off-centre and checks the vertex
// position and child volumes.
func (s *RefineSuite) TestUnevenPlacement() {
	m, _, verts := newTetMesh(s.T())
	r := refine.New(m)
	s.Require().NoError(r.Mark(edgeBetween(s.T(), m, verts[0], verts[1]), 0.25))
	_, err := r.Run(nil)
	s.Require().NoError(err)
	sv := r.NewVertices()[0]
	s.Equal(mesh.Vector{0.25, 0, 0}, m.Point(sv))
	s.InDelta(1.0/6, totalVolume(m), 1e-12)
}

// TestSharedFaceConsistency refines two tets sharing a face and checks
// both sides agree on the face decomposition.
func (s *RefineSuite) TestSharedFaceConsistency() {
	m := mesh.New(3)
	region := model.Ref{D: 3, I: 0}
	pts := []mesh.Vector{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0.4, 0.4, -1},
	}
	verts := make([]mesh.Entity, 5)
	for i, p := range pts {
		verts[i] = m.CreateVertex(region, p, [2]float64{})
	}
	upper, err := m.BuildOrFind(topo.Tet, region, []mesh.Entity{verts[0], verts[1], verts[2], verts[3]}, nil)
	s.Require().NoError(err)
	lower, err := m.BuildOrFind(topo.Tet, region, []mesh.Entity{verts[0], verts[2], verts[1], verts[4]}, nil)
	s.Require().NoError(err)
	wantVolume := m.Measure(upper) + m.Measure(lower)

	r := refine.New(m)
	// split all three edges of the shared face
	for _, pair := range [][2]int{{0, 1}, {1, 2}, {2, 0}} {
		s.Require().NoError(r.Mark(edgeBetween(s.T(), m, verts[pair[0]], verts[pair[1]]), 0.5))
	}
	_, err = r.Run(nil)
	s.Require().NoError(err)

	s.InDelta(wantVolume, totalVolume(m), 1e-12)
	// the shared face (the z=0 plane) split into 4 tris, each bounded
	// by one child of each parent
	shared := 0
	it := m.Begin(2)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		onPlane := true
		for _, v := range m.Downward(e, 0) {
			if m.Point(v)[2] != 0 {
				onPlane = false
				break
			}
		}
		if !onPlane {
			continue
		}
		shared++
		s.Len(m.Upward(e), 2, "plane tri %v must bound both sides", e)
	}
	s.Equal(4, shared)
	s.Require().NoError(m.Verify())
}

// TestIdempotence checks that running with no split requests is a
// no-op.
func (s *RefineSuite) TestIdempotence() {
	m, tet, _ := newTetMesh(s.T())
	r := refine.New(m)
	res, err := r.Run(nil)
	s.Require().NoError(err)
	s.Zero(res.SplitEdges)
	s.Zero(res.NewVertices)
	s.Equal(1, m.CountKind(topo.Tet))
	s.True(m.Lives(tet))
}

// TestMarkValidation covers the marking contract.
func (s *RefineSuite) TestMarkValidation() {
	m, tet, verts := newTetMesh(s.T())
	r := refine.New(m)
	s.ErrorIs(r.Mark(tet, 0.5), refine.ErrNotAnEdge)
	e := edgeBetween(s.T(), m, verts[0], verts[1])
	s.ErrorIs(r.Mark(e, 0), refine.ErrBadPlacement)
	s.ErrorIs(r.Mark(e, 1), refine.ErrBadPlacement)
	s.Require().NoError(r.Mark(e, 0.5))
	s.ErrorIs(r.Mark(e, 0.5), refine.ErrAlreadyMarked)
}

// TestChildParentTag verifies the child-to-parent relation used by
// solution transfer.
func (s *RefineSuite) TestChildParentTag() {
	m, tet, verts := newTetMesh(s.T())
	var refinedParents []mesh.Entity
	var refinedChildren [][]mesh.Entity
	rec := recorder{onRefine: func(parent mesh.Entity, children []mesh.Entity) {
		refinedParents = append(refinedParents, parent)
		refinedChildren = append(refinedChildren, children)
	}}
	r := refine.New(m, refine.WithTransfer(&rec))
	s.Require().NoError(r.Mark(edgeBetween(s.T(), m, verts[0], verts[1]), 0.5))
	_, err := r.Run(nil)
	s.Require().NoError(err)

	found := false
	for i, parent := range refinedParents {
		if parent == tet {
			found = true
			s.Len(refinedChildren[i], 2)
		}
	}
	s.True(found, "no OnRefine for the split tet")
}

// recorder is a SolutionTransfer capturing callbacks.
type recorder struct {
	onVertex func(parent mesh.Entity, xi [3]float64, v mesh.Entity)
	onRefine func(parent mesh.Entity, children []mesh.Entity)
}

func (r *recorder) OnVertex(parent mesh.Entity, xi [3]float64, v mesh.Entity) {
	if r.onVertex != nil {
		r.onVertex(parent, xi, v)
	}
}

func (r *recorder) OnRefine(parent mesh.Entity, children []mesh.Entity) {
	if r.onRefine != nil {
		r.onRefine(parent, children)
	}
}

func TestRefineSuite(t *testing.T) {
	suite.Run(t, new(RefineSuite))
}

// TestBuildCallbackSeesEverything counts creations against the final
// entity census for a uniform split.
func TestBuildCallbackSeesEverything(t *testing.T) {
	m, _, _ := newTetMesh(t)
	created := map[mesh.Entity]bool{}
	r := refine.New(m, refine.WithBuildCallback(func(e mesh.Entity) {
		created[e] = true
	}))
	for _, e := range m.Entities(1) {
		require.NoError(t, r.Mark(e, 0.5))
	}
	_, err := r.Run(nil)
	require.NoError(t, err)
	// every current tet was created during refinement
	it := m.Begin(3)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		require.True(t, created[e], "tet %v not observed", e)
	}
}

// TestOnVertexPlacements checks the xi reported for edge splits.
func TestOnVertexPlacements(t *testing.T) {
	m, _, verts := newTetMesh(t)
	var got [][3]float64
	rec := recorder{onVertex: func(_ mesh.Entity, xi [3]float64, _ mesh.Entity) {
		got = append(got, xi)
	}}
	r := refine.New(m, refine.WithTransfer(&rec))
	require.NoError(t, r.Mark(edgeBetween(t, m, verts[0], verts[1]), 0.25))
	_, err := r.Run(nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.InDelta(t, -0.5, got[0][0], 1e-12) // 2t-1 at t=0.25
}

// TestVolumeConservationRandomPlacements splits all edges at varied
// placements and checks conservation.
func TestVolumeConservationRandomPlacements(t *testing.T) {
	m, _, _ := newTetMesh(t)
	r := refine.New(m)
	places := []float64{0.3, 0.5, 0.7, 0.45, 0.55, 0.62}
	for i, e := range m.Entities(1) {
		require.NoError(t, r.Mark(e, places[i%len(places)]))
	}
	_, err := r.Run(nil)
	require.NoError(t, err)
	require.InDelta(t, 1.0/6, totalVolume(m), 1e-9)
	require.NoError(t, m.Verify())
	it := m.Begin(3)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		require.Greater(t, m.Measure(e), 0.0)
	}
}

// TestDegenerateOctTieBreak checks the deterministic shortest-diagonal
// tie-break: the reference tet's octahedron has three equal diagonals,
// so the 0-5 pair must win.
func TestDegenerateOctTieBreak(t *testing.T) {
	m, _, verts := newTetMesh(t)
	r := refine.New(m)
	for _, e := range m.Entities(1) {
		require.NoError(t, r.Mark(e, 0.5))
	}
	_, err := r.Run(nil)
	require.NoError(t, err)
	// diagonal 0-5 connects mid(0,1) and mid(2,3)
	mid01 := findVertexAt(t, m, mesh.Vector{0.5, 0, 0})
	mid23 := findVertexAt(t, m, mesh.Vector{0, 0.5, 0.5})
	diag := m.FindUpward(topo.Edge, []mesh.Entity{mid01, mid23})
	require.NotEqual(t, mesh.None, diag, "tie-break did not pick the 0-5 diagonal")
}

func findVertexAt(t *testing.T, m *mesh.Mesh, p mesh.Vector) mesh.Entity {
	it := m.Begin(0)
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		if m.Point(v).Sub(p).Norm() < 1e-12 {
			return v
		}
	}
	t.Fatalf("no vertex at %v", p)
	return mesh.None
}

// TestParamTransferOnBoundarySplit checks parametric interpolation for
// a split vertex classified on a model face.
func TestParamTransferOnBoundarySplit(t *testing.T) {
	face := model.Ref{D: 2, I: 0}
	region := model.Ref{D: 3, I: 0}
	geom := model.NewAnalytic().Add(face, func(p [2]float64) [3]float64 {
		return [3]float64{p[0], p[1], 0}
	})
	m := mesh.New(3, mesh.WithGeometry(geom))
	pts := []mesh.Vector{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	params := [][2]float64{{0, 0}, {1, 0}, {0, 1}, {0, 0}}
	classify := []model.Entity{face, face, face, region}
	verts := make([]mesh.Entity, 4)
	for i := range pts {
		verts[i] = m.CreateVertex(classify[i], pts[i], params[i])
	}
	tet, err := m.BuildOrFind(topo.Tet, region, verts, nil)
	require.NoError(t, err)
	// classify the bottom face closure onto the model face
	bottom := m.FindElement(topo.Triangle, []mesh.Entity{verts[0], verts[1], verts[2]})
	m.SetModel(bottom, face)
	for _, e := range m.Downward(bottom, 1) {
		m.SetModel(e, face)
	}
	_ = tet

	r := refine.New(m)
	require.NoError(t, r.Mark(edgeBetween(t, m, verts[0], verts[1]), 0.25))
	_, err = r.Run(nil)
	require.NoError(t, err)
	sv := r.NewVertices()[0]
	require.Equal(t, face, m.Model(sv))
	p := m.Param(sv)
	require.InDelta(t, 0.25, p[0], 1e-12)
	require.InDelta(t, 0.0, p[1], 1e-12)
}
