package mesh_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unstruct/meshadapt/mesh"
	"github.com/unstruct/meshadapt/model"
	"github.com/unstruct/meshadapt/topo"
)

// buildTet constructs the unit reference tet and returns the mesh, the
// element, and its vertices.
func buildTet(t *testing.T) (*mesh.Mesh, mesh.Entity, []mesh.Entity) {
	t.Helper()
	m := mesh.New(3)
	points := []mesh.Vector{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	}
	region := model.Ref{D: 3, I: 0}
	verts := make([]mesh.Entity, 4)
	for i, p := range points {
		verts[i] = m.CreateVertex(region, p, [2]float64{})
	}
	tet, err := m.BuildOrFind(topo.Tet, region, verts, nil)
	require.NoError(t, err)
	return m, tet, verts
}

// TestBuildTetClosure verifies entity counts and the database
// invariants after building one tet bottom-up.
func TestBuildTetClosure(t *testing.T) {
	m, tet, verts := buildTet(t)
	require.Equal(t, 4, m.Count(0))
	require.Equal(t, 6, m.Count(1))
	require.Equal(t, 4, m.Count(2))
	require.Equal(t, 1, m.Count(3))
	require.NoError(t, m.Verify())

	require.Equal(t, verts, m.Downward(tet, 0))
	require.Len(t, m.Downward(tet, 2), 4)
	edges := m.Downward(tet, 1)
	require.Len(t, edges, 6)
	for i, e := range edges {
		ev := topo.TetEdgeVerts[i]
		got := m.Downward(e, 0)
		require.ElementsMatch(t, []mesh.Entity{verts[ev[0]], verts[ev[1]]}, got, "edge %d", i)
	}
}

// TestBuildOrFindReuses checks that a second build over the same
// vertices returns the same entity and creates nothing.
func TestBuildOrFindReuses(t *testing.T) {
	m, tet, verts := buildTet(t)
	created := 0
	again, err := m.BuildOrFind(topo.Tet, m.Model(tet), verts, func(mesh.Entity) { created++ })
	require.NoError(t, err)
	require.Equal(t, tet, again)
	require.Zero(t, created)
}

// TestFindElement exercises bottom-up lookup for every kind present.
func TestFindElement(t *testing.T) {
	m, tet, verts := buildTet(t)
	require.Equal(t, tet, m.FindElement(topo.Tet, verts))
	// rotated tuples still resolve (order-independent closure)
	rotated := []mesh.Entity{verts[1], verts[2], verts[0], verts[3]}
	require.Equal(t, tet, m.FindElement(topo.Tet, rotated))
	// a face
	face := m.FindElement(topo.Triangle, []mesh.Entity{verts[0], verts[1], verts[2]})
	require.NotEqual(t, mesh.None, face)
	// an edge
	edge := m.FindUpward(topo.Edge, []mesh.Entity{verts[0], verts[1]})
	require.NotEqual(t, mesh.None, edge)
	// absent element
	v4 := m.CreateVertex(model.Ref{D: 3, I: 0}, mesh.Vector{2, 2, 2}, [2]float64{})
	require.Equal(t, mesh.None,
		m.FindElement(topo.Tet, []mesh.Entity{verts[0], verts[1], verts[2], v4}))
}

// TestAdjacent walks upward from a vertex to the elements around it.
func TestAdjacent(t *testing.T) {
	m, tet, verts := buildTet(t)
	require.Equal(t, []mesh.Entity{tet}, m.Adjacent(verts[0], 3))
	require.Len(t, m.Adjacent(verts[0], 1), 3)
	require.Len(t, m.Adjacent(verts[0], 2), 3)
}

// TestDestroyRules checks upward-reference protection and tag
// stripping on destruction.
func TestDestroyRules(t *testing.T) {
	m, tet, verts := buildTet(t)
	err := m.DestroyEntity(verts[0])
	require.ErrorIs(t, err, mesh.ErrUpwardNotEmpty)

	tag, err := m.CreateTag("probe", mesh.IntTag, 1)
	require.NoError(t, err)
	m.SetIntTag(tet, tag, []int64{7})
	require.NoError(t, m.DestroyEntity(tet))
	require.False(t, m.Lives(tet))
	require.Empty(t, tag.Entities())

	// lookups on the dead handle are contract violations
	require.Panics(t, func() { m.Downward(tet, 0) })
}

// TestSlotReuse checks that destroyed slots are recycled without
// resurrecting old handles.
func TestSlotReuse(t *testing.T) {
	m := mesh.New(3)
	c := model.Ref{D: 3, I: 0}
	v := m.CreateVertex(c, mesh.Vector{1, 2, 3}, [2]float64{})
	require.NoError(t, m.DestroyEntity(v))
	w := m.CreateVertex(c, mesh.Vector{4, 5, 6}, [2]float64{})
	require.Equal(t, v, w) // slot reused, same packed handle
	require.Equal(t, mesh.Vector{4, 5, 6}, m.Point(w))
}

// TestTags exercises the tag lifecycle and failure cases.
func TestTags(t *testing.T) {
	m, tet, _ := buildTet(t)
	tag, err := m.CreateTag("ma_test", mesh.DoubleTag, 2)
	require.NoError(t, err)
	_, err = m.CreateTag("ma_test", mesh.IntTag, 1)
	require.ErrorIs(t, err, mesh.ErrTagExists)

	_, err = m.GetDoubleTag(tet, tag)
	require.ErrorIs(t, err, mesh.ErrMissingTag)

	m.SetDoubleTag(tet, tag, []float64{1.5, 2.5})
	require.True(t, m.HasTag(tet, tag))
	vals, err := m.GetDoubleTag(tet, tag)
	require.NoError(t, err)
	require.Equal(t, []float64{1.5, 2.5}, vals)

	m.RemoveTag(tet, tag)
	require.False(t, m.HasTag(tet, tag))
	m.DestroyTag(tag)
	require.Nil(t, m.FindTag("ma_test"))
}

// TestRemotes checks sharing and ownership predicates.
func TestRemotes(t *testing.T) {
	m := mesh.New(3, mesh.WithPart(1))
	c := model.Ref{D: 3, I: 0}
	v := m.CreateVertex(c, mesh.Vector{}, [2]float64{})
	require.False(t, m.Shared(v))
	require.True(t, m.Owned(v))

	m.AddRemote(v, 0, v)
	require.True(t, m.Shared(v))
	require.False(t, m.Owned(v)) // part 0 owns the class

	m.SetRemotes(v, mesh.Copies{2: v})
	require.True(t, m.Owned(v))
	m.SetRemotes(v, nil)
	require.False(t, m.Shared(v))
}

// TestMatchingOriginal checks the tie-broken original-copy predicate.
func TestMatchingOriginal(t *testing.T) {
	m := mesh.New(3, mesh.WithPart(1))
	c := model.Ref{D: 3, I: 0}
	a := m.CreateVertex(c, mesh.Vector{}, [2]float64{})
	b := m.CreateVertex(c, mesh.Vector{0, 0, 1}, [2]float64{})
	require.False(t, m.HasMatching())
	m.AddMatch(a, mesh.Copy{Part: 1, Entity: b})
	m.AddMatch(b, mesh.Copy{Part: 1, Entity: a})
	require.True(t, m.HasMatching())
	require.True(t, m.Original(a)) // same part, lower handle wins
	require.False(t, m.Original(b))
	require.True(t, m.HasCopies(a))
}

// TestMeasure checks sizes of the reference shapes.
func TestMeasure(t *testing.T) {
	m, tet, verts := buildTet(t)
	require.InDelta(t, 1.0/6, m.Measure(tet), 1e-12)
	edge := m.FindUpward(topo.Edge, []mesh.Entity{verts[0], verts[1]})
	require.InDelta(t, 1, m.Measure(edge), 1e-12)
	face := m.FindElement(topo.Triangle, []mesh.Entity{verts[0], verts[1], verts[2]})
	require.InDelta(t, 0.5, m.Measure(face), 1e-12)
}

// TestMeasurePrism builds a unit right prism bottom-up and checks its
// decomposed volume.
func TestMeasurePrism(t *testing.T) {
	m := mesh.New(3)
	c := model.Ref{D: 3, I: 0}
	pts := []mesh.Vector{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {0, 1, 1},
	}
	verts := make([]mesh.Entity, 6)
	for i, p := range pts {
		verts[i] = m.CreateVertex(c, p, [2]float64{})
	}
	prism, err := m.BuildOrFind(topo.Prism, c, verts, nil)
	require.NoError(t, err)
	require.NoError(t, m.Verify())
	require.InDelta(t, 0.5, m.Measure(prism), 1e-12)
	require.Equal(t, verts, m.Downward(prism, 0))
}

// TestMapLocalToGlobal checks the element maps used by refinement.
func TestMapLocalToGlobal(t *testing.T) {
	m, tet, _ := buildTet(t)
	center := m.MapLocalToGlobal(tet, [3]float64{0.25, 0.25, 0.25})
	require.InDelta(t, 0.25, center[0], 1e-12)
	require.InDelta(t, 0.25, center[1], 1e-12)
	require.InDelta(t, 0.25, center[2], 1e-12)
}

// TestRebuildElement substitutes one vertex through the closure.
func TestRebuildElement(t *testing.T) {
	m, tet, verts := buildTet(t)
	c := m.Model(tet)
	nv := m.CreateVertex(c, mesh.Vector{0.5, 0.5, 0.5}, [2]float64{})
	rebuilt, err := m.RebuildElement(tet, verts[3], nv, nil)
	require.NoError(t, err)
	require.NotEqual(t, tet, rebuilt)
	want := []mesh.Entity{verts[0], verts[1], verts[2], nv}
	require.Equal(t, want, m.Downward(rebuilt, 0))
}

// TestEdgeSplitParamPeriodic verifies seam-crossing parametric
// interpolation on a periodic model edge.
func TestEdgeSplitParamPeriodic(t *testing.T) {
	circle := model.Ref{D: 1, I: 0}
	geom := model.NewAnalytic().AddPeriodic(circle, func(p [2]float64) [3]float64 {
		return [3]float64{math.Cos(p[0]), math.Sin(p[0]), 0}
	}, 0, [2]float64{0, 2 * math.Pi})
	m := mesh.New(3, mesh.WithGeometry(geom))
	// endpoints at 0.2 and 2pi-0.1 straddle the seam
	a := m.CreateVertex(circle, mesh.Vector{}, [2]float64{0.2, 0})
	b := m.CreateVertex(circle, mesh.Vector{}, [2]float64{2*math.Pi - 0.1, 0})
	e, err := m.CreateEntity(topo.Edge, circle, []mesh.Entity{a, b})
	require.NoError(t, err)
	p := m.EdgeSplitParam(e, 0.5)
	// the midpoint wraps to the seam side, not the far arc
	require.InDelta(t, 0.05, p[0], 1e-12)
}

// TestMigrationPlan exercises the tag-backed migration plan.
func TestMigrationPlan(t *testing.T) {
	m, tet, _ := buildTet(t)
	plan, err := mesh.NewMigration(m)
	require.NoError(t, err)
	require.False(t, plan.Has(tet))
	plan.Send(tet, 3)
	plan.Send(tet, 2) // overwrite
	require.True(t, plan.Has(tet))
	require.Equal(t, 1, plan.Count())
	require.Equal(t, 2, plan.Sending(tet))
	plan.Close()
	require.Nil(t, m.FindTag(mesh.MigrateTagName))
}

// TestCreateEntityErrors covers the downward validation paths.
func TestCreateEntityErrors(t *testing.T) {
	m := mesh.New(3)
	c := model.Ref{D: 3, I: 0}
	v0 := m.CreateVertex(c, mesh.Vector{}, [2]float64{})
	v1 := m.CreateVertex(c, mesh.Vector{1, 0, 0}, [2]float64{})
	_, err := m.CreateEntity(topo.Triangle, c, []mesh.Entity{v0, v1})
	require.ErrorIs(t, err, mesh.ErrInvalidDownward)
	_, err = m.CreateEntity(topo.Edge, c, []mesh.Entity{v0, mesh.None})
	require.True(t, errors.Is(err, mesh.ErrInvalidHandle) || errors.Is(err, mesh.ErrInvalidDownward))
}
