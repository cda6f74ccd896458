package snap_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/unstruct/meshadapt/mesh"
	"github.com/unstruct/meshadapt/model"
	"github.com/unstruct/meshadapt/pcu"
	"github.com/unstruct/meshadapt/refine"
	"github.com/unstruct/meshadapt/snap"
	"github.com/unstruct/meshadapt/topo"
)

func testLogger() zerolog.Logger { return zerolog.Nop() }

// planeFace is a model face z=0 parameterised as (u,v) -> (u,v,0).
func planeFace() (model.Ref, model.Model) {
	face := model.Ref{D: 2, I: 0}
	geom := model.NewAnalytic().Add(face, func(p [2]float64) [3]float64 {
		return [3]float64{p[0], p[1], 0}
	})
	return face, geom
}

// buildTri builds a 2D mesh with one triangle; the third vertex sits
// off-plane, classified on the model face with the given parametric
// coordinate.
func buildTri(t *testing.T, a, b mesh.Vector) (*mesh.Mesh, mesh.Entity) {
	face, geom := planeFace()
	m := mesh.New(2, mesh.WithGeometry(geom))
	v0 := m.CreateVertex(face, a, [2]float64{a[0], a[1]})
	v1 := m.CreateVertex(face, b, [2]float64{b[0], b[1]})
	v2 := m.CreateVertex(face, mesh.Vector{0.5, 0.5, 0.1}, [2]float64{0.5, 0.5})
	_, err := m.BuildOrFind(topo.Triangle, face, []mesh.Entity{v0, v1, v2}, nil)
	require.NoError(t, err)
	return m, v2
}

// TestSnapSuccess is the snap-success scenario: the off-plane vertex
// moves to (0.5,0.5,0) and the triangle stays valid.
func TestSnapSuccess(t *testing.T) {
	m, v := buildTri(t, mesh.Vector{0, 0, 0}, mesh.Vector{1, 0, 0})
	s, err := snap.NewSnapper(m)
	require.NoError(t, err)
	s.Flag(v)

	comms := pcu.NewGroup(1)
	snap.RunCavities(comms[0], m, 0, s, nil, testLogger())
	require.Equal(t, mesh.Vector{0.5, 0.5, 0}, m.Point(v))
	require.False(t, s.Flagged(v))
}

// TestSnapRollback is the rollback scenario: projecting the vertex to
// z=0 collapses the triangle, so the move is undone and the flag still
// clears.
func TestSnapRollback(t *testing.T) {
	// endpoints collinear with (0.5,0.5,0) once flattened
	m, v := buildTri(t, mesh.Vector{0, 0, 0}, mesh.Vector{1, 1, 0})
	s, err := snap.NewSnapper(m)
	require.NoError(t, err)
	s.Flag(v)

	comms := pcu.NewGroup(1)
	snap.RunCavities(comms[0], m, 0, s, nil, testLogger())
	require.Equal(t, mesh.Vector{0.5, 0.5, 0.1}, m.Point(v))
	require.False(t, s.Flagged(v), "flag clears even on failure")
}

// TestSnapAfterRefinement runs the full pipeline on a tet with a
// curved model face: refine, then snap the new boundary vertex onto
// the curve.
func TestSnapAfterRefinement(t *testing.T) {
	face := model.Ref{D: 2, I: 0}
	region := model.Ref{D: 3, I: 0}
	geom := model.NewAnalytic().Add(face, func(p [2]float64) [3]float64 {
		// gentle bulge along u
		return [3]float64{p[0], p[1], 0.1 * p[0] * (1 - p[0])}
	})
	m := mesh.New(3, mesh.WithGeometry(geom))
	pts := []mesh.Vector{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	params := [][2]float64{{0, 0}, {1, 0}, {0, 1}, {0, 0}}
	classify := []model.Entity{face, face, face, region}
	verts := make([]mesh.Entity, 4)
	for i := range pts {
		verts[i] = m.CreateVertex(classify[i], pts[i], params[i])
	}
	_, err := m.BuildOrFind(topo.Tet, region, verts, nil)
	require.NoError(t, err)
	bottom := m.FindElement(topo.Triangle, []mesh.Entity{verts[0], verts[1], verts[2]})
	m.SetModel(bottom, face)
	for _, e := range m.Downward(bottom, 1) {
		m.SetModel(e, face)
	}

	r := refine.New(m)
	split := m.FindUpward(topo.Edge, []mesh.Entity{verts[0], verts[1]})
	require.NoError(t, r.Mark(split, 0.3))
	_, err = r.Run(nil)
	require.NoError(t, err)

	comms := pcu.NewGroup(1)
	stats, err := snap.Snap(comms[0], r, snap.WithLogger(testLogger()))
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Target)
	require.Equal(t, int64(1), stats.Snapped)

	sv := r.EdgeSplitVertices()[0]
	want := mesh.Vector{0.3, 0, 0.1 * 0.3 * 0.7}
	require.InDelta(t, want[0], m.Point(sv)[0], 1e-12)
	require.InDelta(t, want[2], m.Point(sv)[2], 1e-12)
	// all tets remain valid
	it := m.Begin(3)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		require.Greater(t, m.Measure(e), 0.0)
	}
}

// TestSnapCountsCollective checks target/success sums across two
// parts, one succeeding and one rolling back.
func TestSnapCountsCollective(t *testing.T) {
	good, gv := buildTri(t, mesh.Vector{0, 0, 0}, mesh.Vector{1, 0, 0})
	bad, bv := buildTri(t, mesh.Vector{0, 0, 0}, mesh.Vector{1, 1, 0})
	meshes := [2]*mesh.Mesh{good, bad}
	flagged := [2]mesh.Entity{gv, bv}

	comms := pcu.NewGroup(2)
	var stats [2]snap.Stats
	var errs [2]error
	done := make(chan int, 2)
	for p := 0; p < 2; p++ {
		go func(p int) {
			s, err := snap.NewSnapper(meshes[p], snap.WithLogger(testLogger()))
			if err != nil {
				errs[p] = err
				done <- p
				return
			}
			s.Flag(flagged[p])
			counts := [2]int64{1, 0}
			snap.RunCavities(comms[p], meshes[p], 0, s, nil, testLogger())
			counts[1] = s.SuccessCount()
			comms[p].AddInts(counts[:])
			stats[p] = snap.Stats{Target: counts[0], Snapped: counts[1]}
			done <- p
		}(p)
	}
	<-done
	<-done
	for p := 0; p < 2; p++ {
		require.NoError(t, errs[p])
		require.Equal(t, int64(2), stats[p].Target)
		require.Equal(t, int64(1), stats[p].Snapped)
	}
}

// TestSnapperNoGeometry rejects meshes without a model.
func TestSnapperNoGeometry(t *testing.T) {
	m := mesh.New(3)
	_, err := snap.NewSnapper(m)
	require.ErrorIs(t, err, snap.ErrNoGeometry)
}

// TestAttachGeometryInfo checks the inspection tags and field.
func TestAttachGeometryInfo(t *testing.T) {
	m, v := buildTri(t, mesh.Vector{0, 0, 0}, mesh.Vector{1, 0, 0})
	require.NoError(t, snap.AttachGeometryInfo(m))
	dimTag := m.FindTag(snap.GeomDimTagName)
	require.NotNil(t, dimTag)
	vals, err := m.GetIntTag(v, dimTag)
	require.NoError(t, err)
	require.Equal(t, int64(2), vals[0])
	f := m.FindField(snap.ParamFieldName)
	require.NotNil(t, f)
	require.Equal(t, []float64{0.5, 0.5, 0}, f.Get(v))
}
