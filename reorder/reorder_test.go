package reorder_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unstruct/meshadapt/mesh"
	"github.com/unstruct/meshadapt/model"
	"github.com/unstruct/meshadapt/pcu"
	"github.com/unstruct/meshadapt/reorder"
	"github.com/unstruct/meshadapt/topo"
)

func buildTwoTets(t *testing.T, part int) (*mesh.Mesh, []mesh.Entity) {
	m := mesh.New(3, mesh.WithPart(part))
	region := model.Ref{D: 3, I: 0}
	pts := []mesh.Vector{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1},
	}
	verts := make([]mesh.Entity, 5)
	for i, p := range pts {
		verts[i] = m.CreateVertex(region, p, [2]float64{})
	}
	_, err := m.BuildOrFind(topo.Tet, region, []mesh.Entity{verts[0], verts[1], verts[2], verts[3]}, nil)
	require.NoError(t, err)
	_, err = m.BuildOrFind(topo.Tet, region, []mesh.Entity{verts[1], verts[2], verts[3], verts[4]}, nil)
	require.NoError(t, err)
	return m, verts
}

// TestNumberCoversEverything checks the breadth-first labels: every
// entity labeled once, per-kind labels dense in [0, count).
func TestNumberCoversEverything(t *testing.T) {
	m, _ := buildTwoTets(t, 0)
	tag, err := reorder.Number(m)
	require.NoError(t, err)
	for d := 0; d <= 3; d++ {
		seen := map[int64]bool{}
		it := m.Begin(d)
		for e, ok := it.Next(); ok; e, ok = it.Next() {
			vals, err := m.GetIntTag(e, tag)
			require.NoError(t, err)
			require.False(t, seen[vals[0]], "label %d reused in dim %d", vals[0], d)
			seen[vals[0]] = true
		}
		require.Len(t, seen, m.Count(d))
	}
}

// TestRebuildPreservesTopology rebuilds and compares censuses,
// coordinates and invariants.
func TestRebuildPreservesTopology(t *testing.T) {
	m, verts := buildTwoTets(t, 0)
	m2, newOf, err := reorder.Rebuild(m, nil)
	require.NoError(t, err)
	for d := 0; d <= 3; d++ {
		require.Equal(t, m.Count(d), m2.Count(d), "dim %d", d)
	}
	require.NoError(t, m2.Verify())
	for _, v := range verts {
		require.Equal(t, m.Point(v), m2.Point(newOf[v]))
	}
	// the inverse tag leads back to the old handles
	inv := m2.FindTag(reorder.InverseTagName)
	require.NotNil(t, inv)
	vals, err := m2.GetIntTag(newOf[verts[0]], inv)
	require.NoError(t, err)
	require.Equal(t, verts[0], mesh.Entity(vals[0]))
}

// TestRebuildUpdatesRemotes wires one shared vertex between two parts,
// rebuilds both, and checks the copy tables point at the new handles.
func TestRebuildUpdatesRemotes(t *testing.T) {
	var meshes [2]*mesh.Mesh
	var shared [2]mesh.Entity
	for p := 0; p < 2; p++ {
		m, verts := buildTwoTets(t, p)
		meshes[p] = m
		shared[p] = verts[4]
	}
	meshes[0].AddRemote(shared[0], 1, shared[1])
	meshes[1].AddRemote(shared[1], 0, shared[0])

	comms := pcu.NewGroup(2)
	var rebuilt [2]*mesh.Mesh
	var maps [2]map[mesh.Entity]mesh.Entity
	var errs [2]error
	var wg sync.WaitGroup
	for p := 0; p < 2; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			rebuilt[p], maps[p], errs[p] = reorder.Rebuild(meshes[p], comms[p])
		}(p)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	n0 := maps[0][shared[0]]
	n1 := maps[1][shared[1]]
	require.Equal(t, n1, rebuilt[0].Remotes(n0)[1])
	require.Equal(t, n0, rebuilt[1].Remotes(n1)[0])
}

// TestNumberSeedsAtBoundary checks the seed rule: the walk starts at a
// vertex on the lowest-dimensional model entity, which takes the
// highest vertex label.
func TestNumberSeedsAtBoundary(t *testing.T) {
	m, verts := buildTwoTets(t, 0)
	corner := model.Ref{D: 0, I: 7}
	m.SetModel(verts[4], corner)
	tag, err := reorder.Number(m)
	require.NoError(t, err)
	vals, err := m.GetIntTag(verts[4], tag)
	require.NoError(t, err)
	require.Equal(t, int64(m.Count(0)-1), vals[0])
}
