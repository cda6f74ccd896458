package mesh

import (
	"fmt"

	"github.com/unstruct/meshadapt/topo"
)

// Downward returns the downward adjacency tuple of e at dimension d in
// canonical order. The dim-1 tuple and the vertex closure are stored and
// cost O(1); region edges are synthesised through the canonical tables
// and upward intersection.
func (m *Mesh) Downward(e Entity, d int) []Entity {
	r := m.mustRec(e)
	ed := e.Dim()
	switch {
	case d >= ed || d < 0:
		panic(fmt.Errorf("%w: downward dimension %d of %v", ErrInvalidDownward, d, e))
	case d == ed-1:
		return append([]Entity(nil), r.down...)
	case d == 0:
		return append([]Entity(nil), m.vertexClosure(e)...)
	}
	// d == 1, ed == 3: derive the region edges from the vertex closure
	k := e.Kind()
	verts := m.vertexClosure(e)
	ne := k.EdgeCount()
	edges := make([]Entity, ne)
	for i := 0; i < ne; i++ {
		ev := topo.EdgeVerts(k, i)
		edges[i] = m.FindUpward(topo.Edge, []Entity{verts[ev[0]], verts[ev[1]]})
	}
	return edges
}

// Upward returns the entities one dimension above e. The returned slice
// is the live bag; callers must not modify it.
func (m *Mesh) Upward(e Entity) []Entity { return m.mustRec(e).up }

// Adjacent returns the entities of dimension d transitively reachable
// upward from e, deduplicated, in discovery order. For d equal to e's
// dimension it returns e alone; for a lower d it returns Downward(e, d).
func (m *Mesh) Adjacent(e Entity, d int) []Entity {
	if d <= e.Dim() {
		if d == e.Dim() {
			return []Entity{e}
		}
		return m.Downward(e, d)
	}
	frontier := []Entity{e}
	for dim := e.Dim(); dim < d; dim++ {
		seen := make(map[Entity]bool, 2*len(frontier))
		var next []Entity
		for _, f := range frontier {
			for _, u := range m.mustRec(f).up {
				if !seen[u] {
					seen[u] = true
					next = append(next, u)
				}
			}
		}
		frontier = next
	}
	return frontier
}

// DownIndex returns the position of de within e's dim-1 downward tuple,
// -1 if absent.
func (m *Mesh) DownIndex(e, de Entity) int {
	for i, d := range m.mustRec(e).down {
		if d == de {
			return i
		}
	}
	return -1
}

// EdgeVertOppositeVert returns the vertex of edge other than v.
func (m *Mesh) EdgeVertOppositeVert(edge, v Entity) Entity {
	ev := m.mustRec(edge).down
	if ev[0] == v {
		return ev[1]
	}
	return ev[0]
}

// TriEdgeOppositeVert returns the edge of triangle tri not touching
// vertex v.
func (m *Mesh) TriEdgeOppositeVert(tri, v Entity) Entity {
	tv := m.vertexClosure(tri)
	te := m.mustRec(tri).down
	table := [3]int{1, 2, 0}
	for i, w := range tv {
		if w == v {
			return te[table[i]]
		}
	}
	panic(fmt.Errorf("%w: %v not a vertex of %v", ErrInvalidHandle, v, tri))
}

// TetVertOppositeTri returns the tet vertex not on face tri.
func (m *Mesh) TetVertOppositeTri(tet, tri Entity) Entity {
	tetv := m.vertexClosure(tet)
	triv := m.vertexClosure(tri)
	for _, v := range tetv {
		found := false
		for _, w := range triv {
			if v == w {
				found = true
				break
			}
		}
		if !found {
			return v
		}
	}
	return None
}
