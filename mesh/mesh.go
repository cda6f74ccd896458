package mesh

import (
	"fmt"

	"github.com/unstruct/meshadapt/model"
	"github.com/unstruct/meshadapt/topo"
)

// record is one arena slot.
type record struct {
	model model.Entity
	down  []Entity // dim-1 tuple, canonical order
	verts []Entity // vertex closure, canonical order (nil below dim 2)
	up    []Entity
	dead  bool
}

// arena stores the records of one kind, with slot reuse.
type arena struct {
	recs []record
	free []int
	n    int
}

func (a *arena) alloc() int {
	if k := len(a.free); k > 0 {
		slot := a.free[k-1]
		a.free = a.free[:k-1]
		a.recs[slot] = record{}
		a.n++
		return slot
	}
	a.recs = append(a.recs, record{})
	a.n++
	return len(a.recs) - 1
}

// Option configures a Mesh at construction.
type Option func(*Mesh)

// WithPart sets the part id of this mesh within its group.
func WithPart(id int) Option {
	return func(m *Mesh) { m.self = id }
}

// WithGeometry attaches the geometric model backing classification
// queries, snapping, and periodic parametric ranges.
func WithGeometry(g model.Model) Option {
	return func(m *Mesh) { m.geom = g }
}

// Mesh is the process-local mesh database. See the package comment for
// the invariants it maintains.
type Mesh struct {
	self int
	dim  int
	geom model.Model

	arenas [topo.KindCount]arena

	params map[Entity][2]float64

	fields map[string]*Field
	coord  *Field

	tags map[string]*Tag

	remotes  map[Entity]Copies
	matches  map[Entity][]Copy
	matching bool
}

// New creates an empty mesh of the given top dimension (2 or 3).
func New(dim int, opts ...Option) *Mesh {
	m := &Mesh{
		dim:     dim,
		params:  make(map[Entity][2]float64),
		fields:  make(map[string]*Field),
		tags:    make(map[string]*Tag),
		remotes: make(map[Entity]Copies),
		matches: make(map[Entity][]Copy),
	}
	m.coord = newField("coordinates", 3)
	m.fields[m.coord.name] = m.coord
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dim returns the mesh's top dimension.
func (m *Mesh) Dim() int { return m.dim }

// Self returns this mesh's part id.
func (m *Mesh) Self() int { return m.self }

// Geometry returns the attached geometric model, nil when none.
func (m *Mesh) Geometry() model.Model { return m.geom }

func (m *Mesh) rec(e Entity) *record {
	k := e.Kind()
	slot := e.slot()
	if e == None || int(k) >= topo.KindCount || slot < 0 || slot >= len(m.arenas[k].recs) {
		return nil
	}
	r := &m.arenas[k].recs[slot]
	if r.dead {
		return nil
	}
	return r
}

// mustRec panics with ErrInvalidHandle context on dead handles; used by
// accessors whose contract forbids invalid input.
func (m *Mesh) mustRec(e Entity) *record {
	r := m.rec(e)
	if r == nil {
		panic(fmt.Errorf("%w: %v", ErrInvalidHandle, e))
	}
	return r
}

// Lives reports whether e refers to a live entity of this mesh.
func (m *Mesh) Lives(e Entity) bool { return m.rec(e) != nil }

// Model returns the geometric model entity e is classified on.
func (m *Mesh) Model(e Entity) model.Entity { return m.mustRec(e).model }

// ModelDim returns the model dimension of e's classification, or the
// mesh dimension when e is unclassified.
func (m *Mesh) ModelDim(e Entity) int {
	c := m.mustRec(e).model
	if c == nil {
		return m.dim
	}
	return c.Dim()
}

// SetModel reclassifies e onto model entity c.
func (m *Mesh) SetModel(e Entity, c model.Entity) { m.mustRec(e).model = c }

// CreateVertex creates a vertex classified on c at the given point and
// parametric coordinate.
func (m *Mesh) CreateVertex(c model.Entity, point Vector, param [2]float64) Entity {
	slot := m.arenas[topo.Vertex].alloc()
	e := makeEntity(topo.Vertex, slot)
	m.arenas[topo.Vertex].recs[slot].model = c
	m.coord.Set(e, point[:])
	m.params[e] = param
	return e
}

// downKinds returns the canonical kinds of the dim-1 downward tuple.
func downKinds(k topo.Kind) []topo.Kind {
	switch k {
	case topo.Edge:
		return []topo.Kind{topo.Vertex, topo.Vertex}
	case topo.Triangle:
		return []topo.Kind{topo.Edge, topo.Edge, topo.Edge}
	case topo.Quad:
		return []topo.Kind{topo.Edge, topo.Edge, topo.Edge, topo.Edge}
	case topo.Tet:
		return []topo.Kind{topo.Triangle, topo.Triangle, topo.Triangle, topo.Triangle}
	case topo.Prism:
		return []topo.Kind{topo.Triangle, topo.Quad, topo.Quad, topo.Quad, topo.Triangle}
	case topo.Pyramid:
		return []topo.Kind{topo.Quad, topo.Triangle, topo.Triangle, topo.Triangle, topo.Triangle}
	case topo.Hex:
		return []topo.Kind{topo.Quad, topo.Quad, topo.Quad, topo.Quad, topo.Quad, topo.Quad}
	}
	return nil
}

// downVertSpec returns, per downward position, the canonical local
// vertices that sub-entity spans.
func downVertSpec(k topo.Kind) [][]int {
	switch k {
	case topo.Triangle:
		return [][]int{topo.TriEdgeVerts[0][:], topo.TriEdgeVerts[1][:], topo.TriEdgeVerts[2][:]}
	case topo.Quad:
		return [][]int{topo.QuadEdgeVerts[0][:], topo.QuadEdgeVerts[1][:], topo.QuadEdgeVerts[2][:], topo.QuadEdgeVerts[3][:]}
	case topo.Tet:
		return [][]int{topo.TetTriVerts[0][:], topo.TetTriVerts[1][:], topo.TetTriVerts[2][:], topo.TetTriVerts[3][:]}
	case topo.Prism:
		return [][]int{
			topo.PrismTriVerts[0][:],
			topo.PrismQuadVerts[0][:], topo.PrismQuadVerts[1][:], topo.PrismQuadVerts[2][:],
			topo.PrismTriVerts[1][:],
		}
	case topo.Pyramid:
		return [][]int{
			{0, 1, 2, 3},
			topo.PyramidTriVerts[0][:], topo.PyramidTriVerts[1][:], topo.PyramidTriVerts[2][:], topo.PyramidTriVerts[3][:],
		}
	case topo.Hex:
		return [][]int{
			topo.HexQuadVerts[0][:], topo.HexQuadVerts[1][:], topo.HexQuadVerts[2][:],
			topo.HexQuadVerts[3][:], topo.HexQuadVerts[4][:], topo.HexQuadVerts[5][:],
		}
	}
	return nil
}

// deriveVerts recovers the canonical vertex closure of kind k from its
// downward tuple: every canonical vertex is the unique common vertex of
// the downward entities that contain it.
func (m *Mesh) deriveVerts(k topo.Kind, down []Entity) ([]Entity, error) {
	spec := downVertSpec(k)
	nv := k.VertexCount()
	verts := make([]Entity, nv)
	for j := 0; j < nv; j++ {
		var common []Entity
		first := true
		for pos, locals := range spec {
			member := false
			for _, l := range locals {
				if l == j {
					member = true
					break
				}
			}
			if !member {
				continue
			}
			dv := m.vertexClosure(down[pos])
			if first {
				common = append([]Entity(nil), dv...)
				first = false
				continue
			}
			common = intersect(common, dv)
		}
		if len(common) != 1 {
			return nil, fmt.Errorf("%w: vertex %d of %v is not unique", ErrInvalidDownward, j, k)
		}
		verts[j] = common[0]
	}
	return verts, nil
}

func intersect(a, b []Entity) []Entity {
	out := a[:0]
	for _, e := range a {
		for _, f := range b {
			if e == f {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// vertexClosure returns the stored vertex tuple of e without copying.
func (m *Mesh) vertexClosure(e Entity) []Entity {
	r := m.mustRec(e)
	switch e.Kind() {
	case topo.Vertex:
		return []Entity{e}
	case topo.Edge:
		return r.down
	}
	return r.verts
}

// CreateEntity creates an entity of kind k classified on c from its
// downward tuple in canonical order, registering an upward pointer in
// every downward neighbour. The vertex closure is derived and checked
// against the canonical tables.
func (m *Mesh) CreateEntity(k topo.Kind, c model.Entity, down []Entity) (Entity, error) {
	kinds := downKinds(k)
	if kinds == nil {
		return None, fmt.Errorf("%w: %v", ErrUnsupportedKind, k)
	}
	if len(down) != len(kinds) {
		return None, fmt.Errorf("%w: %v wants %d downward entities, got %d",
			ErrInvalidDownward, k, len(kinds), len(down))
	}
	for i, d := range down {
		if m.rec(d) == nil {
			return None, fmt.Errorf("%w: downward %v", ErrInvalidHandle, d)
		}
		if d.Kind() != kinds[i] {
			return None, fmt.Errorf("%w: position %d wants %v, got %v",
				ErrInvalidDownward, i, kinds[i], d.Kind())
		}
	}
	var verts []Entity
	if k.Dim() >= 2 {
		var err error
		verts, err = m.deriveVerts(k, down)
		if err != nil {
			return None, err
		}
	}
	slot := m.arenas[k].alloc()
	e := makeEntity(k, slot)
	r := &m.arenas[k].recs[slot]
	r.model = c
	r.down = append([]Entity(nil), down...)
	r.verts = verts
	for _, d := range down {
		dr := m.rec(d)
		dr.up = append(dr.up, e)
	}
	return e, nil
}

// DestroyEntity removes e from the mesh. It fails with ErrUpwardNotEmpty
// while higher entities still reference e, and strips all tag
// attachments, remote copies and matches.
func (m *Mesh) DestroyEntity(e Entity) error {
	r := m.rec(e)
	if r == nil {
		return fmt.Errorf("%w: %v", ErrInvalidHandle, e)
	}
	if len(r.up) > 0 {
		return fmt.Errorf("%w: %v has %d upward references", ErrUpwardNotEmpty, e, len(r.up))
	}
	for _, d := range r.down {
		dr := m.rec(d)
		for i, u := range dr.up {
			if u == e {
				dr.up = append(dr.up[:i], dr.up[i+1:]...)
				break
			}
		}
	}
	for _, tag := range m.tags {
		tag.drop(e)
	}
	for _, f := range m.fields {
		f.drop(e)
	}
	delete(m.params, e)
	delete(m.remotes, e)
	delete(m.matches, e)
	k := e.Kind()
	r.dead = true
	r.down, r.verts, r.up, r.model = nil, nil, nil, nil
	m.arenas[k].free = append(m.arenas[k].free, e.slot())
	m.arenas[k].n--
	return nil
}

// dimKinds lists the kinds of each dimension in canonical order.
var dimKinds = [4][]topo.Kind{
	{topo.Vertex},
	{topo.Edge},
	{topo.Triangle, topo.Quad},
	{topo.Tet, topo.Hex, topo.Prism, topo.Pyramid},
}

// Count returns the number of live entities of dimension d.
func (m *Mesh) Count(d int) int {
	n := 0
	for _, k := range dimKinds[d] {
		n += m.arenas[k].n
	}
	return n
}

// CountKind returns the number of live entities of kind k.
func (m *Mesh) CountKind(k topo.Kind) int { return m.arenas[k].n }

// Iterator is a finite, non-restartable cursor over one dimension. The
// order is implementation-defined but stable within one cursor; do not
// mutate the dimension while iterating.
type Iterator struct {
	m     *Mesh
	kinds []topo.Kind
	k     int
	slot  int
}

// Begin opens a cursor over all entities of dimension d.
func (m *Mesh) Begin(d int) *Iterator {
	return &Iterator{m: m, kinds: dimKinds[d]}
}

// Next yields the next live entity, or (None, false) when exhausted.
func (it *Iterator) Next() (Entity, bool) {
	for it.k < len(it.kinds) {
		k := it.kinds[it.k]
		recs := it.m.arenas[k].recs
		for it.slot < len(recs) {
			slot := it.slot
			it.slot++
			if !recs[slot].dead {
				return makeEntity(k, slot), true
			}
		}
		it.k++
		it.slot = 0
	}
	return None, false
}

// Entities collects all live entities of dimension d in cursor order.
func (m *Mesh) Entities(d int) []Entity {
	out := make([]Entity, 0, m.Count(d))
	it := m.Begin(d)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		out = append(out, e)
	}
	return out
}

// DestroyDimension removes every entity of dimension d wholesale,
// clearing upward references from dimension d-1. Callers strip
// dimensions from the top down.
func (m *Mesh) DestroyDimension(d int) {
	for _, e := range m.Entities(d) {
		r := m.rec(e)
		r.up = nil
		if err := m.DestroyEntity(e); err != nil {
			panic(err)
		}
	}
}
