package refine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/unstruct/meshadapt/mesh"
	"github.com/unstruct/meshadapt/pcu"
	"github.com/unstruct/meshadapt/topo"
)

// splitFunc is one subdivision template: it sees the parent and its
// vertex tuple rotated into the template's canonical orientation.
type splitFunc func(r *Refiner, parent mesh.Entity, v []mesh.Entity)

// Refiner drives local refinement over one mesh part.
type Refiner struct {
	m        *mesh.Mesh
	log      zerolog.Logger
	transfer SolutionTransfer
	cb       mesh.BuildCallback

	splitVert *mesh.Tag // on edges and quads: handle of the placed vertex
	place     *mesh.Tag // on edges: placement parameter
	parent    *mesh.Tag // on children: handle of the refined parent
	diag      *mesh.Tag // on quads: preset diagonal rotation

	marked []mesh.Entity

	newVerts    []mesh.Entity
	edgeVerts   []mesh.Entity
	curChildren []mesh.Entity
}

// New creates a refiner over m. The reserved driver tags are created on
// first use and reused across passes.
func New(m *mesh.Mesh, opts ...Option) *Refiner {
	r := &Refiner{
		m:        m,
		log:      defaultLogger(),
		transfer: NopTransfer{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.splitVert = ensureTag(m, splitVertTagName, mesh.IntTag, 1)
	r.place = ensureTag(m, placeTagName, mesh.DoubleTag, 1)
	r.parent = ensureTag(m, parentTagName, mesh.IntTag, 1)
	r.diag = ensureTag(m, diagTagName, mesh.IntTag, 1)
	return r
}

func ensureTag(m *mesh.Mesh, name string, k mesh.TagKind, count int) *mesh.Tag {
	if t := m.FindTag(name); t != nil {
		return t
	}
	t, err := m.CreateTag(name, k, count)
	if err != nil {
		panic(err)
	}
	return t
}

// Mesh returns the mesh the refiner operates on.
func (r *Refiner) Mesh() *mesh.Mesh { return r.m }

// NewVertices returns the vertices created by the last Run, in creation
// order.
func (r *Refiner) NewVertices() []mesh.Entity { return r.newVerts }

// EdgeSplitVertices returns only the vertices placed on split edges by
// the last Run, excluding quad and prism centroids.
func (r *Refiner) EdgeSplitVertices() []mesh.Entity { return r.edgeVerts }

// Mark requests a split of edge e at placement parameter t, measured
// from the edge's first vertex.
func (r *Refiner) Mark(e mesh.Entity, t float64) error {
	if e.Kind() != topo.Edge {
		return fmt.Errorf("%w: %v", ErrNotAnEdge, e)
	}
	if !(t > 0 && t < 1) {
		return fmt.Errorf("%w: %g on %v", ErrBadPlacement, t, e)
	}
	if r.m.HasTag(e, r.place) {
		return fmt.Errorf("%w: %v", ErrAlreadyMarked, e)
	}
	r.m.SetDoubleTag(e, r.place, []float64{t})
	r.marked = append(r.marked, e)
	return nil
}

// SetQuadDiagonal presets the diagonal of quad q for tetrahedronization:
// rotation 0 selects the 0-2 diagonal, 1 the 1-3 diagonal.
func (r *Refiner) SetQuadDiagonal(q mesh.Entity, rotation int) {
	r.m.SetIntTag(q, r.diag, []int64{int64(rotation)})
}

// Run executes one refinement pass over everything marked since the
// last Run. With a non-nil comm the pass is collective: every part must
// call Run, and split entities shared between parts get their remote
// copies reconciled. An empty global split set is a no-op.
func (r *Refiner) Run(c pcu.Comm) (Result, error) {
	var res Result
	total := []int64{int64(len(r.marked))}
	if c != nil {
		c.AddInts(total)
	}
	if total[0] == 0 {
		return res, nil
	}
	res.SplitEdges = len(r.marked)
	r.newVerts = nil
	r.edgeVerts = nil

	// collect affected elements per dimension before any mutation
	var affected [4][]mesh.Entity
	affected[1] = r.marked
	for d := 2; d <= r.m.Dim(); d++ {
		seen := make(map[mesh.Entity]bool)
		for _, e := range r.marked {
			for _, up := range r.m.Adjacent(e, d) {
				if !seen[up] {
					seen[up] = true
					affected[d] = append(affected[d], up)
				}
			}
		}
	}

	r.placeSplitVerts()

	for d := 1; d <= r.m.Dim(); d++ {
		for _, e := range affected[d] {
			r.refineElement(e)
			res.Refined[d]++
		}
	}

	if c != nil {
		r.stitch(c)
	}

	for d := r.m.Dim(); d >= 1; d-- {
		for _, e := range affected[d] {
			if err := r.m.DestroyEntity(e); err != nil {
				return res, err
			}
		}
	}

	res.NewVertices = len(r.newVerts)
	r.marked = nil
	r.log.Info().
		Int("split_edges", res.SplitEdges).
		Int("new_vertices", res.NewVertices).
		Int("refined_faces", res.Refined[2]).
		Int("refined_regions", res.Refined[3]).
		Msg("refinement pass done")
	return res, nil
}

// placeSplitVerts creates the vertex of every marked edge at its
// placement, classified on the edge's model entity with interpolated
// parametric coordinates.
func (r *Refiner) placeSplitVerts() {
	m := r.m
	for _, e := range r.marked {
		tv, err := m.GetDoubleTag(e, r.place)
		if err != nil {
			panic(err)
		}
		t := tv[0]
		point := m.EdgeSplitPoint(e, t)
		param := m.EdgeSplitParam(e, t)
		v := m.CreateVertex(m.Model(e), point, param)
		m.SetIntTag(e, r.splitVert, []int64{int64(v)})
		r.newVerts = append(r.newVerts, v)
		r.edgeVerts = append(r.edgeVerts, v)
		if r.cb != nil {
			r.cb(v)
		}
		r.transfer.OnVertex(e, [3]float64{2*t - 1, 0, 0}, v)
	}
}

// splitCode encodes which canonical edges of e carry placed splits.
func (r *Refiner) splitCode(e mesh.Entity) uint {
	if e.Kind() == topo.Edge {
		if r.m.HasTag(e, r.splitVert) {
			return 1
		}
		return 0
	}
	var code uint
	for i, edge := range r.m.Downward(e, 1) {
		if edge != mesh.None && r.m.HasTag(edge, r.splitVert) {
			code |= 1 << uint(i)
		}
	}
	return code
}

// refineElement dispatches e to its template by edge-split code.
func (r *Refiner) refineElement(e mesh.Entity) {
	k := e.Kind()
	code := r.splitCode(e)
	if code == 0 {
		r.fatal("element %v reached the driver with no split edges", e)
	}
	r.curChildren = r.curChildren[:0]
	if k == topo.Edge {
		r.splitEdge(e)
	} else {
		sc := topo.SplitCaseOf(k, code)
		if sc.Template < 0 {
			r.fatal("%v split code %#b has no template", k, code)
		}
		verts := r.m.Downward(e, 0)
		rotated := make([]mesh.Entity, len(verts))
		topo.Rotate(k, verts, int(sc.Rotation), rotated)
		r.templateFor(k, int(sc.Template))(r, e, rotated)
	}
	children := append([]mesh.Entity(nil), r.curChildren...)
	r.transfer.OnRefine(e, children)
}

func (r *Refiner) templateFor(k topo.Kind, template int) splitFunc {
	var f splitFunc
	switch k {
	case topo.Triangle:
		f = triTemplates[template]
	case topo.Quad:
		f = quadTemplates[template]
	case topo.Tet:
		f = tetTemplates[template]
	case topo.Prism:
		f = prismTemplates[template]
	case topo.Pyramid:
		f = pyramidTemplates[template]
	}
	if f == nil {
		r.fatal("%v has no template %d", k, template)
	}
	return f
}

// splitEdge replaces a marked edge with its two halves.
func (r *Refiner) splitEdge(e mesh.Entity) {
	sv := r.findSplitVertOnEdge(e)
	ev := r.m.Downward(e, 0)
	r.buildSplitElement(e, topo.Edge, []mesh.Entity{ev[0], sv})
	r.buildSplitElement(e, topo.Edge, []mesh.Entity{sv, ev[1]})
}

// buildSplitElement materialises one child of parent through makeOrFind
// semantics: an entity already built from an adjacent element is reused,
// a missing one is created classified on parent's model entity.
func (r *Refiner) buildSplitElement(parent mesh.Entity, k topo.Kind, verts []mesh.Entity) mesh.Entity {
	e, err := r.m.BuildOrFind(k, r.m.Model(parent), verts, r.cb)
	if err != nil {
		r.fatal("building %v child of %v: %v", k, parent, err)
	}
	r.m.SetIntTag(e, r.parent, []int64{int64(parent)})
	if k.Dim() == parent.Dim() {
		r.curChildren = append(r.curChildren, e)
	}
	return e
}

// buildVertex creates an interior vertex (a prism or quad centroid)
// classified on c.
func (r *Refiner) buildVertex(c mesh.Entity, point mesh.Vector) mesh.Entity {
	v := r.m.CreateVertex(r.m.Model(c), point, [2]float64{})
	r.newVerts = append(r.newVerts, v)
	if r.cb != nil {
		r.cb(v)
	}
	return v
}

// findSplitVertOnEdge returns the placed vertex of a marked edge.
func (r *Refiner) findSplitVertOnEdge(e mesh.Entity) mesh.Entity {
	v, err := r.m.GetIntTag(e, r.splitVert)
	if err != nil {
		r.fatal("edge %v has no split vertex", e)
	}
	return mesh.Entity(v[0])
}

// findSplitVert returns the placed vertex on the edge between a and b.
func (r *Refiner) findSplitVert(a, b mesh.Entity) mesh.Entity {
	e := r.m.FindUpward(topo.Edge, []mesh.Entity{a, b})
	if e == mesh.None {
		r.fatal("no edge between %v and %v", a, b)
	}
	return r.findSplitVertOnEdge(e)
}

// findPlacedSplitVert returns the placed vertex on edge (a,b) and its
// placement parameter measured from a.
func (r *Refiner) findPlacedSplitVert(a, b mesh.Entity) (mesh.Entity, float64) {
	e := r.m.FindUpward(topo.Edge, []mesh.Entity{a, b})
	if e == mesh.None {
		r.fatal("no edge between %v and %v", a, b)
	}
	tv, err := r.m.GetDoubleTag(e, r.place)
	if err != nil {
		r.fatal("edge %v has no placement", e)
	}
	t := tv[0]
	ev := r.m.Downward(e, 0)
	if ev[0] != a {
		t = 1 - t
	}
	return r.findSplitVertOnEdge(e), t
}

// findQuadSplitVert returns the centroid vertex assigned to quad q by
// the quad template.
func (r *Refiner) findQuadSplitVert(q mesh.Entity) mesh.Entity {
	v, err := r.m.GetIntTag(q, r.splitVert)
	if err != nil {
		r.fatal("quad %v has no centroid vertex", q)
	}
	return mesh.Entity(v[0])
}

// diagonalFromFlag returns the preset diagonal rotation of quad q,
// -1 when none was set.
func (r *Refiner) diagonalFromFlag(q mesh.Entity) int {
	v, err := r.m.GetIntTag(q, r.diag)
	if err != nil {
		return -1
	}
	return int(v[0])
}

// distance returns the spatial distance between two vertices.
func (r *Refiner) distance(a, b mesh.Entity) float64 {
	return r.m.Point(b).Sub(r.m.Point(a)).Norm()
}

// closestPair returns the index of the pair with the smallest vertex
// distance; exact ties keep the lowest index.
func (r *Refiner) closestPair(pairs [][2]mesh.Entity) int {
	best := 0
	bestDist := r.distance(pairs[0][0], pairs[0][1])
	for i := 1; i < len(pairs); i++ {
		if d := r.distance(pairs[i][0], pairs[i][1]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (r *Refiner) fatal(format string, args ...any) {
	r.log.Error().Msgf(format, args...)
	panic(fmt.Errorf("%w: %s", ErrTopology, fmt.Sprintf(format, args...)))
}
