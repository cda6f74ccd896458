package mesh

import (
	"github.com/unstruct/meshadapt/model"
	"github.com/unstruct/meshadapt/topo"
)

// sameContent reports whether a and b hold the same entities regardless
// of order.
func sameContent(a, b []Entity) bool {
	for _, e := range a {
		found := false
		for _, f := range b {
			if e == f {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FindUpward returns the unique entity of kind k whose dim-1 downward
// set equals down (order-independent), or None. Cost is linear in the
// upward degree of down[0].
func (m *Mesh) FindUpward(k topo.Kind, down []Entity) Entity {
	if len(down) == 0 || down[0] == None {
		return None
	}
	for _, up := range m.mustRec(down[0]).up {
		if up.Kind() != k {
			continue
		}
		if sameContent(down, m.mustRec(up).down) {
			return up
		}
	}
	return None
}

// vertOp resolves one sub-entity of a kind from its vertex sub-tuple.
// The finder and the builder differ only in this operation.
type vertOp func(k topo.Kind, verts []Entity) Entity

// runDown synthesises the downward tuple of kind k from its vertex
// closure, resolving each sub-entity through op.
func runDown(k topo.Kind, verts []Entity, op vertOp) []Entity {
	if k == topo.Edge {
		return []Entity{verts[0], verts[1]}
	}
	spec := downVertSpec(k)
	kinds := downKinds(k)
	down := make([]Entity, len(spec))
	var sub [4]Entity
	for i, locals := range spec {
		for j, l := range locals {
			sub[j] = verts[l]
		}
		down[i] = op(kinds[i], sub[:len(locals)])
		if down[i] == None {
			return nil
		}
	}
	return down
}

// FindElement returns the unique entity of kind k whose vertex closure
// equals verts, or None. Sub-entities are synthesised recursively from
// the canonical vertex sub-tuples, then matched bottom-up.
func (m *Mesh) FindElement(k topo.Kind, verts []Entity) Entity {
	var find vertOp
	find = func(k topo.Kind, v []Entity) Entity {
		if k == topo.Vertex {
			return v[0]
		}
		if k == topo.Edge {
			return m.FindUpward(topo.Edge, v)
		}
		down := runDown(k, v, find)
		if down == nil {
			return None
		}
		return m.FindUpward(k, down)
	}
	return find(k, verts)
}

// BuildOrFind returns the entity of kind k spanning verts, creating it
// and any missing sub-entities classified on model entity c. cb, when
// non-nil, observes every entity created. Existing entities, including
// those built from adjacent elements sharing a face, are reused.
func (m *Mesh) BuildOrFind(k topo.Kind, c model.Entity, verts []Entity, cb BuildCallback) (Entity, error) {
	var build vertOp
	var buildErr error
	build = func(k topo.Kind, v []Entity) Entity {
		if buildErr != nil {
			return None
		}
		if k == topo.Vertex {
			return v[0]
		}
		var down []Entity
		if k == topo.Edge {
			if e := m.FindUpward(topo.Edge, v); e != None {
				return e
			}
			down = []Entity{v[0], v[1]}
		} else {
			down = runDown(k, v, build)
			if buildErr != nil {
				return None
			}
			if e := m.FindUpward(k, down); e != None {
				return e
			}
		}
		e, err := m.CreateEntity(k, c, down)
		if err != nil {
			buildErr = err
			return None
		}
		if cb != nil {
			cb(e)
		}
		return e
	}
	e := build(k, verts)
	if buildErr != nil {
		return None, buildErr
	}
	return e, nil
}

// RebuildElement re-creates original with newVert substituted for
// oldVert throughout its closure, reusing unchanged sub-entities.
func (m *Mesh) RebuildElement(original, oldVert, newVert Entity, cb BuildCallback) (Entity, error) {
	verts := append([]Entity(nil), m.vertexClosure(original)...)
	for i, v := range verts {
		if v == oldVert {
			verts[i] = newVert
		}
	}
	return m.BuildOrFind(original.Kind(), m.Model(original), verts, cb)
}

// FindTriFromVerts returns the triangle spanning the three vertices,
// or None.
func (m *Mesh) FindTriFromVerts(v []Entity) Entity {
	return m.FindElement(topo.Triangle, v)
}
