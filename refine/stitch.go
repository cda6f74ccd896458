package refine

import (
	"encoding/binary"

	"github.com/unstruct/meshadapt/mesh"
	"github.com/unstruct/meshadapt/pcu"
	"github.com/unstruct/meshadapt/topo"
)

// Remote reconciliation after refinement: split vertices and child
// edges born on part-boundary entities get remote copies wired up so
// all parts observe identical shared topology. Both phases are
// commutative per-sender overwrites, so message ordering is free.

func packHandle(c pcu.Comm, to int, e mesh.Entity) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(e))
	c.Pack(to, b[:])
}

func unpackHandle(c pcu.Comm) mesh.Entity {
	return mesh.Entity(binary.LittleEndian.Uint64(c.Unpack(8)))
}

// stitch runs the two collective phases while split parents still
// exist: first the placed vertices, then the child half-edges.
func (r *Refiner) stitch(c pcu.Comm) {
	r.stitchVerts(c)
	r.stitchChildEdges(c)
}

// stitchVerts exchanges (shared parent entity, new vertex) pairs; the
// receiver attaches the sender's vertex as a remote copy of its own
// placed vertex on the same parent.
func (r *Refiner) stitchVerts(c pcu.Comm) {
	m := r.m
	c.Begin()
	for _, e := range r.marked {
		if !m.Shared(e) {
			continue
		}
		sv := r.findSplitVertOnEdge(e)
		for peer, re := range m.Remotes(e) {
			packHandle(c, peer, re)
			packHandle(c, peer, sv)
		}
	}
	c.Send()
	for c.Listen() {
		from := c.Sender()
		for !c.Unpacked() {
			myParent := unpackHandle(c)
			theirVert := unpackHandle(c)
			myVert := r.findSplitVertOnEdge(myParent)
			m.AddRemote(myVert, from, theirVert)
		}
	}
}

// stitchChildEdges exchanges, per shared split edge and endpoint, the
// local child half-edge; the receiver matches it to its own half
// through the endpoint's copy.
func (r *Refiner) stitchChildEdges(c pcu.Comm) {
	m := r.m
	c.Begin()
	for _, e := range r.marked {
		if !m.Shared(e) {
			continue
		}
		sv := r.findSplitVertOnEdge(e)
		ev := m.Downward(e, 0)
		for peer, re := range m.Remotes(e) {
			for _, end := range ev {
				endRemote, ok := m.Remotes(end)[peer]
				if !ok {
					r.fatal("endpoint %v of shared edge %v has no copy on part %d", end, e, peer)
				}
				child := m.FindUpward(topo.Edge, []mesh.Entity{end, sv})
				packHandle(c, peer, re)
				packHandle(c, peer, endRemote)
				packHandle(c, peer, child)
			}
		}
	}
	c.Send()
	for c.Listen() {
		from := c.Sender()
		for !c.Unpacked() {
			myParent := unpackHandle(c)
			myEndpoint := unpackHandle(c)
			theirChild := unpackHandle(c)
			sv := r.findSplitVertOnEdge(myParent)
			myChild := m.FindUpward(topo.Edge, []mesh.Entity{myEndpoint, sv})
			if myChild == mesh.None {
				r.fatal("no child edge at endpoint %v of %v", myEndpoint, myParent)
			}
			m.AddRemote(myChild, from, theirChild)
		}
	}
}
