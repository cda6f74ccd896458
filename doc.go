// Package meshadapt is the core of a parallel unstructured mesh
// adaptation system: a topological mesh database plus the local
// refinement engine and the snap operator that follow it.
//
// What lives where:
//
//	topo/    — canonical element topology: vertex orderings, rotation
//	           groups, and the edge-split-code dispatch tables
//	mesh/    — the mesh store: entities, adjacency, classification,
//	           tags, fields, remote copies, and the element finder
//	model/   — the geometric-model interface the core consumes, with
//	           analytic models for tests
//	pcu/     — the collective message-passing layer: phased messages
//	           and reductions, with an in-process implementation
//	refine/  — the refinement driver and the subdivision templates for
//	           tets, prisms, pyramids, quads and triangles
//	snap/    — the cavity framework and the snapper moving new
//	           boundary vertices onto the model
//	reorder/ — breadth-first renumbering, rebuild, and the remote
//	           update collective
//
// A typical adaptation step marks edges for splitting, runs the
// refinement driver, snaps the new boundary vertices, and reconciles
// remote copies:
//
//	r := refine.New(m)
//	for _, e := range marked {
//		r.Mark(e, 0.5)
//	}
//	r.Run(comm)
//	snap.Snap(comm, r)
//
// Every process holds one part of the distributed mesh; parts
// cooperate only through the pcu collective layer, and all cross-part
// protocols are commutative so message ordering never matters.
package meshadapt
