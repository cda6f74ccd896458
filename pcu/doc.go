// Package pcu declares the collective message-passing layer the mesh core
// blocks on: phased point-to-point messages and array reductions across
// the parts of a distributed mesh.
//
// The core consumes the Comm interface only. A message phase is
// Begin -> Pack* -> Send -> (Listen -> Unpack*)* and is collective: every
// part enters Send before any part's Listen drains. Delivery within a
// phase is reliable and exactly-once per peer pair; ordering between
// peers is unspecified, so protocols built on it must be commutative.
//
// NewGroup returns an in-process implementation running each part on its
// own goroutine with barrier-synchronised phases. It backs the package
// tests and any single-binary multi-part run; an MPI-backed Comm can be
// substituted without touching the core.
package pcu
