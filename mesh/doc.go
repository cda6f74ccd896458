// Package mesh is the in-memory mesh database: entities of all eight
// kinds held in per-kind arenas, downward and upward adjacency, geometric
// model classification, coordinate and parametric data, named tags,
// remote-copy tables for distributed meshes, and the bottom-up element
// finder.
//
// # Entities
//
// An Entity is a compact handle (kind plus arena index); the zero value
// None refers to nothing. Entities are created only through CreateVertex
// and CreateEntity, which atomically register upward pointers in every
// downward neighbour, and destroyed only through DestroyEntity, which
// refuses while upward references remain. BuildOrFind builds an element
// from its vertex closure, reusing every sub-entity that already exists
// and classifying any it must create onto the parent's model entity.
//
// # Invariants
//
// Between mutating operations the database maintains: downward closure
// (every listed downward entity exists one dimension lower), upward
// consistency (an entity appears exactly once in the upward bag of each
// downward neighbour), uniqueness by vertex set (at most one entity of a
// kind spans a given vertex closure), and remote-copy symmetry. Verify
// checks the local invariants and is meant for tests.
//
// # Concurrency
//
// A Mesh is confined to one process part and is not safe for concurrent
// mutation; the collective layer (package pcu) is the only cross-part
// channel. Do not mutate a dimension while iterating it.
package mesh
