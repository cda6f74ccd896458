// Package reorder renumbers a mesh breadth-first for cache locality and
// rebuilds it in the new order.
//
// Numbering seeds at a vertex on the lowest-dimensional model entity
// and walks vertices breadth-first along edges; every entity is labeled
// the first time the front touches it, with per-kind labels counting
// down. Rebuild creates a fresh mesh whose arena order follows the
// labels, then runs the collective remote-update protocol so every part
// replaces its stale copy handles with the peers' new ones. The update
// messages are independent per-sender overwrites, so their order within
// a phase does not matter.
package reorder
