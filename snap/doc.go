// Package snap moves refinement-born boundary vertices onto the
// geometric model.
//
// Refinement places a new boundary vertex on the straight line between
// its edge's endpoints, with a parametric coordinate interpolated on the
// model entity. Snapping evaluates the model at that parametric
// coordinate and moves the vertex to the resulting point - unless doing
// so would invalidate an incident element, in which case the vertex
// rolls back to where it was and the attempt counts as a failure. Either
// way the vertex's snap flag clears, so the operation is idempotent
// after success and side-effect free after failure.
//
// The snapper runs as a cavity operation: a vertex is only processed
// once its whole upward closure is on the local part; otherwise the
// sweep requests locality and retries on the next round. Sweeps are
// collective and end only when every part reports no remaining work.
package snap
