package pcu

import "errors"

// ErrPhase is returned (via panic in the local implementation) when the
// phase protocol is violated, e.g. Pack outside Begin/Send.
var ErrPhase = errors.New("pcu: message phase protocol violation")

// Comm is one part's endpoint into the collective layer.
//
// All collective calls (Send, the reductions) must be entered by every
// part of the group, in the same order. No call is safe for concurrent
// use within one part; parts are single-threaded by design.
type Comm interface {
	// Self returns this part's id, 0-based and dense.
	Self() int
	// Peers returns the number of parts in the group.
	Peers() int

	// Begin opens a message phase, discarding any stale buffers.
	Begin()
	// Pack queues bytes for delivery to part `to` when Send runs.
	// Multiple Packs to the same peer concatenate into one message.
	Pack(to int, b []byte)
	// Send closes the packing side of the phase. Collective.
	Send()
	// Listen advances to the next received message, returning false
	// once the phase is drained.
	Listen() bool
	// Sender returns the part id of the current message.
	Sender() int
	// Unpack consumes and returns the next n bytes of the current
	// message.
	Unpack(n int) []byte
	// Unpacked reports whether the current message is fully consumed.
	Unpacked() bool

	// AddDoubles replaces x with the elementwise sum across parts.
	AddDoubles(x []float64)
	// MinDoubles replaces x with the elementwise minimum across parts.
	MinDoubles(x []float64)
	// MaxDoubles replaces x with the elementwise maximum across parts.
	MaxDoubles(x []float64)
	// AddInts replaces x with the elementwise sum across parts.
	AddInts(x []int64)
	// ExscanInts replaces x with the elementwise exclusive prefix sum
	// over parts of lower id; part 0 receives zeros.
	ExscanInts(x []int64)
}
