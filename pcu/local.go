package pcu

import (
	"sort"
	"sync"
)

// message is one delivered buffer with its sender.
type message struct {
	from int
	data []byte
}

// group holds the shared state of an in-process part group: a reusable
// barrier, per-receiver mailboxes, and reduction scratch buffers.
type group struct {
	n    int
	mu   sync.Mutex
	cond *sync.Cond

	arrived    int
	generation int

	mail [][]message

	dbuf    []float64
	ibuf    []int64
	contrib [][]int64
}

// barrier blocks until all n parts arrive. onLast, if non-nil, runs under
// the group lock in the last arriving part before the others resume.
func (g *group) barrier(onLast func()) {
	g.mu.Lock()
	gen := g.generation
	g.arrived++
	if g.arrived == g.n {
		if onLast != nil {
			onLast()
		}
		g.arrived = 0
		g.generation++
		g.cond.Broadcast()
	} else {
		for gen == g.generation {
			g.cond.Wait()
		}
	}
	g.mu.Unlock()
}

// Local is one part's endpoint of an in-process group. Run each part on
// its own goroutine; a Local is not safe for concurrent use.
type Local struct {
	g       *group
	self    int
	inPhase bool
	out     map[int][]byte

	incoming []message
	cur      int
	pos      int
}

// NewGroup creates an in-process group of n parts and returns their
// endpoints, indexed by part id.
func NewGroup(n int) []*Local {
	g := &group{n: n, mail: make([][]message, n)}
	g.cond = sync.NewCond(&g.mu)
	parts := make([]*Local, n)
	for i := range parts {
		parts[i] = &Local{g: g, self: i}
	}
	return parts
}

// Self returns this part's id.
func (c *Local) Self() int { return c.self }

// Peers returns the number of parts in the group.
func (c *Local) Peers() int { return c.g.n }

// Begin opens a message phase.
func (c *Local) Begin() {
	c.out = make(map[int][]byte)
	c.incoming = nil
	c.cur = -1
	c.inPhase = true
}

// Pack queues bytes for peer `to`.
func (c *Local) Pack(to int, b []byte) {
	if !c.inPhase {
		panic(ErrPhase)
	}
	c.out[to] = append(c.out[to], b...)
}

// Send closes the packing side of the phase and exchanges buffers.
// Collective.
func (c *Local) Send() {
	if !c.inPhase {
		panic(ErrPhase)
	}
	c.inPhase = false
	g := c.g
	g.mu.Lock()
	for to, b := range c.out {
		g.mail[to] = append(g.mail[to], message{from: c.self, data: b})
	}
	g.mu.Unlock()
	c.out = nil
	g.barrier(nil)
	g.mu.Lock()
	c.incoming = g.mail[c.self]
	g.mail[c.self] = nil
	g.mu.Unlock()
	// deterministic drain order; receivers must not depend on it
	sort.Slice(c.incoming, func(i, j int) bool {
		return c.incoming[i].from < c.incoming[j].from
	})
	g.barrier(nil)
}

// Listen advances to the next received message.
func (c *Local) Listen() bool {
	c.cur++
	c.pos = 0
	return c.cur < len(c.incoming)
}

// Sender returns the part id of the current message.
func (c *Local) Sender() int { return c.incoming[c.cur].from }

// Unpack consumes the next n bytes of the current message.
func (c *Local) Unpack(n int) []byte {
	m := c.incoming[c.cur]
	if c.pos+n > len(m.data) {
		panic(ErrPhase)
	}
	b := m.data[c.pos : c.pos+n]
	c.pos += n
	return b
}

// Unpacked reports whether the current message is fully consumed.
func (c *Local) Unpacked() bool {
	return c.pos >= len(c.incoming[c.cur].data)
}

func (c *Local) reduceDoubles(x []float64, merge func(acc []float64, v []float64)) {
	g := c.g
	g.mu.Lock()
	if g.dbuf == nil {
		g.dbuf = append([]float64(nil), x...)
	} else {
		merge(g.dbuf, x)
	}
	g.mu.Unlock()
	g.barrier(nil)
	g.mu.Lock()
	copy(x, g.dbuf)
	g.mu.Unlock()
	g.barrier(func() { g.dbuf = nil })
}

// AddDoubles replaces x with the elementwise sum across parts.
func (c *Local) AddDoubles(x []float64) {
	c.reduceDoubles(x, func(acc, v []float64) {
		for i := range acc {
			acc[i] += v[i]
		}
	})
}

// MinDoubles replaces x with the elementwise minimum across parts.
func (c *Local) MinDoubles(x []float64) {
	c.reduceDoubles(x, func(acc, v []float64) {
		for i := range acc {
			if v[i] < acc[i] {
				acc[i] = v[i]
			}
		}
	})
}

// MaxDoubles replaces x with the elementwise maximum across parts.
func (c *Local) MaxDoubles(x []float64) {
	c.reduceDoubles(x, func(acc, v []float64) {
		for i := range acc {
			if v[i] > acc[i] {
				acc[i] = v[i]
			}
		}
	})
}

// AddInts replaces x with the elementwise sum across parts.
func (c *Local) AddInts(x []int64) {
	g := c.g
	g.mu.Lock()
	if g.ibuf == nil {
		g.ibuf = append([]int64(nil), x...)
	} else {
		for i := range g.ibuf {
			g.ibuf[i] += x[i]
		}
	}
	g.mu.Unlock()
	g.barrier(nil)
	g.mu.Lock()
	copy(x, g.ibuf)
	g.mu.Unlock()
	g.barrier(func() { g.ibuf = nil })
}

// ExscanInts replaces x with the elementwise sum over parts of lower id.
func (c *Local) ExscanInts(x []int64) {
	g := c.g
	g.mu.Lock()
	if g.contrib == nil {
		g.contrib = make([][]int64, g.n)
	}
	g.contrib[c.self] = append([]int64(nil), x...)
	g.mu.Unlock()
	g.barrier(nil)
	g.mu.Lock()
	for i := range x {
		x[i] = 0
	}
	for p := 0; p < c.self; p++ {
		for i := range x {
			x[i] += g.contrib[p][i]
		}
	}
	g.mu.Unlock()
	g.barrier(func() { g.contrib = nil })
}

var _ Comm = (*Local)(nil)
