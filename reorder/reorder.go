package reorder

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/unstruct/meshadapt/mesh"
	"github.com/unstruct/meshadapt/pcu"
	"github.com/unstruct/meshadapt/topo"
)

// Reserved tag names for the numbering and its inverse.
const (
	NumberTagName  = "mds_number"
	InverseTagName = "mds_inverse"
)

// ErrNotLabeled indicates the breadth-first walk missed entities, which
// means adjacency is inconsistent.
var ErrNotLabeled = errors.New("reorder: walk left entities unlabeled")

// walker carries the breadth-first numbering state.
type walker struct {
	m     *mesh.Mesh
	tag   *mesh.Tag
	label [topo.KindCount]int64
	queue []mesh.Entity
}

// visit labels e once, returning true on first contact.
func (w *walker) visit(e mesh.Entity) bool {
	if w.m.HasTag(e, w.tag) {
		return false
	}
	k := e.Kind()
	w.m.SetIntTag(e, w.tag, []int64{w.label[k]})
	w.label[k]--
	return true
}

// findSeed picks an unlabeled vertex on the lowest-dimensional model
// entity, None when all are labeled.
func (w *walker) findSeed() mesh.Entity {
	bestDim := 4
	best := mesh.None
	it := w.m.Begin(0)
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		if w.m.HasTag(v, w.tag) {
			continue
		}
		if d := w.m.ModelDim(v); d < bestDim {
			bestDim = d
			best = v
		}
	}
	return best
}

// Number walks the mesh breadth-first and returns the mds_number tag:
// per-kind labels descending from count-1 in discovery order.
// Disconnected pieces are walked from fresh seeds.
func Number(m *mesh.Mesh) (*mesh.Tag, error) {
	tag, err := m.CreateTag(NumberTagName, mesh.IntTag, 1)
	if err != nil {
		return nil, err
	}
	w := &walker{m: m, tag: tag}
	for k := topo.Kind(0); k < topo.KindCount; k++ {
		w.label[k] = int64(m.CountKind(k)) - 1
	}
	for {
		seed := w.findSeed()
		if seed == mesh.None {
			break
		}
		w.visit(seed)
		w.queue = append(w.queue, seed)
		for len(w.queue) > 0 {
			v := w.queue[0]
			w.queue = w.queue[1:]
			// vertices across edges first, then everything upward
			for _, e := range w.m.Upward(v) {
				o := w.m.EdgeVertOppositeVert(e, v)
				if w.visit(o) {
					w.queue = append(w.queue, o)
				}
			}
			for d := 1; d <= w.m.Dim(); d++ {
				for _, e := range w.m.Adjacent(v, d) {
					w.visit(e)
				}
			}
		}
	}
	for k := topo.Kind(0); k < topo.KindCount; k++ {
		if w.label[k] != -1 {
			return nil, fmt.Errorf("%w: %v stopped at %d", ErrNotLabeled, k, w.label[k])
		}
	}
	return tag, nil
}

// Rebuild creates a fresh mesh whose arena order follows the
// breadth-first numbering and reconciles remote copies across parts.
// It returns the new mesh and the old-to-new handle mapping. Tags and
// non-coordinate fields do not transfer; callers move field data
// through the mapping. The old mesh is left intact.
func Rebuild(m *mesh.Mesh, c pcu.Comm) (*mesh.Mesh, map[mesh.Entity]mesh.Entity, error) {
	numTag, err := Number(m)
	if err != nil {
		return nil, nil, err
	}
	defer m.DestroyTag(numTag)

	m2 := mesh.New(m.Dim(), mesh.WithPart(m.Self()), mesh.WithGeometry(m.Geometry()))
	newOf := make(map[mesh.Entity]mesh.Entity)
	invTag, err := m2.CreateTag(InverseTagName, mesh.IntTag, 1)
	if err != nil {
		return nil, nil, err
	}

	for d := 0; d <= m.Dim(); d++ {
		// ascending label order makes new arena slots follow the labels
		byLabel := make(map[topo.Kind][]mesh.Entity)
		it := m.Begin(d)
		for e, ok := it.Next(); ok; e, ok = it.Next() {
			k := e.Kind()
			if byLabel[k] == nil {
				byLabel[k] = make([]mesh.Entity, m.CountKind(k))
			}
			l, err := m.GetIntTag(e, numTag)
			if err != nil {
				return nil, nil, err
			}
			byLabel[k][l[0]] = e
		}
		for _, kinds := range byLabel {
			for _, e := range kinds {
				var ne mesh.Entity
				if d == 0 {
					ne = m2.CreateVertex(m.Model(e), m.Point(e), m.Param(e))
				} else {
					down := m.Downward(e, d-1)
					newDown := make([]mesh.Entity, len(down))
					for i, de := range down {
						newDown[i] = newOf[de]
					}
					ne, err = m2.CreateEntity(e.Kind(), m.Model(e), newDown)
					if err != nil {
						return nil, nil, err
					}
				}
				newOf[e] = ne
				m2.SetIntTag(ne, invTag, []int64{int64(e)})
			}
		}
	}

	if c != nil {
		UpdateRemotes(m, m2, newOf, c)
	}
	return m2, newOf, nil
}

// UpdateRemotes runs the collective remote-update protocol after a
// rebuild: every part sends, per shared entity, the peer's old handle
// and its own new handle; receivers rebuild their copy tables keyed by
// sender. Collective; must complete before further mesh access.
func UpdateRemotes(old, rebuilt *mesh.Mesh, newOf map[mesh.Entity]mesh.Entity, c pcu.Comm) {
	c.Begin()
	var b [16]byte
	for d := 0; d <= old.Dim(); d++ {
		it := old.Begin(d)
		for e, ok := it.Next(); ok; e, ok = it.Next() {
			copies := old.Remotes(e)
			if len(copies) == 0 {
				continue
			}
			ne := newOf[e]
			for peer, pe := range copies {
				binary.LittleEndian.PutUint64(b[:8], uint64(pe))
				binary.LittleEndian.PutUint64(b[8:], uint64(ne))
				c.Pack(peer, b[:])
			}
		}
	}
	c.Send()
	for c.Listen() {
		from := c.Sender()
		for !c.Unpacked() {
			myOld := mesh.Entity(binary.LittleEndian.Uint64(c.Unpack(8)))
			theirNew := mesh.Entity(binary.LittleEndian.Uint64(c.Unpack(8)))
			rebuilt.AddRemote(newOf[myOld], from, theirNew)
		}
	}
}
