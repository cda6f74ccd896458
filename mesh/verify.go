package mesh

import (
	"fmt"

	"github.com/unstruct/meshadapt/topo"
)

// Verify checks the local database invariants: downward closure, upward
// consistency, uniqueness by vertex set, and that every entity resolves
// through the element finder. It is meant for tests and returns the
// first violation found.
func (m *Mesh) Verify() error {
	for d := 1; d <= m.dim; d++ {
		it := m.Begin(d)
		for e, ok := it.Next(); ok; e, ok = it.Next() {
			r := m.rec(e)
			for _, de := range r.down {
				dr := m.rec(de)
				if dr == nil {
					return fmt.Errorf("downward closure: %v lists dead %v", e, de)
				}
				if de.Dim() != d-1 {
					return fmt.Errorf("downward closure: %v lists %v of dimension %d", e, de, de.Dim())
				}
				n := 0
				for _, u := range dr.up {
					if u == e {
						n++
					}
				}
				if n != 1 {
					return fmt.Errorf("upward consistency: %v appears %d times in up(%v)", e, n, de)
				}
			}
			if found := m.FindElement(e.Kind(), m.vertexClosure(e)); found != e {
				return fmt.Errorf("finder: FindElement of %v returned %v", e, found)
			}
		}
	}
	// upward bags only hold live entities one dimension above
	for d := 0; d < m.dim; d++ {
		it := m.Begin(d)
		for e, ok := it.Next(); ok; e, ok = it.Next() {
			for _, u := range m.rec(e).up {
				ur := m.rec(u)
				if ur == nil {
					return fmt.Errorf("upward consistency: up(%v) lists dead %v", e, u)
				}
				if u.Dim() != d+1 {
					return fmt.Errorf("upward consistency: up(%v) lists %v of dimension %d", e, u, u.Dim())
				}
			}
		}
	}
	// uniqueness by vertex set
	for d := 1; d <= m.dim; d++ {
		seen := make(map[string]Entity)
		it := m.Begin(d)
		for e, ok := it.Next(); ok; e, ok = it.Next() {
			key := closureKey(e.Kind(), m.vertexClosure(e))
			if prev, ok := seen[key]; ok {
				return fmt.Errorf("uniqueness: %v and %v share a vertex closure", prev, e)
			}
			seen[key] = e
		}
	}
	return nil
}

// closureKey builds an order-independent key for a kind and vertex set.
func closureKey(k topo.Kind, verts []Entity) string {
	sorted := append([]Entity(nil), verts...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	key := fmt.Sprintf("%d:", k)
	for _, v := range sorted {
		key += fmt.Sprintf("%x,", uint64(v))
	}
	return key
}
