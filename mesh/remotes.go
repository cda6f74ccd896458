package mesh

// Remote copies tie an entity to its images on other parts. The copy
// relation is symmetric and transitive: if A on part P lists (Q, B),
// then B on Q lists (P, A) and every other copy. Matches are the
// analogous relation for periodic identifications and may pair entities
// within one part.

// Remotes returns a copy of e's remote-copy table; empty for purely
// local entities.
func (m *Mesh) Remotes(e Entity) Copies {
	m.mustRec(e)
	out := make(Copies, len(m.remotes[e]))
	for p, r := range m.remotes[e] {
		out[p] = r
	}
	return out
}

// SetRemotes replaces e's remote-copy table.
func (m *Mesh) SetRemotes(e Entity, c Copies) {
	m.mustRec(e)
	if len(c) == 0 {
		delete(m.remotes, e)
		return
	}
	cp := make(Copies, len(c))
	for p, r := range c {
		cp[p] = r
	}
	m.remotes[e] = cp
}

// AddRemote records copy r of e on part p.
func (m *Mesh) AddRemote(e Entity, p int, r Entity) {
	m.mustRec(e)
	c, ok := m.remotes[e]
	if !ok {
		c = make(Copies, 1)
		m.remotes[e] = c
	}
	c[p] = r
}

// Shared reports whether e has remote copies.
func (m *Mesh) Shared(e Entity) bool {
	m.mustRec(e)
	return len(m.remotes[e]) > 0
}

// Owned reports whether this part owns e: no copy lives on a part with
// a lower id.
func (m *Mesh) Owned(e Entity) bool {
	m.mustRec(e)
	for p := range m.remotes[e] {
		if p < m.self {
			return false
		}
	}
	return true
}

// Matches returns e's matched copies, nil when none.
func (m *Mesh) Matches(e Entity) []Copy {
	m.mustRec(e)
	return append([]Copy(nil), m.matches[e]...)
}

// AddMatch records a matched copy of e.
func (m *Mesh) AddMatch(e Entity, c Copy) {
	m.mustRec(e)
	m.matches[e] = append(m.matches[e], c)
	m.matching = true
}

// HasMatching reports whether any matches were recorded.
func (m *Mesh) HasMatching() bool { return m.matching }

// HasCopies reports whether e has copies under the relation in force:
// matches when matching is enabled, remote copies otherwise.
func (m *Mesh) HasCopies(e Entity) bool {
	if !m.matching {
		return m.Shared(e)
	}
	m.mustRec(e)
	return len(m.matches[e]) > 0
}

// Original reports whether e is the canonical representative of its
// copy class: the lowest part id wins, with the entity handle breaking
// ties on the same part.
func (m *Mesh) Original(e Entity) bool {
	if !m.matching {
		return m.Owned(e)
	}
	m.mustRec(e)
	for _, c := range m.matches[e] {
		if c.Part < m.self {
			return false
		}
		if c.Part == m.self && c.Entity < e {
			return false
		}
	}
	return true
}
