package mesh

import "fmt"

// TagKind selects the payload type of a tag.
type TagKind uint8

const (
	// IntTag attaches fixed-size int64 payloads.
	IntTag TagKind = iota
	// DoubleTag attaches fixed-size float64 payloads.
	DoubleTag
	// PointerTag attaches fixed-size opaque payloads.
	PointerTag
)

// Tag is a named, typed side table attaching a fixed-size payload to
// selected entities. Attachment and removal are O(1); iterating the
// tagged set is linear in its size.
type Tag struct {
	name    string
	kind    TagKind
	count   int
	ints    map[Entity][]int64
	doubles map[Entity][]float64
	ptrs    map[Entity][]any
}

// Name returns the tag's name.
func (t *Tag) Name() string { return t.name }

// Kind returns the tag's payload kind.
func (t *Tag) Kind() TagKind { return t.kind }

// Count returns the number of payload components per entity.
func (t *Tag) Count() int { return t.count }

func (t *Tag) has(e Entity) bool {
	switch t.kind {
	case IntTag:
		_, ok := t.ints[e]
		return ok
	case DoubleTag:
		_, ok := t.doubles[e]
		return ok
	}
	_, ok := t.ptrs[e]
	return ok
}

func (t *Tag) drop(e Entity) {
	delete(t.ints, e)
	delete(t.doubles, e)
	delete(t.ptrs, e)
}

// Entities returns the tagged set in unspecified order.
func (t *Tag) Entities() []Entity {
	var out []Entity
	for e := range t.ints {
		out = append(out, e)
	}
	for e := range t.doubles {
		out = append(out, e)
	}
	for e := range t.ptrs {
		out = append(out, e)
	}
	return out
}

// CreateTag creates a tag with the given name, payload kind and
// component count. Duplicate names fail with ErrTagExists.
func (m *Mesh) CreateTag(name string, kind TagKind, count int) (*Tag, error) {
	if _, ok := m.tags[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrTagExists, name)
	}
	t := &Tag{name: name, kind: kind, count: count}
	switch kind {
	case IntTag:
		t.ints = make(map[Entity][]int64)
	case DoubleTag:
		t.doubles = make(map[Entity][]float64)
	default:
		t.ptrs = make(map[Entity][]any)
	}
	m.tags[name] = t
	return t, nil
}

// FindTag returns the tag with the given name, nil when absent.
func (m *Mesh) FindTag(name string) *Tag { return m.tags[name] }

// DestroyTag removes the tag and every attachment.
func (m *Mesh) DestroyTag(t *Tag) { delete(m.tags, t.name) }

// HasTag reports whether e carries t.
func (m *Mesh) HasTag(e Entity, t *Tag) bool {
	m.mustRec(e)
	return t.has(e)
}

// RemoveTag strips t from e.
func (m *Mesh) RemoveTag(e Entity, t *Tag) {
	m.mustRec(e)
	t.drop(e)
}

// SetIntTag attaches int payload vals to e.
func (m *Mesh) SetIntTag(e Entity, t *Tag, vals []int64) {
	m.mustRec(e)
	t.ints[e] = append([]int64(nil), vals...)
}

// GetIntTag reads e's int payload, failing with ErrMissingTag when
// absent.
func (m *Mesh) GetIntTag(e Entity, t *Tag) ([]int64, error) {
	m.mustRec(e)
	v, ok := t.ints[e]
	if !ok {
		return nil, fmt.Errorf("%w: %q on %v", ErrMissingTag, t.name, e)
	}
	return v, nil
}

// SetDoubleTag attaches double payload vals to e.
func (m *Mesh) SetDoubleTag(e Entity, t *Tag, vals []float64) {
	m.mustRec(e)
	t.doubles[e] = append([]float64(nil), vals...)
}

// GetDoubleTag reads e's double payload, failing with ErrMissingTag
// when absent.
func (m *Mesh) GetDoubleTag(e Entity, t *Tag) ([]float64, error) {
	m.mustRec(e)
	v, ok := t.doubles[e]
	if !ok {
		return nil, fmt.Errorf("%w: %q on %v", ErrMissingTag, t.name, e)
	}
	return v, nil
}

// RemoveTagFromDimension strips t from every entity of dimension d.
func (m *Mesh) RemoveTagFromDimension(t *Tag, d int) {
	it := m.Begin(d)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		t.drop(e)
	}
}
