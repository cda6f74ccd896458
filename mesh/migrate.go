package mesh

// MigrateTagName is the reserved tag backing migration plans.
const MigrateTagName = "apf_migrate"

// Migration is a plan mapping top-dimension elements to target parts.
// The plan is tag-backed; Close strips the tag when the plan is done.
type Migration struct {
	mesh     *Mesh
	tag      *Tag
	elements []Entity
}

// NewMigration opens an empty plan on m.
func NewMigration(m *Mesh) (*Migration, error) {
	tag, err := m.CreateTag(MigrateTagName, IntTag, 1)
	if err != nil {
		return nil, err
	}
	return &Migration{mesh: m, tag: tag}, nil
}

// Count returns the number of planned elements.
func (g *Migration) Count() int { return len(g.elements) }

// Get returns the i-th planned element in insertion order.
func (g *Migration) Get(i int) Entity { return g.elements[i] }

// Has reports whether e is in the plan.
func (g *Migration) Has(e Entity) bool { return g.mesh.HasTag(e, g.tag) }

// Send plans element e for migration to part `to`, overwriting any
// earlier destination.
func (g *Migration) Send(e Entity, to int) {
	if !g.Has(e) {
		g.elements = append(g.elements, e)
	}
	g.mesh.SetIntTag(e, g.tag, []int64{int64(to)})
}

// Sending returns the planned destination of e.
func (g *Migration) Sending(e Entity) int {
	v, err := g.mesh.GetIntTag(e, g.tag)
	if err != nil {
		panic(err)
	}
	return int(v[0])
}

// Close strips the plan tag from all planned elements and destroys it.
func (g *Migration) Close() {
	for _, e := range g.elements {
		if g.mesh.Lives(e) {
			g.mesh.RemoveTag(e, g.tag)
		}
	}
	g.mesh.DestroyTag(g.tag)
}
