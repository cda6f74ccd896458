package snap

import (
	"github.com/rs/zerolog"

	"github.com/unstruct/meshadapt/mesh"
	"github.com/unstruct/meshadapt/pcu"
	"github.com/unstruct/meshadapt/refine"
)

// Snapper is the cavity operator moving flagged vertices onto the
// model.
type Snapper struct {
	m     *mesh.Mesh
	flag  *mesh.Tag
	valid Validator
	log   zerolog.Logger

	successCount int64
}

// NewSnapper builds a snapper over m with its snap-flag tag in place.
func NewSnapper(m *mesh.Mesh, opts ...Option) (*Snapper, error) {
	if m.Geometry() == nil {
		return nil, ErrNoGeometry
	}
	s := &Snapper{m: m, valid: defaultValidator, log: defaultLogger()}
	for _, opt := range opts {
		opt(s)
	}
	flag := m.FindTag(snapFlagTagName)
	if flag == nil {
		var err error
		flag, err = m.CreateTag(snapFlagTagName, mesh.IntTag, 1)
		if err != nil {
			return nil, err
		}
	}
	s.flag = flag
	return s, nil
}

// Flag marks vertex v for a snap attempt.
func (s *Snapper) Flag(v mesh.Entity) {
	s.m.SetIntTag(v, s.flag, []int64{1})
}

// Flagged reports whether v awaits a snap attempt.
func (s *Snapper) Flagged(v mesh.Entity) bool {
	return s.m.HasTag(v, s.flag)
}

// snapPoint evaluates the model under v's classification at v's
// parametric coordinate.
func (s *Snapper) snapPoint(v mesh.Entity) mesh.Vector {
	g := s.m.Model(v)
	x := s.m.Geometry().SnapTo(g, s.m.Param(v))
	return mesh.Vector{x[0], x[1], x[2]}
}

// Probe implements Operator: flagged vertices whose cavity is local are
// granted; shared vertices request locality.
func (s *Snapper) Probe(v mesh.Entity) Outcome {
	if !s.Flagged(v) {
		return Skip
	}
	if s.m.Shared(v) {
		return Request
	}
	return Ok
}

// Apply implements Operator: move the vertex to its snap point, roll
// back if any incident element goes invalid, and clear the flag either
// way.
func (s *Snapper) Apply(v mesh.Entity) {
	m := s.m
	original := m.Point(v)
	m.SetPoint(v, s.snapPoint(v))
	success := true
	for _, e := range m.Adjacent(v, m.Dim()) {
		if !s.valid(m, e) {
			m.SetPoint(v, original)
			success = false
			break
		}
	}
	if success {
		s.successCount++
	}
	m.RemoveTag(v, s.flag)
}

// SuccessCount returns the number of successful snaps so far.
func (s *Snapper) SuccessCount() int64 { return s.successCount }

// MarkNewVertices flags the vertices a refinement pass placed on model
// boundary entities and returns how many are owned locally. Mid-quad
// and centroid vertices are not snapped.
func (s *Snapper) MarkNewVertices(r *refine.Refiner) int64 {
	var count int64
	dim := s.m.Dim()
	for _, v := range r.EdgeSplitVertices() {
		if s.m.ModelDim(v) == dim {
			continue
		}
		s.Flag(v)
		if s.m.Owned(v) {
			count++
		}
	}
	return count
}

// Snap runs one collective snapping pass over the vertices flagged by
// the refinement pass r. It returns the global target and success
// counts.
func Snap(c pcu.Comm, r *refine.Refiner, opts ...Option) (Stats, error) {
	s, err := NewSnapper(r.Mesh(), opts...)
	if err != nil {
		return Stats{}, err
	}
	counts := [2]int64{s.MarkNewVertices(r), 0}
	RunCavities(c, s.m, 0, s, nil, s.log)
	counts[1] = s.successCount
	c.AddInts(counts[:])
	stats := Stats{Target: counts[0], Snapped: counts[1]}
	s.log.Info().
		Int64("snapped", stats.Snapped).
		Int64("of", stats.Target).
		Msg("snapped vertices")
	return stats, nil
}

// AttachGeometryInfo tags every vertex with its model dimension and id
// and stores its parametric coordinate in the ma_param field, for
// inspection by external writers. The caller owns the created tags and
// field.
func AttachGeometryInfo(m *mesh.Mesh) error {
	dimTag, err := m.CreateTag(GeomDimTagName, mesh.IntTag, 1)
	if err != nil {
		return err
	}
	idTag, err := m.CreateTag(GeomIDTagName, mesh.IntTag, 1)
	if err != nil {
		return err
	}
	field, err := m.AddField(ParamFieldName, 3)
	if err != nil {
		return err
	}
	it := m.Begin(0)
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		c := m.Model(v)
		d, id := m.Dim(), 0
		if c != nil {
			d, id = c.Dim(), c.ID()
		}
		m.SetIntTag(v, dimTag, []int64{int64(d)})
		m.SetIntTag(v, idTag, []int64{int64(id)})
		p := m.Param(v)
		field.Set(v, []float64{p[0], p[1], 0})
	}
	return nil
}
