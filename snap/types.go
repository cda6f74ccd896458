package snap

import (
	"errors"
	"os"

	"github.com/rs/zerolog"

	"github.com/unstruct/meshadapt/mesh"
)

// ErrNoGeometry is returned when snapping a mesh with no attached
// geometric model.
var ErrNoGeometry = errors.New("snap: mesh has no geometric model")

// snapFlagTagName marks vertices awaiting a snap attempt.
const snapFlagTagName = "ma_snap_flag"

// Reserved tag and field names for geometry inspection.
const (
	GeomDimTagName = "ma_geom_dim"
	GeomIDTagName  = "ma_geom_id"
	ParamFieldName = "ma_param"
)

// Validator judges one element after a trial vertex move. The default
// accepts strictly positive measure: inverted tets measure negative and
// degenerate elements measure zero.
type Validator func(m *mesh.Mesh, e mesh.Entity) bool

func defaultValidator(m *mesh.Mesh, e mesh.Entity) bool {
	return m.Measure(e) > 0
}

// Option configures a snapping pass.
type Option func(*Snapper)

// WithValidator replaces the element-validity predicate.
func WithValidator(v Validator) Option {
	return func(s *Snapper) { s.valid = v }
}

// WithLogger replaces the pass logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Snapper) { s.log = log }
}

// Stats reports one collective snapping pass.
type Stats struct {
	// Target counts owned vertices flagged for snapping, summed over
	// parts.
	Target int64
	// Snapped counts successful moves, summed over parts.
	Snapped int64
}

func defaultLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
