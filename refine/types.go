package refine

import (
	"errors"
	"os"

	"github.com/rs/zerolog"

	"github.com/unstruct/meshadapt/mesh"
)

// Sentinel errors for the refinement driver.
var (
	// ErrTopology is the panic value wrapper for template precondition
	// violations: a programmer error, never recoverable.
	ErrTopology = errors.New("refine: topology contradiction")

	// ErrNotAnEdge is returned when Mark is given a non-edge entity.
	ErrNotAnEdge = errors.New("refine: split target is not an edge")

	// ErrBadPlacement is returned when a placement parameter falls
	// outside (0,1).
	ErrBadPlacement = errors.New("refine: placement parameter outside (0,1)")

	// ErrAlreadyMarked is returned when an edge is marked twice.
	ErrAlreadyMarked = errors.New("refine: edge already marked")
)

// Reserved tag names used by the driver.
const (
	splitVertTagName = "ma_split_vert"
	placeTagName     = "ma_split_place"
	parentTagName    = "ma_parent"
	diagTagName      = "ma_quad_diag"
)

// SolutionTransfer observes refinement so field data can follow the
// mesh. OnVertex runs after every template-created vertex with the
// parent element and the vertex's element-local coordinate; OnRefine
// runs once per refined element with its same-dimension children.
type SolutionTransfer interface {
	OnVertex(parent mesh.Entity, xi [3]float64, vert mesh.Entity)
	OnRefine(parent mesh.Entity, children []mesh.Entity)
}

// NopTransfer is the default SolutionTransfer; it ignores everything.
type NopTransfer struct{}

// OnVertex implements SolutionTransfer.
func (NopTransfer) OnVertex(mesh.Entity, [3]float64, mesh.Entity) {}

// OnRefine implements SolutionTransfer.
func (NopTransfer) OnRefine(mesh.Entity, []mesh.Entity) {}

// Option configures a Refiner.
type Option func(*Refiner)

// WithTransfer installs the solution-transfer callback.
func WithTransfer(t SolutionTransfer) Option {
	return func(r *Refiner) { r.transfer = t }
}

// WithBuildCallback installs a callback observing every created entity.
func WithBuildCallback(cb mesh.BuildCallback) Option {
	return func(r *Refiner) { r.cb = cb }
}

// WithLogger replaces the driver's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Refiner) { r.log = log }
}

// Result summarises one refinement pass.
type Result struct {
	// SplitEdges counts the edges carrying a placed split.
	SplitEdges int
	// NewVertices counts vertices the pass created, centroids included.
	NewVertices int
	// Refined counts elements per dimension that were subdivided and
	// replaced by children.
	Refined [4]int
}

func defaultLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
