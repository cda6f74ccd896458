package mesh

import (
	"errors"
	"fmt"

	"github.com/unstruct/meshadapt/topo"
)

// Sentinel errors for mesh store operations.
var (
	// ErrInvalidHandle indicates a lookup on a destroyed or foreign
	// entity handle. This is a caller contract violation.
	ErrInvalidHandle = errors.New("mesh: invalid entity handle")

	// ErrTagExists indicates a tag name collision on creation.
	ErrTagExists = errors.New("mesh: tag already exists")

	// ErrMissingTag indicates a tag read from an entity that does not
	// carry the tag.
	ErrMissingTag = errors.New("mesh: entity does not carry tag")

	// ErrInvalidDownward indicates a downward tuple that does not
	// assemble into the requested kind.
	ErrInvalidDownward = errors.New("mesh: downward tuple does not form the kind")

	// ErrUpwardNotEmpty indicates destruction of an entity still
	// referenced by higher-dimensional entities.
	ErrUpwardNotEmpty = errors.New("mesh: entity still has upward adjacencies")

	// ErrUnsupportedKind indicates an operation with no table for the
	// requested element kind.
	ErrUnsupportedKind = errors.New("mesh: unsupported element kind")
)

// Entity is an opaque handle to one mesh entity: the kind in the top
// bits, the arena slot below. The zero value None refers to nothing.
type Entity uint64

// None is the null entity handle.
const None Entity = 0

func makeEntity(k topo.Kind, slot int) Entity {
	return Entity(uint64(k)<<56 | uint64(slot+1))
}

// Kind returns the element kind of the handle.
func (e Entity) Kind() topo.Kind { return topo.Kind(e >> 56) }

// Dim returns the topological dimension of the handle's kind.
func (e Entity) Dim() int { return e.Kind().Dim() }

// slot returns the arena index of the handle.
func (e Entity) slot() int { return int(e&^(0xff<<56)) - 1 }

// String renders the handle for diagnostics, e.g. "tet#4".
func (e Entity) String() string {
	if e == None {
		return "none"
	}
	return fmt.Sprintf("%s#%d", e.Kind(), e.slot())
}

// Copies maps part ids to the entity handle of a copy on that part.
type Copies map[int]Entity

// Copy pairs a part id with an entity handle on that part; matches may
// hold several copies per peer.
type Copy struct {
	Part   int
	Entity Entity
}

// BuildCallback observes every entity created by a build operation.
type BuildCallback func(Entity)
