package snap

import (
	"github.com/rs/zerolog"

	"github.com/unstruct/meshadapt/mesh"
	"github.com/unstruct/meshadapt/pcu"
)

// Outcome is a cavity operator's answer when probed with an entity.
type Outcome int

const (
	// Ok grants the cavity; Apply will run on the entity this sweep.
	Ok Outcome = iota
	// Skip passes over the entity; it is not part of this operation.
	Skip
	// Request asks the framework to migrate the entity's cavity onto
	// this part; the entity is retried on the next sweep.
	Request
)

// Operator is a cavity operation: Probe classifies each entity of the
// swept dimension, Apply transforms the granted cavity. Apply must not
// create or destroy entities of the swept dimension.
type Operator interface {
	Probe(e mesh.Entity) Outcome
	Apply(e mesh.Entity)
}

// Migrator pulls the cavity of an entity onto the local part between
// sweeps. Implementations come from the load balancer; the framework
// only needs PullCavity to report whether the entity is worth retrying.
type Migrator interface {
	PullCavity(e mesh.Entity) bool
}

// RunCavities executes op over every entity of dimension dim in global
// sweeps: all parts iterate, apply granted cavities, and reduce the
// outstanding request count; the loop ends when no part has work left.
// Entities still requesting locality when a sweep makes no progress are
// dropped with a warning - without a Migrator they can never be
// granted.
func RunCavities(c pcu.Comm, m *mesh.Mesh, dim int, op Operator, mig Migrator, log zerolog.Logger) {
	for {
		var counts [2]int64 // requests, applied
		var requested []mesh.Entity
		it := m.Begin(dim)
		for e, ok := it.Next(); ok; e, ok = it.Next() {
			switch op.Probe(e) {
			case Skip:
			case Ok:
				op.Apply(e)
				counts[1]++
			case Request:
				requested = append(requested, e)
				counts[0]++
			}
		}
		if mig != nil {
			for _, e := range requested {
				if !mig.PullCavity(e) {
					counts[0]--
				}
			}
		}
		c.AddInts(counts[:])
		if counts[0] == 0 {
			return
		}
		if counts[1] == 0 {
			if len(requested) > 0 {
				log.Warn().
					Int("entities", len(requested)).
					Msg("cavity sweep stalled; dropping locality requests")
			}
			return
		}
	}
}
