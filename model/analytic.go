package model

// Eval computes a spatial point from a parametric coordinate.
type Eval func(param [2]float64) [3]float64

// axis describes one parametric axis of an analytic entity.
type axis struct {
	rng      [2]float64
	periodic bool
}

type analyticEntity struct {
	eval Eval
	axes [2]axis
}

// Analytic is a function-backed Model: each registered entity evaluates
// through a closure. Entities without an evaluator snap to the parametric
// point embedded in space, which suits planar test geometry.
type Analytic struct {
	entities map[Ref]*analyticEntity
}

// NewAnalytic returns an empty analytic model.
func NewAnalytic() *Analytic {
	return &Analytic{entities: make(map[Ref]*analyticEntity)}
}

// Add registers entity r with evaluator eval. It returns the model for
// chaining.
func (a *Analytic) Add(r Ref, eval Eval) *Analytic {
	a.entities[r] = &analyticEntity{eval: eval}
	return a
}

// AddPeriodic registers entity r with evaluator eval and declares
// parametric axis d periodic over rng.
func (a *Analytic) AddPeriodic(r Ref, eval Eval, d int, rng [2]float64) *Analytic {
	e, ok := a.entities[r]
	if !ok {
		e = &analyticEntity{eval: eval}
		a.entities[r] = e
	}
	e.eval = eval
	e.axes[d] = axis{rng: rng, periodic: true}
	return a
}

// SnapTo evaluates entity e at param. Unregistered entities embed the
// parametric coordinate directly: (u, v) -> (u, v, 0).
func (a *Analytic) SnapTo(e Entity, param [2]float64) [3]float64 {
	if ae, ok := a.entities[refOf(e)]; ok && ae.eval != nil {
		return ae.eval(param)
	}
	return [3]float64{param[0], param[1], 0}
}

// PeriodicRange reports the range of parametric axis d of entity e.
func (a *Analytic) PeriodicRange(e Entity, d int) ([2]float64, bool) {
	if ae, ok := a.entities[refOf(e)]; ok {
		return ae.axes[d].rng, ae.axes[d].periodic
	}
	return [2]float64{}, false
}

func refOf(e Entity) Ref {
	if r, ok := e.(Ref); ok {
		return r
	}
	return Ref{D: e.Dim(), I: e.ID()}
}
