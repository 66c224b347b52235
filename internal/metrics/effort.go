package metrics

import "github.com/jheller/magsim/internal/sim"

// Effort accumulates squared drive-field magnitude, a proxy for the energy
// spent by the external coil.
type Effort struct {
	total   float64
	samples int
}

func NewEffort() *Effort {
	return &Effort{}
}

func (e *Effort) Name() string { return "control_effort" }

func (e *Effort) Observe(x sim.State, u sim.Control, t float64) {
	for _, v := range u {
		e.total += v * v
	}
	e.samples++
}

func (e *Effort) Value() float64 {
	return e.total
}

func (e *Effort) Reset() {
	e.total = 0
	e.samples = 0
}
