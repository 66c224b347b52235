package control

import "github.com/jheller/magsim/internal/sim"

// None emits zero control: the drive coil stays off.
type None struct {
	dim int
}

func NewNone(dim int) *None {
	return &None{
		dim: dim,
	}
}

func (n *None) Compute(x sim.State, t float64) sim.Control {
	return make(sim.Control, n.dim)
}
