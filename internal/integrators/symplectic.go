package integrators

import "github.com/jheller/magsim/internal/sim"

// Symplectic is a semi-implicit Euler integrator for states packed as
// interleaved (angle, velocity) pairs: velocities are advanced first, then
// angles move with the updated velocities. Good long-term energy behavior
// for rotational dynamics.
type Symplectic struct{}

func NewSymplectic() *Symplectic {
	return &Symplectic{}
}

func (s *Symplectic) Step(dyn sim.System, x sim.State, u sim.Control, t, dt float64) sim.State {
	n := len(x)
	dx := dyn.Derive(x, u, t)

	result := make(sim.State, n)
	for i := 0; i+1 < n; i += 2 {
		result[i+1] = x[i+1] + dt*dx[i+1]
		result[i] = x[i] + dt*result[i+1]
	}

	return result
}
