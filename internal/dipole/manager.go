package dipole

import (
	"fmt"

	"github.com/jheller/magsim/internal/geom"
	"github.com/jheller/magsim/internal/sim"
)

// Handle addresses an attached element. Handles are stable for the lifetime
// of the Manager; elements are never removed.
type Handle int

// NoHandle is returned for failed attaches and accepted by FieldAt to mean
// "exclude nothing".
const NoHandle Handle = -1

// Manager owns the attached scene. It advances ferrite orientations either
// through Tick (standalone, symplectic Euler) or through the sim.System
// interface when driven by a Simulator and a pluggable integrator.
type Manager struct {
	elems      []Element
	ferrites   []*Ferrite
	ferriteOrd []int // per element: index into ferrites, or -1 for magnets

	// Coupling scales every field contribution; Damping is rotational drag.
	// Both are live-tunable through GetParams/SetParam.
	Coupling float64
	Damping  float64

	// DriveAngle is the direction of the optional external drive field whose
	// signed magnitude arrives as the control input.
	DriveAngle float64

	torques []float64
}

func NewManager() *Manager {
	return &Manager{
		Coupling: DefaultCoupling,
		Damping:  DefaultDamping,
	}
}

// Attach registers an element and returns its handle. Attach order is update
// order. A nil element is rejected with NoHandle.
func (m *Manager) Attach(e Element) Handle {
	if e == nil {
		return NoHandle
	}
	h := Handle(len(m.elems))
	m.elems = append(m.elems, e)
	if f, ok := e.(*Ferrite); ok {
		m.ferriteOrd = append(m.ferriteOrd, len(m.ferrites))
		m.ferrites = append(m.ferrites, f)
	} else {
		m.ferriteOrd = append(m.ferriteOrd, -1)
	}
	return h
}

func (m *Manager) Len() int { return len(m.elems) }

func (m *Manager) At(h Handle) Element {
	if h < 0 || int(h) >= len(m.elems) {
		return nil
	}
	return m.elems[h]
}

// Elements returns the attached elements in attach order. The slice is shared
// with the manager; callers must not mutate it.
func (m *Manager) Elements() []Element { return m.elems }

// Ferrites returns the dynamic elements in attach order.
func (m *Manager) Ferrites() []*Ferrite { return m.ferrites }

// FieldAt returns the net field at p: the sum of every attached element's
// contribution, except the element named by exclude. Pass NoHandle to sum
// over everything.
func (m *Manager) FieldAt(p geom.Vec2, exclude Handle) geom.Vec2 {
	return m.fieldAt(p, int(exclude), nil)
}

// fieldAt sums contributions at p, skipping element index skip. When x is
// non-nil, ferrite moment angles are read from the packed state instead of
// the entities, so integrators can evaluate intermediate stages.
func (m *Manager) fieldAt(p geom.Vec2, skip int, x sim.State) geom.Vec2 {
	var b geom.Vec2
	for i, e := range m.elems {
		if i == skip {
			continue
		}
		b = b.Add(FieldAt(e.Position(), m.angleOf(i, x), e.Strength(), p, m.Coupling))
	}
	return b
}

func (m *Manager) angleOf(i int, x sim.State) float64 {
	ord := m.ferriteOrd[i]
	if ord >= 0 && x != nil {
		return x[2*ord]
	}
	return m.elems[i].MomentAngle()
}

// Tick advances every ferrite by dt. Phase one computes all torques from the
// prior-tick orientations; phase two integrates. The update is therefore
// logically simultaneous and attach order cannot bias the result.
//
// Ticking a scene with no ferrites (or nothing at all) is a no-op.
func (m *Manager) Tick(dt float64) {
	if len(m.ferrites) == 0 {
		return
	}
	if len(m.torques) != len(m.ferrites) {
		m.torques = make([]float64, len(m.ferrites))
	}

	for i, e := range m.elems {
		ord := m.ferriteOrd[i]
		if ord < 0 {
			continue
		}
		b := m.fieldAt(e.Position(), i, nil)
		m.torques[ord] = Torque(e.MomentAngle(), e.Strength(), b)
	}

	// Symplectic Euler: velocity first, then position with the new velocity.
	for ord, f := range m.ferrites {
		f.Omega += dt * (m.torques[ord] - m.Damping*f.Omega) / f.Inertia
		f.Angle = geom.WrapAngle(f.Angle + dt*f.Omega)
	}
}

// PackState snapshots ferrite orientations into a flat state vector
// [theta_0, omega_0, theta_1, omega_1, ...] in attach order.
func (m *Manager) PackState() sim.State {
	x := make(sim.State, 2*len(m.ferrites))
	for i, f := range m.ferrites {
		x[2*i] = f.Angle
		x[2*i+1] = f.Omega
	}
	return x
}

// ApplyState writes a packed state back onto the ferrites.
func (m *Manager) ApplyState(x sim.State) {
	for i, f := range m.ferrites {
		if 2*i+1 >= len(x) {
			return
		}
		f.Angle = geom.WrapAngle(x[2*i])
		f.Omega = x[2*i+1]
	}
}

// Derive implements sim.System over the packed ferrite state. The optional
// control u[0] is the signed magnitude of a uniform drive field along
// DriveAngle, applied to every ferrite.
func (m *Manager) Derive(x sim.State, u sim.Control, t float64) sim.State {
	dx := make(sim.State, len(x))

	var drive geom.Vec2
	if len(u) > 0 && u[0] != 0 {
		drive = geom.FromAngle(m.DriveAngle).Scale(u[0])
	}

	for i, e := range m.elems {
		ord := m.ferriteOrd[i]
		if ord < 0 {
			continue
		}
		f := m.ferrites[ord]
		theta, omega := x[2*ord], x[2*ord+1]

		b := m.fieldAt(e.Position(), i, x).Add(drive)
		tau := Torque(theta, f.strength, b)

		dx[2*ord] = omega
		dx[2*ord+1] = (tau - m.Damping*omega) / f.Inertia
	}

	return dx
}

func (m *Manager) StateDim() int   { return 2 * len(m.ferrites) }
func (m *Manager) ControlDim() int { return 1 }

// Energy implements sim.Hamiltonian: rotational kinetic energy plus the
// pairwise dipole interaction potential, each pair counted once.
func (m *Manager) Energy(x sim.State) float64 {
	e := 0.0
	for i, f := range m.ferrites {
		omega := f.Omega
		if x != nil && 2*i+1 < len(x) {
			omega = x[2*i+1]
		}
		e += 0.5 * f.Inertia * omega * omega
	}

	for i := range m.elems {
		for j := i + 1; j < len(m.elems); j++ {
			src, dst := m.elems[j], m.elems[i]
			b := FieldAt(src.Position(), m.angleOf(j, x), src.Strength(), dst.Position(), m.Coupling)
			e += InteractionEnergy(m.angleOf(i, x), dst.Strength(), b)
		}
	}

	return e
}

// GetParams implements sim.Tunable.
func (m *Manager) GetParams() map[string]float64 {
	return map[string]float64{
		"coupling": m.Coupling,
		"damping":  m.Damping,
	}
}

// SetParam implements sim.Tunable. Damping below zero would pump energy into
// the scene, so it is rejected.
func (m *Manager) SetParam(name string, value float64) error {
	switch name {
	case "coupling":
		m.Coupling = value
	case "damping":
		if value < 0 {
			return fmt.Errorf("magsim: damping must be >= 0, got %f", value)
		}
		m.Damping = value
	default:
		return fmt.Errorf("magsim: unknown parameter %q", name)
	}
	return nil
}
