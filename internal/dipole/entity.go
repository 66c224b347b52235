package dipole

import "github.com/jheller/magsim/internal/geom"

// Element is anything attachable to a Manager: a fixed position plus a
// magnetic moment (direction angle and strength).
type Element interface {
	Position() geom.Vec2
	MomentAngle() float64
	Strength() float64
}

// Magnet is a static dipole. It is never mutated after creation.
type Magnet struct {
	pos      geom.Vec2
	angle    float64
	strength float64
}

// NewMagnet creates a static magnet at pos whose moment points along angle
// (radians, counter-clockwise from +X).
func NewMagnet(pos geom.Vec2, angle, strength float64) *Magnet {
	return &Magnet{pos: pos, angle: angle, strength: strength}
}

func (m *Magnet) Position() geom.Vec2  { return m.pos }
func (m *Magnet) MomentAngle() float64 { return m.angle }
func (m *Magnet) Strength() float64    { return m.strength }

// Ferrite is a dipole that rotates freely about its fixed position. Its
// orientation and angular velocity are updated every tick.
type Ferrite struct {
	pos     geom.Vec2
	Angle   float64
	Omega   float64
	Inertia float64

	strength float64
}

// NewFerrite creates a ferrite at pos with zero initial orientation, unit
// strength and default inertia.
func NewFerrite(pos geom.Vec2) *Ferrite {
	return &Ferrite{pos: pos, strength: 1.0, Inertia: DefaultInertia}
}

// NewFerriteAt is NewFerrite with an explicit initial orientation.
func NewFerriteAt(pos geom.Vec2, angle float64) *Ferrite {
	f := NewFerrite(pos)
	f.Angle = angle
	return f
}

func (f *Ferrite) Position() geom.Vec2  { return f.pos }
func (f *Ferrite) MomentAngle() float64 { return f.Angle }
func (f *Ferrite) Strength() float64    { return f.strength }
