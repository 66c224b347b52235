package dipole

import "github.com/jheller/magsim/internal/geom"

// Physical constants for the dipole model. Scene coordinates are pixels, so
// the coupling is large to give torques of order unity at typical spacings.
const (
	// DefaultCoupling scales every field contribution.
	DefaultCoupling = 2.5e5

	// DefaultDamping is the rotational drag coefficient applied to ferrites.
	DefaultDamping = 0.8

	// DefaultInertia is the moment of inertia of a ferrite.
	DefaultInertia = 1.0

	// MinSeparation clamps the source-target distance. Interactions below it
	// would blow up as 1/r^3; at or below zero distance the contribution is
	// skipped entirely.
	MinSeparation = 4.0
)

// FieldAt returns the magnetic field at p produced by a point dipole at
// srcPos with moment direction angle (radians) and the given strength.
//
// The model is the point-dipole formula evaluated in-plane with an
// inverse-cube falloff:
//
//	B(r) = C·s/r³ · (3(m̂·r̂)r̂ − m̂)
//
// Separations under MinSeparation are clamped so the field stays finite;
// a (near-)zero separation yields a zero field.
func FieldAt(srcPos geom.Vec2, angle, strength float64, p geom.Vec2, coupling float64) geom.Vec2 {
	sep := p.Sub(srcPos)
	r := sep.Len()
	if r < 1e-9 {
		return geom.Vec2{}
	}
	if r < MinSeparation {
		r = MinSeparation
	}

	rHat := sep.Normalize()
	mHat := geom.FromAngle(angle)

	scale := coupling * strength / (r * r * r)
	return rHat.Scale(3 * mHat.Dot(rHat)).Sub(mHat).Scale(scale)
}

// Torque returns the scalar torque exerted on a dipole with the given moment
// angle and strength sitting in field b: tau = m x B.
func Torque(angle, strength float64, b geom.Vec2) float64 {
	return geom.FromAngle(angle).Scale(strength).Cross(b)
}

// InteractionEnergy returns the potential energy -m·B of a dipole with the
// given moment angle and strength in field b. Minimal when aligned.
func InteractionEnergy(angle, strength float64, b geom.Vec2) float64 {
	return -geom.FromAngle(angle).Scale(strength).Dot(b)
}
