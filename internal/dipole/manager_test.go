package dipole_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jheller/magsim/internal/dipole"
	"github.com/jheller/magsim/internal/geom"
	"github.com/jheller/magsim/internal/sim"
)

var _ = Describe("FieldAt", func() {
	origin := geom.V(0, 0)

	It("points along the moment on the dipole axis", func() {
		b := dipole.FieldAt(origin, 0, 1, geom.V(10, 0), dipole.DefaultCoupling)
		Expect(b.X).To(BeNumerically(">", 0))
		Expect(b.Y).To(BeNumerically("~", 0, 1e-9))
	})

	It("falls off with the inverse cube of distance", func() {
		near := dipole.FieldAt(origin, 0, 1, geom.V(10, 0), dipole.DefaultCoupling)
		far := dipole.FieldAt(origin, 0, 1, geom.V(20, 0), dipole.DefaultCoupling)
		Expect(far.Len()).To(BeNumerically("~", near.Len()/8, 1e-9))
	})

	It("strictly weakens with distance in any direction", func() {
		dir := geom.FromAngle(0.7)
		prev := math.Inf(1)
		for _, r := range []float64{5, 10, 20, 40, 80} {
			b := dipole.FieldAt(origin, 0.3, 1, dir.Scale(r), dipole.DefaultCoupling)
			Expect(b.Len()).To(BeNumerically("<", prev))
			prev = b.Len()
		}
	})

	It("is half as strong broadside as on-axis", func() {
		onAxis := dipole.FieldAt(origin, 0, 1, geom.V(10, 0), dipole.DefaultCoupling)
		broadside := dipole.FieldAt(origin, 0, 1, geom.V(0, 10), dipole.DefaultCoupling)
		Expect(broadside.Len()).To(BeNumerically("~", onAxis.Len()/2, 1e-9))
	})

	It("returns zero at the source position", func() {
		b := dipole.FieldAt(origin, 0, 1, origin, dipole.DefaultCoupling)
		Expect(b).To(Equal(geom.Vec2{}))
	})

	It("clamps separations below the minimum", func() {
		atClamp := dipole.FieldAt(origin, 0, 1, geom.V(dipole.MinSeparation, 0), dipole.DefaultCoupling)
		inside := dipole.FieldAt(origin, 0, 1, geom.V(1, 0), dipole.DefaultCoupling)
		Expect(inside.Len()).To(BeNumerically("~", atClamp.Len(), 1e-6))
	})
})

var _ = Describe("Torque", func() {
	It("vanishes when the moment is aligned with the field", func() {
		b := geom.V(2, 0)
		Expect(dipole.Torque(0, 1, b)).To(BeNumerically("~", 0, 1e-12))
	})

	It("turns the moment toward the field", func() {
		b := geom.V(2, 0)
		// Moment above the field direction is pushed clockwise, below is
		// pushed counter-clockwise.
		Expect(dipole.Torque(0.5, 1, b)).To(BeNumerically("<", 0))
		Expect(dipole.Torque(-0.5, 1, b)).To(BeNumerically(">", 0))
	})

	It("is antisymmetric in the misalignment", func() {
		b := geom.V(2, 0)
		Expect(dipole.Torque(0.7, 1, b)).To(BeNumerically("~", -dipole.Torque(-0.7, 1, b), 1e-12))
	})

	It("scales with strength", func() {
		b := geom.V(0, 1)
		Expect(dipole.Torque(0, 3, b)).To(BeNumerically("~", 3*dipole.Torque(0, 1, b), 1e-12))
	})

	It("is equal and opposite for a mirror-symmetric pair", func() {
		// Two ferrites on a common axis with mirrored orientations: each is
		// the reflection of the other, so their torques must cancel in sum.
		mgr := dipole.NewManager()
		a := dipole.NewFerriteAt(geom.V(100, 200), 0.6)
		b := dipole.NewFerriteAt(geom.V(300, 200), -0.6)
		mgr.Attach(a)
		mgr.Attach(b)

		dx := mgr.Derive(mgr.PackState(), nil, 0)
		Expect(dx[1]).To(BeNumerically("~", -dx[3], 1e-9))
	})
})

var _ = Describe("InteractionEnergy", func() {
	It("is minimal when aligned and maximal when opposed", func() {
		b := geom.V(1.5, 0)
		aligned := dipole.InteractionEnergy(0, 1, b)
		opposed := dipole.InteractionEnergy(math.Pi, 1, b)
		Expect(aligned).To(BeNumerically("<", 0))
		Expect(opposed).To(BeNumerically(">", 0))
		Expect(aligned).To(BeNumerically("~", -opposed, 1e-12))
	})
})

var _ = Describe("Manager", func() {
	var mgr *dipole.Manager

	BeforeEach(func() {
		mgr = dipole.NewManager()
	})

	Describe("Attach", func() {
		It("hands out sequential handles in attach order", func() {
			m := dipole.NewMagnet(geom.V(0, 0), 0, 1)
			f := dipole.NewFerrite(geom.V(10, 0))
			Expect(mgr.Attach(m)).To(Equal(dipole.Handle(0)))
			Expect(mgr.Attach(f)).To(Equal(dipole.Handle(1)))
			Expect(mgr.Len()).To(Equal(2))
			Expect(mgr.At(1)).To(BeIdenticalTo(f))
		})

		It("rejects nil elements", func() {
			Expect(mgr.Attach(nil)).To(Equal(dipole.NoHandle))
			Expect(mgr.Len()).To(BeZero())
		})

		It("returns nil for out-of-range handles", func() {
			Expect(mgr.At(dipole.NoHandle)).To(BeNil())
			Expect(mgr.At(5)).To(BeNil())
		})
	})

	Describe("Tick", func() {
		It("is a no-op on an empty scene", func() {
			Expect(func() { mgr.Tick(0.01) }).NotTo(Panic())
		})

		It("leaves a lone ferrite untouched", func() {
			f := dipole.NewFerriteAt(geom.V(100, 100), 1.2)
			mgr.Attach(f)

			for i := 0; i < 100; i++ {
				mgr.Tick(0.01)
			}

			Expect(f.Angle).To(Equal(1.2))
			Expect(f.Omega).To(BeZero())
		})

		It("excludes an element's own field", func() {
			h := mgr.Attach(dipole.NewFerriteAt(geom.V(50, 50), 0.3))
			b := mgr.FieldAt(geom.V(50, 50), h)
			Expect(b.Len()).To(BeZero())
		})

		It("sees zero net field between an opposed magnet pair", func() {
			// The canonical demo scene: two magnets facing each other with a
			// ferrite on the midline. Their contributions cancel exactly.
			mgr.Attach(dipole.NewMagnet(geom.V(200, 150), math.Pi/2, 1))
			mgr.Attach(dipole.NewMagnet(geom.V(200, 250), -math.Pi/2, 1))
			f := dipole.NewFerriteAt(geom.V(200, 200), 0.9)
			h := mgr.Attach(f)

			Expect(mgr.FieldAt(f.Position(), h).Len()).To(BeNumerically("~", 0, 1e-9))

			mgr.Tick(0.01)
			Expect(f.Angle).To(Equal(0.9))
			Expect(f.Omega).To(BeZero())
		})

		It("settles a ferrite placed off the pair's midline", func() {
			mgr.Attach(dipole.NewMagnet(geom.V(200, 150), math.Pi/2, 1))
			mgr.Attach(dipole.NewMagnet(geom.V(200, 250), -math.Pi/2, 1))
			f := dipole.NewFerriteAt(geom.V(230, 200), 0.9)
			mgr.Attach(f)

			for i := 0; i < 3000; i++ {
				mgr.Tick(0.01)
			}

			Expect(math.IsNaN(f.Angle)).To(BeFalse())
			Expect(math.Abs(f.Omega)).To(BeNumerically("<", 0.1))
		})

		It("relaxes a ferrite onto a nearby magnet's axis", func() {
			mgr.Attach(dipole.NewMagnet(geom.V(100, 200), 0, 1.5))
			f := dipole.NewFerriteAt(geom.V(200, 200), 3*math.Pi/4)
			mgr.Attach(f)

			for i := 0; i < 1500; i++ {
				mgr.Tick(0.01)
			}

			Expect(geom.WrapAngle(f.Angle)).To(BeNumerically("~", 0, 0.05))
			Expect(math.Abs(f.Omega)).To(BeNumerically("<", 0.05))
		})

		It("dissipates energy while damped", func() {
			mgr.Attach(dipole.NewMagnet(geom.V(100, 200), 0, 1.5))
			mgr.Attach(dipole.NewFerriteAt(geom.V(200, 200), 3*math.Pi/4))

			before := mgr.Energy(nil)
			for i := 0; i < 500; i++ {
				mgr.Tick(0.01)
			}
			after := mgr.Energy(nil)

			Expect(after).To(BeNumerically("<", before))
		})
	})

	Describe("packed state", func() {
		It("round-trips through PackState and ApplyState", func() {
			mgr.Attach(dipole.NewFerriteAt(geom.V(0, 0), 0.5))
			f2 := dipole.NewFerriteAt(geom.V(50, 0), -1.1)
			f2.Omega = 2.5
			mgr.Attach(f2)

			x := mgr.PackState()
			Expect(x).To(Equal(sim.State{0.5, 0, -1.1, 2.5}))

			mgr.ApplyState(sim.State{1.0, 0.1, 2.0, -0.2})
			Expect(mgr.Ferrites()[0].Angle).To(BeNumerically("~", 1.0))
			Expect(mgr.Ferrites()[1].Omega).To(BeNumerically("~", -0.2))
		})

		It("wraps applied angles into (-pi, pi]", func() {
			f := dipole.NewFerrite(geom.V(0, 0))
			mgr.Attach(f)
			mgr.ApplyState(sim.State{3 * math.Pi, 0})
			Expect(f.Angle).To(BeNumerically("~", math.Pi, 1e-9))
		})
	})

	Describe("Derive", func() {
		It("reads orientations from the packed state, not the entities", func() {
			mgr.Attach(dipole.NewMagnet(geom.V(0, 0), 0, 1))
			f := dipole.NewFerrite(geom.V(20, 0)) // entity aligned: zero torque
			mgr.Attach(f)

			dx := mgr.Derive(sim.State{0, 0}, nil, 0)
			Expect(dx[1]).To(BeNumerically("~", 0, 1e-9))

			dx = mgr.Derive(sim.State{math.Pi / 2, 0}, nil, 0)
			Expect(dx[1]).ToNot(BeNumerically("~", 0, 1e-9))
		})

		It("applies the drive field along DriveAngle", func() {
			f := dipole.NewFerrite(geom.V(0, 0))
			mgr.Attach(f)
			mgr.DriveAngle = math.Pi / 2

			// Moment along +X, drive along +Y: positive torque.
			dx := mgr.Derive(sim.State{0, 0}, sim.Control{2.0}, 0)
			Expect(dx[0]).To(BeZero())
			Expect(dx[1]).To(BeNumerically(">", 0))
		})

		It("reports dimensions for the packed layout", func() {
			mgr.Attach(dipole.NewMagnet(geom.V(0, 0), 0, 1))
			mgr.Attach(dipole.NewFerrite(geom.V(10, 0)))
			mgr.Attach(dipole.NewFerrite(geom.V(20, 0)))
			Expect(mgr.StateDim()).To(Equal(4))
			Expect(mgr.ControlDim()).To(Equal(1))
		})
	})

	Describe("tunable parameters", func() {
		It("exposes coupling and damping", func() {
			params := mgr.GetParams()
			Expect(params).To(HaveKeyWithValue("coupling", dipole.DefaultCoupling))
			Expect(params).To(HaveKeyWithValue("damping", dipole.DefaultDamping))
		})

		It("accepts valid updates", func() {
			Expect(mgr.SetParam("coupling", 1e4)).To(Succeed())
			Expect(mgr.Coupling).To(Equal(1e4))
			Expect(mgr.SetParam("damping", 0.0)).To(Succeed())
		})

		It("rejects negative damping and unknown names", func() {
			Expect(mgr.SetParam("damping", -0.1)).To(HaveOccurred())
			Expect(mgr.SetParam("mass", 2.0)).To(HaveOccurred())
		})
	})
})
