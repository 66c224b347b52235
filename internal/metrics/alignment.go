package metrics

import (
	"math"

	"github.com/jheller/magsim/internal/dipole"
	"github.com/jheller/magsim/internal/sim"
)

// Alignment reports the mean misalignment (radians) between each ferrite's
// moment and the local field direction, averaged over the whole run. Zero
// means every ferrite tracked its field perfectly.
type Alignment struct {
	mgr     *dipole.Manager
	total   float64
	samples int
}

func NewAlignment(mgr *dipole.Manager) *Alignment {
	return &Alignment{mgr: mgr}
}

func (a *Alignment) Name() string { return "alignment" }

func (a *Alignment) Observe(x sim.State, u sim.Control, t float64) {
	sum := 0.0
	counted := 0
	ord := 0
	for i, e := range a.mgr.Elements() {
		f, ok := e.(*dipole.Ferrite)
		if !ok {
			continue
		}
		theta := f.Angle
		if 2*ord < len(x) {
			theta = x[2*ord]
		}
		ord++

		b := a.mgr.FieldAt(f.Position(), dipole.Handle(i))
		if b.Len() < 1e-12 {
			continue
		}
		sum += math.Abs(angleDiff(theta, b.Angle()))
		counted++
	}
	if counted > 0 {
		a.total += sum / float64(counted)
		a.samples++
	}
}

func (a *Alignment) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.total / float64(a.samples)
}

func (a *Alignment) Reset() {
	a.total = 0
	a.samples = 0
}

func angleDiff(a, b float64) float64 {
	d := a - b
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
