package metrics

import (
	"math"

	"github.com/jheller/magsim/internal/sim"
)

// Spin tracks the largest angular speed seen during a run. A diverging scene
// shows up as a runaway value; a damped scene decays toward zero.
type Spin struct {
	max float64
}

func NewSpin() *Spin {
	return &Spin{}
}

func (s *Spin) Name() string { return "max_spin" }

func (s *Spin) Observe(x sim.State, u sim.Control, t float64) {
	for i := 1; i < len(x); i += 2 {
		if w := math.Abs(x[i]); w > s.max {
			s.max = w
		}
	}
}

func (s *Spin) Value() float64 { return s.max }

func (s *Spin) Reset() { s.max = 0 }

// Settle records the last time any ferrite was still spinning faster than the
// threshold. Small values mean the scene settled quickly.
type Settle struct {
	threshold float64
	lastBusy  float64
}

func NewSettle(threshold float64) *Settle {
	return &Settle{threshold: threshold}
}

func (s *Settle) Name() string { return "settle_time" }

func (s *Settle) Observe(x sim.State, u sim.Control, t float64) {
	for i := 1; i < len(x); i += 2 {
		if math.Abs(x[i]) > s.threshold {
			s.lastBusy = t
			return
		}
	}
}

func (s *Settle) Value() float64 { return s.lastBusy }

func (s *Settle) Reset() { s.lastBusy = 0 }
