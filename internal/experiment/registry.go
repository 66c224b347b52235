package experiment

import (
	"fmt"
	"math"

	"github.com/jheller/magsim/internal/config"
	"github.com/jheller/magsim/internal/control"
	"github.com/jheller/magsim/internal/dipole"
	"github.com/jheller/magsim/internal/integrators"
	"github.com/jheller/magsim/internal/metrics"
	"github.com/jheller/magsim/internal/sim"
)

// GetIntegrator resolves an integrator by CLI/config name.
func GetIntegrator(name string) (sim.Integrator, error) {
	switch name {
	case "euler":
		return integrators.NewEuler(), nil
	case "rk4":
		return integrators.NewRK4(), nil
	case "symplectic":
		return integrators.NewSymplectic(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

// GetController resolves a controller by name. The PID drives the external
// field coil toward the configured target orientation.
func GetController(name string, params config.ControllerConfig) (sim.Controller, error) {
	switch name {
	case "", "none":
		return control.NewNone(1), nil
	case "pid":
		target := params.TargetDeg * math.Pi / 180
		return control.NewPID(params.Kp, params.Ki, params.Kd, target), nil
	default:
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
}

// DefaultMetrics returns the standard metric set for a scene.
func DefaultMetrics(mgr *dipole.Manager) []sim.Metric {
	return []sim.Metric{
		metrics.NewAlignment(mgr),
		metrics.NewSpin(),
		metrics.NewSettle(0.05),
		metrics.NewEffort(),
	}
}
