package experiment

import (
	"context"
	"fmt"

	"github.com/jheller/magsim/internal/config"
	"github.com/jheller/magsim/internal/dipole"
	"github.com/jheller/magsim/internal/sim"
)

// Experiment wires a scene config into a runnable simulator: manager,
// integrator, controller, and the default metric set.
type Experiment struct {
	cfg       *config.Config
	mgr       *dipole.Manager
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	e.mgr = e.cfg.Build()

	integ, err := GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	ctrl, err := GetController(e.cfg.Controller, e.cfg.ControllerParams)
	if err != nil {
		return err
	}

	e.simulator = sim.New(e.mgr, integ, ctrl)
	for _, m := range DefaultMetrics(e.mgr) {
		e.simulator.AddMetric(m)
	}

	return nil
}

// Run executes the scene for its configured duration. The final packed state
// is written back onto the ferrites so callers can inspect the settled scene.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not set up")
	}

	cfg := sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Seed:          e.cfg.Seed,
		ValidateState: true,
	}

	result, err := e.simulator.Run(ctx, e.mgr.PackState(), cfg)
	if err != nil {
		return result, err
	}

	if len(result.States) > 0 {
		e.mgr.ApplyState(result.States[len(result.States)-1])
	}

	return result, nil
}

// Manager exposes the wired scene for observers and rendering.
func (e *Experiment) Manager() *dipole.Manager { return e.mgr }

// Simulator exposes the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }
