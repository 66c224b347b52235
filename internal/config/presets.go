package config

import "github.com/jheller/magsim/internal/dipole"

// Presets are ready-made scenes. "pair" is the canonical demo: two opposed
// magnets with a ferrite on the midline.
var Presets = map[string]*Config{
	"pair": {
		Name: "pair", Integrator: "rk4", Dt: 0.01, Duration: 10.0,
		Magnets: []MagnetConfig{
			{X: 200, Y: 150, AngleDeg: 90, Strength: 1},
			{X: 200, Y: 250, AngleDeg: -90, Strength: 1},
		},
		Ferrites: []FerriteConfig{{X: 200, Y: 200}},
	},
	"compass": {
		Name: "compass", Integrator: "rk4", Dt: 0.01, Duration: 15.0,
		Magnets:  []MagnetConfig{{X: 120, Y: 200, AngleDeg: 0, Strength: 1.5}},
		Ferrites: []FerriteConfig{{X: 280, Y: 200, AngleDeg: 135}},
	},
	"ring": {
		Name: "ring", Integrator: "rk4", Dt: 0.005, Duration: 20.0,
		Magnets: []MagnetConfig{
			{X: 200, Y: 100, AngleDeg: 0, Strength: 1},
			{X: 287, Y: 250, AngleDeg: 120, Strength: 1},
			{X: 113, Y: 250, AngleDeg: 240, Strength: 1},
		},
		Ferrites: []FerriteConfig{{X: 200, Y: 200, AngleDeg: 10}},
	},
	"lattice": {
		Name: "lattice", Integrator: "symplectic", Dt: 0.005, Duration: 30.0,
		Magnets: []MagnetConfig{
			{X: 100, Y: 100, AngleDeg: 45, Strength: 2},
			{X: 300, Y: 300, AngleDeg: 225, Strength: 2},
		},
		Ferrites: []FerriteConfig{
			{X: 150, Y: 150}, {X: 200, Y: 150}, {X: 250, Y: 150},
			{X: 150, Y: 200}, {X: 200, Y: 200}, {X: 250, Y: 200},
			{X: 150, Y: 250}, {X: 200, Y: 250}, {X: 250, Y: 250},
		},
		RandomizeAngles: true,
	},
	"driven": {
		Name: "driven", Integrator: "rk4", Dt: 0.01, Duration: 20.0,
		Controller: "pid",
		ControllerParams: ControllerConfig{
			Kp: DefaultKp, Ki: DefaultKi, Kd: DefaultKd, TargetDeg: 90,
		},
		// The coil axis sits a quarter turn past the target so the drive
		// torque scales with cos(error): a proper servo around the target.
		Physics: PhysicsConfig{
			Coupling:      dipole.DefaultCoupling,
			Damping:       dipole.DefaultDamping,
			DriveAngleDeg: 180,
		},
		Ferrites: []FerriteConfig{{X: 200, Y: 200, AngleDeg: 45}},
	},
}

func GetPreset(name string) *Config {
	base, ok := Presets[name]
	if !ok {
		return nil
	}

	// Presets only spell out what differs from the defaults; fill in the rest
	// so callers always get a valid scene.
	cfg := *base
	if cfg.Dt == 0 {
		cfg.Dt = DefaultDt
	}
	if cfg.Duration == 0 {
		cfg.Duration = DefaultDuration
	}
	if cfg.Integrator == "" {
		cfg.Integrator = "rk4"
	}
	if cfg.Controller == "" {
		cfg.Controller = "none"
	}
	if cfg.Physics.Coupling == 0 {
		cfg.Physics = DefaultConfig().Physics
	}
	if cfg.Display.Width == 0 {
		cfg.Display = DefaultConfig().Display
	}
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
