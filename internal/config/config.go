package config

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jheller/magsim/internal/dipole"
	"github.com/jheller/magsim/internal/geom"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultWidth    = 400
	DefaultHeight   = 400
	DefaultTitle    = "Magnetism Simulation"
	DefaultKp       = 10.0
	DefaultKi       = 0.1
	DefaultKd       = 5.0
)

// Config describes a complete scene plus run settings. Angles are degrees in
// YAML (scene files are written by hand) and converted to radians on build.
type Config struct {
	Name       string  `yaml:"name"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Integrator string  `yaml:"integrator"`
	Controller string  `yaml:"controller"`
	Seed       int64   `yaml:"seed"`

	Physics          PhysicsConfig    `yaml:"physics"`
	ControllerParams ControllerConfig `yaml:"controller_params"`
	Display          DisplayConfig    `yaml:"display"`

	Magnets  []MagnetConfig  `yaml:"magnets"`
	Ferrites []FerriteConfig `yaml:"ferrites"`

	// RandomizeAngles scatters initial ferrite orientations using the seed.
	RandomizeAngles bool `yaml:"randomize_angles"`
}

type PhysicsConfig struct {
	Coupling      float64 `yaml:"coupling"`
	Damping       float64 `yaml:"damping"`
	DriveAngleDeg float64 `yaml:"drive_angle_deg"`
}

type ControllerConfig struct {
	Kp        float64 `yaml:"kp"`
	Ki        float64 `yaml:"ki"`
	Kd        float64 `yaml:"kd"`
	TargetDeg float64 `yaml:"target_deg"`
}

type DisplayConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type MagnetConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	AngleDeg float64 `yaml:"angle_deg"`
	Strength float64 `yaml:"strength"`
}

type FerriteConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	AngleDeg float64 `yaml:"angle_deg"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "pair",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Integrator: "rk4",
		Controller: "none",
		Physics: PhysicsConfig{
			Coupling: dipole.DefaultCoupling,
			Damping:  dipole.DefaultDamping,
		},
		ControllerParams: ControllerConfig{
			Kp: DefaultKp,
			Ki: DefaultKi,
			Kd: DefaultKd,
		},
		Display: DisplayConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
		},
		Magnets: []MagnetConfig{
			{X: 200, Y: 150, AngleDeg: 90, Strength: 1},
			{X: 200, Y: 250, AngleDeg: -90, Strength: 1},
		},
		Ferrites: []FerriteConfig{
			{X: 200, Y: 200},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Magnets = nil
	cfg.Ferrites = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate fails fast on inputs the simulation cannot recover from.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %f", c.Duration)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("config: display dimensions must be positive, got %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Physics.Damping < 0 {
		return fmt.Errorf("config: damping must be >= 0, got %f", c.Physics.Damping)
	}
	for i, m := range c.Magnets {
		if math.IsNaN(m.Strength) || math.IsInf(m.Strength, 0) {
			return fmt.Errorf("config: magnet %d has invalid strength", i)
		}
	}
	return nil
}

// Build constructs the Manager for this scene: magnets first, then ferrites,
// preserving the listed order as attach order.
func (c *Config) Build() *dipole.Manager {
	mgr := dipole.NewManager()
	if c.Physics.Coupling != 0 {
		mgr.Coupling = c.Physics.Coupling
	}
	mgr.Damping = c.Physics.Damping
	mgr.DriveAngle = radians(c.Physics.DriveAngleDeg)

	for _, m := range c.Magnets {
		strength := m.Strength
		if strength == 0 {
			strength = 1
		}
		mgr.Attach(dipole.NewMagnet(geom.V(m.X, m.Y), radians(m.AngleDeg), strength))
	}

	rng := rand.New(rand.NewSource(c.Seed))
	for _, f := range c.Ferrites {
		angle := radians(f.AngleDeg)
		if c.RandomizeAngles {
			angle = rng.Float64()*2*math.Pi - math.Pi
		}
		mgr.Attach(dipole.NewFerriteAt(geom.V(f.X, f.Y), angle))
	}

	return mgr
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
