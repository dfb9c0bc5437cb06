package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultIntegrator = "rk4"
	DefaultDt         = 0.01
	DefaultDuration   = 1.0
	DefaultTolerance  = 1e-6
	DefaultMaxDt      = 0.1
	DefaultMinDt      = 1e-8
	DefaultGravity    = 9.8
	DefaultMass       = 1.2
	DefaultHandle     = 0.4
	DefaultHeadWidth  = 0.1
)

type Config struct {
	Integrator   string          `yaml:"integrator"`
	Dt           float64         `yaml:"dt"`
	Duration     float64         `yaml:"duration"`
	Adaptive     bool            `yaml:"adaptive"`
	Tolerance    float64         `yaml:"tolerance"`
	MaxDt        float64         `yaml:"max_dt"`
	MinDt        float64         `yaml:"min_dt"`
	StopAtGround bool            `yaml:"stop_at_ground"`
	GroundY      float64         `yaml:"ground_y"`
	Axe          AxeConfig       `yaml:"axe"`
	InitState    InitStateConfig `yaml:"init_state"`
}

type AxeConfig struct {
	Gravity      float64 `yaml:"gravity"`
	Mass         float64 `yaml:"mass"`
	HandleLength float64 `yaml:"handle_length"`
	HeadWidth    float64 `yaml:"head_width"`
}

type InitStateConfig struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Theta float64 `yaml:"theta"`
	VX    float64 `yaml:"vx"`
	VY    float64 `yaml:"vy"`
	Omega float64 `yaml:"omega"`
}

// DefaultConfig is the reference throw: released 2 m up,
// moving 8 m/s forward and 4 m/s up, spinning backwards at 7 rad/s.
func DefaultConfig() *Config {
	return &Config{
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Tolerance:  DefaultTolerance,
		MaxDt:      DefaultMaxDt,
		MinDt:      DefaultMinDt,
		Axe: AxeConfig{
			Gravity:      DefaultGravity,
			Mass:         DefaultMass,
			HandleLength: DefaultHandle,
			HeadWidth:    DefaultHeadWidth,
		},
		InitState: InitStateConfig{
			X: 0, Y: 2, Theta: 2,
			VX: 8, VY: 4, Omega: -7,
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto reads a YAML file over an existing config, such as a preset.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every problem found, joined into one error.
func (c *Config) Validate() error {
	var errs []error
	if c.Integrator == "" {
		errs = append(errs, errors.New("integrator must be set"))
	}
	if c.Dt <= 0 {
		errs = append(errs, fmt.Errorf("dt must be positive, got %g", c.Dt))
	}
	if c.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %g", c.Duration))
	}
	if c.Adaptive && c.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("tolerance must be positive for adaptive stepping, got %g", c.Tolerance))
	}
	if c.Axe.Mass <= 0 {
		errs = append(errs, fmt.Errorf("axe mass must be positive, got %g", c.Axe.Mass))
	}
	if c.Axe.HandleLength <= 0 {
		errs = append(errs, fmt.Errorf("axe handle length must be positive, got %g", c.Axe.HandleLength))
	}
	if c.Axe.Gravity < 0 {
		errs = append(errs, fmt.Errorf("gravity must not be negative, got %g", c.Axe.Gravity))
	}
	return errors.Join(errs...)
}

// GetInitState returns the initial state in (x, y, theta, vx, vy, omega) order.
func (c *Config) GetInitState() []float64 {
	s := c.InitState
	return []float64{s.X, s.Y, s.Theta, s.VX, s.VY, s.Omega}
}

// GetAxeParams returns the axe parameters keyed the way physics.Axe names them.
func (c *Config) GetAxeParams() map[string]float64 {
	return map[string]float64{
		"gravity":       c.Axe.Gravity,
		"mass":          c.Axe.Mass,
		"handle_length": c.Axe.HandleLength,
		"head_width":    c.Axe.HeadWidth,
	}
}

// Set changes one value by name. Initial state components use their state
// labels, axe parameters use the physics parameter names.
func (c *Config) Set(name string, v float64) error {
	switch name {
	case "x":
		c.InitState.X = v
	case "y":
		c.InitState.Y = v
	case "theta":
		c.InitState.Theta = v
	case "vx":
		c.InitState.VX = v
	case "vy":
		c.InitState.VY = v
	case "omega":
		c.InitState.Omega = v
	case "gravity":
		c.Axe.Gravity = v
	case "mass":
		c.Axe.Mass = v
	case "handle_length":
		c.Axe.HandleLength = v
	case "head_width":
		c.Axe.HeadWidth = v
	case "dt":
		c.Dt = v
	case "duration":
		c.Duration = v
	case "ground_y":
		c.GroundY = v
	default:
		return fmt.Errorf("unknown config value: %s", name)
	}
	return nil
}
