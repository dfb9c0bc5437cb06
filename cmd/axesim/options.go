package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/axesim/internal/config"
)

// simOptions are the flags shared by every command that runs a throw.
// Precedence is preset, then config file, then explicit flags.
type simOptions struct {
	preset     string
	configFile string

	integrator string
	dt         float64
	duration   float64
	adaptive   bool
	tolerance  float64
	ground     bool
	groundY    float64

	x, y, theta   float64
	vx, vy, omega float64
	gravity, mass float64
	handle, headW float64
}

func (o *simOptions) bind(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()

	f.StringVar(&o.preset, "preset", "", "start from a named preset")
	f.StringVar(&o.configFile, "config", "", "config file path (yaml)")

	f.StringVar(&o.integrator, "integrator", d.Integrator, "integrator (euler, rk4, rk45, verlet, leapfrog)")
	f.Float64Var(&o.dt, "dt", d.Dt, "timestep")
	f.Float64Var(&o.duration, "time", d.Duration, "duration")
	f.BoolVar(&o.adaptive, "adaptive", d.Adaptive, "adaptive step size")
	f.Float64Var(&o.tolerance, "tol", d.Tolerance, "error tolerance for adaptive stepping")
	f.BoolVar(&o.ground, "ground", d.StopAtGround, "stop when the axe reaches the ground")
	f.Float64Var(&o.groundY, "ground-y", d.GroundY, "height of the ground")

	f.Float64Var(&o.x, "x", d.InitState.X, "initial x (m)")
	f.Float64Var(&o.y, "y", d.InitState.Y, "initial y (m)")
	f.Float64Var(&o.theta, "theta", d.InitState.Theta, "initial angle (rad)")
	f.Float64Var(&o.vx, "vx", d.InitState.VX, "initial horizontal velocity (m/s)")
	f.Float64Var(&o.vy, "vy", d.InitState.VY, "initial vertical velocity (m/s)")
	f.Float64Var(&o.omega, "omega", d.InitState.Omega, "initial angular velocity (rad/s)")

	f.Float64Var(&o.gravity, "gravity", d.Axe.Gravity, "gravitational acceleration (m/s^2)")
	f.Float64Var(&o.mass, "mass", d.Axe.Mass, "axe mass (kg)")
	f.Float64Var(&o.handle, "handle", d.Axe.HandleLength, "handle length (m)")
	f.Float64Var(&o.headW, "head-width", d.Axe.HeadWidth, "blade width (m)")
}

func (o *simOptions) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if o.preset != "" {
		cfg = config.GetPreset(o.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", o.preset, config.ListPresets())
		}
	}

	if o.configFile != "" {
		if err := config.LoadInto(o.configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	changed := cmd.Flags().Changed
	set := func(name string, dst *float64, v float64) {
		if changed(name) {
			*dst = v
		}
	}

	if changed("integrator") {
		cfg.Integrator = o.integrator
	}
	if changed("adaptive") {
		cfg.Adaptive = o.adaptive
	}
	if changed("ground") {
		cfg.StopAtGround = o.ground
	}
	set("dt", &cfg.Dt, o.dt)
	set("time", &cfg.Duration, o.duration)
	set("tol", &cfg.Tolerance, o.tolerance)
	set("ground-y", &cfg.GroundY, o.groundY)

	set("x", &cfg.InitState.X, o.x)
	set("y", &cfg.InitState.Y, o.y)
	set("theta", &cfg.InitState.Theta, o.theta)
	set("vx", &cfg.InitState.VX, o.vx)
	set("vy", &cfg.InitState.VY, o.vy)
	set("omega", &cfg.InitState.Omega, o.omega)

	set("gravity", &cfg.Axe.Gravity, o.gravity)
	set("mass", &cfg.Axe.Mass, o.mass)
	set("handle", &cfg.Axe.HandleLength, o.handle)
	set("head-width", &cfg.Axe.HeadWidth, o.headW)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
