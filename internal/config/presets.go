package config

import "sort"

func preset(mutate func(c *Config)) *Config {
	c := DefaultConfig()
	mutate(c)
	return c
}

var Presets = map[string]*Config{
	"notebook": DefaultConfig(),
	"to_ground": preset(func(c *Config) {
		c.Duration = 3.0
		c.StopAtGround = true
	}),
	"lob": preset(func(c *Config) {
		c.Duration = 3.0
		c.StopAtGround = true
		c.InitState = InitStateConfig{X: 0, Y: 1.8, Theta: 1.2, VX: 4, VY: 9, Omega: -6}
	}),
	"flat": preset(func(c *Config) {
		c.Duration = 1.5
		c.StopAtGround = true
		c.InitState = InitStateConfig{X: 0, Y: 1.7, Theta: 0, VX: 12, VY: 0.5, Omega: -12}
	}),
	"no_spin": preset(func(c *Config) {
		c.InitState.Omega = 0
	}),
	"adaptive": preset(func(c *Config) {
		c.Integrator = "rk45"
		c.Adaptive = true
		c.Duration = 3.0
		c.StopAtGround = true
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
