package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "rk4" {
		t.Errorf("expected integrator rk4, got %s", cfg.Integrator)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetInitState(t *testing.T) {
	state := DefaultConfig().GetInitState()
	want := []float64{0, 2, 2, 8, 4, -7}
	if len(state) != len(want) {
		t.Fatalf("expected %d states, got %d", len(want), len(state))
	}
	for i := range want {
		if state[i] != want[i] {
			t.Errorf("state[%d] = %v, want %v", i, state[i], want[i])
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("lob")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.InitState.VY != 9 {
		t.Errorf("expected vy 9, got %f", cfg.InitState.VY)
	}
	if !cfg.StopAtGround {
		t.Error("lob preset should stop at the ground")
	}

	cfg.Duration = 99
	if GetPreset("lob").Duration == 99 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dt = 0
	cfg.Axe.Mass = -1
	cfg.Integrator = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"dt must be positive", "mass must be positive", "integrator must be set"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "throw.yaml")
	data := `
integrator: rk45
adaptive: true
duration: 2.5
axe:
  mass: 0.7
init_state:
  vx: 10
  omega: -9
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Integrator != "rk45" || !cfg.Adaptive || cfg.Duration != 2.5 {
		t.Errorf("top-level fields not loaded: %+v", cfg)
	}
	if cfg.Axe.Mass != 0.7 {
		t.Errorf("expected mass 0.7, got %v", cfg.Axe.Mass)
	}
	if cfg.Axe.HandleLength != DefaultHandle {
		t.Errorf("handle length should keep its default, got %v", cfg.Axe.HandleLength)
	}
	if cfg.InitState.VX != 10 || cfg.InitState.Omega != -9 || cfg.InitState.Y != 2 {
		t.Errorf("init state not merged with defaults: %+v", cfg.InitState)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := GetPreset("flat")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadIntoPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dt.yaml")
	if err := os.WriteFile(path, []byte("dt: 0.005\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := GetPreset("lob")
	if err := LoadInto(path, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Dt != 0.005 {
		t.Errorf("expected dt from file, got %v", cfg.Dt)
	}
	if cfg.InitState.VY != 9 || !cfg.StopAtGround {
		t.Errorf("preset values should survive the file: %+v", cfg)
	}

	if err := os.WriteFile(path, []byte("dt: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := LoadInto(path, cfg); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()
	for name, v := range map[string]float64{"omega": -12, "vx": 6, "mass": 2, "duration": 3, "ground_y": -1} {
		if err := cfg.Set(name, v); err != nil {
			t.Fatalf("Set(%s): %v", name, err)
		}
	}
	if cfg.InitState.Omega != -12 || cfg.InitState.VX != 6 || cfg.Axe.Mass != 2 || cfg.Duration != 3 || cfg.GroundY != -1 {
		t.Errorf("values not applied: %+v", cfg)
	}
	if err := cfg.Set("drag", 1); err == nil {
		t.Error("expected error for unknown name")
	}
}
