package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/precsim/internal/budget"
	"github.com/san-kum/precsim/internal/chatter"
	"github.com/san-kum/precsim/internal/deflection"
	"github.com/san-kum/precsim/internal/geometric"
	"github.com/san-kum/precsim/internal/precision"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Name != "vmc" {
		t.Errorf("expected vmc, got %s", cfg.Name)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Chatter.Lobes != DefaultLobes {
		t.Errorf("expected %d lobes, got %d", DefaultLobes, cfg.Chatter.Lobes)
	}
}

func TestGetPreset(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s: got nil", name)
		}
		if cfg.Name != name {
			t.Errorf("preset %s: name %s", name, cfg.Name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("lathe"); cfg != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestGetPreset_Fresh(t *testing.T) {
	a := GetPreset("vmc")
	a.Budget.Sources[0].Value = 999
	b := GetPreset("vmc")
	if b.Budget.Sources[0].Value == 999 {
		t.Error("presets share state between calls")
	}
}

func TestListPresets(t *testing.T) {
	got := ListPresets()
	want := []string{"hmc", "trunnion5", "vmc"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestPresetBestSpeed(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			m, err := cfg.ChatterModel()
			if err != nil {
				t.Fatal(err)
			}
			best, err := chatter.BestSpeed(m, cfg.Chatter.RPM, cfg.Chatter.Lobes, 10)
			if err != nil {
				t.Fatal(err)
			}
			if best.Depth >= chatter.MaxDepth {
				t.Errorf("best depth %g mm at %g rpm is the uncovered cap", best.Depth, best.RPM)
			}
			if best.Depth <= m.AbsoluteLimit() {
				t.Errorf("best depth %g mm not above absolute limit %g mm", best.Depth, m.AbsoluteLimit())
			}
			if best.RPM <= cfg.Chatter.RPM.Min {
				t.Errorf("best speed %g rpm sits on the range minimum", best.RPM)
			}
		})
	}
}

func TestErrorModel(t *testing.T) {
	m, err := GetPreset("vmc").ErrorModel()
	if err != nil {
		t.Fatal(err)
	}
	if m.ParameterCount() != 21 {
		t.Errorf("expected 21 parameters, got %d", m.ParameterCount())
	}
	if m.Axis(geometric.Y).Positioning != 7 {
		t.Errorf("expected Y positioning 7, got %f", m.Axis(geometric.Y).Positioning)
	}

	m, err = GetPreset("trunnion5").ErrorModel()
	if err != nil {
		t.Fatal(err)
	}
	if m.ParameterCount() != 41 {
		t.Errorf("expected 41 parameters, got %d", m.ParameterCount())
	}
	if m.Rotary[1].Kind != geometric.RotaryC {
		t.Errorf("expected C axis, got %s", m.Rotary[1].Kind)
	}
}

func TestErrorModel_RotaryOnThreeAxis(t *testing.T) {
	cfg := GetPreset("trunnion5")
	cfg.Machine.AxisCount = 3
	if _, err := cfg.ErrorModel(); !errors.Is(err, precision.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestToolInput(t *testing.T) {
	m, in, err := GetPreset("hmc").ToolInput()
	if err != nil {
		t.Fatal(err)
	}
	if m != deflection.TaperedModel {
		t.Errorf("expected tapered, got %s", m)
	}
	if in.Length != 80 || in.FluteLength != 32 {
		t.Errorf("unexpected input %+v", in)
	}
}

func TestDistributions(t *testing.T) {
	dists, err := DefaultConfig().Distributions()
	if err != nil {
		t.Fatal(err)
	}
	if len(dists) != 4 {
		t.Fatalf("expected 4 distributions, got %d", len(dists))
	}
	if dists[2].Kind != budget.Uniform {
		t.Errorf("expected uniform, got %s", dists[2].Kind)
	}

	cfg := DefaultConfig()
	cfg.Budget.Distributions[0].Kind = "cauchy"
	if _, err := cfg.Distributions(); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestThermalSimulation(t *testing.T) {
	s, err := DefaultConfig().ThermalSimulation()
	if err != nil {
		t.Fatal(err)
	}
	if s.Nodes() != DefaultNodes {
		t.Errorf("expected %d nodes, got %d", DefaultNodes, s.Nodes())
	}
	if s.Temp(0) != 35 || s.Temp(s.Nodes()-1) != 20 {
		t.Errorf("boundaries not applied: %v", s.Temperatures())
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "machine.yaml")
	cfg := GetPreset("trunnion5")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Machine.AxisCount != 5 || len(got.Machine.Rotary) != 2 {
		t.Errorf("machine not round-tripped: %+v", got.Machine)
	}
	if got.Machine.Rotary[0].Kind != "A" || got.Machine.Rotary[0].Indexing != 6 {
		t.Errorf("rotary not round-tripped: %+v", got.Machine.Rotary[0])
	}
	if got.Chatter.Teeth != 3 || got.Chatter.RPM.Max != 20000 {
		t.Errorf("chatter not round-tripped: %+v", got.Chatter)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("tool:\n  model: timoshenko\n  material: hss\n  force: 50\n  stickout: 40\n  diameter: 8\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tool.Material != "hss" {
		t.Errorf("expected hss, got %s", cfg.Tool.Material)
	}
	if cfg.Chatter.Stiffness != 2e7 {
		t.Errorf("expected default chatter stiffness, got %g", cfg.Chatter.Stiffness)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("chatter:\n  mass: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, precision.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("PRECSIM_LOG_LEVEL", "debug")
	t.Setenv("PRECSIM_DATA_DIR", "/tmp/precsim")

	env, err := LoadEnv()
	if err != nil {
		t.Fatal(err)
	}
	if env.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", env.LogLevel)
	}
	if env.DataDir != "/tmp/precsim" {
		t.Errorf("expected /tmp/precsim, got %s", env.DataDir)
	}
	if env.LogDev {
		t.Error("expected LogDev false by default")
	}
}

func TestLoadEnv_Unset(t *testing.T) {
	t.Setenv("PRECSIM_LOG_LEVEL", "")
	t.Setenv("PRECSIM_DATA_DIR", "")

	env, err := LoadEnv()
	if err != nil {
		t.Fatal(err)
	}
	if env.DataDir != "" {
		t.Errorf("expected no data dir without PRECSIM_DATA_DIR, got %q", env.DataDir)
	}
	if env.LogLevel != "" {
		t.Errorf("expected no log level without PRECSIM_LOG_LEVEL, got %q", env.LogLevel)
	}
}
