// Package config loads machine and process descriptions from YAML files
// and the runtime environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/precsim/internal/budget"
	"github.com/san-kum/precsim/internal/chatter"
	"github.com/san-kum/precsim/internal/deflection"
	"github.com/san-kum/precsim/internal/geometric"
	"github.com/san-kum/precsim/internal/precision"
	"github.com/san-kum/precsim/internal/spindle"
	"github.com/san-kum/precsim/internal/thermal"
)

const (
	DefaultNodes     = 21
	DefaultMaxSteps  = 200000
	DefaultTolerance = 1e-6
	DefaultLobes     = 5
	DefaultSamples   = 10000
	DefaultSeed      = 42
)

type Config struct {
	Name    string         `yaml:"name"`
	Machine MachineConfig  `yaml:"machine"`
	Thermal ThermalConfig  `yaml:"thermal"`
	Spindle spindle.Params `yaml:"spindle"`
	Bearing BearingConfig  `yaml:"bearing"`
	Tool    ToolConfig     `yaml:"tool"`
	Chatter ChatterConfig  `yaml:"chatter"`
	Budget  BudgetConfig   `yaml:"budget"`
}

type MachineConfig struct {
	AxisCount  int                  `yaml:"axis_count"`
	X          geometric.LinearAxis `yaml:"x"`
	Y          geometric.LinearAxis `yaml:"y"`
	Z          geometric.LinearAxis `yaml:"z"`
	Squareness geometric.Squareness `yaml:"squareness"`
	Rotary     []RotaryConfig       `yaml:"rotary,omitempty"`
	Travel     geometric.Bounds     `yaml:"travel"`
}

// RotaryConfig names the rotary axis kind as "A", "B" or "C".
type RotaryConfig struct {
	Kind                 string `yaml:"kind"`
	geometric.RotaryAxis `yaml:",inline"`
}

type ThermalConfig struct {
	Material  string  `yaml:"material"`
	Length    float64 `yaml:"length"` // mm
	Nodes     int     `yaml:"nodes"`
	Left      float64 `yaml:"left"`  // °C
	Right     float64 `yaml:"right"` // °C
	MaxSteps  int     `yaml:"max_steps"`
	Tolerance float64 `yaml:"tolerance"`
}

type BearingConfig struct {
	RadialLoad float64 `yaml:"radial_load"` // N
	AxialLoad  float64 `yaml:"axial_load"`  // N
	RPM        float64 `yaml:"rpm"`
	Rating     float64 `yaml:"rating"` // N, dynamic load rating C
}

type ToolConfig struct {
	Model       string  `yaml:"model"`
	Material    string  `yaml:"material"`
	Force       float64 `yaml:"force"`        // N
	Stickout    float64 `yaml:"stickout"`     // mm
	Diameter    float64 `yaml:"diameter"`     // mm
	FluteLength float64 `yaml:"flute_length"` // mm
}

type ChatterConfig struct {
	chatter.Params `yaml:",inline"`
	RPM            chatter.RPMRange `yaml:"rpm"`
	Lobes          int              `yaml:"lobes"`
}

type BudgetConfig struct {
	Target        float64              `yaml:"target"` // µm
	Sources       []budget.Source      `yaml:"sources"`
	Distributions []DistributionConfig `yaml:"distributions"`
	Samples       int                  `yaml:"samples"`
	Seed          uint64               `yaml:"seed"`
}

// DistributionConfig names the distribution kind as "normal" or "uniform".
type DistributionConfig struct {
	Name   string  `yaml:"name"`
	Kind   string  `yaml:"kind"`
	Mean   float64 `yaml:"mean,omitempty"`
	StdDev float64 `yaml:"stddev,omitempty"`
	Min    float64 `yaml:"min,omitempty"`
	Max    float64 `yaml:"max,omitempty"`
}

// DefaultConfig is the vmc preset.
func DefaultConfig() *Config {
	return vmc()
}

// Load reads path over DefaultConfig, so omitted sections keep defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
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

// Validate checks every section by building its domain model.
func (c *Config) Validate() error {
	_, errModel := c.ErrorModel()
	_, errSpindle := c.SpindleModel()
	_, errChatter := c.ChatterModel()
	_, errDists := c.Distributions()
	_, _, errTool := c.ToolInput()
	return errors.Join(
		errModel,
		errSpindle,
		errChatter,
		errDists,
		errTool,
		precision.Positive("thermal.length", c.Thermal.Length),
		precision.Positive("budget.target", c.Budget.Target),
	)
}

// ErrorModel builds the geometric model. Rotary axes listed in the file
// replace the defaults of a 5-axis model.
func (c *Config) ErrorModel() (*geometric.ErrorModel, error) {
	m, err := geometric.NewErrorModel(c.Machine.AxisCount)
	if err != nil {
		return nil, fmt.Errorf("machine: %w", err)
	}
	m.Axes = [3]geometric.LinearAxis{c.Machine.X, c.Machine.Y, c.Machine.Z}
	m.Squareness = c.Machine.Squareness
	if len(c.Machine.Rotary) == 0 {
		return m, nil
	}
	if c.Machine.AxisCount != 5 {
		return nil, fmt.Errorf("machine: rotary axes on a %d-axis model: %w", c.Machine.AxisCount, precision.ErrInvalidGeometry)
	}

	m.Rotary = m.Rotary[:0]
	for _, rc := range c.Machine.Rotary {
		kind, err := parseRotaryKind(rc.Kind)
		if err != nil {
			return nil, err
		}
		ax := rc.RotaryAxis
		ax.Kind = kind
		m.Rotary = append(m.Rotary, ax)
	}
	return m, nil
}

func parseRotaryKind(name string) (geometric.RotaryKind, error) {
	switch name {
	case "A", "a":
		return geometric.RotaryA, nil
	case "B", "b":
		return geometric.RotaryB, nil
	case "C", "c":
		return geometric.RotaryC, nil
	}
	return 0, fmt.Errorf("machine: unknown rotary axis %q", name)
}

func (c *Config) SpindleModel() (spindle.Model, error) {
	return spindle.NewModel(c.Spindle)
}

func (c *Config) ChatterModel() (*chatter.Model, error) {
	m, err := chatter.NewModel(c.Chatter.Params)
	if err != nil {
		return nil, fmt.Errorf("chatter: %w", err)
	}
	return m, nil
}

// ThermalSimulation allocates a bar from the thermal section with its
// boundary temperatures applied.
func (c *Config) ThermalSimulation() (*thermal.Simulation, error) {
	nodes := c.Thermal.Nodes
	if nodes == 0 {
		nodes = DefaultNodes
	}
	s, err := thermal.NewSimulation(c.Thermal.Length, nodes, c.Thermal.Material)
	if err != nil {
		return nil, fmt.Errorf("thermal: %w", err)
	}
	s.SetBoundary(c.Thermal.Left, c.Thermal.Right)
	return s, nil
}

// ToolInput returns the deflection model and load case of the tool section.
func (c *Config) ToolInput() (deflection.Model, deflection.Input, error) {
	m, err := deflection.ParseModel(c.Tool.Model)
	if err != nil {
		return 0, deflection.Input{}, err
	}
	return m, deflection.Input{
		Force:       c.Tool.Force,
		Length:      c.Tool.Stickout,
		Diameter:    c.Tool.Diameter,
		FluteLength: c.Tool.FluteLength,
		Material:    c.Tool.Material,
	}, nil
}

func (c *Config) Sources() []budget.Source {
	return append([]budget.Source(nil), c.Budget.Sources...)
}

func (c *Config) Distributions() ([]budget.Distribution, error) {
	out := make([]budget.Distribution, 0, len(c.Budget.Distributions))
	for _, d := range c.Budget.Distributions {
		kind, err := budget.ParseKind(d.Kind)
		if err != nil {
			return nil, err
		}
		out = append(out, budget.Distribution{
			Name:   d.Name,
			Kind:   kind,
			Mean:   d.Mean,
			StdDev: d.StdDev,
			Min:    d.Min,
			Max:    d.Max,
		})
	}
	return out, nil
}

// Env is the runtime environment, read from PRECSIM_* variables.
type Env struct {
	LogLevel string `envconfig:"LOG_LEVEL"`
	LogDev   bool   `envconfig:"LOG_DEV" default:"false"`
	DataDir  string `envconfig:"DATA_DIR"`
}

func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("precsim", &env); err != nil {
		return Env{}, fmt.Errorf("failed to load environment: %w", err)
	}
	return env, nil
}
