package config

import (
	"sort"

	"github.com/san-kum/precsim/internal/budget"
	"github.com/san-kum/precsim/internal/chatter"
	"github.com/san-kum/precsim/internal/geometric"
	"github.com/san-kum/precsim/internal/precision"
	"github.com/san-kum/precsim/internal/spindle"
)

// Presets builds a fresh Config per call so callers may mutate the result.
var Presets = map[string]func() *Config{
	"vmc":       vmc,
	"hmc":       hmc,
	"trunnion5": trunnion5,
}

func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// vmc is a mid-size vertical machining centre with a 10 mm carbide end mill.
func vmc() *Config {
	return &Config{
		Name: "vmc",
		Machine: MachineConfig{
			AxisCount:  3,
			X:          geometric.LinearAxis{Positioning: 8, StraightnessA: 4, StraightnessB: 5, Roll: 10, Pitch: 12, Yaw: 8},
			Y:          geometric.LinearAxis{Positioning: 7, StraightnessA: 4, StraightnessB: 4, Roll: 9, Pitch: 10, Yaw: 7},
			Z:          geometric.LinearAxis{Positioning: 6, StraightnessA: 3, StraightnessB: 3, Roll: 8, Pitch: 9, Yaw: 6},
			Squareness: geometric.Squareness{XY: 15, XZ: 10, YZ: 12},
			Travel:     geometric.Bounds{Max: precision.Vec3{X: 800, Y: 500, Z: 500}},
		},
		Thermal: ThermalConfig{
			Material:  "cast_iron",
			Length:    800,
			Nodes:     DefaultNodes,
			Left:      35,
			Right:     20,
			MaxSteps:  DefaultMaxSteps,
			Tolerance: DefaultTolerance,
		},
		Spindle: spindle.DefaultParams(),
		Bearing: BearingConfig{RadialLoad: 2000, AxialLoad: 1000, RPM: 12000, Rating: 30000},
		Tool: ToolConfig{
			Model:       "euler-bernoulli",
			Material:    "carbide",
			Force:       100,
			Stickout:    50,
			Diameter:    10,
			FluteLength: 25,
		},
		Chatter: ChatterConfig{
			Params: chatter.Params{Mass: 0.5, Stiffness: 2e7, Damping: 150, Kc: 2000, Teeth: 4},
			RPM:    chatter.RPMRange{Min: 2000, Max: 20000},
			Lobes:  DefaultLobes,
		},
		Budget: BudgetConfig{
			Target: 10,
			Sources: []budget.Source{
				{Name: "geometric", Value: 5},
				{Name: "thermal", Value: 4},
				{Name: "deflection", Value: 3},
				{Name: "spindle", Value: 1.5},
				{Name: "abbe", Value: 0.8},
			},
			Distributions: []DistributionConfig{
				{Name: "geometric", Kind: "normal", Mean: 0, StdDev: 2.5},
				{Name: "thermal", Kind: "normal", Mean: 1, StdDev: 2},
				{Name: "deflection", Kind: "uniform", Min: 0, Max: 3},
				{Name: "spindle", Kind: "normal", Mean: 0, StdDev: 0.5},
			},
			Samples: DefaultSamples,
			Seed:    DefaultSeed,
		},
	}
}

// hmc is a large horizontal machining centre: longer travels, a steel
// column and a stiffer, heavier tool mode.
func hmc() *Config {
	c := vmc()
	c.Name = "hmc"
	c.Machine.X = geometric.LinearAxis{Positioning: 10, StraightnessA: 6, StraightnessB: 6, Roll: 12, Pitch: 14, Yaw: 10}
	c.Machine.Y = geometric.LinearAxis{Positioning: 9, StraightnessA: 5, StraightnessB: 6, Roll: 11, Pitch: 12, Yaw: 9}
	c.Machine.Z = geometric.LinearAxis{Positioning: 9, StraightnessA: 5, StraightnessB: 5, Roll: 10, Pitch: 12, Yaw: 9}
	c.Machine.Squareness = geometric.Squareness{XY: 20, XZ: 18, YZ: 15}
	c.Machine.Travel = geometric.Bounds{Max: precision.Vec3{X: 1250, Y: 1000, Z: 1000}}
	c.Thermal.Material = "steel"
	c.Thermal.Length = 1250
	c.Thermal.Left = 40
	c.Bearing = BearingConfig{RadialLoad: 4000, AxialLoad: 2500, RPM: 8000, Rating: 60000}
	c.Tool = ToolConfig{
		Model:       "tapered",
		Material:    "carbide",
		Force:       250,
		Stickout:    80,
		Diameter:    16,
		FluteLength: 32,
	}
	c.Chatter = ChatterConfig{
		Params: chatter.Params{Mass: 1.2, Stiffness: 6e7, Damping: 450, Kc: 2200, Teeth: 3},
		RPM:    chatter.RPMRange{Min: 1000, Max: 15000},
		Lobes:  DefaultLobes,
	}
	c.Budget.Target = 20
	return c
}

// trunnion5 is a 5-axis trunnion machine: a vmc base with A and C
// rotary axes pivoting at the table centre.
func trunnion5() *Config {
	c := vmc()
	c.Name = "trunnion5"
	c.Machine.AxisCount = 5
	pivot := precision.Vec3{X: 400, Y: 250, Z: 150}
	c.Machine.Rotary = []RotaryConfig{
		{Kind: "A", RotaryAxis: geometric.RotaryAxis{
			Pivot: pivot, Offset1: 5, Offset2: 4, Tilt1: 8, Tilt2: 6,
			Radial1: 1.5, Radial2: 1.2, Axial: 1, Wobble1: 4, Wobble2: 3, Indexing: 6,
		}},
		{Kind: "C", RotaryAxis: geometric.RotaryAxis{
			Pivot: pivot, Offset1: 3, Offset2: 3, Tilt1: 5, Tilt2: 5,
			Radial1: 1, Radial2: 1, Axial: 0.8, Wobble1: 3, Wobble2: 3, Indexing: 5,
		}},
	}
	c.Tool.Model = "timoshenko"
	c.Chatter.Params.Teeth = 3
	c.Budget.Target = 15
	c.Budget.Sources = append(c.Budget.Sources, budget.Source{Name: "rotary", Value: 6})
	return c
}
