package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/precsim/internal/config"
	"github.com/san-kum/precsim/internal/deflection"
	"github.com/san-kum/precsim/internal/materials"
	"github.com/san-kum/precsim/internal/precision"
	"github.com/san-kum/precsim/internal/spindle"
	"github.com/san-kum/precsim/internal/storage"
	"github.com/san-kum/precsim/internal/thermal"
	"github.com/san-kum/precsim/internal/viz"
)

func processCommands() []*cobra.Command {
	expansionCmd := &cobra.Command{
		Use:   "expansion [material] [length_mm] [delta_t]",
		Short: "linear thermal expansion (µm)",
		Args:  cobra.ExactArgs(3),
		RunE:  runExpansion,
	}

	var (
		left, right, dt, tol float64
		nodes, steps         int
		compare              string
	)
	thermalCmd := &cobra.Command{
		Use:   "thermal",
		Short: "1-D heat diffusion along a machine element",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tc := cfg.Thermal
			if cmd.Flags().Changed("left") {
				tc.Left = left
			}
			if cmd.Flags().Changed("right") {
				tc.Right = right
			}
			if cmd.Flags().Changed("nodes") {
				tc.Nodes = nodes
			}
			if cmd.Flags().Changed("steps") {
				tc.MaxSteps = steps
			}
			if cmd.Flags().Changed("tol") {
				tc.Tolerance = tol
			}
			cfg.Thermal = tc
			if compare != "" {
				return runThermalCompare(cfg.Thermal.Length, tc, strings.Split(compare, ","))
			}
			sim, err := cfg.ThermalSimulation()
			if err != nil {
				return err
			}
			count := defaultStepCount
			if cmd.Flags().Changed("steps") {
				count = steps
			}
			return runThermal(sim, tc, dt, count)
		},
	}
	thermalCmd.Flags().Float64Var(&left, "left", 0, "left boundary temperature (°C)")
	thermalCmd.Flags().Float64Var(&right, "right", 0, "right boundary temperature (°C)")
	thermalCmd.Flags().IntVar(&nodes, "nodes", 0, "grid nodes")
	thermalCmd.Flags().IntVar(&steps, "steps", 0, "step limit")
	thermalCmd.Flags().Float64Var(&tol, "tol", 0, "steady-state tolerance (°C)")
	thermalCmd.Flags().Float64Var(&dt, "dt", 0, "explicit time step (s); 0 runs to steady state")
	thermalCmd.Flags().StringVar(&compare, "compare", "", "compare materials at steady state, comma separated")

	var (
		model, material                  string
		force, length, diameter, fluteLn float64
	)
	deflectCmd := &cobra.Command{
		Use:   "deflect",
		Short: "static tool deflection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			m, in, err := cfg.ToolInput()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("model") {
				if m, err = deflection.ParseModel(model); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("material") {
				in.Material = material
			}
			if cmd.Flags().Changed("force") {
				in.Force = force
			}
			if cmd.Flags().Changed("length") {
				in.Length = length
			}
			if cmd.Flags().Changed("diameter") {
				in.Diameter = diameter
			}
			if cmd.Flags().Changed("flute") {
				in.FluteLength = fluteLn
			}
			return runDeflect(m, in)
		},
	}
	deflectCmd.Flags().StringVar(&model, "model", "", "euler-bernoulli, timoshenko or tapered")
	deflectCmd.Flags().StringVar(&material, "material", "", "tool material")
	deflectCmd.Flags().Float64Var(&force, "force", 0, "tip force (N)")
	deflectCmd.Flags().Float64Var(&length, "length", 0, "stickout (mm)")
	deflectCmd.Flags().Float64Var(&diameter, "diameter", 0, "tool diameter (mm)")
	deflectCmd.Flags().Float64Var(&fluteLn, "flute", 0, "flute length (mm, tapered)")

	var deflUM, stepover, radius, feed float64
	surfaceCmd := &cobra.Command{
		Use:   "surface",
		Short: "surface form error and kinematic finish",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSurface(deflUM, stepover, radius, feed)
		},
	}
	surfaceCmd.Flags().Float64Var(&deflUM, "deflection", 0, "tool deflection (µm)")
	surfaceCmd.Flags().Float64Var(&stepover, "stepover", 0.5, "stepover (mm)")
	surfaceCmd.Flags().Float64Var(&radius, "radius", 5, "tool radius (mm)")
	surfaceCmd.Flags().Float64Var(&feed, "feed", 0.05, "feed per tooth (mm)")

	var measRadius, rpm float64
	var runout string
	spindleCmd := &cobra.Command{
		Use:   "spindle",
		Short: "spindle error motion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpindle(measRadius, rpm, runout)
		},
	}
	spindleCmd.Flags().Float64Var(&measRadius, "radius", 50, "measuring radius (mm)")
	spindleCmd.Flags().Float64Var(&rpm, "rpm", 10000, "spindle speed")
	spindleCmd.Flags().StringVar(&runout, "runout", "", "csv of runout samples, one revolution per row (µm)")

	var fr, fa, brpm, rating float64
	bearingCmd := &cobra.Command{
		Use:   "bearing",
		Short: "L10 bearing life",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			b := cfg.Bearing
			if cmd.Flags().Changed("radial") {
				b.RadialLoad = fr
			}
			if cmd.Flags().Changed("axial") {
				b.AxialLoad = fa
			}
			if cmd.Flags().Changed("rpm") {
				b.RPM = brpm
			}
			if cmd.Flags().Changed("rating") {
				b.Rating = rating
			}
			life, err := spindle.PredictBearingLife(b.RadialLoad, b.AxialLoad, b.RPM, b.Rating)
			if err != nil {
				return fmt.Errorf("bearing life: %w", err)
			}
			fmt.Printf("equivalent load: %.1f N\n", life.EquivalentLoad)
			fmt.Printf("L10:             %.2f million rev\n", life.L10Revolutions)
			fmt.Printf("L10 hours:       %.0f h\n", life.L10Hours)
			fmt.Printf("recommendation:  %s\n", life.Recommendation)
			return record(storage.Run{
				Analysis: "bearing",
				Params:   map[string]float64{"radial": b.RadialLoad, "axial": b.AxialLoad, "rpm": b.RPM, "rating": b.Rating},
				Metrics:  map[string]float64{"l10_hours": life.L10Hours},
			}, nil)
		},
	}
	bearingCmd.Flags().Float64Var(&fr, "radial", 0, "radial load (N)")
	bearingCmd.Flags().Float64Var(&fa, "axial", 0, "axial load (N)")
	bearingCmd.Flags().Float64Var(&brpm, "rpm", 0, "speed (rpm)")
	bearingCmd.Flags().Float64Var(&rating, "rating", 0, "dynamic load rating C (N)")

	materialsCmd := &cobra.Command{
		Use:   "materials",
		Short: "list material properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%-10s %8s %8s %8s %8s %10s\n", "name", "α µm/m°C", "k W/mK", "ρ kg/m³", "E GPa", "α_th mm²/s")
			for _, name := range materials.Names() {
				p := materials.Get(name)
				fmt.Printf("%-10s %8.2f %8.1f %8.0f %8.0f %10.3f\n",
					name, p.Expansion, p.Conductivity, p.Density, p.Elastic, p.Diffusivity()*1e6)
			}
			return nil
		},
	}

	return []*cobra.Command{expansionCmd, thermalCmd, deflectCmd, surfaceCmd, spindleCmd, bearingCmd, materialsCmd}
}

func runExpansion(cmd *cobra.Command, args []string) error {
	vals, err := parseArgs(args[1:])
	if err != nil {
		return err
	}
	if _, ok := materials.Lookup(args[0]); !ok {
		log.Warn("unknown material, using steel", zap.String("material", args[0]))
	}
	um, err := thermal.Expansion(args[0], vals[0], vals[1])
	if err != nil {
		return fmt.Errorf("expansion: %w", err)
	}
	fmt.Printf("%s, %.1f mm, ΔT %.2f °C: %.3f µm\n", args[0], vals[0], vals[1], um)
	return nil
}

// defaultStepCount is the number of fixed steps taken with --dt when
// --steps is not given.
const defaultStepCount = 100

func runThermal(sim *thermal.Simulation, tc config.ThermalConfig, dt float64, steps int) error {
	var advs []precision.Advisory
	if dt > 0 {
		steps = max(steps, 1)
		for i := 0; i < steps; i++ {
			res, err := sim.Step(dt)
			if err != nil {
				return err
			}
			if i == 0 {
				advs = append(advs, res.Advisories...)
			}
		}
		fmt.Printf("stepped %d x %.4g s (r = %.3f)\n", steps, dt, sim.Ratio(dt))
	} else {
		res := sim.SimulateToSteady(tc.MaxSteps, tc.Tolerance)
		advs = res.Advisories
		fmt.Printf("converged: %v after %d steps (dt %.4g s, %.1f s simulated)\n",
			res.Converged, res.Steps, res.Dt, res.Elapsed)
	}

	temps := sim.Temperatures()
	prof := sim.ExpansionProfile(tc.Material, thermal.AmbientTemp)
	fmt.Println(viz.Line(temps, fmt.Sprintf("temperature along %s bar (°C)", tc.Material), 10, 70))
	fmt.Printf("\ntotal growth: %.3f µm\n", prof.Total)
	printAdvisories(advs)

	series := storage.Series{Columns: []string{"x_mm", "temp_c", "growth_um"}}
	dxMM := sim.LengthMM() / float64(sim.Nodes()-1)
	for i, t := range temps {
		series.Rows = append(series.Rows, []float64{float64(i) * dxMM, t, prof.Local[i]})
	}
	return record(storage.Run{
		Analysis: "thermal",
		Params:   map[string]float64{"length": sim.LengthMM(), "nodes": float64(sim.Nodes()), "left": tc.Left, "right": tc.Right},
		Metrics:  map[string]float64{"growth_um": prof.Total, "elapsed_s": sim.Elapsed()},
		Series:   series,
	}, advs)
}

// runThermalCompare runs one bar per material to steady state.
func runThermalCompare(lengthMM float64, tc config.ThermalConfig, names []string) error {
	arena := thermal.NewArena()
	byHandle := map[thermal.Handle]string{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		sim, err := thermal.NewSimulation(lengthMM, max(tc.Nodes, 2), name)
		if err != nil {
			return err
		}
		sim.SetBoundary(tc.Left, tc.Right)
		byHandle[arena.Add(sim)] = name
	}

	results := arena.SteadyAll(tc.MaxSteps, tc.Tolerance)
	fmt.Printf("%-10s %10s %8s %12s  %s\n", "material", "converged", "steps", "growth µm", "profile")
	var profiles [][]float64
	for _, h := range arena.Handles() {
		sim, err := arena.Get(h)
		if err != nil {
			return err
		}
		name := byHandle[h]
		prof := sim.ExpansionProfile(name, thermal.AmbientTemp)
		fmt.Printf("%-10s %10v %8d %12.3f  %s\n", name, results[h].Converged, results[h].Steps, prof.Total,
			viz.Sparkline(prof.Local, 16))
		log.Analysis("thermal/" + name).Advisories(results[h].Advisories)
		profiles = append(profiles, sim.Temperatures())
	}
	fmt.Println()
	fmt.Println(viz.Lines(profiles, "steady temperature (°C)", 10, 70, viz.ThemeShop))
	return nil
}

func runDeflect(m deflection.Model, in deflection.Input) error {
	res, err := deflection.Compute(m, in)
	if err != nil {
		return fmt.Errorf("deflection: %w", err)
	}
	fmt.Printf("model:      %s\n", res.Model)
	fmt.Printf("deflection: %.3f µm\n", res.Deflection)
	fmt.Printf("  bending:  %.3f µm\n", res.Bending)
	if res.Shear > 0 {
		fmt.Printf("  shear:    %.3f µm\n", res.Shear)
	}
	if m == deflection.TaperedModel {
		fmt.Printf("  shank:    %.3f µm\n", res.Shank)
		fmt.Printf("  flute:    %.3f µm\n", res.Flute)
	}
	fmt.Printf("stiffness:  %.3f N/µm\n", res.Stiffness)
	printAdvisories(res.Advisories)

	return record(storage.Run{
		Analysis: "deflect",
		Params:   map[string]float64{"force": in.Force, "length": in.Length, "diameter": in.Diameter, "flute": in.FluteLength},
		Metrics:  map[string]float64{"deflection_um": res.Deflection, "stiffness": res.Stiffness},
	}, res.Advisories)
}

func runSurface(deflUM, stepover, radius, feed float64) error {
	se, err := deflection.ComputeSurfaceError(deflUM, stepover, radius)
	if err != nil {
		return fmt.Errorf("surface error: %w", err)
	}
	fin, err := deflection.SurfaceFinish(feed, radius)
	if err != nil {
		return fmt.Errorf("surface finish: %w", err)
	}
	fmt.Printf("form error: %.3f µm (deflection %.3f + scallop %.3f)\n", se.Total, se.Deflection, se.Scallop)
	fmt.Printf("finish:     Rt %.3f µm, Ra %.3f µm\n", fin.PeakToValley, fin.Ra)
	return nil
}

func runSpindle(radius, rpm float64, runout string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := cfg.SpindleModel()
	if err != nil {
		return err
	}
	mo, err := spindle.ErrorMotion(m, radius, rpm)
	if err != nil {
		return fmt.Errorf("error motion: %w", err)
	}

	fmt.Printf("radial:        %.3f µm (%.0f%% synchronous)\n", mo.Radial, mo.SyncFracRadial*100)
	fmt.Printf("  tilt share:  %.3f µm at r=%.0f mm\n", mo.TiltRadial, radius)
	fmt.Printf("axial:         %.3f µm (%.0f%% synchronous)\n", mo.Axial, mo.SyncFracAxial*100)
	fmt.Printf("roundness:     %.3f µm\n", mo.Roundness)
	fmt.Printf("thermal drift: %.3f µm at %.0f rpm\n", mo.ThermalDrift, rpm)
	fmt.Printf("axis shift:    %.3f µm\n", mo.AxisShift)

	metrics := map[string]float64{"radial": mo.Radial, "axial": mo.Axial, "roundness": mo.Roundness}
	var series storage.Series
	if runout != "" {
		revs, err := readRevolutions(runout)
		if err != nil {
			return err
		}
		sep, err := spindle.Separate(revs)
		if err != nil {
			return fmt.Errorf("separate runout: %w", err)
		}
		fmt.Printf("\nmeasured synchronous:  %.3f µm\n", sep.Synchronous)
		fmt.Printf("measured asynchronous: %.3f µm\n", sep.Asynchronous)
		fmt.Println(viz.Line(sep.Profile, "synchronous runout profile (µm)", 8, 70))
		metrics["measured_sync"] = sep.Synchronous
		metrics["measured_async"] = sep.Asynchronous
		series.Columns = []string{"index", "runout_um"}
		for i, v := range sep.Profile {
			series.Rows = append(series.Rows, []float64{float64(i), v})
		}
	}

	return record(storage.Run{
		Analysis: "spindle",
		Params:   map[string]float64{"radius": radius, "rpm": rpm},
		Metrics:  metrics,
		Series:   series,
	}, nil)
}

func readRevolutions(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	revs := make([][]float64, 0, len(records))
	for i, rec := range records {
		rev := make([]float64, len(rec))
		for j, cell := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
			}
			rev[j] = v
		}
		revs = append(revs, rev)
	}
	return revs, nil
}
