package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/precsim/internal/chatter"
	"github.com/san-kum/precsim/internal/config"
	"github.com/san-kum/precsim/internal/export"
	"github.com/san-kum/precsim/internal/storage"
	"github.com/san-kum/precsim/internal/tui"
	"github.com/san-kum/precsim/internal/units"
	"github.com/san-kum/precsim/internal/viz"
)

func chatterCommands() []*cobra.Command {
	var fromHz, toHz float64
	var points int
	frfCmd := &cobra.Command{
		Use:   "frf",
		Short: "frequency response of the tool mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFRF(fromHz, toHz, points)
		},
	}
	frfCmd.Flags().Float64Var(&fromHz, "from", 0, "start frequency (Hz); 0 uses fn/2")
	frfCmd.Flags().Float64Var(&toHz, "to", 0, "end frequency (Hz); 0 uses 2·fn")
	frfCmd.Flags().IntVar(&points, "points", 200, "frequency points")

	var rpmMin, rpmMax, step float64
	var lobes int
	var svgPath string
	lobesCmd := &cobra.Command{
		Use:   "lobes",
		Short: "stability lobe diagram",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cc := cfg.Chatter
			if cmd.Flags().Changed("min") {
				cc.RPM.Min = rpmMin
			}
			if cmd.Flags().Changed("max") {
				cc.RPM.Max = rpmMax
			}
			if cmd.Flags().Changed("lobes") {
				cc.Lobes = lobes
			}
			cfg.Chatter = cc
			return runLobes(cfg, step, svgPath)
		},
	}
	lobesCmd.Flags().Float64Var(&rpmMin, "min", 0, "minimum spindle speed (rpm)")
	lobesCmd.Flags().Float64Var(&rpmMax, "max", 0, "maximum spindle speed (rpm)")
	lobesCmd.Flags().IntVar(&lobes, "lobes", 0, "number of lobes")
	lobesCmd.Flags().Float64Var(&step, "step", 10, "best-speed search step (rpm)")
	lobesCmd.Flags().StringVar(&svgPath, "svg", "", "also write the diagram as SVG")

	stabilityCmd := &cobra.Command{
		Use:   "stability [rpm] [depth_mm]",
		Short: "check one operating point for chatter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := parseArgs(args)
			if err != nil {
				return err
			}
			return runStability(vals[0], vals[1])
		},
	}

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive stability lobe explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			if configFile != "" || preset != "" {
				c, err := loadConfig()
				if err != nil {
					return err
				}
				cfg = c
			}
			return tui.Run(cfg)
		},
	}

	return []*cobra.Command{frfCmd, lobesCmd, stabilityCmd, exploreCmd}
}

func runFRF(fromHz, toHz float64, points int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := cfg.ChatterModel()
	if err != nil {
		return err
	}
	fn := m.NaturalFrequencyHz()
	if fromHz <= 0 {
		fromHz = fn / 2
	}
	if toHz <= fromHz {
		toHz = 2 * fn
	}
	points = max(points, 2)

	series := storage.Series{Columns: []string{"hz", "real", "imag", "magnitude", "phase"}}
	mag := make([]float64, points)
	re := make([]float64, points)
	for i := 0; i < points; i++ {
		hz := fromHz + (toHz-fromHz)*float64(i)/float64(points-1)
		r := m.FRF(2 * math.Pi * hz)
		mag[i] = units.MToUM(r.Magnitude)
		re[i] = units.MToUM(r.Real)
		series.Rows = append(series.Rows, []float64{hz, r.Real, r.Imag, r.Magnitude, r.Phase})
	}

	fmt.Printf("fn %.2f Hz  fd %.2f Hz  ζ %.5f\n\n", fn, units.RadPerSecToHz(m.DampedFrequency()), m.DampingRatio())
	fmt.Println(viz.Line(mag, fmt.Sprintf("|G| (µm/N), %.0f-%.0f Hz", fromHz, toHz), 10, 70))
	fmt.Println()
	fmt.Println(viz.Line(re, "Re G (µm/N)", 8, 70))

	return record(storage.Run{
		Analysis: "frf",
		Params:   map[string]float64{"from_hz": fromHz, "to_hz": toHz},
		Metrics:  map[string]float64{"fn_hz": fn, "zeta": m.DampingRatio()},
		Series:   series,
	}, nil)
}

func runLobes(cfg *config.Config, step float64, svgPath string) error {
	m, err := cfg.ChatterModel()
	if err != nil {
		return err
	}
	cc := cfg.Chatter
	set := chatter.GenerateStabilityLobes(m, cc.RPM, cc.Lobes)
	log.Debug("lobes generated", zap.Int("lobes", len(set.Lobes)))

	fmt.Print(viz.LobeChart(set, 70, 16, nil))
	fmt.Println()
	fmt.Printf("absolute limit: %.4f mm\n", m.AbsoluteLimit())

	best, err := chatter.BestSpeed(m, cc.RPM, cc.Lobes, step)
	if err != nil {
		return fmt.Errorf("best speed: %w", err)
	}
	fmt.Printf("best speed:     %.0f rpm (%.4f mm)\n", best.RPM, best.Depth)
	fmt.Print("lobe tops:     ")
	for _, rpm := range chatter.OptimalSpeeds(m, cc.Lobes) {
		if cc.RPM.Contains(rpm) {
			fmt.Printf(" %.0f", rpm)
		}
	}
	fmt.Println()

	if svgPath != "" {
		f, err := os.Create(svgPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteLobes(f, set, 800, 400, &best); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}

	series := storage.Series{Columns: []string{"lobe", "rpm", "depth"}}
	for _, lobe := range set.Lobes {
		for _, p := range lobe.Points {
			series.Rows = append(series.Rows, []float64{float64(lobe.Index), p.RPM, p.Depth})
		}
	}
	return record(storage.Run{
		Analysis: "lobes",
		Params: map[string]float64{
			"rpm_min": cc.RPM.Min, "rpm_max": cc.RPM.Max, "lobes": float64(cc.Lobes),
			"teeth": float64(cc.Teeth), "kc": cc.Kc,
		},
		Metrics: map[string]float64{
			"absolute_limit": m.AbsoluteLimit(),
			"best_rpm":       best.RPM,
			"best_depth":     best.Depth,
		},
		Series: series,
	}, nil)
}

func runStability(rpm, depth float64) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := cfg.ChatterModel()
	if err != nil {
		return err
	}
	c, err := chatter.CheckStability(m, rpm, depth)
	if err != nil {
		return fmt.Errorf("stability: %w", err)
	}

	limit := "unconditionally stable"
	if !math.IsInf(c.CriticalDepth, 1) {
		limit = fmt.Sprintf("%.4f mm", c.CriticalDepth)
	}
	status := viz.Stable.Render("stable")
	if !c.Stable {
		status = viz.Unstable.Render("chatter")
	}
	fmt.Printf("tooth passing:  %.1f Hz\n", c.ToothPassingHz)
	fmt.Printf("critical depth: %s\n", limit)
	fmt.Printf("depth:          %.4f mm  %s\n", depth, status)
	fmt.Printf("margin:         %s %.1f%%\n", viz.MarginBar(c.MarginPercent, 20), c.MarginPercent)

	metrics := map[string]float64{"margin": c.MarginPercent}
	if !math.IsInf(c.CriticalDepth, 1) {
		metrics["critical_depth"] = c.CriticalDepth
	}
	return record(storage.Run{
		Analysis: "stability",
		Params:   map[string]float64{"rpm": rpm, "depth": depth},
		Metrics:  metrics,
	}, nil)
}
