package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/precsim/internal/abbe"
	"github.com/san-kum/precsim/internal/budget"
	"github.com/san-kum/precsim/internal/precision"
	"github.com/san-kum/precsim/internal/storage"
	"github.com/san-kum/precsim/internal/viz"
)

func metrologyCommands() []*cobra.Command {
	abbeCmd := &cobra.Command{
		Use:   "abbe [offset_mm] [angle_urad]",
		Short: "Abbe error of an offset measurement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := parseArgs(args)
			if err != nil {
				return err
			}
			e := abbe.Calculate(vals[0], vals[1])
			fmt.Printf("abbe error: %.4f µm\n", e)
			return nil
		},
	}

	var offset string
	var tilts abbe.Tilts
	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "tilt-induced error at an offset probe tip",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := parseVec3(offset)
			if err != nil {
				return err
			}
			a := abbe.AnalyzeProbeOffset(o, tilts)
			fmt.Printf("errors:     %s µm\n", a.Errors)
			fmt.Printf("total:      %.4f µm\n", a.Total)
			fmt.Printf("acceptable: %v (< %.1f µm)\n", a.Acceptable, abbe.AcceptableUM)
			fmt.Printf("%s\n", a.Recommendation)
			return record(storage.Run{
				Analysis: "probe",
				Params:   map[string]float64{"ox": o.X, "oy": o.Y, "oz": o.Z, "roll": tilts.Roll, "pitch": tilts.Pitch, "yaw": tilts.Yaw},
				Metrics:  map[string]float64{"total": a.Total},
			}, nil)
		},
	}
	probeCmd.Flags().StringVar(&offset, "offset", "0,0,50", "probe offset x,y,z (mm)")
	probeCmd.Flags().Float64Var(&tilts.Roll, "roll", 0, "roll (µrad)")
	probeCmd.Flags().Float64Var(&tilts.Pitch, "pitch", 0, "pitch (µrad)")
	probeCmd.Flags().Float64Var(&tilts.Yaw, "yaw", 0, "yaw (µrad)")

	frameCmd := &cobra.Command{
		Use:   "frame [x,y,z]...",
		Short: "metrology frame origin for measurement points",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points := make([]precision.Vec3, len(args))
			for i, a := range args {
				p, err := parseVec3(a)
				if err != nil {
					return err
				}
				points[i] = p
			}
			f, err := abbe.DesignMetrologyFrame(points)
			if err != nil {
				return fmt.Errorf("metrology frame: %w", err)
			}
			fmt.Printf("origin:     %s mm\n", f.Origin)
			fmt.Printf("max offset: %.3f mm\n", f.MaxOffset)
			printAdvisories(f.Advisories)
			log.Analysis("frame").Advisories(f.Advisories)
			return nil
		},
	}

	var target float64
	var sources []string
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "combine error sources against a target",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			srcs := cfg.Sources()
			if len(sources) > 0 {
				if srcs, err = parseSources(sources); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("target") {
				target = cfg.Budget.Target
			}
			return runBudget(cfg.Name, target, srcs)
		},
	}
	budgetCmd.Flags().Float64Var(&target, "target", 0, "target accuracy (µm)")
	budgetCmd.Flags().StringArrayVar(&sources, "source", nil, "error source name=value (µm), repeatable")

	var samples int
	var seed uint64
	montecarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Monte Carlo simulation of the error distributions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dists, err := cfg.Distributions()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("samples") {
				samples = cfg.Budget.Samples
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Budget.Seed
			}
			return runMonteCarlo(dists, samples, seed)
		},
	}
	montecarloCmd.Flags().IntVar(&samples, "samples", 0, "number of trials")
	montecarloCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed")

	return []*cobra.Command{abbeCmd, probeCmd, frameCmd, budgetCmd, montecarloCmd}
}

func parseSources(specs []string) ([]budget.Source, error) {
	out := make([]budget.Source, 0, len(specs))
	for _, s := range specs {
		name, val, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("source %q: expected name=value", s)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", s, err)
		}
		out = append(out, budget.Source{Name: name, Value: v})
	}
	return out, nil
}

func runBudget(name string, target float64, sources []budget.Source) error {
	b, err := budget.CreateBudget(name, target, sources)
	if err != nil {
		return fmt.Errorf("budget: %w", err)
	}

	fmt.Printf("%s budget, target %.2f µm\n\n", b.Name, b.Target)
	fmt.Printf("  %-14s %10s %8s\n", "source", "µm", "var %")
	for _, c := range b.RSS.Contributions {
		fmt.Printf("  %-14s %10.3f %7.1f%%  %s\n", c.Name, c.Value, c.Percent, viz.Subtle.Render(strings.Repeat("█", int(c.Percent/5))))
	}
	fmt.Println()
	fmt.Printf("  rss:        %8.3f µm  %s\n", b.RSS.Total, verdict(b.MeetsRSS))
	fmt.Printf("  worst case: %8.3f µm  %s\n", b.WorstCase.Total, verdict(b.MeetsWorstCase))
	for _, r := range b.Recommendations {
		fmt.Printf("  - %s\n", r)
	}

	series := storage.Series{Columns: []string{"value", "rss_percent", "wc_percent"}}
	params := map[string]float64{"target": target}
	for i, c := range b.RSS.Contributions {
		series.Rows = append(series.Rows, []float64{c.Value, c.Percent, b.WorstCase.Contributions[i].Percent})
		params[c.Name] = c.Value
	}
	return record(storage.Run{
		Analysis: "budget",
		Params:   params,
		Metrics:  map[string]float64{"rss": b.RSS.Total, "worst_case": b.WorstCase.Total},
		Series:   series,
	}, nil)
}

func verdict(ok bool) string {
	if ok {
		return viz.Stable.Render("meets target")
	}
	return viz.Unstable.Render("exceeds target")
}

func runMonteCarlo(dists []budget.Distribution, samples int, seed uint64) error {
	sim, err := budget.MonteCarlo(dists, samples, budget.Options{Seed: seed})
	if err != nil {
		return fmt.Errorf("monte carlo: %w", err)
	}

	fmt.Printf("samples: %d (seed %d)\n", sim.Samples, seed)
	fmt.Printf("mean:    %.4f µm\n", sim.Mean)
	fmt.Printf("std:     %.4f µm\n", sim.StdDev)
	fmt.Printf("p95:     %.4f µm\n", sim.P95)
	fmt.Printf("p99:     %.4f µm\n\n", sim.P99)
	hist := viz.Histogram(sim.Totals, 60)
	fmt.Println(viz.Line(hist, "distribution of total error", 10, 60))

	series := storage.Series{Columns: []string{"bin", "count"}}
	for i, c := range hist {
		series.Rows = append(series.Rows, []float64{float64(i), c})
	}
	return record(storage.Run{
		Analysis: "montecarlo",
		Params:   map[string]float64{"samples": float64(samples), "seed": float64(seed)},
		Metrics:  map[string]float64{"mean": sim.Mean, "std": sim.StdDev, "p95": sim.P95, "p99": sim.P99},
		Series:   series,
	}, nil)
}
