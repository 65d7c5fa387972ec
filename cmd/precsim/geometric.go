package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/precsim/internal/geometric"
	"github.com/san-kum/precsim/internal/precision"
	"github.com/san-kum/precsim/internal/storage"
	"github.com/san-kum/precsim/internal/units"
)

func geometricCommands() []*cobra.Command {
	var rotary string
	volumetricCmd := &cobra.Command{
		Use:   "volumetric [x] [y] [z]",
		Short: "volumetric error at a position (mm)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVolumetric(args, rotary)
		},
	}
	volumetricCmd.Flags().StringVar(&rotary, "rotary", "", "rotary axis angles in degrees, comma separated (5-axis)")

	var resolution int
	errormapCmd := &cobra.Command{
		Use:   "errormap",
		Short: "map volumetric error over the machine travel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runErrorMap(resolution)
		},
	}
	errormapCmd.Flags().IntVar(&resolution, "resolution", 5, "grid points per axis")

	var translation, rotation, point string
	transformCmd := &cobra.Command{
		Use:   "transform",
		Short: "build a homogeneous transform and apply it to a point",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(translation, rotation, point)
		},
	}
	transformCmd.Flags().StringVar(&translation, "t", "0,0,0", "translation x,y,z (mm)")
	transformCmd.Flags().StringVar(&rotation, "r", "0,0,0", "rotation about x,y,z (deg)")
	transformCmd.Flags().StringVar(&point, "point", "0,0,0", "point to transform x,y,z (mm)")

	return []*cobra.Command{volumetricCmd, errormapCmd, transformCmd}
}

func runVolumetric(args []string, rotary string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := cfg.ErrorModel()
	if err != nil {
		return err
	}
	pos, err := parseArgs(args)
	if err != nil {
		return err
	}
	p := precision.Vec3{X: pos[0], Y: pos[1], Z: pos[2]}

	var s geometric.VolumetricSample
	if len(m.Rotary) > 0 {
		angles, err := parseFloats(rotary)
		if err != nil {
			return err
		}
		if angles == nil {
			angles = make([]float64, len(m.Rotary))
		}
		if s, err = geometric.VolumetricError5(m, p, angles); err != nil {
			return fmt.Errorf("volumetric error: %w", err)
		}
	} else {
		s = geometric.VolumetricError(m, p)
	}

	fmt.Printf("position:    %s mm\n", p)
	fmt.Printf("linear:      %s µm\n", s.Linear)
	fmt.Printf("angular:     %s µrad\n", s.Angular)
	fmt.Printf("magnitude:   %.3f µm\n", s.Magnitude)
	fmt.Printf("compensated: %s mm\n", geometric.Compensate(m, p))
	fmt.Printf("parameters:  %d\n", m.ParameterCount())

	return record(storage.Run{
		Analysis: "volumetric",
		Params:   map[string]float64{"x": p.X, "y": p.Y, "z": p.Z},
		Metrics: map[string]float64{
			"ex": s.Linear.X, "ey": s.Linear.Y, "ez": s.Linear.Z,
			"magnitude": s.Magnitude,
		},
	}, nil)
}

func runErrorMap(resolution int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := cfg.ErrorModel()
	if err != nil {
		return err
	}

	stats, err := geometric.ErrorMap(m, cfg.Machine.Travel, resolution)
	if err != nil {
		return fmt.Errorf("error map: %w", err)
	}
	log.Debug("error map", zap.Int("samples", stats.Samples))

	fmt.Printf("travel:  %s .. %s mm\n", cfg.Machine.Travel.Min, cfg.Machine.Travel.Max)
	fmt.Printf("samples: %d\n", stats.Samples)
	fmt.Printf("max:     %.3f µm at %s\n", stats.Max, stats.MaxAt)
	fmt.Printf("mean:    %.3f µm\n", stats.Mean)

	series := storage.Series{Columns: []string{"x", "y", "z", "ex", "ey", "ez", "magnitude"}}
	for _, s := range stats.Points {
		series.Rows = append(series.Rows, []float64{
			s.Position.X, s.Position.Y, s.Position.Z,
			s.Linear.X, s.Linear.Y, s.Linear.Z, s.Magnitude,
		})
	}
	return record(storage.Run{
		Analysis: "errormap",
		Params:   map[string]float64{"resolution": float64(resolution)},
		Metrics:  map[string]float64{"max": stats.Max, "mean": stats.Mean},
		Series:   series,
	}, nil)
}

func runTransform(translation, rotation, point string) error {
	t, err := parseVec3(translation)
	if err != nil {
		return err
	}
	rDeg, err := parseVec3(rotation)
	if err != nil {
		return err
	}
	p, err := parseVec3(point)
	if err != nil {
		return err
	}

	r := precision.Vec3{X: units.DegToRad(rDeg.X), Y: units.DegToRad(rDeg.Y), Z: units.DegToRad(rDeg.Z)}
	tf := geometric.CreateTransform(t, r)
	for _, row := range tf.Rows() {
		fmt.Printf("  [%10.6f %10.6f %10.6f %10.4f]\n", row[0], row[1], row[2], row[3])
	}
	fmt.Printf("\n%s -> %s\n", p, tf.Apply(p))
	return nil
}
