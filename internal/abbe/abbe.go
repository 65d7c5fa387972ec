// Package abbe propagates angular errors through measurement offsets.
package abbe

import (
	"math"

	"github.com/san-kum/precsim/internal/precision"
	"github.com/san-kum/precsim/internal/units"
)

// AcceptableUM is the probe-offset error below which a setup is accepted.
const AcceptableUM = 1.0

// Calculate returns the Abbe error in µm for an offset in mm and an angular
// error in µrad: offset·angle/1000. The relation is linear by definition.
func Calculate(offsetMM, angleURad float64) float64 {
	return units.AbbeUM(offsetMM, angleURad)
}

// Tilts are the angular errors of the carrying axis, µrad.
type Tilts struct {
	Roll  float64 `yaml:"roll"`
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
}

// ProbeAnalysis is the cross-coupled error of an offset probe.
type ProbeAnalysis struct {
	Errors         precision.Vec3 // µm per axis
	Total          float64        // µm, RSS of Errors
	Acceptable     bool
	Recommendation string
}

// AnalyzeProbeOffset computes the error produced at the probe tip by the
// axis tilts acting over the probe offset (mm).
func AnalyzeProbeOffset(offset precision.Vec3, t Tilts) ProbeAnalysis {
	e := precision.Vec3{
		X: units.AbbeUM(offset.Y, t.Yaw) + units.AbbeUM(offset.Z, t.Pitch),
		Y: units.AbbeUM(offset.X, t.Yaw) + units.AbbeUM(offset.Z, t.Roll),
		Z: units.AbbeUM(offset.X, t.Pitch) + units.AbbeUM(offset.Y, t.Roll),
	}
	a := ProbeAnalysis{Errors: e, Total: e.Norm()}
	a.Acceptable = a.Total < AcceptableUM
	if a.Acceptable {
		a.Recommendation = "probe offset acceptable"
	} else {
		a.Recommendation = "reduce probe offset or compensate axis tilts"
	}
	return a
}

// Frame is a recommended metrology frame origin.
type Frame struct {
	Origin     precision.Vec3 // mm, centroid of the points
	MaxOffset  float64        // mm, worst-case residual Abbe offset
	Advisories []precision.Advisory
}

// DesignMetrologyFrame places the frame origin at the centroid of points
// and reports the largest distance from it. The centroid is a heuristic;
// it does not minimize the maximum offset.
func DesignMetrologyFrame(points []precision.Vec3) (Frame, error) {
	if len(points) == 0 {
		return Frame{}, precision.ErrEmptyInput
	}

	var sum precision.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	f := Frame{Origin: sum.Scale(1 / float64(len(points)))}
	for _, p := range points {
		f.MaxOffset = math.Max(f.MaxOffset, p.Sub(f.Origin).Norm())
	}
	f.Advisories = []precision.Advisory{
		precision.Advise(precision.Approximate, "centroid placement; the minimax origin may reduce the offset below %.3f mm", f.MaxOffset),
	}
	return f, nil
}
