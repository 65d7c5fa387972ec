package geometric

import (
	"github.com/san-kum/precsim/internal/precision"
)

// Bounds is an axis-aligned work volume in mm.
type Bounds struct {
	Min precision.Vec3 `yaml:"min"`
	Max precision.Vec3 `yaml:"max"`
}

// MapStats summarizes an error map.
type MapStats struct {
	Max     float64 // µm
	Mean    float64 // µm
	MaxAt   precision.Vec3
	Samples int
	Points  []VolumetricSample
}

// ErrorMap samples a resolution³ grid over b, iterating x, then y, then z
// (z innermost). Points are kept in iteration order.
func ErrorMap(m *ErrorModel, b Bounds, resolution int) (MapStats, error) {
	if resolution < 2 {
		return MapStats{}, &precision.InputError{Field: "resolution", Value: float64(resolution), Wrapped: precision.ErrOutOfRange}
	}
	span := b.Max.Sub(b.Min)
	for _, s := range []struct {
		field string
		v     float64
	}{{"bounds.x", span.X}, {"bounds.y", span.Y}, {"bounds.z", span.Z}} {
		if err := precision.NonNegative(s.field, s.v); err != nil {
			return MapStats{}, err
		}
	}

	step := span.Scale(1 / float64(resolution-1))
	stats := MapStats{Points: make([]VolumetricSample, 0, resolution*resolution*resolution)}
	sum := 0.0

	for i := 0; i < resolution; i++ {
		x := b.Min.X + float64(i)*step.X
		for j := 0; j < resolution; j++ {
			y := b.Min.Y + float64(j)*step.Y
			for k := 0; k < resolution; k++ {
				z := b.Min.Z + float64(k)*step.Z
				s := VolumetricError(m, precision.Vec3{X: x, Y: y, Z: z})

				stats.Points = append(stats.Points, s)
				sum += s.Magnitude
				if stats.Samples == 0 || s.Magnitude > stats.Max {
					stats.Max = s.Magnitude
					stats.MaxAt = s.Position
				}
				stats.Samples++
			}
		}
	}

	stats.Mean = sum / float64(stats.Samples)
	return stats, nil
}
