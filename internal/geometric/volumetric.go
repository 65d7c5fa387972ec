package geometric

import (
	"github.com/san-kum/precsim/internal/precision"
	"github.com/san-kum/precsim/internal/units"
)

// VolumetricSample is the predicted error at one position.
type VolumetricSample struct {
	Position  precision.Vec3 // mm
	Linear    precision.Vec3 // µm
	Angular   precision.Vec3 // µrad
	Magnitude float64        // µm, norm of Linear only
}

// VolumetricError evaluates the 21-parameter model at p (mm). Rotary axes,
// if any, are ignored; see VolumetricError5.
func VolumetricError(m *ErrorModel, p precision.Vec3) VolumetricSample {
	lin, ang := linearAxesError(m, p)
	return sample(p, lin, ang)
}

// VolumetricError5 evaluates the model with each rotary axis at the given
// angle in degrees, in the order of m.Rotary.
func VolumetricError5(m *ErrorModel, p precision.Vec3, rotaryDeg []float64) (VolumetricSample, error) {
	if len(rotaryDeg) != len(m.Rotary) {
		return VolumetricSample{}, &precision.InputError{
			Field:   "rotaryDeg",
			Value:   float64(len(rotaryDeg)),
			Wrapped: precision.ErrOutOfRange,
		}
	}

	lin, ang := linearAxesError(m, p)
	for i, ax := range m.Rotary {
		l, a := rotaryError(ax, p, units.DegToRad(rotaryDeg[i]))
		lin = lin.Add(l)
		ang = ang.Add(a)
	}
	return sample(p, lin, ang), nil
}

func sample(p, lin, ang precision.Vec3) VolumetricSample {
	return VolumetricSample{
		Position:  p,
		Linear:    lin,
		Angular:   ang,
		Magnitude: lin.Norm(),
	}
}

func linearAxesError(m *ErrorModel, p precision.Vec3) (lin, ang precision.Vec3) {
	px, py, pz := units.MMToM(p.X), units.MMToM(p.Y), units.MMToM(p.Z)
	ax, ay, az := m.Axes[X], m.Axes[Y], m.Axes[Z]

	lin.X = ax.Positioning*px + ay.StraightnessA*py + az.StraightnessA*pz
	lin.Y = ax.StraightnessA*px + ay.Positioning*py + az.StraightnessB*pz
	lin.Z = ax.StraightnessB*px + ay.StraightnessB*py + az.Positioning*pz

	ang.X = ax.Roll*px + ay.Pitch*py + az.Pitch*pz
	ang.Y = ax.Pitch*px + ay.Roll*py + az.Yaw*pz
	ang.Z = ax.Yaw*px + ay.Yaw*py + az.Roll*pz

	// squareness, µrad × m = µm
	lin.X += m.Squareness.XY*py + m.Squareness.XZ*pz
	lin.Y += m.Squareness.YZ * pz

	return lin, ang
}

// frame returns the unit directions (axis, perp1, perp2) of a rotary kind.
func frame(k RotaryKind) (axis, d1, d2 precision.Vec3) {
	ex, ey, ez := precision.Vec3{X: 1}, precision.Vec3{Y: 1}, precision.Vec3{Z: 1}
	switch k {
	case RotaryA:
		return ex, ey, ez
	case RotaryB:
		return ey, ez, ex
	default:
		return ez, ex, ey
	}
}

func rotaryError(ax RotaryAxis, p precision.Vec3, theta float64) (lin, ang precision.Vec3) {
	axis, d1, d2 := frame(ax.Kind)

	lin = d1.Scale(ax.Offset1 + ax.Radial1*theta).
		Add(d2.Scale(ax.Offset2 + ax.Radial2*theta)).
		Add(axis.Scale(ax.Axial * theta))

	ang = d1.Scale(ax.Tilt1 + ax.Wobble1*theta).
		Add(d2.Scale(ax.Tilt2 + ax.Wobble2*theta)).
		Add(axis.Scale(ax.Indexing * theta))

	// µrad × m = µm
	arm := p.Sub(ax.Pivot).Scale(1 / units.MMPerM)
	lin = lin.Add(ang.Cross(arm))
	return lin, ang
}

// Compensate returns the position corrected by subtracting the predicted
// linear error. The correction is open loop: it is not re-evaluated at the
// corrected position.
func Compensate(m *ErrorModel, p precision.Vec3) precision.Vec3 {
	e := VolumetricError(m, p).Linear
	return p.Sub(e.Scale(1 / units.UMPerMM))
}
