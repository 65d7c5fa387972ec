package geometric

import (
	"fmt"

	"github.com/san-kum/precsim/internal/precision"
)

// Axis indexes the linear axes of an ErrorModel.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// LinearAxis holds the six error coefficients of one linear axis.
// Linear terms are µm per metre of travel, angular terms µrad per metre.
// StraightnessA/B are the straightness errors in the two perpendicular
// directions, taken in X, Y, Z order (for the Y axis: A is X, B is Z).
type LinearAxis struct {
	Positioning   float64 `yaml:"positioning"`
	StraightnessA float64 `yaml:"straightness_a"`
	StraightnessB float64 `yaml:"straightness_b"`
	Roll          float64 `yaml:"roll"`
	Pitch         float64 `yaml:"pitch"`
	Yaw           float64 `yaml:"yaw"`
}

// Squareness errors between axis pairs, µrad.
type Squareness struct {
	XY float64 `yaml:"xy"`
	XZ float64 `yaml:"xz"`
	YZ float64 `yaml:"yz"`
}

// RotaryKind names the linear axis a rotary axis turns about.
type RotaryKind int

const (
	RotaryA RotaryKind = iota // about X
	RotaryB                   // about Y
	RotaryC                   // about Z
)

func (k RotaryKind) String() string {
	switch k {
	case RotaryA:
		return "A"
	case RotaryB:
		return "B"
	case RotaryC:
		return "C"
	}
	return fmt.Sprintf("RotaryKind(%d)", int(k))
}

// RotaryAxis holds the ten error parameters of a rotary axis: four
// location errors and six motion errors. Directions 1 and 2 are the two
// linear axes perpendicular to the rotation axis in cyclic order
// (A: Y, Z; B: Z, X; C: X, Y).
type RotaryAxis struct {
	Kind  RotaryKind     `yaml:"-"`
	Pivot precision.Vec3 `yaml:"pivot"` // mm

	// location errors
	Offset1 float64 `yaml:"offset1"` // µm
	Offset2 float64 `yaml:"offset2"` // µm
	Tilt1   float64 `yaml:"tilt1"`   // µrad
	Tilt2   float64 `yaml:"tilt2"`   // µrad

	// motion errors, per radian of rotation
	Radial1  float64 `yaml:"radial1"`  // µm/rad
	Radial2  float64 `yaml:"radial2"`  // µm/rad
	Axial    float64 `yaml:"axial"`    // µm/rad
	Wobble1  float64 `yaml:"wobble1"`  // µrad/rad
	Wobble2  float64 `yaml:"wobble2"`  // µrad/rad
	Indexing float64 `yaml:"indexing"` // µrad/rad
}

// ErrorModel is the coefficient set of a machine.
type ErrorModel struct {
	Axes       [3]LinearAxis
	Squareness Squareness
	Rotary     []RotaryAxis
}

// NewErrorModel returns a zeroed model for a 3- or 5-axis machine. A
// 5-axis model carries an A and a C rotary axis pivoting at the origin.
func NewErrorModel(axisCount int) (*ErrorModel, error) {
	switch axisCount {
	case 3:
		return &ErrorModel{}, nil
	case 5:
		return &ErrorModel{
			Rotary: []RotaryAxis{{Kind: RotaryA}, {Kind: RotaryC}},
		}, nil
	}
	return nil, &precision.InputError{Field: "axisCount", Value: float64(axisCount), Wrapped: precision.ErrOutOfRange}
}

// ParameterCount is 21 for a 3-axis model plus 10 per rotary axis.
func (m *ErrorModel) ParameterCount() int {
	return 3*6 + 3 + 10*len(m.Rotary)
}

func (m *ErrorModel) Axis(a Axis) *LinearAxis {
	return &m.Axes[a]
}
