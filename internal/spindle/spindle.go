// Package spindle models spindle error motion and bearing life.
package spindle

import (
	"errors"
	"math"

	"github.com/san-kum/precsim/internal/precision"
	"github.com/san-kum/precsim/internal/units"
)

// Triple is a radial/axial/tilt error magnitude set.
type Triple struct {
	Radial float64 `yaml:"radial"` // µm
	Axial  float64 `yaml:"axial"`  // µm
	Tilt   float64 `yaml:"tilt"`   // µrad
}

// Params configures a Model.
type Params struct {
	Synchronous   Triple  `yaml:"synchronous"`
	Asynchronous  Triple  `yaml:"asynchronous"`
	AxisShift     float64 `yaml:"axis_shift"`     // µm
	ThermalGrowth float64 `yaml:"thermal_growth"` // µm per 1000 rpm
}

// DefaultParams describes a good precision machining spindle: 0.5 µm
// synchronous and 0.2 µm asynchronous radial motion, 0.3/0.1 µm axial,
// 2/1 µrad tilt, 1 µm axis shift and 2 µm axial growth per 1000 rpm.
func DefaultParams() Params {
	return Params{
		Synchronous:   Triple{Radial: 0.5, Axial: 0.3, Tilt: 2.0},
		Asynchronous:  Triple{Radial: 0.2, Axial: 0.1, Tilt: 1.0},
		AxisShift:     1.0,
		ThermalGrowth: 2.0,
	}
}

// Model is an immutable spindle description.
type Model struct {
	params Params
}

func NewModel(p Params) (Model, error) {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"synchronous.radial", p.Synchronous.Radial},
		{"synchronous.axial", p.Synchronous.Axial},
		{"synchronous.tilt", p.Synchronous.Tilt},
		{"asynchronous.radial", p.Asynchronous.Radial},
		{"asynchronous.axial", p.Asynchronous.Axial},
		{"asynchronous.tilt", p.Asynchronous.Tilt},
	} {
		if err := precision.NonNegative(f.name, f.v); err != nil {
			return Model{}, err
		}
	}
	return Model{params: p}, nil
}

func (m Model) Params() Params { return m.params }

// Motion is the predicted error motion at a measuring radius and speed.
type Motion struct {
	Radial         float64 // µm, includes tilt at the measuring radius
	Axial          float64 // µm
	TiltRadial     float64 // µm, radial contribution of synchronous tilt
	SyncFracRadial float64 // synchronous share of Radial, 0..1
	SyncFracAxial  float64 // synchronous share of Axial, 0..1
	Roundness      float64 // µm, achievable peak-to-valley roundness
	ThermalDrift   float64 // µm, axial growth at this speed
	AxisShift      float64 // µm
}

// ErrorMotion combines synchronous and asynchronous magnitudes in
// quadrature, then adds the tilt-induced radial term tiltSync·r in
// quadrature with the combined radial error.
func ErrorMotion(m Model, radiusMM, rpm float64) (Motion, error) {
	if err := errors.Join(precision.NonNegative("radius", radiusMM), precision.NonNegative("rpm", rpm)); err != nil {
		return Motion{}, err
	}
	s, a := m.params.Synchronous, m.params.Asynchronous

	radial := math.Hypot(s.Radial, a.Radial)
	tilt := units.AbbeUM(radiusMM, s.Tilt)
	totalRadial := math.Hypot(radial, tilt)
	axial := math.Hypot(s.Axial, a.Axial)

	mo := Motion{
		Radial:       totalRadial,
		Axial:        axial,
		TiltRadial:   tilt,
		Roundness:    2 * totalRadial,
		ThermalDrift: m.params.ThermalGrowth * rpm / 1000,
		AxisShift:    m.params.AxisShift,
	}
	if totalRadial > 0 {
		mo.SyncFracRadial = math.Hypot(s.Radial, tilt) / totalRadial
	}
	if axial > 0 {
		mo.SyncFracAxial = s.Axial / axial
	}
	return mo, nil
}
