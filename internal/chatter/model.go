package chatter

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/san-kum/precsim/internal/precision"
	"github.com/san-kum/precsim/internal/units"
)

// Params describes one vibration mode and the cutting process.
type Params struct {
	Mass      float64 `yaml:"mass"`      // kg
	Stiffness float64 `yaml:"stiffness"` // N/m
	Damping   float64 `yaml:"damping"`   // N·s/m
	Kc        float64 `yaml:"kc"`        // N/mm², specific cutting coefficient
	Teeth     int     `yaml:"teeth"`
}

// Model is an immutable SDOF model.
type Model struct {
	p    Params
	wn   float64 // rad/s
	zeta float64
	wd   float64 // rad/s
	kcSI float64 // N/m²
}

func NewModel(p Params) (*Model, error) {
	if err := errors.Join(
		precision.Positive("mass", p.Mass),
		precision.Positive("stiffness", p.Stiffness),
		precision.NonNegative("damping", p.Damping),
		precision.Positive("kc", p.Kc),
		precision.Positive("teeth", float64(p.Teeth)),
	); err != nil {
		return nil, err
	}

	m := &Model{
		p:    p,
		wn:   math.Sqrt(p.Stiffness / p.Mass),
		zeta: p.Damping / (2 * math.Sqrt(p.Stiffness*p.Mass)),
		kcSI: p.Kc * units.NPerM2PerNPerMM2,
	}
	if m.zeta < 1 {
		m.wd = m.wn * math.Sqrt(1-m.zeta*m.zeta)
	}
	return m, nil
}

func (m *Model) Params() Params { return m.p }

// NaturalFrequency returns ωn in rad/s.
func (m *Model) NaturalFrequency() float64 { return m.wn }

// NaturalFrequencyHz returns ωn in Hz.
func (m *Model) NaturalFrequencyHz() float64 { return units.RadPerSecToHz(m.wn) }

// DampingRatio returns ζ.
func (m *Model) DampingRatio() float64 { return m.zeta }

// DampedFrequency returns ωd = ωn·√(1−ζ²) in rad/s, zero when overdamped.
func (m *Model) DampedFrequency() float64 { return m.wd }

// Response is the frequency response at one frequency.
type Response struct {
	Omega     float64 // rad/s
	Real      float64 // m/N
	Imag      float64 // m/N
	Magnitude float64 // m/N
	Phase     float64 // rad, in (−π, 0] for ω ≥ 0
}

func (m *Model) transfer(w float64) complex128 {
	return 1 / complex(m.p.Stiffness-m.p.Mass*w*w, m.p.Damping*w)
}

// FRF evaluates G(ω) = 1/(k − mω² + icω).
func (m *Model) FRF(w float64) Response {
	g := m.transfer(w)
	return Response{
		Omega:     w,
		Real:      real(g),
		Imag:      imag(g),
		Magnitude: cmplx.Abs(g),
		Phase:     cmplx.Phase(g),
	}
}

// CriticalDepth returns the limiting axial depth of cut in mm at chatter
// frequency w (rad/s), or +Inf where Re[G(w)] ≥ 0.
func (m *Model) CriticalDepth(w float64) float64 {
	re := real(m.transfer(w))
	if re >= 0 {
		return math.Inf(1)
	}
	return units.MToMM(-1 / (2 * m.kcSI * float64(m.p.Teeth) * re))
}

// AbsoluteLimit returns the depth in mm below which the cut is stable at
// every spindle speed: 2kζ(1+ζ)/(Kc·z).
func (m *Model) AbsoluteLimit() float64 {
	return units.MToMM(2 * m.p.Stiffness * m.zeta * (1 + m.zeta) / (m.kcSI * float64(m.p.Teeth)))
}
