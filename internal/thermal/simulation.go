package thermal

import (
	"math"

	"github.com/san-kum/precsim/internal/materials"
	"github.com/san-kum/precsim/internal/precision"
	"github.com/san-kum/precsim/internal/units"
)

const (
	// AmbientTemp is the initial temperature of every node, °C.
	AmbientTemp = 20.0

	// MaxStableRatio is the stability limit of the explicit scheme.
	MaxStableRatio = 0.5

	// SteadyRatio sets the step used by SimulateToSteady, dt = 0.4·dx²/α.
	SteadyRatio = 0.4
)

// Simulation is a 1-D bar discretized into equally spaced nodes.
type Simulation struct {
	temps       []float64
	next        []float64
	length      float64 // m
	dx          float64 // m
	diffusivity float64 // m²/s
	material    string
	elapsed     float64 // s
}

// StepResult reports one explicit update.
type StepResult struct {
	Ratio      float64 // r = α·dt/dx²
	MaxChange  float64 // °C
	Advisories []precision.Advisory
}

// SteadyResult reports a run toward steady state. When Converged is false
// the simulation holds the last computed state.
type SteadyResult struct {
	Converged  bool
	Steps      int
	MaxChange  float64
	Dt         float64
	Elapsed    float64
	Advisories []precision.Advisory
}

// NewSimulation allocates a bar of lengthMM with nodes nodes, all at
// AmbientTemp, with the diffusivity k/(ρ·cp) of material.
func NewSimulation(lengthMM float64, nodes int, material string) (*Simulation, error) {
	if err := precision.Positive("length", lengthMM); err != nil {
		return nil, err
	}
	if nodes < 2 {
		return nil, &precision.InputError{Field: "nodes", Value: float64(nodes), Wrapped: precision.ErrOutOfRange}
	}

	length := units.MMToM(lengthMM)
	s := &Simulation{
		temps:       make([]float64, nodes),
		next:        make([]float64, nodes),
		length:      length,
		dx:          length / float64(nodes-1),
		diffusivity: materials.Get(material).Diffusivity(),
		material:    material,
	}
	for i := range s.temps {
		s.temps[i] = AmbientTemp
	}
	return s, nil
}

func (s *Simulation) Nodes() int           { return len(s.temps) }
func (s *Simulation) Dx() float64          { return s.dx }
func (s *Simulation) Diffusivity() float64 { return s.diffusivity }
func (s *Simulation) Elapsed() float64     { return s.elapsed }
func (s *Simulation) Material() string     { return s.material }
func (s *Simulation) LengthMM() float64    { return units.MToMM(s.length) }
func (s *Simulation) Temp(i int) float64   { return s.temps[i] }
func (s *Simulation) StableDt() float64    { return MaxStableRatio * s.dx * s.dx / s.diffusivity }

// Temperatures returns a copy of the node temperatures.
func (s *Simulation) Temperatures() []float64 {
	out := make([]float64, len(s.temps))
	copy(out, s.temps)
	return out
}

// SetBoundary fixes the two end temperatures.
func (s *Simulation) SetBoundary(left, right float64) {
	s.temps[0] = left
	s.temps[len(s.temps)-1] = right
}

// Ratio returns α·dt/dx² for a step of dt seconds.
func (s *Simulation) Ratio(dt float64) float64 {
	return s.diffusivity * dt / (s.dx * s.dx)
}

// Step advances interior nodes by dt seconds with
// T[i] += r·(T[i+1] − 2T[i] + T[i−1]). A ratio above 0.5 is computed
// anyway and flagged with a CourantExceeded advisory.
func (s *Simulation) Step(dt float64) (StepResult, error) {
	if err := precision.Positive("dt", dt); err != nil {
		return StepResult{}, err
	}

	r := s.Ratio(dt)
	res := StepResult{Ratio: r}
	if r > MaxStableRatio {
		res.Advisories = append(res.Advisories, precision.Advise(precision.CourantExceeded,
			"explicit step ratio r=%.3f exceeds %.1f; use dt <= %.4g s", r, MaxStableRatio, s.StableDt()))
	}

	res.MaxChange = s.advance(r)
	s.elapsed += dt
	return res, nil
}

func (s *Simulation) advance(r float64) float64 {
	n := len(s.temps)
	s.next[0], s.next[n-1] = s.temps[0], s.temps[n-1]

	maxChange := 0.0
	for i := 1; i < n-1; i++ {
		s.next[i] = s.temps[i] + r*(s.temps[i+1]-2*s.temps[i]+s.temps[i-1])
		if d := math.Abs(s.next[i] - s.temps[i]); d > maxChange {
			maxChange = d
		}
	}
	s.temps, s.next = s.next, s.temps
	return maxChange
}

// SimulateToSteady steps with dt = 0.4·dx²/α until the largest node change
// of a step falls below tol, or maxSteps steps have run.
func (s *Simulation) SimulateToSteady(maxSteps int, tol float64) SteadyResult {
	dt := SteadyRatio * s.dx * s.dx / s.diffusivity
	r := s.Ratio(dt)
	res := SteadyResult{Dt: dt}

	for res.Steps < maxSteps {
		res.MaxChange = s.advance(r)
		s.elapsed += dt
		res.Steps++
		if res.MaxChange < tol {
			res.Converged = true
			break
		}
	}

	res.Elapsed = s.elapsed
	if !res.Converged {
		res.Advisories = append(res.Advisories, precision.Advise(precision.NotConverged,
			"no steady state after %d steps (last change %.3g °C, tolerance %.3g)", res.Steps, res.MaxChange, tol))
	}
	return res
}

// Profile is the thermal growth along the bar.
type Profile struct {
	Local []float64 // µm per node
	Total float64   // µm
}

// ExpansionProfile sums α·dx·(T[i] − ref) over every node.
func (s *Simulation) ExpansionProfile(material string, ref float64) Profile {
	alpha := materials.Get(material).Expansion // µm/m/°C
	p := Profile{Local: make([]float64, len(s.temps))}
	for i, t := range s.temps {
		p.Local[i] = alpha * s.dx * (t - ref)
		p.Total += p.Local[i]
	}
	return p
}
