package chatter

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/precsim/internal/precision"
	"github.com/san-kum/precsim/internal/units"
)

const (
	// MaxDepth bounds lobe points; deeper limits are treated as stable.
	MaxDepth = 100.0 // mm

	// SweepPoints is the number of chatter frequencies evaluated per lobe.
	SweepPoints = 2000

	// MaxLobes bounds the lobe count BestSpeed generates to cover a range.
	MaxLobes = 500
)

// RPMRange is an inclusive spindle speed interval.
type RPMRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r RPMRange) Contains(rpm float64) bool {
	return rpm >= r.Min && rpm <= r.Max
}

func (r RPMRange) validate() error {
	if err := precision.Positive("rpm_min", r.Min); err != nil {
		return err
	}
	if r.Max <= r.Min {
		return &precision.InputError{Field: "rpm_max", Value: r.Max, Wrapped: precision.ErrOutOfRange}
	}
	return nil
}

// LobePoint is one point on a stability boundary.
type LobePoint struct {
	RPM   float64
	Depth float64 // mm
}

// Lobe is the boundary for one lobe index k, ordered by increasing RPM.
type Lobe struct {
	Index  int
	Points []LobePoint
}

// LobeSet holds the non-empty lobes for an RPM range, ordered by index.
// Below FloorRPM the boundary belongs to lobes that were not generated, so
// LimitAt reports Floor, the speed-independent absolute limit, there.
type LobeSet struct {
	Range    RPMRange
	Lobes    []Lobe
	Floor    float64 // mm
	FloorRPM float64
}

// GenerateStabilityLobes sweeps the chatter frequency over (ωn, 2ωn] for
// lobe indices 0..count-1. Points outside the RPM range or with a depth
// outside (0, MaxDepth) are dropped, and lobes left without points are
// omitted. A lobe crossing a range end gets an interpolated point on it.
//
// The phase lag is measured from the negative real axis, ψ = atan(Im/|Re|),
// not taken as the raw FRF phase, so ε = π − 2ψ falls in (π, 2π).
func GenerateStabilityLobes(m *Model, rng RPMRange, count int) LobeSet {
	set := LobeSet{Range: rng, Floor: m.AbsoluteLimit(), FloorRPM: math.Inf(1)}
	z := float64(m.p.Teeth)
	step := m.wn / SweepPoints

	for k := 0; k < count; k++ {
		lobe := Lobe{Index: k}
		var prev *LobePoint
		for i := 1; i <= SweepPoints; i++ {
			w := m.wn + float64(i)*step
			g := m.transfer(w)
			if real(g) >= 0 {
				continue
			}
			depth := m.CriticalDepth(w)
			if depth <= 0 || depth >= MaxDepth {
				continue
			}

			psi := math.Atan(imag(g) / math.Abs(real(g)))
			eps := math.Pi - 2*psi
			rpm := 60 * w / (2 * math.Pi * z * (float64(k) + eps/(2*math.Pi)))
			if k == count-1 {
				set.FloorRPM = math.Min(set.FloorRPM, rpm)
			}
			p := LobePoint{RPM: rpm, Depth: depth}
			if prev != nil {
				// rpm rises with ω along a lobe; pin crossings to the range ends
				if prev.RPM < rng.Min && rpm > rng.Min {
					lobe.Points = append(lobe.Points, interpolate(*prev, p, rng.Min))
				}
				if prev.RPM < rng.Max && rpm > rng.Max {
					lobe.Points = append(lobe.Points, interpolate(*prev, p, rng.Max))
				}
			}
			prev = &p
			if !rng.Contains(rpm) {
				continue
			}
			lobe.Points = append(lobe.Points, p)
		}
		if len(lobe.Points) == 0 {
			continue
		}
		sort.SliceStable(lobe.Points, func(i, j int) bool {
			return lobe.Points[i].RPM < lobe.Points[j].RPM
		})
		set.Lobes = append(set.Lobes, lobe)
	}
	return set
}

func interpolate(a, b LobePoint, rpm float64) LobePoint {
	t := (rpm - a.RPM) / (b.RPM - a.RPM)
	return LobePoint{RPM: rpm, Depth: a.Depth + t*(b.Depth-a.Depth)}
}

// LimitAt returns the stability boundary depth at rpm: Floor below
// FloorRPM, otherwise the lowest depth among lobes spanning rpm, linearly
// interpolated, or MaxDepth when no lobe spans it.
func (s LobeSet) LimitAt(rpm float64) float64 {
	if rpm < s.FloorRPM {
		return s.Floor
	}
	limit := MaxDepth
	for _, lobe := range s.Lobes {
		pts := lobe.Points
		if len(pts) == 0 || rpm < pts[0].RPM || rpm > pts[len(pts)-1].RPM {
			continue
		}
		i := sort.Search(len(pts), func(i int) bool { return pts[i].RPM >= rpm })
		d := pts[i].Depth
		if i > 0 && pts[i].RPM > rpm {
			d = interpolate(pts[i-1], pts[i], rpm).Depth
		}
		limit = math.Min(limit, d)
	}
	return limit
}

// Check is the result of a single-point stability query.
type Check struct {
	RPM            float64
	Depth          float64 // mm
	ToothPassingHz float64
	CriticalDepth  float64 // mm, +Inf when unconditionally stable
	Stable         bool
	MarginPercent  float64
}

// CheckStability evaluates the critical depth at the tooth-passing
// frequency and compares it against depth. The margin is
// (b_lim − depth)/b_lim·100, or 100 when b_lim is infinite.
func CheckStability(m *Model, rpm, depth float64) (Check, error) {
	if err := precision.Positive("rpm", rpm); err != nil {
		return Check{}, err
	}
	if err := precision.NonNegative("depth", depth); err != nil {
		return Check{}, err
	}

	w := units.RPMToRadPerSec(rpm) * float64(m.p.Teeth)
	blim := m.CriticalDepth(w)

	c := Check{
		RPM:            rpm,
		Depth:          depth,
		ToothPassingHz: units.RadPerSecToHz(w),
		CriticalDepth:  blim,
		Stable:         depth < blim,
		MarginPercent:  100,
	}
	if !math.IsInf(blim, 1) {
		c.MarginPercent = (blim - depth) / blim * 100
	}
	return c, nil
}

// OptimalSpeeds returns the lobe-top spindle speeds 60ωd/(2πz(k+1)) for
// k = 0..count-1, highest first.
func OptimalSpeeds(m *Model, count int) []float64 {
	out := make([]float64, 0, count)
	for k := 0; k < count; k++ {
		out = append(out, 60*m.wd/(2*math.Pi*float64(m.p.Teeth)*float64(k+1)))
	}
	return out
}

// LobesToCover returns the lobe count whose envelope reaches down to rpm:
// enough that the second-highest lobe top lies below it. The result is
// at least 1 and at most MaxLobes.
func LobesToCover(m *Model, rpm float64) int {
	if rpm <= 0 {
		return MaxLobes
	}
	top := 60 * m.wd / (2 * math.Pi * float64(m.p.Teeth))
	n := int(math.Ceil(top/rpm)) + 2
	return min(max(n, 1), MaxLobes)
}

// BestSpeed grid-searches rng in increments of step and returns the speed
// with the deepest stable cut along the lobe envelope. count is raised to
// LobesToCover(m, rng.Min) so the low-speed end is bounded by real lobes.
// Ties keep the lowest speed.
func BestSpeed(m *Model, rng RPMRange, count int, step float64) (LobePoint, error) {
	if err := rng.validate(); err != nil {
		return LobePoint{}, err
	}
	if err := precision.Positive("step", step); err != nil {
		return LobePoint{}, err
	}
	if count < 1 {
		return LobePoint{}, fmt.Errorf("lobe count %d: %w", count, precision.ErrOutOfRange)
	}

	set := GenerateStabilityLobes(m, rng, max(count, LobesToCover(m, rng.Min)))
	best := LobePoint{RPM: rng.Min, Depth: math.Inf(-1)}
	for rpm := rng.Min; rpm <= rng.Max; rpm += step {
		if d := set.LimitAt(rpm); d > best.Depth {
			best = LobePoint{RPM: rpm, Depth: d}
		}
	}
	return best, nil
}
