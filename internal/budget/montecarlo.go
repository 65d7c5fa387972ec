package budget

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/precsim/internal/precision"
)

// Kind is the shape of a sampled distribution.
type Kind int

const (
	Normal Kind = iota
	Uniform
)

func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Uniform:
		return "uniform"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a distribution name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "normal", "gaussian":
		return Normal, nil
	case "uniform":
		return Uniform, nil
	}
	return 0, fmt.Errorf("budget: unknown distribution %q", name)
}

// Distribution is a named random error source. Normal uses Mean and
// StdDev; Uniform draws from [Min, Max).
type Distribution struct {
	Name   string
	Kind   Kind
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Options controls a Monte Carlo run.
type Options struct {
	Seed uint64
}

// Simulation summarizes the summed error over all trials.
type Simulation struct {
	Samples int
	Mean    float64
	StdDev  float64 // population
	P95     float64
	P99     float64
	Totals  []float64 // ascending
}

// MonteCarlo draws samples independent trials. Each trial samples every
// distribution once and sums the draws.
func MonteCarlo(dists []Distribution, samples int, opts Options) (Simulation, error) {
	if samples < 1 {
		return Simulation{}, &precision.InputError{Field: "samples", Value: float64(samples), Wrapped: precision.ErrOutOfRange}
	}
	if len(dists) == 0 {
		return Simulation{}, precision.ErrEmptyInput
	}
	for _, d := range dists {
		if err := d.validate(); err != nil {
			return Simulation{}, err
		}
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	totals := make([]float64, samples)
	for i := range totals {
		for _, d := range dists {
			totals[i] += d.draw(rng)
		}
	}
	sort.Float64s(totals)

	mean, std := stat.PopMeanStdDev(totals, nil)
	return Simulation{
		Samples: samples,
		Mean:    mean,
		StdDev:  std,
		P95:     Percentile(totals, 0.95),
		P99:     Percentile(totals, 0.99),
		Totals:  totals,
	}, nil
}

func (d Distribution) validate() error {
	switch d.Kind {
	case Normal:
		return precision.NonNegative(d.Name+".stddev", d.StdDev)
	case Uniform:
		return precision.NonNegative(d.Name+".range", d.Max-d.Min)
	}
	return fmt.Errorf("budget: %s: unknown distribution kind %d", d.Name, int(d.Kind))
}

func (d Distribution) draw(rng *rand.Rand) float64 {
	switch d.Kind {
	case Uniform:
		return d.Min + rng.Float64()*(d.Max-d.Min)
	default:
		return d.Mean + d.StdDev*boxMuller(rng)
	}
}

// boxMuller returns a standard normal deviate from two uniform draws.
func boxMuller(rng *rand.Rand) float64 {
	u1 := 1 - rng.Float64() // (0, 1]
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Percentile indexes an ascending slice at floor(p·n), clamped to the last
// element.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	i := int(math.Floor(p * float64(len(sorted))))
	if i >= len(sorted) {
		i = len(sorted) - 1
	}
	if i < 0 {
		i = 0
	}
	return sorted[i]
}
