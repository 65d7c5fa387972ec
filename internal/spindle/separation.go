package spindle

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/precsim/internal/precision"
)

// Separation splits measured runout into synchronous and asynchronous
// parts.
type Separation struct {
	Profile      []float64 // µm, mean runout per angular position
	Synchronous  float64   // µm, peak-to-valley of Profile
	Asynchronous float64   // µm, largest spread across revolutions at any angle
}

// Separate takes runout samples (µm) taken at the same angular positions on
// each revolution. The synchronous profile is the per-angle mean; the
// asynchronous error is the largest per-angle spread.
func Separate(revolutions [][]float64) (Separation, error) {
	if len(revolutions) == 0 || len(revolutions[0]) == 0 {
		return Separation{}, precision.ErrEmptyInput
	}
	n := len(revolutions[0])
	for i, rev := range revolutions {
		if len(rev) != n {
			return Separation{}, fmt.Errorf("spindle: revolution %d has %d samples, want %d: %w", i, len(rev), n, precision.ErrInvalidGeometry)
		}
	}

	sep := Separation{Profile: make([]float64, n)}
	column := make([]float64, len(revolutions))
	for j := 0; j < n; j++ {
		for i, rev := range revolutions {
			column[i] = rev[j]
		}
		sep.Profile[j] = stat.Mean(column, nil)
		if spread := floats.Max(column) - floats.Min(column); spread > sep.Asynchronous {
			sep.Asynchronous = spread
		}
	}
	sep.Synchronous = floats.Max(sep.Profile) - floats.Min(sep.Profile)
	return sep, nil
}
