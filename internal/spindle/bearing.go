package spindle

import (
	"errors"
	"math"

	"github.com/san-kum/precsim/internal/precision"
)

const (
	// AxialLoadFactor weights the axial load in the equivalent load.
	AxialLoadFactor = 0.5

	// LifeExponent is the ball-bearing life exponent.
	LifeExponent = 3.0

	ShortLifeHours = 5000.0
	LongLifeHours  = 20000.0
)

// BearingLife is the L10 prediction for one operating point.
type BearingLife struct {
	EquivalentLoad float64 // N
	L10Revolutions float64 // millions of revolutions
	L10Hours       float64
	Recommendation string
}

// PredictBearingLife evaluates L10 = (C/P)³·10⁶/(60·n) hours with
// P = Fr + 0.5·Fa.
func PredictBearingLife(radialLoad, axialLoad, rpm, dynamicLoadRating float64) (BearingLife, error) {
	if err := errors.Join(
		precision.NonNegative("radialLoad", radialLoad),
		precision.NonNegative("axialLoad", axialLoad),
		precision.Positive("rpm", rpm),
		precision.Positive("dynamicLoadRating", dynamicLoadRating),
	); err != nil {
		return BearingLife{}, err
	}

	p := radialLoad + AxialLoadFactor*axialLoad
	if err := precision.Positive("equivalentLoad", p); err != nil {
		return BearingLife{}, err
	}

	l10 := math.Pow(dynamicLoadRating/p, LifeExponent)
	hours := l10 * 1e6 / (60 * rpm)
	return BearingLife{
		EquivalentLoad: p,
		L10Revolutions: l10,
		L10Hours:       hours,
		Recommendation: recommend(hours),
	}, nil
}

func recommend(hours float64) string {
	switch {
	case hours < ShortLifeHours:
		return "short life: reduce load or speed, or select a higher-rated bearing"
	case hours < LongLifeHours:
		return "adequate life: schedule periodic bearing inspection"
	default:
		return "long life: bearing selection is adequate"
	}
}
