// Package deflection computes the static deflection of a cutting tool
// modelled as a cantilever loaded at its tip.
//
// Three beam models are available: Euler-Bernoulli bending, Timoshenko
// bending plus shear, and a two-segment shank/flute model. All take the
// force in N, lengths and diameters in mm and a material name from the
// materials table, and return deflection in µm.
package deflection

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/precsim/internal/materials"
	"github.com/san-kum/precsim/internal/precision"
	"github.com/san-kum/precsim/internal/units"
)

const (
	// ShearCorrection is κ for a solid circular section.
	ShearCorrection = 0.9

	// SlendernessLimit is the length/diameter ratio above which
	// Euler-Bernoulli is considered valid.
	SlendernessLimit = 10.0

	// FluteDiameterRatio is the effective bending diameter of the fluted
	// section relative to the nominal diameter.
	FluteDiameterRatio = 0.8
)

// ErrFluteTooLong is returned by Tapered when the flute is longer than the
// stickout.
var ErrFluteTooLong = fmt.Errorf("deflection: flute length exceeds stickout: %w", precision.ErrInvalidGeometry)

// Model selects a beam formula.
type Model int

const (
	EulerBernoulliModel Model = iota
	TimoshenkoModel
	TaperedModel
)

func (m Model) String() string {
	switch m {
	case EulerBernoulliModel:
		return "euler-bernoulli"
	case TimoshenkoModel:
		return "timoshenko"
	case TaperedModel:
		return "tapered"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// ParseModel maps a model name to a Model.
func ParseModel(name string) (Model, error) {
	switch name {
	case "euler-bernoulli", "euler", "eb":
		return EulerBernoulliModel, nil
	case "timoshenko", "timo":
		return TimoshenkoModel, nil
	case "tapered", "taper":
		return TaperedModel, nil
	}
	return 0, fmt.Errorf("deflection: unknown model %q", name)
}

// Input is the load case shared by all models. FluteLength is only used by
// the tapered model.
type Input struct {
	Force       float64 // N
	Length      float64 // mm, stickout
	Diameter    float64 // mm
	FluteLength float64 // mm
	Material    string
}

// Result is an immutable deflection record.
type Result struct {
	Model      Model
	Deflection float64 // µm, total at the tip
	Bending    float64 // µm
	Shear      float64 // µm
	Shank      float64 // µm, tip deflection due to shank compliance
	Flute      float64 // µm, flute-local bending
	Stiffness  float64 // N/µm
	Valid      bool    // length/diameter above SlendernessLimit
	Advisories []precision.Advisory
}

// Compute dispatches to the selected model.
func Compute(m Model, in Input) (Result, error) {
	switch m {
	case EulerBernoulliModel:
		return EulerBernoulli(in.Force, in.Length, in.Diameter, in.Material)
	case TimoshenkoModel:
		return Timoshenko(in.Force, in.Length, in.Diameter, in.Material)
	case TaperedModel:
		return Tapered(in.Force, in.Length, in.FluteLength, in.Diameter, in.Material)
	}
	return Result{}, fmt.Errorf("deflection: unknown model %d", int(m))
}

func validate(force, length, diameter float64) error {
	return errors.Join(
		precision.Positive("force", force),
		precision.Positive("length", length),
		precision.Positive("diameter", diameter),
	)
}

// secondMoment returns I = πd⁴/64 in m⁴ for a diameter in mm.
func secondMoment(diameterMM float64) float64 {
	d := units.MMToM(diameterMM)
	return math.Pi * math.Pow(d, 4) / 64
}

func area(diameterMM float64) float64 {
	d := units.MMToM(diameterMM)
	return math.Pi * d * d / 4
}

// cantilever returns FL³/3EI in m.
func cantilever(force, lengthM, e, i float64) float64 {
	return force * math.Pow(lengthM, 3) / (3 * e * i)
}

func finish(r Result, force, length, diameter float64) Result {
	if r.Deflection > 0 {
		r.Stiffness = force / r.Deflection
	} else {
		r.Stiffness = math.Inf(1)
	}
	r.Valid = length/diameter > SlendernessLimit
	if !r.Valid && r.Model == EulerBernoulliModel {
		r.Advisories = append(r.Advisories, precision.Advise(precision.SlenderBeam,
			"L/D = %.1f is not above %.0f; shear deformation is significant", length/diameter, SlendernessLimit))
	}
	return r
}

// EulerBernoulli returns δ = FL³/3EI.
func EulerBernoulli(force, length, diameter float64, material string) (Result, error) {
	if err := validate(force, length, diameter); err != nil {
		return Result{}, err
	}
	e := units.GPaToPa(materials.Get(material).Elastic)

	bend := units.MToUM(cantilever(force, units.MMToM(length), e, secondMoment(diameter)))
	r := Result{Model: EulerBernoulliModel, Deflection: bend, Bending: bend}
	return finish(r, force, length, diameter), nil
}

// Timoshenko adds the shear term FL/(κAG) to the bending deflection.
func Timoshenko(force, length, diameter float64, material string) (Result, error) {
	if err := validate(force, length, diameter); err != nil {
		return Result{}, err
	}
	p := materials.Get(material)
	e, g := units.GPaToPa(p.Elastic), units.GPaToPa(p.Shear)
	l := units.MMToM(length)

	bend := units.MToUM(cantilever(force, l, e, secondMoment(diameter)))
	shear := units.MToUM(force * l / (ShearCorrection * area(diameter) * g))
	r := Result{Model: TimoshenkoModel, Deflection: bend + shear, Bending: bend, Shear: shear}
	return finish(r, force, length, diameter), nil
}

// Tapered models the tool as a solid shank of diameter d carrying a fluted
// section of effective diameter FluteDiameterRatio·d at its end. The tip
// deflection is the shank end deflection, plus the shank end rotation
// carried over the flute length, plus the flute's own bending.
func Tapered(force, stickout, fluteLength, diameter float64, material string) (Result, error) {
	if err := errors.Join(validate(force, stickout, diameter), precision.Positive("fluteLength", fluteLength)); err != nil {
		return Result{}, err
	}
	if fluteLength > stickout {
		return Result{}, ErrFluteTooLong
	}

	e := units.GPaToPa(materials.Get(material).Elastic)
	is := secondMoment(diameter)
	iF := secondMoment(diameter * FluteDiameterRatio)
	ls := units.MMToM(stickout - fluteLength)
	lf := units.MMToM(fluteLength)

	// the shank sees the tip force and the moment F·lf at its free end
	moment := force * lf
	shankEnd := force*math.Pow(ls, 3)/(3*e*is) + moment*ls*ls/(2*e*is)
	shankRot := force*ls*ls/(2*e*is) + moment*ls/(e*is)
	flute := cantilever(force, lf, e, iF)

	shank := units.MToUM(shankEnd + shankRot*lf)
	fl := units.MToUM(flute)
	r := Result{Model: TaperedModel, Deflection: shank + fl, Bending: shank + fl, Shank: shank, Flute: fl}
	return finish(r, force, stickout, diameter), nil
}

// SurfaceError is the form error left on a wall: the static tool
// deflection plus the scallop height s²/8R. The two are systematic and are
// added, not combined in quadrature.
type SurfaceError struct {
	Deflection float64 // µm
	Scallop    float64 // µm
	Total      float64 // µm
}

func ComputeSurfaceError(deflectionUM, stepoverMM, toolRadiusMM float64) (SurfaceError, error) {
	if err := errors.Join(
		precision.NonNegative("deflection", deflectionUM),
		precision.NonNegative("stepover", stepoverMM),
		precision.Positive("toolRadius", toolRadiusMM),
	); err != nil {
		return SurfaceError{}, err
	}
	scallop := units.MMToUM(stepoverMM * stepoverMM / (8 * toolRadiusMM))
	return SurfaceError{
		Deflection: deflectionUM,
		Scallop:    scallop,
		Total:      deflectionUM + scallop,
	}, nil
}

// Finish is the theoretical surface finish left by a round-nosed tool.
type Finish struct {
	PeakToValley float64 // µm, f²/8R
	Ra           float64 // µm, f²/(32R)
}

// SurfaceFinish predicts the kinematic roughness for a feed per tooth and
// tool (or nose) radius, both in mm.
func SurfaceFinish(feedPerToothMM, toolRadiusMM float64) (Finish, error) {
	if err := errors.Join(
		precision.NonNegative("feedPerTooth", feedPerToothMM),
		precision.Positive("toolRadius", toolRadiusMM),
	); err != nil {
		return Finish{}, err
	}
	f2 := feedPerToothMM * feedPerToothMM
	return Finish{
		PeakToValley: units.MMToUM(f2 / (8 * toolRadiusMM)),
		Ra:           units.MMToUM(f2 / (32 * toolRadiusMM)),
	}, nil
}
