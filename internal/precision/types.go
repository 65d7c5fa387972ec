package precision

import (
	"fmt"
	"math"
)

// Vec3 is a Cartesian triple. Its unit depends on use: mm for positions,
// µm for linear errors, µrad for angular errors.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

// Cross returns v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

// AdvisoryCode identifies the kind of an Advisory.
type AdvisoryCode string

const (
	// CourantExceeded: explicit diffusion step with r > 0.5.
	CourantExceeded AdvisoryCode = "courant-exceeded"
	// NotConverged: an iteration hit its step ceiling.
	NotConverged AdvisoryCode = "not-converged"
	// SlenderBeam: Euler-Bernoulli used below its length/diameter validity limit.
	SlenderBeam AdvisoryCode = "beam-not-slender"
	// AngularExcluded: a scalar magnitude leaves angular components out.
	AngularExcluded AdvisoryCode = "angular-excluded"
	// Approximate: a heuristic result, not an exact optimum.
	Approximate AdvisoryCode = "approximate"
)

// Advisory is a non-fatal warning attached to a computed result. Callers
// may log, display or ignore it.
type Advisory struct {
	Code    AdvisoryCode
	Message string
}

func (a Advisory) String() string {
	return fmt.Sprintf("[%s] %s", a.Code, a.Message)
}

// Advise builds an Advisory with a formatted message.
func Advise(code AdvisoryCode, format string, args ...any) Advisory {
	return Advisory{Code: code, Message: fmt.Sprintf(format, args...)}
}
