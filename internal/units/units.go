// Package units centralizes the unit conversions used by the error models.
//
// Public operations take millimetres, micrometres, microradians, newtons,
// degrees Celsius and rpm; formulas work in SI. Every scaling between the
// two goes through this package.
package units

import "math"

const (
	MMPerM     = 1000.0
	UMPerMM    = 1000.0
	UMPerM     = 1e6
	URadPerRad = 1e6
	PaPerGPa   = 1e9
	// NPerM2PerNPerMM2 converts a specific cutting coefficient from N/mm² to N/m².
	NPerM2PerNPerMM2 = 1e6
	SecondsPerHour   = 3600.0
)

func MMToM(mm float64) float64    { return mm / MMPerM }
func MToMM(m float64) float64     { return m * MMPerM }
func MToUM(m float64) float64     { return m * UMPerM }
func UMToMM(um float64) float64   { return um / UMPerMM }
func MMToUM(mm float64) float64   { return mm * UMPerMM }
func URadToRad(u float64) float64 { return u / URadPerRad }
func RadToURad(r float64) float64 { return r * URadPerRad }
func GPaToPa(g float64) float64   { return g * PaPerGPa }
func DegToRad(d float64) float64  { return d * math.Pi / 180 }

// AbbeUM is the linear error in µm produced by an angular error in µrad
// acting over an arm in mm.
func AbbeUM(armMM, angleURad float64) float64 {
	return armMM * angleURad / UMPerMM
}

// RPMToRadPerSec converts a rotational speed to angular frequency.
func RPMToRadPerSec(rpm float64) float64 {
	return rpm / 60 * 2 * math.Pi
}

// RadPerSecToHz converts angular frequency to Hz.
func RadPerSecToHz(w float64) float64 {
	return w / (2 * math.Pi)
}
