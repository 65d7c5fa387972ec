// Package materials holds the material property table consumed by the
// thermal and deflection models. Unknown names fall back to steel.
package materials

import (
	"sort"
	"strings"
)

// Fallback is used when a lookup misses.
const Fallback = "steel"

// Property is one row of the table.
type Property struct {
	Name         string  `yaml:"name"`
	Expansion    float64 `yaml:"expansion"`     // µm/m/°C
	Conductivity float64 `yaml:"conductivity"`  // W/m·K
	Density      float64 `yaml:"density"`       // kg/m³
	SpecificHeat float64 `yaml:"specific_heat"` // J/kg·K
	Elastic      float64 `yaml:"elastic"`       // GPa
	Shear        float64 `yaml:"shear"`         // GPa
}

// Diffusivity returns k/(ρ·cp) in m²/s.
func (p Property) Diffusivity() float64 {
	return p.Conductivity / (p.Density * p.SpecificHeat)
}

var Table = map[string]Property{
	"steel":     {Name: "steel", Expansion: 11.5, Conductivity: 50, Density: 7850, SpecificHeat: 460, Elastic: 210, Shear: 80},
	"cast_iron": {Name: "cast_iron", Expansion: 10.5, Conductivity: 52, Density: 7200, SpecificHeat: 460, Elastic: 120, Shear: 48},
	"aluminum":  {Name: "aluminum", Expansion: 23.1, Conductivity: 205, Density: 2700, SpecificHeat: 900, Elastic: 70, Shear: 26},
	"invar":     {Name: "invar", Expansion: 1.2, Conductivity: 10, Density: 8100, SpecificHeat: 515, Elastic: 141, Shear: 54},
	"granite":   {Name: "granite", Expansion: 8.0, Conductivity: 2.8, Density: 2700, SpecificHeat: 790, Elastic: 50, Shear: 20},
	"brass":     {Name: "brass", Expansion: 19.0, Conductivity: 109, Density: 8500, SpecificHeat: 380, Elastic: 100, Shear: 37},
	"titanium":  {Name: "titanium", Expansion: 8.6, Conductivity: 22, Density: 4430, SpecificHeat: 526, Elastic: 114, Shear: 44},
	"carbide":   {Name: "carbide", Expansion: 5.5, Conductivity: 84, Density: 14500, SpecificHeat: 220, Elastic: 580, Shear: 250},
	"hss":       {Name: "hss", Expansion: 11.0, Conductivity: 24, Density: 8100, SpecificHeat: 460, Elastic: 210, Shear: 81},
	"ceramic":   {Name: "ceramic", Expansion: 8.0, Conductivity: 30, Density: 3900, SpecificHeat: 880, Elastic: 390, Shear: 160},
	"cbn":       {Name: "cbn", Expansion: 4.9, Conductivity: 740, Density: 3480, SpecificHeat: 800, Elastic: 680, Shear: 290},
	"diamond":   {Name: "diamond", Expansion: 1.0, Conductivity: 2000, Density: 3520, SpecificHeat: 509, Elastic: 1050, Shear: 480},
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Lookup returns the named material and whether it was found.
func Lookup(name string) (Property, bool) {
	p, ok := Table[normalize(name)]
	return p, ok
}

// Get returns the named material, or steel when the name is unknown.
func Get(name string) Property {
	if p, ok := Lookup(name); ok {
		return p
	}
	return Table[Fallback]
}

func Names() []string {
	names := make([]string, 0, len(Table))
	for name := range Table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
