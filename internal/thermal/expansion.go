package thermal

import (
	"github.com/san-kum/precsim/internal/materials"
	"github.com/san-kum/precsim/internal/precision"
	"github.com/san-kum/precsim/internal/units"
)

// Expansion returns the free thermal growth in µm of a part of the given
// length (mm) and material for a temperature change in °C. The length must
// be positive; deltaT may be negative for contraction.
func Expansion(material string, lengthMM, deltaT float64) (float64, error) {
	if err := precision.Positive("length", lengthMM); err != nil {
		return 0, err
	}
	alpha := materials.Get(material).Expansion // µm/m/°C
	return alpha * units.MMToM(lengthMM) * deltaT, nil
}
