package pricing

import (
	"fmt"
	"math"
)

// Billing units for the taxable mass.
const (
	UnitKilogram    = "kg"
	UnitPayableUnit = "payable-unit"
)

// TaxableMass is the figure a tariff applies to, with its billing unit.
type TaxableMass struct {
	Value          float64
	Unit           string
	BilledOnVolume bool
}

// VolumetricWeight converts a volume to the mode's equivalent weight figure:
// kilograms for AIR, ROAD and RAIL, tonne-equivalent for SEA.
func VolumetricWeight(volumeM3 float64, mode TransportMode) (float64, error) {
	ratio, err := mode.VolumetricRatio()
	if err != nil {
		return 0, err
	}
	return volumeM3 * ratio, nil
}

// ResolveTaxableMass chooses the billable figure between actual and
// volumetric mass. Sea freight bills per payable unit: the greater of one
// tonne and one cubic meter. This is established maritime convention, not a
// unit mix-up.
func ResolveTaxableMass(actualWeightKg, volumetricWeight, volumeM3 float64, mode TransportMode) (TaxableMass, error) {
	switch mode {
	case ModeSea:
		tonnes := actualWeightKg / 1000
		return TaxableMass{
			Value:          math.Max(tonnes, volumeM3),
			Unit:           UnitPayableUnit,
			BilledOnVolume: volumeM3 > tonnes,
		}, nil
	case ModeAir, ModeRoad, ModeRail:
		return TaxableMass{
			Value:          math.Max(actualWeightKg, volumetricWeight),
			Unit:           UnitKilogram,
			BilledOnVolume: volumetricWeight > actualWeightKg,
		}, nil
	default:
		return TaxableMass{}, fmt.Errorf("%w: %q", ErrUnsupportedMode, string(mode))
	}
}
