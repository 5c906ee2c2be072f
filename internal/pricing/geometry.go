package pricing

import "fmt"

const cm3PerM3 = 1_000_000

// Dimensions are outer package dimensions in centimeters.
type Dimensions struct {
	LengthCm float64
	WidthCm  float64
	HeightCm float64
}

// Volume converts the dimensions to cubic meters. No rounding happens here;
// rounding is applied once, when the final result is built.
func (d Dimensions) Volume() (float64, error) {
	if d.LengthCm <= 0 {
		return 0, fmt.Errorf("%w: length=%v", ErrInvalidDimension, d.LengthCm)
	}
	if d.WidthCm <= 0 {
		return 0, fmt.Errorf("%w: width=%v", ErrInvalidDimension, d.WidthCm)
	}
	if d.HeightCm <= 0 {
		return 0, fmt.Errorf("%w: height=%v", ErrInvalidDimension, d.HeightCm)
	}

	return d.LengthCm * d.WidthCm * d.HeightCm / cm3PerM3, nil
}
