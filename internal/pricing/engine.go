// Package pricing implements the freight quote calculation pipeline:
// volume, volumetric weight, taxable mass, tariff lookup and priority-based
// final pricing. It is pure: no I/O beyond a warning log on tariff fallback.
package pricing

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TariffSource provides the unit tariff for a lane and mode. Implementations
// never fail for a missing lane: they substitute the per-mode default and
// report it through the fallback flag.
type TariffSource interface {
	Lookup(origin, destination string, mode TransportMode) (rate float64, currency string, fallback bool)
}

// QuoteInput carries the physical and routing attributes of a quote request.
// The surrounding form layer is expected to have parsed the raw values; the
// engine still re-validates weight and dimensions.
type QuoteInput struct {
	ActualWeightKg  float64
	Dimensions      Dimensions
	Mode            TransportMode
	Priority        Priority
	OriginCode      string
	DestinationCode string
}

// QuoteResult is the itemized outcome of a pricing run. All figures are
// rounded here and only here: volume to three decimals, everything else to
// two.
type QuoteResult struct {
	Lane                string        `json:"lane"`
	Mode                TransportMode `json:"mode"`
	Priority            Priority      `json:"priority"`
	VolumeM3            float64       `json:"volume_m3"`
	VolumetricWeight    float64       `json:"volumetric_weight"`
	TaxableMass         float64       `json:"taxable_mass"`
	TaxableUnit         string        `json:"taxable_unit"`
	BilledOnVolume      bool          `json:"billed_on_volume"`
	TariffRate          float64       `json:"tariff_rate"`
	TariffFallback      bool          `json:"tariff_fallback"`
	BaseCost            float64       `json:"base_cost"`
	PriorityCoefficient float64       `json:"priority_coefficient"`
	FinalPrice          float64       `json:"final_price"`
	Currency            string        `json:"currency"`
}

// Engine composes the pricing pipeline over a tariff snapshot source.
type Engine struct {
	tariffs TariffSource
	log     zerolog.Logger
}

// NewEngine builds an engine bound to a tariff source.
func NewEngine(tariffs TariffSource, log zerolog.Logger) *Engine {
	return &Engine{tariffs: tariffs, log: log}
}

// Calculate runs the full pipeline for one quote request. Validation
// failures abort before any tariff lookup; a missing lane tariff is not a
// failure and resolves to the mode's default with a logged warning.
func (e *Engine) Calculate(in QuoteInput) (QuoteResult, error) {
	if in.ActualWeightKg <= 0 {
		return QuoteResult{}, fmt.Errorf("%w: weight=%v kg", ErrInvalidWeight, in.ActualWeightKg)
	}

	priority := in.Priority
	if priority == "" {
		priority = PriorityStandard
	}

	volume, err := in.Dimensions.Volume()
	if err != nil {
		return QuoteResult{}, err
	}

	volumetric, err := VolumetricWeight(volume, in.Mode)
	if err != nil {
		return QuoteResult{}, err
	}

	taxable, err := ResolveTaxableMass(in.ActualWeightKg, volumetric, volume, in.Mode)
	if err != nil {
		return QuoteResult{}, err
	}

	origin := NormalizeCountryCode(in.OriginCode)
	destination := NormalizeCountryCode(in.DestinationCode)
	lane := origin + "-" + destination

	rate, currency, fallback := e.tariffs.Lookup(origin, destination, in.Mode)
	if fallback {
		e.log.Warn().
			Str("lane", lane).
			Str("mode", string(in.Mode)).
			Float64("default_rate", rate).
			Msg("no lane tariff configured, default tariff applied")
	}

	baseCost := taxable.Value * rate
	coefficient := priority.Coefficient()
	finalPrice := baseCost * coefficient

	return QuoteResult{
		Lane:                lane,
		Mode:                in.Mode,
		Priority:            priority,
		VolumeM3:            round(volume, 3),
		VolumetricWeight:    round(volumetric, 2),
		TaxableMass:         round(taxable.Value, 2),
		TaxableUnit:         taxable.Unit,
		BilledOnVolume:      taxable.BilledOnVolume,
		TariffRate:          round(rate, 2),
		TariffFallback:      fallback,
		BaseCost:            round(baseCost, 2),
		PriorityCoefficient: coefficient,
		FinalPrice:          round(finalPrice, 2),
		Currency:            currency,
	}, nil
}

// round rounds half away from zero at the given number of decimals.
func round(v float64, places int32) float64 {
	out, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return out
}
