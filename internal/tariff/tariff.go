// Package tariff holds the per-lane, per-mode unit tariff grids consumed by
// the pricing engine.
package tariff

import (
	"sort"

	"github.com/raoulalobo/kmapin-logistics-sub006/internal/pricing"
)

// Currency is the billing currency for every tariff in the grid.
const Currency = "EUR"

// Key identifies one tariff entry: a trade lane plus a transport mode.
type Key struct {
	Origin      string
	Destination string
	Mode        pricing.TransportMode
}

// NewKey builds a normalized tariff key.
func NewKey(origin, destination string, mode pricing.TransportMode) Key {
	return Key{
		Origin:      pricing.NormalizeCountryCode(origin),
		Destination: pricing.NormalizeCountryCode(destination),
		Mode:        mode,
	}
}

// Table is an immutable tariff snapshot: lane-specific rates plus a default
// rate per mode used when no lane entry exists. A calculation reads exactly
// one Table, so rates from different configuration versions never mix.
type Table struct {
	rates    map[Key]float64
	defaults map[pricing.TransportMode]float64
}

// NewTable copies the given rates over the built-in per-mode defaults.
func NewTable(rates map[Key]float64) Table {
	copied := make(map[Key]float64, len(rates))
	for key, rate := range rates {
		copied[key] = rate
	}
	return Table{rates: copied, defaults: defaultRateByMode}
}

// Lookup implements pricing.TariffSource. A missing lane is not an error:
// the mode's default rate answers and the fallback flag is set.
func (t Table) Lookup(origin, destination string, mode pricing.TransportMode) (float64, string, bool) {
	if rate, ok := t.rates[NewKey(origin, destination, mode)]; ok {
		return rate, Currency, false
	}
	return t.defaults[mode], Currency, true
}

// Len returns the number of lane-specific entries in the snapshot.
func (t Table) Len() int {
	return len(t.rates)
}

// defaultRateByMode is applied when no lane-specific tariff exists. Values
// are deliberately above the negotiated lane rates so that fallback quotes
// stay on the safe side.
var defaultRateByMode = map[pricing.TransportMode]float64{
	pricing.ModeAir:  7.5, // EUR per kg
	pricing.ModeRoad: 1.9, // EUR per kg
	pricing.ModeRail: 1.2, // EUR per kg
	pricing.ModeSea:  520, // EUR per payable unit
}

// referenceRates is the negotiated grid for the lanes the forwarder serves.
var referenceRates = map[Key]float64{
	{Origin: "FR", Destination: "CI", Mode: pricing.ModeAir}: 6.0,
	{Origin: "FR", Destination: "CI", Mode: pricing.ModeSea}: 480,
	{Origin: "FR", Destination: "BF", Mode: pricing.ModeAir}: 6.8,
	{Origin: "FR", Destination: "BF", Mode: pricing.ModeSea}: 465,
	{Origin: "FR", Destination: "SN", Mode: pricing.ModeAir}: 5.9,
	{Origin: "FR", Destination: "SN", Mode: pricing.ModeSea}: 450,
	{Origin: "FR", Destination: "CM", Mode: pricing.ModeAir}: 6.5,
	{Origin: "FR", Destination: "CM", Mode: pricing.ModeSea}: 495,
	{Origin: "FR", Destination: "TG", Mode: pricing.ModeSea}: 470,
	{Origin: "FR", Destination: "ML", Mode: pricing.ModeAir}: 7.0,
	{Origin: "FR", Destination: "MA", Mode: pricing.ModeRoad}: 1.5,
	{Origin: "FR", Destination: "DE", Mode: pricing.ModeRail}: 0.8,
	{Origin: "BE", Destination: "CI", Mode: pricing.ModeAir}: 6.2,
}

// Reference returns the built-in reference grid. It seeds a fresh database
// and answers as a last resort when the store cannot read its rows.
func Reference() Table {
	return NewTable(referenceRates)
}

// Entry is one lane tariff row, as stored in the tariffs table.
type Entry struct {
	Origin      string
	Destination string
	Mode        pricing.TransportMode
	Rate        float64
}

// ReferenceEntries returns the reference grid as rows in a deterministic
// order, for seeding.
func ReferenceEntries() []Entry {
	entries := make([]Entry, 0, len(referenceRates))
	for key, rate := range referenceRates {
		entries = append(entries, Entry{
			Origin:      key.Origin,
			Destination: key.Destination,
			Mode:        key.Mode,
			Rate:        rate,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Origin != b.Origin {
			return a.Origin < b.Origin
		}
		if a.Destination != b.Destination {
			return a.Destination < b.Destination
		}
		return a.Mode < b.Mode
	})
	return entries
}
