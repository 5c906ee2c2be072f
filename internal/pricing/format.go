package pricing

import "fmt"

// DisplaySummary is the human-readable rendering of a QuoteResult: a total
// label, ordered detail lines and advisory notes for the customer.
type DisplaySummary struct {
	TotalLabel  string
	DetailLines []string
	Advisories  []string
}

// FormatForDisplay renders a result as line items and advisories. It is
// presentation-only and never fails.
func FormatForDisplay(res QuoteResult) DisplaySummary {
	volumetricUnit := "kg"
	tariffUnit := "kg"
	massLabel := "kg"
	if res.Mode == ModeSea {
		volumetricUnit = "t"
		tariffUnit = "UP"
	}
	if res.TaxableUnit == UnitPayableUnit {
		massLabel = "UP"
	}

	lines := []string{
		fmt.Sprintf("Volume : %.3f m³", res.VolumeM3),
		fmt.Sprintf("Poids volumétrique : %.2f %s", res.VolumetricWeight, volumetricUnit),
		fmt.Sprintf("Masse taxable : %.2f %s", res.TaxableMass, massLabel),
		fmt.Sprintf("Tarif appliqué (%s, %s) : %.2f %s/%s", res.Lane, res.Mode, res.TariffRate, res.Currency, tariffUnit),
		fmt.Sprintf("Coût de base : %.2f %s", res.BaseCost, res.Currency),
	}
	if res.PriorityCoefficient != 1.0 {
		lines = append(lines, fmt.Sprintf("Majoration priorité %s : ×%.2f", res.Priority, res.PriorityCoefficient))
	}

	var advisories []string
	if res.BilledOnVolume {
		advisories = append(advisories, "Marchandise légère ou volumineuse : la facturation est basée sur le volume plutôt que sur le poids réel.")
	}
	if res.TaxableUnit == UnitPayableUnit {
		advisories = append(advisories, "Fret maritime : facturation à l'unité payante (UP), soit le maximum entre 1 tonne et 1 m³.")
	}
	if res.TariffFallback {
		advisories = append(advisories, "Aucune grille tarifaire spécifique pour cette liaison : tarif par défaut appliqué, prix indicatif.")
	}

	return DisplaySummary{
		TotalLabel:  fmt.Sprintf("Total : %.2f %s", res.FinalPrice, res.Currency),
		DetailLines: lines,
		Advisories:  advisories,
	}
}
