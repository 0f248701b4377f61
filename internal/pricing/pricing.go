package pricing

import (
	"math"

	"playeasy/internal/models"
)

// TaxRate is the flat tax applied to the subtotal.
const TaxRate = 0.10

// Price computes the full breakdown for a court rate, duration and selected
// equipment. Pure: repeated recomputation on every draft change is safe, and
// accumulation stays unrounded so rounding error never compounds.
func Price(courtRatePerHour float64, duration int, lines []models.EquipmentLine) models.PriceBreakdown {
	courtSubtotal := courtRatePerHour * float64(duration)

	var equipmentSubtotal float64
	for _, line := range lines {
		equipmentSubtotal += line.UnitPrice * float64(line.Quantity)
	}

	subtotal := courtSubtotal + equipmentSubtotal
	tax := subtotal * TaxRate

	return models.PriceBreakdown{
		CourtSubtotal:     courtSubtotal,
		EquipmentSubtotal: equipmentSubtotal,
		Tax:               tax,
		Total:             subtotal + tax,
	}
}

// Round2 rounds a monetary value to cents, for display only.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
