package pricing

import (
	"testing"

	"playeasy/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	t.Run("CourtWithEquipment", func(t *testing.T) {
		lines := []models.EquipmentLine{{ItemID: 1, UnitPrice: 15, Quantity: 2}}
		got := Price(50, 2, lines)

		assert.Equal(t, 100.0, got.CourtSubtotal)
		assert.Equal(t, 30.0, got.EquipmentSubtotal)
		assert.InDelta(t, 13.0, got.Tax, 1e-9)
		assert.InDelta(t, 143.0, got.Total, 1e-9)
	})

	t.Run("CourtOnly", func(t *testing.T) {
		got := Price(35, 1, nil)
		assert.Equal(t, 35.0, got.CourtSubtotal)
		assert.Zero(t, got.EquipmentSubtotal)
		assert.InDelta(t, 3.5, got.Tax, 1e-9)
		assert.InDelta(t, 38.5, got.Total, 1e-9)
	})

	t.Run("MultipleLines", func(t *testing.T) {
		lines := []models.EquipmentLine{
			{ItemID: 1, UnitPrice: 15, Quantity: 1},
			{ItemID: 2, UnitPrice: 5, Quantity: 3},
		}
		got := Price(40, 3, lines)
		assert.Equal(t, 120.0, got.CourtSubtotal)
		assert.Equal(t, 30.0, got.EquipmentSubtotal)
		assert.InDelta(t, 165.0, got.Total, 1e-9)
	})

	t.Run("ZeroEverything", func(t *testing.T) {
		got := Price(0, 0, nil)
		assert.Zero(t, got.Total)
	})

	t.Run("TotalIsSubtotalPlusTax", func(t *testing.T) {
		got := Price(75, 4, []models.EquipmentLine{{UnitPrice: 6, Quantity: 2}})
		subtotal := got.CourtSubtotal + got.EquipmentSubtotal
		assert.InDelta(t, subtotal*TaxRate, got.Tax, 1e-9)
		assert.InDelta(t, subtotal+got.Tax, got.Total, 1e-9)
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 143.0, Round2(143.000000001))
	assert.Equal(t, 38.5, Round2(38.50000000000001))
	assert.Equal(t, 3.14, Round2(3.14159))
	assert.Equal(t, 2.72, Round2(2.718))
	assert.Equal(t, 0.0, Round2(0))
}
