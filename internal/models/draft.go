package models

import "time"

// BookingDraft is the transient wizard state. It exists only for the
// lifetime of one booking flow and is discarded on cancel or submit.
type BookingDraft struct {
	Step          int             `json:"step"`
	Date          time.Time       `json:"date"` // zero value means not chosen yet
	TimeSlot      string          `json:"time_slot"`
	Duration      int             `json:"duration"`
	Equipment     []EquipmentLine `json:"equipment,omitempty"`
	PaymentMethod string          `json:"payment_method"`
}

func NewBookingDraft() *BookingDraft {
	return &BookingDraft{Step: StepDateTime, Duration: 1}
}

// HasDate reports whether a calendar date was selected.
func (d BookingDraft) HasDate() bool {
	return !d.Date.IsZero()
}

// EquipmentQuantity returns the selected quantity for a catalog item, 0 if absent.
func (d BookingDraft) EquipmentQuantity(itemID int64) int {
	for _, line := range d.Equipment {
		if line.ItemID == itemID {
			return line.Quantity
		}
	}
	return 0
}

type PriceBreakdown struct {
	CourtSubtotal     float64 `json:"court_subtotal"`
	EquipmentSubtotal float64 `json:"equipment_subtotal"`
	Tax               float64 `json:"tax"`
	Total             float64 `json:"total"`
}
