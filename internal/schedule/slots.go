package schedule

import (
	"fmt"

	"playeasy/internal/models"
)

// GenerateSlots derives bookable time slots for one duration within the
// operating window. Starting at openHour it steps by duration hours and
// emits [h, h+duration] only while the slot still fits before closeHour.
// Deterministic: same inputs always produce the same ordered list.
func GenerateSlots(duration, openHour, closeHour int) []models.TimeSlot {
	if duration <= 0 {
		return nil
	}

	var slots []models.TimeSlot
	for h := openHour; h+duration <= closeHour; h += duration {
		slots = append(slots, models.TimeSlot{
			StartLabel: FormatHour(h),
			EndLabel:   FormatHour(h + duration),
		})
	}
	return slots
}

// FormatHour renders a 24h hour as a 12h clock label.
func FormatHour(hour int) string {
	switch {
	case hour == 12:
		return "12:00 PM"
	case hour > 12:
		return fmt.Sprintf("%d:00 PM", hour-12)
	default:
		return fmt.Sprintf("%d:00 AM", hour)
	}
}

// ContainsSlot reports whether label identifies a slot in the list.
func ContainsSlot(slots []models.TimeSlot, label string) bool {
	for _, slot := range slots {
		if slot.Label() == label {
			return true
		}
	}
	return false
}
