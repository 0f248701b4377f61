package models

import "time"

type Booking struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	CourtID       int64           `json:"court_id"`
	CourtName     string          `json:"court_name"`
	CourtType     string          `json:"court_type"`
	Date          time.Time       `json:"date"`
	Time          string          `json:"time"` // slot label, e.g. "2:00 PM - 3:00 PM"
	Duration      int             `json:"duration"`
	Equipment     []EquipmentLine `json:"equipment,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	TotalAmount   float64         `json:"total_amount"`
	Status        string          `json:"status"` // pending, confirmed, cancelled, completed
	CreatedAt     time.Time       `json:"created_at"`
}

// IsCancellable reports whether the booking can still be cancelled.
func (b *Booking) IsCancellable() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}
