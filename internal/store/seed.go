package store

import (
	"time"

	"playeasy/internal/models"

	"github.com/google/uuid"
)

// DemoSeed returns the demo bookings installed on a first-ever session, so
// the prototype has content to browse before anything was booked.
func DemoSeed(now time.Time) []models.Booking {
	return []models.Booking{
		{
			ID:          uuid.NewString(),
			CourtID:     1,
			CourtName:   "Premium Tennis Court A",
			CourtType:   "Tennis",
			Date:        now.AddDate(0, 0, 1),
			Time:        "2:00 PM - 3:00 PM",
			Duration:    1,
			TotalAmount: 50,
			Status:      models.StatusConfirmed,
			Equipment: []models.EquipmentLine{
				{ItemID: 1, Name: "Tennis Racket", UnitPrice: 10, Quantity: 2, MaxStock: 12},
			},
			PaymentMethod: "pos",
			CreatedAt:     now.AddDate(0, 0, -7),
		},
		{
			ID:            uuid.NewString(),
			CourtID:       2,
			CourtName:     "Badminton Court B",
			CourtType:     "Badminton",
			Date:          now.AddDate(0, 0, 2),
			Time:          "3:00 PM - 4:00 PM",
			Duration:      1,
			TotalAmount:   35,
			Status:        models.StatusPending,
			PaymentMethod: "airtel-money",
			CreatedAt:     now.AddDate(0, 0, -2),
		},
		{
			ID:          uuid.NewString(),
			CourtID:     3,
			CourtName:   "Multi-Purpose Court C",
			CourtType:   "Basketball",
			Date:        now.AddDate(0, 0, -3),
			Time:        "1:00 PM - 2:00 PM",
			Duration:    1,
			TotalAmount: 40,
			Status:      models.StatusCompleted,
			Equipment: []models.EquipmentLine{
				{ItemID: 5, Name: "Basketball", UnitPrice: 5, Quantity: 1, MaxStock: 10},
			},
			PaymentMethod: "manual",
			CreatedAt:     now.AddDate(0, 0, -10),
		},
	}
}
