package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"playeasy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLitePersistence {
	t.Helper()
	p, err := NewSQLitePersistence(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.CloseDB() })
	return p
}

func TestSQLitePersistence(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveAndLoadRoundTrip", func(t *testing.T) {
		p := newTestSQLite(t)
		date := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
		bookings := []models.Booking{
			{
				ID:          "b1",
				UserID:      "u1",
				CourtID:     1,
				CourtName:   "Premium Tennis Court A",
				CourtType:   "Tennis",
				Date:        date,
				Time:        "2:00 PM - 3:00 PM",
				Duration:    1,
				TotalAmount: 88,
				Status:      models.StatusConfirmed,
				Equipment: []models.EquipmentLine{
					{ItemID: 1, Name: "Professional Tennis Racket", UnitPrice: 15, Quantity: 2, MaxStock: 12},
				},
				PaymentMethod: "airtel-money",
				CreatedAt:     date.AddDate(0, 0, -1),
			},
			{
				ID:        "b2",
				UserID:    "u1",
				CourtID:   2,
				CourtName: "Badminton Court B",
				Date:      date.AddDate(0, 0, 1),
				Time:      "3:00 PM - 4:00 PM",
				Duration:  1,
				Status:    models.StatusPending,
				CreatedAt: date,
			},
		}
		require.NoError(t, p.SaveBookings(ctx, "u1", bookings))

		got, err := p.LoadBookings(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, got, 2)

		byID := map[string]models.Booking{got[0].ID: got[0], got[1].ID: got[1]}
		b1 := byID["b1"]
		assert.Equal(t, "u1", b1.UserID)
		assert.Equal(t, "2:00 PM - 3:00 PM", b1.Time)
		assert.Equal(t, 88.0, b1.TotalAmount)
		require.Len(t, b1.Equipment, 1)
		assert.Equal(t, 2, b1.Equipment[0].Quantity)

		b2 := byID["b2"]
		assert.Empty(t, b2.Equipment)
		assert.Equal(t, models.StatusPending, b2.Status)
	})

	t.Run("SaveReplacesPreviousRows", func(t *testing.T) {
		p := newTestSQLite(t)
		now := time.Now().UTC()
		first := []models.Booking{
			{ID: "old", CourtID: 1, CourtName: "A", Date: now, Time: "x", Duration: 1, Status: models.StatusConfirmed, CreatedAt: now},
		}
		require.NoError(t, p.SaveBookings(ctx, "u1", first))

		second := []models.Booking{
			{ID: "new", CourtID: 1, CourtName: "A", Date: now, Time: "x", Duration: 1, Status: models.StatusConfirmed, CreatedAt: now},
		}
		require.NoError(t, p.SaveBookings(ctx, "u1", second))

		got, err := p.LoadBookings(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "new", got[0].ID)
	})

	t.Run("UsersAreIsolated", func(t *testing.T) {
		p := newTestSQLite(t)
		now := time.Now().UTC()
		require.NoError(t, p.SaveBookings(ctx, "u1", []models.Booking{
			{ID: "mine", CourtID: 1, CourtName: "A", Date: now, Time: "x", Duration: 1, Status: models.StatusConfirmed, CreatedAt: now},
		}))

		got, err := p.LoadBookings(ctx, "u2")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("EmptySaveClears", func(t *testing.T) {
		p := newTestSQLite(t)
		now := time.Now().UTC()
		require.NoError(t, p.SaveBookings(ctx, "u1", []models.Booking{
			{ID: "b", CourtID: 1, CourtName: "A", Date: now, Time: "x", Duration: 1, Status: models.StatusConfirmed, CreatedAt: now},
		}))
		require.NoError(t, p.SaveBookings(ctx, "u1", nil))

		got, err := p.LoadBookings(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
