package wizard

import (
	"context"
	"io"
	"testing"
	"time"

	"playeasy/internal/config"
	"playeasy/internal/models"
	"playeasy/internal/repository"
	"playeasy/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, authProvider *fakeAuth) (*Manager, *repository.MemoryDraftRepository) {
	t.Helper()

	logger := zerolog.New(io.Discard)
	cfg := config.BookingConfig{OpenHour: 8, CloseHour: 17, MinDuration: 1, MaxDuration: 4}
	oracle := &fakeOracle{date: testNow.AddDate(0, 0, 1), booked: []string{"9:00 AM - 10:00 AM"}}
	drafts := repository.NewMemoryDraftRepository()
	bookings := store.NewBookingStore(nil, nil, nil, &logger)
	bookings.SetNow(func() time.Time { return testNow })

	m := NewManager(cfg, oracle, testCatalog(t), authProvider, &recordingSink{}, drafts, bookings, &logger)
	return m, drafts
}

func TestManagerStart(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownCourt", func(t *testing.T) {
		m, _ := newTestManager(t, &fakeAuth{})
		_, err := m.Start(ctx, "u1", 99)
		assert.Error(t, err)
	})

	t.Run("ReusesLiveWizardForSameCourt", func(t *testing.T) {
		m, _ := newTestManager(t, &fakeAuth{})
		w1, err := m.Start(ctx, "u1", 1)
		require.NoError(t, err)
		w2, err := m.Start(ctx, "u1", 1)
		require.NoError(t, err)
		assert.Same(t, w1, w2)
	})

	t.Run("SeparateWizardPerUser", func(t *testing.T) {
		m, _ := newTestManager(t, &fakeAuth{})
		w1, err := m.Start(ctx, "u1", 1)
		require.NoError(t, err)
		w2, err := m.Start(ctx, "u2", 1)
		require.NoError(t, err)
		assert.NotSame(t, w1, w2)
	})

	t.Run("RestoresPersistedDraft", func(t *testing.T) {
		m, drafts := newTestManager(t, &fakeAuth{})
		require.NoError(t, drafts.SetDraft(ctx, "u1", &models.BookingDraft{
			Step:     models.StepEquipment,
			Date:     testNow.AddDate(0, 0, 2),
			TimeSlot: "10:00 AM - 11:00 AM",
			Duration: 1,
		}))

		w, err := m.Start(ctx, "u1", 1)
		require.NoError(t, err)
		assert.Equal(t, models.StepEquipment, w.Step())
		assert.Equal(t, "10:00 AM - 11:00 AM", w.Draft().TimeSlot)
	})
}

func TestManagerGet(t *testing.T) {
	ctx := context.Background()

	t.Run("NoWizard", func(t *testing.T) {
		m, _ := newTestManager(t, &fakeAuth{})
		_, ok := m.Get("u1")
		assert.False(t, ok)
	})

	t.Run("LiveWizard", func(t *testing.T) {
		m, _ := newTestManager(t, &fakeAuth{})
		started, err := m.Start(ctx, "u1", 1)
		require.NoError(t, err)

		got, ok := m.Get("u1")
		require.True(t, ok)
		assert.Same(t, started, got)
	})

	t.Run("FinishedWizardHidden", func(t *testing.T) {
		m, _ := newTestManager(t, &fakeAuth{})
		w, err := m.Start(ctx, "u1", 1)
		require.NoError(t, err)
		w.Cancel()

		_, ok := m.Get("u1")
		assert.False(t, ok)
	})
}

func TestManagerDraftLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("MutationsPersistDraft", func(t *testing.T) {
		m, drafts := newTestManager(t, &fakeAuth{})
		w, err := m.Start(ctx, "u1", 1)
		require.NoError(t, err)
		w.SetNow(func() time.Time { return testNow })

		require.NoError(t, w.SelectDate(testNow.AddDate(0, 0, 2)))
		require.NoError(t, w.SelectSlot("10:00 AM - 11:00 AM"))

		saved, err := drafts.GetDraft(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "10:00 AM - 11:00 AM", saved.TimeSlot)
	})

	t.Run("CancelClearsDraft", func(t *testing.T) {
		m, drafts := newTestManager(t, &fakeAuth{})
		w, err := m.Start(ctx, "u1", 1)
		require.NoError(t, err)
		w.SetNow(func() time.Time { return testNow })
		require.NoError(t, w.SelectDate(testNow.AddDate(0, 0, 2)))

		w.Cancel()

		saved, err := drafts.GetDraft(ctx, "u1")
		require.NoError(t, err)
		assert.Nil(t, saved)
	})

	t.Run("SubmitClearsDraft", func(t *testing.T) {
		auth := &fakeAuth{authed: true, id: "user-42"}
		m, drafts := newTestManager(t, auth)
		w, err := m.Start(ctx, "u1", 1)
		require.NoError(t, err)
		w.SetNow(func() time.Time { return testNow })

		require.NoError(t, w.SelectDate(testNow.AddDate(0, 0, 2)))
		require.NoError(t, w.SelectSlot("10:00 AM - 11:00 AM"))
		require.NoError(t, w.Next())
		require.NoError(t, w.Next())
		require.NoError(t, w.SetPaymentMethod("manual"))
		require.NoError(t, w.Next())

		_, err = w.Submit(ctx)
		require.NoError(t, err)

		saved, err := drafts.GetDraft(ctx, "u1")
		require.NoError(t, err)
		assert.Nil(t, saved)

		_, ok := m.Get("u1")
		assert.False(t, ok, "wizard dropped after submit")
	})
}
