package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"playeasy/internal/domain"
	"playeasy/internal/events"
	"playeasy/internal/models"

	"github.com/rs/zerolog"
)

// BookingStore owns each user's booking collection for the session. The
// in-memory copy is the source of truth; the persistence adapter behind the
// save scheduler is a best-effort cache. Mutations swap in a fresh slice so
// concurrent readers observe either the pre- or post-mutation state.
type BookingStore struct {
	mu       sync.RWMutex
	bookings map[string][]models.Booking
	loaded   map[string]bool

	persistence domain.PersistenceAdapter
	saver       domain.SaveScheduler
	eventBus    domain.EventPublisher
	seed        func(now time.Time) []models.Booking
	now         func() time.Time
	logger      *zerolog.Logger
}

func NewBookingStore(persistence domain.PersistenceAdapter, saver domain.SaveScheduler, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingStore {
	return &BookingStore{
		bookings:    make(map[string][]models.Booking),
		loaded:      make(map[string]bool),
		persistence: persistence,
		saver:       saver,
		eventBus:    eventBus,
		now:         time.Now,
		logger:      logger,
	}
}

// SetNow overrides the clock, for tests.
func (s *BookingStore) SetNow(now func() time.Time) {
	s.now = now
}

// SetSeed installs demo data for sessions with no persisted bookings.
func (s *BookingStore) SetSeed(seed func(now time.Time) []models.Booking) {
	s.seed = seed
}

// SetSaver attaches the save scheduler. The worker snapshots the store, so
// the two are constructed in sequence and wired here.
func (s *BookingStore) SetSaver(saver domain.SaveScheduler) {
	s.saver = saver
}

// EnsureSession pulls the user's persisted bookings into memory once per
// session. Read failures degrade to an empty session rather than surfacing
// an error; a first-ever session gets the demo seed when one is installed.
func (s *BookingStore) EnsureSession(ctx context.Context, userID string) {
	s.mu.Lock()
	if s.loaded[userID] {
		s.mu.Unlock()
		return
	}
	s.loaded[userID] = true
	s.mu.Unlock()

	var loaded []models.Booking
	if s.persistence != nil {
		var err error
		loaded, err = s.persistence.LoadBookings(ctx, userID)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("load bookings failed, starting empty session")
			loaded = nil
		}
	}

	// Mutations may have landed while the load ran; they stay ahead of the
	// loaded history instead of being replaced by it, and a session that
	// already has bookings never gets the seed.
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.bookings[userID]; len(existing) > 0 {
		s.bookings[userID] = append(existing, loaded...)
		return
	}
	if len(loaded) == 0 && s.seed != nil {
		loaded = s.seed(s.now())
		s.scheduleSave(userID)
	}
	s.bookings[userID] = loaded
}

// Add appends a finalized booking and schedules a persistence save.
func (s *BookingStore) Add(userID string, booking models.Booking) {
	s.mu.Lock()
	current := s.bookings[userID]
	next := make([]models.Booking, 0, len(current)+1)
	next = append(next, booking)
	next = append(next, current...)
	s.bookings[userID] = next
	s.mu.Unlock()

	s.publish(events.EventBookingCreated, userID, booking)
	s.scheduleSave(userID)
}

// Cancel marks a booking cancelled. Idempotent: cancelling an already
// cancelled booking is a no-op. Returns false when the id is unknown.
func (s *BookingStore) Cancel(userID, bookingID string) bool {
	var cancelled *models.Booking

	s.mu.Lock()
	current := s.bookings[userID]
	next := make([]models.Booking, len(current))
	copy(next, current)
	found := false
	for i := range next {
		if next[i].ID != bookingID {
			continue
		}
		found = true
		if next[i].Status != models.StatusCancelled {
			next[i].Status = models.StatusCancelled
			c := next[i]
			cancelled = &c
		}
		break
	}
	if found {
		s.bookings[userID] = next
	}
	s.mu.Unlock()

	if !found {
		return false
	}
	if cancelled != nil {
		s.publish(events.EventBookingCancelled, userID, *cancelled)
		s.scheduleSave(userID)
	}
	return true
}

// All returns every booking of the user, newest first.
func (s *BookingStore) All(userID string) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Booking(nil), s.bookings[userID]...)
}

// Get looks a booking up by id.
func (s *BookingStore) Get(userID, bookingID string) (*models.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings[userID] {
		if b.ID == bookingID {
			c := b
			return &c, true
		}
	}
	return nil, false
}

// ByStatus filters the user's bookings by status.
func (s *BookingStore) ByStatus(userID, status string) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Booking
	for _, b := range s.bookings[userID] {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

// Upcoming returns future, non-cancelled bookings ordered by date ascending.
func (s *BookingStore) Upcoming(userID string) []models.Booking {
	now := s.now()

	s.mu.RLock()
	var out []models.Booking
	for _, b := range s.bookings[userID] {
		if b.Date.After(now) && b.Status != models.StatusCancelled {
			out = append(out, b)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Past returns history ordered by date descending. Cancelled bookings land
// here regardless of date: once cancelled they are never actionable again,
// so they belong with history even when their date is still in the future.
func (s *BookingStore) Past(userID string) []models.Booking {
	now := s.now()

	s.mu.RLock()
	var out []models.Booking
	for _, b := range s.bookings[userID] {
		if b.Date.Before(now) || b.Status == models.StatusCancelled {
			out = append(out, b)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (s *BookingStore) publish(eventType, userID string, booking models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:     booking.ID,
		UserID:        userID,
		CourtID:       booking.CourtID,
		CourtName:     booking.CourtName,
		Date:          booking.Date,
		Time:          booking.Time,
		Status:        booking.Status,
		TotalAmount:   booking.TotalAmount,
		PaymentMethod: booking.PaymentMethod,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingStore) scheduleSave(userID string) {
	if s.saver == nil {
		return
	}
	s.saver.EnqueueSave(userID)
}

// Snapshot returns the user's collection for the persistence worker.
func (s *BookingStore) Snapshot(userID string) []models.Booking {
	return s.All(userID)
}
