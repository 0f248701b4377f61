package domain

import (
	"context"
	"time"

	"playeasy/internal/models"
)

// AvailabilityOracle answers which of the candidate slots are already taken
// on a given date. Implementations must be pure functions of their inputs:
// same date and candidates always yield the same subset, no mutation.
type AvailabilityOracle interface {
	BookedSlots(date time.Time, candidates []models.TimeSlot) []models.TimeSlot
}

// AuthProvider is consulted synchronously at the final submission gate.
type AuthProvider interface {
	IsAuthenticated() bool
	CurrentUserID() (string, bool)
}

// NotificationSink receives fire-and-forget user notifications.
type NotificationSink interface {
	Notify(title, message, kind string)
}

// PersistenceAdapter caches bookings across sessions. It is best effort:
// the in-memory store stays the source of truth, failures are logged by the
// caller and never block the flow.
type PersistenceAdapter interface {
	LoadBookings(ctx context.Context, userID string) ([]models.Booking, error)
	SaveBookings(ctx context.Context, userID string, bookings []models.Booking) error
}

// SaveScheduler decouples store mutations from persistence writes. Enqueue
// must not block; the worker behind it retries failed saves.
type SaveScheduler interface {
	EnqueueSave(userID string)
}

// Catalog supplies read-only court, equipment and payment data.
type Catalog interface {
	Court(id int64) (*models.Court, bool)
	Courts() []models.Court
	EquipmentItem(id int64) (*models.EquipmentItem, bool)
	Equipment() []models.EquipmentItem
	PaymentMethod(id string) (*models.PaymentMethod, bool)
	PaymentMethods() []models.PaymentMethod
}

// DraftRepository persists in-progress wizard drafts keyed by user.
type DraftRepository interface {
	GetDraft(ctx context.Context, userID string) (*models.BookingDraft, error)
	SetDraft(ctx context.Context, userID string, draft *models.BookingDraft) error
	ClearDraft(ctx context.Context, userID string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
