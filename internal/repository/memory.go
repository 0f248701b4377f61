package repository

import (
	"context"
	"sync"

	"playeasy/internal/models"
)

// MemoryDraftRepository keeps wizard drafts in process memory.
type MemoryDraftRepository struct {
	drafts sync.Map
}

func NewMemoryDraftRepository() *MemoryDraftRepository {
	return &MemoryDraftRepository{}
}

func (r *MemoryDraftRepository) GetDraft(ctx context.Context, userID string) (*models.BookingDraft, error) {
	val, ok := r.drafts.Load(userID)
	if !ok {
		return nil, nil
	}
	draft := *(val.(*models.BookingDraft))
	return &draft, nil
}

func (r *MemoryDraftRepository) SetDraft(ctx context.Context, userID string, draft *models.BookingDraft) error {
	copied := *draft
	copied.Equipment = append([]models.EquipmentLine(nil), draft.Equipment...)
	r.drafts.Store(userID, &copied)
	return nil
}

func (r *MemoryDraftRepository) ClearDraft(ctx context.Context, userID string) error {
	r.drafts.Delete(userID)
	return nil
}

// MemoryPersistence is an in-process PersistenceAdapter, used as the
// failover fallback and in tests.
type MemoryPersistence struct {
	bookings sync.Map
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

func (p *MemoryPersistence) LoadBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	val, ok := p.bookings.Load(userID)
	if !ok {
		return nil, nil
	}
	stored := val.([]models.Booking)
	return append([]models.Booking(nil), stored...), nil
}

func (p *MemoryPersistence) SaveBookings(ctx context.Context, userID string, bookings []models.Booking) error {
	p.bookings.Store(userID, append([]models.Booking(nil), bookings...))
	return nil
}
