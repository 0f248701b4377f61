package repository

import (
	"context"
	"sync/atomic"
	"time"

	"playeasy/internal/domain"
	"playeasy/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverPersistence writes through a primary adapter (typically Redis or
// SQLite) and degrades to a fallback when the primary errors. The primary
// is retried after a cooldown; until then all traffic goes to the fallback.
type FailoverPersistence struct {
	primary  domain.PersistenceAdapter
	fallback domain.PersistenceAdapter
	logger   *zerolog.Logger
	isDown   atomic.Bool
	lastTry  atomic.Int64
}

func NewFailoverPersistence(primary, fallback domain.PersistenceAdapter, logger *zerolog.Logger) *FailoverPersistence {
	return &FailoverPersistence{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (p *FailoverPersistence) LoadBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	if p.primaryUsable() {
		bookings, err := p.primary.LoadBookings(ctx, userID)
		if err == nil {
			p.markUp()
			return bookings, nil
		}
		p.markDown(err)
	}

	return p.fallback.LoadBookings(ctx, userID)
}

func (p *FailoverPersistence) SaveBookings(ctx context.Context, userID string, bookings []models.Booking) error {
	if p.primaryUsable() {
		err := p.primary.SaveBookings(ctx, userID, bookings)
		if err == nil {
			p.markUp()
			return nil
		}
		p.markDown(err)
	}

	return p.fallback.SaveBookings(ctx, userID, bookings)
}

func (p *FailoverPersistence) primaryUsable() bool {
	if !p.isDown.Load() {
		return true
	}
	// Retry the primary after a cooldown.
	return time.Since(time.Unix(0, p.lastTry.Load())) > recoveryInterval
}

func (p *FailoverPersistence) markDown(err error) {
	p.logger.Error().Err(err).Msg("primary persistence failed, falling back")
	p.isDown.Store(true)
	p.lastTry.Store(time.Now().UnixNano())
}

func (p *FailoverPersistence) markUp() {
	if p.isDown.Load() {
		p.logger.Info().Msg("primary persistence recovered")
		p.isDown.Store(false)
	}
}
