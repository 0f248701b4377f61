package worker

import (
	"context"
	"time"

	"playeasy/internal/domain"
	"playeasy/internal/models"

	"github.com/rs/zerolog"
)

// Snapshotter hands the worker a consistent copy of a user's bookings.
type Snapshotter interface {
	Snapshot(userID string) []models.Booking
}

// SaveWorker flushes booking snapshots to the persistence adapter off the
// request path. Saves are best effort: a write that exhausts its retries is
// logged and dropped, the in-memory store stays authoritative.
type SaveWorker struct {
	snapshots   Snapshotter
	persistence domain.PersistenceAdapter
	queue       chan string
	retry       RetryPolicy
	logger      *zerolog.Logger
}

func NewSaveWorker(snapshots Snapshotter, persistence domain.PersistenceAdapter, retry RetryPolicy, logger *zerolog.Logger) *SaveWorker {
	return &SaveWorker{
		snapshots:   snapshots,
		persistence: persistence,
		queue:       make(chan string, models.WorkerQueueSize),
		retry:       retry,
		logger:      logger,
	}
}

// EnqueueSave schedules a save for the user without blocking the caller.
// A full queue drops the request; the next mutation re-enqueues anyway.
func (w *SaveWorker) EnqueueSave(userID string) {
	select {
	case w.queue <- userID:
	default:
		w.logger.Warn().Str("user_id", userID).Msg("save queue full, dropping request")
	}
}

// Start consumes the queue until the context is cancelled.
func (w *SaveWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("save worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("save worker stopped")
			return
		case userID := <-w.queue:
			w.drainDuplicates(userID)
			w.process(ctx, userID)
		}
	}
}

// drainDuplicates collapses queued saves for the same user into one write.
func (w *SaveWorker) drainDuplicates(userID string) {
	for {
		select {
		case next := <-w.queue:
			if next != userID {
				// Different user, put it back in line.
				w.EnqueueSave(next)
				return
			}
		default:
			return
		}
	}
}

func (w *SaveWorker) process(ctx context.Context, userID string) {
	snapshot := w.snapshots.Snapshot(userID)

	var err error
	for attempt := 1; attempt <= w.retry.MaxRetries; attempt++ {
		err = w.persistence.SaveBookings(ctx, userID, snapshot)
		if err == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}

		delay := w.retry.NextDelay(attempt)
		w.logger.Warn().Err(err).Str("user_id", userID).Int("attempt", attempt).Dur("retry_in", delay).Msg("save bookings failed")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}

	w.logger.Error().Err(err).Str("user_id", userID).Msg("save bookings dropped after retries")
}
