package wizard

import (
	"context"
	"fmt"
	"sync"

	"playeasy/internal/config"
	"playeasy/internal/domain"
	"playeasy/internal/models"
	"playeasy/internal/store"

	"github.com/rs/zerolog"
)

// Manager hands out one wizard per user and keeps the in-progress draft in
// the draft repository so a flow survives reconnects. Draft persistence is
// best effort: repository errors are logged and never block the flow.
type Manager struct {
	wizards sync.Map // userID -> *Wizard

	cfg     config.BookingConfig
	oracle  domain.AvailabilityOracle
	catalog domain.Catalog
	auth    domain.AuthProvider
	sink    domain.NotificationSink
	drafts  domain.DraftRepository
	store   *store.BookingStore
	logger  *zerolog.Logger
}

func NewManager(cfg config.BookingConfig, oracle domain.AvailabilityOracle, catalog domain.Catalog, auth domain.AuthProvider, sink domain.NotificationSink, drafts domain.DraftRepository, bookings *store.BookingStore, logger *zerolog.Logger) *Manager {
	return &Manager{
		cfg:     cfg,
		oracle:  oracle,
		catalog: catalog,
		auth:    auth,
		sink:    sink,
		drafts:  drafts,
		store:   bookings,
		logger:  logger,
	}
}

// Start returns the user's active wizard for the court, creating one and
// restoring any persisted draft when none is live yet. Starting a flow for
// a different court abandons the old one.
func (m *Manager) Start(ctx context.Context, userID string, courtID int64) (*Wizard, error) {
	court, ok := m.catalog.Court(courtID)
	if !ok {
		return nil, fmt.Errorf("unknown court %d", courtID)
	}

	if val, loaded := m.wizards.Load(userID); loaded {
		w := val.(*Wizard)
		if !w.Finished() && w.Court().ID == courtID {
			return w, nil
		}
	}

	w := New(userID, *court, m.cfg, m.oracle, m.catalog, m.auth, m.sink, m.store, m.logger)
	if m.drafts != nil {
		if draft, err := m.drafts.GetDraft(ctx, userID); err != nil {
			m.logger.Error().Err(err).Str("user_id", userID).Msg("restore draft failed")
		} else if draft != nil {
			w.RestoreDraft(draft)
		}
	}
	w.SetOnChange(func(draft *models.BookingDraft, finished bool) { m.persist(userID, draft, finished) })

	m.wizards.Store(userID, w)
	return w, nil
}

// Get returns the user's live wizard, if any.
func (m *Manager) Get(userID string) (*Wizard, bool) {
	val, ok := m.wizards.Load(userID)
	if !ok {
		return nil, false
	}
	w := val.(*Wizard)
	if w.Finished() {
		return nil, false
	}
	return w, true
}

// Drop forgets the user's wizard without touching booking state.
func (m *Manager) Drop(userID string) {
	m.wizards.Delete(userID)
}

// persist runs inside the wizard's draft mutation path, so it gets the
// finished flag as an argument instead of asking the wizard back.
func (m *Manager) persist(userID string, draft *models.BookingDraft, finished bool) {
	if m.drafts == nil {
		return
	}

	ctx := context.Background()
	if finished {
		if err := m.drafts.ClearDraft(ctx, userID); err != nil {
			m.logger.Error().Err(err).Str("user_id", userID).Msg("clear draft failed")
		}
		m.wizards.Delete(userID)
		return
	}

	if err := m.drafts.SetDraft(ctx, userID, draft); err != nil {
		m.logger.Error().Err(err).Str("user_id", userID).Msg("persist draft failed")
	}
}
