package wizard

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"playeasy/internal/config"
	"playeasy/internal/domain"
	"playeasy/internal/models"
	"playeasy/internal/pricing"
	"playeasy/internal/schedule"
	"playeasy/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SlotStatus pairs a generated slot with its availability for the chosen date.
type SlotStatus struct {
	Slot   models.TimeSlot `json:"slot"`
	Booked bool            `json:"booked"`
}

// Wizard drives the 4-step booking flow for one user and one court:
// Date&Time -> Equipment -> Payment -> Confirm. Gate violations return a
// *ValidationError and leave the step unchanged. Terminal outcomes are a
// submitted booking handed to the store, or a cancel that discards the draft.
// Safe for concurrent use: requests sharing one session key hit the same
// wizard.
type Wizard struct {
	mu     sync.Mutex
	userID string
	court  models.Court
	draft  *models.BookingDraft

	cfg      config.BookingConfig
	oracle   domain.AvailabilityOracle
	catalog  domain.Catalog
	auth     domain.AuthProvider
	sink     domain.NotificationSink
	bookings *store.BookingStore
	logger   *zerolog.Logger

	now        func() time.Time
	onChange   func(draft *models.BookingDraft, finished bool)
	submitting atomic.Bool
	finished   bool
}

func New(userID string, court models.Court, cfg config.BookingConfig, oracle domain.AvailabilityOracle, catalog domain.Catalog, auth domain.AuthProvider, sink domain.NotificationSink, bookings *store.BookingStore, logger *zerolog.Logger) *Wizard {
	return &Wizard{
		userID:   userID,
		court:    court,
		draft:    models.NewBookingDraft(),
		cfg:      cfg,
		oracle:   oracle,
		catalog:  catalog,
		auth:     auth,
		sink:     sink,
		bookings: bookings,
		logger:   logger,
		now:      time.Now,
	}
}

// SetNow overrides the clock, for tests.
func (w *Wizard) SetNow(now func() time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.now = now
}

// SetOnChange registers a callback invoked after every draft mutation, used
// to persist the draft between requests. The callback runs with the wizard
// lock held and must not call back into the wizard.
func (w *Wizard) SetOnChange(fn func(draft *models.BookingDraft, finished bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// RestoreDraft replaces the draft with a previously persisted one.
func (w *Wizard) RestoreDraft(draft *models.BookingDraft) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if draft == nil || w.finished {
		return
	}
	if draft.Step < models.StepDateTime || draft.Step > models.StepConfirm {
		draft.Step = models.StepDateTime
	}
	if draft.Duration < w.cfg.MinDuration || draft.Duration > w.cfg.MaxDuration {
		draft.Duration = w.cfg.MinDuration
	}
	w.draft = draft
}

// Step returns the current step, 1..4.
func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.Step
}

// Finished reports whether the wizard reached a terminal outcome.
func (w *Wizard) Finished() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finished
}

// Court returns the court being booked. Immutable after construction.
func (w *Wizard) Court() models.Court { return w.court }

// Draft returns a snapshot of the current draft state.
func (w *Wizard) Draft() models.BookingDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draftCopyLocked()
}

func (w *Wizard) draftCopyLocked() models.BookingDraft {
	d := *w.draft
	d.Equipment = append([]models.EquipmentLine(nil), w.draft.Equipment...)
	return d
}

// Slots lists the candidate slots for the current duration, marking the ones
// the oracle reports booked for the selected date. With no date chosen every
// slot is shown open; callers must distinguish an empty list (duration does
// not fit the operating window) from "date not yet chosen".
func (w *Wizard) Slots() []SlotStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	candidates := schedule.GenerateSlots(w.draft.Duration, w.cfg.OpenHour, w.cfg.CloseHour)
	if len(candidates) == 0 {
		return nil
	}

	booked := make(map[string]bool)
	if w.draft.HasDate() {
		for _, slot := range w.oracle.BookedSlots(w.draft.Date, candidates) {
			booked[slot.Label()] = true
		}
	}

	out := make([]SlotStatus, 0, len(candidates))
	for _, slot := range candidates {
		out = append(out, SlotStatus{Slot: slot, Booked: booked[slot.Label()]})
	}
	return out
}

// Price recomputes the breakdown for the current draft.
func (w *Wizard) Price() models.PriceBreakdown {
	w.mu.Lock()
	defer w.mu.Unlock()
	return pricing.Price(w.court.RatePerHour, w.draft.Duration, w.draft.Equipment)
}

// SelectDate picks the booking date. Past dates are rejected; a date change
// drops a previously selected slot that the oracle marks booked on the new date.
func (w *Wizard) SelectDate(date time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.finished {
		return ErrWizardFinished
	}

	today := truncateToDay(w.now())
	if truncateToDay(date).Before(today) {
		return &ValidationError{Field: "date", Reason: "date is in the past"}
	}

	w.draft.Date = date
	if w.draft.TimeSlot != "" && w.slotBooked(w.draft.TimeSlot) {
		w.draft.TimeSlot = ""
	}
	w.changed()
	return nil
}

// SelectSlot picks a time slot by its label.
func (w *Wizard) SelectSlot(label string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.finished {
		return ErrWizardFinished
	}

	candidates := schedule.GenerateSlots(w.draft.Duration, w.cfg.OpenHour, w.cfg.CloseHour)
	if !schedule.ContainsSlot(candidates, label) {
		return &ValidationError{Field: "time_slot", Reason: "unknown time slot"}
	}
	if w.draft.HasDate() && w.slotBooked(label) {
		return ErrSlotUnavailable
	}

	w.draft.TimeSlot = label
	w.changed()
	return nil
}

// SetDuration changes the slot length. When the previously selected slot is
// not part of the regenerated slot list, the selection is cleared rather
// than kept stale against the new list.
func (w *Wizard) SetDuration(hours int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.finished {
		return ErrWizardFinished
	}
	if hours < w.cfg.MinDuration || hours > w.cfg.MaxDuration {
		return &ValidationError{Field: "duration", Reason: fmt.Sprintf("duration must be %d..%d hours", w.cfg.MinDuration, w.cfg.MaxDuration)}
	}

	w.draft.Duration = hours
	if w.draft.TimeSlot != "" {
		candidates := schedule.GenerateSlots(hours, w.cfg.OpenHour, w.cfg.CloseHour)
		if !schedule.ContainsSlot(candidates, w.draft.TimeSlot) {
			w.draft.TimeSlot = ""
		}
	}
	w.changed()
	return nil
}

// SetEquipment sets the rented quantity for a catalog item. Quantity zero
// removes the line; lines are snapshots of catalog name and price.
func (w *Wizard) SetEquipment(itemID int64, quantity int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.finished {
		return ErrWizardFinished
	}

	item, ok := w.catalog.EquipmentItem(itemID)
	if !ok {
		return &ValidationError{Field: "equipment", Reason: fmt.Sprintf("unknown equipment item %d", itemID)}
	}
	if quantity < 0 {
		return &ValidationError{Field: "equipment", Reason: "quantity must not be negative"}
	}
	if quantity > item.Stock {
		return &ValidationError{Field: "equipment", Reason: fmt.Sprintf("only %d of %s in stock", item.Stock, item.Name)}
	}

	lines := make([]models.EquipmentLine, 0, len(w.draft.Equipment)+1)
	for _, line := range w.draft.Equipment {
		if line.ItemID != itemID {
			lines = append(lines, line)
		}
	}
	if quantity > 0 {
		lines = append(lines, models.EquipmentLine{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  quantity,
			MaxStock:  item.Stock,
		})
	}
	w.draft.Equipment = lines
	w.changed()
	return nil
}

// SetPaymentMethod picks one of the configured payment options.
func (w *Wizard) SetPaymentMethod(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.finished {
		return ErrWizardFinished
	}
	if _, ok := w.catalog.PaymentMethod(id); !ok {
		return &ValidationError{Field: "payment_method", Reason: "unknown payment method"}
	}

	w.draft.PaymentMethod = id
	w.changed()
	return nil
}

// Next advances one step, enforcing the gate of the current step.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.finished {
		return ErrWizardFinished
	}

	switch w.draft.Step {
	case models.StepDateTime:
		if !w.draft.HasDate() {
			return &ValidationError{Field: "date", Reason: "select a date first"}
		}
		if w.draft.TimeSlot == "" {
			return &ValidationError{Field: "time_slot", Reason: "select a time slot first"}
		}
	case models.StepEquipment:
		// equipment is optional, no gate
	case models.StepPayment:
		if w.draft.PaymentMethod == "" {
			return &ValidationError{Field: "payment_method", Reason: "select a payment method first"}
		}
	case models.StepConfirm:
		return &ValidationError{Field: "step", Reason: "already at confirmation, submit instead"}
	}

	w.draft.Step++
	w.changed()
	return nil
}

// Previous moves back one step. It is distinct from Cancel: only the first
// step's back action terminates the flow, and that mapping belongs to the
// caller.
func (w *Wizard) Previous() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.finished {
		return ErrWizardFinished
	}
	if w.draft.Step == models.StepDateTime {
		return &ValidationError{Field: "step", Reason: "already at first step"}
	}

	w.draft.Step--
	w.changed()
	return nil
}

// Cancel discards the draft. Allowed at any step, even while a submission
// is pending. No booking side effects.
func (w *Wizard) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.finished {
		return
	}
	w.finished = true
	w.draft = models.NewBookingDraft()
	w.notify("Booking Cancelled", fmt.Sprintf("Your booking flow for %s was cancelled.", w.court.Name), models.KindInfo)
	w.changed()
}

// Submit finalizes the draft into a confirmed booking. Gated on the
// confirmation step and on authentication; at most one submission may be in
// flight per draft. On ErrAuthRequired all draft fields stay untouched so
// the flow can resume once the caller signs the user in.
func (w *Wizard) Submit(ctx context.Context) (*models.Booking, error) {
	w.mu.Lock()
	if w.finished {
		w.mu.Unlock()
		return nil, ErrWizardFinished
	}
	if w.draft.Step != models.StepConfirm {
		w.mu.Unlock()
		return nil, &ValidationError{Field: "step", Reason: "complete all steps before submitting"}
	}
	if !w.submitting.CompareAndSwap(false, true) {
		w.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	draft := w.draftCopyLocked()
	now := w.now
	w.mu.Unlock()
	defer w.submitting.Store(false)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !w.auth.IsAuthenticated() {
		return nil, ErrAuthRequired
	}

	// The session key owns the collection; the authenticated identity is
	// recorded on the booking itself.
	ownerID := w.userID
	if id, ok := w.auth.CurrentUserID(); ok {
		ownerID = id
	}

	breakdown := pricing.Price(w.court.RatePerHour, draft.Duration, draft.Equipment)
	booking := models.Booking{
		ID:            uuid.NewString(),
		UserID:        ownerID,
		CourtID:       w.court.ID,
		CourtName:     w.court.Name,
		CourtType:     w.court.Type,
		Date:          draft.Date,
		Time:          draft.TimeSlot,
		Duration:      draft.Duration,
		Equipment:     draft.Equipment,
		PaymentMethod: draft.PaymentMethod,
		TotalAmount:   pricing.Round2(breakdown.Total),
		Status:        models.StatusConfirmed,
		CreatedAt:     now(),
	}

	w.bookings.Add(w.userID, booking)
	w.logger.Info().Str("booking_id", booking.ID).Str("user_id", w.userID).Int64("court_id", w.court.ID).Msg("booking submitted")

	w.mu.Lock()
	defer w.mu.Unlock()
	w.finished = true
	w.draft = models.NewBookingDraft()
	w.notify("Booking Confirmed", fmt.Sprintf("Your booking for %s on %s at %s is confirmed.", booking.CourtName, booking.Date.Format("Jan 2, 2006"), booking.Time), models.KindSuccess)
	w.changed()

	return &booking, nil
}

func (w *Wizard) slotBooked(label string) bool {
	candidates := schedule.GenerateSlots(w.draft.Duration, w.cfg.OpenHour, w.cfg.CloseHour)
	for _, slot := range w.oracle.BookedSlots(w.draft.Date, candidates) {
		if slot.Label() == label {
			return true
		}
	}
	return false
}

func (w *Wizard) notify(title, message, kind string) {
	if w.sink == nil {
		return
	}
	w.sink.Notify(title, message, kind)
}

func (w *Wizard) changed() {
	if w.onChange == nil {
		return
	}
	w.onChange(w.draft, w.finished)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
