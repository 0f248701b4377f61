package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"playeasy/internal/export"
	"playeasy/internal/metrics"
	"playeasy/internal/models"
	"playeasy/internal/schedule"
	"playeasy/internal/wizard"
)

func (s *HTTPServer) handleCourts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"courts": s.catalog.Courts()})
}

func (s *HTTPServer) handleEquipment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"equipment":  s.catalog.Equipment(),
		"categories": s.catalog.Categories(),
	})
}

func (s *HTTPServer) handlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payment_methods": s.catalog.PaymentMethods()})
}

// handleSlots answers slot availability outside any wizard: duration is
// required, date optional. Without a date every generated slot is open.
func (s *HTTPServer) handleSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	duration := 1
	if raw := strings.TrimSpace(r.URL.Query().Get("duration")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < s.booking.MinDuration || parsed > s.booking.MaxDuration {
			writeError(w, http.StatusBadRequest, "invalid duration")
			return
		}
		duration = parsed
	}

	candidates := schedule.GenerateSlots(duration, s.booking.OpenHour, s.booking.CloseHour)
	booked := make(map[string]bool)

	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
		for _, slot := range s.oracle.BookedSlots(date, candidates) {
			booked[slot.Label()] = true
		}
	}

	out := make([]wizard.SlotStatus, 0, len(candidates))
	for _, slot := range candidates {
		out = append(out, wizard.SlotStatus{Slot: slot, Booked: booked[slot.Label()]})
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": out})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, ok := s.provider.Login(req.Email, req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	s.bookings.EnsureSession(r.Context(), s.sessionKey(r))
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, ok := s.provider.Register(req.Email, req.Password, req.FullName, req.Phone)
	if !ok {
		writeError(w, http.StatusBadRequest, "email, password and full name are required")
		return
	}

	s.bookings.EnsureSession(r.Context(), s.sessionKey(r))
	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.provider.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *HTTPServer) handleMe(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		user, ok := s.provider.CurrentUser()
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": user})
	case http.MethodPatch:
		var req struct {
			FullName string `json:"full_name"`
			Phone    string `json:"phone"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !s.provider.UpdateProfile(req.FullName, req.Phone) {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		user, _ := s.provider.CurrentUser()
		writeJSON(w, http.StatusOK, map[string]any{"user": user})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleWizardStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		CourtID int64 `json:"court_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session := s.sessionKey(r)
	s.bookings.EnsureSession(r.Context(), session)

	wz, err := s.wizards.Start(r.Context(), session, req.CourtID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	s.writeWizardState(w, http.StatusCreated, wz)
}

func (s *HTTPServer) handleWizardState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	wz, ok := s.wizards.Get(s.sessionKey(r))
	if !ok {
		writeError(w, http.StatusNotFound, "no active booking flow")
		return
	}
	s.writeWizardState(w, http.StatusOK, wz)
}

func (s *HTTPServer) handleWizardDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	wz, ok := s.wizardMutation(w, r, &req)
	if !ok {
		return
	}

	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(req.Date), time.Local)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}
	if err := wz.SelectDate(date); err != nil {
		s.writeWizardError(w, err)
		return
	}
	s.writeWizardState(w, http.StatusOK, wz)
}

func (s *HTTPServer) handleWizardSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slot string `json:"slot"`
	}
	wz, ok := s.wizardMutation(w, r, &req)
	if !ok {
		return
	}

	if err := wz.SelectSlot(strings.TrimSpace(req.Slot)); err != nil {
		s.writeWizardError(w, err)
		return
	}
	s.writeWizardState(w, http.StatusOK, wz)
}

func (s *HTTPServer) handleWizardDuration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hours int `json:"hours"`
	}
	wz, ok := s.wizardMutation(w, r, &req)
	if !ok {
		return
	}

	if err := wz.SetDuration(req.Hours); err != nil {
		s.writeWizardError(w, err)
		return
	}
	s.writeWizardState(w, http.StatusOK, wz)
}

func (s *HTTPServer) handleWizardEquipment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID   int64 `json:"item_id"`
		Quantity int   `json:"quantity"`
	}
	wz, ok := s.wizardMutation(w, r, &req)
	if !ok {
		return
	}

	if err := wz.SetEquipment(req.ItemID, req.Quantity); err != nil {
		s.writeWizardError(w, err)
		return
	}
	s.writeWizardState(w, http.StatusOK, wz)
}

func (s *HTTPServer) handleWizardPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
	}
	wz, ok := s.wizardMutation(w, r, &req)
	if !ok {
		return
	}

	if err := wz.SetPaymentMethod(strings.TrimSpace(req.Method)); err != nil {
		s.writeWizardError(w, err)
		return
	}
	s.writeWizardState(w, http.StatusOK, wz)
}

func (s *HTTPServer) handleWizardNext(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.wizardAction(w, r)
	if !ok {
		return
	}
	if err := wz.Next(); err != nil {
		s.writeWizardError(w, err)
		return
	}
	s.writeWizardState(w, http.StatusOK, wz)
}

func (s *HTTPServer) handleWizardPrevious(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.wizardAction(w, r)
	if !ok {
		return
	}
	if err := wz.Previous(); err != nil {
		s.writeWizardError(w, err)
		return
	}
	s.writeWizardState(w, http.StatusOK, wz)
}

func (s *HTTPServer) handleWizardCancel(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.wizardAction(w, r)
	if !ok {
		return
	}
	wz.Cancel()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *HTTPServer) handleWizardSubmit(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.wizardAction(w, r)
	if !ok {
		return
	}

	booking, err := wz.Submit(r.Context())
	if err != nil {
		s.writeWizardError(w, err)
		return
	}

	metrics.IncBookingCreated()
	writeJSON(w, http.StatusCreated, map[string]any{"booking": booking})
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session := s.sessionKey(r)
	s.bookings.EnsureSession(r.Context(), session)

	var list []models.Booking
	switch view := strings.TrimSpace(r.URL.Query().Get("view")); view {
	case "upcoming":
		list = s.bookings.Upcoming(session)
	case "past":
		list = s.bookings.Past(session)
	case "":
		if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
			if !models.ValidStatus(status) {
				writeError(w, http.StatusBadRequest, "unknown status")
				return
			}
			list = s.bookings.ByStatus(session, status)
		} else {
			list = s.bookings.All(session)
		}
	default:
		writeError(w, http.StatusBadRequest, "view must be upcoming or past")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"bookings": list})
}

func (s *HTTPServer) handleBookingCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		writeError(w, http.StatusBadRequest, "booking id is required")
		return
	}

	session := s.sessionKey(r)
	s.bookings.EnsureSession(r.Context(), session)

	if !s.bookings.Cancel(session, req.ID) {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}

	metrics.IncBookingCancelled()
	booking, _ := s.bookings.Get(session, req.ID)
	writeJSON(w, http.StatusOK, map[string]any{"booking": booking})
}

func (s *HTTPServer) handleBookingsExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session := s.sessionKey(r)
	s.bookings.EnsureSession(r.Context(), session)

	path, err := export.ToExcel(s.exports, session, s.bookings.All(session))
	if err != nil {
		s.logger.Error().Err(err).Msg("bookings export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

func (s *HTTPServer) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": s.inbox.All(),
		"unread":        s.inbox.UnreadCount(),
	})
}

func (s *HTTPServer) handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := s.notificationID(w, r)
	if !ok {
		return
	}
	s.inbox.MarkRead(id)
	writeJSON(w, http.StatusOK, map[string]int{"unread": s.inbox.UnreadCount()})
}

func (s *HTTPServer) handleNotificationReadAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.inbox.MarkAllRead()
	writeJSON(w, http.StatusOK, map[string]int{"unread": 0})
}

func (s *HTTPServer) handleNotificationDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.notificationID(w, r)
	if !ok {
		return
	}
	s.inbox.Delete(id)
	writeJSON(w, http.StatusOK, map[string]int{"unread": s.inbox.UnreadCount()})
}

func (s *HTTPServer) notificationID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return "", false
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		writeError(w, http.StatusBadRequest, "notification id is required")
		return "", false
	}
	return req.ID, true
}

// wizardMutation decodes a POST body and resolves the caller's wizard.
func (s *HTTPServer) wizardMutation(w http.ResponseWriter, r *http.Request, req any) (*wizard.Wizard, bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return s.resolveWizard(w, r)
}

func (s *HTTPServer) wizardAction(w http.ResponseWriter, r *http.Request) (*wizard.Wizard, bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}
	return s.resolveWizard(w, r)
}

func (s *HTTPServer) resolveWizard(w http.ResponseWriter, r *http.Request) (*wizard.Wizard, bool) {
	wz, ok := s.wizards.Get(s.sessionKey(r))
	if !ok {
		writeError(w, http.StatusNotFound, "no active booking flow")
		return nil, false
	}
	return wz, true
}

func (s *HTTPServer) writeWizardState(w http.ResponseWriter, status int, wz *wizard.Wizard) {
	writeJSON(w, status, map[string]any{
		"court": wz.Court(),
		"step":  wz.Step(),
		"draft": wz.Draft(),
		"slots": wz.Slots(),
		"price": wz.Price(),
	})
}

// writeWizardError maps wizard results onto HTTP statuses. Validation
// rejections are part of the normal flow and reported as 422.
func (s *HTTPServer) writeWizardError(w http.ResponseWriter, err error) {
	var ve *wizard.ValidationError
	switch {
	case errors.As(err, &ve):
		metrics.IncWizardRejection(ve.Field)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": ve.Error(),
			"field": ve.Field,
		})
	case errors.Is(err, wizard.ErrAuthRequired):
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":  err.Error(),
			"signal": "auth_required",
		})
	case errors.Is(err, wizard.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, wizard.ErrSubmitInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, wizard.ErrWizardFinished):
		writeError(w, http.StatusGone, err.Error())
	default:
		s.logger.Error().Err(err).Msg("wizard operation failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
