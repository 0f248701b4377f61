package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"playeasy/internal/auth"
	"playeasy/internal/catalog"
	"playeasy/internal/config"
	"playeasy/internal/domain"
	"playeasy/internal/metrics"
	"playeasy/internal/notify"
	"playeasy/internal/store"
	"playeasy/internal/wizard"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// HTTPServer exposes the booking flow over HTTP: catalog reads, slot
// availability, the wizard step machine and the bookings collection.
type HTTPServer struct {
	cfg      config.APIConfig
	booking  config.BookingConfig
	wizards  *wizard.Manager
	bookings *store.BookingStore
	oracle   domain.AvailabilityOracle
	catalog  *catalog.Catalog
	provider *auth.MockProvider
	inbox    *notify.Inbox
	exports  string
	logger   *zerolog.Logger

	server *http.Server
	auth   *HTTPAuth
}

func NewHTTPServer(cfg config.APIConfig, booking config.BookingConfig, wizards *wizard.Manager, bookings *store.BookingStore, oracle domain.AvailabilityOracle, cat *catalog.Catalog, provider *auth.MockProvider, inbox *notify.Inbox, exportsPath string, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		booking:  booking,
		wizards:  wizards,
		bookings: bookings,
		oracle:   oracle,
		catalog:  cat,
		provider: provider,
		inbox:    inbox,
		exports:  exportsPath,
		logger:   logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)

	mux.HandleFunc("/api/v1/courts", srv.handleCourts)
	mux.HandleFunc("/api/v1/equipment", srv.handleEquipment)
	mux.HandleFunc("/api/v1/payment-methods", srv.handlePaymentMethods)
	mux.HandleFunc("/api/v1/slots", srv.handleSlots)

	mux.HandleFunc("/api/v1/auth/login", srv.handleLogin)
	mux.HandleFunc("/api/v1/auth/register", srv.handleRegister)
	mux.HandleFunc("/api/v1/auth/logout", srv.handleLogout)
	mux.HandleFunc("/api/v1/auth/me", srv.handleMe)

	mux.HandleFunc("/api/v1/wizard/start", srv.handleWizardStart)
	mux.HandleFunc("/api/v1/wizard", srv.handleWizardState)
	mux.HandleFunc("/api/v1/wizard/date", srv.handleWizardDate)
	mux.HandleFunc("/api/v1/wizard/slot", srv.handleWizardSlot)
	mux.HandleFunc("/api/v1/wizard/duration", srv.handleWizardDuration)
	mux.HandleFunc("/api/v1/wizard/equipment", srv.handleWizardEquipment)
	mux.HandleFunc("/api/v1/wizard/payment", srv.handleWizardPayment)
	mux.HandleFunc("/api/v1/wizard/next", srv.handleWizardNext)
	mux.HandleFunc("/api/v1/wizard/previous", srv.handleWizardPrevious)
	mux.HandleFunc("/api/v1/wizard/cancel", srv.handleWizardCancel)
	mux.HandleFunc("/api/v1/wizard/submit", srv.handleWizardSubmit)

	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/bookings/cancel", srv.handleBookingCancel)
	mux.HandleFunc("/api/v1/bookings/export", srv.handleBookingsExport)

	mux.HandleFunc("/api/v1/notifications", srv.handleNotifications)
	mux.HandleFunc("/api/v1/notifications/read", srv.handleNotificationRead)
	mux.HandleFunc("/api/v1/notifications/read-all", srv.handleNotificationReadAll)
	mux.HandleFunc("/api/v1/notifications/delete", srv.handleNotificationDelete)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sessionKey identifies the caller's flow independent of sign-in state, so
// a draft started before authentication survives the login round trip.
func (s *HTTPServer) sessionKey(r *http.Request) string {
	header := strings.TrimSpace(strings.ToLower(s.cfg.Auth.HeaderAPIKey))
	if header == "" {
		header = "x-api-key"
	}
	if key := strings.TrimSpace(r.Header.Get(header)); key != "" {
		return key
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		metrics.IncHTTP(r.URL.Path)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// HTTPAuth validates the API key header and applies per-client rate limits.
type HTTPAuth struct {
	cfg      config.APIConfig
	keys     map[string]config.APIClientKey
	limiters sync.Map
}

func NewHTTPAuth(cfg config.APIConfig) *HTTPAuth {
	keys := make(map[string]config.APIClientKey, len(cfg.Auth.APIKeys))
	for _, k := range cfg.Auth.APIKeys {
		keys[k.Key] = k
	}
	return &HTTPAuth{cfg: cfg, keys: keys}
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		if a.cfg.Auth.Enabled && len(a.keys) > 0 {
			if err := a.checkAuth(r); err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
		}
		if err := a.checkRateLimit(r); err != nil {
			writeError(w, http.StatusTooManyRequests, err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *HTTPAuth) checkAuth(r *http.Request) error {
	header := strings.TrimSpace(strings.ToLower(a.cfg.Auth.HeaderAPIKey))
	if header == "" {
		header = "x-api-key"
	}

	apiKey := strings.TrimSpace(r.Header.Get(header))
	if apiKey == "" {
		return fmt.Errorf("missing api key header")
	}

	for key := range a.keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
			return nil
		}
	}
	return fmt.Errorf("invalid api key")
}

func (a *HTTPAuth) checkRateLimit(r *http.Request) error {
	if a.cfg.RateLimit.RPS <= 0 {
		return nil
	}

	key := a.clientKey(r)
	lim := a.getLimiter(key)
	if !lim.Allow() {
		return fmt.Errorf("rate limit exceeded")
	}
	return nil
}

func (a *HTTPAuth) clientKey(r *http.Request) string {
	header := strings.TrimSpace(strings.ToLower(a.cfg.Auth.HeaderAPIKey))
	if header == "" {
		header = "x-api-key"
	}

	if apiKey := strings.TrimSpace(r.Header.Get(header)); apiKey != "" {
		return apiKey
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (a *HTTPAuth) getLimiter(key string) *rate.Limiter {
	if v, ok := a.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := a.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(a.cfg.RateLimit.RPS), burst)
	actual, loaded := a.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
