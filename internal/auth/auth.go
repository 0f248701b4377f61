package auth

import (
	"strings"
	"sync"
	"time"

	"playeasy/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MockProvider is the demo authentication provider: any non-empty
// credentials succeed. It keeps the signed-in profile for the session; a
// production provider replaces this behind the same interface.
type MockProvider struct {
	mu     sync.RWMutex
	user   *models.User
	logger *zerolog.Logger
}

func NewMockProvider(logger *zerolog.Logger) *MockProvider {
	return &MockProvider{logger: logger}
}

// Login signs in with mock credentials. Empty email or password fails.
func (p *MockProvider) Login(email, password string) (*models.User, bool) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, false
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Email:    email,
		FullName: "John Doe",
		Phone:    "+1234567890",
		JoinDate: time.Now(),
	}

	p.mu.Lock()
	p.user = user
	p.mu.Unlock()

	p.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return user, true
}

// Register creates and signs in a new mock account.
func (p *MockProvider) Register(email, password, fullName, phone string) (*models.User, bool) {
	if strings.TrimSpace(email) == "" || password == "" || strings.TrimSpace(fullName) == "" {
		return nil, false
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Email:    email,
		FullName: fullName,
		Phone:    phone,
		JoinDate: time.Now(),
	}

	p.mu.Lock()
	p.user = user
	p.mu.Unlock()

	p.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, true
}

// Logout drops the session.
func (p *MockProvider) Logout() {
	p.mu.Lock()
	p.user = nil
	p.mu.Unlock()
}

// UpdateProfile patches the signed-in user's editable fields.
func (p *MockProvider) UpdateProfile(fullName, phone string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.user == nil {
		return false
	}
	if strings.TrimSpace(fullName) != "" {
		p.user.FullName = fullName
	}
	if strings.TrimSpace(phone) != "" {
		p.user.Phone = phone
	}
	return true
}

func (p *MockProvider) IsAuthenticated() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user != nil
}

func (p *MockProvider) CurrentUserID() (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.user == nil {
		return "", false
	}
	return p.user.ID, true
}

// CurrentUser returns a copy of the signed-in profile.
func (p *MockProvider) CurrentUser() (*models.User, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.user == nil {
		return nil, false
	}
	user := *p.user
	return &user, true
}
