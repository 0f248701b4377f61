package auth

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider() *MockProvider {
	logger := zerolog.New(io.Discard)
	return NewMockProvider(&logger)
}

func TestMockProviderLogin(t *testing.T) {
	t.Run("NonEmptyCredentialsSucceed", func(t *testing.T) {
		p := newTestProvider()
		user, ok := p.Login("demo@example.com", "secret")
		require.True(t, ok)
		assert.Equal(t, "demo@example.com", user.Email)
		assert.NotEmpty(t, user.ID)
		assert.True(t, p.IsAuthenticated())

		id, ok := p.CurrentUserID()
		require.True(t, ok)
		assert.Equal(t, user.ID, id)
	})

	t.Run("EmptyCredentialsFail", func(t *testing.T) {
		p := newTestProvider()
		_, ok := p.Login("", "secret")
		assert.False(t, ok)
		_, ok = p.Login("demo@example.com", "")
		assert.False(t, ok)
		assert.False(t, p.IsAuthenticated())
	})
}

func TestMockProviderRegister(t *testing.T) {
	t.Run("CreatesAndSignsIn", func(t *testing.T) {
		p := newTestProvider()
		user, ok := p.Register("new@example.com", "secret", "Jane Smith", "+265999000111")
		require.True(t, ok)
		assert.Equal(t, "Jane Smith", user.FullName)
		assert.True(t, p.IsAuthenticated())
	})

	t.Run("RequiresNameEmailPassword", func(t *testing.T) {
		p := newTestProvider()
		_, ok := p.Register("", "secret", "Jane", "")
		assert.False(t, ok)
		_, ok = p.Register("a@b.c", "", "Jane", "")
		assert.False(t, ok)
		_, ok = p.Register("a@b.c", "secret", "  ", "")
		assert.False(t, ok)
	})
}

func TestMockProviderSession(t *testing.T) {
	p := newTestProvider()
	_, ok := p.CurrentUser()
	assert.False(t, ok)

	p.Login("demo@example.com", "secret")

	t.Run("CurrentUserReturnsCopy", func(t *testing.T) {
		user, ok := p.CurrentUser()
		require.True(t, ok)
		user.FullName = "Mutated"

		again, _ := p.CurrentUser()
		assert.Equal(t, "John Doe", again.FullName)
	})

	t.Run("UpdateProfile", func(t *testing.T) {
		require.True(t, p.UpdateProfile("Jane Roe", "+265111222333"))
		user, _ := p.CurrentUser()
		assert.Equal(t, "Jane Roe", user.FullName)
		assert.Equal(t, "+265111222333", user.Phone)

		// blank fields are left untouched
		require.True(t, p.UpdateProfile("", ""))
		user, _ = p.CurrentUser()
		assert.Equal(t, "Jane Roe", user.FullName)
	})

	t.Run("Logout", func(t *testing.T) {
		p.Logout()
		assert.False(t, p.IsAuthenticated())
		_, ok := p.CurrentUserID()
		assert.False(t, ok)
		assert.False(t, p.UpdateProfile("X", "Y"))
	})
}
