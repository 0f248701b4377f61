package config

import (
	"os"
	"path/filepath"
	"testing"

	"playeasy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
app:
  name: "playeasy"
  environment: "test"
catalog:
  path: "configs/catalog.yaml"
`

func TestLoad(t *testing.T) {
	t.Run("AppliesDefaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, minimalConfig))
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.API.Port)
		assert.Equal(t, "x-api-key", cfg.API.Auth.HeaderAPIKey)
		assert.Equal(t, models.DefaultOpenHour, cfg.Booking.OpenHour)
		assert.Equal(t, models.DefaultCloseHour, cfg.Booking.CloseHour)
		assert.Equal(t, models.MinDurationHours, cfg.Booking.MinDuration)
		assert.Equal(t, models.MaxDurationHours, cfg.Booking.MaxDuration)
		assert.Equal(t, "exports", cfg.Exports.Path)
		assert.Positive(t, cfg.API.RateLimit.RPS)
		assert.Positive(t, cfg.API.RateLimit.Burst)
	})

	t.Run("ExpandsEnvironmentVariables", func(t *testing.T) {
		t.Setenv("TEST_REDIS_ADDR", "redis-host:6379")
		content := minimalConfig + `
redis:
  enabled: true
  address: "${TEST_REDIS_ADDR}"
`
		cfg, err := Load(writeConfig(t, content))
		require.NoError(t, err)
		assert.Equal(t, "redis-host:6379", cfg.Redis.Address)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("MalformedYAML", func(t *testing.T) {
		_, err := Load(writeConfig(t, "app: [broken"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("MissingCatalogPath", func(t *testing.T) {
		cfg := &Config{}
		cfg.Booking.OpenHour = 8
		cfg.Booking.CloseHour = 17
		cfg.Booking.MinDuration = 1
		cfg.Booking.MaxDuration = 4
		assert.Error(t, cfg.Validate())
	})

	t.Run("InvalidOperatingHours", func(t *testing.T) {
		content := minimalConfig + `
booking:
  open_hour: 18
  close_hour: 9
`
		_, err := Load(writeConfig(t, content))
		assert.Error(t, err)
	})

	t.Run("InvalidDurationBounds", func(t *testing.T) {
		content := minimalConfig + `
booking:
  open_hour: 8
  close_hour: 17
  min_duration: 3
  max_duration: 2
`
		_, err := Load(writeConfig(t, content))
		assert.Error(t, err)
	})

	t.Run("TelegramEnabledWithoutToken", func(t *testing.T) {
		content := minimalConfig + `
notifications:
  telegram:
    enabled: true
`
		_, err := Load(writeConfig(t, content))
		assert.Error(t, err)
	})

	t.Run("RedisEnabledWithoutAddress", func(t *testing.T) {
		content := minimalConfig + `
redis:
  enabled: true
`
		_, err := Load(writeConfig(t, content))
		assert.Error(t, err)
	})

	t.Run("CustomBookingWindow", func(t *testing.T) {
		content := minimalConfig + `
booking:
  open_hour: 6
  close_hour: 22
  min_duration: 1
  max_duration: 3
`
		cfg, err := Load(writeConfig(t, content))
		require.NoError(t, err)
		assert.Equal(t, 6, cfg.Booking.OpenHour)
		assert.Equal(t, 22, cfg.Booking.CloseHour)
		assert.Equal(t, 3, cfg.Booking.MaxDuration)
	})
}
