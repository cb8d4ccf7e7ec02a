package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "config/development.toml", s.ConfigPath)
	assert.Equal(t, 3200, s.APIPort)
	assert.Equal(t, "config.reloads", s.ReloadTopic)
	assert.False(t, s.KafkaEnabled)
	assert.False(t, s.AuditEnabled())
}

func TestLoadSettings_Overrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/etc/pmconfig/production.toml")
	t.Setenv("API_PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://localhost/pmconfig")
	t.Setenv("KAFKA_ENABLED", "true")

	s, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "/etc/pmconfig/production.toml", s.ConfigPath)
	assert.Equal(t, 9000, s.APIPort)
	assert.True(t, s.KafkaEnabled)
	assert.True(t, s.AuditEnabled())
}

func TestSettingsValidate(t *testing.T) {
	t.Run("default secret rejected", func(t *testing.T) {
		s := &Settings{JWTSecret: "change-me-in-production"}
		assert.Error(t, s.Validate())
	})

	t.Run("short secret rejected", func(t *testing.T) {
		s := &Settings{JWTSecret: "short"}
		assert.Error(t, s.Validate())
	})

	t.Run("strong secret accepted", func(t *testing.T) {
		s := &Settings{JWTSecret: "a-strong-secret-that-is-long-enough-123"}
		assert.NoError(t, s.Validate())
	})

	t.Run("insecure defaults bypass for local dev", func(t *testing.T) {
		s := &Settings{JWTSecret: "change-me-in-production", AllowInsecureDefaults: true}
		assert.NoError(t, s.Validate())
	})
}
