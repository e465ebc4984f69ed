package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := Load()

		assert.Error(t, err)
	})

	t.Run("defaults and overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("PORT", "8081")
		t.Setenv("ACCESS_TOKEN_TTL", "30m")
		t.Setenv("ALLOW_ADMIN_SIGNUP", "true")
		t.Setenv("DASHBOARD_WORKERS", "not-a-number")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.Equal(t, "8081", cfg.Port)
		assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
		assert.True(t, cfg.AllowAdminSignup)
		assert.Equal(t, 8, cfg.DashboardWorkers)
		assert.False(t, cfg.GitHub.Enabled())
	})
}
