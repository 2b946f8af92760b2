package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success: defaults", func(t *testing.T) {
		t.Setenv("GRADES_API_URL", "http://grades.local")
		for _, name := range []string{"PORT", "CSRF_AUTH_KEY", "SECURE_COOKIES", "GRADES_CACHE_TTL", "UPSTREAM_TIMEOUT", "SESSION_TTL", "RATE_LIMIT", "RATE_WINDOW_SECONDS"} {
			t.Setenv(name, "")
		}

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, 5*time.Minute, cfg.UpstreamTTL)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
		assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
		assert.Equal(t, 120, cfg.RateLimit)
		assert.Equal(t, time.Minute, cfg.RateWindow)
		assert.Len(t, cfg.CSRFAuthKey, 32)
		assert.False(t, cfg.SecureCookies)
	})

	t.Run("Success: overrides", func(t *testing.T) {
		t.Setenv("GRADES_API_URL", "https://grades.local")
		t.Setenv("PORT", "9000")
		t.Setenv("SECURE_COOKIES", "true")
		t.Setenv("GRADES_CACHE_TTL", "90s")
		t.Setenv("RATE_LIMIT", "5")
		t.Setenv("RATE_WINDOW_SECONDS", "10")
		t.Setenv("CSRF_AUTH_KEY", "0123456789abcdef0123456789abcdef-extra")

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Port)
		assert.True(t, cfg.SecureCookies)
		assert.Equal(t, 90*time.Second, cfg.UpstreamTTL)
		assert.Equal(t, 5, cfg.RateLimit)
		assert.Equal(t, 10*time.Second, cfg.RateWindow)
		assert.Equal(t, []byte("0123456789abcdef0123456789abcdef"), cfg.CSRFAuthKey)
	})

	t.Run("Error: missing grades endpoint", func(t *testing.T) {
		t.Setenv("GRADES_API_URL", "")

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("Error: short CSRF key", func(t *testing.T) {
		t.Setenv("GRADES_API_URL", "http://grades.local")
		t.Setenv("CSRF_AUTH_KEY", "short")

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("Error: non-positive rate limit", func(t *testing.T) {
		t.Setenv("GRADES_API_URL", "http://grades.local")
		t.Setenv("RATE_LIMIT", "0")

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
