package server

import (
	"crypto/rand"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime settings read from the environment.
type Config struct {
	Port          int
	GradesAPIURL  string
	CSRFAuthKey   []byte
	SecureCookies bool
	UpstreamTTL   time.Duration
	Timeout       time.Duration
	SessionTTL    time.Duration
	RateLimit     int
	RateWindow    time.Duration
}

// LoadConfig reads the configuration from environment variables, falling
// back to defaults for everything except the grades endpoint.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:          envInt("PORT", 8080),
		GradesAPIURL:  strings.TrimSpace(os.Getenv("GRADES_API_URL")),
		SecureCookies: envBool("SECURE_COOKIES", false),
		UpstreamTTL:   envDuration("GRADES_CACHE_TTL", 5*time.Minute),
		Timeout:       envDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		SessionTTL:    envDuration("SESSION_TTL", 30*time.Minute),
		RateLimit:     envInt("RATE_LIMIT", 120),
		RateWindow:    time.Duration(envInt("RATE_WINDOW_SECONDS", 60)) * time.Second,
	}

	if cfg.GradesAPIURL == "" {
		return Config{}, fmt.Errorf("GRADES_API_URL is required")
	}
	if cfg.RateLimit <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT must be greater than 0")
	}
	if cfg.RateWindow <= 0 {
		return Config{}, fmt.Errorf("RATE_WINDOW_SECONDS must be greater than 0")
	}

	key := os.Getenv("CSRF_AUTH_KEY")
	switch {
	case key == "":
		cfg.CSRFAuthKey = make([]byte, 32)
		if _, err := rand.Read(cfg.CSRFAuthKey); err != nil {
			return Config{}, fmt.Errorf("failed to generate CSRF key: %w", err)
		}
	case len(key) < 32:
		return Config{}, fmt.Errorf("CSRF_AUTH_KEY must be at least 32 bytes")
	default:
		cfg.CSRFAuthKey = []byte(key)[:32]
	}

	return cfg, nil
}

func envInt(name string, def int) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(name)))
	if err != nil {
		return def
	}
	return value
}

func envBool(name string, def bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(name)))
	if err != nil {
		return def
	}
	return value
}

func envDuration(name string, def time.Duration) time.Duration {
	value, err := time.ParseDuration(strings.TrimSpace(os.Getenv(name)))
	if err != nil {
		return def
	}
	return value
}
