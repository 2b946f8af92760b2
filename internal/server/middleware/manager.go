package middleware

import (
	"net/http"
	"time"

	"github.com/dotkom/gradestats/internal/server/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookie carries the visitor's session id.
	SessionCookie = "gradestats_session"
	// SessionKey is where Session stores the id in the gin context.
	SessionKey = "session_id"
)

// Manager wires all HTTP middlewares with shared dependencies.
type Manager struct {
	rateLimiter   *ratelimit.Limiter
	sessionTTL    time.Duration
	secureCookies bool
}

// NewManager builds a middleware manager for the HTTP server.
func NewManager(limiter *ratelimit.Limiter, sessionTTL time.Duration, secureCookies bool) *Manager {
	return &Manager{
		rateLimiter:   limiter,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

// Session makes sure every request carries a session id, issuing a new
// cookie when the visitor has none or sends a malformed one.
func (m *Manager) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		if value, err := c.Cookie(SessionCookie); err == nil {
			if parsed, err := uuid.Parse(value); err == nil {
				id = parsed.String()
			}
		}

		// refresh on every request so the cookie outlives the sliding view TTL
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, int(m.sessionTTL.Seconds()), "/", "", m.secureCookies, true)

		c.Set(SessionKey, id)
		c.Next()
	}
}

// RateLimit enforces per-client request limits.
func (m *Manager) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		if !m.rateLimiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
