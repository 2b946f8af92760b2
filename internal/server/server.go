package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dotkom/gradestats/internal/gradesclient"
	"github.com/dotkom/gradestats/internal/server/handlers"
	"github.com/dotkom/gradestats/internal/server/middleware"
	"github.com/dotkom/gradestats/internal/server/ratelimit"
	"github.com/dotkom/gradestats/internal/server/router"
	"github.com/patrickmn/go-cache"
)

const limiterCleanupInterval = time.Minute

// NewServer builds the HTTP server from cfg. Background work started here
// stops when ctx is cancelled.
func NewServer(ctx context.Context, cfg Config) (*http.Server, error) {
	client, err := gradesclient.New(cfg.GradesAPIURL, cfg.Timeout, cfg.UpstreamTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create grades client: %w", err)
	}

	limiter := ratelimit.NewLimiter(cfg.RateLimit, cfg.RateWindow)
	limiter.StartCleanup(ctx, limiterCleanupInterval)

	views := cache.New(cfg.SessionTTL, 2*cfg.SessionTTL)
	handler := handlers.New(client, views)
	mw := middleware.NewManager(limiter, cfg.SessionTTL, cfg.SecureCookies)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(handler, mw, cfg.CSRFAuthKey, cfg.SecureCookies),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}, nil
}
