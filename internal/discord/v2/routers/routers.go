package routers

import (
	"fmt"
	"time"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/middleware"
	"github.com/KirkDiggler/emo-bot-discord/internal/services"
)

// Config holds what every domain router needs
type Config struct {
	Provider *services.Provider // Required

	// RateLimit bounds the LLM-backed commands. Nil disables limiting.
	RateLimit *RateLimit

	// Wait timeouts, zero keeps each handler's default
	SetupTimeout     time.Duration
	ThemeTimeout     time.Duration
	OverwriteTimeout time.Duration
	SheetTimeout     time.Duration
}

// RateLimit configures the per-user, per-command limiter
type RateLimit struct {
	MaxRequests int
	Window      time.Duration
	Store       middleware.RateLimitStore // Optional, in-memory if nil
}

// limiter returns the rate limit middleware for the LLM commands, or nil.
func (c *Config) limiter() core.Middleware {
	if c.RateLimit == nil || c.RateLimit.MaxRequests <= 0 {
		return nil
	}
	return middleware.RateLimitMiddleware(&middleware.RateLimitConfig{
		MaxRequests: c.RateLimit.MaxRequests,
		Window:      c.RateLimit.Window,
		Store:       c.RateLimit.Store,
	})
}

// RegisterAll builds every domain router and registers it with the pipeline.
// Pipeline middleware must be installed before calling this.
func RegisterAll(pipeline *core.Pipeline, cfg *Config) error {
	if pipeline == nil {
		return fmt.Errorf("pipeline is required")
	}
	if cfg == nil || cfg.Provider == nil {
		return fmt.Errorf("service provider is required")
	}

	builders := []func(*core.Pipeline, *Config) (*core.Router, error){
		NewHelpRouter,
		NewGroupsRouter,
		NewChatRouter,
		NewGameRouter,
		NewKitRouter,
		NewRollRouter,
	}
	for _, build := range builders {
		router, err := build(pipeline, cfg)
		if err != nil {
			return err
		}
		router.Register()
	}
	return nil
}
