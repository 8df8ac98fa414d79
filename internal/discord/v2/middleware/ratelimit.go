package middleware

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
)

// RateLimitStore counts hits per key in fixed windows.
type RateLimitStore interface {
	// Increment records a hit and returns the hits so far in the key's window.
	Increment(ctx context.Context, key string, window time.Duration) (int, error)
	Reset(ctx context.Context, key string) error
}

// RateLimitConfig bounds how often a user may run the LLM-backed commands.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration

	KeyFunc func(*core.InteractionContext) string // Optional, CommandKey if nil
	Message string                                // Optional
	Store   RateLimitStore                        // Optional, in-memory if nil
}

// CommandKey buckets commands per user and name. Components and plain
// messages (replies to Emo) share one bucket per user.
func CommandKey(ctx *core.InteractionContext) string {
	if ctx.IsCommand() {
		return ctx.UserID + ":" + ctx.GetCommandName()
	}
	return ctx.UserID
}

// RateLimitMiddleware answers over-limit requests with an ephemeral notice.
// A failing store lets requests through.
func RateLimitMiddleware(config *RateLimitConfig) core.Middleware {
	cfg := *config
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = CommandKey
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryRateLimitStore()
	}
	notice := cfg.Message
	if notice == "" {
		notice = fmt.Sprintf("You're doing that too fast! Please wait %v before trying again.", cfg.Window)
	}
	notice = "⏱️ " + notice

	allowed := func(ctx *core.InteractionContext) bool {
		key := cfg.KeyFunc(ctx)
		if key == "" {
			return true
		}
		hits, err := cfg.Store.Increment(ctx.Context, key, cfg.Window)
		if err != nil {
			log.Printf("[Pipeline] Rate limit store failed for %s, allowing: %v", key, err)
			return true
		}
		return hits <= cfg.MaxRequests
	}

	return func(next core.Handler) core.Handler {
		return core.Wrap(next, func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			if !allowed(ctx) {
				return core.Respond(core.NewEphemeralResponse(notice))
			}
			return next.Handle(ctx)
		})
	}
}

// sweepAbove is the map size past which expired windows are dropped.
const sweepAbove = 1024

type rateWindow struct {
	hits int
	ends time.Time
}

// MemoryRateLimitStore keeps windows in process. Limits reset on restart.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	windows map[string]rateWindow
	now     func() time.Time
}

func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		windows: make(map[string]rateWindow),
		now:     time.Now,
	}
}

func (s *MemoryRateLimitStore) Increment(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.ends) {
		w = rateWindow{ends: now.Add(window)}
	}
	w.hits++
	s.windows[key] = w

	if len(s.windows) > sweepAbove {
		for k, other := range s.windows {
			if !now.Before(other.ends) {
				delete(s.windows, k)
			}
		}
	}
	return w.hits, nil
}

func (s *MemoryRateLimitStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.windows, key)
	s.mu.Unlock()
	return nil
}
