package middleware

import (
	"log"
	"time"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
)

// LogConfig controls request logging.
type LogConfig struct {
	// SlowThreshold marks requests that took at least this long. Zero never marks.
	SlowThreshold time.Duration

	// IncludeMessages also logs plain messages (replies to Emo, chatter).
	IncludeMessages bool
}

func DefaultLogConfig() *LogConfig {
	return &LogConfig{SlowThreshold: 5 * time.Second}
}

// LoggingMiddleware writes one line per command or component once it has
// been handled.
func LoggingMiddleware(config *LogConfig) core.Middleware {
	if config == nil {
		config = DefaultLogConfig()
	}

	return func(next core.Handler) core.Handler {
		return core.Wrap(next, func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			if !config.IncludeMessages && !ctx.IsCommand() && !ctx.IsComponent() {
				return next.Handle(ctx)
			}

			start := time.Now()
			result, err := next.Handle(ctx)
			took := time.Since(start).Round(time.Millisecond)

			status := "ok"
			if err != nil {
				status = "error"
			}
			slow := ""
			if config.SlowThreshold > 0 && took >= config.SlowThreshold {
				slow = " (slow)"
			}
			log.Printf("[Discord] %s by %s in guild %s channel %s: %s after %v%s",
				describe(ctx), ctx.UserID, ctx.GuildID, ctx.ChannelID, status, took, slow)

			return result, err
		})
	}
}
