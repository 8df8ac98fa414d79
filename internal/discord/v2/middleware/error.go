package middleware

import (
	"log"
	"runtime/debug"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
)

const (
	genericErrorMessage = "An error occurred while processing your request."
	panicMessage        = "An unexpected error occurred. Please try again later."
)

// ErrorConfig controls how handler errors reach the user.
type ErrorConfig struct {
	// FallbackMessage is shown for errors without user-facing text.
	FallbackMessage string

	// Log sees every error before it is rendered. Nil disables logging.
	Log func(ctx *core.InteractionContext, err error)
}

func DefaultErrorConfig() *ErrorConfig {
	return &ErrorConfig{
		FallbackMessage: genericErrorMessage,
		Log:             logHandlerError,
	}
}

// ErrorMiddleware turns a handler error into a reply. User errors and
// dnderr codes keep their message, everything else gets FallbackMessage.
func ErrorMiddleware(config *ErrorConfig) core.Middleware {
	if config == nil {
		config = DefaultErrorConfig()
	}
	fallback := config.FallbackMessage
	if fallback == "" {
		fallback = genericErrorMessage
	}

	return func(next core.Handler) core.Handler {
		return core.Wrap(next, func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			result, err := next.Handle(ctx)
			if err == nil {
				return result, nil
			}
			if config.Log != nil {
				config.Log(ctx, err)
			}
			return core.Respond(core.NewEphemeralResponse(userMessage(err, fallback)))
		})
	}
}

func userMessage(err error, fallback string) string {
	herr := core.FromServiceError(err)
	if herr == nil || !herr.ShowToUser || herr.Code == core.ErrorCodeInternal {
		return fallback
	}
	return herr.UserMessage
}

// RecoveryMiddleware keeps a panicking handler from taking down the gateway
// goroutine. The stack is logged and the user gets a generic apology.
func RecoveryMiddleware() core.Middleware {
	return func(next core.Handler) core.Handler {
		return core.Wrap(next, func(ctx *core.InteractionContext) (result *core.HandlerResult, err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Pipeline] Panic handling %s from %s: %v\n%s", describe(ctx), ctx.UserID, r, debug.Stack())
					result, err = core.Respond(core.NewEphemeralResponse(panicMessage))
				}
			}()
			return next.Handle(ctx)
		})
	}
}

func logHandlerError(ctx *core.InteractionContext, err error) {
	log.Printf("[Pipeline] %s failed (user %s, channel %s): %v", describe(ctx), ctx.UserID, ctx.ChannelID, err)
}

// describe names the command or component for log lines. Components are
// named by domain and action only, their args carry per-user state.
func describe(ctx *core.InteractionContext) string {
	switch {
	case ctx.IsCommand():
		return "!" + ctx.GetCommandName()
	case ctx.IsComponent():
		if id, err := core.ParseCustomID(ctx.GetCustomID()); err == nil {
			return "component " + id.Domain + ":" + id.Action
		}
		return "component " + ctx.GetCustomID()
	default:
		return "message"
	}
}
