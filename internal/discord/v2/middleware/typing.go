package middleware

import (
	"log"
	"slices"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
)

// TypingMiddleware shows the typing indicator while slow commands run.
// Discord clears it on the next message from the bot.
func TypingMiddleware(commands ...string) core.Middleware {
	return func(next core.Handler) core.Handler {
		return core.Wrap(next, func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			if ctx.IsCommand() && slices.Contains(commands, ctx.GetCommandName()) {
				if err := ctx.Session.ChannelTyping(ctx.ChannelID); err != nil {
					log.Printf("[Pipeline] Failed to send typing to %s: %v", ctx.ChannelID, err)
				}
			}
			return next.Handle(ctx)
		})
	}
}
