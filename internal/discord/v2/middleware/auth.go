package middleware

import (
	"log"
	"slices"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
)

// check returns the refusal for ctx, or "" to let it through.
type check func(ctx *core.InteractionContext) string

// gate runs check on the named commands only. Everything else, components
// and plain messages included, passes untouched.
func gate(commands []string, c check) core.Middleware {
	return func(next core.Handler) core.Handler {
		return core.Wrap(next, func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			if !ctx.IsCommand() || !slices.Contains(commands, ctx.GetCommandName()) {
				return next.Handle(ctx)
			}
			if reason := c(ctx); reason != "" {
				return &core.HandlerResult{
					Response:        core.NewEphemeralResponse("❌ " + reason),
					StopPropagation: true,
				}, nil
			}
			return next.Handle(ctx)
		})
	}
}

// GuildOnlyMiddleware refuses the named commands in direct messages.
func GuildOnlyMiddleware(commands ...string) core.Middleware {
	return gate(commands, func(ctx *core.InteractionContext) string {
		if ctx.GuildID == "" {
			return "This command can only be used in a server."
		}
		return ""
	})
}

// PermissionRequiredMiddleware limits the named commands to members holding
// permissions in the channel. Administrators always pass.
func PermissionRequiredMiddleware(permissions int64, commands ...string) core.Middleware {
	return gate(commands, func(ctx *core.InteractionContext) string {
		if ctx.GuildID == "" {
			return "This command can only be used in a server."
		}
		have, err := ctx.Session.UserChannelPermissions(ctx.UserID, ctx.ChannelID)
		if err != nil {
			log.Printf("[Pipeline] Failed to load permissions for %s: %v", ctx.UserID, err)
			return "You don't have the required permissions to use this command."
		}
		if have&discordgo.PermissionAdministrator == 0 && have&permissions != permissions {
			return "You don't have the required permissions to use this command."
		}
		return ""
	})
}
