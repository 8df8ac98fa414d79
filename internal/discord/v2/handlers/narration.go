package handlers

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/builders"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
	"github.com/KirkDiggler/emo-bot-discord/internal/services/game"
	"github.com/KirkDiggler/emo-bot-discord/internal/services/narration"
)

const (
	narrationFooter = "Reply to this message to interact with the world"
	notICChannel    = "This command only works in the IC chat with Emo as GM!"
)

// NarrationHandler lets Emo run the story in a game's IC channel.
type NarrationHandler struct {
	games    game.Service
	narrator narration.Service
}

// NarrationHandlerConfig holds the configuration
type NarrationHandlerConfig struct {
	GameService      game.Service      // Required
	NarrationService narration.Service // Required
}

// NewNarrationHandler creates a narration handler
func NewNarrationHandler(cfg *NarrationHandlerConfig) (*NarrationHandler, error) {
	if cfg == nil || cfg.GameService == nil || cfg.NarrationService == nil {
		return nil, fmt.Errorf("game and narration services are required")
	}
	return &NarrationHandler{games: cfg.GameService, narrator: cfg.NarrationService}, nil
}

// icGame returns the Emo-run game whose IC channel is the context's channel,
// or nil when there is none.
func (h *NarrationHandler) icGame(ctx *core.InteractionContext) (*entities.GameSession, error) {
	g, err := h.games.GetGameByLinkedChannel(ctx.Context, ctx.ChannelID)
	if err != nil {
		if dnderr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !g.IsAIGM || g.ICChannelID != ctx.ChannelID {
		return nil, nil
	}
	return g, nil
}

// HandleEmo answers !emo with the opening scene
func (h *NarrationHandler) HandleEmo(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	g, err := h.icGame(ctx)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return core.Respond(core.NewResponse(notICChannel))
	}

	thinking, err := ctx.SendEmbed(builders.NewEmbed().
		Title("🧠 Emo is crafting your adventure...").
		Description("Your story is being woven together...").
		Color(builders.ColorThinking).
		Footer("Please wait while the magical world takes shape").
		Build())
	if err != nil {
		return nil, err
	}
	if err := ctx.Session.ChannelTyping(ctx.ChannelID); err != nil {
		log.Printf("[Narration] Typing indicator failed in %s: %v", ctx.ChannelID, err)
	}

	result, err := h.narrator.Begin(ctx.Context, g)
	if delErr := ctx.Session.ChannelMessageDelete(ctx.ChannelID, thinking.ID); delErr != nil {
		log.Printf("[Narration] Failed to delete thinking message: %v", delErr)
	}
	if err != nil {
		return nil, err
	}

	return core.Respond(core.NewEmbedResponse(NarrationEmbed(fmt.Sprintf("🎭 %s Adventure Begins!", g.Theme), result.Narration)))
}

// HandleHelpEmo answers !help_emo
func (h *NarrationHandler) HandleHelpEmo(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	embed := builders.NewEmbed().
		Title("🧙‍♂️ How to Play with Emo - The Beginner's Guide").
		Description("Welcome to your D&D adventure! Here's how to play with Emo, your friendly Dungeon Master.").
		Color(builders.ColorGuide).
		Field("📜 To Start An Adventure", "Type `!emo` in your game channel to begin a new adventure.", false).
		Field("🗣️ Talking and Acting", "Reply to Emo's messages to speak or take actions. Describe what your character wants to do in simple terms, like:\n"+
			"• \"I walk up to the innkeeper and ask about rumors\"\n"+
			"• \"I search the room for hidden doors\"\n"+
			"• \"I cast Light on my staff to brighten the cave\"", false).
		Field("🎲 Rolling Dice", "When Emo asks for a roll, use `!roll` in the OOC thread. Choose your dice and modifiers from the menu that appears.", false).
		Field("💡 Tips For Beginners", "• Be specific about what you want to do\n"+
			"• You don't need to use game terms - just describe actions normally\n"+
			"• Work together with other players\n"+
			"• Ask questions if you're confused - Emo is here to help\n"+
			"• Have fun and be creative!", false).
		Build()
	return core.Respond(core.NewEmbedResponse(embed))
}

// NarrationEmbed wraps story text in the embed Emo replies with.
func NarrationEmbed(title, text string) *discordgo.MessageEmbed {
	return builders.NewEmbed().
		Title(title).
		Description(builders.Truncate(text, 4096)).
		Color(builders.ColorNarration).
		Footer(narrationFooter).
		Build()
}

// ReplyHandler narrates what happens when a player replies to one of Emo's
// messages in an IC channel.
type ReplyHandler struct {
	narration *NarrationHandler
}

// Replies returns the message handler for replies to Emo
func (h *NarrationHandler) Replies() *ReplyHandler {
	return &ReplyHandler{narration: h}
}

// CanHandle accepts plain messages that reply to the bot
func (r *ReplyHandler) CanHandle(ctx *core.InteractionContext) bool {
	return ctx.IsMessage() && ctx.BotID != "" && ctx.UserID != ctx.BotID && ctx.IsReplyTo(ctx.BotID)
}

// Handle narrates the player's action
func (r *ReplyHandler) Handle(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	g, err := r.narration.icGame(ctx)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return core.Done()
	}

	if err := ctx.Session.ChannelTyping(ctx.ChannelID); err != nil {
		log.Printf("[Narration] Typing indicator failed in %s: %v", ctx.ChannelID, err)
	}

	result, err := r.narration.narrator.Respond(ctx.Context, &narration.RespondInput{
		Game:     g,
		PlayerID: ctx.UserID,
		Content:  ctx.Message.Content,
	})
	if err != nil {
		if dnderr.IsNotFound(err) {
			return core.Respond(core.NewResponse(narration.MessageUnknownPlayer).AsReply())
		}
		log.Printf("[Narration] Reply from %s in %s failed: %v", ctx.UserID, ctx.ChannelID, err)
		return core.Respond(core.NewResponse(fmt.Sprintf("An error occurred while processing your action: %s", dnderr.GetMessage(err))).AsReply())
	}

	return core.Respond(core.NewEmbedResponse(NarrationEmbed(fmt.Sprintf("🎭 %s Adventure Continues", g.Theme), result.Narration)).AsReply())
}
