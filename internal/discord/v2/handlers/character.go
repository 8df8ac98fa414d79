package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/builders"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
	"github.com/KirkDiggler/emo-bot-discord/internal/services/character"
	"github.com/KirkDiggler/emo-bot-discord/internal/services/game"
)

const (
	// OverwriteTimeout bounds the yes/no question before replacing a character.
	OverwriteTimeout = 30 * time.Second

	// SheetTimeout bounds the wait for the character sheet message.
	SheetTimeout = 300 * time.Second
)

const sheetFormat = "**Name:** [Character Name]\n" +
	"**Class:** [Character Class]\n" +
	"**Level:** 0 (must start at 0)\n" +
	"**Race:** [Character Race]\n" +
	"**Background:** [Character Background]\n" +
	"**Alignment:** [Character Alignment]\n" +
	"**Ability Scores:**\n" +
	"- **Strength:** [Score]\n" +
	"- **Dexterity:** [Score]\n" +
	"- **Constitution:** [Score]\n" +
	"- **Intelligence:** [Score]\n" +
	"- **Wisdom:** [Score]\n" +
	"- **Charisma:** [Score]"

// CharacterHandler creates and shows the characters of a game.
type CharacterHandler struct {
	characters       character.Service
	games            game.Service
	overwriteTimeout time.Duration
	sheetTimeout     time.Duration
}

// CharacterHandlerConfig holds the configuration
type CharacterHandlerConfig struct {
	CharacterService character.Service // Required
	GameService      game.Service      // Required

	OverwriteTimeout time.Duration
	SheetTimeout     time.Duration
}

// NewCharacterHandler creates a character handler
func NewCharacterHandler(cfg *CharacterHandlerConfig) (*CharacterHandler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.CharacterService == nil {
		return nil, fmt.Errorf("character service is required")
	}
	if cfg.GameService == nil {
		return nil, fmt.Errorf("game service is required")
	}
	h := &CharacterHandler{
		characters:       cfg.CharacterService,
		games:            cfg.GameService,
		overwriteTimeout: cfg.OverwriteTimeout,
		sheetTimeout:     cfg.SheetTimeout,
	}
	if h.overwriteTimeout <= 0 {
		h.overwriteTimeout = OverwriteTimeout
	}
	if h.sheetTimeout <= 0 {
		h.sheetTimeout = SheetTimeout
	}
	return h, nil
}

// playerGame loads the channel's game and checks the caller plays in it.
func (h *CharacterHandler) playerGame(ctx *core.InteractionContext) (*entities.GameSession, error) {
	g, err := h.games.GetGame(ctx.Context, ctx.ChannelID)
	if err != nil {
		if dnderr.IsNotFound(err) {
			return nil, core.NewUserError("There is no active D&D game in this channel. Use `!dnd` to create one first.", core.ErrorCodeNotFound)
		}
		return nil, err
	}
	if !g.IsPlayer(ctx.UserID) {
		return nil, core.NewForbiddenError("You are not a player in this D&D game.")
	}
	return g, nil
}

// confirmOverwrite asks before replacing an existing character. A non-empty
// reply means creation stops with that message.
func (h *CharacterHandler) confirmOverwrite(ctx *core.InteractionContext, g *entities.GameSession) (string, error) {
	if _, exists := g.Character(ctx.UserID); !exists {
		return "", nil
	}

	if _, err := ctx.Send(fmt.Sprintf("%s, you already have a character. Do you want to create a new one? (yes/no)", entities.Mention(ctx.UserID))); err != nil {
		return "", err
	}
	answer, err := ctx.WaitForMessage(h.overwriteTimeout, func(m *discordgo.Message) bool {
		a := strings.ToLower(strings.TrimSpace(m.Content))
		return a == "yes" || a == "no"
	})
	if err != nil {
		if errors.Is(err, core.ErrWaitTimeout) {
			return "Character creation timed out.", nil
		}
		return "", err
	}
	if strings.ToLower(strings.TrimSpace(answer.Content)) != "yes" {
		return "Character creation cancelled.", nil
	}
	return "", nil
}

// HandleCreation answers !creation: collect a "Key: value" character sheet.
func (h *CharacterHandler) HandleCreation(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	g, err := h.playerGame(ctx)
	if err != nil {
		return nil, err
	}
	if reply, err := h.confirmOverwrite(ctx, g); err != nil || reply != "" {
		if err != nil {
			return nil, err
		}
		return core.Respond(core.NewResponse(reply))
	}

	if _, err := ctx.SendEmbed(builders.NewEmbed().
		Title("🧙‍♂️ Character Creation 📝").
		Description("Please provide your character information in the following format:").
		Color(builders.ColorBlue).
		Field("Character Format", sheetFormat, false).
		Footer("Type your character information in a single message.").
		Build()); err != nil {
		return nil, err
	}

	sheet, err := ctx.WaitForMessage(h.sheetTimeout, nil)
	if err != nil {
		if errors.Is(err, core.ErrWaitTimeout) {
			return core.Respond(core.NewResponse("Character creation timed out. Please try again when you're ready."))
		}
		return nil, err
	}

	char, err := h.characters.ParseSheet(sheet.Content)
	if err != nil {
		return nil, err
	}
	if _, err := h.games.SaveCharacter(ctx.Context, &game.SaveCharacterInput{
		ChannelID: ctx.ChannelID,
		PlayerID:  ctx.UserID,
		Character: char,
	}); err != nil {
		return nil, err
	}

	embed := CharacterEmbed(char, "Created by "+ctx.DisplayName(), builders.ColorGreen)
	return core.Respond(core.NewEmbedResponse(embed).
		WithContent(fmt.Sprintf("Character created successfully for %s!", entities.Mention(ctx.UserID))))
}

// HandleRandom answers !random [pointbuy]
func (h *CharacterHandler) HandleRandom(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	method := entities.CreationMethodRandom
	switch strings.ToLower(strings.TrimSpace(ctx.RawArgs)) {
	case "":
	case "pointbuy", "point_buy", "point-buy":
		method = entities.CreationMethodPointBuy
	default:
		return core.Respond(core.NewResponse("Usage: `!random` or `!random pointbuy`"))
	}

	g, err := h.playerGame(ctx)
	if err != nil {
		return nil, err
	}
	if reply, err := h.confirmOverwrite(ctx, g); err != nil || reply != "" {
		if err != nil {
			return nil, err
		}
		return core.Respond(core.NewResponse(reply))
	}

	char, err := h.characters.Generate(ctx.Context, &character.GenerateInput{Method: method})
	if err != nil {
		return nil, err
	}
	if _, err := h.games.SaveCharacter(ctx.Context, &game.SaveCharacterInput{
		ChannelID: ctx.ChannelID,
		PlayerID:  ctx.UserID,
		Character: char,
	}); err != nil {
		return nil, err
	}

	description := "Rolled for " + ctx.DisplayName()
	if method == entities.CreationMethodPointBuy {
		description = "Point buy for " + ctx.DisplayName()
	}
	return core.Respond(core.NewEmbedResponse(CharacterEmbed(char, description, builders.ColorGreen)).
		WithContent(fmt.Sprintf("Random character created for %s!", entities.Mention(ctx.UserID))))
}

// HandleView answers !view_character [@member]
func (h *CharacterHandler) HandleView(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	target := ctx.User
	if mentions := ctx.Mentions(); len(mentions) > 0 {
		target = mentions[0]
	}
	if target == nil {
		return nil, core.NewValidationError("Please mention a player.")
	}

	g, err := h.games.GetGame(ctx.Context, ctx.ChannelID)
	if err != nil {
		return nil, err
	}

	name := ctx.MemberName(target)
	char, ok := g.Character(target.ID)
	if !ok {
		return core.Respond(core.NewResponse(fmt.Sprintf("%s doesn't have a character in this game.", name)))
	}
	return core.Respond(core.NewEmbedResponse(CharacterEmbed(char, "Player: "+name, builders.ColorBlue)))
}

// HandleList answers !list_characters
func (h *CharacterHandler) HandleList(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	g, err := h.games.GetGame(ctx.Context, ctx.ChannelID)
	if err != nil {
		return nil, err
	}
	if len(g.Characters) == 0 {
		return core.Respond(core.NewResponse("No characters have been created in this game yet."))
	}

	embed := builders.NewEmbed().
		Title("🎭 D&D Characters 🎭").
		Description("Characters in this game:").
		Color(builders.ColorPurple)

	// Player order keeps the list stable between calls
	for _, id := range g.PlayerIDs {
		char, ok := g.Character(id)
		if !ok {
			continue
		}
		player := g.PlayerName(id)
		if player == "" {
			player = "Unknown Player"
		}
		embed.Field(char.Name, fmt.Sprintf("Player: %s\nRace: %s\nClass: %s\nLevel: %d", player, char.Race, char.Class, char.Level), true)
	}
	return core.Respond(core.NewEmbedResponse(embed.Build()))
}

// CharacterEmbed renders the sheet shown after creation and by !view_character.
func CharacterEmbed(char *entities.Character, description string, color int) *discordgo.MessageEmbed {
	return builders.NewEmbed().
		Title("Character: "+char.Name).
		Description(description).
		Color(color).
		Field("Class", orUnknown(char.Class), true).
		Field("Level", strconv.Itoa(char.Level), true).
		Field("Race", orUnknown(char.Race), true).
		Field("Background", orUnknown(char.Background), true).
		Field("Alignment", orUnknown(char.Alignment), true).
		Field("Ability Scores", char.Abilities.Line(true), false).
		Build()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
