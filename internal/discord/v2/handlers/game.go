package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/builders"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/domain/rulebook"
	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
	"github.com/KirkDiggler/emo-bot-discord/internal/services/game"
)

const (
	// SetupTimeout bounds each question of !dnd and !campaign_setup.
	SetupTimeout = 60 * time.Second

	icChannelName  = "IC Chat dnd"
	oocThreadName  = "OOC Chat (D&D)"
	noGameMessage  = "There is no active D&D game in this channel. Use `!dnd` to create one."
	barBlocks      = 10
	defaultAligned = "Neutral"
)

// GameHandler runs the lifecycle commands of a channel's game.
type GameHandler struct {
	service      game.Service
	book         *rulebook.Book
	setupTimeout time.Duration
}

// GameHandlerConfig holds the configuration
type GameHandlerConfig struct {
	Service  game.Service   // Required
	Rulebook *rulebook.Book // Optional, defaults to the embedded tables

	// SetupTimeout overrides how long setup questions wait for an answer
	SetupTimeout time.Duration
}

// NewGameHandler creates a game handler
func NewGameHandler(cfg *GameHandlerConfig) (*GameHandler, error) {
	if cfg == nil || cfg.Service == nil {
		return nil, fmt.Errorf("game service is required")
	}
	h := &GameHandler{
		service:      cfg.Service,
		book:         cfg.Rulebook,
		setupTimeout: cfg.SetupTimeout,
	}
	if h.book == nil {
		h.book = rulebook.Default()
	}
	if h.setupTimeout <= 0 {
		h.setupTimeout = SetupTimeout
	}
	return h, nil
}

// HandleSetup answers !dnd: ask for players, then for the game master.
func (h *GameHandler) HandleSetup(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	if _, err := h.service.GetGame(ctx.Context, ctx.ChannelID); err == nil {
		return core.Respond(core.NewResponse("A D&D game is already set up in this channel."))
	} else if !dnderr.IsNotFound(err) {
		return nil, err
	}

	if _, err := ctx.SendEmbed(builders.NewEmbed().
		Title("🎲 D&D Game Setup 🐉").
		Description("Let's set up your Dungeons & Dragons game!").
		Color(builders.ColorDarkPurple).
		Build()); err != nil {
		return nil, err
	}
	if _, err := ctx.Send("**Step 1:** Please tag all `players` who will participate (including `yourself` if you're playing)"); err != nil {
		return nil, err
	}

	playerMsg, err := ctx.WaitForMessage(h.setupTimeout, nil)
	if err != nil {
		return h.setupTimedOut(err, "Setup timed out. Please try again when you're ready.")
	}
	if len(playerMsg.Mentions) == 0 {
		return core.Respond(core.NewResponse("No players were mentioned. Game setup cancelled."))
	}

	ids := make([]string, 0, len(playerMsg.Mentions))
	names := make([]string, 0, len(playerMsg.Mentions))
	var options strings.Builder
	options.WriteString("**0.** Emo (AI Game Master)\n")
	for i, u := range playerMsg.Mentions {
		name := ctx.MemberName(u)
		ids = append(ids, u.ID)
		names = append(names, name)
		fmt.Fprintf(&options, "**%d.** %s\n", i+1, name)
	}

	if _, err := ctx.SendEmbed(builders.NewEmbed().
		Title("Game Master Selection:-").
		Description("Who will be the Game Master (DM)?").
		Color(builders.ColorDarkPurple).
		Field("Options:", options.String(), true).
		Build()); err != nil {
		return nil, err
	}
	if _, err := ctx.Send("Enter the `number` of your choice:"); err != nil {
		return nil, err
	}

	choiceMsg, err := ctx.WaitForMessage(h.setupTimeout, nil)
	if err != nil {
		return h.setupTimedOut(err, "Setup timed out. Please try again when you're ready.")
	}
	choice, err := strconv.Atoi(strings.TrimSpace(choiceMsg.Content))
	if err != nil {
		return core.Respond(core.NewResponse("Please enter a valid number. Game setup cancelled."))
	}
	if choice < 0 || choice > len(ids) {
		return core.Respond(core.NewResponse("Invalid choice. Game setup cancelled."))
	}

	created, err := h.service.CreateGame(ctx.Context, &game.CreateGameInput{
		ChannelID:        ctx.ChannelID,
		GuildID:          ctx.GuildID,
		CreatorID:        ctx.UserID,
		PlayerIDs:        ids,
		PlayerNames:      names,
		GameMasterChoice: choice,
		BotUserID:        ctx.BotID,
	})
	if err != nil {
		return nil, err
	}

	if _, err := ctx.SendEmbed(builders.NewEmbed().
		Title("🎲 D&D Game Created! 🐉").
		Description("Your game has been set up successfully!").
		Color(builders.ColorGreen).
		Field("Players", strings.Join(created.Players, ", "), true).
		Field("Game Master", created.GameMaster, true).
		Build()); err != nil {
		return nil, err
	}

	if created.IsAIGM {
		return core.Respond(core.NewResponse("**Emo** will be your Game Master! Use `!campaign_setup` to start creating your adventure (Use `!creation` or `!random` to create/generate a character)"))
	}
	return core.Respond(core.NewResponse(fmt.Sprintf("%s will be your Game Master! More **D&D commands** will be available soon.", created.GameMaster)))
}

// setupTimedOut turns a wait failure into the timeout reply. A cancelled
// context is a shutdown and is passed up.
func (h *GameHandler) setupTimedOut(err error, message string) (*core.HandlerResult, error) {
	if errors.Is(err, core.ErrWaitTimeout) {
		return core.Respond(core.NewResponse(message))
	}
	return nil, err
}

// gameHere loads the game created in the context's channel.
func (h *GameHandler) gameHere(ctx *core.InteractionContext) (*entities.GameSession, error) {
	g, err := h.service.GetGame(ctx.Context, ctx.ChannelID)
	if err != nil {
		if dnderr.IsNotFound(err) {
			return nil, core.NewUserError(noGameMessage, core.ErrorCodeNotFound)
		}
		return nil, err
	}
	return g, nil
}

// HandleStatus answers !dnd_status
func (h *GameHandler) HandleStatus(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	g, err := h.gameHere(ctx)
	if err != nil {
		return nil, err
	}
	return core.Respond(core.NewEmbedResponse(StatusEmbed(g)))
}

// StatusEmbed renders the !dnd_status summary of a game.
func StatusEmbed(g *entities.GameSession) *discordgo.MessageEmbed {
	embed := builders.NewEmbed().
		Title("🎲 D&D Game Status 🐉").
		Description("Current game information:").
		Color(builders.ColorBlue).
		Field("Game Master", g.GameMaster, true).
		Field("Players", strings.Join(g.Players, ", "), false).
		Field("State", entities.Capitalize(string(g.State)), true)

	if g.Campaign != nil {
		name := g.Campaign.Name
		if name == "" {
			name = "Unnamed"
		}
		embed.Field("Campaign", name, true)
	}
	if g.Theme != "" {
		embed.Field("Theme", g.Theme, true)
	}
	if len(g.Characters) > 0 {
		embed.Field("Characters", fmt.Sprintf("%d created", len(g.Characters)), true)
	}
	if g.CurrentScene != nil {
		name := g.CurrentScene.Name
		if name == "" {
			name = "Unknown"
		}
		embed.Field("Current Scene", name, true)
	}
	if g.Combat.Active {
		embed.Field("Combat", fmt.Sprintf("Active - Round %d", g.Combat.Round), true)
	}
	return embed.Build()
}

// HandleEnd answers !end_dnd. From the OOC thread it tears down the play
// channels, from the game channel it only ends games that never started.
func (h *GameHandler) HandleEnd(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	input := &game.EndGameInput{ChannelID: ctx.ChannelID, UserID: ctx.UserID}
	if ch, err := ctx.Session.Channel(ctx.ChannelID); err == nil && ch.IsThread() {
		input.IsThread = true
		input.ParentChannelID = ch.ParentID
	}

	ended, err := h.service.EndGame(ctx.Context, input)
	if err != nil {
		return nil, err
	}

	if !input.IsThread {
		return core.Respond(core.NewResponse("The D&D game has been ended before starting. All narration files have been deleted. Thanks for playing!"))
	}

	// The thread is about to disappear, so the goodbye goes to the game channel.
	h.deletePlayChannels(ctx, ended)
	if _, err := ctx.Session.ChannelMessageSend(ended.ChannelID, "The D&D game has ended. The IC channel, OOC thread, and narration files have been deleted. Thanks for playing!"); err != nil {
		log.Printf("[Games] Failed to announce end of game %s: %v", ended.ChannelID, err)
	}
	return core.Done()
}

// deletePlayChannels removes the IC channel and OOC thread in parallel.
// Missing channels are logged and skipped.
func (h *GameHandler) deletePlayChannels(ctx *core.InteractionContext, g *entities.GameSession) {
	var eg errgroup.Group
	for _, id := range []string{g.OOCThreadID, g.ICChannelID} {
		if id == "" {
			continue
		}
		eg.Go(func() error {
			if _, err := ctx.Session.ChannelDelete(id); err != nil {
				return fmt.Errorf("channel %s: %w", id, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		log.Printf("[Games] Warning: cleanup of game %s incomplete: %v", g.ChannelID, err)
	}
}

// HandleStart answers !start: create the IC channel and OOC thread.
func (h *GameHandler) HandleStart(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	g, err := h.gameHere(ctx)
	if err != nil {
		return nil, err
	}
	if err := game.CheckStart(g); err != nil {
		return nil, err
	}

	const botAccess = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionManageMessages
	overwrites := []*discordgo.PermissionOverwrite{
		{ID: ctx.GuildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
	}
	if ctx.BotID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{ID: ctx.BotID, Type: discordgo.PermissionOverwriteTypeMember, Allow: botAccess})
	}
	for _, id := range g.PlayerIDs {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{ID: id, Type: discordgo.PermissionOverwriteTypeMember, Allow: memberAccess})
	}

	ic, err := ctx.Session.GuildChannelCreateComplex(ctx.GuildID, discordgo.GuildChannelCreateData{
		Name:                 icChannelName,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("In-character chat for the %s adventure!", g.Theme),
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create IC channel: %w", err)
	}

	ooc, err := ctx.Session.ThreadStartComplex(ic.ID, &discordgo.ThreadStart{
		Name: oocThreadName,
		Type: discordgo.ChannelTypeGuildPublicThread,
	})
	if err != nil {
		h.rollbackChannel(ctx, ic.ID)
		return nil, fmt.Errorf("failed to create OOC thread: %w", err)
	}

	if _, err := h.service.StartGame(ctx.Context, &game.StartGameInput{
		ChannelID:   g.ChannelID,
		ICChannelID: ic.ID,
		OOCThreadID: ooc.ID,
	}); err != nil {
		h.rollbackChannel(ctx, ic.ID)
		return nil, err
	}

	if _, err := ctx.Send(fmt.Sprintf("The adventure begins! Join the private channel <#%s> for in-character play. Use the thread <#%s> for out-of-character chat.", ic.ID, ooc.ID)); err != nil {
		return nil, err
	}
	for _, msg := range []string{
		fmt.Sprintf("Welcome to the %s adventure, brave heroes! Your journey starts here.", g.Theme),
		"use '!emo' to give your game master take control over game in IC Chat",
		"`Disclaimer: Only Use Ic Chat For In Game Conversation!!`",
	} {
		if _, err := ctx.Session.ChannelMessageSend(ic.ID, msg); err != nil {
			log.Printf("[Games] Failed to welcome players in %s: %v", ic.ID, err)
		}
	}
	if _, err := ctx.Session.ChannelMessageSend(ooc.ID, "This is the OOC thread for side chats and questions!"); err != nil {
		log.Printf("[Games] Failed to open OOC thread %s: %v", ooc.ID, err)
	}
	return core.Done()
}

// rollbackChannel deletes a channel created by a !start that failed later.
// Deleting a channel also deletes its threads.
func (h *GameHandler) rollbackChannel(ctx *core.InteractionContext, id string) {
	if _, err := ctx.Session.ChannelDelete(id); err != nil {
		log.Printf("[Games] Failed to roll back channel %s: %v", id, err)
	}
}

// HandleProfile answers !profile in the OOC thread of a started game
func (h *GameHandler) HandleProfile(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	g, err := h.service.GetGameByLinkedChannel(ctx.Context, ctx.ChannelID)
	if err != nil {
		return nil, err
	}
	if g.OOCThreadID != ctx.ChannelID || g.State != entities.GameStateStarted {
		return core.Respond(core.NewResponse("Use `!profile` in the OOC thread after the game has started with `!emo`."))
	}

	char, ok := g.Character(ctx.UserID)
	if !ok {
		return core.Respond(core.NewResponse("You don’t have a character in this game. Use `!creation` or `!random` to make one."))
	}

	avatar := ""
	if ctx.User != nil {
		avatar = ctx.User.AvatarURL("")
	}
	return core.Respond(core.NewEmbedResponse(ProfileEmbed(char, h.book, ctx.DisplayName(), avatar)))
}

// ProgressBar draws a 10 block bar for value out of max.
func ProgressBar(value, max int) string {
	filled := 0
	if max > 0 {
		filled = value * barBlocks / max
	}
	if filled < 0 {
		filled = 0
	}
	if filled > barBlocks {
		filled = barBlocks
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barBlocks-filled)
}

// ProfileEmbed renders the !profile card of a character.
func ProfileEmbed(char *entities.Character, book *rulebook.Book, player, avatarURL string) *discordgo.MessageEmbed {
	backstory := char.Backstory
	if backstory == "" {
		backstory = "A mysterious adventurer."
	}
	level := char.Level
	if level < 1 {
		level = 1
	}
	maxHP := char.MaxHP
	if maxHP <= 0 {
		maxHP = entities.DefaultMaxHP
	}
	alignment := char.Alignment
	if alignment == "" {
		alignment = defaultAligned
	}
	next := char.NextLevelExp()

	return builders.NewEmbed().
		Title(fmt.Sprintf("✨ %s ✨", char.Name)).
		Description(fmt.Sprintf("_%s %s_\n%s", char.Race, char.Class, backstory)).
		Color(builders.ColorGold).
		Thumbnail(book.ImageFor(char.Race, char.Class)).
		Field("⚔️ Level", fmt.Sprintf("• **%d**", level), true).
		Field(fmt.Sprintf("❤️ HP: %d/%d", char.HP, maxHP), fmt.Sprintf("`[%s]`", ProgressBar(char.HP, maxHP)), true).
		Field(fmt.Sprintf("🌟 Exp: %d/%d", char.Exp, next), fmt.Sprintf("`[%s]`", ProgressBar(char.Exp, next)), true).
		Field("📊 Ability Scores", char.Abilities.Line(true), false).
		Field("🗣️ Languages", joinOr(char.Languages, ", ", "Common"), true).
		Field("🌍 Traits", joinOr(char.Traits, ", ", "None"), true).
		AddBlankField(false).
		Field("🎒 Inventory", bulleted(char.Inventory), true).
		Field("🛠️ Skills", bulleted(char.Skills), true).
		Field("🔮 Cantrips", joinOr(char.Cantrips, ", ", "None"), true).
		Field("✨ Spells", joinOr(char.Spells, ", ", "None"), true).
		AddBlankField(false).
		Footer(fmt.Sprintf("Player: %s | Alignment: %s", player, alignment), avatarURL).
		Build()
}

func joinOr(items []string, sep, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, sep)
}

func bulleted(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}
