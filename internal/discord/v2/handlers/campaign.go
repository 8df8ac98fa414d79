package handlers

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/builders"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/selections"
	"github.com/KirkDiggler/emo-bot-discord/internal/services/game"
)

const (
	// ThemeTimeout bounds the wait for the campaign theme.
	ThemeTimeout = 60 * time.Second

	// Discord allows five rows, one is kept for the confirm button.
	maxInventorySelects = 4

	// dmConcurrency caps the parallel kit DMs sent on setup.
	dmConcurrency = 4
)

const readyToStart = "Now players use `!start` to begin this adventure!"

// CampaignHandler runs !campaign_setup and the kit choices players make in DMs.
type CampaignHandler struct {
	games           game.Service
	drafts          selections.Repository
	customIDBuilder *core.CustomIDBuilder
	themeTimeout    time.Duration
}

// CampaignHandlerConfig holds the configuration
type CampaignHandlerConfig struct {
	GameService     game.Service          // Required
	SelectionsRepo  selections.Repository // Required
	CustomIDBuilder *core.CustomIDBuilder // Optional, uses the "kit" domain if nil
	ThemeTimeout    time.Duration
}

// NewCampaignHandler creates a campaign handler
func NewCampaignHandler(cfg *CampaignHandlerConfig) (*CampaignHandler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.GameService == nil {
		return nil, fmt.Errorf("game service is required")
	}
	if cfg.SelectionsRepo == nil {
		return nil, fmt.Errorf("selections repository is required")
	}

	h := &CampaignHandler{
		games:           cfg.GameService,
		drafts:          cfg.SelectionsRepo,
		customIDBuilder: cfg.CustomIDBuilder,
		themeTimeout:    cfg.ThemeTimeout,
	}
	if h.customIDBuilder == nil {
		h.customIDBuilder = core.NewCustomIDBuilder("kit")
	}
	if h.themeTimeout <= 0 {
		h.themeTimeout = ThemeTimeout
	}
	return h, nil
}

// HandleSetup answers !campaign_setup
func (h *CampaignHandler) HandleSetup(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	g, err := h.games.GetGame(ctx.Context, ctx.ChannelID)
	if err != nil {
		if dnderr.IsNotFound(err) {
			return core.Respond(core.NewResponse("There is no active D&D game in this channel. Use `!dnd` to create one first."))
		}
		return nil, err
	}
	if err := game.CheckCampaignSetup(g, ctx.UserID); err != nil {
		if missing := g.MissingCharacters(); len(missing) > 0 && dnderr.IsFailedPrecondition(err) && g.CanManage(ctx.UserID) {
			names := make([]string, 0, len(missing))
			for _, id := range missing {
				names = append(names, g.PlayerName(id))
			}
			return core.Respond(core.NewResponse(fmt.Sprintf(
				"Please make your character first using `!creation` or `!random`. Players without characters: %s",
				strings.Join(names, ", "))))
		}
		return nil, err
	}

	if _, err := ctx.SendEmbed(builders.NewEmbed().
		Title("📜 Campaign Theme Selection 📜").
		Description("Let's set the tone for your adventure!").
		Color(builders.ColorDarkGold).
		Field("Instructions", "Please provide a theme for the campaign (e.g., 'Dark Fantasy', 'Pirate Adventure').", false).
		Build()); err != nil {
		return nil, err
	}

	reply, err := ctx.WaitForMessage(h.themeTimeout, nil)
	if err != nil {
		if errors.Is(err, core.ErrWaitTimeout) {
			return core.Respond(core.NewResponse("Campaign setup timed out. Please try again when you're ready."))
		}
		return nil, err
	}
	theme := strings.TrimSpace(reply.Content)
	if theme == "" {
		return core.Respond(core.NewResponse("No theme provided. Campaign setup cancelled."))
	}

	result, err := h.games.SetupCampaign(ctx.Context, &game.SetupCampaignInput{
		ChannelID: ctx.ChannelID,
		UserID:    ctx.UserID,
		Theme:     theme,
	})
	if err != nil {
		return nil, err
	}

	mentions := make([]string, 0, len(result.Game.PlayerIDs))
	for _, id := range result.Game.PlayerIDs {
		mentions = append(mentions, entities.Mention(id))
	}
	if _, err := ctx.Send(fmt.Sprintf("Welcome, players %s! I am Emo, your Game Master for this %s adventure. Prepare for an epic journey!",
		strings.Join(mentions, ", "), result.Game.Theme)); err != nil {
		return nil, err
	}
	if _, err := ctx.Send("I've sent every player some special choices for their characters. Check them out!!"); err != nil {
		return nil, err
	}

	h.sendKits(ctx, result)

	if len(result.Drafts) == 0 {
		return core.Respond(core.NewResponse(readyToStart))
	}
	return core.Done()
}

// sendKits DMs every player their character and first choice page.
func (h *CampaignHandler) sendKits(ctx *core.InteractionContext, result *game.SetupCampaignResult) {
	drafts := make(map[string]*entities.SelectionDraft, len(result.Drafts))
	for _, d := range result.Drafts {
		drafts[d.PlayerID] = d
	}

	var (
		mu       sync.Mutex
		notices  []string
		finished []string
	)
	eg := new(errgroup.Group)
	eg.SetLimit(dmConcurrency)

	for _, playerID := range result.Game.PlayerIDs {
		playerID := playerID
		char, ok := result.Game.Character(playerID)
		if !ok {
			continue
		}
		if _, skipped := result.Skipped[playerID]; skipped {
			mu.Lock()
			notices = append(notices, fmt.Sprintf("Error: Invalid race '%s' for %s.", char.Race, entities.Mention(playerID)))
			mu.Unlock()
			continue
		}

		draft := drafts[playerID]
		eg.Go(func() error {
			if err := h.sendKit(ctx.Session, playerID, char, result.Game.Theme, draft); err != nil {
				log.Printf("[Games] Failed to DM kit to %s: %v", playerID, err)
				mu.Lock()
				notices = append(notices, fmt.Sprintf("Error: Could not find user %s.", entities.Mention(playerID)))
				mu.Unlock()
				return nil
			}
			if draft == nil {
				mu.Lock()
				finished = append(finished, playerID)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()

	for _, msg := range notices {
		if _, err := ctx.Send(msg); err != nil {
			log.Printf("[Games] Failed to post kit notice: %v", err)
		}
	}
	for _, id := range finished {
		if _, err := ctx.Send(completedMessage(id)); err != nil {
			log.Printf("[Games] Failed to announce %s: %v", id, err)
		}
	}
}

func (h *CampaignHandler) sendKit(s core.Discord, playerID string, char *entities.Character, theme string, draft *entities.SelectionDraft) error {
	dm, err := s.UserChannelCreate(playerID)
	if err != nil {
		return err
	}

	intro := &discordgo.MessageSend{
		Content: fmt.Sprintf("Hail, noble adventurer! Here are some special choices for your character, %s, to prepare for the %s adventure!", char.Name, theme),
		Embeds:  []*discordgo.MessageEmbed{KitEmbed(char, draft)},
	}
	if draft != nil && draft.Step() == entities.SelectionStepInventory {
		intro.Components = h.inventoryComponents(draft)
	}
	if _, err := s.ChannelMessageSendComplex(dm.ID, intro); err != nil {
		return err
	}

	if draft == nil || draft.Step() == entities.SelectionStepInventory {
		return nil
	}
	_, err = s.ChannelMessageSendComplex(dm.ID, h.stepMessage(draft))
	return err
}

// KitEmbed renders a character's base kit. Choosable equipment is listed
// while draft still has inventory groups to pick.
func KitEmbed(char *entities.Character, draft *entities.SelectionDraft) *discordgo.MessageEmbed {
	embed := builders.NewEmbed().
		Title("Character: "+char.Name).
		Description(fmt.Sprintf("A %s %s", char.Race, char.Class)).
		Color(builders.ColorGold).
		Field("Languages", joinOr(char.Languages, ", ", "Common"), true).
		Field("Traits & Features", fmt.Sprintf("**Traits:** %s\n**Class Features:** %s",
			joinOr(char.Traits, ", ", "None"), joinOr(char.ClassFeatures, ", ", "None")), false).
		Field("Ability Scores", char.Abilities.Line(false), false)

	if draft != nil && len(draft.InventoryGroups) > 0 {
		embed.Field("Inventory", joinOr(draft.FixedItems, ", ", "None yet"), true)
		pairs := make([]string, 0, len(draft.InventoryGroups))
		for _, group := range draft.InventoryGroups {
			pairs = append(pairs, strings.Join(group, " OR "))
		}
		embed.Field("Choosable Equipment", strings.Join(pairs, ", ")+"\n**Choose one from each**", false)
	} else {
		embed.Field("Inventory", joinOr(char.Inventory, ", ", "None yet"), true)
	}
	return embed.Build()
}

func (h *CampaignHandler) inventoryComponents(draft *entities.SelectionDraft) []discordgo.MessageComponent {
	b := builders.NewComponentBuilder()
	for i, group := range draft.InventoryGroups {
		if i == maxInventorySelects {
			break
		}
		pick := ""
		if i < len(draft.InventoryPicks) {
			pick = draft.InventoryPicks[i]
		}
		options := builders.Options(group)
		for j := range options {
			options[j].Default = options[j].Value == pick || (pick == "" && j == 0)
		}
		b.SelectMenu("Choose an item...", h.customIDBuilder.Select("item", draft.GameID, strconv.Itoa(i)), options)
	}
	b.SuccessButton("Confirm", h.customIDBuilder.Button("confirm", draft.GameID, string(entities.SelectionStepInventory)))
	return b.Build()
}

// stepMessage builds the page for a skills, cantrips or spells step.
func (h *CampaignHandler) stepMessage(draft *entities.SelectionDraft) *discordgo.MessageSend {
	step := draft.Step()
	if step == entities.SelectionStepInventory {
		return &discordgo.MessageSend{
			Content:    fmt.Sprintf("Choose your equipment for %s.", draft.Character),
			Components: h.inventoryComponents(draft),
		}
	}

	options, count, chosen := draft.Choices(step)
	title, field, noun := stepLabels(step)

	embed := builders.NewEmbed().
		Title(fmt.Sprintf("%s for %s", title, draft.Character)).
		Description(fmt.Sprintf("Choose your %s for the %s adventure!", strings.ToLower(title), draft.Theme)).
		Color(builders.ColorGold).
		Field(fmt.Sprintf("%s (Choose %d)", field, count), builders.Truncate(strings.Join(options, ", "), 1024), false).
		Build()

	selectOptions := builders.Options(options)
	for i := range selectOptions {
		selectOptions[i].Default = slices.Contains(chosen, selectOptions[i].Value)
	}
	components := builders.NewComponentBuilder().
		SelectMenu(fmt.Sprintf("Choose %d %s...", count, noun), h.customIDBuilder.Select(string(step), draft.GameID), selectOptions,
			builders.SelectConfig{MinValues: count, MaxValues: count}).
		SuccessButton("Confirm", h.customIDBuilder.Button("confirm", draft.GameID, string(step))).
		Build()

	return &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	}
}

// stepLabels returns the embed title, field name and plural noun of a step.
func stepLabels(step entities.SelectionStep) (title, field, noun string) {
	switch step {
	case entities.SelectionStepSkills:
		return "Skills", "Skills", "skills"
	case entities.SelectionStepCantrips:
		return "Cantrips", "Cantrips", "cantrips"
	case entities.SelectionStepSpells:
		return "Spells", "1st-Level Spells", "spells"
	default:
		return "Inventory", "Inventory", "items"
	}
}

// openDraft loads the clicking player's draft for the game in the custom id.
func (h *CampaignHandler) openDraft(ctx *core.InteractionContext) (*entities.SelectionDraft, *core.CustomID, error) {
	id, err := core.ParseCustomID(ctx.GetCustomID())
	if err != nil {
		return nil, nil, core.NewValidationError("Unknown selection.")
	}
	draft, err := h.drafts.Get(ctx.Context, id.Target, ctx.UserID)
	if err != nil {
		if dnderr.IsNotFound(err) {
			return nil, nil, core.NewUserError("These choices are no longer open.", core.ErrorCodeNotFound)
		}
		return nil, nil, err
	}
	return draft, id, nil
}

// HandleItem stores one inventory pick
func (h *CampaignHandler) HandleItem(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	draft, id, err := h.openDraft(ctx)
	if err != nil {
		return nil, err
	}
	args, err := id.IntArgs(1)
	if err != nil || args[0] < 0 || args[0] >= len(draft.InventoryGroups) {
		return nil, core.NewValidationError("Unknown equipment choice.")
	}
	i := args[0]
	values := ctx.GetValues()
	if len(values) == 0 || !slices.Contains(draft.InventoryGroups[i], values[0]) {
		return nil, core.NewValidationError("Please pick one of the listed items.")
	}

	for len(draft.InventoryPicks) < len(draft.InventoryGroups) {
		draft.InventoryPicks = append(draft.InventoryPicks, "")
	}
	draft.InventoryPicks[i] = values[0]
	if err := h.drafts.Save(ctx.Context, draft); err != nil {
		return nil, err
	}
	return core.Done()
}

// HandleChoices stores the skills, cantrips or spells picked on a step
func (h *CampaignHandler) HandleChoices(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	draft, id, err := h.openDraft(ctx)
	if err != nil {
		return nil, err
	}
	step := entities.SelectionStep(id.Action)
	options, _, _ := draft.Choices(step)

	values := ctx.GetValues()
	for _, v := range values {
		if !slices.Contains(options, v) {
			return nil, core.NewValidationError("Please pick from the listed options.")
		}
	}
	draft.SetChoices(step, values)
	if err := h.drafts.Save(ctx.Context, draft); err != nil {
		return nil, err
	}
	return core.Done()
}

// HandleConfirm locks the current step and moves the player on
func (h *CampaignHandler) HandleConfirm(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	draft, id, err := h.openDraft(ctx)
	if err != nil {
		return nil, err
	}
	step := draft.Step()
	if string(step) != id.Arg(0) {
		return core.Respond(core.NewEphemeralResponse("This step is already confirmed."))
	}

	if step != entities.SelectionStepInventory {
		_, count, chosen := draft.Choices(step)
		if len(chosen) != count {
			_, _, noun := stepLabels(step)
			return core.Respond(core.NewEphemeralResponse(fmt.Sprintf("Please select %d %s before confirming.", count, noun)))
		}
	}

	locked := lockedMessage(draft, step)
	next := draft.Advance()

	if next != entities.SelectionStepDone {
		if err := h.drafts.Save(ctx.Context, draft); err != nil {
			return nil, err
		}
		if _, err := ctx.Session.ChannelMessageSendComplex(ctx.ChannelID, h.stepMessage(draft)); err != nil {
			return nil, err
		}
		return core.Respond(locked)
	}

	applied, err := h.games.ApplySelections(ctx.Context, draft)
	if err != nil {
		return nil, err
	}

	if _, err := ctx.Session.ChannelMessageSendComplex(ctx.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("All choices for %s are locked in. Good luck on the %s adventure!", applied.Character.Name, draft.Theme),
		Embeds:  []*discordgo.MessageEmbed{KitEmbed(applied.Character, nil)},
	}); err != nil {
		log.Printf("[Games] Failed to DM final kit to %s: %v", draft.PlayerID, err)
	}
	if _, err := ctx.Session.ChannelMessageSend(draft.GameID, completedMessage(draft.PlayerID)); err != nil {
		log.Printf("[Games] Failed to announce %s: %v", draft.PlayerID, err)
	}
	if applied.AllDone {
		if _, err := ctx.Session.ChannelMessageSend(draft.GameID, readyToStart); err != nil {
			log.Printf("[Games] Failed to announce ready game %s: %v", draft.GameID, err)
		}
	}
	return core.Respond(locked)
}

// lockedMessage replaces a confirmed page with a summary and no components.
func lockedMessage(draft *entities.SelectionDraft, step entities.SelectionStep) *core.Response {
	if step == entities.SelectionStepInventory {
		embed := builders.NewEmbed().
			Title("Character: "+draft.Character).
			Color(builders.ColorGold).
			Field("Inventory", joinOr(draft.Inventory(), ", ", "None"), true).
			Field("Chosen Equipment", "Your chosen items are locked: "+strings.Join(draft.ChosenItems(), ", "), false).
			Build()
		return core.NewEmbedResponse(embed).
			WithContent(fmt.Sprintf("Your inventory for %s is set!", draft.Character)).
			AsUpdate()
	}

	_, _, chosen := draft.Choices(step)
	title, field, noun := stepLabels(step)
	embed := builders.NewEmbed().
		Title(fmt.Sprintf("%s for %s", title, draft.Character)).
		Color(builders.ColorGold).
		Field(field, strings.Join(chosen, ", "), false).
		Build()
	return core.NewEmbedResponse(embed).
		WithContent(fmt.Sprintf("Your %s for %s are set!", noun, draft.Character)).
		AsUpdate()
}

func completedMessage(playerID string) string {
	return fmt.Sprintf("Player %s completed the special choices for their character.", entities.Mention(playerID))
}
