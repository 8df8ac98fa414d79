package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/emo-bot-discord/internal/dice"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/builders"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
	"github.com/KirkDiggler/emo-bot-discord/internal/services/game"
)

// DiceImage is the thumbnail of the dice roller.
const DiceImage = "https://media.discordapp.net/attachments/1195744344989249646/1352656420205629490/New_dice.png"

const (
	maxDice     = 10
	maxModifier = 10
)

var dieEmojis = map[int]string{4: "🔺", 6: "🎲", 8: "🔶", 10: "🔷", 12: "🔳", 20: "🔴", 100: "💯"}

var dieNames = map[int]string{
	4:   "Four-sided die",
	6:   "Six-sided die",
	8:   "Eight-sided die",
	10:  "Ten-sided die",
	12:  "Twelve-sided die",
	20:  "Twenty-sided die",
	100: "Percentile die",
}

var dieColors = map[int]int{
	4:   0x00FF00,
	6:   0xFFFF00,
	8:   0xFF9900,
	10:  0x0099FF,
	12:  0x9900FF,
	20:  0xFF0000,
	100: 0xFFFFFF,
}

// rollSetup is the roller state carried in every component's custom id as
// owner:sides:count:bonus.
type rollSetup struct {
	owner string
	sides int
	count int
	bonus int
}

func defaultSetup(owner string) rollSetup {
	return rollSetup{owner: owner, sides: 20, count: 1}
}

func (s rollSetup) args() []string {
	return []string{strconv.Itoa(s.sides), strconv.Itoa(s.count), strconv.Itoa(s.bonus)}
}

func (s rollSetup) emoji() string {
	if e, ok := dieEmojis[s.sides]; ok {
		return e
	}
	return "🎲"
}

func parseSetup(id *core.CustomID) (rollSetup, error) {
	v, err := id.IntArgs(3)
	if err != nil {
		return rollSetup{}, fmt.Errorf("invalid roller state: %w", err)
	}
	return rollSetup{owner: id.Target, sides: v[0], count: v[1], bonus: v[2]}.clamped(), nil
}

func (s rollSetup) clamped() rollSetup {
	if _, ok := dieNames[s.sides]; !ok {
		s.sides = 20
	}
	s.count = min(max(s.count, 1), maxDice)
	s.bonus = min(max(s.bonus, -maxModifier), maxModifier)
	return s
}

// RollHandler serves the interactive dice roller in OOC threads.
type RollHandler struct {
	games           game.Service
	roller          dice.Roller
	customIDBuilder *core.CustomIDBuilder
}

// RollHandlerConfig holds the configuration
type RollHandlerConfig struct {
	GameService     game.Service          // Required
	Roller          dice.Roller           // Optional, uses the shared random roller if nil
	CustomIDBuilder *core.CustomIDBuilder // Optional, uses the "roll" domain if nil
}

// NewRollHandler creates a dice roller handler
func NewRollHandler(cfg *RollHandlerConfig) (*RollHandler, error) {
	if cfg == nil || cfg.GameService == nil {
		return nil, fmt.Errorf("game service is required")
	}
	h := &RollHandler{
		games:           cfg.GameService,
		roller:          cfg.Roller,
		customIDBuilder: cfg.CustomIDBuilder,
	}
	if h.roller == nil {
		h.roller = dice.NewRandomRoller()
	}
	if h.customIDBuilder == nil {
		h.customIDBuilder = core.NewCustomIDBuilder("roll")
	}
	return h, nil
}

// HandleRoll answers !roll with a fresh roller
func (h *RollHandler) HandleRoll(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	g, err := h.games.GetGameByLinkedChannel(ctx.Context, ctx.ChannelID)
	if err != nil && !dnderr.IsNotFound(err) {
		return nil, err
	}
	if g == nil || !g.HasStarted() || g.OOCThreadID != ctx.ChannelID {
		return core.Respond(core.NewResponse("You can only use !roll in the OOC thread after the game has started!"))
	}

	setup := defaultSetup(ctx.UserID)
	return core.Respond(core.NewEmbedResponse(h.setupEmbed(ctx.DisplayName(), setup)).
		WithComponents(h.components(setup)...))
}

// owned parses the roller state and refuses clicks by anyone but its owner.
// A non-nil response means the interaction stops there.
func (h *RollHandler) owned(ctx *core.InteractionContext) (rollSetup, *core.Response, error) {
	id, err := core.ParseCustomID(ctx.GetCustomID())
	if err != nil {
		return rollSetup{}, nil, core.NewValidationError("Unknown dice roller.")
	}
	setup, err := parseSetup(id)
	if err != nil {
		return rollSetup{}, nil, core.NewValidationError("This dice roller is broken, use `!roll` again.")
	}
	if setup.owner != ctx.UserID {
		return setup, core.NewEphemeralResponse("This dice roller belongs to someone else!"), nil
	}
	return setup, nil, nil
}

// HandleSelect applies a die, count or modifier pick
func (h *RollHandler) HandleSelect(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	setup, refusal, err := h.owned(ctx)
	if err != nil {
		return nil, err
	}
	if refusal != nil {
		return core.Respond(refusal)
	}

	values := ctx.GetValues()
	if len(values) == 0 {
		return core.Done()
	}
	v, err := strconv.Atoi(values[0])
	if err != nil {
		return nil, core.NewValidationError("Invalid choice.")
	}

	id, _ := core.ParseCustomID(ctx.GetCustomID())
	switch id.Action {
	case "die":
		setup.sides = v
	case "count":
		setup.count = v
	case "bonus":
		setup.bonus = v
	}
	setup = setup.clamped()

	return core.Respond(core.NewEmbedResponse(h.setupEmbed(ctx.DisplayName(), setup)).
		WithComponents(h.components(setup)...).
		AsUpdate())
}

// HandleThrow rolls with the button's mode and replaces the roller with the result
func (h *RollHandler) HandleThrow(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	setup, refusal, err := h.owned(ctx)
	if err != nil {
		return nil, err
	}
	if refusal != nil {
		return core.Respond(refusal)
	}

	id, _ := core.ParseCustomID(ctx.GetCustomID())
	var (
		result   *dice.RollResult
		switched bool
	)
	switch id.Action {
	case "advantage", "disadvantage":
		if setup.sides != 20 {
			setup.sides = 20
			switched = true
		}
		if id.Action == "advantage" {
			result, err = h.roller.RollWithAdvantage(setup.sides, setup.bonus)
		} else {
			result, err = h.roller.RollWithDisadvantage(setup.sides, setup.bonus)
		}
	default:
		result, err = h.roller.Roll(setup.count, setup.sides, setup.bonus)
	}
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to roll dice")
	}

	embed := h.resultEmbed(ctx.DisplayName(), setup, result)
	if switched {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Note",
			Value: "Advantage/Disadvantage only works with d20 rolls! Changing to d20...",
		})
	}
	return core.Respond(core.NewEmbedResponse(embed).AsUpdate())
}

// HandleHelp shows the beginner's guide to dice privately
func (h *RollHandler) HandleHelp(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	embed := builders.NewEmbed().
		Title("🎲 Dice Rolling Guide for Beginners").
		Description("Here's a quick guide to understanding dice rolls in D&D!").
		Color(builders.ColorDiceHelp).
		Field("📊 Dice Types", "• **d4, d6, d8, d10, d12, d20, d100**: Dice with different numbers of sides\n"+
			"• **d20**: Most common for skill checks, attacks, and saving throws\n"+
			"• **d6, d8, d10, d12**: Usually for damage rolls\n"+
			"• **d100**: Used for percentages and random tables", false).
		Field("➕ Modifiers", "• **Modifier**: A number you add to or subtract from the dice roll\n"+
			"• Example: If you have +3 Strength, you add 3 to Strength-based rolls", false).
		Field("🔄 Advantage & Disadvantage", "• **Advantage**: Roll two d20s and take the **higher** result\n"+
			"• **Disadvantage**: Roll two d20s and take the **lower** result\n"+
			"• These only apply to d20 rolls!", false).
		Field("💡 Examples", "• \"Roll a d20+5 for Persuasion\" means roll a 20-sided die and add 5\n"+
			"• \"2d6+3 damage\" means roll two 6-sided dice, add them up, then add 3\n"+
			"• \"Roll with advantage\" means roll 2d20 and use the higher number", false).
		Build()
	return core.Respond(core.NewEmbedResponse(embed).AsEphemeral())
}

func (h *RollHandler) baseEmbed(owner string, setup rollSetup) *builders.EmbedBuilder {
	color, ok := dieColors[setup.sides]
	if !ok {
		color = builders.ColorGold
	}
	return builders.NewEmbed().
		Title(fmt.Sprintf("✨ %s's Dice Roller ✨", owner)).
		Description("The fate of your adventure hangs in the balance...").
		Color(color).
		Thumbnail(DiceImage)
}

func (h *RollHandler) setupEmbed(owner string, setup rollSetup) *discordgo.MessageEmbed {
	e := setup.emoji()
	return h.baseEmbed(owner, setup).
		Field("🎮 Current Setup", fmt.Sprintf("%s **%s** %s", e, dice.Notation(setup.count, setup.sides, setup.bonus), e), false).
		Field("📝 Instructions", "1. Select options from the dropdowns\n2. Click a button to roll the dice!", false).
		Field("⬆️ Advantage", "Roll 2d20, take highest", true).
		Field("🎲 Normal Roll", fmt.Sprintf("Roll %dd%d", setup.count, setup.sides), true).
		Field("⬇️ Disadvantage", "Roll 2d20, take lowest", true).
		Footer("Click the ❓ Help button if you're confused about dice rolling").
		Build()
}

func (h *RollHandler) resultEmbed(owner string, setup rollSetup, result *dice.RollResult) *discordgo.MessageEmbed {
	e := setup.emoji()

	rolls := make([]string, 0, len(result.Rolls))
	for _, r := range result.Rolls {
		rolls = append(rolls, fmt.Sprintf("**%d**", r))
	}
	title := e + " Roll Results"
	if result.Mode != dice.ModeNormal {
		title += fmt.Sprintf(" (%s)", result.Mode)
	}

	calculation := fmt.Sprintf("Sum: %d", result.Sum())
	if result.Bonus != 0 {
		calculation += fmt.Sprintf(" %+d (modifier)", result.Bonus)
	}

	total := fmt.Sprintf("**%d**", result.Total)
	switch dice.Judge(result.Sides, result.Total) {
	case dice.VerdictCriticalSuccess:
		total = fmt.Sprintf("⭐ %d ⭐ CRITICAL SUCCESS!", result.Total)
	case dice.VerdictCriticalFailure:
		total = fmt.Sprintf("☠️ %d ☠️ CRITICAL FAILURE!", result.Total)
	}

	embed := h.baseEmbed(owner, setup).
		Field(title, fmt.Sprintf("%s [%s] %s", e, strings.Join(rolls, ", "), e), false).
		Field("Calculation", calculation, true).
		Field("Total", total, true)
	if explanation := dice.Explain(result.Sides, result.Total); explanation != "" {
		embed.Field("What Does This Mean?", explanation, false)
	}

	switch result.Mode {
	case dice.ModeAdvantage:
		embed.Footer("With advantage: rolling twice and taking the higher result!")
	case dice.ModeDisadvantage:
		embed.Footer("With disadvantage: rolling twice and taking the lower result!")
	default:
		embed.Footer("Copy this number when Emo asks for your roll result!")
	}
	return embed.Build()
}

func (h *RollHandler) components(setup rollSetup) []discordgo.MessageComponent {
	b := h.customIDBuilder
	args := setup.args()

	dieOptions := make([]builders.SelectOption, 0, len(dice.StandardDice))
	for _, sides := range dice.StandardDice {
		dieOptions = append(dieOptions, builders.SelectOption{
			Label:       fmt.Sprintf("d%d", sides),
			Value:       strconv.Itoa(sides),
			Description: dieNames[sides],
			Emoji:       dieEmojis[sides],
			Default:     sides == setup.sides,
		})
	}

	countOptions := make([]builders.SelectOption, 0, maxDice)
	for i := 1; i <= maxDice; i++ {
		desc := fmt.Sprintf("Roll %d dice", i)
		if i == 1 {
			desc = "Roll 1 die"
		}
		countOptions = append(countOptions, builders.SelectOption{
			Label:       strconv.Itoa(i),
			Value:       strconv.Itoa(i),
			Description: desc,
			Default:     i == setup.count,
		})
	}

	bonusOptions := make([]builders.SelectOption, 0, 2*maxModifier+1)
	for i := -maxModifier; i <= maxModifier; i++ {
		desc := "No modifier"
		switch {
		case i > 0:
			desc = fmt.Sprintf("Add %d to roll result", i)
		case i < 0:
			desc = fmt.Sprintf("Subtract %d from roll result", -i)
		}
		bonusOptions = append(bonusOptions, builders.SelectOption{
			Label:       fmt.Sprintf("%+d", i),
			Value:       strconv.Itoa(i),
			Description: desc,
			Default:     i == setup.bonus,
		})
	}

	return builders.NewComponentBuilder().
		SelectMenu("✨ Choose Die Type ✨", b.Select("die", setup.owner, args...), dieOptions).
		SelectMenu("🎲 Number of Dice 🎲", b.Select("count", setup.owner, args...), countOptions).
		SelectMenu("🔢 Modifier 🔢", b.Select("bonus", setup.owner, args...), bonusOptions).
		EmojiButton("Advantage", "⬆️", discordgo.SuccessButton, b.Button("advantage", setup.owner, args...)).
		EmojiButton("Roll", "🎲", discordgo.PrimaryButton, b.Button("normal", setup.owner, args...)).
		EmojiButton("Disadvantage", "⬇️", discordgo.DangerButton, b.Button("disadvantage", setup.owner, args...)).
		EmojiButton("Help", "❓", discordgo.SecondaryButton, b.Button("help", setup.owner)).
		Build()
}
