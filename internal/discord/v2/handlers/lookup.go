package handlers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/emo-bot-discord/internal/clients/dnd5e"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/builders"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/services/character"
)

// LookupHandler answers SRD reference questions.
type LookupHandler struct {
	characters character.Service
}

// NewLookupHandler creates a lookup handler
func NewLookupHandler(characters character.Service) (*LookupHandler, error) {
	if characters == nil {
		return nil, fmt.Errorf("character service is required")
	}
	return &LookupHandler{characters: characters}, nil
}

// HandleSpell answers !spell <name>
func (h *LookupHandler) HandleSpell(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	spell, err := h.characters.LookupSpell(ctx.Context, ctx.RawArgs)
	if err != nil {
		return nil, err
	}
	return core.Respond(core.NewEmbedResponse(SpellEmbed(spell)))
}

// HandleRace answers !race_info <name>
func (h *LookupHandler) HandleRace(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	race, err := h.characters.LookupRace(ctx.Context, ctx.RawArgs)
	if err != nil {
		return nil, err
	}
	return core.Respond(core.NewEmbedResponse(RaceEmbed(race)))
}

// HandleClass answers !class_info <name>
func (h *LookupHandler) HandleClass(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	class, err := h.characters.LookupClass(ctx.Context, ctx.RawArgs)
	if err != nil {
		return nil, err
	}
	return core.Respond(core.NewEmbedResponse(ClassEmbed(class)))
}

// SpellEmbed renders an SRD spell
func SpellEmbed(spell *dnd5e.Spell) *discordgo.MessageEmbed {
	level := "Cantrip"
	if spell.Level > 0 {
		level = fmt.Sprintf("Level %d", spell.Level)
	}

	var tags []string
	if spell.Concentration {
		tags = append(tags, "Concentration")
	}
	if spell.Ritual {
		tags = append(tags, "Ritual")
	}

	embed := builders.NewEmbed().
		Title("📖 "+spell.Name).
		Description(fmt.Sprintf("_%s %s_", level, orUnknown(spell.School))).
		Color(builders.ColorPurple).
		Field("Casting Time", orUnknown(spell.CastingTime), true).
		Field("Range", orUnknown(spell.Range), true).
		Field("Duration", orUnknown(spell.Duration), true)
	if len(tags) > 0 {
		embed.Field("Tags", strings.Join(tags, ", "), true)
	}
	if spell.DamageType != "" {
		embed.Field("Damage", spell.DamageType, true)
	}
	if spell.SaveType != "" {
		embed.Field("Saving Throw", spell.SaveType, true)
	}
	if len(spell.Classes) > 0 {
		embed.Field("Classes", strings.Join(spell.Classes, ", "), false)
	}
	return embed.Build()
}

// RaceEmbed renders an SRD race
func RaceEmbed(race *dnd5e.Race) *discordgo.MessageEmbed {
	abilities := make([]string, 0, len(race.AbilityBonuses))
	for ability := range race.AbilityBonuses {
		abilities = append(abilities, ability)
	}
	sort.Strings(abilities)

	bonuses := make([]string, 0, len(abilities))
	for _, ability := range abilities {
		bonuses = append(bonuses, fmt.Sprintf("%s %+d", strings.ToUpper(ability), race.AbilityBonuses[ability]))
	}

	return builders.NewEmbed().
		Title("🧝 "+race.Name).
		Color(builders.ColorDarkGreen).
		Field("Speed", fmt.Sprintf("%d ft.", race.Speed), true).
		Field("Ability Bonuses", joinOr(bonuses, ", ", "None"), true).
		Field("Proficiencies", joinOr(race.Proficiencies, ", ", "None"), false).
		Build()
}

// ClassEmbed renders an SRD class
func ClassEmbed(class *dnd5e.Class) *discordgo.MessageEmbed {
	return builders.NewEmbed().
		Title("⚔️ "+class.Name).
		Color(builders.ColorOrange).
		Field("Hit Die", fmt.Sprintf("d%d", class.HitDie), true).
		Field("Proficiencies", builders.Truncate(joinOr(class.Proficiencies, ", ", "None"), 1024), false).
		Build()
}
