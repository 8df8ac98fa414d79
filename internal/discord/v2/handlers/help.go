package handlers

import (
	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/builders"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
)

// EmoThumbnail is the bot's portrait used on help embeds.
const EmoThumbnail = "https://media.discordapp.net/attachments/1083281523383480380/1349256619162341406/42ef8567-f4f1-4dc3-83ee-ed19a5d9a013-600x600.webp"

const categoryFooter = "Select another category from the dropdown menu"

// commandCategory is one page of the !list dropdown.
type commandCategory struct {
	value       string
	label       string
	description string
	color       int
	commands    [][2]string // name, usage
}

var commandCategories = []commandCategory{
	{
		value:       "private_groups",
		label:       "Private Group Commands",
		description: "Commands for creating and managing private groups",
		color:       builders.ColorBlue,
		commands: [][2]string{
			{"!mkgrp [@person1] [@person2] ...", "Creates a private text room for you and mentioned friends.\nExample: `!mkgrp @JohnDoe @JaneDoe`"},
			{"!mkvc", "Creates a private voice channel linked to the current private text channel.\nCan only be used by the creator.\nExample: `!mkvc`"},
			{"!delvc", "Deletes the voice channel linked to the current private text channel.\nCan only be used by the creator.\nExample: `!delvc`"},
			{"!delgrp", "Deletes the private text channel and its linked voice channel.\nCan only be used by the creator.\nExample: `!delgrp`"},
		},
	},
	{
		value:       "emo_chat",
		label:       "Emo Chat Commands",
		description: "Commands for chatting with Emo (AI assistant)",
		color:       builders.ColorPurple,
		commands: [][2]string{
			{"!ask [question]", "Ask Emo a question.\nExample: `!ask What's your favorite movie?`"},
			{"!reset_chat", "Reset your conversation history with Emo.\nExample: `!reset_chat`"},
			{"!reset_all_chats", "Reset all conversation histories.\nExample: `!reset_all_chats`"},
			{"!list_models", "List available AI models.\nExample: `!list_models`"},
		},
	},
	{
		value:       "dnd",
		label:       "D&D Game Commands",
		description: "Commands for Dungeons & Dragons gameplay",
		color:       builders.ColorDarkGreen,
		commands: [][2]string{
			{"!dnd", "Setup a new D&D session.\nExample: `!dnd`"},
			{"!dnd_status", "Show current D&D status.\nExample: `!dnd_status`"},
			{"!campaign_setup", "Choose the campaign theme and send everyone their kit choices.\nExample: `!campaign_setup`"},
			{"!start", "Open the in-character channel and OOC thread.\nExample: `!start`"},
			{"!emo", "Ask Emo to open the adventure in the IC channel.\nExample: `!emo`"},
			{"!profile", "Show your character profile in the OOC thread.\nExample: `!profile`"},
			{"!roll", "Open the dice roller in the OOC thread.\nExample: `!roll`"},
			{"!help_emo", "A beginner's guide to playing with Emo.\nExample: `!help_emo`"},
			{"!end_dnd", "End current D&D game.\nExample: `!end_dnd`"},
		},
	},
	{
		value:       "character",
		label:       "Character Creation Commands",
		description: "Commands for creating and managing D&D characters",
		color:       builders.ColorOrange,
		commands: [][2]string{
			{"!creation", "Create a new character for the current D&D game.\nExample: `!creation`"},
			{"!random [pointbuy]", "Roll a random character, optionally with point buy.\nExample: `!random pointbuy`"},
			{"!view_character [@player]", "View a character in the D&D game. If no player is specified, shows your character.\nExample: `!view_character @JohnDoe`"},
			{"!list_characters", "List all characters in the current D&D game.\nExample: `!list_characters`"},
			{"!spell [name]", "Look up a spell in the SRD.\nExample: `!spell fireball`"},
			{"!race_info [name]", "Look up a race in the SRD.\nExample: `!race_info dwarf`"},
			{"!class_info [name]", "Look up a class in the SRD.\nExample: `!class_info wizard`"},
		},
	},
	{
		value:       "utility",
		label:       "Utility Commands",
		description: "General utility commands",
		color:       builders.ColorLightGray,
		commands: [][2]string{
			{"!test", "Test bot functionality.\nExample: `!test`"},
			{"!list", "Show this command list.\nExample: `!list`"},
		},
	},
}

// HelpHandler serves !test and the !list command browser.
type HelpHandler struct {
	customIDBuilder *core.CustomIDBuilder
}

// NewHelpHandler creates a help handler whose dropdown lives under builder's domain
func NewHelpHandler(builder *core.CustomIDBuilder) *HelpHandler {
	if builder == nil {
		builder = core.NewCustomIDBuilder("help")
	}
	return &HelpHandler{customIDBuilder: builder}
}

// HandleTest answers !test
func (h *HelpHandler) HandleTest(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	return core.Respond(core.NewResponse("Test command works!"))
}

// HandleList answers !list with the overview embed and category menu
func (h *HelpHandler) HandleList(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	embed := builders.NewEmbed().
		Title("Bot Commands List").
		Description("Select a command category from the dropdown menu below.").
		Color(builders.ColorBlue).
		Thumbnail(EmoThumbnail).
		Field("Available Categories", "• Private Group Commands\n• Emo Chat Commands\n• D&D Game Commands\n• Character Creation Commands\n• Utility Commands", false).
		Footer("Use the dropdown menu below to see specific commands").
		Build()

	return core.Respond(core.NewEmbedResponse(embed).WithComponents(h.menu()...))
}

// HandleCategory swaps the embed for the picked category
func (h *HelpHandler) HandleCategory(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	values := ctx.GetValues()
	if len(values) == 0 {
		return nil, core.NewValidationError("Please pick a category.")
	}

	for _, cat := range commandCategories {
		if cat.value != values[0] {
			continue
		}
		embed := builders.NewEmbed().
			Title(cat.label).
			Description(cat.description).
			Color(cat.color).
			Thumbnail(EmoThumbnail).
			Footer(categoryFooter)
		for _, cmd := range cat.commands {
			embed.Field(cmd[0], cmd[1], false)
		}
		return core.Respond(core.NewEmbedResponse(embed.Build()).WithComponents(h.menu()...).AsUpdate())
	}

	return nil, core.NewValidationError("Unknown category.")
}

func (h *HelpHandler) menu() []discordgo.MessageComponent {
	options := make([]builders.SelectOption, 0, len(commandCategories))
	for _, cat := range commandCategories {
		options = append(options, builders.SelectOption{
			Label:       cat.label,
			Value:       cat.value,
			Description: cat.description,
		})
	}
	return builders.NewComponentBuilder().
		SelectMenu("Select a command category...", h.customIDBuilder.Select("category", ""), options).
		Build()
}
