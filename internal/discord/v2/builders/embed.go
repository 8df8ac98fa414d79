package builders

import (
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// Discord rejects embeds past these sizes.
const (
	MaxFieldValue  = 1024
	MaxDescription = 4096
)

// Embed colors. The palette follows Discord's role colors, plus the
// shades Emo uses for its own replies.
const (
	ColorBlue       = 0x3498db
	ColorPurple     = 0x9b59b6
	ColorDarkPurple = 0x71368a
	ColorDarkGreen  = 0x1f8b4c
	ColorGreen      = 0x2ecc71
	ColorOrange     = 0xe67e22
	ColorLightGray  = 0x979c9f
	ColorGold       = 0xf1c40f
	ColorDarkGold   = 0xc27c0e

	ColorThinking  = 0x9370DB
	ColorNarration = 0x1E90FF
	ColorGuide     = 0x4CAF50
	ColorDiceHelp  = 0xFFA500
)

// EmbedBuilder builds a rich embed, cutting text to Discord's limits as it
// goes.
type EmbedBuilder struct {
	e discordgo.MessageEmbed
}

func NewEmbed() *EmbedBuilder {
	return &EmbedBuilder{e: discordgo.MessageEmbed{Type: discordgo.EmbedTypeRich}}
}

func (b *EmbedBuilder) Title(title string) *EmbedBuilder {
	b.e.Title = title
	return b
}

func (b *EmbedBuilder) Description(text string) *EmbedBuilder {
	b.e.Description = Truncate(text, MaxDescription)
	return b
}

func (b *EmbedBuilder) Color(color int) *EmbedBuilder {
	b.e.Color = color
	return b
}

func (b *EmbedBuilder) Footer(text string) *EmbedBuilder {
	b.e.Footer = &discordgo.MessageEmbedFooter{Text: text}
	return b
}

func (b *EmbedBuilder) Field(name, value string, inline bool) *EmbedBuilder {
	b.e.Fields = append(b.e.Fields, &discordgo.MessageEmbedField{
		Name:   name,
		Value:  Truncate(value, MaxFieldValue),
		Inline: inline,
	})
	return b
}

// AddBlankField inserts a zero-width spacer field.
func (b *EmbedBuilder) AddBlankField(inline bool) *EmbedBuilder {
	return b.Field("\u200b", "\u200b", inline)
}

// Build returns a copy, so the builder can keep going.
func (b *EmbedBuilder) Build() *discordgo.MessageEmbed {
	e := b.e
	e.Fields = append([]*discordgo.MessageEmbedField(nil), b.e.Fields...)
	return &e
}

// Truncate shortens s to max runes, the last three being "...".
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}
