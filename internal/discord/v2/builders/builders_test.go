package builders

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentBuilder_Rows(t *testing.T) {
	b := NewComponentBuilder()
	for i := 0; i < 6; i++ {
		b.Button(fmt.Sprint(i), discordgo.PrimaryButton, fmt.Sprintf("roll:b%d", i))
	}
	b.SelectMenu("pick", "roll:die", Options([]string{"d4", "d6"}))
	b.SuccessButton("Confirm", "kit:confirm")

	rows := b.Build()
	require.Len(t, rows, 4)
	assert.Len(t, rows[0].(discordgo.ActionsRow).Components, 5)
	assert.Len(t, rows[1].(discordgo.ActionsRow).Components, 1)

	menu, ok := rows[2].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	require.True(t, ok)
	assert.Equal(t, "roll:die", menu.CustomID)
	assert.Nil(t, menu.MinValues)

	confirm := rows[3].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	assert.Equal(t, discordgo.SuccessButton, confirm.Style)
}

func TestComponentBuilder_SelectLimits(t *testing.T) {
	values := make([]string, 30)
	for i := range values {
		values[i] = fmt.Sprintf("item %d", i)
	}

	rows := NewComponentBuilder().
		SelectMenu("Choose 3 items...", "kit:items", Options(values), SelectConfig{MinValues: 3, MaxValues: 40}).
		Build()

	menu := rows[0].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	assert.Len(t, menu.Options, MaxSelectOptions)
	require.NotNil(t, menu.MinValues)
	assert.Equal(t, 3, *menu.MinValues)
	assert.Equal(t, MaxSelectOptions, menu.MaxValues)
}

func TestOptions_TruncatesLongValues(t *testing.T) {
	opts := Options([]string{strings.Repeat("a", 120)})
	require.Len(t, opts, 1)
	assert.Len(t, opts[0].Value, 100)
	assert.True(t, strings.HasSuffix(opts[0].Label, "..."))
}

func TestEmbedBuilder(t *testing.T) {
	b := NewEmbed().
		Title("🎲 Dice Roll").
		Description(strings.Repeat("x", MaxDescription+10)).
		Color(ColorGold).
		Field("Result", "17", true).
		AddBlankField(false).
		Footer("Copy this number when Emo asks for your roll result!")

	first := b.Build()
	assert.Equal(t, "🎲 Dice Roll", first.Title)
	assert.Equal(t, MaxDescription, len([]rune(first.Description)))
	assert.Equal(t, ColorGold, first.Color)
	require.Len(t, first.Fields, 2)
	assert.Equal(t, "\u200b", first.Fields[1].Name)

	b.Field("Extra", "later", false)
	assert.Len(t, first.Fields, 2)
	assert.Len(t, b.Build().Fields, 3)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "héll...", Truncate("héllo wörld", 7))
}
