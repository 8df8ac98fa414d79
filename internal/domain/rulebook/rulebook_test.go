package rulebook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/emo-bot-discord/internal/domain/rulebook"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

func TestLoad_TableSizes(t *testing.T) {
	book, err := rulebook.Load()
	require.NoError(t, err)

	assert.Len(t, book.Races(), 9)
	assert.Len(t, book.Classes(), 13)
	assert.Len(t, book.ImageKeys(), 9*13)
	assert.NotEmpty(t, book.DefaultImage())
}

func TestRace_MapsByFirstWord(t *testing.T) {
	book := rulebook.Default()

	tests := []struct {
		input string
		want  string
	}{
		{input: "Elf", want: "Elf (High Elf)"},
		{input: "dwarf", want: "Dwarf (Mountain Dwarf)"},
		{input: "Halfling", want: "Halfling (Lightfoot)"},
		{input: "Gnome (Rock)", want: "Gnome (Rock)"},
		{input: "Half-Orc", want: "Half-Orc"},
		{input: "half-elf", want: "Half-Elf"},
		{input: "Human Noble", want: "Human"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			race, err := book.Race(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, race.Name)
		})
	}

	_, err := book.Race("Goblin")
	assert.True(t, dnderr.IsNotFound(err))
}

func TestClass_CaseInsensitive(t *testing.T) {
	class, err := rulebook.LookupClass(" wizard ")
	require.NoError(t, err)

	assert.Equal(t, "Wizard", class.Name)
	assert.True(t, class.IsCaster())
	assert.Equal(t, 3, class.Spells.ChooseCantrips)
	assert.Equal(t, 6, class.Spells.ChooseSpells)
	assert.Equal(t, 3, class.Skills.Choose)

	fighter, err := rulebook.LookupClass("FIGHTER")
	require.NoError(t, err)
	assert.False(t, fighter.IsCaster())

	_, err = rulebook.LookupClass("Psion")
	assert.True(t, dnderr.IsNotFound(err))
}

func TestClass_EquipmentChoices(t *testing.T) {
	rogue, err := rulebook.LookupClass("Rogue")
	require.NoError(t, err)

	fixed, groups := rogue.EquipmentChoices()

	assert.Equal(t, []string{"Leather armor", "Thieves' tools"}, fixed)
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"Shortsword", "simple weapon"}, groups[0])
	assert.Equal(t, []string{"Burglar's pack", "dungeoneer's pack", "explorer's pack"}, groups[2])
}

func TestImageFor(t *testing.T) {
	book := rulebook.Default()

	assert.Equal(t, book.ImageFor("Half-Elf", "Bard"), book.ImageFor("Half-elf", "Bard"))
	assert.NotEqual(t, book.DefaultImage(), book.ImageFor("Half-elf", "Bard"))
	assert.Equal(t, book.ImageFor("Elf", "Wizard"), book.ImageFor("Elf (High Elf)", "Wizard"))
	assert.Equal(t, book.DefaultImage(), book.ImageFor("Goblin", "Wizard"))
	assert.Contains(t, rulebook.ImageFor("Human", "Monk"), "1350818129600839690")
}
