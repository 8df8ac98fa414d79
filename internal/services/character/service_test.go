package character_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/emo-bot-discord/internal/clients/dnd5e"
	mockdnd5e "github.com/KirkDiggler/emo-bot-discord/internal/clients/dnd5e/mock"
	"github.com/KirkDiggler/emo-bot-discord/internal/dice"
	mockdice "github.com/KirkDiggler/emo-bot-discord/internal/dice/mock"
	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
	"github.com/KirkDiggler/emo-bot-discord/internal/services/character"
)

const fullSheet = `**Name:** Thorin Oakenshield
**Class:** Fighter
**Level:** 0
**Race:** Dwarf
**Background:** Soldier
**Alignment:** Lawful Good
**Ability Scores:**
- **Strength:** 16
- **Dexterity:** 12
- **Constitution:** 15
- **Intelligence:** 8
- **Wisdom:** 13
- **Charisma:** 9`

func TestParseSheet(t *testing.T) {
	svc := character.NewService(nil)

	char, err := svc.ParseSheet(fullSheet)
	require.NoError(t, err)

	assert.Equal(t, "Thorin Oakenshield", char.Name)
	assert.Equal(t, "Fighter", char.Class)
	assert.Equal(t, "Dwarf", char.Race)
	assert.Equal(t, "Soldier", char.Background)
	assert.Equal(t, "Lawful Good", char.Alignment)
	assert.Equal(t, 0, char.Level)
	assert.Equal(t, entities.CreationMethodManual, char.Method)
	assert.Equal(t, fullSheet, char.RawInput)
	assert.Equal(t, entities.AbilityScores{
		Strength: 16, Dexterity: 12, Constitution: 15,
		Intelligence: 8, Wisdom: 13, Charisma: 9,
	}, char.Abilities)
}

func TestParseSheet_Errors(t *testing.T) {
	svc := character.NewService(nil)

	testCases := []struct {
		name    string
		input   string
		message string
	}{
		{
			name:    "missing fields are listed in order",
			input:   "Name: Bob\nLevel: 0",
			message: "Missing required fields: class, race. Please try again.",
		},
		{
			name:    "level must be zero",
			input:   "Name: Bob\nClass: Rogue\nLevel: 1\nRace: Human",
			message: "New characters must start at level 0. Please try again.",
		},
		{
			name:    "score out of range",
			input:   "Name: Bob\nClass: Rogue\nLevel: 0\nRace: Human\nStrength: 19",
			message: "Strength must be between 3 and 18, got 19",
		},
		{
			name:    "score not a number",
			input:   "Name: Bob\nClass: Rogue\nLevel: 0\nRace: Human\nWisdom: lots",
			message: "Wisdom must be a number between 3 and 18. Please try again.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ParseSheet(tc.input)
			require.Error(t, err)
			assert.True(t, dnderr.IsValidation(err))
			assert.Equal(t, tc.message, dnderr.GetMessage(err))
		})
	}
}

func TestParseSheet_MissingScoresDefaultToTen(t *testing.T) {
	svc := character.NewService(nil)

	char, err := svc.ParseSheet("Name: Bob\nClass: Rogue\nLevel: 0\nRace: Human\nDexterity: 17")
	require.NoError(t, err)
	assert.Equal(t, 17, char.Abilities.Dexterity)
	assert.Equal(t, 10, char.Abilities.Strength)
	assert.Equal(t, 10, char.Abilities.Charisma)
}

func TestParseSheet_NameKeyWinsFirst(t *testing.T) {
	svc := character.NewService(nil)

	// "Class Name" contains both keys; name is checked first.
	char, err := svc.ParseSheet("Class Name: Bob\nClass: Rogue\nLevel: 0\nRace: Human")
	require.NoError(t, err)
	assert.Equal(t, "Bob", char.Name)
	assert.Equal(t, "Rogue", char.Class)
}

func TestGenerate_Random(t *testing.T) {
	roller := mockdice.NewScriptedRoller(
		3, // race index 2: Dwarf (Mountain Dwarf)
		6, // class index 5: Fighter
		6, 6, 6, 1, // 18
		5, 4, 3, 2, // 12
		1, 1, 1, 1, // 3
		2, 3, 4, 5, // 12
		6, 5, 4, 1, // 15
		3, 3, 3, 3, // 9
		1, // name index 0
	)
	svc := character.NewService(&character.ServiceConfig{Roller: roller})

	char, err := svc.Generate(context.Background(), &character.GenerateInput{})
	require.NoError(t, err)

	assert.Equal(t, "Aria", char.Name)
	assert.Equal(t, "Dwarf", char.Race)
	assert.Equal(t, "Fighter", char.Class)
	assert.Equal(t, entities.CreationMethodRandom, char.Method)
	assert.Equal(t, entities.AbilityScores{
		Strength: 18, Dexterity: 12, Constitution: 3,
		Intelligence: 12, Wisdom: 15, Charisma: 9,
	}, char.Abilities)
	assert.Equal(t, 0, roller.Remaining())
}

func TestGenerate_PointBuySpendsWholeBudget(t *testing.T) {
	svc := character.NewService(&character.ServiceConfig{Roller: dice.NewRoller(dice.NewSource(42))})

	for i := 0; i < 20; i++ {
		char, err := svc.Generate(context.Background(), &character.GenerateInput{
			Method: entities.CreationMethodPointBuy,
			Name:   "Pointy",
		})
		require.NoError(t, err)
		assert.Equal(t, "Pointy", char.Name)
		assert.Equal(t, entities.CreationMethodPointBuy, char.Method)

		spent := 0
		for _, a := range entities.Abilities {
			v := char.Abilities.Get(a)
			assert.GreaterOrEqual(t, v, entities.PointBuyBase)
			assert.LessOrEqual(t, v, entities.PointBuyBase+entities.PointBuyMaxPerAbility)
			spent += v - entities.PointBuyBase
		}
		assert.Equal(t, entities.PointBuyBudget, spent)
	}
}

func TestGenerate_UnknownMethod(t *testing.T) {
	svc := character.NewService(&character.ServiceConfig{Roller: dice.NewRoller(dice.NewSource(1))})

	_, err := svc.Generate(context.Background(), &character.GenerateInput{Method: "telepathy"})
	assert.True(t, dnderr.IsInvalidArgument(err))
}

func TestGenerate_RollerFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	roller := mockdice.NewMockRoller(ctrl)
	roller.EXPECT().Roll(1, gomock.Any(), 0).Return(nil, errors.New("dice fell off the table"))

	svc := character.NewService(&character.ServiceConfig{Roller: roller})
	_, err := svc.Generate(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dice fell off the table")
}

func TestLookups(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockdnd5e.NewMockClient(ctrl)
	svc := character.NewService(&character.ServiceConfig{DNDClient: client})
	ctx := context.Background()

	client.EXPECT().GetSpell("magic-missile").Return(&dnd5e.Spell{Key: "magic-missile", Name: "Magic Missile", Level: 1}, nil)
	spell, err := svc.LookupSpell(ctx, "Magic Missile")
	require.NoError(t, err)
	assert.Equal(t, 1, spell.Level)

	client.EXPECT().GetRace("half-elf").Return(&dnd5e.Race{Key: "half-elf", Name: "Half-Elf"}, nil)
	race, err := svc.LookupRace(ctx, "Half-Elf")
	require.NoError(t, err)
	assert.Equal(t, "Half-Elf", race.Name)

	client.EXPECT().GetClass("wizard").Return(nil, dnderr.NotFound("class wizard not found"))
	_, err = svc.LookupClass(ctx, "wizard")
	assert.True(t, dnderr.IsNotFound(err))

	_, err = svc.LookupSpell(ctx, "  ")
	assert.True(t, dnderr.IsInvalidArgument(err))
}

func TestLookups_NoClient(t *testing.T) {
	svc := character.NewService(nil)

	_, err := svc.LookupSpell(context.Background(), "fireball")
	assert.Equal(t, dnderr.CodeUnavailable, dnderr.GetCode(err))
}
