package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

func TestAbilityScores_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *entities.AbilityScores)
		wantErr bool
	}{
		{name: "defaults are legal", mutate: func(s *entities.AbilityScores) {}},
		{name: "minimum", mutate: func(s *entities.AbilityScores) { s.Strength = 3 }},
		{name: "maximum", mutate: func(s *entities.AbilityScores) { s.Charisma = 18 }},
		{name: "below minimum", mutate: func(s *entities.AbilityScores) { s.Wisdom = 2 }, wantErr: true},
		{name: "above maximum", mutate: func(s *entities.AbilityScores) { s.Dexterity = 19 }, wantErr: true},
		{name: "unset", mutate: func(s *entities.AbilityScores) { s.Intelligence = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := entities.DefaultAbilityScores()
			tt.mutate(&scores)

			err := scores.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dnderr.IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAbilityScores_GetSet(t *testing.T) {
	var scores entities.AbilityScores
	for i, a := range entities.Abilities {
		scores.Set(a, 10+i)
	}

	assert.Equal(t, 10, scores.Strength)
	assert.Equal(t, 15, scores.Charisma)
	assert.Equal(t, 12, scores.Get(entities.AbilityConstitution))
	assert.Equal(t, 0, scores.Get(entities.Ability("luck")))
}

func TestParseAbility(t *testing.T) {
	a, ok := entities.ParseAbility(" STR ")
	require.True(t, ok)
	assert.Equal(t, entities.AbilityStrength, a)

	a, ok = entities.ParseAbility("Wisdom")
	require.True(t, ok)
	assert.Equal(t, entities.AbilityWisdom, a)

	_, ok = entities.ParseAbility("luck")
	assert.False(t, ok)
}

func TestModifier(t *testing.T) {
	assert.Equal(t, -4, entities.Modifier(3))
	assert.Equal(t, -1, entities.Modifier(9))
	assert.Equal(t, 0, entities.Modifier(10))
	assert.Equal(t, 0, entities.Modifier(11))
	assert.Equal(t, 4, entities.Modifier(18))
}

func TestAbilityScores_Line(t *testing.T) {
	scores := entities.DefaultAbilityScores()
	scores.Strength = 16

	assert.Equal(t, "STR: 16 | DEX: 10 | CON: 10\nINT: 10 | WIS: 10 | CHA: 10", scores.Line(false))
	assert.Contains(t, scores.Line(true), "**STR:** 16")
}

func TestPointBuy(t *testing.T) {
	tests := []struct {
		name    string
		buy     entities.PointBuy
		wantErr bool
		check   func(t *testing.T, s entities.AbilityScores)
	}{
		{
			name: "empty buy leaves every score at base",
			buy:  entities.PointBuy{},
			check: func(t *testing.T, s entities.AbilityScores) {
				assert.Equal(t, entities.DefaultAbilityScores(), s)
			},
		},
		{
			name: "full budget with caps",
			buy: entities.PointBuy{
				entities.AbilityStrength:     7,
				entities.AbilityConstitution: 7,
				entities.AbilityWisdom:       4,
			},
			check: func(t *testing.T, s entities.AbilityScores) {
				assert.Equal(t, 17, s.Strength)
				assert.Equal(t, 17, s.Constitution)
				assert.Equal(t, 14, s.Wisdom)
				assert.Equal(t, 10, s.Charisma)
			},
		},
		{
			name:    "over the per-ability cap",
			buy:     entities.PointBuy{entities.AbilityDexterity: 8},
			wantErr: true,
		},
		{
			name: "over budget",
			buy: entities.PointBuy{
				entities.AbilityStrength:  7,
				entities.AbilityDexterity: 7,
				entities.AbilityWisdom:    5,
			},
			wantErr: true,
		},
		{
			name:    "negative points",
			buy:     entities.PointBuy{entities.AbilityCharisma: -1},
			wantErr: true,
		},
		{
			name:    "short names split one ability across keys",
			buy:     entities.PointBuy{"str": 7, "STR": 7},
			wantErr: true,
		},
		{
			name:    "short name alone",
			buy:     entities.PointBuy{"dex": 2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, err := tt.buy.Apply()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dnderr.IsValidation(err))
				return
			}
			require.NoError(t, err)
			require.NoError(t, scores.Validate())
			tt.check(t, scores)
		})
	}
}

func TestPointBuy_CostAndRemaining(t *testing.T) {
	buy := entities.PointBuy{entities.AbilityStrength: 5, entities.AbilityWisdom: 3}

	assert.Equal(t, 8, buy.Cost())
	assert.Equal(t, 10, buy.Remaining())
}
