package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/emo-bot-discord/internal/dice"
	mockdice "github.com/KirkDiggler/emo-bot-discord/internal/dice/mock"
)

func TestScriptedRoller_Roll(t *testing.T) {
	tests := []struct {
		name       string
		setupRolls []int
		count      int
		sides      int
		bonus      int
		wantTotal  int
		wantRolls  []int
		wantErr    bool
	}{
		{
			name:       "single d20 roll",
			setupRolls: []int{15},
			count:      1,
			sides:      20,
			wantTotal:  15,
			wantRolls:  []int{15},
		},
		{
			name:       "2d6+3",
			setupRolls: []int{4, 5},
			count:      2,
			sides:      6,
			bonus:      3,
			wantTotal:  12,
			wantRolls:  []int{4, 5},
		},
		{
			name:       "negative modifier",
			setupRolls: []int{3},
			count:      1,
			sides:      8,
			bonus:      -5,
			wantTotal:  -2,
			wantRolls:  []int{3},
		},
		{
			name:       "not enough rolls",
			setupRolls: []int{10},
			count:      2,
			sides:      6,
			wantErr:    true,
		},
		{
			name:       "invalid roll for die size",
			setupRolls: []int{7},
			count:      1,
			sides:      6,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := mockdice.NewScriptedRoller(tt.setupRolls...)

			result, err := roller.Roll(tt.count, tt.sides, tt.bonus)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, result.Total)
			assert.Equal(t, tt.wantRolls, result.Rolls)
			assert.Equal(t, dice.ModeNormal, result.Mode)
		})
	}
}

func TestScriptedRoller_AdvantageAndDisadvantage(t *testing.T) {
	roller := mockdice.NewScriptedRoller(7, 16, 7, 16)

	adv, err := roller.RollWithAdvantage(20, 2)
	require.NoError(t, err)
	assert.Equal(t, 18, adv.Total)
	assert.Equal(t, []int{7, 16}, adv.Rolls)

	dis, err := roller.RollWithDisadvantage(20, 2)
	require.NoError(t, err)
	assert.Equal(t, 9, dis.Total)
	assert.Equal(t, 0, roller.Remaining())
}

func TestRandomRoller_AdvantageKeepsMax(t *testing.T) {
	roller := dice.NewRoller(dice.NewSource(42))

	for i := 0; i < 2000; i++ {
		res, err := roller.RollWithAdvantage(20, 3)
		require.NoError(t, err)
		require.Len(t, res.Rolls, 2)
		assert.Equal(t, max(res.Rolls[0], res.Rolls[1])+3, res.Total)
	}
}

func TestRandomRoller_DisadvantageKeepsMin(t *testing.T) {
	roller := dice.NewRoller(dice.NewSource(7))

	for i := 0; i < 2000; i++ {
		res, err := roller.RollWithDisadvantage(20, -1)
		require.NoError(t, err)
		require.Len(t, res.Rolls, 2)
		assert.Equal(t, min(res.Rolls[0], res.Rolls[1])-1, res.Total)
	}
}

func TestRandomRoller_UniformFaces(t *testing.T) {
	roller := dice.NewRoller(dice.NewSource(1234))

	for _, sides := range dice.StandardDice {
		t.Run(dice.Notation(1, sides, 0), func(t *testing.T) {
			perFace := 400
			n := sides * perFace
			counts := make(map[int]int, sides)

			res, err := roller.Roll(n, sides, 0)
			require.NoError(t, err)
			for _, v := range res.Rolls {
				require.GreaterOrEqual(t, v, 1)
				require.LessOrEqual(t, v, sides)
				counts[v]++
			}

			assert.Len(t, counts, sides, "every face should appear")
			for face, c := range counts {
				// +/-30% of the expected count is far outside sampling noise
				// at 400 draws per face.
				assert.InDelta(t, perFace, c, float64(perFace)*0.3, "face %d", face)
			}
		})
	}
}

func TestRandomRoller_RejectsBadInput(t *testing.T) {
	roller := dice.NewRandomRoller()

	_, err := roller.Roll(0, 6, 0)
	assert.ErrorIs(t, err, dice.ErrInvalidCount)

	_, err = roller.Roll(1, 0, 0)
	assert.ErrorIs(t, err, dice.ErrInvalidSides)

	_, err = roller.RollWithAdvantage(0, 0)
	assert.ErrorIs(t, err, dice.ErrInvalidSides)
}

func TestParseNotation(t *testing.T) {
	tests := []struct {
		in                  string
		count, sides, bonus int
		wantErr             bool
	}{
		{in: "1d20", count: 1, sides: 20},
		{in: "d8", count: 1, sides: 8},
		{in: "2d6+3", count: 2, sides: 6, bonus: 3},
		{in: "3d4 - 2", count: 3, sides: 4, bonus: -2},
		{in: "D100", count: 1, sides: 100},
		{in: "0d6", wantErr: true},
		{in: "2x6", wantErr: true},
		{in: "2d6+x", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			count, sides, bonus, err := dice.ParseNotation(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.count, count)
			assert.Equal(t, tt.sides, sides)
			assert.Equal(t, tt.bonus, bonus)
		})
	}
}

func TestJudge(t *testing.T) {
	assert.Equal(t, dice.VerdictCriticalSuccess, dice.Judge(20, 20))
	assert.Equal(t, dice.VerdictCriticalSuccess, dice.Judge(6, 9))
	assert.Equal(t, dice.VerdictCriticalFailure, dice.Judge(20, 1))
	assert.Equal(t, dice.VerdictNone, dice.Judge(20, 12))
	assert.Equal(t, dice.VerdictNone, dice.Judge(1, 1))
}

func TestExplain(t *testing.T) {
	assert.Contains(t, dice.Explain(20, 21), "Critical hit")
	assert.Contains(t, dice.Explain(20, 15), "Great roll")
	assert.Contains(t, dice.Explain(20, 10), "Average roll")
	assert.Contains(t, dice.Explain(20, 9), "Low roll")
	assert.Empty(t, dice.Explain(6, 6))
}

func TestAbilityScore_DropsLowest(t *testing.T) {
	roller := mockdice.NewScriptedRoller(1, 6, 3, 5)

	score, err := dice.AbilityScore(roller)
	require.NoError(t, err)
	assert.Equal(t, 14, score)
}

func TestAbilityScore_Bounds(t *testing.T) {
	roller := dice.NewRoller(dice.NewSource(99))
	for i := 0; i < 1000; i++ {
		score, err := dice.AbilityScore(roller)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, 3)
		assert.LessOrEqual(t, score, 18)
	}
}
