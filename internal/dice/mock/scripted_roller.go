package mockdice

import (
	"fmt"
	"sync"

	"github.com/KirkDiggler/emo-bot-discord/internal/dice"
)

// ScriptedRoller is a dice.Roller that hands out fixed faces in order. It
// fails once the script runs out or a face does not fit the die.
type ScriptedRoller struct {
	mu    sync.Mutex
	faces []int
}

func NewScriptedRoller(faces ...int) *ScriptedRoller {
	return &ScriptedRoller{faces: faces}
}

// Remaining is the number of faces not yet used.
func (r *ScriptedRoller) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.faces)
}

func (r *ScriptedRoller) take(sides int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.faces) == 0 {
		return 0, fmt.Errorf("scripted roller exhausted rolling d%d", sides)
	}
	face := r.faces[0]
	if face < 1 || face > sides {
		return 0, fmt.Errorf("scripted face %d does not fit a d%d", face, sides)
	}
	r.faces = r.faces[1:]
	return face, nil
}

func (r *ScriptedRoller) Roll(count, sides, bonus int) (*dice.RollResult, error) {
	if count < 1 {
		return nil, dice.ErrInvalidCount
	}
	res := &dice.RollResult{Mode: dice.ModeNormal, Count: count, Sides: sides, Bonus: bonus}
	for i := 0; i < count; i++ {
		face, err := r.take(sides)
		if err != nil {
			return nil, err
		}
		res.Rolls = append(res.Rolls, face)
		res.RawTotal += face
	}
	res.Total = res.RawTotal + bonus
	return res, nil
}

func (r *ScriptedRoller) RollWithAdvantage(sides, bonus int) (*dice.RollResult, error) {
	return r.twice(dice.ModeAdvantage, sides, bonus)
}

func (r *ScriptedRoller) RollWithDisadvantage(sides, bonus int) (*dice.RollResult, error) {
	return r.twice(dice.ModeDisadvantage, sides, bonus)
}

func (r *ScriptedRoller) twice(mode dice.Mode, sides, bonus int) (*dice.RollResult, error) {
	first, err := r.take(sides)
	if err != nil {
		return nil, err
	}
	second, err := r.take(sides)
	if err != nil {
		return nil, err
	}
	kept := dice.Keep(mode, first, second)
	return &dice.RollResult{
		Mode:     mode,
		Count:    1,
		Sides:    sides,
		Bonus:    bonus,
		Rolls:    []int{first, second},
		RawTotal: kept,
		Total:    kept + bonus,
	}, nil
}

var _ dice.Roller = (*ScriptedRoller)(nil)
