package dice

type randomRoller struct {
	src Source
}

// NewRoller creates a Roller backed by src.
func NewRoller(src Source) Roller {
	return &randomRoller{src: src}
}

// NewRandomRoller creates a Roller backed by the time-seeded package source.
func NewRandomRoller() Roller {
	return NewRoller(defaultSource)
}

func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if err := validate(count, sides); err != nil {
		return nil, err
	}

	rolls := throw(r.src, count, sides)
	raw := 0
	for _, v := range rolls {
		raw += v
	}

	return &RollResult{
		Mode:     ModeNormal,
		Count:    count,
		Sides:    sides,
		Bonus:    bonus,
		Rolls:    rolls,
		RawTotal: raw,
		Total:    raw + bonus,
	}, nil
}

func (r *randomRoller) RollWithAdvantage(sides, bonus int) (*RollResult, error) {
	return r.rollPair(ModeAdvantage, sides, bonus)
}

func (r *randomRoller) RollWithDisadvantage(sides, bonus int) (*RollResult, error) {
	return r.rollPair(ModeDisadvantage, sides, bonus)
}

func (r *randomRoller) rollPair(mode Mode, sides, bonus int) (*RollResult, error) {
	if err := validate(1, sides); err != nil {
		return nil, err
	}

	rolls := throw(r.src, 2, sides)
	kept := Keep(mode, rolls[0], rolls[1])

	return &RollResult{
		Mode:     mode,
		Count:    1,
		Sides:    sides,
		Bonus:    bonus,
		Rolls:    rolls,
		RawTotal: kept,
		Total:    kept + bonus,
	}, nil
}
