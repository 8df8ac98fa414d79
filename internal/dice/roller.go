package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=mockdice -source=roller.go

// Roller rolls dice. Handlers and services take a Roller so tests can fix the
// outcome.
type Roller interface {
	// Roll throws count dice and adds bonus to their sum.
	Roll(count, sides, bonus int) (*RollResult, error)

	// RollWithAdvantage throws two dice and keeps the higher.
	RollWithAdvantage(sides, bonus int) (*RollResult, error)

	// RollWithDisadvantage throws two dice and keeps the lower.
	RollWithDisadvantage(sides, bonus int) (*RollResult, error)
}

// Keep combines the two dice of an advantage or disadvantage roll.
func Keep(mode Mode, a, b int) int {
	switch mode {
	case ModeAdvantage:
		if b > a {
			return b
		}
		return a
	case ModeDisadvantage:
		if b < a {
			return b
		}
		return a
	}
	return a + b
}
