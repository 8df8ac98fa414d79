package dice

import "sort"

// Verdict flags a result that reached the die's extremes.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictCriticalSuccess
	VerdictCriticalFailure
)

// Judge compares the final total against the die size. A total at or above
// the die size is a critical success, a total of exactly one a critical failure.
func Judge(sides, total int) Verdict {
	if sides <= 1 {
		return VerdictNone
	}
	if total >= sides {
		return VerdictCriticalSuccess
	}
	if total == 1 {
		return VerdictCriticalFailure
	}
	return VerdictNone
}

// Explain gives a beginner-friendly reading of a d20 total. Other dice have no
// explanation.
func Explain(sides, total int) string {
	if sides != 20 {
		return ""
	}
	switch {
	case total >= 20:
		return "Critical hit! This is an extremely good roll!"
	case total >= 15:
		return "Great roll! This will succeed at most tasks."
	case total >= 10:
		return "Average roll. May succeed at medium difficulty tasks."
	default:
		return "Low roll. Difficult tasks will likely fail."
	}
}

// AbilityScore rolls 4d6 and drops the lowest die, giving a value in 3..18.
func AbilityScore(r Roller) (int, error) {
	res, err := r.Roll(4, 6, 0)
	if err != nil {
		return 0, err
	}
	rolls := append([]int(nil), res.Rolls...)
	sort.Ints(rolls)
	return rolls[1] + rolls[2] + rolls[3], nil
}
