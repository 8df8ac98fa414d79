package entities

import (
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

const (
	PointBuyBase          = 10
	PointBuyBudget        = 18
	PointBuyMaxPerAbility = 7
)

// PointBuy is a distribution of points over the base score of each ability.
// Each point adds one to the ability.
type PointBuy map[Ability]int

// Cost is the total number of points spent.
func (p PointBuy) Cost() int {
	total := 0
	for _, v := range p {
		total += v
	}
	return total
}

// Remaining is the unspent budget.
func (p PointBuy) Remaining() int {
	return PointBuyBudget - p.Cost()
}

// Validate checks the caps and the budget. Keys must be the full lower-case
// ability names, so one ability cannot be counted under two spellings.
func (p PointBuy) Validate() error {
	for a, v := range p {
		if canonical, ok := ParseAbility(string(a)); !ok || canonical != a {
			return dnderr.Validationf("unknown ability %q", a)
		}
		if v < 0 {
			return dnderr.Validationf("%s cannot have negative points", Capitalize(string(a)))
		}
		if v > PointBuyMaxPerAbility {
			return dnderr.Validationf("%s can take at most %d points, got %d", Capitalize(string(a)), PointBuyMaxPerAbility, v).
				WithMeta("ability", string(a))
		}
	}
	if cost := p.Cost(); cost > PointBuyBudget {
		return dnderr.Validationf("point-buy spends %d points but the budget is %d", cost, PointBuyBudget)
	}
	return nil
}

// Apply validates the distribution and returns the resulting scores.
func (p PointBuy) Apply() (AbilityScores, error) {
	if err := p.Validate(); err != nil {
		return AbilityScores{}, err
	}
	scores := AbilityScores{}
	for _, a := range Abilities {
		scores.Set(a, PointBuyBase+p[a])
	}
	return scores, nil
}
