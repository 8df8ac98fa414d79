package entities

import (
	"fmt"
	"strings"

	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

// Ability is one of the six ability scores.
type Ability string

const (
	AbilityStrength     Ability = "strength"
	AbilityDexterity    Ability = "dexterity"
	AbilityConstitution Ability = "constitution"
	AbilityIntelligence Ability = "intelligence"
	AbilityWisdom       Ability = "wisdom"
	AbilityCharisma     Ability = "charisma"
)

// Abilities lists the six abilities in sheet order.
var Abilities = []Ability{
	AbilityStrength,
	AbilityDexterity,
	AbilityConstitution,
	AbilityIntelligence,
	AbilityWisdom,
	AbilityCharisma,
}

const (
	MinAbilityScore     = 3
	MaxAbilityScore     = 18
	DefaultAbilityScore = 10
)

// Short returns the three letter abbreviation, e.g. "STR".
func (a Ability) Short() string {
	if len(a) < 3 {
		return strings.ToUpper(string(a))
	}
	return strings.ToUpper(string(a[:3]))
}

// ParseAbility matches a full name or abbreviation.
func ParseAbility(s string) (Ability, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range Abilities {
		if s == string(a) || s == strings.ToLower(a.Short()) {
			return a, true
		}
	}
	return "", false
}

// AbilityScores holds the six scores of a character.
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// DefaultAbilityScores returns every score at 10.
func DefaultAbilityScores() AbilityScores {
	return AbilityScores{
		Strength:     DefaultAbilityScore,
		Dexterity:    DefaultAbilityScore,
		Constitution: DefaultAbilityScore,
		Intelligence: DefaultAbilityScore,
		Wisdom:       DefaultAbilityScore,
		Charisma:     DefaultAbilityScore,
	}
}

func (s *AbilityScores) field(a Ability) *int {
	switch a {
	case AbilityStrength:
		return &s.Strength
	case AbilityDexterity:
		return &s.Dexterity
	case AbilityConstitution:
		return &s.Constitution
	case AbilityIntelligence:
		return &s.Intelligence
	case AbilityWisdom:
		return &s.Wisdom
	case AbilityCharisma:
		return &s.Charisma
	}
	return nil
}

// Get returns the score for a, or 0 for an unknown ability.
func (s AbilityScores) Get(a Ability) int {
	if f := s.field(a); f != nil {
		return *f
	}
	return 0
}

// Set stores the score for a. Unknown abilities are ignored.
func (s *AbilityScores) Set(a Ability, v int) {
	if f := s.field(a); f != nil {
		*f = v
	}
}

// Validate checks every score is within 3..18.
func (s AbilityScores) Validate() error {
	for _, a := range Abilities {
		v := s.Get(a)
		if v < MinAbilityScore || v > MaxAbilityScore {
			return dnderr.Validationf("%s must be between %d and %d, got %d",
				Capitalize(string(a)), MinAbilityScore, MaxAbilityScore, v).
				WithMeta("ability", string(a))
		}
	}
	return nil
}

// Modifier is the standard (score-10)/2 bonus, rounded down.
func Modifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// Line renders "STR: 10 | DEX: 12 | CON: 14\nINT: ..." with an optional bold label.
func (s AbilityScores) Line(bold bool) string {
	label := func(a Ability) string {
		if bold {
			return fmt.Sprintf("**%s:** %d", a.Short(), s.Get(a))
		}
		return fmt.Sprintf("%s: %d", a.Short(), s.Get(a))
	}
	return fmt.Sprintf("%s | %s | %s\n%s | %s | %s",
		label(AbilityStrength), label(AbilityDexterity), label(AbilityConstitution),
		label(AbilityIntelligence), label(AbilityWisdom), label(AbilityCharisma))
}
