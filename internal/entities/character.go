package entities

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

// CreationMethod records how a character's abilities were produced.
type CreationMethod string

const (
	CreationMethodManual   CreationMethod = "manual"
	CreationMethodRandom   CreationMethod = "random"
	CreationMethodPointBuy CreationMethod = "point_buy"
)

const (
	DefaultHP    = 20
	DefaultMaxHP = 20

	// ExpPerLevel is multiplied by the current level to get the next threshold.
	ExpPerLevel = 20
)

// Character is a player's adventurer inside a single game.
type Character struct {
	Name       string `json:"name"`
	Class      string `json:"class"`
	Race       string `json:"race"`
	Level      int    `json:"level"`
	Background string `json:"background,omitempty"`
	Alignment  string `json:"alignment,omitempty"`
	Backstory  string `json:"backstory,omitempty"`

	Abilities AbilityScores `json:"abilities"`

	RawInput  string         `json:"raw_input,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Method    CreationMethod `json:"method"`

	Inventory     []string `json:"inventory,omitempty"`
	Skills        []string `json:"skills,omitempty"`
	Cantrips      []string `json:"cantrips,omitempty"`
	Spells        []string `json:"spells,omitempty"`
	Languages     []string `json:"languages,omitempty"`
	Traits        []string `json:"traits,omitempty"`
	ClassFeatures []string `json:"class_features,omitempty"`

	HP    int `json:"hp"`
	MaxHP int `json:"max_hp"`
	Exp   int `json:"exp"`
}

// ResetStats puts the character at level 1 with full default HP and no EXP.
func (c *Character) ResetStats() {
	c.HP = DefaultHP
	c.MaxHP = DefaultMaxHP
	c.Exp = 0
	c.Level = 1
}

func (c *Character) maxHP() int {
	if c.MaxHP <= 0 {
		return DefaultMaxHP
	}
	return c.MaxHP
}

// ApplyHPChange adds delta to HP and clamps the result to [0, MaxHP].
func (c *Character) ApplyHPChange(delta int) {
	ceiling := c.maxHP()
	c.MaxHP = ceiling
	hp := c.HP + delta
	if hp < 0 {
		hp = 0
	}
	if hp > ceiling {
		hp = ceiling
	}
	c.HP = hp
}

// NextLevelExp is the EXP total needed to leave the current level.
func (c *Character) NextLevelExp() int {
	level := c.Level
	if level < 1 {
		level = 1
	}
	return level * ExpPerLevel
}

// AwardExp adds experience and levels up while the threshold is met. It
// returns the number of levels gained.
func (c *Character) AwardExp(amount int) int {
	if amount <= 0 {
		return 0
	}
	if c.Level < 1 {
		c.Level = 1
	}
	c.Exp += amount

	gained := 0
	for c.Exp >= c.Level*ExpPerLevel {
		c.Level++
		gained++
	}
	return gained
}

// Summary renders "Race Class", e.g. "Dwarf Fighter".
func (c *Character) Summary() string {
	return strings.TrimSpace(c.Race + " " + c.Class)
}

// Validate checks the fields every character must carry.
func (c *Character) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Class) == "" {
		missing = append(missing, "class")
	}
	if strings.TrimSpace(c.Race) == "" {
		missing = append(missing, "race")
	}
	if len(missing) > 0 {
		return dnderr.Validationf("Missing required fields: %s. Please try again.", strings.Join(missing, ", "))
	}
	return c.Abilities.Validate()
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Mention renders a Discord user mention.
func Mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}
