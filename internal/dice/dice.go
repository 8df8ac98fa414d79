package dice

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	ErrInvalidCount  = errors.New("invalid dice count")
	ErrInvalidSides  = errors.New("invalid dice size")
	ErrInvalidString = errors.New("invalid dice string")
)

// StandardDice are the die sizes offered by the roller menu.
var StandardDice = []int{4, 6, 8, 10, 12, 20, 100}

// Mode describes how a set of dice was combined.
type Mode string

const (
	ModeNormal       Mode = "Normal"
	ModeAdvantage    Mode = "Advantage"
	ModeDisadvantage Mode = "Disadvantage"
)

// RollResult is the outcome of one roll request.
type RollResult struct {
	Mode  Mode
	Count int
	Sides int
	Bonus int
	// Rolls holds every die thrown, including the discarded one for advantage
	// and disadvantage.
	Rolls []int
	// RawTotal is the dice contribution before the bonus.
	RawTotal int
	Total    int
}

// Sum adds every die in Rolls.
func (r *RollResult) Sum() int {
	sum := 0
	for _, v := range r.Rolls {
		sum += v
	}
	return sum
}

// Notation renders the request as XdY+Z.
func (r *RollResult) Notation() string {
	return Notation(r.Count, r.Sides, r.Bonus)
}

func (r *RollResult) String() string {
	compact := strings.ReplaceAll(fmt.Sprintf("%v", r.Rolls), " ", ",")
	return fmt.Sprintf("**%d** : %s %s", r.Total, r.Notation(), compact)
}

// Notation renders a dice request such as "2d6 +3" or "1d20 -1".
func Notation(count, sides, bonus int) string {
	out := fmt.Sprintf("%dd%d", count, sides)
	switch {
	case bonus > 0:
		out += fmt.Sprintf(" +%d", bonus)
	case bonus < 0:
		out += fmt.Sprintf(" %d", bonus)
	}
	return out
}

// Source yields a uniform integer in [0, n).
type Source interface {
	Intn(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

// NewSource returns a goroutine-safe Source seeded with seed.
func NewSource(seed int64) Source {
	return &lockedSource{rnd: rand.New(rand.NewSource(seed))}
}

var defaultSource = NewSource(time.Now().UnixNano())

func validate(count, sides int) error {
	if count < 1 {
		return ErrInvalidCount
	}
	if sides < 1 {
		return ErrInvalidSides
	}
	return nil
}

func throw(src Source, count, sides int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = src.Intn(sides) + 1
	}
	return out
}

// Roll throws count dice of the given size using the package source.
func Roll(count, sides, bonus int) (*RollResult, error) {
	return NewRoller(defaultSource).Roll(count, sides, bonus)
}

// ParseNotation parses "XdY", "XdY+Z" and "XdY-Z". Whitespace is ignored and
// a missing count means one die.
func ParseNotation(s string) (count, sides, bonus int, err error) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if s == "" {
		return 0, 0, 0, ErrInvalidString
	}

	dicePart := s
	if idx := strings.IndexAny(s, "+-"); idx > 0 {
		dicePart = s[:idx]
		bonus, err = strconv.Atoi(s[idx:])
		if err != nil {
			return 0, 0, 0, ErrInvalidString
		}
	}

	parts := strings.Split(dicePart, "d")
	if len(parts) != 2 {
		return 0, 0, 0, ErrInvalidString
	}

	count = 1
	if parts[0] != "" {
		count, err = strconv.Atoi(parts[0])
		if err != nil {
			return 0, 0, 0, ErrInvalidString
		}
	}
	sides, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, ErrInvalidString
	}

	if err := validate(count, sides); err != nil {
		return 0, 0, 0, err
	}
	return count, sides, bonus, nil
}

// RollString parses and rolls a notation string with the package source.
func RollString(notation string) (*RollResult, error) {
	count, sides, bonus, err := ParseNotation(notation)
	if err != nil {
		return nil, err
	}
	return Roll(count, sides, bonus)
}
