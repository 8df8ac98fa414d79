package character

//go:generate mockgen -destination=mock/mock_service.go -package=mockcharacter -source=service.go

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/emo-bot-discord/internal/clients/dnd5e"
	"github.com/KirkDiggler/emo-bot-discord/internal/dice"
	"github.com/KirkDiggler/emo-bot-discord/internal/domain/rulebook"
	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

// Service builds characters from player input and answers SRD lookups.
type Service interface {
	// ParseSheet turns a "Key: value" message into a level 0 character
	ParseSheet(raw string) (*entities.Character, error)

	// Generate rolls a random character
	Generate(ctx context.Context, input *GenerateInput) (*entities.Character, error)

	// LookupSpell fetches a spell from the SRD
	LookupSpell(ctx context.Context, name string) (*dnd5e.Spell, error)

	// LookupRace fetches a race from the SRD
	LookupRace(ctx context.Context, name string) (*dnd5e.Race, error)

	// LookupClass fetches a class from the SRD
	LookupClass(ctx context.Context, name string) (*dnd5e.Class, error)
}

// GenerateInput controls random generation
type GenerateInput struct {
	// Method is CreationMethodRandom (4d6 drop lowest) or CreationMethodPointBuy.
	Method entities.CreationMethod
	Name   string // Optional, a name is picked if empty
}

type service struct {
	roller    dice.Roller
	book      *rulebook.Book
	dndClient dnd5e.Client
	now       func() time.Time
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Roller    dice.Roller    // Optional, will use a random roller if nil
	Rulebook  *rulebook.Book // Optional, will use the embedded tables if nil
	DNDClient dnd5e.Client   // Optional, lookups fail with Unavailable if nil
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		cfg = &ServiceConfig{}
	}
	svc := &service{
		roller:    cfg.Roller,
		book:      cfg.Rulebook,
		dndClient: cfg.DNDClient,
		now:       func() time.Time { return time.Now().UTC() },
	}
	if svc.roller == nil {
		svc.roller = dice.NewRandomRoller()
	}
	if svc.book == nil {
		svc.book = rulebook.Default()
	}
	return svc
}

// sheetField is a recognized key of the creation message. Order matters:
// the first field whose name appears in the key wins.
type sheetField string

const (
	fieldName       sheetField = "name"
	fieldClass      sheetField = "class"
	fieldLevel      sheetField = "level"
	fieldRace       sheetField = "race"
	fieldBackground sheetField = "background"
	fieldAlignment  sheetField = "alignment"
	fieldBackstory  sheetField = "backstory"
)

var sheetFields = []sheetField{
	fieldName, fieldClass, fieldLevel, fieldRace, fieldBackground, fieldAlignment, fieldBackstory,
}

var requiredFields = []sheetField{fieldName, fieldClass, fieldLevel, fieldRace}

func (s *service) ParseSheet(raw string) (*entities.Character, error) {
	fields := make(map[sheetField]string)
	scores := make(map[entities.Ability]string)

	for _, line := range strings.Split(raw, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.Trim(key, " \t*-#_"))
		value = strings.Trim(value, " \t*_")

		if f, ok := matchField(key); ok {
			fields[f] = value
			continue
		}
		for _, a := range entities.Abilities {
			if strings.Contains(key, string(a)) {
				scores[a] = value
				break
			}
		}
	}

	var missing []string
	for _, f := range requiredFields {
		if _, ok := fields[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return nil, dnderr.Validationf("Missing required fields: %s. Please try again.", strings.Join(missing, ", "))
	}
	if strings.TrimSpace(fields[fieldLevel]) != "0" {
		return nil, dnderr.Validation("New characters must start at level 0. Please try again.")
	}

	abilities := entities.DefaultAbilityScores()
	for a, v := range scores {
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, dnderr.Validationf("%s must be a number between %d and %d. Please try again.",
				entities.Capitalize(string(a)), entities.MinAbilityScore, entities.MaxAbilityScore).
				WithMeta("value", v)
		}
		abilities.Set(a, n)
	}

	char := &entities.Character{
		Name:       fields[fieldName],
		Class:      fields[fieldClass],
		Race:       fields[fieldRace],
		Background: fields[fieldBackground],
		Alignment:  fields[fieldAlignment],
		Backstory:  fields[fieldBackstory],
		Abilities:  abilities,
		RawInput:   raw,
		CreatedAt:  s.now(),
		Method:     entities.CreationMethodManual,
		HP:         entities.DefaultHP,
		MaxHP:      entities.DefaultMaxHP,
	}
	if err := char.Validate(); err != nil {
		return nil, err
	}
	return char, nil
}

func matchField(key string) (sheetField, bool) {
	for _, f := range sheetFields {
		if strings.Contains(key, string(f)) {
			return f, true
		}
	}
	return "", false
}

func (s *service) Generate(ctx context.Context, input *GenerateInput) (*entities.Character, error) {
	if input == nil {
		input = &GenerateInput{}
	}
	method := input.Method
	if method == "" {
		method = entities.CreationMethodRandom
	}

	races := s.book.Races()
	race, err := s.pick(len(races))
	if err != nil {
		return nil, err
	}
	classes := s.book.Classes()
	class, err := s.pick(len(classes))
	if err != nil {
		return nil, err
	}

	var abilities entities.AbilityScores
	switch method {
	case entities.CreationMethodRandom:
		abilities, err = s.rollAbilities()
	case entities.CreationMethodPointBuy:
		abilities, err = s.pointBuy()
	default:
		return nil, dnderr.InvalidArgumentf("unknown creation method '%s'", method)
	}
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		idx, err := s.pick(len(randomNames))
		if err != nil {
			return nil, err
		}
		name = randomNames[idx]
	}

	char := &entities.Character{
		Name:      name,
		Race:      races[race].BaseName(),
		Class:     classes[class].Name,
		Alignment: "Neutral",
		Abilities: abilities,
		CreatedAt: s.now(),
		Method:    method,
		HP:        entities.DefaultHP,
		MaxHP:     entities.DefaultMaxHP,
	}
	if err := char.Validate(); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInternal, "generated an invalid character")
	}
	return char, nil
}

// pick returns an index in [0, n).
func (s *service) pick(n int) (int, error) {
	if n <= 0 {
		return 0, dnderr.Internal("nothing to pick from")
	}
	res, err := s.roller.Roll(1, n, 0)
	if err != nil {
		return 0, dnderr.Wrap(err, "failed to roll")
	}
	return res.Total - 1, nil
}

func (s *service) rollAbilities() (entities.AbilityScores, error) {
	var scores entities.AbilityScores
	for _, a := range entities.Abilities {
		v, err := dice.AbilityScore(s.roller)
		if err != nil {
			return scores, dnderr.Wrap(err, "failed to roll ability score")
		}
		scores.Set(a, v)
	}
	return scores, nil
}

// pointBuy spends the whole budget one point at a time on random abilities
// that are still under the cap.
func (s *service) pointBuy() (entities.AbilityScores, error) {
	points := entities.PointBuy{}
	for points.Remaining() > 0 {
		var open []entities.Ability
		for _, a := range entities.Abilities {
			if points[a] < entities.PointBuyMaxPerAbility {
				open = append(open, a)
			}
		}
		idx, err := s.pick(len(open))
		if err != nil {
			return entities.AbilityScores{}, err
		}
		points[open[idx]]++
	}
	return points.Apply()
}

func (s *service) client() (dnd5e.Client, error) {
	if s.dndClient == nil {
		return nil, dnderr.Unavailable("The D&D reference library is not available right now.")
	}
	return s.dndClient, nil
}

func (s *service) LookupSpell(_ context.Context, name string) (*dnd5e.Spell, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, dnderr.InvalidArgument("Please name a spell, e.g. `!spell magic missile`.")
	}
	return c.GetSpell(dnd5e.Key(name))
}

func (s *service) LookupRace(_ context.Context, name string) (*dnd5e.Race, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, dnderr.InvalidArgument("Please name a race, e.g. `!race_info half-elf`.")
	}
	return c.GetRace(dnd5e.Key(name))
}

func (s *service) LookupClass(_ context.Context, name string) (*dnd5e.Class, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, dnderr.InvalidArgument("Please name a class, e.g. `!class_info wizard`.")
	}
	return c.GetClass(dnd5e.Key(name))
}
