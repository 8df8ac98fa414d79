package dnd5e

import (
	"strings"

	apiEntities "github.com/fadedpez/dnd5e-api/entities"
)

func apiSpellToSpell(input *apiEntities.Spell) *Spell {
	if input == nil {
		return nil
	}

	spell := &Spell{
		Key:           input.Key,
		Name:          input.Name,
		Level:         input.SpellLevel,
		CastingTime:   input.CastingTime,
		Range:         input.Range,
		Duration:      input.Duration,
		Concentration: input.Concentration,
		Ritual:        input.Ritual,
		Classes:       referenceNames(input.SpellClasses),
	}
	if input.SpellSchool != nil {
		spell.School = input.SpellSchool.Name
	}
	if input.SpellDamage != nil && input.SpellDamage.SpellDamageType != nil {
		spell.DamageType = input.SpellDamage.SpellDamageType.Name
	}
	if input.DC != nil && input.DC.DCType != nil {
		spell.SaveType = strings.ToUpper(input.DC.DCType.Name)
	}
	return spell
}

func apiRaceToRace(input *apiEntities.Race) *Race {
	if input == nil {
		return nil
	}

	race := &Race{
		Key:            input.Key,
		Name:           input.Name,
		Speed:          input.Speed,
		AbilityBonuses: make(map[string]int),
		Proficiencies:  referenceNames(input.StartingProficiencies),
	}
	for _, bonus := range input.AbilityBonuses {
		if bonus == nil || bonus.AbilityScore == nil {
			continue
		}
		race.AbilityBonuses[strings.ToUpper(bonus.AbilityScore.Key)] = bonus.Bonus
	}
	return race
}

func apiClassToClass(input *apiEntities.Class) *Class {
	if input == nil {
		return nil
	}

	return &Class{
		Key:           input.Key,
		Name:          input.Name,
		HitDie:        input.HitDie,
		Proficiencies: referenceNames(input.Proficiencies),
	}
}

func referenceNames(refs []*apiEntities.ReferenceItem) []string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		names = append(names, ref.Name)
	}
	return names
}
