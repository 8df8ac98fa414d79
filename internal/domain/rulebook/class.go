package rulebook

import "strings"

// ChoiceSeparator splits the options of an equipment choice group.
const ChoiceSeparator = " OR "

// SkillChoice is "choose N of these".
type SkillChoice struct {
	Choose  int      `yaml:"choose"`
	Options []string `yaml:"options"`
}

// SpellChoices lists the starting cantrips and 1st-level spells of a caster.
type SpellChoices struct {
	ChooseCantrips int      `yaml:"choose_cantrips"`
	Cantrips       []string `yaml:"cantrips"`
	ChooseSpells   int      `yaml:"choose_spells"`
	Spells         []string `yaml:"spells"`
}

// Class is a character class with its starting kit.
type Class struct {
	Name          string        `yaml:"name"`
	HitDice       string        `yaml:"hit_dice"`
	Proficiencies []string      `yaml:"proficiencies"`
	SavingThrows  []string      `yaml:"saving_throws"`
	Skills        *SkillChoice  `yaml:"skills"`
	Equipment     []string      `yaml:"equipment"`
	ClassFeatures []string      `yaml:"class_features"`
	Spells        *SpellChoices `yaml:"spells"`
}

// IsCaster reports whether the class picks spells at creation.
func (c *Class) IsCaster() bool {
	return c.Spells != nil
}

// EquipmentChoices separates fixed items from "A OR B" groups.
func (c *Class) EquipmentChoices() (fixed []string, groups [][]string) {
	for _, item := range c.Equipment {
		item = strings.TrimSpace(item)
		if !strings.Contains(item, ChoiceSeparator) {
			fixed = append(fixed, item)
			continue
		}
		var options []string
		for _, opt := range strings.Split(item, ChoiceSeparator) {
			if opt = strings.TrimSpace(opt); opt != "" {
				options = append(options, opt)
			}
		}
		groups = append(groups, options)
	}
	return fixed, groups
}
