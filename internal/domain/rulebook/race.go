package rulebook

import "strings"

// Race is a playable race as offered by character creation.
type Race struct {
	Name          string   `yaml:"name"`
	AbilityScores []string `yaml:"ability_scores"`
	Size          string   `yaml:"size"`
	Speed         string   `yaml:"speed"`
	Traits        []string `yaml:"traits"`
	Languages     []string `yaml:"languages"`
}

// BaseName is the race without its subrace, e.g. "Elf" for "Elf (High Elf)".
func (r *Race) BaseName() string {
	return BaseRaceName(r.Name)
}

// BaseRaceName trims a subrace suffix and anything after the first word.
func BaseRaceName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexAny(name, " ("); i > 0 {
		name = name[:i]
	}
	return name
}
