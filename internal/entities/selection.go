package entities

import (
	"time"
)

// SelectionStep is one page of the campaign-setup kit flow a player goes through.
type SelectionStep string

const (
	SelectionStepInventory SelectionStep = "inventory"
	SelectionStepSkills    SelectionStep = "skills"
	SelectionStepCantrips  SelectionStep = "cantrips"
	SelectionStepSpells    SelectionStep = "spells"
	SelectionStepDone      SelectionStep = "done"
)

// SelectionDraft holds one player's in-progress kit choices while they click
// through the direct-message menus.
type SelectionDraft struct {
	ID        string `json:"id"`
	GameID    string `json:"game_id"` // channel ID of the game
	PlayerID  string `json:"player_id"`
	Character string `json:"character"`
	Theme     string `json:"theme"`

	Steps   []SelectionStep `json:"steps"`
	Current int             `json:"current"`

	FixedItems      []string   `json:"fixed_items"`
	InventoryGroups [][]string `json:"inventory_groups"`
	// InventoryPicks is indexed like InventoryGroups. Empty means not picked yet.
	InventoryPicks []string `json:"inventory_picks"`

	SkillOptions   []string `json:"skill_options"`
	SkillCount     int      `json:"skill_count"`
	Skills         []string `json:"skills"`
	CantripOptions []string `json:"cantrip_options"`
	CantripCount   int      `json:"cantrip_count"`
	Cantrips       []string `json:"cantrips"`
	SpellOptions   []string `json:"spell_options"`
	SpellCount     int      `json:"spell_count"`
	Spells         []string `json:"spells"`

	CreatedAt time.Time `json:"created_at"`
}

// Step returns the page the player is on.
func (d *SelectionDraft) Step() SelectionStep {
	if d.Current < 0 || d.Current >= len(d.Steps) {
		return SelectionStepDone
	}
	return d.Steps[d.Current]
}

// Advance moves to the next page and returns it.
func (d *SelectionDraft) Advance() SelectionStep {
	if d.Current < len(d.Steps) {
		d.Current++
	}
	return d.Step()
}

// IsDone reports whether every page was confirmed.
func (d *SelectionDraft) IsDone() bool {
	return d.Step() == SelectionStepDone
}

// Inventory returns fixed items followed by one pick per choice group. Groups
// the player left alone fall back to their first option.
func (d *SelectionDraft) Inventory() []string {
	items := append([]string(nil), d.FixedItems...)
	for i, group := range d.InventoryGroups {
		pick := ""
		if i < len(d.InventoryPicks) {
			pick = d.InventoryPicks[i]
		}
		if pick == "" && len(group) > 0 {
			pick = group[0]
		}
		if pick != "" {
			items = append(items, pick)
		}
	}
	return items
}

// ChosenItems returns only the picks for the choice groups.
func (d *SelectionDraft) ChosenItems() []string {
	return d.Inventory()[len(d.FixedItems):]
}

// Choices returns the options, required count and current picks of a
// skills, cantrips or spells step.
func (d *SelectionDraft) Choices(step SelectionStep) (options []string, count int, chosen []string) {
	switch step {
	case SelectionStepSkills:
		return d.SkillOptions, d.SkillCount, d.Skills
	case SelectionStepCantrips:
		return d.CantripOptions, d.CantripCount, d.Cantrips
	case SelectionStepSpells:
		return d.SpellOptions, d.SpellCount, d.Spells
	}
	return nil, 0, nil
}

// SetChoices replaces the picks of a skills, cantrips or spells step.
func (d *SelectionDraft) SetChoices(step SelectionStep, values []string) {
	picks := append([]string(nil), values...)
	switch step {
	case SelectionStepSkills:
		d.Skills = picks
	case SelectionStepCantrips:
		d.Cantrips = picks
	case SelectionStepSpells:
		d.Spells = picks
	}
}
