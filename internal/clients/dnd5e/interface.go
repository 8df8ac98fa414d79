package dnd5e

//go:generate mockgen -destination=mock/mock_client.go -package=mockdnd5e . Client

// Client looks up SRD reference data for the info commands.
type Client interface {
	GetSpell(key string) (*Spell, error)
	GetRace(key string) (*Race, error)
	GetClass(key string) (*Class, error)
}

// Spell is the subset of the SRD spell record shown by !spell.
type Spell struct {
	Key           string
	Name          string
	Level         int
	School        string
	CastingTime   string
	Range         string
	Duration      string
	Concentration bool
	Ritual        bool
	DamageType    string
	SaveType      string
	Classes       []string
}

// Race is the subset of the SRD race record shown by !race_info.
type Race struct {
	Key            string
	Name           string
	Speed          int
	AbilityBonuses map[string]int // ability short name -> bonus
	Proficiencies  []string
}

// Class is the subset of the SRD class record shown by !class_info.
type Class struct {
	Key           string
	Name          string
	HitDie        int
	Proficiencies []string
}
