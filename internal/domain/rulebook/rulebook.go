// Package rulebook holds the static race, class and portrait tables used by
// character creation and campaign setup.
package rulebook

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

//go:embed data/*.yaml
var tables embed.FS

// Book is a loaded set of tables.
type Book struct {
	races        []*Race
	classes      []*Class
	images       map[string]string
	defaultImage string
}

type racesFile struct {
	Races []*Race `yaml:"races"`
}

type classesFile struct {
	Classes []*Class `yaml:"classes"`
}

type imagesFile struct {
	Default string            `yaml:"default"`
	Images  map[string]string `yaml:"images"`
}

var (
	defaultBook    *Book
	defaultBookErr error
	loadOnce       sync.Once
)

// Default returns the embedded tables. It panics if they are malformed, which
// can only happen through a bad build.
func Default() *Book {
	loadOnce.Do(func() {
		defaultBook, defaultBookErr = Load()
	})
	if defaultBookErr != nil {
		panic(defaultBookErr)
	}
	return defaultBook
}

// Load parses the embedded tables.
func Load() (*Book, error) {
	var rf racesFile
	if err := decode("data/races.yaml", &rf); err != nil {
		return nil, err
	}
	var cf classesFile
	if err := decode("data/classes.yaml", &cf); err != nil {
		return nil, err
	}
	var imf imagesFile
	if err := decode("data/images.yaml", &imf); err != nil {
		return nil, err
	}

	b := &Book{
		races:        rf.Races,
		classes:      cf.Classes,
		images:       make(map[string]string, len(imf.Images)),
		defaultImage: imf.Default,
	}
	for key, url := range imf.Images {
		b.images[imageKey(key)] = url
	}
	if len(b.races) == 0 || len(b.classes) == 0 {
		return nil, fmt.Errorf("rulebook tables are empty")
	}
	return b, nil
}

func decode(path string, out any) error {
	raw, err := tables.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Races returns every race in table order.
func (b *Book) Races() []*Race {
	return b.races
}

// Classes returns every class in table order.
func (b *Book) Classes() []*Class {
	return b.classes
}

// Race finds a race by its first word, so "Elf" and "elf wizard-ish" both map
// to "Elf (High Elf)". An exact table name also matches.
func (b *Book) Race(name string) (*Race, error) {
	want := strings.TrimSpace(name)
	for _, r := range b.races {
		if strings.EqualFold(r.Name, want) {
			return r, nil
		}
	}
	base := BaseRaceName(want)
	for _, r := range b.races {
		if strings.EqualFold(r.BaseName(), base) {
			return r, nil
		}
	}
	return nil, dnderr.NotFoundf("Invalid race '%s'", name).WithMeta("race", name)
}

// Class finds a class by name, ignoring case.
func (b *Book) Class(name string) (*Class, error) {
	want := strings.TrimSpace(name)
	for _, c := range b.classes {
		if strings.EqualFold(c.Name, want) {
			return c, nil
		}
	}
	return nil, dnderr.NotFoundf("Invalid class '%s'", name).WithMeta("class", name)
}

// RaceNames lists the table names of every race.
func (b *Book) RaceNames() []string {
	out := make([]string, len(b.races))
	for i, r := range b.races {
		out[i] = r.Name
	}
	return out
}

// ClassNames lists every class name.
func (b *Book) ClassNames() []string {
	out := make([]string, len(b.classes))
	for i, c := range b.classes {
		out[i] = c.Name
	}
	return out
}

// ImageFor returns the portrait for a race and class, or the default image.
func (b *Book) ImageFor(race, class string) string {
	key := imageKey(BaseRaceName(race) + "_" + strings.TrimSpace(class))
	if url, ok := b.images[key]; ok {
		return url
	}
	return b.defaultImage
}

// DefaultImage is the portrait used when no race/class pair matches.
func (b *Book) DefaultImage() string {
	return b.defaultImage
}

// ImageKeys returns the normalized keys that have a portrait, sorted.
func (b *Book) ImageKeys() []string {
	keys := make([]string, 0, len(b.images))
	for k := range b.images {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// imageKey makes "half-elf_wizard" and "Half-Elf_Wizard" the same key.
func imageKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Package level lookups against the embedded tables.

func LookupRace(name string) (*Race, error) { return Default().Race(name) }

func LookupClass(name string) (*Class, error) { return Default().Class(name) }

func ImageFor(race, class string) string { return Default().ImageFor(race, class) }
