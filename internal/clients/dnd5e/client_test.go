package dnd5e

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	apiEntities "github.com/fadedpez/dnd5e-api/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

func TestKey(t *testing.T) {
	tests := map[string]string{
		"Fireball":                 "fireball",
		"  Magic   Missile ":        "magic-missile",
		"Tasha's Hideous Laughter": "tashas-hideous-laughter",
		"Half-Elf":                 "half-elf",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Key(in))
		})
	}
}

func TestApiSpellToSpell(t *testing.T) {
	in := &apiEntities.Spell{
		Key:          "fireball",
		Name:         "Fireball",
		SpellLevel:   3,
		CastingTime:  "1 action",
		Range:        "150 feet",
		Duration:     "Instantaneous",
		SpellSchool:  &apiEntities.ReferenceItem{Key: "evocation", Name: "Evocation"},
		SpellClasses: []*apiEntities.ReferenceItem{{Key: "wizard", Name: "Wizard"}, nil},
	}

	got := apiSpellToSpell(in)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Level)
	assert.Equal(t, "Evocation", got.School)
	assert.Empty(t, got.DamageType)
	assert.Empty(t, got.SaveType)
	assert.Equal(t, []string{"Wizard"}, got.Classes)
	assert.Nil(t, apiSpellToSpell(nil))
}

func TestApiRaceToRace(t *testing.T) {
	in := &apiEntities.Race{
		Key:   "dwarf",
		Name:  "Dwarf",
		Speed: 25,
		AbilityBonuses: []*apiEntities.AbilityBonus{
			{AbilityScore: &apiEntities.ReferenceItem{Key: "con"}, Bonus: 2},
			{Bonus: 9},
		},
	}

	got := apiRaceToRace(in)
	assert.Equal(t, 25, got.Speed)
	assert.Equal(t, map[string]int{"CON": 2}, got.AbilityBonuses)
	assert.Empty(t, got.Proficiencies)
}

func TestLookupError(t *testing.T) {
	err := lookupError(errors.New("unexpected status code: 404"), "spell", "nope")
	assert.True(t, dnderr.IsNotFound(err))

	err = lookupError(errors.New("connection refused"), "spell", "fireball")
	assert.True(t, dnderr.Is(err, dnderr.CodeUnavailable))
}

func TestRewriteTransport(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	c, err := New(&Config{BaseURL: srv.URL})
	require.NoError(t, err)
	require.NotNil(t, c)

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodGet, "https://www.dnd5eapi.co/api/spells/fireball", nil)
	require.NoError(t, err)

	rt := &rewriteTransport{base: target, next: http.DefaultTransport}
	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "/api/spells/fireball", gotPath)
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New(&Config{BaseURL: "not a url"})
	assert.True(t, dnderr.IsInvalidArgument(err))

	_, err = New(nil)
	assert.True(t, dnderr.IsInvalidArgument(err))
}
