package testutils

import (
	"time"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
)

// FixedTime is a stable timestamp for fixtures.
var FixedTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// CreateTestCharacter creates a level 1 character with default scores.
func CreateTestCharacter(name, race, class string) *entities.Character {
	c := &entities.Character{
		Name:      name,
		Race:      race,
		Class:     class,
		Abilities: entities.DefaultAbilityScores(),
		Method:    entities.CreationMethodManual,
		CreatedAt: FixedTime,
	}
	c.ResetStats()
	return c
}

// CreateTestGame creates a setup-phase game with Emo as GM and the given
// players. Player IDs are also used as display names.
func CreateTestGame(channelID, creatorID string, playerIDs ...string) *entities.GameSession {
	game := entities.NewGameSession(channelID, "guild-1", creatorID, FixedTime)
	for _, id := range playerIDs {
		game.AddPlayer(id, id)
	}
	game.SetGameMaster("bot-1", entities.EmoName, true)
	return game
}

// CreateStartedGame returns a game in the started phase with a character per
// player, linked to ic-1 and ooc-1.
func CreateStartedGame(channelID, creatorID string, playerIDs ...string) *entities.GameSession {
	game := CreateTestGame(channelID, creatorID, playerIDs...)
	for _, id := range playerIDs {
		game.Characters[id] = CreateTestCharacter(id, "Dwarf", "Fighter")
	}
	game.Theme = "Dark Fantasy"
	game.Campaign = &entities.Campaign{Name: "Dark Fantasy", Theme: "Dark Fantasy"}
	game.State = entities.GameStateStarted
	game.ICChannelID = "ic-1"
	game.OOCThreadID = "ooc-1"
	return game
}
