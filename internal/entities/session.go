package entities

import (
	"time"

	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

// GameState is the phase of a channel's game. Phases only move forward.
type GameState string

const (
	GameStateSetup   GameState = "setup"   // players and GM chosen, characters being made
	GameStateActive  GameState = "active"  // theme set, players picking their kit
	GameStateStarted GameState = "started" // IC channel and OOC thread exist
	GameStateEnded   GameState = "ended"
)

// MaxHistory is how many history entries a game keeps.
const MaxHistory = 20

// EmoName is the display name used when the bot is the game master.
const EmoName = "Emo"

func (s GameState) order() int {
	switch s {
	case GameStateSetup:
		return 0
	case GameStateActive:
		return 1
	case GameStateStarted:
		return 2
	case GameStateEnded:
		return 3
	}
	return -1
}

// IsValid reports whether s is a known phase.
func (s GameState) IsValid() bool {
	return s.order() >= 0
}

// Campaign is the generated theme/plot blob attached when the campaign is set up.
type Campaign struct {
	Name  string `json:"name"`
	Theme string `json:"theme"`
	Plot  string `json:"plot,omitempty"`
}

// Scene is the current location of the party.
type Scene struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CombatState tracks an ongoing fight. Only the round is surfaced today.
type CombatState struct {
	Active       bool     `json:"active"`
	Participants []string `json:"participants"`
	CurrentTurn  int      `json:"current_turn"`
	Round        int      `json:"round"`
}

// HistoryEvent names a milestone recorded on the game.
type HistoryEvent string

const (
	HistoryEventGameCreated      HistoryEvent = "game_created"
	HistoryEventCampaignThemeSet HistoryEvent = "campaign_theme_set"
	HistoryEventGameStarted      HistoryEvent = "game_started"
	HistoryEventNarration        HistoryEvent = "narration"
)

// HistoryEntry is one item in the bounded game history.
type HistoryEntry struct {
	ID        string            `json:"id"`
	Event     HistoryEvent      `json:"event"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// GameSession is the persisted per-channel record of a role-play game.
type GameSession struct {
	ChannelID    string                `json:"channel_id"`
	GuildID      string                `json:"guild_id"`
	CreatedBy    string                `json:"created_by"`
	CreatedAt    time.Time             `json:"created_at"`
	Players      []string              `json:"players"`    // display names, same order as PlayerIDs
	PlayerIDs    []string              `json:"player_ids"` // Discord user IDs
	GameMaster   string                `json:"game_master"`
	GameMasterID string                `json:"game_master_id"`
	IsAIGM       bool                  `json:"is_ai_gm"`
	State        GameState             `json:"state"`
	LastUpdated  time.Time             `json:"last_updated"`
	Characters   map[string]*Character `json:"characters"` // player ID -> character
	Campaign     *Campaign             `json:"campaign,omitempty"`
	Theme        string                `json:"theme,omitempty"`
	CurrentScene *Scene                `json:"current_scene,omitempty"`
	NPCs         []string              `json:"npcs"`
	Quests       []string              `json:"quests"`
	Combat       CombatState           `json:"combat"`
	History      []*HistoryEntry       `json:"history"`
	ICChannelID  string                `json:"ic_channel_id,omitempty"`
	OOCThreadID  string                `json:"ooc_thread_id,omitempty"`
}

// NewGameSession creates a game in the setup phase.
func NewGameSession(channelID, guildID, createdBy string, now time.Time) *GameSession {
	return &GameSession{
		ChannelID:   channelID,
		GuildID:     guildID,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		State:       GameStateSetup,
		LastUpdated: now,
		Characters:  make(map[string]*Character),
		NPCs:        []string{},
		Quests:      []string{},
		Combat:      CombatState{Participants: []string{}},
		History:     []*HistoryEntry{},
	}
}

// AddPlayer appends a player unless the ID is already present.
func (g *GameSession) AddPlayer(id, name string) {
	if g.IsPlayer(id) {
		return
	}
	g.PlayerIDs = append(g.PlayerIDs, id)
	g.Players = append(g.Players, name)
}

// IsPlayer reports whether userID is one of the game's players.
func (g *GameSession) IsPlayer(userID string) bool {
	for _, id := range g.PlayerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// PlayerName returns the display name recorded for a player, or "" if unknown.
func (g *GameSession) PlayerName(userID string) string {
	for i, id := range g.PlayerIDs {
		if id == userID && i < len(g.Players) {
			return g.Players[i]
		}
	}
	return ""
}

// SetGameMaster records who runs the game. An AI game master uses the bot's ID.
func (g *GameSession) SetGameMaster(id, name string, ai bool) {
	g.GameMasterID = id
	g.GameMaster = name
	g.IsAIGM = ai
}

// CanManage reports whether userID is the creator or the game master.
func (g *GameSession) CanManage(userID string) bool {
	return userID != "" && (userID == g.CreatedBy || userID == g.GameMasterID)
}

// HasStarted is true once the in-character channel or the OOC thread was created.
func (g *GameSession) HasStarted() bool {
	return g.ICChannelID != "" || g.OOCThreadID != ""
}

// MissingCharacters returns the player IDs without a character, in player order.
func (g *GameSession) MissingCharacters() []string {
	var missing []string
	for _, id := range g.PlayerIDs {
		if _, ok := g.Characters[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// Character returns the player's character, if any.
func (g *GameSession) Character(playerID string) (*Character, bool) {
	if g.Characters == nil {
		return nil, false
	}
	c, ok := g.Characters[playerID]
	return c, ok
}

// CharacterByName finds a character by name, ignoring case.
func (g *GameSession) CharacterByName(name string) (string, *Character, bool) {
	for id, c := range g.Characters {
		if equalFold(c.Name, name) {
			return id, c, true
		}
	}
	return "", nil, false
}

// SetCharacter stores a player's character, replacing any previous one.
func (g *GameSession) SetCharacter(playerID string, c *Character) error {
	if !g.IsPlayer(playerID) {
		return dnderr.PermissionDenied("You are not a player in this D&D game.").
			WithMeta("player_id", playerID)
	}
	if c == nil {
		return dnderr.InvalidArgument("character is required")
	}
	if g.Characters == nil {
		g.Characters = make(map[string]*Character)
	}
	g.Characters[playerID] = c
	return nil
}

// Activate moves a game from setup to active with the given theme.
func (g *GameSession) Activate(theme string) error {
	if !g.IsAIGM {
		return dnderr.FailedPrecondition("This command is only available for games with Emo as the Game Master.")
	}
	if g.State != GameStateSetup {
		return dnderr.FailedPrecondition("The campaign can only be set up during the initial setup phase.").
			WithMeta("state", string(g.State))
	}
	if theme == "" {
		return dnderr.InvalidArgument("No theme provided. Campaign setup cancelled.")
	}
	if missing := g.MissingCharacters(); len(missing) > 0 {
		return dnderr.FailedPrecondition("Every player needs a character before the campaign can be set up.").
			WithMeta("missing", missing)
	}

	g.Theme = theme
	g.Campaign = &Campaign{Name: theme, Theme: theme}
	g.State = GameStateActive
	return nil
}

// Start moves an active game to started and records its play channels.
func (g *GameSession) Start(icChannelID, oocThreadID string) error {
	if !g.IsAIGM {
		return dnderr.FailedPrecondition("This command is only available for games with Emo as the Game Master.")
	}
	if g.State != GameStateActive {
		return dnderr.FailedPrecondition("The game hasn't been fully set up yet. Complete the campaign setup with `!campaign_setup` first.").
			WithMeta("state", string(g.State))
	}
	if missing := g.MissingCharacters(); len(missing) > 0 {
		return dnderr.FailedPrecondition("Every player needs a character before the game can start.").
			WithMeta("missing", missing)
	}

	g.ICChannelID = icChannelID
	g.OOCThreadID = oocThreadID
	g.State = GameStateStarted
	return nil
}

// End marks the game over. Ending twice is an error.
func (g *GameSession) End() error {
	if g.State == GameStateEnded {
		return dnderr.FailedPrecondition("This game has already ended.")
	}
	g.State = GameStateEnded
	return nil
}

// CanTransition reports whether to is reachable from the current phase.
func (g *GameSession) CanTransition(to GameState) bool {
	return to.IsValid() && to.order() == g.State.order()+1
}

// AddHistory appends an entry and keeps only the newest MaxHistory.
func (g *GameSession) AddHistory(entry *HistoryEntry) {
	if entry == nil {
		return
	}
	g.History = append(g.History, entry)
	if len(g.History) > MaxHistory {
		g.History = append([]*HistoryEntry(nil), g.History[len(g.History)-MaxHistory:]...)
	}
}

// ApplyHPChange adjusts a character's HP. Unknown players are ignored.
func (g *GameSession) ApplyHPChange(playerID string, delta int) (*Character, bool) {
	c, ok := g.Character(playerID)
	if !ok {
		return nil, false
	}
	c.ApplyHPChange(delta)
	return c, true
}

// AwardExp grants experience to a character. Unknown players are ignored.
func (g *GameSession) AwardExp(playerID string, amount int) (*Character, bool) {
	c, ok := g.Character(playerID)
	if !ok {
		return nil, false
	}
	c.AwardExp(amount)
	return c, true
}

// IsLinkedChannel reports whether id is the game's IC channel or OOC thread.
func (g *GameSession) IsLinkedChannel(id string) bool {
	return id != "" && (id == g.ICChannelID || id == g.OOCThreadID)
}
