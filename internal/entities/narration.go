package entities

import (
	"sort"
	"strings"
	"time"
)

// MaxNarrationTurns bounds the chat history kept for the storyteller.
const MaxNarrationTurns = 40

// TurnRole says who produced a turn of narration history.
type TurnRole string

const (
	TurnRoleUser  TurnRole = "user"
	TurnRoleModel TurnRole = "model"
)

// NarrationTurn is one prompt or reply in the storyteller's memory.
type NarrationTurn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}

// NarrationState is the storyteller's memory for one in-character channel.
type NarrationState struct {
	ChannelID    string            `json:"channel_id"`
	Turns        []NarrationTurn   `json:"turns"`
	Scene        string            `json:"scene,omitempty"`
	NPCs         map[string]string `json:"npcs"`
	WorldDetails string            `json:"world_details,omitempty"`
	// PendingRolls maps a character name to the roll it owes, e.g. "roll 1d20 + 2".
	PendingRolls map[string]string `json:"pending_rolls"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewNarrationState returns an empty state for channelID.
func NewNarrationState(channelID string) *NarrationState {
	return &NarrationState{
		ChannelID:    channelID,
		Turns:        []NarrationTurn{},
		NPCs:         make(map[string]string),
		PendingRolls: make(map[string]string),
	}
}

// AddExchange records a prompt and its reply, trimming the oldest turns.
func (s *NarrationState) AddExchange(prompt, reply string) {
	s.Turns = append(s.Turns,
		NarrationTurn{Role: TurnRoleUser, Content: prompt},
		NarrationTurn{Role: TurnRoleModel, Content: reply},
	)
	if len(s.Turns) > MaxNarrationTurns {
		s.Turns = append([]NarrationTurn(nil), s.Turns[len(s.Turns)-MaxNarrationTurns:]...)
	}
}

// RememberNPC stores or replaces an NPC description.
func (s *NarrationState) RememberNPC(name, description string) {
	if s.NPCs == nil {
		s.NPCs = make(map[string]string)
	}
	s.NPCs[strings.TrimSpace(name)] = strings.TrimSpace(description)
}

// NPCNames returns the known NPCs in a stable order.
func (s *NarrationState) NPCNames() []string {
	names := make([]string, 0, len(s.NPCs))
	for name := range s.NPCs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetPendingRoll records that character owes a roll.
func (s *NarrationState) SetPendingRoll(character, roll string) {
	if s.PendingRolls == nil {
		s.PendingRolls = make(map[string]string)
	}
	s.PendingRolls[character] = roll
}

// PendingRoll returns the roll a character owes.
func (s *NarrationState) PendingRoll(character string) (string, bool) {
	roll, ok := s.PendingRolls[character]
	return roll, ok
}

// ResolvePendingRoll clears a character's pending roll.
func (s *NarrationState) ResolvePendingRoll(character string) {
	delete(s.PendingRolls, character)
}

// PendingCharacters returns the characters with a pending roll, sorted.
func (s *NarrationState) PendingCharacters() []string {
	names := make([]string, 0, len(s.PendingRolls))
	for name := range s.PendingRolls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
