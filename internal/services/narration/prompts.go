package narration

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
)

// SystemPrompt sets Emo up as the storyteller. It is sent ahead of every request.
const SystemPrompt = `You are Emo, a skilled and engaging Dungeon Master for a D&D adventure. Follow these storytelling guidelines:

1. Begin with a brief, vivid scene description (2-3 lines) that helps players visualize where they are
2. Use simple, everyday language that beginners can easily understand
3. Introduce characters naturally, mentioning one interesting visual detail about each
4. Present clear choices or opportunities for players without overwhelming them
5. Only ask for dice rolls when truly necessary (major challenges, combat, or risky actions)
6. When describing actions, focus on what players see, hear, and feel
7. Create a sense of wonder and adventure appropriate for the theme
8. Include occasional NPC interactions with distinct personalities
9. Gently remind players of their character abilities when relevant
10. Keep your narration under 7 lines for good pacing

Special tags (these won't appear in the final text):
- Use SCENE: tag to mark important location descriptions
- Use NPC: Name: Description to track important non-player characters
- If a dice roll is needed, include PENDING_ROLL: [character] must roll [dice] + [modifier] and explain why in everyday terms
`

const (
	// MessageNotConfigured replaces narration when no LLM key is set.
	MessageNotConfigured = "Sorry, my narration brain isn't working! Check if GEMINI_API_KEY is set in .env."
	// MessageFailed replaces narration when the LLM call fails.
	MessageFailed = "Sorry, something went wrong with the narration!"
	// MessageUnknownPlayer answers a reply from someone without a character.
	MessageUnknownPlayer = "I don’t recognize you in this game!"
)

var (
	sceneTag       = regexp.MustCompile(`SCENE: ([^\n]+)`)
	npcTag         = regexp.MustCompile(`NPC: ([^:\n]+): ([^\n]+)`)
	pendingRollTag = regexp.MustCompile(`PENDING_ROLL: (\w+) must roll ([^\n]+)`)

	damagePattern = regexp.MustCompile(`(?i)(\w+) takes (\d+) damage`)
	healPattern   = regexp.MustCompile(`(?i)(\w+) heals for (\d+)`)
	expPattern    = regexp.MustCompile(`(?i)(\w+) gains (\d+) EXP`)

	rollReply = regexp.MustCompile(`^\d+$`)
)

// partyNames lists the character names in player order.
func partyNames(game *entities.GameSession) string {
	names := make([]string, 0, len(game.PlayerIDs))
	for _, id := range game.PlayerIDs {
		if c, ok := game.Character(id); ok {
			names = append(names, c.Name)
		} else {
			names = append(names, "Unknown")
		}
	}
	return strings.Join(names, ", ")
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

// characterDetails renders every character for the prompt.
func characterDetails(game *entities.GameSession) string {
	details := make([]string, 0, len(game.PlayerIDs))
	for _, id := range game.PlayerIDs {
		c, ok := game.Character(id)
		if !ok {
			continue
		}
		details = append(details, fmt.Sprintf("%s (Race: %s, Class: %s, Spells: %s, Skills: %s, Traits: %s, Equipment: %s)",
			c.Name, c.Race, c.Class,
			listOrNone(c.Spells), listOrNone(c.Skills), listOrNone(c.Traits), listOrNone(c.Inventory)))
	}
	return strings.Join(details, "; ")
}

func openingPrompt(game *entities.GameSession) string {
	return fmt.Sprintf("Start a %s adventure for players %s with characters: %s. "+
		"Create a beginner-friendly opening scene that introduces a simple goal or quest. "+
		"Tag the scene description with SCENE: and any NPCs with NPC: tags. "+
		"Use everyday language a new player would understand.",
		game.Theme, partyNames(game), characterDetails(game))
}

func actionPrompt(game *entities.GameSession, character, content string) string {
	return fmt.Sprintf("Continue the %s adventure for players %s with characters: %s. Player action by %s: %s",
		game.Theme, partyNames(game), characterDetails(game), character, content)
}

func rollPrompt(game *entities.GameSession, character string, result int, pending string) string {
	return fmt.Sprintf("Continue the %s adventure for players %s with characters: %s. %s rolled %d for %s.",
		game.Theme, partyNames(game), characterDetails(game), character, result, pending)
}

// withContext appends the remembered scene, NPCs, world details and pending
// rolls to a prompt.
func withContext(prompt string, state *entities.NarrationState) string {
	var parts []string
	if state.Scene != "" {
		parts = append(parts, "Current scene: "+state.Scene)
	}
	if len(state.NPCs) > 0 {
		var b strings.Builder
		b.WriteString("\nNPCs the party has encountered:\n")
		for _, name := range state.NPCNames() {
			fmt.Fprintf(&b, "- %s: %s\n", name, state.NPCs[name])
		}
		parts = append(parts, b.String())
	}
	if state.WorldDetails != "" {
		parts = append(parts, "World details: "+state.WorldDetails)
	}
	if len(parts) > 0 {
		prompt += "\n\nContext (not to be repeated verbatim):\n" + strings.Join(parts, "\n")
	}

	if pending := state.PendingCharacters(); len(pending) > 0 {
		entries := make([]string, len(pending))
		for i, name := range pending {
			entries[i] = fmt.Sprintf("%s: %s", name, state.PendingRolls[name])
		}
		prompt += "\nPending actions: " + strings.Join(entries, "; ")
	}
	return prompt
}

// extractTags stores SCENE and NPC tags on the state and strips them from
// the narration. Only the first scene tag is used.
func extractTags(narration string, state *entities.NarrationState) string {
	if m := sceneTag.FindStringSubmatch(narration); m != nil {
		state.Scene = strings.TrimSpace(m[1])
		narration = strings.Replace(narration, m[0], "", 1)
	}
	for _, m := range npcTag.FindAllStringSubmatch(narration, -1) {
		state.RememberNPC(m[1], m[2])
		narration = strings.Replace(narration, m[0], "", 1)
	}
	return strings.TrimSpace(narration)
}

// sameCharacter matches a name scraped from narration against the acting
// character. A first name is enough since the patterns only capture one word.
func sameCharacter(scraped, character string) bool {
	if strings.EqualFold(scraped, character) {
		return true
	}
	fields := strings.Fields(character)
	return len(fields) > 1 && strings.EqualFold(scraped, fields[0])
}
