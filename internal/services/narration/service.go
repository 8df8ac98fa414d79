package narration

//go:generate mockgen -destination=mock/mock_service.go -package=mocknarration -source=service.go

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/KirkDiggler/emo-bot-discord/internal/clients/llm"
	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
	narrationrepo "github.com/KirkDiggler/emo-bot-discord/internal/repositories/narration"
	"github.com/KirkDiggler/emo-bot-discord/internal/services/game"
)

// Repository is an alias for the narration state repository interface
type Repository = narrationrepo.Repository

// Service turns player actions in the IC channel into storyteller replies.
type Service interface {
	// Begin narrates the opening scene of a started game
	Begin(ctx context.Context, game *entities.GameSession) (*Result, error)

	// Respond narrates the outcome of a player's reply to Emo
	Respond(ctx context.Context, input *RespondInput) (*Result, error)

	// Reset forgets everything the storyteller remembers about a channel
	Reset(ctx context.Context, channelID string) error
}

// RespondInput is a reply to one of Emo's messages in the IC channel.
type RespondInput struct {
	Game     *entities.GameSession
	PlayerID string
	Content  string
}

// Result is the text to post and what happened while producing it.
type Result struct {
	Narration string
	// Character is the acting character's name, empty for the opening.
	Character string
	// ResolvedRoll is true when the reply settled a pending roll.
	ResolvedRoll bool
	// Degraded is true when the model could not be reached and Narration
	// holds an apology instead of story.
	Degraded bool
}

type service struct {
	repository  Repository
	llmClient   llm.Client
	gameService game.Service

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository  Repository   // Required
	LLMClient   llm.Client   // Required, use llm.NewDisabled when no key is set
	GameService game.Service // Required
}

// NewService creates a new narration service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.LLMClient == nil {
		panic("llm client is required")
	}
	if cfg.GameService == nil {
		panic("game service is required")
	}
	return &service{
		repository:  cfg.Repository,
		llmClient:   cfg.LLMClient,
		gameService: cfg.GameService,
		locks:       make(map[string]*sync.Mutex),
	}
}

// lock serializes narration per channel so two replies cannot interleave
// their read-modify-write of the state.
func (s *service) lock(channelID string) func() {
	s.mu.Lock()
	l, ok := s.locks[channelID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[channelID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *service) loadState(ctx context.Context, channelID string) (*entities.NarrationState, error) {
	state, err := s.repository.Get(ctx, channelID)
	if err != nil {
		if dnderr.IsNotFound(err) {
			return entities.NewNarrationState(channelID), nil
		}
		return nil, dnderr.Wrapf(err, "failed to load narration state for '%s'", channelID)
	}
	return state, nil
}

func (s *service) Begin(ctx context.Context, g *entities.GameSession) (*Result, error) {
	if g == nil || g.ICChannelID == "" {
		return nil, dnderr.InvalidArgument("a started game is required")
	}
	defer s.lock(g.ICChannelID)()

	state, err := s.loadState(ctx, g.ICChannelID)
	if err != nil {
		return nil, err
	}

	text, degraded, err := s.narrate(ctx, state, openingPrompt(g))
	if err != nil {
		return nil, err
	}
	if !degraded {
		if err := s.gameService.AddHistory(ctx, g.ChannelID, entities.HistoryEventNarration, map[string]string{
			"scene": state.Scene,
		}); err != nil {
			log.Printf("[Narration] Failed to record opening in history for %s: %v", g.ChannelID, err)
		}
	}

	return &Result{Narration: text, Degraded: degraded}, nil
}

func (s *service) Respond(ctx context.Context, input *RespondInput) (*Result, error) {
	if input == nil || input.Game == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}
	g := input.Game
	char, ok := g.Character(input.PlayerID)
	if !ok {
		return nil, dnderr.NotFound(MessageUnknownPlayer).WithMeta("player_id", input.PlayerID)
	}
	acting := char.Name

	defer s.lock(g.ICChannelID)()

	state, err := s.loadState(ctx, g.ICChannelID)
	if err != nil {
		return nil, err
	}

	result := &Result{Character: acting}
	content := strings.TrimSpace(input.Content)

	var prompt string
	pendingFor, hasPending := pendingKey(state, acting)
	if hasPending && rollReply.MatchString(content) {
		pending := state.PendingRolls[pendingFor]
		roll, _ := strconv.Atoi(content)
		prompt = rollPrompt(g, acting, roll, pending)
		result.ResolvedRoll = true
	} else {
		prompt = actionPrompt(g, acting, input.Content)
	}

	text, degraded, err := s.narrate(ctx, state, prompt)
	if err != nil {
		return nil, err
	}
	if degraded {
		result.Narration = text
		result.Degraded = true
		return result, nil
	}

	if result.ResolvedRoll {
		state.ResolvePendingRoll(pendingFor)
	}

	text = s.applyEffects(ctx, g, input.PlayerID, acting, text)

	if m := pendingRollTag.FindStringSubmatch(text); m != nil {
		who, roll := m[1], strings.TrimSpace(m[2])
		if sameCharacter(who, acting) {
			who = acting
		}
		state.SetPendingRoll(who, "roll "+roll)
		text = strings.Replace(text, m[0], fmt.Sprintf("%s, please roll %s in your next reply.", who, roll), 1)
	}

	var reminders []string
	for _, who := range state.PendingCharacters() {
		if sameCharacter(who, acting) {
			continue
		}
		reminders = append(reminders, fmt.Sprintf("%s, your roll for %s is still pending!", who, state.PendingRolls[who]))
	}
	if len(reminders) > 0 {
		text += "\n" + strings.Join(reminders, "\n")
	}

	if err := s.repository.Save(ctx, state); err != nil {
		return nil, dnderr.Wrap(err, "failed to save narration state")
	}

	result.Narration = text
	return result, nil
}

// pendingKey finds the roll character owes. Tags scraped while another
// character acted are keyed by first name only.
func pendingKey(state *entities.NarrationState, character string) (string, bool) {
	if _, ok := state.PendingRoll(character); ok {
		return character, true
	}
	for _, who := range state.PendingCharacters() {
		if sameCharacter(who, character) {
			return who, true
		}
	}
	return "", false
}

// narrate sends the prompt with the remembered context, strips the tags
// from the reply and records the exchange. A model failure is reported as
// degraded text rather than an error.
func (s *service) narrate(ctx context.Context, state *entities.NarrationState, prompt string) (string, bool, error) {
	prompt = withContext(prompt, state)

	history := make([]llm.Message, 0, len(state.Turns))
	for _, turn := range state.Turns {
		role := llm.RoleUser
		if turn.Role == entities.TurnRoleModel {
			role = llm.RoleAssistant
		}
		history = append(history, llm.Message{Role: role, Content: turn.Content})
	}

	reply, err := s.llmClient.SendPrompt(ctx, SystemPrompt, history, prompt)
	if err != nil {
		if llm.IsNotConfigured(err) {
			return MessageNotConfigured, true, nil
		}
		log.Printf("[Narration] Error getting narration for %s: %v", state.ChannelID, err)
		return MessageFailed, true, nil
	}

	text := extractTags(reply, state)
	state.AddExchange(prompt, text)

	if err := s.repository.Save(ctx, state); err != nil {
		return "", false, dnderr.Wrap(err, "failed to save narration state")
	}
	return text, false, nil
}

// applyEffects scrapes damage, healing and EXP for the acting character,
// applies them to the game and appends a note for each.
func (s *service) applyEffects(ctx context.Context, g *entities.GameSession, playerID, acting, text string) string {
	if m := damagePattern.FindStringSubmatch(text); m != nil && sameCharacter(m[1], acting) {
		n, _ := strconv.Atoi(m[2])
		if _, err := s.gameService.ApplyHPChange(ctx, g.ChannelID, playerID, -n); err != nil {
			log.Printf("[Narration] Failed to apply damage to %s: %v", acting, err)
		} else {
			text += fmt.Sprintf("\n%s's HP decreased by %d!", acting, n)
		}
	}
	if m := healPattern.FindStringSubmatch(text); m != nil && sameCharacter(m[1], acting) {
		n, _ := strconv.Atoi(m[2])
		if _, err := s.gameService.ApplyHPChange(ctx, g.ChannelID, playerID, n); err != nil {
			log.Printf("[Narration] Failed to apply healing to %s: %v", acting, err)
		} else {
			text += fmt.Sprintf("\n%s's HP increased by %d!", acting, n)
		}
	}
	if m := expPattern.FindStringSubmatch(text); m != nil && sameCharacter(m[1], acting) {
		n, _ := strconv.Atoi(m[2])
		if _, err := s.gameService.AwardExp(ctx, g.ChannelID, playerID, n); err != nil {
			log.Printf("[Narration] Failed to award EXP to %s: %v", acting, err)
		} else {
			text += fmt.Sprintf("\n%s gained %d EXP!", acting, n)
		}
	}
	return text
}

func (s *service) Reset(ctx context.Context, channelID string) error {
	defer s.lock(channelID)()
	if err := s.repository.Delete(ctx, channelID); err != nil {
		return dnderr.Wrapf(err, "failed to reset narration for '%s'", channelID)
	}
	return nil
}
