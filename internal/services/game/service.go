package game

//go:generate mockgen -destination=mock/mock_service.go -package=mockgame -source=service.go

import (
	"context"
	"log"
	"time"

	"github.com/KirkDiggler/emo-bot-discord/internal/domain/rulebook"
	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/games"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/narration"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/selections"
	"github.com/KirkDiggler/emo-bot-discord/internal/uuid"
)

// Repository is an alias for the game repository interface
type Repository = games.Repository

// Service owns every state change of a channel's game.
type Service interface {
	// CreateGame sets up a new game in the setup phase
	CreateGame(ctx context.Context, input *CreateGameInput) (*entities.GameSession, error)

	// GetGame returns the game created in channelID
	GetGame(ctx context.Context, channelID string) (*entities.GameSession, error)

	// GetGameByLinkedChannel resolves an IC channel or OOC thread to its game
	GetGameByLinkedChannel(ctx context.Context, id string) (*entities.GameSession, error)

	// ListGames returns every stored game
	ListGames(ctx context.Context) ([]*entities.GameSession, error)

	// EndGame removes a game after the permission and phase checks
	EndGame(ctx context.Context, input *EndGameInput) (*entities.GameSession, error)

	// SaveCharacter stores a player's character
	SaveCharacter(ctx context.Context, input *SaveCharacterInput) (*entities.GameSession, error)

	// MissingCharacters lists the player IDs without a character
	MissingCharacters(ctx context.Context, channelID string) ([]string, error)

	// SetupCampaign sets the theme, prepares every character's base kit and
	// opens a selection draft per player
	SetupCampaign(ctx context.Context, input *SetupCampaignInput) (*SetupCampaignResult, error)

	// ApplySelections folds a finished draft into the player's character
	ApplySelections(ctx context.Context, draft *entities.SelectionDraft) (*ApplySelectionsResult, error)

	// StartGame records the play channels and moves the game to started
	StartGame(ctx context.Context, input *StartGameInput) (*entities.GameSession, error)

	// ApplyHPChange adjusts a character's HP, clamped to [0, max_hp]
	ApplyHPChange(ctx context.Context, channelID, playerID string, delta int) (*entities.Character, error)

	// AwardExp grants experience and levels the character up
	AwardExp(ctx context.Context, channelID, playerID string, amount int) (*entities.Character, error)

	// AddHistory appends an entry to the bounded game history
	AddHistory(ctx context.Context, channelID string, event entities.HistoryEvent, details map[string]string) error
}

// CreateGameInput contains data for creating a game
type CreateGameInput struct {
	ChannelID   string
	GuildID     string
	CreatorID   string
	PlayerIDs   []string
	PlayerNames []string // same order as PlayerIDs
	// GameMasterChoice is 0 for Emo or the 1-based index of a player.
	GameMasterChoice int
	BotUserID        string
}

// EndGameInput describes where !end_dnd was typed.
type EndGameInput struct {
	ChannelID string
	// ParentChannelID is set when the command came from a thread.
	ParentChannelID string
	IsThread        bool
	UserID          string
}

// SaveCharacterInput contains a character to store
type SaveCharacterInput struct {
	ChannelID string
	PlayerID  string
	Character *entities.Character
}

// SetupCampaignInput contains the campaign theme
type SetupCampaignInput struct {
	ChannelID string
	UserID    string
	Theme     string
}

// SetupCampaignResult is the activated game and one draft per player who
// has choices to make.
type SetupCampaignResult struct {
	Game   *entities.GameSession
	Drafts []*entities.SelectionDraft
	// Skipped holds players whose race or class is not in the rulebook.
	Skipped map[string]error
}

// ApplySelectionsResult reports the updated character and whether every
// player of the game has finished their choices.
type ApplySelectionsResult struct {
	Game      *entities.GameSession
	Character *entities.Character
	AllDone   bool
}

// StartGameInput contains the channels created for play
type StartGameInput struct {
	ChannelID   string
	ICChannelID string
	OOCThreadID string
}

// TimeProvider lets tests pin timestamps
type TimeProvider interface {
	Now() time.Time
}

type realTime struct{}

func (realTime) Now() time.Time { return time.Now().UTC() }

type service struct {
	repository     Repository
	narrationRepo  narration.Repository
	selectionsRepo selections.Repository
	book           *rulebook.Book
	uuidGenerator  uuid.Generator
	clock          TimeProvider
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository     Repository            // Required
	SelectionsRepo selections.Repository // Required
	NarrationRepo  narration.Repository  // Optional, narration state is left behind if nil
	Rulebook       *rulebook.Book        // Optional, will use the embedded tables if nil
	UUIDGenerator  uuid.Generator        // Optional, will use default if nil
	TimeProvider   TimeProvider          // Optional, will use time.Now if nil
}

// NewService creates a new game service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.SelectionsRepo == nil {
		panic("selections repository is required")
	}

	svc := &service{
		repository:     cfg.Repository,
		selectionsRepo: cfg.SelectionsRepo,
		narrationRepo:  cfg.NarrationRepo,
		book:           cfg.Rulebook,
		uuidGenerator:  cfg.UUIDGenerator,
		clock:          cfg.TimeProvider,
	}
	if svc.book == nil {
		svc.book = rulebook.Default()
	}
	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.Random
	}
	if svc.clock == nil {
		svc.clock = realTime{}
	}

	return svc
}

func (s *service) CreateGame(ctx context.Context, input *CreateGameInput) (*entities.GameSession, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}
	if input.ChannelID == "" {
		return nil, dnderr.InvalidArgument("channel ID is required")
	}
	if len(input.PlayerIDs) == 0 {
		return nil, dnderr.InvalidArgument("No players were mentioned. Game setup cancelled.")
	}
	if len(input.PlayerNames) != len(input.PlayerIDs) {
		return nil, dnderr.InvalidArgument("player names and IDs must line up")
	}
	if input.GameMasterChoice < 0 || input.GameMasterChoice > len(input.PlayerIDs) {
		return nil, dnderr.InvalidArgument("Invalid choice. Game setup cancelled.").
			WithMeta("choice", input.GameMasterChoice)
	}

	if _, err := s.repository.Get(ctx, input.ChannelID); err == nil {
		return nil, dnderr.AlreadyExists("A D&D game is already set up in this channel.").
			WithMeta("channel_id", input.ChannelID)
	} else if !dnderr.IsNotFound(err) {
		return nil, dnderr.Wrap(err, "failed to check for an existing game")
	}

	now := s.clock.Now()
	game := entities.NewGameSession(input.ChannelID, input.GuildID, input.CreatorID, now)
	for i, id := range input.PlayerIDs {
		game.AddPlayer(id, input.PlayerNames[i])
	}

	if input.GameMasterChoice == 0 {
		game.SetGameMaster(input.BotUserID, entities.EmoName, true)
	} else {
		idx := input.GameMasterChoice - 1
		game.SetGameMaster(input.PlayerIDs[idx], input.PlayerNames[idx], false)
	}

	game.AddHistory(s.historyEntry(entities.HistoryEventGameCreated, map[string]string{
		"created_by":  input.CreatorID,
		"game_master": game.GameMaster,
	}))

	if err := s.repository.Save(ctx, game); err != nil {
		return nil, dnderr.Wrap(err, "failed to save game")
	}

	log.Printf("[Games] Created game in channel %s with %d players (GM: %s)", game.ChannelID, len(game.PlayerIDs), game.GameMaster)
	return game, nil
}

func (s *service) GetGame(ctx context.Context, channelID string) (*entities.GameSession, error) {
	if channelID == "" {
		return nil, dnderr.InvalidArgument("channel ID is required")
	}
	game, err := s.repository.Get(ctx, channelID)
	if err != nil {
		if dnderr.IsNotFound(err) {
			return nil, dnderr.NotFound("There is no active D&D game in this channel.").
				WithMeta("channel_id", channelID)
		}
		return nil, dnderr.Wrapf(err, "failed to get game for channel '%s'", channelID)
	}
	return game, nil
}

func (s *service) GetGameByLinkedChannel(ctx context.Context, id string) (*entities.GameSession, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("channel ID is required")
	}
	game, err := s.repository.GetByLinkedChannel(ctx, id)
	if err != nil {
		if dnderr.IsNotFound(err) {
			return nil, dnderr.NotFound("There is no active D&D game associated with this channel or thread.").
				WithMeta("channel_id", id)
		}
		return nil, dnderr.Wrapf(err, "failed to resolve linked channel '%s'", id)
	}
	return game, nil
}

func (s *service) ListGames(ctx context.Context) ([]*entities.GameSession, error) {
	list, err := s.repository.List(ctx)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list games")
	}
	return list, nil
}

func (s *service) EndGame(ctx context.Context, input *EndGameInput) (*entities.GameSession, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}

	var game *entities.GameSession
	if input.IsThread {
		found, err := s.repository.GetByLinkedChannel(ctx, input.ChannelID)
		if err != nil && !dnderr.IsNotFound(err) {
			return nil, dnderr.Wrap(err, "failed to resolve thread")
		}
		if found == nil || found.OOCThreadID != input.ChannelID || found.ICChannelID != input.ParentChannelID {
			return nil, dnderr.NotFound("No active D&D game found associated with this thread.").
				WithMeta("thread_id", input.ChannelID)
		}
		game = found
	} else {
		found, err := s.GetGame(ctx, input.ChannelID)
		if err != nil {
			return nil, err
		}
		game = found
	}

	if !game.CanManage(input.UserID) {
		return nil, dnderr.PermissionDenied("Only the game creator or Game Master can end this game.").
			WithMeta("user_id", input.UserID)
	}
	if !input.IsThread && game.HasStarted() {
		return nil, dnderr.FailedPrecondition("This game has started. Please use `!end_dnd` in the OOC thread to end it.")
	}

	if err := game.End(); err != nil {
		return nil, err
	}
	if err := s.repository.Delete(ctx, game.ChannelID); err != nil {
		return nil, dnderr.Wrap(err, "failed to delete game")
	}

	s.cleanup(ctx, game)

	log.Printf("[Games] Ended game in channel %s (started: %v)", game.ChannelID, game.HasStarted())
	return game, nil
}

// cleanup drops narration memory and any unfinished drafts. Failures are
// logged since the game record is already gone.
func (s *service) cleanup(ctx context.Context, game *entities.GameSession) {
	if s.narrationRepo != nil {
		for _, id := range []string{game.ICChannelID, game.ChannelID} {
			if id == "" {
				continue
			}
			if err := s.narrationRepo.Delete(ctx, id); err != nil {
				log.Printf("[Games] Failed to delete narration state for %s: %v", id, err)
			}
		}
	}

	drafts, err := s.selectionsRepo.ListByGame(ctx, game.ChannelID)
	if err != nil {
		log.Printf("[Games] Failed to list drafts for %s: %v", game.ChannelID, err)
		return
	}
	for _, d := range drafts {
		if err := s.selectionsRepo.Delete(ctx, d.GameID, d.PlayerID); err != nil {
			log.Printf("[Games] Failed to delete draft for player %s: %v", d.PlayerID, err)
		}
	}
}

func (s *service) SaveCharacter(ctx context.Context, input *SaveCharacterInput) (*entities.GameSession, error) {
	if input == nil || input.Character == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}

	game, err := s.repository.Get(ctx, input.ChannelID)
	if err != nil {
		if dnderr.IsNotFound(err) {
			return nil, dnderr.NotFound("There is no active D&D game in this channel. Use `!dnd` to create one first.")
		}
		return nil, dnderr.Wrap(err, "failed to get game")
	}

	if err := input.Character.Validate(); err != nil {
		return nil, err
	}
	if input.Character.CreatedAt.IsZero() {
		input.Character.CreatedAt = s.clock.Now()
	}
	if err := game.SetCharacter(input.PlayerID, input.Character); err != nil {
		return nil, err
	}

	if err := s.repository.Save(ctx, game); err != nil {
		return nil, dnderr.Wrap(err, "failed to save character")
	}

	log.Printf("[Games] Saved character %s for player %s in %s", input.Character.Name, input.PlayerID, game.ChannelID)
	return game, nil
}

func (s *service) MissingCharacters(ctx context.Context, channelID string) ([]string, error) {
	game, err := s.GetGame(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return game.MissingCharacters(), nil
}

func (s *service) SetupCampaign(ctx context.Context, input *SetupCampaignInput) (*SetupCampaignResult, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}

	game, err := s.GetGame(ctx, input.ChannelID)
	if err != nil {
		return nil, err
	}
	if err := CheckCampaignSetup(game, input.UserID); err != nil {
		return nil, err
	}
	if err := game.Activate(input.Theme); err != nil {
		return nil, err
	}

	result := &SetupCampaignResult{Game: game, Skipped: make(map[string]error)}
	now := s.clock.Now()

	for _, playerID := range game.PlayerIDs {
		char, _ := game.Character(playerID)
		draft, err := s.prepareCharacter(game, playerID, char, now)
		if err != nil {
			log.Printf("[Games] Skipping kit for player %s: %v", playerID, err)
			result.Skipped[playerID] = err
			continue
		}
		if draft == nil {
			continue
		}
		if err := s.selectionsRepo.Save(ctx, draft); err != nil {
			return nil, dnderr.Wrapf(err, "failed to save selection draft for player '%s'", playerID)
		}
		result.Drafts = append(result.Drafts, draft)
	}

	game.AddHistory(s.historyEntry(entities.HistoryEventCampaignThemeSet, map[string]string{
		"theme": game.Theme,
	}))

	if err := s.repository.Save(ctx, game); err != nil {
		return nil, dnderr.Wrap(err, "failed to save game")
	}

	log.Printf("[Games] Campaign '%s' set up in %s, %d drafts opened", game.Theme, game.ChannelID, len(result.Drafts))
	return result, nil
}

// CheckCampaignSetup applies the !campaign_setup preconditions that do not
// depend on the theme, so the handler can refuse before asking for one.
func CheckCampaignSetup(game *entities.GameSession, userID string) error {
	if !game.IsAIGM {
		return dnderr.FailedPrecondition("This command is only available for games with Emo as the Game Master.")
	}
	if game.State != entities.GameStateSetup {
		return dnderr.FailedPrecondition("The campaign can only be set up during the initial setup phase.")
	}
	if !game.CanManage(userID) {
		return dnderr.PermissionDenied("Only the game creator or Game Master (DM) can set up the campaign.")
	}
	if missing := game.MissingCharacters(); len(missing) > 0 {
		return dnderr.FailedPrecondition("Please make your character first using `!creation` or `!random`.").
			WithMeta("missing", missing)
	}
	return nil
}

// prepareCharacter gives the character its race and class kit and returns
// the draft of choices the player still has to make, or nil when there are none.
func (s *service) prepareCharacter(game *entities.GameSession, playerID string, char *entities.Character, now time.Time) (*entities.SelectionDraft, error) {
	race, err := s.book.Race(char.Race)
	if err != nil {
		return nil, err
	}
	class, err := s.book.Class(char.Class)
	if err != nil {
		return nil, err
	}

	char.Languages = append([]string(nil), race.Languages...)
	char.Traits = append([]string(nil), race.Traits...)
	char.ClassFeatures = append([]string(nil), class.ClassFeatures...)
	char.ResetStats()

	fixed, groups := class.EquipmentChoices()
	char.Inventory = append([]string(nil), fixed...)

	draft := &entities.SelectionDraft{
		ID:              s.uuidGenerator.New(),
		GameID:          game.ChannelID,
		PlayerID:        playerID,
		Character:       char.Name,
		Theme:           game.Theme,
		FixedItems:      fixed,
		InventoryGroups: groups,
		InventoryPicks:  make([]string, len(groups)),
		CreatedAt:       now,
	}
	if len(groups) > 0 {
		draft.Steps = append(draft.Steps, entities.SelectionStepInventory)
	}
	if class.Skills != nil && class.Skills.Choose > 0 {
		draft.Steps = append(draft.Steps, entities.SelectionStepSkills)
		draft.SkillOptions = class.Skills.Options
		draft.SkillCount = class.Skills.Choose
	}
	if class.Spells != nil {
		if class.Spells.ChooseCantrips > 0 {
			draft.Steps = append(draft.Steps, entities.SelectionStepCantrips)
			draft.CantripOptions = class.Spells.Cantrips
			draft.CantripCount = class.Spells.ChooseCantrips
		}
		if class.Spells.ChooseSpells > 0 {
			draft.Steps = append(draft.Steps, entities.SelectionStepSpells)
			draft.SpellOptions = class.Spells.Spells
			draft.SpellCount = class.Spells.ChooseSpells
		}
	}

	if len(draft.Steps) == 0 {
		return nil, nil
	}
	return draft, nil
}

func (s *service) ApplySelections(ctx context.Context, draft *entities.SelectionDraft) (*ApplySelectionsResult, error) {
	if draft == nil {
		return nil, dnderr.InvalidArgument("draft cannot be nil")
	}

	game, err := s.GetGame(ctx, draft.GameID)
	if err != nil {
		return nil, err
	}
	char, ok := game.Character(draft.PlayerID)
	if !ok {
		return nil, dnderr.NotFound("You don't have a character in this game.").
			WithMeta("player_id", draft.PlayerID)
	}

	char.Inventory = draft.Inventory()
	if len(draft.Skills) > 0 {
		char.Skills = append([]string(nil), draft.Skills...)
	}
	if len(draft.Cantrips) > 0 {
		char.Cantrips = append([]string(nil), draft.Cantrips...)
	}
	if len(draft.Spells) > 0 {
		char.Spells = append([]string(nil), draft.Spells...)
	}

	if err := s.repository.Save(ctx, game); err != nil {
		return nil, dnderr.Wrap(err, "failed to save character choices")
	}
	if err := s.selectionsRepo.Delete(ctx, draft.GameID, draft.PlayerID); err != nil {
		log.Printf("[Games] Failed to clear draft for player %s: %v", draft.PlayerID, err)
	}

	remaining, err := s.selectionsRepo.ListByGame(ctx, draft.GameID)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to check remaining drafts")
	}

	log.Printf("[Games] Player %s finished choices for %s (%d drafts left)", draft.PlayerID, char.Name, len(remaining))
	return &ApplySelectionsResult{
		Game:      game,
		Character: char,
		AllDone:   len(remaining) == 0,
	}, nil
}

func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*entities.GameSession, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}
	if input.ICChannelID == "" || input.OOCThreadID == "" {
		return nil, dnderr.InvalidArgument("IC channel and OOC thread are required")
	}

	game, err := s.GetGame(ctx, input.ChannelID)
	if err != nil {
		return nil, err
	}
	if err := game.Start(input.ICChannelID, input.OOCThreadID); err != nil {
		return nil, err
	}

	game.AddHistory(s.historyEntry(entities.HistoryEventGameStarted, map[string]string{
		"ic_channel_id": input.ICChannelID,
		"ooc_thread_id": input.OOCThreadID,
	}))

	if err := s.repository.Save(ctx, game); err != nil {
		return nil, dnderr.Wrap(err, "failed to save game")
	}

	log.Printf("[Games] Game %s started (IC: %s, OOC: %s)", game.ChannelID, game.ICChannelID, game.OOCThreadID)
	return game, nil
}

// CheckStart applies the !start preconditions before any channel is created.
func CheckStart(game *entities.GameSession) error {
	if !game.IsAIGM {
		return dnderr.FailedPrecondition("This command is only available for games with Emo as the Game Master.")
	}
	if game.State != entities.GameStateActive {
		return dnderr.FailedPrecondition("The game hasn't been fully set up yet. Complete the campaign setup with `!campaign_setup` first.")
	}
	if missing := game.MissingCharacters(); len(missing) > 0 {
		return dnderr.FailedPrecondition("A player hasn't created a character yet. Use `!creation` or `!random`.").
			WithMeta("missing", missing)
	}
	return nil
}

func (s *service) ApplyHPChange(ctx context.Context, channelID, playerID string, delta int) (*entities.Character, error) {
	return s.updateCharacter(ctx, channelID, playerID, func(g *entities.GameSession) (*entities.Character, bool) {
		return g.ApplyHPChange(playerID, delta)
	})
}

func (s *service) AwardExp(ctx context.Context, channelID, playerID string, amount int) (*entities.Character, error) {
	return s.updateCharacter(ctx, channelID, playerID, func(g *entities.GameSession) (*entities.Character, bool) {
		return g.AwardExp(playerID, amount)
	})
}

func (s *service) updateCharacter(ctx context.Context, channelID, playerID string, apply func(*entities.GameSession) (*entities.Character, bool)) (*entities.Character, error) {
	game, err := s.GetGame(ctx, channelID)
	if err != nil {
		return nil, err
	}
	char, ok := apply(game)
	if !ok {
		return nil, dnderr.NotFound("I don't recognize you in this game!").
			WithMeta("player_id", playerID)
	}
	if err := s.repository.Save(ctx, game); err != nil {
		return nil, dnderr.Wrap(err, "failed to save character stats")
	}
	return char, nil
}

func (s *service) AddHistory(ctx context.Context, channelID string, event entities.HistoryEvent, details map[string]string) error {
	game, err := s.GetGame(ctx, channelID)
	if err != nil {
		return err
	}
	game.AddHistory(s.historyEntry(event, details))
	if err := s.repository.Save(ctx, game); err != nil {
		return dnderr.Wrap(err, "failed to save history")
	}
	return nil
}

func (s *service) historyEntry(event entities.HistoryEvent, details map[string]string) *entities.HistoryEntry {
	return &entities.HistoryEntry{
		ID:        s.uuidGenerator.New(),
		Event:     event,
		Details:   details,
		Timestamp: s.clock.Now(),
	}
}
