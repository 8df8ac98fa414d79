package services

import (
	"github.com/KirkDiggler/emo-bot-discord/internal/clients/dnd5e"
	"github.com/KirkDiggler/emo-bot-discord/internal/clients/llm"
	"github.com/KirkDiggler/emo-bot-discord/internal/dice"
	"github.com/KirkDiggler/emo-bot-discord/internal/domain/rulebook"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/conversations"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/games"
	narrationRepo "github.com/KirkDiggler/emo-bot-discord/internal/repositories/narration"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/selections"
	characterService "github.com/KirkDiggler/emo-bot-discord/internal/services/character"
	chatService "github.com/KirkDiggler/emo-bot-discord/internal/services/chat"
	gameService "github.com/KirkDiggler/emo-bot-discord/internal/services/game"
	narrationService "github.com/KirkDiggler/emo-bot-discord/internal/services/narration"
)

// Provider holds all service instances
type Provider struct {
	CharacterService characterService.Service
	GameService      gameService.Service
	ChatService      chatService.Service
	NarrationService narrationService.Service

	// SelectionsRepo is shared with the kit menus, which save picks directly
	SelectionsRepo selections.Repository
	Rulebook       *rulebook.Book
	Roller         dice.Roller
}

// ProviderConfig holds configuration for creating services. Every repository
// is optional and falls back to an in-memory one.
type ProviderConfig struct {
	DNDClient dnd5e.Client // Optional, SRD lookups report unavailable if nil
	LLMClient llm.Client   // Optional, uses llm.NewDisabled if nil

	GameRepository         games.Repository
	SelectionsRepository   selections.Repository
	ConversationRepository conversations.Repository
	NarrationRepository    narrationRepo.Repository

	Roller   dice.Roller
	Rulebook *rulebook.Book
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	if cfg == nil {
		cfg = &ProviderConfig{}
	}

	gameRepo := cfg.GameRepository
	if gameRepo == nil {
		gameRepo = games.NewInMemoryRepository()
	}
	selectionsRepo := cfg.SelectionsRepository
	if selectionsRepo == nil {
		selectionsRepo = selections.NewInMemory()
	}
	conversationRepo := cfg.ConversationRepository
	if conversationRepo == nil {
		conversationRepo = conversations.NewInMemory()
	}
	var narrationStore narrationRepo.Repository = cfg.NarrationRepository
	if narrationStore == nil {
		narrationStore = narrationRepo.NewInMemoryRepository()
	}

	llmClient := cfg.LLMClient
	if llmClient == nil {
		llmClient = llm.NewDisabled()
	}
	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRandomRoller()
	}
	book := cfg.Rulebook
	if book == nil {
		book = rulebook.Default()
	}

	gameSvc := gameService.NewService(&gameService.ServiceConfig{
		Repository:     gameRepo,
		SelectionsRepo: selectionsRepo,
		NarrationRepo:  narrationStore,
		Rulebook:       book,
	})

	return &Provider{
		CharacterService: characterService.NewService(&characterService.ServiceConfig{
			Roller:    roller,
			Rulebook:  book,
			DNDClient: cfg.DNDClient,
		}),
		GameService: gameSvc,
		ChatService: chatService.NewService(&chatService.ServiceConfig{
			Repository: conversationRepo,
			LLMClient:  llmClient,
		}),
		NarrationService: narrationService.NewService(&narrationService.ServiceConfig{
			Repository:  narrationStore,
			LLMClient:   llmClient,
			GameService: gameSvc,
		}),
		SelectionsRepo: selectionsRepo,
		Rulebook:       book,
		Roller:         roller,
	}
}
